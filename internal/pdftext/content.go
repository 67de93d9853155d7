package pdftext

import (
	"bytes"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// kerningGap is the TJ displacement (thousandths of an em) treated as a word
// break.
const kerningGap = -200

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokString
	tokName
	tokOperator
	tokArray
	tokDict
)

type token struct {
	kind  tokenKind
	num   float64
	str   []byte
	text  string
	items []token
}

// ContentText interprets a decoded content stream and returns the shown text,
// one output line per text line of the page.
func ContentText(content []byte) string {
	l := &lexer{data: content}
	w := &textWriter{}

	var (
		operands []token
		lastY    float64
		haveY    bool
	)

	for {
		tok, ok := l.next()
		if !ok {
			break
		}
		if tok.kind != tokOperator {
			operands = append(operands, tok)
			continue
		}

		switch tok.text {
		case "Tj":
			if s, ok := lastOperand(operands, tokString); ok {
				w.show(s.str)
			}
		case "'":
			w.newline()
			if s, ok := lastOperand(operands, tokString); ok {
				w.show(s.str)
			}
		case `"`:
			w.newline()
			if s, ok := lastOperand(operands, tokString); ok {
				w.show(s.str)
			}
		case "TJ":
			if arr, ok := lastOperand(operands, tokArray); ok {
				for _, item := range arr.items {
					switch item.kind {
					case tokString:
						w.show(item.str)
					case tokNumber:
						if item.num < kerningGap {
							w.space()
						}
					}
				}
			}
		case "Td", "TD":
			if len(operands) >= 2 {
				if operands[len(operands)-1].num != 0 {
					w.newline()
				} else if operands[len(operands)-2].num > 0 {
					w.space()
				}
			}
		case "T*":
			w.newline()
		case "Tm":
			if len(operands) >= 6 {
				y := operands[len(operands)-1].num
				if haveY && y != lastY {
					w.newline()
				}
				lastY, haveY = y, true
			}
		case "ET":
			w.space()
		case "ID":
			l.skipInlineImage()
		}
		operands = operands[:0]
	}

	return w.String()
}

func lastOperand(operands []token, kind tokenKind) (token, bool) {
	if len(operands) == 0 {
		return token{}, false
	}
	t := operands[len(operands)-1]
	return t, t.kind == kind
}

// textWriter accumulates shown text, folding repeated separators.
type textWriter struct {
	lines []string
	cur   strings.Builder
}

func (w *textWriter) show(raw []byte) {
	w.cur.WriteString(decodeString(raw))
}

func (w *textWriter) space() {
	s := w.cur.String()
	if s != "" && !strings.HasSuffix(s, " ") {
		w.cur.WriteByte(' ')
	}
}

func (w *textWriter) newline() {
	if line := strings.TrimSpace(w.cur.String()); line != "" {
		w.lines = append(w.lines, line)
	}
	w.cur.Reset()
}

func (w *textWriter) String() string {
	w.newline()
	return strings.Join(w.lines, "\n")
}

// decodeString maps PDF string bytes to text: UTF-16BE when the string
// carries a byte order mark, Windows-1252 otherwise.
func decodeString(raw []byte) string {
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		if out, err := dec.Bytes(raw); err == nil {
			return string(out)
		}
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

// lexer splits a content stream into tokens.
type lexer struct {
	data []byte
	pos  int
}

func isWhite(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (l *lexer) skipWhite() {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if isWhite(c) {
			l.pos++
			continue
		}
		if c == '%' {
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
			continue
		}
		return
	}
}

// next returns the next token; arrays and dictionaries come back whole.
func (l *lexer) next() (token, bool) {
	for {
		l.skipWhite()
		if l.pos >= len(l.data) {
			return token{}, false
		}

		c := l.data[l.pos]
		switch {
		case c == '(':
			l.pos++
			return token{kind: tokString, str: l.literalString()}, true
		case c == '<' && l.peek(1) == '<':
			l.pos += 2
			return l.collect(tokDict, ">>"), true
		case c == '<':
			l.pos++
			return token{kind: tokString, str: l.hexString()}, true
		case c == '[':
			l.pos++
			return l.collect(tokArray, "]"), true
		case c == '/':
			l.pos++
			return token{kind: tokName, text: l.regular()}, true
		case c == ']' || c == ')' || c == '>' || c == '{' || c == '}':
			// Stray delimiter; skip it.
			l.pos++
			continue
		default:
			word := l.regular()
			if word == "" {
				l.pos++
				continue
			}
			if n, err := strconv.ParseFloat(word, 64); err == nil {
				return token{kind: tokNumber, num: n}, true
			}
			return token{kind: tokOperator, text: word}, true
		}
	}
}

func (l *lexer) peek(offset int) byte {
	if l.pos+offset < len(l.data) {
		return l.data[l.pos+offset]
	}
	return 0
}

// collect reads tokens up to the closing delimiter.
func (l *lexer) collect(kind tokenKind, closing string) token {
	t := token{kind: kind}
	for {
		l.skipWhite()
		if l.pos >= len(l.data) {
			return t
		}
		if bytes.HasPrefix(l.data[l.pos:], []byte(closing)) {
			l.pos += len(closing)
			return t
		}
		item, ok := l.next()
		if !ok {
			return t
		}
		t.items = append(t.items, item)
	}
}

func (l *lexer) regular() string {
	start := l.pos
	for l.pos < len(l.data) && !isWhite(l.data[l.pos]) && !isDelim(l.data[l.pos]) {
		l.pos++
	}
	return string(l.data[start:l.pos])
}

func (l *lexer) literalString() []byte {
	var out []byte
	depth := 1
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		switch c {
		case '\\':
			if l.pos >= len(l.data) {
				return out
			}
			e := l.data[l.pos]
			l.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r':
				if l.pos < len(l.data) && l.data[l.pos] == '\n' {
					l.pos++
				}
			case '\n':
			case '0', '1', '2', '3', '4', '5', '6', '7':
				v := int(e - '0')
				for k := 0; k < 2 && l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '7'; k++ {
					v = v*8 + int(l.data[l.pos]-'0')
					l.pos++
				}
				out = append(out, byte(v))
			default:
				out = append(out, e)
			}
		case '(':
			depth++
			out = append(out, c)
		case ')':
			depth--
			if depth == 0 {
				return out
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return out
}

func (l *lexer) hexString() []byte {
	var digits []byte
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		if c == '>' {
			break
		}
		if isWhite(c) {
			continue
		}
		digits = append(digits, c)
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, 0, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		v, err := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		if err != nil {
			continue
		}
		out = append(out, byte(v))
	}
	return out
}

// skipInlineImage moves past inline image data, which ends at "EI" preceded
// by whitespace.
func (l *lexer) skipInlineImage() {
	for l.pos+2 <= len(l.data) {
		if isWhite(l.data[l.pos]) && l.pos+3 <= len(l.data) &&
			l.data[l.pos+1] == 'E' && l.data[l.pos+2] == 'I' &&
			(l.pos+3 == len(l.data) || isWhite(l.data[l.pos+3]) || isDelim(l.data[l.pos+3])) {
			l.pos += 3
			return
		}
		l.pos++
	}
	l.pos = len(l.data)
}
