package pdftext

import (
	"testing"
)

func TestContentText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "Tj with Td line breaks",
			content: "BT /F1 12 Tf 72 720 Td (Bola de Fogo) Tj 0 -14 Td (2\xba C\xedrculo, Evoca\xe7\xe3o \\(Mago\\)) Tj ET",
			want:    "Bola de Fogo\n2º Círculo, Evocação (Mago)",
		},
		{
			name:    "horizontal Td separates words",
			content: "BT (Bola) Tj 40 0 Td (de Fogo) Tj ET",
			want:    "Bola de Fogo",
		},
		{
			name:    "TJ arrays with kerning gaps",
			content: "BT [(M) 20 (\xe3os) -300 (Flamejantes)] TJ ET",
			want:    "Mãos Flamejantes",
		},
		{
			name:    "T* and quote operators",
			content: "BT (Luz) Tj T* (Alarme) Tj (Amigos) ' 1 2 (Arrombar) \" ET",
			want:    "Luz\nAlarme\nAmigos\nArrombar",
		},
		{
			name:    "Tm with new y starts a line",
			content: "BT 1 0 0 1 72 700 Tm (Voo) Tj 1 0 0 1 72 680 Tm (Zona da Verdade) Tj ET",
			want:    "Voo\nZona da Verdade",
		},
		{
			name:    "hex and utf-16 strings",
			content: "BT <4C757A> Tj T* <FEFF00C20063006F00720061> Tj ET",
			want:    "Luz\nÂcora",
		},
		{
			name:    "octal escapes and comments",
			content: "% header comment\nBT (B\\352n\\347\\343o) Tj ET",
			want:    "Bênção",
		},
		{
			name:    "inline images are skipped",
			content: "BI /W 2 /H 2 /BPC 8 ID \x00\x01(\x02) EI BT (Texto) Tj ET",
			want:    "Texto",
		},
		{
			name:    "marked content dictionaries",
			content: "/Span <</ActualText (x) /MCID 3>> BDC BT (Luz) Tj ET EMC",
			want:    "Luz",
		},
		{
			name:    "nested parentheses",
			content: "BT (Aumentar (ou Reduzir)) Tj ET",
			want:    "Aumentar (ou Reduzir)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ContentText([]byte(tt.content))
			if got != tt.want {
				t.Errorf("ContentText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeString(t *testing.T) {
	if got := decodeString([]byte{0x43, 0xe9, 0x75}); got != "Céu" {
		t.Errorf("expected Windows-1252 decoding, got %q", got)
	}
	if got := decodeString([]byte{0xfe, 0xff, 0x00, 0x4f, 0x00, 0x6b}); got != "Ok" {
		t.Errorf("expected UTF-16 decoding, got %q", got)
	}
}
