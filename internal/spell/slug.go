package spell

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fallbackSlug is used for names that contain no letters or digits at all.
const fallbackSlug = "spell"

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a display name into an ASCII identifier:
// "Mãos Flamejantes" -> "maos-flamejantes".
func Slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}
	return strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(stripped), "-"), "-")
}

// IDAllocator hands out unique ids in the order names are seen. The nth
// occurrence of a slug (n >= 2) is suffixed with n.
type IDAllocator struct {
	seen map[string]int
	used map[string]bool
}

// NewIDAllocator creates an empty allocator.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{
		seen: make(map[string]int),
		used: make(map[string]bool),
	}
}

// Allocate returns the id for the next occurrence of name.
func (a *IDAllocator) Allocate(name string) string {
	slug := Slugify(name)
	if slug == "" {
		slug = fallbackSlug
	}

	a.seen[slug]++
	n := a.seen[slug]
	id := slug
	if n > 1 {
		id = fmt.Sprintf("%s-%d", slug, n)
	}
	// A suffixed id can clash with another name's natural slug
	// ("Passo 2" vs the second "Passo"); keep counting until free.
	for a.used[id] {
		n++
		a.seen[slug] = n
		id = fmt.Sprintf("%s-%d", slug, n)
	}
	a.used[id] = true
	return id
}
