package spell

import (
	"slices"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// newCollator returns a pt-BR collator that ignores case. Accented letters
// sort with their base letter. Collators are not safe for concurrent use, so
// every call site builds its own.
func newCollator() *collate.Collator {
	return collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
}

// CompareNames orders two names the way the dataset is ordered.
func CompareNames(a, b string) int {
	return newCollator().CompareString(a, b)
}

// SortByName sorts spells in place by name. The sort is stable, so sorting an
// already sorted dataset leaves it untouched.
func SortByName(spells []Spell) {
	c := newCollator()
	sort.SliceStable(spells, func(i, j int) bool {
		return c.CompareString(spells[i].Name, spells[j].Name) < 0
	})
}

// IsSortedByName reports whether names are already in dataset order.
func IsSortedByName(names []string) bool {
	c := newCollator()
	return slices.IsSortedFunc(names, c.CompareString)
}

// SortStrings returns a sorted copy of names in dataset order.
func SortStrings(names []string) []string {
	out := slices.Clone(names)
	c := newCollator()
	slices.SortStableFunc(out, c.CompareString)
	return out
}

// SortClasses returns the classes de-duplicated and sorted case-insensitively.
func SortClasses(classes []Class) []Class {
	seen := make(map[Class]bool, len(classes))
	out := make([]Class, 0, len(classes))
	for _, c := range classes {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	coll := newCollator()
	slices.SortStableFunc(out, func(a, b Class) int {
		return coll.CompareString(string(a), string(b))
	})
	return out
}
