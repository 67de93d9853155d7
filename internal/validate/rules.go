package validate

import (
	"fmt"
	"strings"

	"github.com/jackzampolin/spellbook/internal/spell"
)

// textFields must be non-blank.
var textFields = []string{"castingTime", "range", "components", "duration"}

// checkRules applies the content rules to every record. Values that are
// missing or of the wrong type are left to the schema check.
func checkRules(records []any) []Violation {
	ids := make(map[string]int)
	for _, r := range records {
		if id, ok := stringField(r, "id"); ok {
			ids[id]++
		}
	}

	var out []Violation
	for i, r := range records {
		rc := recordCheck{index: i + 1, id: recordID(r), rec: r}
		rc.run(ids)
		out = append(out, rc.violations...)
	}

	if v, ok := checkOrder(records); !ok {
		out = append(out, v)
	}
	return out
}

type recordCheck struct {
	index      int
	id         string
	rec        any
	violations []Violation
}

func (c *recordCheck) add(field, format string, args ...any) {
	c.violations = append(c.violations, Violation{
		Index:   c.index,
		ID:      c.id,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

func (c *recordCheck) run(ids map[string]int) {
	if _, ok := c.rec.(map[string]any); !ok {
		// Already reported by the schema.
		return
	}

	if id, ok := stringField(c.rec, "id"); ok && ids[id] > 1 {
		c.add("id", "duplicate id")
	}

	if name, ok := stringField(c.rec, "name"); ok && strings.TrimSpace(name) == "" {
		c.add("name", "empty name")
	}
	if desc, ok := stringField(c.rec, "description"); ok && strings.TrimSpace(desc) == "" {
		c.add("description", "empty description")
	}

	if level, ok := intField(c.rec, "level"); ok && !spell.ValidLevel(level) {
		c.add("level", "level out of range (%d)", level)
	}

	if school, ok := stringField(c.rec, "school"); ok && !spell.School(school).Valid() {
		c.add("school", "unknown school (%s)", school)
	}

	for _, field := range textFields {
		if v, ok := stringField(c.rec, field); ok && strings.TrimSpace(v) == "" {
			c.add(field, "empty %s", field)
		}
	}

	castingTime, ctOK := stringField(c.rec, "castingTime")
	if ritual, ok := boolField(c.rec, "ritual"); ok && ctOK && ritual != spell.IsRitual(castingTime) {
		c.add("ritual", "ritual inconsistent with castingTime")
	}
	duration, durOK := stringField(c.rec, "duration")
	if conc, ok := boolField(c.rec, "concentration"); ok && durOK && conc != spell.IsConcentration(duration) {
		c.add("concentration", "concentration inconsistent with duration")
	}

	c.checkClasses()
}

func (c *recordCheck) checkClasses() {
	m := c.rec.(map[string]any)
	raw, present := m["classes"]
	if !present {
		return
	}
	classes, ok := raw.([]any)
	if !ok || len(classes) == 0 {
		c.add("classes", "classes empty or not a list")
		return
	}

	var unknown []string
	for _, v := range classes {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if !spell.Class(s).Valid() {
			unknown = append(unknown, s)
		}
	}
	if len(unknown) > 0 {
		c.add("classes", "unknown classes (%s)", strings.Join(unknown, ", "))
	}
}

// checkOrder reports a dataset-wide violation when records are not in
// name order.
func checkOrder(records []any) (Violation, bool) {
	names := make([]string, len(records))
	for i, r := range records {
		names[i], _ = stringField(r, "name")
	}
	if spell.IsSortedByName(names) {
		return Violation{}, true
	}
	return Violation{Field: "name", Message: "dataset is not sorted by name (pt-BR)"}, false
}
