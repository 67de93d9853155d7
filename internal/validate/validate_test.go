package validate

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackzampolin/spellbook/internal/dataset"
	"github.com/jackzampolin/spellbook/internal/spell"
	"github.com/jackzampolin/spellbook/internal/svcctx"
	"github.com/jackzampolin/spellbook/internal/testutil"
)

// rec returns a valid raw record, as decoded from JSON.
func rec(id, name string, level float64) map[string]any {
	return map[string]any{
		"id":             id,
		"name":           name,
		"level":          level,
		"school":         "Evocação",
		"classes":        []any{"Mago"},
		"castingTime":    "Ação",
		"range":          "Pessoal",
		"components":     "V, S",
		"duration":       "Instantânea",
		"ritual":         false,
		"concentration":  false,
		"description":    "Texto.",
		"atHigherLevels": nil,
		"cantripUpgrade": nil,
	}
}

func doc(records ...map[string]any) []any {
	out := make([]any, len(records))
	for i, r := range records {
		out[i] = r
	}
	return out
}

func with(r map[string]any, key string, value any) map[string]any {
	r[key] = value
	return r
}

func without(r map[string]any, key string) map[string]any {
	delete(r, key)
	return r
}

func TestValidateClean(t *testing.T) {
	report, err := Validate(doc(
		rec("amizade", "Amizade", 0),
		rec("bencao", "Bênção", 1),
		with(rec("passo-nebuloso", "Passo Nebuloso", 2), "cantripUpgrade", "Aprimoramento de Truque. X"),
	))
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !report.OK() {
		t.Fatalf("unexpected violations: %v", report.Violations)
	}
	if report.Err() != nil {
		t.Errorf("Err() = %v, want nil", report.Err())
	}
	if report.Total != 3 {
		t.Errorf("Total = %d, want 3", report.Total)
	}
	for level := 0; level <= 2; level++ {
		if report.LevelCounts[level] != 1 {
			t.Errorf("LevelCounts[%d] = %d, want 1", level, report.LevelCounts[level])
		}
	}
}

func TestValidateSingleViolation(t *testing.T) {
	tests := []struct {
		name    string
		doc     []any
		index   int
		field   string
		message string
	}{
		{
			name:    "level out of range",
			doc:     doc(rec("amizade", "Amizade", 0), rec("bola-de-fogo", "Bola de Fogo", 3)),
			index:   2,
			field:   "level",
			message: "level out of range (3)",
		},
		{
			name:    "concentration inconsistent",
			doc:     doc(with(rec("escudo", "Escudo", 1), "duration", "Até 1 minuto (Concentração)")),
			index:   1,
			field:   "concentration",
			message: "concentration inconsistent with duration",
		},
		{
			name:    "ritual inconsistent",
			doc:     doc(with(rec("alarme", "Alarme", 1), "ritual", true)),
			index:   1,
			field:   "ritual",
			message: "ritual inconsistent with castingTime",
		},
		{
			name:    "unknown school",
			doc:     doc(with(rec("luz", "Luz", 0), "school", "Cronomancia")),
			index:   1,
			field:   "school",
			message: "unknown school (Cronomancia)",
		},
		{
			name:    "empty name",
			doc:     doc(with(rec("luz", "Luz", 0), "name", " ")),
			index:   1,
			field:   "name",
			message: "empty name",
		},
		{
			name:    "empty description",
			doc:     doc(with(rec("luz", "Luz", 0), "description", "")),
			index:   1,
			field:   "description",
			message: "empty description",
		},
		{
			name:    "empty range",
			doc:     doc(with(rec("luz", "Luz", 0), "range", "")),
			index:   1,
			field:   "range",
			message: "empty range",
		},
		{
			name:    "classes empty",
			doc:     doc(with(rec("luz", "Luz", 0), "classes", []any{})),
			index:   1,
			field:   "classes",
			message: "classes empty or not a list",
		},
		{
			name:    "classes not a list",
			doc:     doc(with(rec("luz", "Luz", 0), "classes", "Mago")),
			index:   1,
			field:   "classes",
			message: "classes empty or not a list",
		},
		{
			name:    "unknown class",
			doc:     doc(with(rec("luz", "Luz", 0), "classes", []any{"Mago", "Artífice"})),
			index:   1,
			field:   "classes",
			message: "unknown classes (Artífice)",
		},
		{
			name:    "unsorted",
			doc:     doc(rec("luz", "Luz", 0), rec("amizade", "Amizade", 0)),
			index:   0,
			field:   "name",
			message: "dataset is not sorted by name (pt-BR)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := Validate(tt.doc)
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if len(report.Violations) != 1 {
				t.Fatalf("got %d violations, want 1: %v", len(report.Violations), report.Violations)
			}
			v := report.Violations[0]
			if v.Index != tt.index || v.Field != tt.field || v.Message != tt.message {
				t.Errorf("violation = %+v, want index=%d field=%s message=%q", v, tt.index, tt.field, tt.message)
			}
			if !errors.Is(report.Err(), ErrInvalidDataset) {
				t.Errorf("Err() = %v, want ErrInvalidDataset", report.Err())
			}
		})
	}
}

func TestValidateLevelThreeNamesRecord(t *testing.T) {
	report, err := Validate(doc(rec("bola-de-fogo", "Bola de Fogo", 3)))
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Violations) != 1 {
		t.Fatalf("violations = %v", report.Violations)
	}
	if got := report.Violations[0].String(); got != "#1 [bola-de-fogo]: level out of range (3)" {
		t.Errorf("String() = %q", got)
	}
	// Out-of-range levels are not counted in the summary buckets.
	if report.LevelCounts[0]+report.LevelCounts[1]+report.LevelCounts[2] != 0 {
		t.Errorf("LevelCounts = %v", report.LevelCounts)
	}
}

func TestValidateShape(t *testing.T) {
	t.Run("wrong type reported once", func(t *testing.T) {
		report, err := Validate(doc(with(rec("luz", "Luz", 0), "level", "0")))
		if err != nil {
			t.Fatal(err)
		}
		if len(report.Violations) != 1 {
			t.Fatalf("violations = %v", report.Violations)
		}
		v := report.Violations[0]
		if v.Index != 1 || v.ID != "luz" || v.Field != "level" {
			t.Errorf("violation = %+v", v)
		}
	})

	t.Run("missing key reported once", func(t *testing.T) {
		report, err := Validate(doc(without(rec("luz", "Luz", 0), "range")))
		if err != nil {
			t.Fatal(err)
		}
		if len(report.Violations) != 1 {
			t.Fatalf("violations = %v", report.Violations)
		}
		if v := report.Violations[0]; v.Index != 1 || !strings.Contains(v.Message, "range") {
			t.Errorf("violation = %+v", v)
		}
	})

	t.Run("fractional level", func(t *testing.T) {
		report, err := Validate(doc(with(rec("luz", "Luz", 0), "level", 1.5)))
		if err != nil {
			t.Fatal(err)
		}
		if len(report.Violations) != 1 || report.Violations[0].Field != "level" {
			t.Errorf("violations = %v", report.Violations)
		}
	})

	t.Run("non-null segment must be a string", func(t *testing.T) {
		report, err := Validate(doc(with(rec("luz", "Luz", 0), "atHigherLevels", 3.0)))
		if err != nil {
			t.Fatal(err)
		}
		if len(report.Violations) != 1 || report.Violations[0].Field != "atHigherLevels" {
			t.Errorf("violations = %v", report.Violations)
		}
	})

	t.Run("not an array", func(t *testing.T) {
		report, err := Validate(map[string]any{"spells": []any{}})
		if err != nil {
			t.Fatal(err)
		}
		if len(report.Violations) != 1 || report.Violations[0].Index != 0 {
			t.Errorf("violations = %v", report.Violations)
		}
		if report.Total != 0 {
			t.Errorf("Total = %d", report.Total)
		}
	})

	t.Run("record is not an object", func(t *testing.T) {
		report, err := Validate([]any{"luz"})
		if err != nil {
			t.Fatal(err)
		}
		if len(report.Violations) != 1 || report.Violations[0].Index != 1 {
			t.Errorf("violations = %v", report.Violations)
		}
	})
}

func TestValidateCollectsEverything(t *testing.T) {
	bad := rec("luz", "Luz", 5)
	bad["school"] = "Cronomancia"
	bad["description"] = ""
	bad["classes"] = []any{}

	report, err := Validate(doc(bad, rec("luz", "Amizade", 0)))
	if err != nil {
		t.Fatal(err)
	}
	// duplicate id (x2), level, school, description, classes, order
	if len(report.Violations) != 7 {
		t.Errorf("got %d violations, want 7: %v", len(report.Violations), report.Violations)
	}
}

func TestReportWriteText(t *testing.T) {
	t.Run("with violations", func(t *testing.T) {
		report, err := Validate(doc(rec("amizade", "Amizade", 0), rec("bola-de-fogo", "Bola de Fogo", 3)))
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if err := report.WriteText(&buf); err != nil {
			t.Fatal(err)
		}
		want := "Count by level: 0=1 1=0 2=0\n\nValidation errors:\n- #2 [bola-de-fogo]: level out of range (3)\n"
		if buf.String() != want {
			t.Errorf("WriteText() = %q, want %q", buf.String(), want)
		}
	})

	t.Run("clean", func(t *testing.T) {
		report, err := Validate(doc(rec("amizade", "Amizade", 0)))
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if err := report.WriteText(&buf); err != nil {
			t.Fatal(err)
		}
		want := "Count by level: 0=1 1=0 2=0\n\nvalidate OK (1 spells)\n"
		if buf.String() != want {
			t.Errorf("WriteText() = %q, want %q", buf.String(), want)
		}
	})
}

func TestRun(t *testing.T) {
	ctx := svcctx.WithLogger(context.Background(), testutil.Logger())
	dir := t.TempDir()

	t.Run("missing dataset", func(t *testing.T) {
		_, err := Run(ctx, Config{DatasetPath: filepath.Join(dir, "missing.json")})
		if !errors.Is(err, ErrDatasetNotFound) {
			t.Errorf("Run() error = %v, want ErrDatasetNotFound", err)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		if err := os.WriteFile(path, []byte("[{"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Run(ctx, Config{DatasetPath: path}); err == nil {
			t.Error("expected error for malformed json")
		}
	})

	t.Run("dataset written by the extractor", func(t *testing.T) {
		path := filepath.Join(dir, "spells.json")
		higher := "Usando um Espaço de Magia de Círculo Superior. Mais alvos."
		spells := []spell.Spell{
			spell.New("bencao", spell.Fields{
				Name: "Bênção", Level: 1, School: spell.Encantamento,
				Classes:     []spell.Class{spell.Paladino, spell.Clerigo},
				CastingTime: "Ação", Range: "9 metros", Components: "V, S, M",
				Duration:       "Concentração, até 1 minuto",
				Description:    "Você abençoa até três criaturas.",
				AtHigherLevels: &higher,
			}),
		}
		if err := dataset.Write(path, spells); err != nil {
			t.Fatal(err)
		}

		report, err := Run(ctx, Config{DatasetPath: path})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if !report.OK() {
			t.Errorf("violations = %v", report.Violations)
		}
	})
}
