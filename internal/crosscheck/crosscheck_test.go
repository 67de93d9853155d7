package crosscheck

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/jackzampolin/spellbook/internal/svcctx"
	"github.com/jackzampolin/spellbook/internal/testutil"
)

func TestCandidateNames(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want []string
	}{
		{
			name: "keeps names and drops metadata",
			text: "Luz\nTruque de Evocação (Bardo, Mago)\nTempo de Conjuração: Ação\nPasso Nebuloso\n2º Círculo, Conjuração (Mago)",
			want: []string{"Luz", "Passo Nebuloso"},
		},
		{
			name: "lower-case and short lines dropped",
			text: "luz\nAb\nVoo",
			want: []string{"Voo"},
		},
		{
			name: "accented capital accepted",
			text: "Âncora Planar",
			want: []string{"Âncora Planar"},
		},
		{
			name: "colon disqualifies",
			text: "Alcance: 18 metros\nDuração: Instantânea",
			want: nil,
		},
		{
			name: "duplicates collapsed",
			text: "Luz\n  Luz  \nLuz",
			want: []string{"Luz"},
		},
		{
			name: "length limit counts runes",
			text: "Ação" + strings.Repeat("é", 6) + "\nCurta",
			max:  10,
			want: []string{"Curta"},
		},
		{
			name: "default limit",
			text: "A" + strings.Repeat("a", 80) + "\nCurta",
			want: []string{"Curta"},
		},
		{
			name: "any circle number is metadata",
			text: "3º Círculo, Evocação (Mago)\nBola de Fogo",
			want: []string{"Bola de Fogo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CandidateNames(tt.text, tt.max)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CandidateNames() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	primary := []string{"Luz", "Passo Nebuloso", "Escudo Arcano"}
	secondary := []string{"Luz", "Passo Nebuloso", "Bênção", "Amizade"}

	r := Compare("pdf", primary, secondary)
	if r.Source != "pdf" {
		t.Errorf("Source = %q", r.Source)
	}
	if r.Checked != 4 {
		t.Errorf("Checked = %d, want 4", r.Checked)
	}
	if want := []string{"Amizade", "Bênção"}; !reflect.DeepEqual(r.Missing, want) {
		t.Errorf("Missing = %q, want %q", r.Missing, want)
	}
	if want := []string{"Escudo Arcano"}; !reflect.DeepEqual(r.Extra, want) {
		t.Errorf("Extra = %q, want %q", r.Extra, want)
	}
	if r.OK() {
		t.Error("OK() = true for differing sets")
	}

	same := Compare("pdf", primary, primary)
	if !same.OK() {
		t.Errorf("identical sets not OK: %+v", same)
	}
	if same.Missing == nil || same.Extra == nil {
		t.Error("empty differences should be non-nil slices")
	}
}

func TestLoadCanon(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "canon.yaml")
		data := "- name: Luz\n  page: 289\n- name: Passo Nebuloso\n"
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
		entries, err := LoadCanon(path)
		if err != nil {
			t.Fatalf("LoadCanon() error = %v", err)
		}
		want := []CanonEntry{{Name: "Luz", Page: 289}, {Name: "Passo Nebuloso"}}
		if !reflect.DeepEqual(entries, want) {
			t.Errorf("LoadCanon() = %+v, want %+v", entries, want)
		}
	})

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(dir, "canon.json")
		data := `[{"name": "Bênção", "page": 250}]`
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
		entries, err := LoadCanon(path)
		if err != nil {
			t.Fatalf("LoadCanon() error = %v", err)
		}
		if len(entries) != 1 || entries[0].Name != "Bênção" || entries[0].Page != 250 {
			t.Errorf("LoadCanon() = %+v", entries)
		}
	})

	t.Run("missing", func(t *testing.T) {
		if _, err := LoadCanon(filepath.Join(dir, "nope.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestSourcesUnavailable(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	sources := []Source{
		PDFSource{Path: filepath.Join(dir, "missing.pdf")},
		CanonSource{Path: filepath.Join(dir, "missing.yaml")},
	}
	for _, src := range sources {
		t.Run(src.Label(), func(t *testing.T) {
			_, err := src.Names(ctx)
			if !errors.Is(err, ErrUnavailable) {
				t.Errorf("Names() error = %v, want ErrUnavailable", err)
			}
		})
	}

	t.Run("not a pdf", func(t *testing.T) {
		path := filepath.Join(dir, "broken.pdf")
		if err := os.WriteFile(path, []byte("not a pdf"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := PDFSource{Path: path}.Names(ctx)
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("Names() error = %v, want ErrUnavailable", err)
		}
	})
}

func TestPDFSource(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WritePDF(t, dir, [][]string{
		{"Luz", "Truque de Evocação (Bardo, Mago)", "Tempo de Conjuração: Ação"},
		{"Passo Nebuloso", "2º Círculo, Conjuração (Mago)"},
	})

	names, err := PDFSource{Path: path}.Names(context.Background())
	if err != nil {
		t.Fatalf("Names() error = %v", err)
	}
	want := []string{"Luz", "Passo Nebuloso"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Names() = %q, want %q", names, want)
	}
}

func TestRun(t *testing.T) {
	ctx := svcctx.WithLogger(context.Background(), testutil.Logger())
	dir := t.TempDir()
	canon := filepath.Join(dir, "canon.yaml")
	if err := os.WriteFile(canon, []byte("- name: Luz\n- name: Bênção\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("no sources", func(t *testing.T) {
		if reports := Run(ctx, Config{}, []string{"Luz"}); len(reports) != 0 {
			t.Errorf("Run() = %+v, want no reports", reports)
		}
	})

	t.Run("missing pdf is skipped", func(t *testing.T) {
		cfg := Config{PDFPath: filepath.Join(dir, "missing.pdf"), CanonPath: canon}
		reports := Run(ctx, cfg, []string{"Luz"})
		if len(reports) != 1 {
			t.Fatalf("Run() returned %d reports, want 1", len(reports))
		}
		r := reports[0]
		if r.Source != "canon" {
			t.Errorf("Source = %q, want canon", r.Source)
		}
		if want := []string{"Bênção"}; !reflect.DeepEqual(r.Missing, want) {
			t.Errorf("Missing = %q, want %q", r.Missing, want)
		}
	})
}
