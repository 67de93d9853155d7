// Package store keeps a SQLite snapshot of the spell dataset for consumers
// that prefer SQL over the JSON file.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jackzampolin/spellbook/internal/spell"
)

// Store handles all database operations
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the database at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs database migrations
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS spells (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			level INTEGER NOT NULL,
			school TEXT NOT NULL,
			casting_time TEXT NOT NULL,
			spell_range TEXT NOT NULL,
			components TEXT NOT NULL,
			duration TEXT NOT NULL,
			ritual INTEGER NOT NULL DEFAULT 0,
			concentration INTEGER NOT NULL DEFAULT 0,
			description TEXT NOT NULL,
			at_higher_levels TEXT,
			cantrip_upgrade TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_spells_level ON spells(level)`,
		`CREATE TABLE IF NOT EXISTS spell_classes (
			spell_id TEXT NOT NULL REFERENCES spells(id) ON DELETE CASCADE,
			class TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (spell_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_spell_classes_class ON spell_classes(class)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// ReplaceAll regenerates the snapshot from spells in a single transaction.
// Dataset order is kept in the position column.
func (s *Store) ReplaceAll(ctx context.Context, spells []spell.Spell) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// spell_classes rows go with their spells (ON DELETE CASCADE)
	if _, err := tx.ExecContext(ctx, `DELETE FROM spells`); err != nil {
		return fmt.Errorf("failed to clear spells: %w", err)
	}

	insertSpell, err := tx.PrepareContext(ctx, `
		INSERT INTO spells (id, position, name, level, school, casting_time, spell_range,
			components, duration, ritual, concentration, description, at_higher_levels, cantrip_upgrade)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare spell insert: %w", err)
	}
	defer insertSpell.Close()

	insertClass, err := tx.PrepareContext(ctx, `
		INSERT INTO spell_classes (spell_id, class, position) VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare class insert: %w", err)
	}
	defer insertClass.Close()

	for i, sp := range spells {
		_, err := insertSpell.ExecContext(ctx,
			sp.ID, i, sp.Name, sp.Level, string(sp.School), sp.CastingTime, sp.Range,
			sp.Components, sp.Duration, sp.Ritual, sp.Concentration, sp.Description,
			nullString(sp.AtHigherLevels), nullString(sp.CantripUpgrade),
		)
		if err != nil {
			return fmt.Errorf("failed to insert spell %s: %w", sp.ID, err)
		}
		for j, c := range sp.Classes {
			if _, err := insertClass.ExecContext(ctx, sp.ID, string(c), j); err != nil {
				return fmt.Errorf("failed to insert class %s of %s: %w", c, sp.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit export: %w", err)
	}
	return nil
}

// List returns the stored spells in dataset order.
func (s *Store) List(ctx context.Context) ([]spell.Spell, error) {
	classes, err := s.classes(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, level, school, casting_time, spell_range, components, duration,
			ritual, concentration, description, at_higher_levels, cantrip_upgrade
		FROM spells ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query spells: %w", err)
	}
	defer rows.Close()

	spells := []spell.Spell{}
	for rows.Next() {
		var sp spell.Spell
		var school string
		var higher, cantrip sql.NullString
		err := rows.Scan(&sp.ID, &sp.Name, &sp.Level, &school, &sp.CastingTime, &sp.Range,
			&sp.Components, &sp.Duration, &sp.Ritual, &sp.Concentration, &sp.Description,
			&higher, &cantrip)
		if err != nil {
			return nil, fmt.Errorf("failed to scan spell: %w", err)
		}
		sp.School = spell.School(school)
		sp.Classes = classes[sp.ID]
		if sp.Classes == nil {
			sp.Classes = []spell.Class{}
		}
		sp.AtHigherLevels = stringPtr(higher)
		sp.CantripUpgrade = stringPtr(cantrip)
		spells = append(spells, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read spells: %w", err)
	}
	return spells, nil
}

// Count returns the number of stored spells.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM spells`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count spells: %w", err)
	}
	return n, nil
}

func (s *Store) classes(ctx context.Context) (map[string][]spell.Class, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT spell_id, class FROM spell_classes ORDER BY spell_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query classes: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]spell.Class)
	for rows.Next() {
		var id, class string
		if err := rows.Scan(&id, &class); err != nil {
			return nil, fmt.Errorf("failed to scan class: %w", err)
		}
		out[id] = append(out[id], spell.Class(class))
	}
	return out, rows.Err()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
