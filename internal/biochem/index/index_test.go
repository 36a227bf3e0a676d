package index

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/seedcraft/fluxmcp/internal/platform/errors"
)

func openSeededIndex(t *testing.T) *Index {
	t.Helper()

	path := filepath.Join(t.TempDir(), "biochem.db")
	seed, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open seed db: %v", err)
	}
	statements := []string{
		`CREATE TABLE compounds (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			formula TEXT,
			charge INTEGER,
			mass REAL
		)`,
		`CREATE TABLE reactions (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			equation TEXT,
			reversibility TEXT,
			ec_numbers TEXT
		)`,
		`INSERT INTO compounds (id, name, formula, charge, mass)
		 VALUES ('cpd00027', 'D-Glucose', 'C6H12O6', 0, 180.06)`,
		`INSERT INTO compounds (id, name, formula, charge, mass)
		 VALUES ('cpd00001', 'H2O', 'H2O', 0, 18.01)`,
		`INSERT INTO reactions (id, name, equation, reversibility, ec_numbers)
		 VALUES ('rxn00148', 'hexokinase', 'cpd00027 + cpd00002 -> cpd00079 + cpd00008', '>', '2.7.1.1')`,
	}
	for _, statement := range statements {
		if _, err := seed.Exec(statement); err != nil {
			t.Fatalf("seed exec: %v", err)
		}
	}
	if err := seed.Close(); err != nil {
		t.Fatalf("close seed db: %v", err)
	}

	ix, err := Open(path)
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	t.Cleanup(func() { _ = ix.Close() })
	return ix
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := Open("  ")
	if !errors.IsCode(err, errors.CodeIndexUnavailable) {
		t.Fatalf("got %v, want INDEX_UNAVAILABLE", err)
	}
}

func TestStripCompartment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"cpd00027_e0", "cpd00027"},
		{"cpd00027_c0", "cpd00027"},
		{"cpd00027", "cpd00027"},
		{"rxn00148_c0", "rxn00148"},
		{"  cpd00001_e0 ", "cpd00001"},
	}
	for _, test := range tests {
		if got := StripCompartment(test.in); got != test.want {
			t.Errorf("StripCompartment(%q) = %q, want %q", test.in, got, test.want)
		}
	}
}

func TestCompoundLookup(t *testing.T) {
	t.Parallel()

	ix := openSeededIndex(t)
	ctx := context.Background()

	compound, err := ix.Compound(ctx, "cpd00027_e0")
	if err != nil {
		t.Fatalf("Compound error: %v", err)
	}
	if compound.ID != "cpd00027" {
		t.Errorf("id = %q, want cpd00027", compound.ID)
	}
	if compound.Name != "D-Glucose" {
		t.Errorf("name = %q, want D-Glucose", compound.Name)
	}
	if compound.Formula != "C6H12O6" {
		t.Errorf("formula = %q, want C6H12O6", compound.Formula)
	}
}

func TestCompoundNotFound(t *testing.T) {
	t.Parallel()

	ix := openSeededIndex(t)

	_, err := ix.Compound(context.Background(), "cpd99999_c0")
	if !errors.IsCode(err, errors.CodeCompoundNotFound) {
		t.Fatalf("got %v, want COMPOUND_NOT_FOUND", err)
	}
	if got := errors.GetMetadata(err)["compound"]; got != "cpd99999" {
		t.Errorf("metadata compound = %q, want cpd99999", got)
	}
}

func TestReactionLookup(t *testing.T) {
	t.Parallel()

	ix := openSeededIndex(t)
	ctx := context.Background()

	reaction, err := ix.Reaction(ctx, "rxn00148_c0")
	if err != nil {
		t.Fatalf("Reaction error: %v", err)
	}
	if reaction.Name != "hexokinase" {
		t.Errorf("name = %q, want hexokinase", reaction.Name)
	}
	if reaction.ECNumbers != "2.7.1.1" {
		t.Errorf("ec numbers = %q, want 2.7.1.1", reaction.ECNumbers)
	}

	_, err = ix.Reaction(ctx, "rxn99999")
	if !errors.IsCode(err, errors.CodeReactionNotFound) {
		t.Fatalf("got %v, want REACTION_NOT_FOUND", err)
	}
}

func TestNilIndexUnavailable(t *testing.T) {
	t.Parallel()

	var ix *Index
	if _, err := ix.Compound(context.Background(), "cpd00027"); !errors.IsCode(err, errors.CodeIndexUnavailable) {
		t.Errorf("nil index Compound: got %v, want INDEX_UNAVAILABLE", err)
	}
	if err := ix.Close(); err != nil {
		t.Errorf("nil index Close: %v", err)
	}
}
