// Package index provides a read-only SQLite-backed biochemistry reference
// index for compound and reaction lookups.
package index

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/seedcraft/fluxmcp/internal/platform/errors"
	_ "modernc.org/sqlite"
)

// Compound is one reference database compound entry.
type Compound struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Formula string  `json:"formula,omitempty"`
	Charge  int     `json:"charge"`
	Mass    float64 `json:"mass,omitempty"`
}

// Reaction is one reference database reaction entry.
type Reaction struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Equation      string `json:"equation,omitempty"`
	Reversibility string `json:"reversibility,omitempty"`
	ECNumbers     string `json:"ec_numbers,omitempty"`
}

// Index reads compound and reaction entries from a SQLite reference
// database. The database is never written to.
type Index struct {
	sqlDB *sql.DB
}

// Open opens the reference index at path.
func Open(path string) (*Index, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New(errors.CodeIndexUnavailable, "reference index path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_busy_timeout=5000"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(errors.CodeIndexUnavailable, "open reference index", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(errors.CodeIndexUnavailable, "ping reference index", err)
	}
	return &Index{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (ix *Index) Close() error {
	if ix == nil || ix.sqlDB == nil {
		return nil
	}
	return ix.sqlDB.Close()
}

// compartmentTag matches a trailing compartment suffix on a compound or
// reaction id, e.g. "_e0". Reference entries are stored compartment-free.
var compartmentTag = regexp.MustCompile(`_([a-z])(\d+)$`)

// StripCompartment removes a trailing compartment tag so callers can look up
// model-scoped ids ("cpd00027_e0") against the compartment-free reference.
func StripCompartment(id string) string {
	return compartmentTag.ReplaceAllString(strings.TrimSpace(id), "")
}

// Compound looks up one compound by reference id. A compartment tag on the
// id is stripped before the lookup.
func (ix *Index) Compound(ctx context.Context, id string) (Compound, error) {
	if err := ctx.Err(); err != nil {
		return Compound{}, err
	}
	if ix == nil || ix.sqlDB == nil {
		return Compound{}, errors.New(errors.CodeIndexUnavailable, "reference index is not configured")
	}
	lookup := StripCompartment(id)
	if lookup == "" {
		return Compound{}, errors.New(errors.CodeCompoundNotFound, "compound id is required")
	}

	row := ix.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, COALESCE(formula, ''), COALESCE(charge, 0), COALESCE(mass, 0)
		 FROM compounds WHERE id = ?`, lookup)

	var compound Compound
	err := row.Scan(&compound.ID, &compound.Name, &compound.Formula, &compound.Charge, &compound.Mass)
	if stderrors.Is(err, sql.ErrNoRows) {
		return Compound{}, errors.WithMetadata(errors.CodeCompoundNotFound,
			fmt.Sprintf("compound %q is not in the reference index", lookup),
			map[string]string{"compound": lookup})
	}
	if err != nil {
		return Compound{}, errors.Wrap(errors.CodeIndexUnavailable, "query compound", err)
	}
	return compound, nil
}

// Reaction looks up one reaction by reference id. A compartment tag on the
// id is stripped before the lookup.
func (ix *Index) Reaction(ctx context.Context, id string) (Reaction, error) {
	if err := ctx.Err(); err != nil {
		return Reaction{}, err
	}
	if ix == nil || ix.sqlDB == nil {
		return Reaction{}, errors.New(errors.CodeIndexUnavailable, "reference index is not configured")
	}
	lookup := StripCompartment(id)
	if lookup == "" {
		return Reaction{}, errors.New(errors.CodeReactionNotFound, "reaction id is required")
	}

	row := ix.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, COALESCE(equation, ''), COALESCE(reversibility, ''), COALESCE(ec_numbers, '')
		 FROM reactions WHERE id = ?`, lookup)

	var reaction Reaction
	err := row.Scan(&reaction.ID, &reaction.Name, &reaction.Equation, &reaction.Reversibility, &reaction.ECNumbers)
	if stderrors.Is(err, sql.ErrNoRows) {
		return Reaction{}, errors.WithMetadata(errors.CodeReactionNotFound,
			fmt.Sprintf("reaction %q is not in the reference index", lookup),
			map[string]string{"reaction": lookup})
	}
	if err != nil {
		return Reaction{}, errors.Wrap(errors.CodeIndexUnavailable, "query reaction", err)
	}
	return reaction, nil
}
