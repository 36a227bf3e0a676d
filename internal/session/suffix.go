package session

import (
	"strings"

	"github.com/seedcraft/fluxmcp/internal/platform/errors"
)

// Model identifier state suffixes. A model id follows the grammar
// <base>[.draft][.gf]+ — the full provenance of a model is readable from
// its id without consulting stored metadata.
const (
	// SuffixDraft marks a freshly built model that has not been gapfilled.
	SuffixDraft = ".draft"
	// SuffixGapfill marks one completed gapfilling pass; passes accumulate.
	SuffixGapfill = ".gf"
)

// GapfillID returns the identifier for the result of gapfilling the model
// stored under current: one more .gf segment appended to the existing chain.
// The function is pure — it never consults the store — and total over
// well-formed ids, whether draft ("x.draft" -> "x.draft.gf"), already
// gapfilled ("x.draft.gf" -> "x.draft.gf.gf"), or a bare imported base
// ("x" -> "x.gf").
func GapfillID(current string) (string, error) {
	current = strings.TrimSpace(current)
	if current == "" {
		return "", errors.New(errors.CodeModelIDEmpty, "model id is required")
	}
	return current + SuffixGapfill, nil
}

// IDState is the provenance decoded from a model identifier.
type IDState struct {
	// Base is the identifier with all state suffixes stripped.
	Base string
	// Draft reports whether the .draft segment is present.
	Draft bool
	// Gapfills counts the trailing .gf segments.
	Gapfills int
}

// ParseID decodes the state suffix chain of a model identifier.
func ParseID(id string) IDState {
	state := IDState{Base: strings.TrimSpace(id)}
	for strings.HasSuffix(state.Base, SuffixGapfill) {
		state.Base = strings.TrimSuffix(state.Base, SuffixGapfill)
		state.Gapfills++
	}
	if strings.HasSuffix(state.Base, SuffixDraft) {
		state.Base = strings.TrimSuffix(state.Base, SuffixDraft)
		state.Draft = true
	}
	return state
}

// Label names the provenance stage for listings: "gapfilled" once any .gf
// segment is present, "draft" for an ungapfilled build, and "imported" for
// a bare base.
func (s IDState) Label() string {
	switch {
	case s.Gapfills > 0:
		return "gapfilled"
	case s.Draft:
		return "draft"
	default:
		return "imported"
	}
}
