package biochem

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/seedcraft/fluxmcp/internal/platform/errors"
)

// Bound is a lower/upper flux bound pair for one media compound.
type Bound struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Media maps compartment-tagged compound identifiers (e.g. "cpd00027_e0")
// to flux bound pairs.
type Media map[string]Bound

// MediaSource records how a media artifact came to exist.
type MediaSource string

const (
	// MediaSourceUser marks media assembled from caller-supplied bounds.
	MediaSourceUser MediaSource = "user_built"
	// MediaSourcePredefined marks media instantiated from the catalog.
	MediaSourcePredefined MediaSource = "predefined"
	// MediaSourceATPReference marks the ATP-correction reference media.
	MediaSourceATPReference MediaSource = "atp_reference"
)

// Valid reports whether the source is one of the known enum values.
func (s MediaSource) Valid() bool {
	switch s {
	case MediaSourceUser, MediaSourcePredefined, MediaSourceATPReference:
		return true
	}
	return false
}

// compartmentSuffix matches the trailing compartment tag on a compound id,
// e.g. "_c0" (cytosol) or "_e0" (extracellular).
var compartmentSuffix = regexp.MustCompile(`_([a-z])(\d+)$`)

// Validate checks the media invariants: every compound key carries exactly
// one compartment suffix and every bound pair satisfies lower <= upper.
func (m Media) Validate() error {
	for compound, bound := range m {
		tag := compartmentSuffix.FindString(compound)
		if tag == "" || tag == compound {
			return errors.WithMetadata(errors.CodeCompoundMissingCompartment,
				fmt.Sprintf("compound %q is missing a compartment suffix (expected e.g. %q)", compound, compound+"_e0"),
				map[string]string{"compound": compound})
		}
		base := compound[:len(compound)-len(tag)]
		if compartmentSuffix.MatchString(base) {
			return errors.WithMetadata(errors.CodeCompoundMissingCompartment,
				fmt.Sprintf("compound %q carries more than one compartment suffix", compound),
				map[string]string{"compound": compound})
		}
		if bound.Lower > bound.Upper {
			return errors.WithMetadata(errors.CodeCompoundBoundsInverted,
				fmt.Sprintf("compound %q has inverted bounds %g > %g", compound, bound.Lower, bound.Upper),
				map[string]string{
					"compound": compound,
					"lower":    fmt.Sprintf("%g", bound.Lower),
					"upper":    fmt.Sprintf("%g", bound.Upper),
				})
		}
	}
	return nil
}

// Compounds returns the compound identifiers in sorted order.
func (m Media) Compounds() []string {
	ids := make([]string, 0, len(m))
	for compound := range m {
		ids = append(ids, compound)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns an independent copy so stored media never shares mutable
// state with a caller.
func (m Media) Clone() Media {
	if m == nil {
		return nil
	}
	cloned := make(Media, len(m))
	for compound, bound := range m {
		cloned[compound] = bound
	}
	return cloned
}

// Size estimates the in-memory footprint in bytes for capacity accounting.
func (m Media) Size() int64 {
	var total int64
	for compound := range m {
		total += int64(len(compound)) + 16
	}
	return total
}
