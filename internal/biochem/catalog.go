package biochem

import (
	"fmt"
	"sort"

	"github.com/seedcraft/fluxmcp/internal/platform/errors"
)

// MediaPreset is a named, ready-to-instantiate media definition.
type MediaPreset struct {
	Name        string
	Description string
	Source      MediaSource
	Media       Media
}

// trace-mineral bounds shared by the minimal media definitions
var mineralBounds = Bound{Lower: -100, Upper: 1000}

// minimalSalts is the inorganic backbone shared by every minimal media.
var minimalSalts = Media{
	"cpd00001_e0": {Lower: -1000, Upper: 1000}, // H2O
	"cpd00009_e0": mineralBounds,               // Phosphate
	"cpd00013_e0": mineralBounds,               // NH3
	"cpd00048_e0": mineralBounds,               // Sulfate
	"cpd00030_e0": mineralBounds,               // Mn2+
	"cpd00034_e0": mineralBounds,               // Zn2+
	"cpd00058_e0": mineralBounds,               // Cu2+
	"cpd00063_e0": mineralBounds,               // Ca2+
	"cpd00099_e0": mineralBounds,               // Cl-
	"cpd00149_e0": mineralBounds,               // Co2+
	"cpd00205_e0": mineralBounds,               // K+
	"cpd00254_e0": mineralBounds,               // Mg
	"cpd00971_e0": mineralBounds,               // Na+
	"cpd10515_e0": mineralBounds,               // Fe2+
	"cpd10516_e0": mineralBounds,               // Fe3+
}

// mediaPresets is the embedded catalog of predefined media.
var mediaPresets = map[string]MediaPreset{
	"glucose_minimal": {
		Name:        "glucose_minimal",
		Description: "Aerobic minimal media with D-glucose as sole carbon source",
		Source:      MediaSourcePredefined,
		Media: merge(minimalSalts, Media{
			"cpd00027_e0": {Lower: -10, Upper: 1000},  // D-Glucose
			"cpd00007_e0": {Lower: -20, Upper: 1000},  // O2
			"cpd00067_e0": {Lower: -100, Upper: 1000}, // H+
		}),
	},
	"pyruvate_minimal": {
		Name:        "pyruvate_minimal",
		Description: "Aerobic minimal media with pyruvate as sole carbon source",
		Source:      MediaSourcePredefined,
		Media: merge(minimalSalts, Media{
			"cpd00020_e0": {Lower: -10, Upper: 1000},  // Pyruvate
			"cpd00007_e0": {Lower: -20, Upper: 1000},  // O2
			"cpd00067_e0": {Lower: -100, Upper: 1000}, // H+
		}),
	},
	"complete": {
		Name:        "complete",
		Description: "Rich media: minimal salts plus sugars, organic acids, and all twenty amino acids",
		Source:      MediaSourcePredefined,
		Media: merge(minimalSalts, Media{
			"cpd00027_e0": {Lower: -10, Upper: 1000}, // D-Glucose
			"cpd00007_e0": {Lower: -20, Upper: 1000}, // O2
			"cpd00067_e0": mineralBounds,             // H+
			"cpd00020_e0": {Lower: -10, Upper: 1000}, // Pyruvate
			"cpd00036_e0": {Lower: -10, Upper: 1000}, // Succinate
			"cpd00130_e0": {Lower: -10, Upper: 1000}, // L-Malate
			"cpd00035_e0": {Lower: -10, Upper: 1000}, // L-Alanine
			"cpd00041_e0": {Lower: -10, Upper: 1000}, // L-Aspartate
			"cpd00023_e0": {Lower: -10, Upper: 1000}, // L-Glutamate
			"cpd00033_e0": {Lower: -10, Upper: 1000}, // Glycine
			"cpd00039_e0": {Lower: -10, Upper: 1000}, // L-Lysine
			"cpd00051_e0": {Lower: -10, Upper: 1000}, // L-Arginine
			"cpd00054_e0": {Lower: -10, Upper: 1000}, // L-Serine
			"cpd00060_e0": {Lower: -10, Upper: 1000}, // L-Methionine
			"cpd00066_e0": {Lower: -10, Upper: 1000}, // L-Phenylalanine
			"cpd00069_e0": {Lower: -10, Upper: 1000}, // L-Tyrosine
			"cpd00084_e0": {Lower: -10, Upper: 1000}, // L-Cysteine
			"cpd00107_e0": {Lower: -10, Upper: 1000}, // L-Leucine
			"cpd00119_e0": {Lower: -10, Upper: 1000}, // L-Histidine
			"cpd00129_e0": {Lower: -10, Upper: 1000}, // L-Proline
			"cpd00156_e0": {Lower: -10, Upper: 1000}, // L-Valine
			"cpd00161_e0": {Lower: -10, Upper: 1000}, // L-Threonine
			"cpd00322_e0": {Lower: -10, Upper: 1000}, // L-Isoleucine
			"cpd00065_e0": {Lower: -10, Upper: 1000}, // L-Tryptophan
			"cpd00053_e0": {Lower: -10, Upper: 1000}, // L-Glutamine
			"cpd00132_e0": {Lower: -10, Upper: 1000}, // L-Asparagine
		}),
	},
	"atp_reference": {
		Name:        "atp_reference",
		Description: "Glucose/O2 reference media used for ATP yield correction",
		Source:      MediaSourceATPReference,
		Media: Media{
			"cpd00027_e0": {Lower: -1, Upper: 1000},    // D-Glucose
			"cpd00007_e0": {Lower: -5, Upper: 1000},    // O2
			"cpd00001_e0": {Lower: -1000, Upper: 1000}, // H2O
			"cpd00067_e0": {Lower: -100, Upper: 1000},  // H+
			"cpd00009_e0": {Lower: -100, Upper: 1000},  // Phosphate
		},
	},
}

// merge overlays additions on a base media without mutating either.
func merge(base Media, additions Media) Media {
	merged := base.Clone()
	for compound, bound := range additions {
		merged[compound] = bound
	}
	return merged
}

// PresetNames returns the catalog preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(mediaPresets))
	for name := range mediaPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Presets returns all catalog presets sorted by name.
func Presets() []MediaPreset {
	presets := make([]MediaPreset, 0, len(mediaPresets))
	for _, name := range PresetNames() {
		presets = append(presets, mediaPresets[name])
	}
	return presets
}

// LookupPreset returns a deep copy of the named preset. Unknown names fail
// with a validation error listing the available presets.
func LookupPreset(name string) (MediaPreset, error) {
	preset, ok := mediaPresets[name]
	if !ok {
		return MediaPreset{}, errors.WithMetadata(errors.CodeMediaPresetUnknown,
			fmt.Sprintf("media preset %q is not in the catalog", name),
			map[string]string{
				"preset":    name,
				"available": fmt.Sprintf("%v", PresetNames()),
			})
	}
	preset.Media = preset.Media.Clone()
	return preset, nil
}
