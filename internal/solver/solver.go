// Package solver defines the biochemistry solver collaborator: the opaque
// engine that builds, gapfills, and flux-balance-analyzes metabolic models.
// The session layer treats its inputs and outputs as artifacts; only the
// solver interprets model payloads.
package solver

import (
	"context"
	"encoding/json"

	"github.com/seedcraft/fluxmcp/internal/biochem"
)

// FBA termination statuses. Infeasible is not a status; an infeasible
// problem surfaces as an error so callers cannot mistake it for a result.
const (
	StatusOptimal   = "optimal"
	StatusUnbounded = "unbounded"
)

// BuildRequest asks the solver to reconstruct a draft model from an
// annotated genome against a biochemistry template.
type BuildRequest struct {
	// Genome is the annotated genome payload, opaque to this module.
	Genome json.RawMessage
	// Template selects the reconstruction template, e.g. "gram_negative".
	Template string
}

// BuildResult carries the reconstructed draft model.
type BuildResult struct {
	Model biochem.Model
}

// GapfillRequest asks the solver to make a model grow on the given media by
// adding the minimal set of reactions.
type GapfillRequest struct {
	Model biochem.Model
	Media biochem.Media
	// Objective is the growth objective reaction id; empty selects the
	// model's biomass objective.
	Objective string
}

// GapfillResult carries the gapfilled model and the reactions added to it.
type GapfillResult struct {
	Model          biochem.Model
	AddedReactions []string
}

// FBARequest asks the solver to run flux balance analysis on a model under
// the given media.
type FBARequest struct {
	Model biochem.Model
	Media biochem.Media
	// Objective is the reaction id to optimize; empty selects the model's
	// biomass objective.
	Objective string
	// Maximize selects the optimization direction.
	Maximize bool
}

// FBAResult carries the solved flux distribution.
type FBAResult struct {
	// Status is StatusOptimal or StatusUnbounded.
	Status         string
	ObjectiveValue float64
	// Fluxes maps reaction ids to solved flux values.
	Fluxes map[string]float64
}

// ModelBuilder reconstructs draft models from annotated genomes.
type ModelBuilder interface {
	BuildModel(ctx context.Context, req BuildRequest) (BuildResult, error)
}

// Gapfiller extends models so they can grow on a target media.
type Gapfiller interface {
	GapfillModel(ctx context.Context, req GapfillRequest) (GapfillResult, error)
}

// FluxAnalyzer runs flux balance analysis.
type FluxAnalyzer interface {
	RunFBA(ctx context.Context, req FBARequest) (FBAResult, error)
}

// Solver is the full collaborator surface the tool layer depends on.
type Solver interface {
	ModelBuilder
	Gapfiller
	FluxAnalyzer
}
