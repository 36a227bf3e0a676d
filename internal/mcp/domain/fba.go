package domain

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/seedcraft/fluxmcp/internal/session"
	"github.com/seedcraft/fluxmcp/internal/solver"
)

// RunFBAInput represents the MCP tool input for running flux balance
// analysis.
type RunFBAInput struct {
	ModelID   string `json:"model_id" jsonschema:"identifier of the model to analyze"`
	MediaID   string `json:"media_id" jsonschema:"identifier of the growth media"`
	Objective string `json:"objective,omitempty" jsonschema:"reaction id to optimize (defaults to the model's biomass objective)"`
	Minimize  bool   `json:"minimize,omitempty" jsonschema:"minimize the objective instead of maximizing"`
}

// RunFBAResult represents the MCP tool output for running flux balance
// analysis. An infeasible problem is reported as an error, not a result.
type RunFBAResult struct {
	ModelID        string             `json:"model_id" jsonschema:"model analyzed"`
	MediaID        string             `json:"media_id" jsonschema:"media applied"`
	Status         string             `json:"status" jsonschema:"termination status (optimal, unbounded)"`
	ObjectiveValue float64            `json:"objective_value" jsonschema:"solved objective value"`
	Fluxes         map[string]float64 `json:"fluxes,omitempty" jsonschema:"reaction ids mapped to solved flux values"`
}

// RunFBATool defines the MCP tool schema for running flux balance analysis.
func RunFBATool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "run_metabolic_fba",
		Description: "Runs flux balance analysis on a stored model under a stored media and returns the solved flux distribution.",
	}
}

// RunFBAHandler executes a flux balance analysis request. The analysis is
// read-only; no record is stored.
func RunFBAHandler(sess *session.Session, analyzer solver.FluxAnalyzer) mcp.ToolHandlerFor[RunFBAInput, RunFBAResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RunFBAInput) (*mcp.CallToolResult, RunFBAResult, error) {
		model, err := sess.Models().Get(ctx, input.ModelID)
		if err != nil {
			return nil, RunFBAResult{}, err
		}
		media, err := sess.Media().Get(ctx, input.MediaID)
		if err != nil {
			return nil, RunFBAResult{}, err
		}

		runCtx, cancel := context.WithTimeout(ctx, solverTimeout)
		defer cancel()

		solved, err := analyzer.RunFBA(runCtx, solver.FBARequest{
			Model:     model.Artifact,
			Media:     media.Media,
			Objective: input.Objective,
			Maximize:  !input.Minimize,
		})
		if err != nil {
			return nil, RunFBAResult{}, err
		}

		return nil, RunFBAResult{
			ModelID:        model.ID,
			MediaID:        media.ID,
			Status:         solved.Status,
			ObjectiveValue: solved.ObjectiveValue,
			Fluxes:         solved.Fluxes,
		}, nil
	}
}
