package domain

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/seedcraft/fluxmcp/internal/biochem/index"
)

// GetCompoundInfoInput represents the MCP tool input for a compound lookup.
type GetCompoundInfoInput struct {
	CompoundID string `json:"compound_id" jsonschema:"ModelSEED compound id, with or without a compartment tag (cpd00027 or cpd00027_e0)"`
}

// GetCompoundInfoResult represents the MCP tool output for a compound lookup.
type GetCompoundInfoResult struct {
	CompoundID string  `json:"compound_id" jsonschema:"reference compound id"`
	Name       string  `json:"name" jsonschema:"compound name"`
	Formula    string  `json:"formula,omitempty" jsonschema:"chemical formula"`
	Charge     int     `json:"charge" jsonschema:"formal charge"`
	Mass       float64 `json:"mass,omitempty" jsonschema:"monoisotopic mass"`
}

// GetCompoundInfoTool defines the MCP tool schema for a compound lookup.
func GetCompoundInfoTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_compound_info",
		Description: "Looks up one compound in the biochemistry reference index.",
	}
}

// GetCompoundInfoHandler executes a compound lookup request.
func GetCompoundInfoHandler(ix *index.Index) mcp.ToolHandlerFor[GetCompoundInfoInput, GetCompoundInfoResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetCompoundInfoInput) (*mcp.CallToolResult, GetCompoundInfoResult, error) {
		compound, err := ix.Compound(ctx, input.CompoundID)
		if err != nil {
			return nil, GetCompoundInfoResult{}, err
		}
		return nil, GetCompoundInfoResult{
			CompoundID: compound.ID,
			Name:       compound.Name,
			Formula:    compound.Formula,
			Charge:     compound.Charge,
			Mass:       compound.Mass,
		}, nil
	}
}

// GetReactionInfoInput represents the MCP tool input for a reaction lookup.
type GetReactionInfoInput struct {
	ReactionID string `json:"reaction_id" jsonschema:"ModelSEED reaction id, with or without a compartment tag (rxn00148 or rxn00148_c0)"`
}

// GetReactionInfoResult represents the MCP tool output for a reaction lookup.
type GetReactionInfoResult struct {
	ReactionID    string `json:"reaction_id" jsonschema:"reference reaction id"`
	Name          string `json:"name" jsonschema:"reaction name"`
	Equation      string `json:"equation,omitempty" jsonschema:"stoichiometric equation"`
	Reversibility string `json:"reversibility,omitempty" jsonschema:"reversibility marker"`
	ECNumbers     string `json:"ec_numbers,omitempty" jsonschema:"EC numbers"`
}

// GetReactionInfoTool defines the MCP tool schema for a reaction lookup.
func GetReactionInfoTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_reaction_info",
		Description: "Looks up one reaction in the biochemistry reference index.",
	}
}

// GetReactionInfoHandler executes a reaction lookup request.
func GetReactionInfoHandler(ix *index.Index) mcp.ToolHandlerFor[GetReactionInfoInput, GetReactionInfoResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetReactionInfoInput) (*mcp.CallToolResult, GetReactionInfoResult, error) {
		reaction, err := ix.Reaction(ctx, input.ReactionID)
		if err != nil {
			return nil, GetReactionInfoResult{}, err
		}
		return nil, GetReactionInfoResult{
			ReactionID:    reaction.ID,
			Name:          reaction.Name,
			Equation:      reaction.Equation,
			Reversibility: reaction.Reversibility,
			ECNumbers:     reaction.ECNumbers,
		}, nil
	}
}
