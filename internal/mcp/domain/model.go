// Package domain defines the MCP tool surface for metabolic model
// reconstruction: typed inputs and outputs, tool schemas, and handlers that
// bind the session stores to the solver and reference index collaborators.
package domain

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/seedcraft/fluxmcp/internal/biochem"
	"github.com/seedcraft/fluxmcp/internal/platform/errors"
	"github.com/seedcraft/fluxmcp/internal/session"
	"github.com/seedcraft/fluxmcp/internal/solver"
)

// DefaultTemplate is the reconstruction template used when the caller does
// not pick one.
const DefaultTemplate = "gram_negative"

// solverTimeout bounds one solver sidecar call. Gapfilling large models is
// slow, so this is generous compared to store operations.
const solverTimeout = 5 * time.Minute

// ModelStatsResult mirrors the structural counts of a stored model.
type ModelStatsResult struct {
	Reactions   int `json:"reactions" jsonschema:"number of reactions in the model"`
	Metabolites int `json:"metabolites" jsonschema:"number of metabolites in the model"`
	Genes       int `json:"genes" jsonschema:"number of genes in the model"`
}

// BuildModelInput represents the MCP tool input for building a draft model.
type BuildModelInput struct {
	Genome    string `json:"genome" jsonschema:"annotated genome payload (JSON)"`
	ModelName string `json:"model_name,omitempty" jsonschema:"optional organism name used to derive the model id"`
	Template  string `json:"template,omitempty" jsonschema:"reconstruction template (defaults to gram_negative)"`
}

// BuildModelResult represents the MCP tool output for building a draft model.
type BuildModelResult struct {
	ModelID  string           `json:"model_id" jsonschema:"identifier of the stored draft model"`
	State    string           `json:"state" jsonschema:"model state decoded from the id (draft)"`
	Template string           `json:"template" jsonschema:"reconstruction template used"`
	Stats    ModelStatsResult `json:"stats" jsonschema:"structural counts reported by the builder"`
}

// BuildModelTool defines the MCP tool schema for building a draft model.
func BuildModelTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "build_metabolic_model",
		Description: "Builds a draft genome-scale metabolic model from an annotated genome and stores it under a name-derived draft id.",
	}
}

// BuildModelHandler executes a model build request.
func BuildModelHandler(sess *session.Session, builder solver.ModelBuilder) mcp.ToolHandlerFor[BuildModelInput, BuildModelResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input BuildModelInput) (*mcp.CallToolResult, BuildModelResult, error) {
		genome := strings.TrimSpace(input.Genome)
		if genome == "" {
			return nil, BuildModelResult{}, errors.New(errors.CodeModelArtifactEmpty, "genome payload is required")
		}
		template := strings.TrimSpace(input.Template)
		if template == "" {
			template = DefaultTemplate
		}

		modelID, err := sess.ModelIDFromName(ctx, input.ModelName)
		if err != nil {
			return nil, BuildModelResult{}, err
		}

		runCtx, cancel := context.WithTimeout(ctx, solverTimeout)
		defer cancel()

		built, err := builder.BuildModel(runCtx, solver.BuildRequest{
			Genome:   json.RawMessage(genome),
			Template: template,
		})
		if err != nil {
			return nil, BuildModelResult{}, err
		}

		record, err := session.NewModelRecord(modelID, built.Model, session.ModelNotes{
			TemplateUsed: template,
		})
		if err != nil {
			return nil, BuildModelResult{}, err
		}
		if err := sess.Models().Put(ctx, modelID, record); err != nil {
			return nil, BuildModelResult{}, err
		}

		return nil, BuildModelResult{
			ModelID:  modelID,
			State:    session.ParseID(modelID).Label(),
			Template: template,
			Stats:    statsResult(built.Model.Stats),
		}, nil
	}
}

// ImportModelInput represents the MCP tool input for importing a model.
type ImportModelInput struct {
	Model   string `json:"model" jsonschema:"serialized model payload (JSON)"`
	ModelID string `json:"model_id,omitempty" jsonschema:"optional identifier to store the model under (e.g. iML1515); auto-generated when omitted"`
}

// ImportModelResult represents the MCP tool output for importing a model.
type ImportModelResult struct {
	ModelID string `json:"model_id" jsonschema:"identifier of the stored model"`
	State   string `json:"state" jsonschema:"model state decoded from the id (imported)"`
}

// ImportModelTool defines the MCP tool schema for importing a model.
func ImportModelTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "import_metabolic_model",
		Description: "Imports an externally built metabolic model and stores it under a bare identifier with no state suffix.",
	}
}

// ImportModelHandler executes a model import request. An explicit model_id
// that already exists is overwritten wholesale.
func ImportModelHandler(sess *session.Session) mcp.ToolHandlerFor[ImportModelInput, ImportModelResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ImportModelInput) (*mcp.CallToolResult, ImportModelResult, error) {
		payload := strings.TrimSpace(input.Model)
		if payload == "" {
			return nil, ImportModelResult{}, errors.New(errors.CodeModelArtifactEmpty, "model payload is required")
		}

		modelID := strings.TrimSpace(input.ModelID)
		if modelID == "" {
			generated, err := sess.NewModelID(ctx)
			if err != nil {
				return nil, ImportModelResult{}, err
			}
			modelID = generated
		}

		record, err := session.NewModelRecord(modelID, biochem.Model{
			Payload: json.RawMessage(payload),
		}, session.ModelNotes{})
		if err != nil {
			return nil, ImportModelResult{}, err
		}
		if err := sess.Models().Put(ctx, modelID, record); err != nil {
			return nil, ImportModelResult{}, err
		}

		return nil, ImportModelResult{
			ModelID: modelID,
			State:   session.ParseID(modelID).Label(),
		}, nil
	}
}

// GapfillModelInput represents the MCP tool input for gapfilling a model.
type GapfillModelInput struct {
	ModelID    string `json:"model_id" jsonschema:"identifier of the model to gapfill"`
	MediaID    string `json:"media_id" jsonschema:"identifier of the target growth media"`
	Objective  string `json:"objective,omitempty" jsonschema:"growth objective reaction id (defaults to the model's biomass objective)"`
	KeepParent *bool  `json:"keep_parent,omitempty" jsonschema:"keep the source model after gapfilling (defaults to true)"`
}

// GapfillModelResult represents the MCP tool output for gapfilling a model.
type GapfillModelResult struct {
	ModelID        string           `json:"model_id" jsonschema:"identifier of the gapfilled model"`
	DerivedFrom    string           `json:"derived_from" jsonschema:"identifier of the source model"`
	ParentKept     bool             `json:"parent_kept" jsonschema:"whether the source model is still stored"`
	AddedReactions []string         `json:"added_reactions,omitempty" jsonschema:"reactions added to enable growth"`
	Stats          ModelStatsResult `json:"stats" jsonschema:"structural counts of the gapfilled model"`
}

// GapfillModelTool defines the MCP tool schema for gapfilling a model.
func GapfillModelTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "gapfill_metabolic_model",
		Description: "Gapfills a stored model against a target media and stores the result under the source id with one more .gf segment.",
	}
}

// GapfillModelHandler executes a gapfill request. The store is not locked
// across the solver call; the source record is read, the solver runs, and
// the result is stored as a new record.
func GapfillModelHandler(sess *session.Session, gapfiller solver.Gapfiller) mcp.ToolHandlerFor[GapfillModelInput, GapfillModelResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GapfillModelInput) (*mcp.CallToolResult, GapfillModelResult, error) {
		source, err := sess.Models().Get(ctx, input.ModelID)
		if err != nil {
			return nil, GapfillModelResult{}, err
		}
		media, err := sess.Media().Get(ctx, input.MediaID)
		if err != nil {
			return nil, GapfillModelResult{}, err
		}

		resultID, err := session.GapfillID(source.ID)
		if err != nil {
			return nil, GapfillModelResult{}, err
		}

		runCtx, cancel := context.WithTimeout(ctx, solverTimeout)
		defer cancel()

		filled, err := gapfiller.GapfillModel(runCtx, solver.GapfillRequest{
			Model:     source.Artifact,
			Media:     media.Media,
			Objective: input.Objective,
		})
		if err != nil {
			return nil, GapfillModelResult{}, err
		}

		record, err := session.NewModelRecord(resultID, filled.Model, session.ModelNotes{
			TemplateUsed: source.Notes.TemplateUsed,
			DerivedFrom:  source.ID,
		})
		if err != nil {
			return nil, GapfillModelResult{}, err
		}
		if err := sess.Models().Put(ctx, resultID, record); err != nil {
			return nil, GapfillModelResult{}, err
		}

		keepParent := input.KeepParent == nil || *input.KeepParent
		if !keepParent {
			if err := sess.Models().Delete(ctx, source.ID); err != nil {
				return nil, GapfillModelResult{}, err
			}
		}

		return nil, GapfillModelResult{
			ModelID:        resultID,
			DerivedFrom:    source.ID,
			ParentKept:     keepParent,
			AddedReactions: filled.AddedReactions,
			Stats:          statsResult(filled.Model.Stats),
		}, nil
	}
}

// ModelSummary is one entry of a model listing.
type ModelSummary struct {
	ModelID     string           `json:"model_id" jsonschema:"model identifier"`
	Base        string           `json:"base" jsonschema:"identifier with state suffixes stripped"`
	State       string           `json:"state" jsonschema:"model state decoded from the id (imported, draft, gapfilled)"`
	Gapfills    int              `json:"gapfills" jsonschema:"number of completed gapfilling passes"`
	Template    string           `json:"template,omitempty" jsonschema:"reconstruction template, when built in this session"`
	DerivedFrom string           `json:"derived_from,omitempty" jsonschema:"identifier of the source model, for gapfilled models"`
	CreatedAt   string           `json:"created_at" jsonschema:"RFC3339 timestamp when the model was stored"`
	Stats       ModelStatsResult `json:"stats" jsonschema:"structural counts"`
	SizeBytes   int64            `json:"size_bytes" jsonschema:"artifact payload size in bytes"`
}

// ListModelsInput represents the MCP tool input for listing models.
type ListModelsInput struct{}

// ListModelsResult represents the MCP tool output for listing models.
type ListModelsResult struct {
	Models []ModelSummary `json:"models" jsonschema:"stored models in id order"`
}

// ListModelsTool defines the MCP tool schema for listing models.
func ListModelsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_models",
		Description: "Lists the metabolic models stored in the session.",
	}
}

// ListModelsHandler executes a model listing request.
func ListModelsHandler(sess *session.Session) mcp.ToolHandlerFor[ListModelsInput, ListModelsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ ListModelsInput) (*mcp.CallToolResult, ListModelsResult, error) {
		summaries, err := modelSummaries(ctx, sess)
		if err != nil {
			return nil, ListModelsResult{}, err
		}
		return nil, ListModelsResult{Models: summaries}, nil
	}
}

// GetModelSummaryInput represents the MCP tool input for one model summary.
type GetModelSummaryInput struct {
	ModelID string `json:"model_id" jsonschema:"model identifier"`
}

// GetModelSummaryTool defines the MCP tool schema for one model summary.
func GetModelSummaryTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_model_summary",
		Description: "Returns the stored summary of one metabolic model.",
	}
}

// GetModelSummaryHandler executes a model summary request.
func GetModelSummaryHandler(sess *session.Session) mcp.ToolHandlerFor[GetModelSummaryInput, ModelSummary] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetModelSummaryInput) (*mcp.CallToolResult, ModelSummary, error) {
		record, err := sess.Models().Get(ctx, input.ModelID)
		if err != nil {
			return nil, ModelSummary{}, err
		}
		return nil, modelSummary(record), nil
	}
}

// DeleteModelInput represents the MCP tool input for deleting a model.
type DeleteModelInput struct {
	ModelID string `json:"model_id" jsonschema:"model identifier"`
}

// DeleteModelResult represents the MCP tool output for deleting a model.
type DeleteModelResult struct {
	ModelID string `json:"model_id" jsonschema:"identifier of the deleted model"`
	Deleted bool   `json:"deleted" jsonschema:"always true on success"`
}

// DeleteModelTool defines the MCP tool schema for deleting a model.
func DeleteModelTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "delete_model",
		Description: "Deletes one stored metabolic model. Models derived from it are unaffected.",
	}
}

// DeleteModelHandler executes a model deletion request.
func DeleteModelHandler(sess *session.Session) mcp.ToolHandlerFor[DeleteModelInput, DeleteModelResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DeleteModelInput) (*mcp.CallToolResult, DeleteModelResult, error) {
		if err := sess.Models().Delete(ctx, input.ModelID); err != nil {
			return nil, DeleteModelResult{}, err
		}
		return nil, DeleteModelResult{
			ModelID: strings.TrimSpace(input.ModelID),
			Deleted: true,
		}, nil
	}
}

func modelSummaries(ctx context.Context, sess *session.Session) ([]ModelSummary, error) {
	ids := sess.Models().IDs()
	summaries := make([]ModelSummary, 0, len(ids))
	for _, modelID := range ids {
		record, err := sess.Models().Get(ctx, modelID)
		if err != nil {
			// Deleted between listing and retrieval; skip it.
			if errors.IsCode(err, errors.CodeModelNotFound) {
				continue
			}
			return nil, err
		}
		summaries = append(summaries, modelSummary(record))
	}
	return summaries, nil
}

func modelSummary(record session.ModelRecord) ModelSummary {
	state := session.ParseID(record.ID)
	return ModelSummary{
		ModelID:     record.ID,
		Base:        state.Base,
		State:       state.Label(),
		Gapfills:    state.Gapfills,
		Template:    record.Notes.TemplateUsed,
		DerivedFrom: record.Notes.DerivedFrom,
		CreatedAt:   record.Notes.CreatedAt.Format(time.RFC3339),
		Stats:       statsResult(record.Artifact.Stats),
		SizeBytes:   record.Artifact.Size(),
	}
}

func statsResult(stats biochem.ModelStats) ModelStatsResult {
	return ModelStatsResult{
		Reactions:   stats.Reactions,
		Metabolites: stats.Metabolites,
		Genes:       stats.Genes,
	}
}
