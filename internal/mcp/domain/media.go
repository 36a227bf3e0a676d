package domain

import (
	"context"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/seedcraft/fluxmcp/internal/biochem"
	"github.com/seedcraft/fluxmcp/internal/platform/errors"
	"github.com/seedcraft/fluxmcp/internal/session"
)

// BoundInput is a lower/upper flux bound pair in tool inputs and outputs.
type BoundInput struct {
	Lower float64 `json:"lower" jsonschema:"lower flux bound (negative = uptake)"`
	Upper float64 `json:"upper" jsonschema:"upper flux bound"`
}

// BuildMediaInput represents the MCP tool input for building a growth media.
// Either a preset name or an explicit compound map is required; when both
// are present the compounds override the preset's bounds.
type BuildMediaInput struct {
	Preset    string                `json:"preset,omitempty" jsonschema:"predefined media name (e.g. glucose_minimal)"`
	Compounds map[string]BoundInput `json:"compounds,omitempty" jsonschema:"compartment-tagged compound ids mapped to flux bounds"`
}

// BuildMediaResult represents the MCP tool output for building a media.
type BuildMediaResult struct {
	MediaID   string `json:"media_id" jsonschema:"identifier of the stored media"`
	Source    string `json:"source" jsonschema:"media provenance (user_built, predefined, atp_reference)"`
	Compounds int    `json:"compounds" jsonschema:"number of compounds in the media"`
}

// BuildMediaTool defines the MCP tool schema for building a media.
func BuildMediaTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "build_media",
		Description: "Builds a growth media from a predefined preset, explicit compound bounds, or a preset with overrides, and stores it under a fresh id.",
	}
}

// BuildMediaHandler executes a media build request.
func BuildMediaHandler(sess *session.Session) mcp.ToolHandlerFor[BuildMediaInput, BuildMediaResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input BuildMediaInput) (*mcp.CallToolResult, BuildMediaResult, error) {
		media, source, err := assembleMedia(input)
		if err != nil {
			return nil, BuildMediaResult{}, err
		}

		mediaID, err := sess.NewMediaID(ctx)
		if err != nil {
			return nil, BuildMediaResult{}, err
		}
		record, err := session.NewMediaRecord(mediaID, media, source, time.Time{})
		if err != nil {
			return nil, BuildMediaResult{}, err
		}
		if err := sess.Media().Put(ctx, mediaID, record); err != nil {
			return nil, BuildMediaResult{}, err
		}

		return nil, BuildMediaResult{
			MediaID:   mediaID,
			Source:    string(record.Source),
			Compounds: len(record.Media),
		}, nil
	}
}

func assembleMedia(input BuildMediaInput) (biochem.Media, biochem.MediaSource, error) {
	presetName := strings.TrimSpace(input.Preset)
	if presetName == "" && len(input.Compounds) == 0 {
		return nil, "", errors.New(errors.CodeMediaEmpty, "a preset name or a compound map is required")
	}

	media := biochem.Media{}
	source := biochem.MediaSourceUser
	if presetName != "" {
		preset, err := biochem.LookupPreset(presetName)
		if err != nil {
			return nil, "", err
		}
		media = preset.Media
		source = preset.Source
	}
	for compound, bound := range input.Compounds {
		media[strings.TrimSpace(compound)] = biochem.Bound{Lower: bound.Lower, Upper: bound.Upper}
	}
	return media, source, nil
}

// MediaSummary is one entry of a media listing.
type MediaSummary struct {
	MediaID   string `json:"media_id" jsonschema:"media identifier"`
	Source    string `json:"source" jsonschema:"media provenance"`
	Compounds int    `json:"compounds" jsonschema:"number of compounds"`
	CreatedAt string `json:"created_at" jsonschema:"RFC3339 timestamp when the media was stored"`
}

// ListMediaInput represents the MCP tool input for listing media.
type ListMediaInput struct{}

// ListMediaResult represents the MCP tool output for listing media.
type ListMediaResult struct {
	Media   []MediaSummary `json:"media" jsonschema:"stored media in id order"`
	Presets []string       `json:"presets" jsonschema:"predefined media names available to build_media"`
}

// ListMediaTool defines the MCP tool schema for listing media.
func ListMediaTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_media",
		Description: "Lists the growth media stored in the session and the predefined presets available.",
	}
}

// ListMediaHandler executes a media listing request.
func ListMediaHandler(sess *session.Session) mcp.ToolHandlerFor[ListMediaInput, ListMediaResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ ListMediaInput) (*mcp.CallToolResult, ListMediaResult, error) {
		summaries, err := mediaSummaries(ctx, sess)
		if err != nil {
			return nil, ListMediaResult{}, err
		}
		return nil, ListMediaResult{
			Media:   summaries,
			Presets: biochem.PresetNames(),
		}, nil
	}
}

// GetMediaInput represents the MCP tool input for retrieving one media.
type GetMediaInput struct {
	MediaID string `json:"media_id" jsonschema:"media identifier"`
}

// GetMediaResult represents the MCP tool output for retrieving one media.
type GetMediaResult struct {
	MediaID   string                `json:"media_id" jsonschema:"media identifier"`
	Source    string                `json:"source" jsonschema:"media provenance"`
	Compounds map[string]BoundInput `json:"compounds" jsonschema:"compound ids mapped to flux bounds"`
	CreatedAt string                `json:"created_at" jsonschema:"RFC3339 timestamp when the media was stored"`
}

// GetMediaTool defines the MCP tool schema for retrieving one media.
func GetMediaTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_media",
		Description: "Returns the full compound and bound listing of one stored media.",
	}
}

// GetMediaHandler executes a media retrieval request.
func GetMediaHandler(sess *session.Session) mcp.ToolHandlerFor[GetMediaInput, GetMediaResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetMediaInput) (*mcp.CallToolResult, GetMediaResult, error) {
		record, err := sess.Media().Get(ctx, input.MediaID)
		if err != nil {
			return nil, GetMediaResult{}, err
		}

		compounds := make(map[string]BoundInput, len(record.Media))
		for compound, bound := range record.Media {
			compounds[compound] = BoundInput{Lower: bound.Lower, Upper: bound.Upper}
		}
		return nil, GetMediaResult{
			MediaID:   record.ID,
			Source:    string(record.Source),
			Compounds: compounds,
			CreatedAt: record.CreatedAt.Format(time.RFC3339),
		}, nil
	}
}

// DeleteMediaInput represents the MCP tool input for deleting a media.
type DeleteMediaInput struct {
	MediaID string `json:"media_id" jsonschema:"media identifier"`
}

// DeleteMediaResult represents the MCP tool output for deleting a media.
type DeleteMediaResult struct {
	MediaID string `json:"media_id" jsonschema:"identifier of the deleted media"`
	Deleted bool   `json:"deleted" jsonschema:"always true on success"`
}

// DeleteMediaTool defines the MCP tool schema for deleting a media.
func DeleteMediaTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "delete_media",
		Description: "Deletes one stored growth media.",
	}
}

// DeleteMediaHandler executes a media deletion request.
func DeleteMediaHandler(sess *session.Session) mcp.ToolHandlerFor[DeleteMediaInput, DeleteMediaResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DeleteMediaInput) (*mcp.CallToolResult, DeleteMediaResult, error) {
		if err := sess.Media().Delete(ctx, input.MediaID); err != nil {
			return nil, DeleteMediaResult{}, err
		}
		return nil, DeleteMediaResult{
			MediaID: strings.TrimSpace(input.MediaID),
			Deleted: true,
		}, nil
	}
}

func mediaSummaries(ctx context.Context, sess *session.Session) ([]MediaSummary, error) {
	ids := sess.Media().IDs()
	summaries := make([]MediaSummary, 0, len(ids))
	for _, mediaID := range ids {
		record, err := sess.Media().Get(ctx, mediaID)
		if err != nil {
			if errors.IsCode(err, errors.CodeMediaNotFound) {
				continue
			}
			return nil, err
		}
		summaries = append(summaries, MediaSummary{
			MediaID:   record.ID,
			Source:    string(record.Source),
			Compounds: len(record.Media),
			CreatedAt: record.CreatedAt.Format(time.RFC3339),
		})
	}
	return summaries, nil
}
