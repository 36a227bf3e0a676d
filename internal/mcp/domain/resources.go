package domain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/seedcraft/fluxmcp/internal/session"
)

// ModelListPayload is the JSON body of the model listing resource.
type ModelListPayload struct {
	Models []ModelSummary `json:"models"`
}

// ModelListResource defines the readable model listing resource.
func ModelListResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "model_list",
		Title:       "Metabolic models",
		Description: "Readable listing of the metabolic models stored in the session",
		MIMEType:    "application/json",
		URI:         "model://list",
	}
}

// ModelListResourceHandler returns a readable model listing resource.
func ModelListResourceHandler(sess *session.Session) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := ModelListResource().URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}

		summaries, err := modelSummaries(ctx, sess)
		if err != nil {
			return nil, fmt.Errorf("model list failed: %w", err)
		}

		data, err := json.MarshalIndent(ModelListPayload{Models: summaries}, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal model list: %w", err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}

// MediaListPayload is the JSON body of the media listing resource.
type MediaListPayload struct {
	Media []MediaSummary `json:"media"`
}

// MediaListResource defines the readable media listing resource.
func MediaListResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "media_list",
		Title:       "Growth media",
		Description: "Readable listing of the growth media stored in the session",
		MIMEType:    "application/json",
		URI:         "media://list",
	}
}

// MediaListResourceHandler returns a readable media listing resource.
func MediaListResourceHandler(sess *session.Session) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := MediaListResource().URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}

		summaries, err := mediaSummaries(ctx, sess)
		if err != nil {
			return nil, fmt.Errorf("media list failed: %w", err)
		}

		data, err := json.MarshalIndent(MediaListPayload{Media: summaries}, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal media list: %w", err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}
