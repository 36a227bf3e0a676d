package domain

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/seedcraft/fluxmcp/internal/session"
)

// ResetSessionInput represents the MCP tool input for resetting the session.
type ResetSessionInput struct{}

// ResetSessionResult represents the MCP tool output for resetting the
// session.
type ResetSessionResult struct {
	ModelsCleared int `json:"models_cleared" jsonschema:"number of models removed"`
	MediaCleared  int `json:"media_cleared" jsonschema:"number of media removed"`
}

// ResetSessionTool defines the MCP tool schema for resetting the session.
func ResetSessionTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "reset_session",
		Description: "Removes every stored model and media. Capacity limits stay in effect. Safe to call on an empty session.",
	}
}

// ResetSessionHandler executes a session reset request.
func ResetSessionHandler(sess *session.Session) mcp.ToolHandlerFor[ResetSessionInput, ResetSessionResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ ResetSessionInput) (*mcp.CallToolResult, ResetSessionResult, error) {
		result := ResetSessionResult{
			ModelsCleared: sess.Models().Count(),
			MediaCleared:  sess.Media().Count(),
		}
		sess.Reset()
		return nil, result, nil
	}
}

// StoreStatus reports one store's occupancy against its limits.
type StoreStatus struct {
	Count    int   `json:"count" jsonschema:"live records"`
	Bytes    int64 `json:"bytes" jsonschema:"aggregate artifact bytes"`
	MaxCount int   `json:"max_count" jsonschema:"record limit (0 = unbounded)"`
	MaxBytes int64 `json:"max_bytes" jsonschema:"byte limit (0 = unbounded)"`
}

// SessionStatusInput represents the MCP tool input for the session status.
type SessionStatusInput struct{}

// SessionStatusResult represents the MCP tool output for the session status.
type SessionStatusResult struct {
	Models StoreStatus `json:"models" jsonschema:"model store occupancy"`
	Media  StoreStatus `json:"media" jsonschema:"media store occupancy"`
}

// SessionStatusTool defines the MCP tool schema for the session status.
func SessionStatusTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_status",
		Description: "Reports how many models and media the session holds and the configured capacity limits.",
	}
}

// SessionStatusHandler executes a session status request.
func SessionStatusHandler(sess *session.Session) mcp.ToolHandlerFor[SessionStatusInput, SessionStatusResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ SessionStatusInput) (*mcp.CallToolResult, SessionStatusResult, error) {
		return nil, SessionStatusResult{
			Models: storeStatus(sess.Models().Count(), sess.Models().Bytes(), sess.Models().Limits()),
			Media:  storeStatus(sess.Media().Count(), sess.Media().Bytes(), sess.Media().Limits()),
		}, nil
	}
}

func storeStatus(count int, bytes int64, limits session.Limits) StoreStatus {
	return StoreStatus{
		Count:    count,
		Bytes:    bytes,
		MaxCount: limits.MaxCount,
		MaxBytes: limits.MaxBytes,
	}
}
