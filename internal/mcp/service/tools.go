package service

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/seedcraft/fluxmcp/internal/biochem/index"
	"github.com/seedcraft/fluxmcp/internal/mcp/domain"
	"github.com/seedcraft/fluxmcp/internal/session"
	"github.com/seedcraft/fluxmcp/internal/solver"
)

func registerModelTools(mcpServer *mcp.Server, sess *session.Session, engine solver.Solver) {
	mcp.AddTool(mcpServer, domain.BuildModelTool(), domain.BuildModelHandler(sess, engine))
	mcp.AddTool(mcpServer, domain.ImportModelTool(), domain.ImportModelHandler(sess))
	mcp.AddTool(mcpServer, domain.GapfillModelTool(), domain.GapfillModelHandler(sess, engine))
	mcp.AddTool(mcpServer, domain.ListModelsTool(), domain.ListModelsHandler(sess))
	mcp.AddTool(mcpServer, domain.GetModelSummaryTool(), domain.GetModelSummaryHandler(sess))
	mcp.AddTool(mcpServer, domain.DeleteModelTool(), domain.DeleteModelHandler(sess))
}

func registerMediaTools(mcpServer *mcp.Server, sess *session.Session) {
	mcp.AddTool(mcpServer, domain.BuildMediaTool(), domain.BuildMediaHandler(sess))
	mcp.AddTool(mcpServer, domain.ListMediaTool(), domain.ListMediaHandler(sess))
	mcp.AddTool(mcpServer, domain.GetMediaTool(), domain.GetMediaHandler(sess))
	mcp.AddTool(mcpServer, domain.DeleteMediaTool(), domain.DeleteMediaHandler(sess))
}

func registerAnalysisTools(mcpServer *mcp.Server, sess *session.Session, engine solver.FluxAnalyzer) {
	mcp.AddTool(mcpServer, domain.RunFBATool(), domain.RunFBAHandler(sess, engine))
}

func registerReferenceTools(mcpServer *mcp.Server, ix *index.Index) {
	mcp.AddTool(mcpServer, domain.GetCompoundInfoTool(), domain.GetCompoundInfoHandler(ix))
	mcp.AddTool(mcpServer, domain.GetReactionInfoTool(), domain.GetReactionInfoHandler(ix))
}

func registerSessionTools(mcpServer *mcp.Server, sess *session.Session) {
	mcp.AddTool(mcpServer, domain.ResetSessionTool(), domain.ResetSessionHandler(sess))
	mcp.AddTool(mcpServer, domain.SessionStatusTool(), domain.SessionStatusHandler(sess))
}

// registerResources registers the readable listing resources.
func registerResources(mcpServer *mcp.Server, sess *session.Session) {
	mcpServer.AddResource(domain.ModelListResource(), domain.ModelListResourceHandler(sess))
	mcpServer.AddResource(domain.MediaListResource(), domain.MediaListResourceHandler(sess))
}
