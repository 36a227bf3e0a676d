package solver

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/seedcraft/fluxmcp/internal/biochem"
	"github.com/seedcraft/fluxmcp/internal/platform/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"
)

// Solver sidecar methods. The sidecar exchanges google.protobuf.Struct
// payloads, so no generated stubs are required on this side.
const (
	methodBuildModel   = "/fluxmcp.solver.v1.SolverService/BuildModel"
	methodGapfillModel = "/fluxmcp.solver.v1.SolverService/GapfillModel"
	methodRunFBA       = "/fluxmcp.solver.v1.SolverService/RunFBA"
)

// Client talks to the solver sidecar over gRPC. It implements Solver.
type Client struct {
	conn *grpc.ClientConn
}

// NewClient connects to the solver sidecar at addr. The connection is lazy;
// call WaitForHealth to block until the sidecar serves.
func NewClient(addr string) (*Client, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, errors.New(errors.CodeSolverUnavailable, "solver address is required")
	}
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, errors.Wrap(errors.CodeSolverUnavailable, "connect to solver", err)
	}
	return &Client{conn: conn}, nil
}

// Close closes the gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// WaitForHealth blocks until the solver sidecar reports SERVING, retrying
// with capped backoff until ctx is done.
func (c *Client) WaitForHealth(ctx context.Context) error {
	if c == nil || c.conn == nil {
		return errors.New(errors.CodeSolverUnavailable, "solver connection is not configured")
	}

	healthClient := grpc_health_v1.NewHealthClient(c.conn)
	backoff := 200 * time.Millisecond
	for {
		callCtx, cancel := context.WithTimeout(ctx, time.Second)
		response, err := healthClient.Check(callCtx, &grpc_health_v1.HealthCheckRequest{Service: ""})
		cancel()
		if err == nil && response.GetStatus() == grpc_health_v1.HealthCheckResponse_SERVING {
			log.Printf("solver health check is SERVING")
			return nil
		}
		if err != nil {
			log.Printf("waiting for solver health: %v", err)
		} else {
			log.Printf("waiting for solver health: status %s", response.GetStatus().String())
		}

		select {
		case <-ctx.Done():
			return errors.Wrap(errors.CodeSolverUnavailable, "wait for solver health", ctx.Err())
		case <-time.After(backoff):
		}

		if backoff < time.Second {
			backoff *= 2
			if backoff > time.Second {
				backoff = time.Second
			}
		}
	}
}

// BuildModel implements ModelBuilder against the sidecar.
func (c *Client) BuildModel(ctx context.Context, req BuildRequest) (BuildResult, error) {
	request, err := encodeBuildRequest(req)
	if err != nil {
		return BuildResult{}, err
	}
	reply, err := c.invoke(ctx, methodBuildModel, request, errors.CodeBuildFailed)
	if err != nil {
		return BuildResult{}, err
	}
	return decodeBuildResult(reply)
}

// GapfillModel implements Gapfiller against the sidecar.
func (c *Client) GapfillModel(ctx context.Context, req GapfillRequest) (GapfillResult, error) {
	request, err := encodeGapfillRequest(req)
	if err != nil {
		return GapfillResult{}, err
	}
	reply, err := c.invoke(ctx, methodGapfillModel, request, errors.CodeGapfillInfeasible)
	if err != nil {
		return GapfillResult{}, err
	}
	return decodeGapfillResult(reply)
}

// RunFBA implements FluxAnalyzer against the sidecar.
func (c *Client) RunFBA(ctx context.Context, req FBARequest) (FBAResult, error) {
	request, err := encodeFBARequest(req)
	if err != nil {
		return FBAResult{}, err
	}
	reply, err := c.invoke(ctx, methodRunFBA, request, errors.CodeFBAInfeasible)
	if err != nil {
		return FBAResult{}, err
	}
	return decodeFBAResult(reply)
}

func (c *Client) invoke(ctx context.Context, method string, request *structpb.Struct, fallback errors.Code) (*structpb.Struct, error) {
	if c == nil || c.conn == nil {
		return nil, errors.New(errors.CodeSolverUnavailable, "solver connection is not configured")
	}
	reply := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, method, request, reply); err != nil {
		return nil, errors.FromGRPCStatus(err, fallback)
	}
	return reply, nil
}

func encodeBuildRequest(req BuildRequest) (*structpb.Struct, error) {
	return newStruct(map[string]any{
		"genome":   string(req.Genome),
		"template": req.Template,
	})
}

func decodeBuildResult(reply *structpb.Struct) (BuildResult, error) {
	model, err := decodeModel(reply.GetFields()["model"].GetStructValue())
	if err != nil {
		return BuildResult{}, err
	}
	return BuildResult{Model: model}, nil
}

func encodeGapfillRequest(req GapfillRequest) (*structpb.Struct, error) {
	return newStruct(map[string]any{
		"model":     encodeModel(req.Model),
		"media":     encodeMedia(req.Media),
		"objective": req.Objective,
	})
}

func decodeGapfillResult(reply *structpb.Struct) (GapfillResult, error) {
	model, err := decodeModel(reply.GetFields()["model"].GetStructValue())
	if err != nil {
		return GapfillResult{}, err
	}
	result := GapfillResult{Model: model}
	for _, value := range reply.GetFields()["added_reactions"].GetListValue().GetValues() {
		result.AddedReactions = append(result.AddedReactions, value.GetStringValue())
	}
	return result, nil
}

func encodeFBARequest(req FBARequest) (*structpb.Struct, error) {
	return newStruct(map[string]any{
		"model":     encodeModel(req.Model),
		"media":     encodeMedia(req.Media),
		"objective": req.Objective,
		"maximize":  req.Maximize,
	})
}

func decodeFBAResult(reply *structpb.Struct) (FBAResult, error) {
	fields := reply.GetFields()
	status := fields["status"].GetStringValue()
	switch status {
	case StatusOptimal, StatusUnbounded:
	default:
		return FBAResult{}, errors.WithMetadata(errors.CodeUnknown,
			"solver returned an unrecognized FBA status",
			map[string]string{"status": status})
	}

	result := FBAResult{
		Status:         status,
		ObjectiveValue: fields["objective_value"].GetNumberValue(),
	}
	if fluxes := fields["fluxes"].GetStructValue(); fluxes != nil {
		result.Fluxes = make(map[string]float64, len(fluxes.GetFields()))
		for reaction, value := range fluxes.GetFields() {
			result.Fluxes[reaction] = value.GetNumberValue()
		}
	}
	return result, nil
}

func encodeModel(model biochem.Model) map[string]any {
	return map[string]any{
		"template": model.Template,
		"payload":  string(model.Payload),
		"stats": map[string]any{
			"reactions":   float64(model.Stats.Reactions),
			"metabolites": float64(model.Stats.Metabolites),
			"genes":       float64(model.Stats.Genes),
		},
	}
}

func decodeModel(value *structpb.Struct) (biochem.Model, error) {
	if value == nil {
		return biochem.Model{}, errors.New(errors.CodeUnknown, "solver reply is missing the model")
	}
	fields := value.GetFields()
	model := biochem.Model{
		Template: fields["template"].GetStringValue(),
		Payload:  json.RawMessage(fields["payload"].GetStringValue()),
	}
	if stats := fields["stats"].GetStructValue(); stats != nil {
		statFields := stats.GetFields()
		model.Stats = biochem.ModelStats{
			Reactions:   int(statFields["reactions"].GetNumberValue()),
			Metabolites: int(statFields["metabolites"].GetNumberValue()),
			Genes:       int(statFields["genes"].GetNumberValue()),
		}
	}
	if model.Empty() {
		return biochem.Model{}, errors.New(errors.CodeUnknown, "solver returned an empty model payload")
	}
	return model, nil
}

func encodeMedia(media biochem.Media) map[string]any {
	encoded := make(map[string]any, len(media))
	for compound, bound := range media {
		encoded[compound] = map[string]any{
			"lower": bound.Lower,
			"upper": bound.Upper,
		}
	}
	return encoded
}

func newStruct(fields map[string]any) (*structpb.Struct, error) {
	value, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, errors.Wrap(errors.CodeUnknown, "encode solver request", err)
	}
	return value, nil
}
