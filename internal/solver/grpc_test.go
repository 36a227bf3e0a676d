package solver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/seedcraft/fluxmcp/internal/biochem"
	"github.com/seedcraft/fluxmcp/internal/platform/errors"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestNewClientRequiresAddress(t *testing.T) {
	if _, err := NewClient("  "); !errors.IsCode(err, errors.CodeSolverUnavailable) {
		t.Fatalf("got %v, want SOLVER_UNAVAILABLE", err)
	}
}

func TestNilClientUnavailable(t *testing.T) {
	var c *Client
	if _, err := c.BuildModel(context.Background(), BuildRequest{}); !errors.IsCode(err, errors.CodeSolverUnavailable) {
		t.Errorf("BuildModel: got %v, want SOLVER_UNAVAILABLE", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := c.WaitForHealth(context.Background()); !errors.IsCode(err, errors.CodeSolverUnavailable) {
		t.Errorf("WaitForHealth: got %v, want SOLVER_UNAVAILABLE", err)
	}
}

func TestModelEncodeDecodeRoundTrip(t *testing.T) {
	model := biochem.Model{
		Template: "gram_negative",
		Stats:    biochem.ModelStats{Reactions: 1200, Metabolites: 980, Genes: 640},
		Payload:  json.RawMessage(`{"reactions":["rxn00148_c0"]}`),
	}

	encoded, err := structpb.NewStruct(map[string]any{"model": encodeModel(model)})
	if err != nil {
		t.Fatalf("NewStruct error: %v", err)
	}
	decoded, err := decodeModel(encoded.GetFields()["model"].GetStructValue())
	if err != nil {
		t.Fatalf("decodeModel error: %v", err)
	}

	if decoded.Template != model.Template {
		t.Errorf("template = %q, want %q", decoded.Template, model.Template)
	}
	if decoded.Stats != model.Stats {
		t.Errorf("stats = %+v, want %+v", decoded.Stats, model.Stats)
	}
	if string(decoded.Payload) != string(model.Payload) {
		t.Errorf("payload = %s, want %s", decoded.Payload, model.Payload)
	}
}

func TestDecodeModelMissing(t *testing.T) {
	if _, err := decodeModel(nil); err == nil {
		t.Error("decodeModel(nil) succeeded")
	}

	empty, err := structpb.NewStruct(map[string]any{"payload": ""})
	if err != nil {
		t.Fatalf("NewStruct error: %v", err)
	}
	if _, err := decodeModel(empty); err == nil {
		t.Error("decodeModel with empty payload succeeded")
	}
}

func TestEncodeGapfillRequestCarriesMedia(t *testing.T) {
	req := GapfillRequest{
		Model: biochem.Model{Template: "core", Payload: json.RawMessage(`{}`)},
		Media: biochem.Media{
			"cpd00027_e0": {Lower: -10, Upper: 1000},
			"cpd00007_e0": {Lower: -20, Upper: 1000},
		},
		Objective: "bio1",
	}

	encoded, err := encodeGapfillRequest(req)
	if err != nil {
		t.Fatalf("encodeGapfillRequest error: %v", err)
	}

	media := encoded.GetFields()["media"].GetStructValue()
	if media == nil {
		t.Fatal("request is missing the media field")
	}
	glucose := media.GetFields()["cpd00027_e0"].GetStructValue()
	if glucose == nil {
		t.Fatal("media is missing cpd00027_e0")
	}
	if got := glucose.GetFields()["lower"].GetNumberValue(); got != -10 {
		t.Errorf("lower bound = %g, want -10", got)
	}
	if got := encoded.GetFields()["objective"].GetStringValue(); got != "bio1" {
		t.Errorf("objective = %q, want %q", got, "bio1")
	}
}

func TestDecodeGapfillResult(t *testing.T) {
	reply, err := structpb.NewStruct(map[string]any{
		"model": map[string]any{
			"template": "gram_negative",
			"payload":  `{"reactions":[]}`,
			"stats":    map[string]any{"reactions": 3.0, "metabolites": 2.0, "genes": 1.0},
		},
		"added_reactions": []any{"rxn05115_c0", "rxn09037_c0"},
	})
	if err != nil {
		t.Fatalf("NewStruct error: %v", err)
	}

	result, err := decodeGapfillResult(reply)
	if err != nil {
		t.Fatalf("decodeGapfillResult error: %v", err)
	}
	if len(result.AddedReactions) != 2 || result.AddedReactions[0] != "rxn05115_c0" {
		t.Errorf("added reactions = %v", result.AddedReactions)
	}
	if result.Model.Stats.Reactions != 3 {
		t.Errorf("stats reactions = %d, want 3", result.Model.Stats.Reactions)
	}
}

func TestDecodeFBAResult(t *testing.T) {
	reply, err := structpb.NewStruct(map[string]any{
		"status":          StatusOptimal,
		"objective_value": 0.873,
		"fluxes": map[string]any{
			"rxn00148_c0": 7.2,
			"rxn00459_c0": -1.5,
		},
	})
	if err != nil {
		t.Fatalf("NewStruct error: %v", err)
	}

	result, err := decodeFBAResult(reply)
	if err != nil {
		t.Fatalf("decodeFBAResult error: %v", err)
	}
	if result.Status != StatusOptimal {
		t.Errorf("status = %q, want optimal", result.Status)
	}
	if result.ObjectiveValue != 0.873 {
		t.Errorf("objective = %g, want 0.873", result.ObjectiveValue)
	}
	if result.Fluxes["rxn00459_c0"] != -1.5 {
		t.Errorf("flux = %g, want -1.5", result.Fluxes["rxn00459_c0"])
	}
}

func TestDecodeFBAResultRejectsUnknownStatus(t *testing.T) {
	reply, err := structpb.NewStruct(map[string]any{"status": "infeasible"})
	if err != nil {
		t.Fatalf("NewStruct error: %v", err)
	}
	if _, err := decodeFBAResult(reply); err == nil {
		t.Error("unknown status accepted")
	}
}
