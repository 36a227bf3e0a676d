package biochem

import "encoding/json"

// Model is the opaque metabolic model artifact held by a session record.
// The payload is the solver-native serialized form and is never inspected
// here; structural statistics are captured at build time so listings do not
// need to round-trip through the solver.
type Model struct {
	Template string
	Stats    ModelStats
	Payload  json.RawMessage
}

// ModelStats holds the structural counts reported by the build collaborator.
type ModelStats struct {
	Reactions   int `json:"reactions"`
	Metabolites int `json:"metabolites"`
	Genes       int `json:"genes"`
}

// Size returns the payload size in bytes for capacity accounting.
func (m Model) Size() int64 {
	return int64(len(m.Payload))
}

// Empty reports whether the model carries no payload.
func (m Model) Empty() bool {
	return len(m.Payload) == 0
}
