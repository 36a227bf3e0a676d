// Package session implements the in-memory session state shared by every
// FluxMCP tool call: the model and media stores, identifier generation, and
// the .draft/.gf suffix grammar that encodes a model's provenance in its id.
//
// A Session is an explicit context object injected into tool handlers rather
// than ambient global state, so multiple isolated sessions can coexist in a
// single process and tests get a fresh world per case. Session state never
// survives a process restart.
package session
