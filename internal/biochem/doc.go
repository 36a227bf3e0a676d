// Package biochem defines the artifact types exchanged between the session
// stores and the external computation collaborators: metabolic model handles,
// growth media with flux bounds, and the predefined media catalog.
//
// The package deliberately knows nothing about how models are built or
// solved; artifacts are opaque payloads plus the structural facts (counts,
// bounds) the tool surface reports.
package biochem
