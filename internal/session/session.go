package session

import "github.com/seedcraft/fluxmcp/internal/platform/errors"

// Session owns the model and media stores for one conversational session.
// It is constructed once at startup and injected into every tool handler;
// constructing a second Session yields a fully isolated world.
type Session struct {
	models *Store[ModelRecord]
	media  *Store[MediaRecord]
}

// New creates a session with the configured capacity limits installed.
func New(cfg StorageConfig) *Session {
	return &Session{
		models: newStore("model", errors.CodeModelIDEmpty, errors.CodeModelNotFound,
			modelRecordSize, Limits{MaxCount: cfg.MaxModels, MaxBytes: cfg.MaxArtifactBytes}),
		media: newStore("media", errors.CodeMediaIDEmpty, errors.CodeMediaNotFound,
			mediaRecordSize, Limits{MaxCount: cfg.MaxMedia, MaxBytes: cfg.MaxArtifactBytes}),
	}
}

// Models returns the model store.
func (s *Session) Models() *Store[ModelRecord] {
	if s == nil {
		return nil
	}
	return s.models
}

// Media returns the media store.
func (s *Session) Media() *Store[MediaRecord] {
	if s == nil {
		return nil
	}
	return s.media
}

// Reset clears both stores. Capacity limits stay installed. Idempotent.
func (s *Session) Reset() {
	if s == nil {
		return
	}
	s.models.Clear()
	s.media.Clear()
}

// Shutdown clears both stores and returns capacity limits to the
// unconfigured (unbounded) default. The session remains usable afterwards
// as an empty, unlimited world.
func (s *Session) Shutdown() {
	if s == nil {
		return
	}
	s.Reset()
	s.models.setLimits(Limits{})
	s.media.setLimits(Limits{})
}
