package session

import (
	"fmt"
	"time"

	"github.com/seedcraft/fluxmcp/internal/biochem"
	"github.com/seedcraft/fluxmcp/internal/platform/errors"
)

// ModelNotes is the structured metadata attached to a stored model.
// DerivedFrom is a lookup-only back-reference to the id this model was
// gapfilled from; it does not keep the parent record alive.
type ModelNotes struct {
	TemplateUsed string
	CreatedAt    time.Time
	DerivedFrom  string
}

// ModelRecord pairs a model artifact with its identifier and notes. The
// record owns its artifact exclusively; mutation happens only by replacement
// through a transform-then-store sequence.
type ModelRecord struct {
	ID       string
	Artifact biochem.Model
	Notes    ModelNotes
}

// NewModelRecord validates and assembles a model record. The creation
// timestamp is normalized to UTC; a zero timestamp is stamped with now.
func NewModelRecord(id string, artifact biochem.Model, notes ModelNotes) (ModelRecord, error) {
	if artifact.Empty() {
		return ModelRecord{}, errors.WithMetadata(errors.CodeModelArtifactEmpty,
			fmt.Sprintf("model %q has no artifact payload", id),
			map[string]string{"id": id})
	}
	if notes.CreatedAt.IsZero() {
		notes.CreatedAt = time.Now()
	}
	notes.CreatedAt = notes.CreatedAt.UTC()
	return ModelRecord{ID: id, Artifact: artifact, Notes: notes}, nil
}

// MediaRecord pairs a media artifact with its identifier and provenance.
type MediaRecord struct {
	ID        string
	Media     biochem.Media
	CreatedAt time.Time
	Source    biochem.MediaSource
}

// NewMediaRecord validates and assembles a media record. The media is
// cloned so the record never shares mutable state with the caller.
func NewMediaRecord(id string, media biochem.Media, source biochem.MediaSource, createdAt time.Time) (MediaRecord, error) {
	if len(media) == 0 {
		return MediaRecord{}, errors.WithMetadata(errors.CodeMediaEmpty,
			fmt.Sprintf("media %q has no compounds", id),
			map[string]string{"id": id})
	}
	if err := media.Validate(); err != nil {
		return MediaRecord{}, err
	}
	if !source.Valid() {
		return MediaRecord{}, errors.WithMetadata(errors.CodeMediaSourceInvalid,
			fmt.Sprintf("media source %q is not recognized", source),
			map[string]string{"source": string(source)})
	}
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return MediaRecord{
		ID:        id,
		Media:     media.Clone(),
		CreatedAt: createdAt.UTC(),
		Source:    source,
	}, nil
}

// modelRecordSize reports the artifact byte footprint for capacity limits.
func modelRecordSize(record ModelRecord) int64 {
	return record.Artifact.Size()
}

// mediaRecordSize reports the artifact byte footprint for capacity limits.
func mediaRecordSize(record MediaRecord) int64 {
	return record.Media.Size()
}
