package session

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/seedcraft/fluxmcp/internal/biochem"
	"github.com/seedcraft/fluxmcp/internal/platform/errors"
)

func testModel(payload string) biochem.Model {
	return biochem.Model{
		Template: "gram_negative",
		Stats:    biochem.ModelStats{Reactions: 3, Metabolites: 4, Genes: 2},
		Payload:  json.RawMessage(payload),
	}
}

func mustModelRecord(t *testing.T, id, payload string) ModelRecord {
	t.Helper()
	record, err := NewModelRecord(id, testModel(payload), ModelNotes{TemplateUsed: "gram_negative"})
	if err != nil {
		t.Fatalf("NewModelRecord(%q) error: %v", id, err)
	}
	return record
}

func TestStorePutGetRoundTrip(t *testing.T) {
	s := New(StorageConfig{})
	ctx := context.Background()

	record := mustModelRecord(t, "ecoli_k12.draft", `{"reactions":[]}`)
	if err := s.Models().Put(ctx, record.ID, record); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	got, err := s.Models().Get(ctx, "ecoli_k12.draft")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.ID != record.ID {
		t.Errorf("got id %q, want %q", got.ID, record.ID)
	}
	if got.Notes.TemplateUsed != "gram_negative" {
		t.Errorf("got template %q, want gram_negative", got.Notes.TemplateUsed)
	}
	if string(got.Artifact.Payload) != `{"reactions":[]}` {
		t.Errorf("payload changed on round trip: %s", got.Artifact.Payload)
	}
}

func TestStoreGetMissing(t *testing.T) {
	s := New(StorageConfig{})

	_, err := s.Models().Get(context.Background(), "nope.draft")
	if !errors.IsCode(err, errors.CodeModelNotFound) {
		t.Fatalf("got %v, want MODEL_NOT_FOUND", err)
	}
	if got := errors.GetMetadata(err)["id"]; got != "nope.draft" {
		t.Errorf("metadata id = %q, want nope.draft", got)
	}
}

func TestStoreEmptyID(t *testing.T) {
	s := New(StorageConfig{})
	ctx := context.Background()

	if _, err := s.Models().Get(ctx, "   "); !errors.IsCode(err, errors.CodeModelIDEmpty) {
		t.Errorf("Get: got %v, want MODEL_ID_EMPTY", err)
	}
	if err := s.Models().Delete(ctx, ""); !errors.IsCode(err, errors.CodeModelIDEmpty) {
		t.Errorf("Delete: got %v, want MODEL_ID_EMPTY", err)
	}
	if _, err := s.Media().Get(ctx, ""); !errors.IsCode(err, errors.CodeMediaIDEmpty) {
		t.Errorf("media Get: got %v, want MEDIA_ID_EMPTY", err)
	}
}

func TestStoreOverwriteReplaces(t *testing.T) {
	s := New(StorageConfig{})
	ctx := context.Background()

	first := mustModelRecord(t, "m.draft", `{"v":1}`)
	second := mustModelRecord(t, "m.draft", `{"v":2,"extra":true}`)

	if err := s.Models().Put(ctx, "m.draft", first); err != nil {
		t.Fatalf("first Put error: %v", err)
	}
	if err := s.Models().Put(ctx, "m.draft", second); err != nil {
		t.Fatalf("second Put error: %v", err)
	}

	if count := s.Models().Count(); count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	got, err := s.Models().Get(ctx, "m.draft")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if string(got.Artifact.Payload) != `{"v":2,"extra":true}` {
		t.Errorf("overwrite kept old payload: %s", got.Artifact.Payload)
	}
	if want := second.Artifact.Size(); s.Models().Bytes() != want {
		t.Errorf("bytes = %d, want %d", s.Models().Bytes(), want)
	}
}

func TestStoreDeleteThenGet(t *testing.T) {
	s := New(StorageConfig{})
	ctx := context.Background()

	record := mustModelRecord(t, "m.draft", `{}`)
	if err := s.Models().Put(ctx, record.ID, record); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if err := s.Models().Delete(ctx, "m.draft"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := s.Models().Get(ctx, "m.draft"); !errors.IsCode(err, errors.CodeModelNotFound) {
		t.Errorf("got %v, want MODEL_NOT_FOUND after delete", err)
	}
	if err := s.Models().Delete(ctx, "m.draft"); !errors.IsCode(err, errors.CodeModelNotFound) {
		t.Errorf("second delete: got %v, want MODEL_NOT_FOUND", err)
	}
	if s.Models().Bytes() != 0 {
		t.Errorf("bytes = %d after delete, want 0", s.Models().Bytes())
	}
}

func TestStoreIDsSorted(t *testing.T) {
	s := New(StorageConfig{})
	ctx := context.Background()

	for _, id := range []string{"zeta.draft", "alpha.draft", "mid.draft"} {
		if err := s.Models().Put(ctx, id, mustModelRecord(t, id, `{}`)); err != nil {
			t.Fatalf("Put(%q) error: %v", id, err)
		}
	}

	ids := s.Models().IDs()
	want := []string{"alpha.draft", "mid.draft", "zeta.draft"}
	if len(ids) != len(want) {
		t.Fatalf("got %d ids, want %d", len(ids), len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestStoreCountLimit(t *testing.T) {
	s := New(StorageConfig{MaxModels: 2})
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		id := fmt.Sprintf("m%d.draft", i)
		if err := s.Models().Put(ctx, id, mustModelRecord(t, id, `{}`)); err != nil {
			t.Fatalf("Put(%q) error: %v", id, err)
		}
	}

	err := s.Models().Put(ctx, "m3.draft", mustModelRecord(t, "m3.draft", `{}`))
	if !errors.IsCode(err, errors.CodeCapacityExceeded) {
		t.Fatalf("got %v, want CAPACITY_EXCEEDED", err)
	}
	metadata := errors.GetMetadata(err)
	if metadata["limit"] != "2" {
		t.Errorf("metadata limit = %q, want 2", metadata["limit"])
	}
	if metadata["attempted"] != "3" {
		t.Errorf("metadata attempted = %q, want 3", metadata["attempted"])
	}

	// Rejected insert leaves the store untouched.
	if count := s.Models().Count(); count != 2 {
		t.Errorf("count = %d after rejection, want 2", count)
	}
	if s.Models().Exists("m3.draft") {
		t.Error("rejected id was stored")
	}

	// Overwriting an existing id is exempt from the count check.
	if err := s.Models().Put(ctx, "m1.draft", mustModelRecord(t, "m1.draft", `{"v":2}`)); err != nil {
		t.Errorf("overwrite at capacity failed: %v", err)
	}

	// Freeing a slot lets the insert through.
	if err := s.Models().Delete(ctx, "m2.draft"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := s.Models().Put(ctx, "m3.draft", mustModelRecord(t, "m3.draft", `{}`)); err != nil {
		t.Errorf("Put after delete failed: %v", err)
	}
}

func TestStoreByteLimit(t *testing.T) {
	small := mustModelRecord(t, "small.draft", `{}`)
	budget := small.Artifact.Size() + 4

	s := New(StorageConfig{MaxArtifactBytes: budget})
	ctx := context.Background()

	if err := s.Models().Put(ctx, small.ID, small); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	big := mustModelRecord(t, "big.draft", `{"reactions":["rxn00001_c0","rxn00002_c0"]}`)
	err := s.Models().Put(ctx, big.ID, big)
	if !errors.IsCode(err, errors.CodeCapacityExceeded) {
		t.Fatalf("got %v, want CAPACITY_EXCEEDED", err)
	}
	if s.Models().Bytes() != small.Artifact.Size() {
		t.Errorf("bytes = %d after rejection, want %d", s.Models().Bytes(), small.Artifact.Size())
	}
}

func TestStoreClear(t *testing.T) {
	s := New(StorageConfig{})
	ctx := context.Background()

	if err := s.Models().Put(ctx, "m.draft", mustModelRecord(t, "m.draft", `{}`)); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	reserved, err := s.NewModelID(ctx)
	if err != nil {
		t.Fatalf("NewModelID error: %v", err)
	}

	s.Models().Clear()

	if count := s.Models().Count(); count != 0 {
		t.Errorf("count = %d after clear, want 0", count)
	}
	if s.Models().Bytes() != 0 {
		t.Errorf("bytes = %d after clear, want 0", s.Models().Bytes())
	}
	// Clearing releases reservations, so the id is issuable again.
	if err := s.Models().Put(ctx, reserved, mustModelRecord(t, reserved, `{}`)); err != nil {
		t.Errorf("Put(%q) after clear failed: %v", reserved, err)
	}
	// Idempotent.
	s.Models().Clear()
}

func TestStoreCheckCapacity(t *testing.T) {
	s := New(StorageConfig{MaxModels: 1, MaxArtifactBytes: 100})

	if err := s.Models().CheckCapacity(1, 100); err != nil {
		t.Errorf("at-limit proposal rejected: %v", err)
	}
	if err := s.Models().CheckCapacity(2, 10); !errors.IsCode(err, errors.CodeCapacityExceeded) {
		t.Errorf("count overflow: got %v, want CAPACITY_EXCEEDED", err)
	}
	if err := s.Models().CheckCapacity(1, 101); !errors.IsCode(err, errors.CodeCapacityExceeded) {
		t.Errorf("byte overflow: got %v, want CAPACITY_EXCEEDED", err)
	}

	unbounded := New(StorageConfig{})
	if err := unbounded.Models().CheckCapacity(1_000_000, 1<<40); err != nil {
		t.Errorf("unbounded store rejected proposal: %v", err)
	}
}

func TestStoreCanceledContext(t *testing.T) {
	s := New(StorageConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Models().Put(ctx, "m.draft", mustModelRecord(t, "m.draft", `{}`)); err == nil {
		t.Error("Put with canceled context succeeded")
	}
	if _, err := s.Models().Get(ctx, "m.draft"); err == nil {
		t.Error("Get with canceled context succeeded")
	}
}
