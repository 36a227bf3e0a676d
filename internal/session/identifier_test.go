package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/seedcraft/fluxmcp/internal/biochem"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"species abbreviation", "E. coli K12", "ecoli_k12"},
		{"plain", "Yeast", "yeast"},
		{"punctuation runs", "M. tuberculosis  (H37Rv)!", "mtuberculosis_h37rv"},
		{"diacritics", "Kluyvéromyces", "kluyveromyces"},
		{"leading and trailing junk", "--B. subtilis--", "b_subtilis"},
		{"only junk", "!!! ???", ""},
		{"empty", "", ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := SanitizeName(test.in); got != test.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", test.in, got, test.want)
			}
		})
	}
}

func TestModelIDFromName(t *testing.T) {
	s := New(StorageConfig{})
	ctx := context.Background()

	got, err := s.ModelIDFromName(ctx, "E. coli K12")
	if err != nil {
		t.Fatalf("ModelIDFromName error: %v", err)
	}
	if got != "ecoli_k12.draft" {
		t.Fatalf("got %q, want ecoli_k12.draft", got)
	}
}

func TestModelIDFromNameCollision(t *testing.T) {
	s := New(StorageConfig{})
	ctx := context.Background()

	first, err := s.ModelIDFromName(ctx, "E. coli K12")
	if err != nil {
		t.Fatalf("first ModelIDFromName error: %v", err)
	}
	if err := s.Models().Put(ctx, first, mustModelRecord(t, first, `{}`)); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	second, err := s.ModelIDFromName(ctx, "E. coli K12")
	if err != nil {
		t.Fatalf("second ModelIDFromName error: %v", err)
	}
	if second != "ecoli_k12_2.draft" {
		t.Errorf("second id = %q, want ecoli_k12_2.draft", second)
	}

	// The second id is reserved even before a record lands under it.
	third, err := s.ModelIDFromName(ctx, "E. coli K12")
	if err != nil {
		t.Fatalf("third ModelIDFromName error: %v", err)
	}
	if third != "ecoli_k12_3.draft" {
		t.Errorf("third id = %q, want ecoli_k12_3.draft", third)
	}
}

func TestModelIDFromNameEmptyFallsBackToToken(t *testing.T) {
	s := New(StorageConfig{})

	got, err := s.ModelIDFromName(context.Background(), "  !!!  ")
	if err != nil {
		t.Fatalf("ModelIDFromName error: %v", err)
	}
	if !strings.HasPrefix(got, modelIDPrefix) {
		t.Errorf("id %q lacks %q prefix", got, modelIDPrefix)
	}
	if !strings.HasSuffix(got, SuffixDraft) {
		t.Errorf("id %q lacks %q suffix", got, SuffixDraft)
	}
}

func TestNewModelIDDistinct(t *testing.T) {
	s := New(StorageConfig{})
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id, err := s.NewModelID(ctx)
		if err != nil {
			t.Fatalf("NewModelID error: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id issued: %q", id)
		}
		if !strings.HasPrefix(id, modelIDPrefix) {
			t.Fatalf("id %q lacks %q prefix", id, modelIDPrefix)
		}
		if strings.Contains(id, ".") {
			t.Fatalf("auto model id %q carries a state suffix", id)
		}
		seen[id] = true
	}
}

func TestNewMediaIDDistinct(t *testing.T) {
	s := New(StorageConfig{})
	ctx := context.Background()

	media := biochem.Media{"cpd00027_e0": {Lower: -10, Upper: 1000}}

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := s.NewMediaID(ctx)
		if err != nil {
			t.Fatalf("NewMediaID error: %v", err)
		}
		record, err := NewMediaRecord(id, media, biochem.MediaSourceUser, time.Time{})
		if err != nil {
			t.Fatalf("NewMediaRecord error: %v", err)
		}
		if err := s.Media().Put(ctx, id, record); err != nil {
			t.Fatalf("Put error: %v", err)
		}
		ids = append(ids, id)
	}

	if ids[0] == ids[1] || ids[1] == ids[2] || ids[0] == ids[2] {
		t.Errorf("media ids not distinct: %v", ids)
	}
	if count := s.Media().Count(); count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestIssuedIDCanceledContext(t *testing.T) {
	s := New(StorageConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.NewModelID(ctx); err == nil {
		t.Error("NewModelID with canceled context succeeded")
	}
	if _, err := s.ModelIDFromName(ctx, "Yeast"); err == nil {
		t.Error("ModelIDFromName with canceled context succeeded")
	}
	if _, err := s.NewMediaID(ctx); err == nil {
		t.Error("NewMediaID with canceled context succeeded")
	}
}
