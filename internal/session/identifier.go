package session

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/seedcraft/fluxmcp/internal/platform/id"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	modelIDPrefix = "model_"
	mediaIDPrefix = "media_"
	// tokenLength keeps auto ids readable; collisions are resolved by
	// regeneration under the store lock, not prevented by entropy alone.
	tokenLength = 8
)

// NewModelID issues a fresh auto-generated model identifier (a bare base,
// no state suffix) guaranteed absent from the model store. The id stays
// reserved until a record is stored under it or the session is reset.
func (s *Session) NewModelID(ctx context.Context) (string, error) {
	if err := ctxErr(ctx); err != nil {
		return "", err
	}
	return s.models.reserve(func() (string, error) {
		token, err := id.Token(tokenLength)
		if err != nil {
			return "", err
		}
		return modelIDPrefix + token, nil
	})
}

// ModelIDFromName issues a draft model identifier derived from a
// human-supplied name: the sanitized base with ".draft" appended. A base
// collision gains a numeric suffix before ".draft" ("ecoli_k12_2.draft").
// When sanitization yields an empty base the auto-token path is used
// instead. Collisions are resolved, never reported.
func (s *Session) ModelIDFromName(ctx context.Context, name string) (string, error) {
	if err := ctxErr(ctx); err != nil {
		return "", err
	}

	base := SanitizeName(name)
	if base == "" {
		return s.models.reserve(func() (string, error) {
			token, err := id.Token(tokenLength)
			if err != nil {
				return "", err
			}
			return modelIDPrefix + token + SuffixDraft, nil
		})
	}

	return s.models.reserveSequence(func(attempt int) string {
		if attempt == 1 {
			return base + SuffixDraft
		}
		return fmt.Sprintf("%s_%d%s", base, attempt, SuffixDraft)
	})
}

// NewMediaID issues a fresh auto-generated media identifier guaranteed
// absent from the media store, under the same reservation discipline as
// model ids.
func (s *Session) NewMediaID(ctx context.Context) (string, error) {
	if err := ctxErr(ctx); err != nil {
		return "", err
	}
	return s.media.reserve(func() (string, error) {
		token, err := id.Token(tokenLength)
		if err != nil {
			return "", err
		}
		return mediaIDPrefix + token, nil
	})
}

var (
	// abbrevDot collapses abbreviation periods together with the
	// whitespace that follows them, so "E. coli" becomes "Ecoli" rather
	// than "e_coli".
	abbrevDot = regexp.MustCompile(`\.\s*`)
	// nonAlnum collapses every remaining run of non-alphanumerics.
	nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
)

// SanitizeName reduces a human-supplied name to an identifier base:
// diacritics are folded to ASCII, abbreviation periods consume their
// trailing whitespace, the result is lowercased, and non-alphanumeric runs
// become single underscores. "E. coli K12" -> "ecoli_k12". Returns the
// empty string when nothing survives.
func SanitizeName(name string) string {
	folded := foldDiacritics(name)
	collapsed := abbrevDot.ReplaceAllString(folded, "")
	lowered := strings.ToLower(collapsed)
	slug := nonAlnum.ReplaceAllString(lowered, "_")
	return strings.Trim(slug, "_")
}

// foldDiacritics strips combining marks ("Kluyvéromyces" -> "Kluyveromyces").
func foldDiacritics(value string) string {
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(chain, value)
	if err != nil {
		return value
	}
	return folded
}

func ctxErr(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}
