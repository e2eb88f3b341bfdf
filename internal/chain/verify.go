package chain

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"songchain/internal/logging"
	"songchain/internal/types"
)

// Verify asks the lookup whether title by artist exists. Any lookup failure
// counts as not verified.
func (e *Engine) Verify(ctx context.Context, title, artist string) bool {
	if e.lookup == nil {
		logging.WarnCtx(ctx, "No lookup configured, cannot verify %q by %q", title, artist)
		return false
	}
	if e.lookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.lookupTimeout)
		defer cancel()
	}

	recordings, err := e.lookup.SearchRecordings(ctx, strings.ToLower(title), strings.ToLower(artist))
	if err != nil {
		logging.WarnCtx(ctx, "Error during recording lookup for %q by %q: %v", title, artist, err)
		return false
	}
	logging.Debug("Lookup for %q by %q returned %d recordings", title, artist, len(recordings))

	return lo.ContainsBy(recordings, func(rec types.Recording) bool {
		return TitleMatches(title, rec.Title)
	})
}

// TitleMatches reports whether a candidate title names the same song as a
// recording title: equal ignoring case, equal once punctuation is removed,
// or equal once both are normalized.
func TitleMatches(candidate, recording string) bool {
	c := strings.ToLower(candidate)
	r := strings.ToLower(recording)
	if c == r {
		return true
	}
	if StripPunctuation(c) == StripPunctuation(r) {
		return true
	}
	return strings.ToLower(Normalize(candidate)) == strings.ToLower(Normalize(recording))
}
