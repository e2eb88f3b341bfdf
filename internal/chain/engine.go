// Package chain holds the rules of the song chain game: title normalization,
// the chain letter, and move validation.
package chain

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"time"

	"songchain/internal/logging"
	"songchain/internal/types"
)

// DefaultLookupTimeout bounds a single verification lookup.
const DefaultLookupTimeout = 10 * time.Second

// Lookup searches the music metadata provider for recordings.
type Lookup interface {
	SearchRecordings(ctx context.Context, query, artist string) ([]types.Recording, error)
}

// Engine validates moves. It keeps no game state of its own and is safe for
// concurrent use.
type Engine struct {
	lookup        Lookup
	lookupTimeout time.Duration
}

type Option func(*Engine)

// WithLookupTimeout overrides DefaultLookupTimeout. Zero disables the bound.
func WithLookupTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.lookupTimeout = d
	}
}

func NewEngine(lookup Lookup, opts ...Option) *Engine {
	e := &Engine{
		lookup:        lookup,
		lookupTimeout: DefaultLookupTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result describes an accepted move.
type Result struct {
	Player int
	Title  string
	Artist string
}

func (r Result) HistoryEntry() types.HistoryEntry {
	return types.HistoryEntry{Player: r.Player, Title: r.Title, Artist: r.Artist}
}

// SubmitMove checks move against state and returns the state after it.
// Checks run in a fixed order and stop at the first failure; on failure the
// returned state is the input state.
func (e *Engine) SubmitMove(ctx context.Context, state types.ChainState, move types.Move) (types.ChainState, Result, error) {
	artist := strings.TrimSpace(move.ArtistName)
	if artist == "" {
		return state, Result{}, ErrMissingArtist
	}

	title := Normalize(move.SongName)
	if title == "" {
		return state, Result{}, ErrInvalidTitle
	}
	key := strings.ToLower(title)

	if state.HasPrevious() {
		expected, err := LastSoundLetter(state.PreviousSong)
		if err != nil {
			return state, Result{}, err
		}
		if !strings.HasPrefix(key, string(expected)) {
			return state, Result{}, &WrongLetterError{Expected: expected}
		}
	}

	if _, used := state.UsedSongs[key]; used {
		return state, Result{}, ErrDuplicateSong
	}

	if !e.Verify(ctx, title, artist) {
		return state, Result{}, ErrUnverifiedSong
	}

	next := types.ChainState{
		PreviousSong:  title,
		UsedSongs:     maps.Clone(state.UsedSongs),
		CurrentPlayer: 1 - state.CurrentPlayer,
	}
	if next.UsedSongs == nil {
		next.UsedSongs = map[string]struct{}{}
	}
	next.UsedSongs[key] = struct{}{}

	logging.InfoCtx(ctx, "%s played %q by %q", PlayerName(state.CurrentPlayer), title, artist)
	return next, Result{Player: state.CurrentPlayer, Title: title, Artist: artist}, nil
}

// ExpectedLetter returns the letter the next song must start with, or false
// when any song may open the chain.
func ExpectedLetter(state types.ChainState) (rune, bool) {
	if !state.HasPrevious() {
		return 0, false
	}
	r, err := LastSoundLetter(state.PreviousSong)
	if err != nil {
		return 0, false
	}
	return r, true
}

// Reset returns the initial state of a game.
func Reset() types.ChainState {
	return types.NewChainState()
}

// PlayerName returns the display name for a player index.
func PlayerName(i int) string {
	return fmt.Sprintf("Player %d", i+1)
}
