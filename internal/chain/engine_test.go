package chain

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"songchain/internal/types"
)

type fakeLookup struct {
	recordings []types.Recording
	err        error
	echo       bool
	calls      int
	lastQuery  string
	lastArtist string
}

func (f *fakeLookup) SearchRecordings(_ context.Context, query, artist string) ([]types.Recording, error) {
	f.calls++
	f.lastQuery = query
	f.lastArtist = artist
	if f.err != nil {
		return nil, f.err
	}
	if f.echo {
		return []types.Recording{{Title: query, Artist: artist}}, nil
	}
	return f.recordings, nil
}

type blockingLookup struct{}

func (blockingLookup) SearchRecordings(ctx context.Context, _, _ string) ([]types.Recording, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func stateAfter(previous string, used ...string) types.ChainState {
	s := types.NewChainState()
	s.PreviousSong = previous
	for _, u := range used {
		s.UsedSongs[u] = struct{}{}
	}
	return s
}

func TestSubmitMoveAcceptsChainedSong(t *testing.T) {
	lookup := &fakeLookup{recordings: []types.Recording{
		{Title: "Summertime Sadness", Artist: "Lana Del Rey"},
		{Title: "Young and Beautiful", Artist: "Lana Del Rey"},
	}}
	engine := NewEngine(lookup)
	state := stateAfter("yesterday", "yesterday")

	next, res, err := engine.SubmitMove(context.Background(), state, types.Move{
		SongName:   "Young and Beautiful",
		ArtistName: "Lana Del Rey",
	})
	if err != nil {
		t.Fatalf("SubmitMove returned error: %v", err)
	}
	if next.CurrentPlayer != 1 {
		t.Errorf("CurrentPlayer = %d, want 1", next.CurrentPlayer)
	}
	if next.PreviousSong != "Young and Beautiful" {
		t.Errorf("PreviousSong = %q, want %q", next.PreviousSong, "Young and Beautiful")
	}
	if _, ok := next.UsedSongs["young and beautiful"]; !ok {
		t.Errorf("UsedSongs missing accepted title: %v", next.UsedSongs)
	}
	if len(state.UsedSongs) != 1 {
		t.Errorf("input state was mutated: %v", state.UsedSongs)
	}
	if lookup.lastQuery != "young and beautiful" || lookup.lastArtist != "lana del rey" {
		t.Errorf("lookup called with %q/%q, want lower-cased title and artist", lookup.lastQuery, lookup.lastArtist)
	}
	if res.Player != 0 || res.HistoryEntry().String() != "Player 1: Young and Beautiful by Lana Del Rey" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestSubmitMoveFirstSongNeedsNoLetter(t *testing.T) {
	engine := NewEngine(&fakeLookup{echo: true})
	next, _, err := engine.SubmitMove(context.Background(), types.NewChainState(), types.Move{SongName: "2 become 1", ArtistName: "Spice Girls"})
	if err != nil {
		t.Fatalf("SubmitMove returned error: %v", err)
	}
	if next.PreviousSong != "two become one" {
		t.Errorf("PreviousSong = %q, want normalized title", next.PreviousSong)
	}
}

func TestSubmitMoveRejections(t *testing.T) {
	tests := []struct {
		name    string
		state   types.ChainState
		move    types.Move
		lookup  Lookup
		wantErr error
	}{
		{
			name:    "missing artist wins over wrong letter",
			state:   stateAfter("yesterday", "yesterday"),
			move:    types.Move{SongName: "Hello", ArtistName: "  "},
			lookup:  &fakeLookup{echo: true},
			wantErr: ErrMissingArtist,
		},
		{
			name:    "empty title",
			state:   types.NewChainState(),
			move:    types.Move{SongName: " !! ", ArtistName: "Adele"},
			lookup:  &fakeLookup{echo: true},
			wantErr: ErrInvalidTitle,
		},
		{
			name:    "wrong letter",
			state:   stateAfter("yesterday", "yesterday"),
			move:    types.Move{SongName: "Hello", ArtistName: "Adele"},
			lookup:  &fakeLookup{echo: true},
			wantErr: ErrWrongStartingLetter,
		},
		{
			name:    "duplicate ignoring case",
			state:   stateAfter("yesterday", "yesterday", "young and beautiful"),
			move:    types.Move{SongName: "YOUNG AND BEAUTIFUL", ArtistName: "Lana Del Rey"},
			lookup:  &fakeLookup{echo: true},
			wantErr: ErrDuplicateSong,
		},
		{
			name:    "no matching recording",
			state:   types.NewChainState(),
			move:    types.Move{SongName: "Made Up Song", ArtistName: "Nobody"},
			lookup:  &fakeLookup{recordings: []types.Recording{{Title: "Another Song"}}},
			wantErr: ErrUnverifiedSong,
		},
		{
			name:    "lookup error fails closed",
			state:   types.NewChainState(),
			move:    types.Move{SongName: "Hello", ArtistName: "Adele"},
			lookup:  &fakeLookup{err: errors.New("connection refused")},
			wantErr: ErrUnverifiedSong,
		},
		{
			name:    "no lookup configured",
			state:   types.NewChainState(),
			move:    types.Move{SongName: "Hello", ArtistName: "Adele"},
			lookup:  nil,
			wantErr: ErrUnverifiedSong,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(tt.lookup)
			before := tt.state
			beforeUsed := len(tt.state.UsedSongs)
			next, _, err := engine.SubmitMove(context.Background(), tt.state, tt.move)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if !IsRejection(err) {
				t.Errorf("IsRejection(%v) = false", err)
			}
			if next.PreviousSong != before.PreviousSong || next.CurrentPlayer != before.CurrentPlayer || len(next.UsedSongs) != beforeUsed {
				t.Errorf("state changed on rejection: %+v", next)
			}
		})
	}
}

func TestSubmitMoveDuplicateSkipsLookup(t *testing.T) {
	lookup := &fakeLookup{echo: true}
	engine := NewEngine(lookup)
	_, _, err := engine.SubmitMove(context.Background(), stateAfter("yesterday", "yesterday", "yellow"), types.Move{SongName: "Yellow", ArtistName: "Coldplay"})
	if !errors.Is(err, ErrDuplicateSong) {
		t.Fatalf("error = %v, want ErrDuplicateSong", err)
	}
	if lookup.calls != 0 {
		t.Errorf("lookup called %d times for a duplicate", lookup.calls)
	}
}

func TestWrongLetterErrorCarriesExpected(t *testing.T) {
	engine := NewEngine(&fakeLookup{echo: true})
	_, _, err := engine.SubmitMove(context.Background(), stateAfter("Take 5", "take 5"), types.Move{SongName: "Hello", ArtistName: "Adele"})
	var wl *WrongLetterError
	if !errors.As(err, &wl) {
		t.Fatalf("error = %v, want *WrongLetterError", err)
	}
	if wl.Expected != 'e' {
		t.Errorf("Expected = %q, want 'e'", wl.Expected)
	}
	if wl.Error() != "The song must start with the letter 'e'." {
		t.Errorf("message = %q", wl.Error())
	}
}

func TestVerifyTimesOut(t *testing.T) {
	engine := NewEngine(blockingLookup{}, WithLookupTimeout(20*time.Millisecond))
	start := time.Now()
	_, _, err := engine.SubmitMove(context.Background(), types.NewChainState(), types.Move{SongName: "Hello", ArtistName: "Adele"})
	if !errors.Is(err, ErrUnverifiedSong) {
		t.Fatalf("error = %v, want ErrUnverifiedSong", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Errorf("lookup timeout not applied")
	}
}

func TestTurnSequence(t *testing.T) {
	engine := NewEngine(&fakeLookup{echo: true})
	moves := []types.Move{
		{SongName: "Hello", ArtistName: "Adele"},
		{SongName: "One", ArtistName: "U2"},
		{SongName: "one", ArtistName: "Metallica"},
		{SongName: "Enter Sandman", ArtistName: "Metallica"},
		{SongName: "November Rain", ArtistName: "Guns N' Roses"},
		{SongName: "Nothing Else Matters", ArtistName: "Metallica"},
	}
	state := types.NewChainState()
	accepted := 0
	for _, m := range moves {
		next, res, err := engine.SubmitMove(context.Background(), state, m)
		if err != nil {
			if !IsRejection(err) {
				t.Fatalf("unexpected error %v", err)
			}
			continue
		}
		accepted++
		if next.PreviousSong != res.Title {
			t.Errorf("PreviousSong = %q, want %q", next.PreviousSong, res.Title)
		}
		if next.CurrentPlayer == state.CurrentPlayer {
			t.Errorf("player did not change after %q", res.Title)
		}
		if len(next.UsedSongs) != accepted {
			t.Errorf("UsedSongs has %d entries after %d accepted moves", len(next.UsedSongs), accepted)
		}
		state = next
	}
	if accepted != 5 {
		t.Errorf("accepted %d moves, want 5", accepted)
	}
	if state.PreviousSong != "Nothing Else Matters" {
		t.Errorf("PreviousSong = %q", state.PreviousSong)
	}

	if got := Reset(); !reflect.DeepEqual(got, types.NewChainState()) {
		t.Errorf("Reset() = %+v, want initial state", got)
	}
}

func TestExpectedLetter(t *testing.T) {
	if _, ok := ExpectedLetter(types.NewChainState()); ok {
		t.Error("ExpectedLetter reported a letter for a new game")
	}
	if r, ok := ExpectedLetter(stateAfter("Yesterday")); !ok || r != 'y' {
		t.Errorf("ExpectedLetter = %q, %v; want 'y', true", r, ok)
	}
}

func TestTitleMatches(t *testing.T) {
	tests := []struct {
		candidate, recording string
		want                 bool
	}{
		{"Yesterday", "yesterday", true},
		{"Dont Stop Me Now", "Don't Stop Me Now", true},
		{"two become one", "2 Become 1", true},
		{"Rock Roll", "Rock - Roll", true},
		{"Hello", "Hello Again", false},
	}
	for _, tt := range tests {
		if got := TitleMatches(tt.candidate, tt.recording); got != tt.want {
			t.Errorf("TitleMatches(%q, %q) = %v, want %v", tt.candidate, tt.recording, got, tt.want)
		}
	}
}

func TestPlayerName(t *testing.T) {
	if PlayerName(0) != "Player 1" || PlayerName(1) != "Player 2" {
		t.Errorf("PlayerName = %q, %q", PlayerName(0), PlayerName(1))
	}
}
