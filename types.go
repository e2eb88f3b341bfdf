package main

import (
	"sync"
	"time"

	"github.com/samber/lo"

	"songchain/internal/chain"
	"songchain/internal/types"
)

// GameSession is the game owned by one browser session.
type GameSession struct {
	mu sync.Mutex // held for a whole submit so one browser's moves serialize

	State          types.ChainState
	History        []types.HistoryEntry
	Message        string
	Error          string
	LastSong       string
	LastArtist     string
	LastAccessTime time.Time
}

func newGameSession() *GameSession {
	return &GameSession{
		State:          chain.Reset(),
		History:        []types.HistoryEntry{},
		LastAccessTime: time.Now(),
	}
}

// GameView is what the templates render.
type GameView struct {
	Player         string
	ExpectedLetter string
	History        []string
	Message        string
	Error          string
	Song           string
	Artist         string
	Turns          int
}

// view snapshots the session for rendering. The caller holds s.mu.
func (s *GameSession) view() GameView {
	v := GameView{
		Player:  chain.PlayerName(s.State.CurrentPlayer),
		History: lo.Map(s.History, func(h types.HistoryEntry, _ int) string { return h.String() }),
		Message: s.Message,
		Error:   s.Error,
		Song:    s.LastSong,
		Artist:  s.LastArtist,
		Turns:   len(s.History),
	}
	if letter, ok := chain.ExpectedLetter(s.State); ok {
		v.ExpectedLetter = string(letter)
	}
	return v
}
