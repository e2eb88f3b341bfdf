package types

import "fmt"

// ChainState is the state of one game. An empty PreviousSong means no song
// has been accepted yet.
type ChainState struct {
	PreviousSong  string              `json:"previousSong"`
	UsedSongs     map[string]struct{} `json:"usedSongs"`
	CurrentPlayer int                 `json:"currentPlayer"`
}

// NewChainState returns the state a fresh game starts from.
func NewChainState() ChainState {
	return ChainState{
		PreviousSong:  "",
		UsedSongs:     map[string]struct{}{},
		CurrentPlayer: 0,
	}
}

// HasPrevious reports whether a song has been accepted in this game.
func (s ChainState) HasPrevious() bool {
	return s.PreviousSong != ""
}

// Move is a raw submission from a player.
type Move struct {
	SongName   string `json:"songName"`
	ArtistName string `json:"artistName"`
}

// Recording is a single match returned by the lookup provider.
type Recording struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

type HistoryEntry struct {
	Player int    `json:"player"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

func (h HistoryEntry) String() string {
	return fmt.Sprintf("Player %d: %s by %s", h.Player+1, h.Title, h.Artist)
}
