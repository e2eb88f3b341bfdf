// Package console runs the song chain game as an interactive terminal loop.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"songchain/internal/chain"
	"songchain/internal/logging"
	"songchain/internal/types"
)

const (
	Welcome = "Welcome to the Song Chain Game!"
	Rules   = "Rules: Each player must name a song and its artist. The song must start with the last letter of the previous song's name, and songs cannot be repeated."
)

// Game is one console session. Its state lives as long as the process.
type Game struct {
	engine *chain.Engine
	out    *Output

	scanner *bufio.Scanner
	lines   chan string
	scanErr error

	state   types.ChainState
	history []types.HistoryEntry
}

func NewGame(engine *chain.Engine, in io.Reader, out *Output) *Game {
	return &Game{
		engine:  engine,
		out:     out,
		scanner: bufio.NewScanner(in),
		state:   types.NewChainState(),
	}
}

// State returns the current chain state.
func (g *Game) State() types.ChainState {
	return g.state
}

// History returns the accepted moves in order.
func (g *Game) History() []types.HistoryEntry {
	return g.history
}

// Run plays turns until input ends or ctx is cancelled. Both count as a
// normal end of the game.
func (g *Game) Run(ctx context.Context) error {
	g.startReader()

	g.out.Heading(Welcome)
	g.out.Println(Rules)

	for {
		player := chain.PlayerName(g.state.CurrentPlayer)
		g.out.Heading(fmt.Sprintf("%s's turn!", player))
		if letter, ok := chain.ExpectedLetter(g.state); ok {
			g.out.Println(fmt.Sprintf("Your song must start with the letter '%c'.", letter))
		}

		accepted, err := g.playTurn(ctx, player)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				g.out.Println("")
				g.out.Println("Thanks for playing!")
				return nil
			}
			return err
		}
		g.out.Success(fmt.Sprintf("Valid move! %s by %s", accepted.Title, accepted.Artist))
	}
}

// playTurn prompts the current player until they make a valid move.
func (g *Game) playTurn(ctx context.Context, player string) (chain.Result, error) {
	invalidAttempt := false
	for {
		if invalidAttempt {
			g.out.Warn("Please try again.")
		}

		song, err := g.readLine(ctx, fmt.Sprintf("%s, enter the song name: ", player))
		if err != nil {
			return chain.Result{}, err
		}
		artist, err := g.readLine(ctx, fmt.Sprintf("%s, enter the artist's name: ", player))
		if err != nil {
			return chain.Result{}, err
		}

		next, res, err := g.engine.SubmitMove(ctx, g.state, types.Move{SongName: song, ArtistName: artist})
		if err != nil {
			if ctx.Err() != nil {
				return chain.Result{}, ctx.Err()
			}
			if !chain.IsRejection(err) {
				logging.Warn("Unexpected error validating move: %v", err)
			}
			g.out.Error(err.Error())
			invalidAttempt = true
			continue
		}

		g.state = next
		g.history = append(g.history, res.HistoryEntry())
		return res, nil
	}
}

func (g *Game) startReader() {
	if g.lines != nil {
		return
	}
	g.lines = make(chan string)
	go func() {
		defer close(g.lines)
		for g.scanner.Scan() {
			g.lines <- g.scanner.Text()
		}
		g.scanErr = g.scanner.Err()
	}()
}

func (g *Game) readLine(ctx context.Context, prompt string) (string, error) {
	g.out.Prompt(prompt)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-g.lines:
		if !ok {
			if g.scanErr != nil {
				return "", g.scanErr
			}
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}
