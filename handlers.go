package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"songchain/internal/chain"
	"songchain/internal/types"
)

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// render writes the game as a fragment for HTMX requests and as the full
// page otherwise.
func (app *App) render(c *gin.Context, view GameView) {
	if view.Error != "" {
		payload := map[string]string{"server_error": view.Error}
		if b, jerr := json.Marshal(payload); jerr == nil {
			c.Header("HX-Trigger", string(b))
		} else {
			logWarn("Failed to marshal HX-Trigger payload: %v", jerr)
		}
	}
	if isHTMX(c) {
		c.HTML(http.StatusOK, "game-content", gin.H{"game": view})
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{
		"title": PageTitle,
		"rules": PageRules,
		"game":  view,
	})
}

// homeHandler renders the main game page for the current session.
func (app *App) homeHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	sess := app.getGameSession(c.Request.Context(), sessionID)

	sess.mu.Lock()
	view := sess.view()
	sess.mu.Unlock()

	app.render(c, view)
}

// gameStateHandler renders the current game as an HTML fragment.
func (app *App) gameStateHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	sess := app.getGameSession(c.Request.Context(), sessionID)

	sess.mu.Lock()
	view := sess.view()
	sess.mu.Unlock()

	c.HTML(http.StatusOK, "game-content", gin.H{"game": view})
}

// submitHandler validates the current player's move and advances the game.
func (app *App) submitHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	sess := app.getGameSession(ctx, sessionID)

	move := types.Move{
		SongName:   c.PostForm("song"),
		ArtistName: c.PostForm("artist"),
	}

	sess.mu.Lock()
	player := chain.PlayerName(sess.State.CurrentPlayer)
	next, res, err := app.Engine.SubmitMove(ctx, sess.State, move)
	if err != nil {
		logInfoCtx(ctx, "Session %s: %s move %q by %q rejected: %v", sessionID, player, move.SongName, move.ArtistName, err)
		sess.Error = err.Error()
		sess.Message = ""
		sess.LastSong = move.SongName
		sess.LastArtist = move.ArtistName
	} else {
		sess.State = next
		sess.History = append(sess.History, res.HistoryEntry())
		sess.Error = ""
		sess.Message = fmt.Sprintf("Valid move! %s by %s", res.Title, res.Artist)
		sess.LastSong = ""
		sess.LastArtist = ""
	}
	view := sess.view()
	sess.mu.Unlock()

	app.render(c, view)
}

// resetHandler starts the session's game over.
func (app *App) resetHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	sess := app.resetGameSession(ctx, sessionID)

	if isHTMX(c) {
		sess.mu.Lock()
		view := sess.view()
		sess.mu.Unlock()
		c.HTML(http.StatusOK, "game-content", gin.H{"game": view})
		return
	}
	c.Redirect(http.StatusSeeOther, RouteHome)
}

// healthzHandler returns a JSON health check with server stats.
func (app *App) healthzHandler(c *gin.Context) {
	uptime := time.Since(app.StartTime)
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"env":       map[bool]string{true: "production", false: "development"}[app.IsProduction],
		"sessions":  app.sessionCount(),
		"uptime":    formatUptime(uptime),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
