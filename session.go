package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// getOrCreateSession retrieves the session ID from the cookie or creates a new one.
func (app *App) getOrCreateSession(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || len(sessionID) < 10 {
		sessionID = uuid.NewString()
		app.setSessionCookie(c, sessionID)
		logInfo("Created new session: %s", sessionID)
	}
	return sessionID
}

func (app *App) setSessionCookie(c *gin.Context, sessionID string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, sessionID, int(app.CookieMaxAge.Seconds()), "/", "", app.IsProduction, true)
}

// getGameSession retrieves or creates the game for a session.
func (app *App) getGameSession(ctx context.Context, sessionID string) *GameSession {
	app.SessionMutex.Lock()
	defer app.SessionMutex.Unlock()

	if sess, exists := app.Sessions[sessionID]; exists {
		sess.LastAccessTime = time.Now()
		return sess
	}

	logInfoCtx(ctx, "Creating new game for session: %s", sessionID)
	sess := newGameSession()
	app.Sessions[sessionID] = sess
	return sess
}

// resetGameSession replaces the session's game with a fresh one.
func (app *App) resetGameSession(ctx context.Context, sessionID string) *GameSession {
	sess := newGameSession()
	app.SessionMutex.Lock()
	app.Sessions[sessionID] = sess
	app.SessionMutex.Unlock()
	logInfoCtx(ctx, "Reset game for session: %s", sessionID)
	return sess
}

// cleanupIdleSessions drops sessions not used within SessionTimeout and
// returns how many were removed.
func (app *App) cleanupIdleSessions(now time.Time) int {
	cutoff := now.Add(-app.SessionTimeout)

	app.SessionMutex.Lock()
	defer app.SessionMutex.Unlock()

	idle := lo.Keys(lo.PickBy(app.Sessions, func(_ string, sess *GameSession) bool {
		return sess.LastAccessTime.Before(cutoff)
	}))
	for _, id := range idle {
		delete(app.Sessions, id)
	}
	if len(idle) > 0 {
		logInfo("Session cleanup completed: removed %d idle sessions, %d remain", len(idle), len(app.Sessions))
	}
	return len(idle)
}

// runSessionReaper calls cleanupIdleSessions every interval until ctx ends.
func (app *App) runSessionReaper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			app.cleanupIdleSessions(now)
		}
	}
}

func (app *App) sessionCount() int {
	app.SessionMutex.RLock()
	defer app.SessionMutex.RUnlock()
	return len(app.Sessions)
}
