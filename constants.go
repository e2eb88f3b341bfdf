package main

import "time"

// Session configuration constants
const (
	SessionCookieName     = "session_id"
	SessionReapInterval   = time.Minute
	DefaultSessionTimeout = 2 * time.Hour
)

// Route constants
const (
	RouteHome      = "/"
	RouteNewGame   = "/new-game"
	RouteReset     = "/reset"
	RouteSubmit    = "/submit"
	RouteGameState = "/game-state"
	RouteHealth    = "/healthz"
)

// Page text constants
const (
	PageTitle = "Song Chain Game"
	PageRules = "Rules: Each player must name a song and its artist. The song must start with the last letter of the previous song's name, and songs cannot be repeated."
)

// Error message constants
const (
	ErrorTooManyRequests = "Too many requests. Please slow down."
)
