package main

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"songchain/internal/chain"
	"songchain/internal/logging"
	"songchain/internal/lookup"
)

// App holds the server's dependencies and in-memory sessions.
type App struct {
	Engine *chain.Engine

	Sessions     map[string]*GameSession
	SessionMutex sync.RWMutex

	LimiterMap   map[string]*rate.Limiter
	LimiterMutex sync.Mutex

	IsProduction   bool
	SessionTimeout time.Duration
	CookieMaxAge   time.Duration
	StaticCacheAge time.Duration
	RateLimitRPS   int
	RateLimitBurst int
	StartTime      time.Time
}

func newApp(engine *chain.Engine) *App {
	return &App{
		Engine:         engine,
		Sessions:       make(map[string]*GameSession),
		LimiterMap:     make(map[string]*rate.Limiter),
		SessionTimeout: DefaultSessionTimeout,
		CookieMaxAge:   DefaultSessionTimeout,
		StaticCacheAge: 5 * time.Minute,
		RateLimitRPS:   5,
		RateLimitBurst: 10,
		StartTime:      time.Now(),
	}
}

func lookupConfigFromEnv() lookup.Config {
	cfg := lookup.DefaultConfig()
	cfg.BaseURL = getEnvString("MUSICBRAINZ_URL", cfg.BaseURL)
	cfg.UserAgent = getEnvString("MUSICBRAINZ_USER_AGENT", cfg.UserAgent)
	cfg.Timeout = getEnvDuration("LOOKUP_TIMEOUT", cfg.Timeout)
	cfg.RequestsPerSecond = getEnvFloat("LOOKUP_RPS", cfg.RequestsPerSecond)
	cfg.CacheSize = getEnvInt("LOOKUP_CACHE_SIZE", cfg.CacheSize)
	cfg.CacheTTL = getEnvDuration("LOOKUP_CACHE_TTL", cfg.CacheTTL)
	return cfg
}

func main() {
	_ = godotenv.Load()
	logging.SetVerbose(os.Getenv("VERBOSE") == "true")

	lookupCfg := lookupConfigFromEnv()
	searcher, err := lookup.New(lookupCfg)
	if err != nil {
		logFatal("Failed to configure MusicBrainz lookup: %v", err)
	}
	if lookupCfg.UserAgent == lookup.DefaultUserAgent {
		logWarn("Using the default MusicBrainz user agent; set MUSICBRAINZ_USER_AGENT to identify this deployment")
	}

	app := newApp(chain.NewEngine(searcher, chain.WithLookupTimeout(lookupCfg.Timeout)))
	app.IsProduction = os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production"
	app.SessionTimeout = getEnvDuration("SESSION_TIMEOUT", DefaultSessionTimeout)
	app.CookieMaxAge = getEnvDuration("COOKIE_MAX_AGE", app.SessionTimeout)
	app.StaticCacheAge = getEnvDuration("STATIC_CACHE_AGE", app.StaticCacheAge)
	app.RateLimitRPS = getEnvInt("RATE_LIMIT_RPS", app.RateLimitRPS)
	app.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", app.RateLimitBurst)
	logInfo("Starting Song Chain in %s mode", map[bool]string{true: "production", false: "development"}[app.IsProduction])

	templatesGlob, staticDir := "templates/*.html", "./static"
	if app.IsProduction && dirExists("dist") {
		logInfo("Serving assets from dist/ directory")
		templatesGlob, staticDir = "dist/templates/*.html", "./dist/static"
	} else {
		logInfo("Serving development assets from source directories")
	}

	router := app.setupRouter(templatesGlob, staticDir)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go app.runSessionReaper(ctx, SessionReapInterval)

	startServer(ctx, router)
}

func (app *App) setupRouter(templatesGlob, staticDir string) *gin.Engine {
	router := gin.Default()

	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression,
		ginGzip.WithExcludedExtensions([]string{".svg", ".ico", ".png", ".jpg", ".jpeg", ".gif"}),
		ginGzip.WithExcludedPaths([]string{"/static/fonts"})))

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}

	router.Use(requestIDMiddleware())
	router.Use(app.cacheHeadersMiddleware())

	router.SetFuncMap(template.FuncMap{
		"upper": strings.ToUpper,
	})
	router.LoadHTMLGlob(templatesGlob)
	router.Static("/static", staticDir)

	router.GET(RouteHome, app.homeHandler)
	router.GET(RouteGameState, app.gameStateHandler)
	router.POST(RouteSubmit, app.rateLimitMiddleware(), app.submitHandler)
	router.POST(RouteReset, app.rateLimitMiddleware(), app.resetHandler)
	router.GET(RouteNewGame, app.rateLimitMiddleware(), app.resetHandler)
	router.GET(RouteHealth, app.healthzHandler)

	return router
}

func startServer(ctx context.Context, router *gin.Engine) {
	port := getEnvString("PORT", "8080")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		<-ctx.Done()
		logInfo("Shutdown signal received, shutting down server gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logInfo("Server starting on http://localhost:%s", port)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	logInfo("Server shutdown complete")
}
