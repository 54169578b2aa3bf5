package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	appconfig "github.com/GoldenRodger5/isaac-mineo-sub001/config"
	"github.com/GoldenRodger5/isaac-mineo-sub001/internal/cache"
	"github.com/GoldenRodger5/isaac-mineo-sub001/internal/chat"
	"github.com/GoldenRodger5/isaac-mineo-sub001/internal/knowledge"
	"github.com/GoldenRodger5/isaac-mineo-sub001/internal/ratelimit"
	"github.com/GoldenRodger5/isaac-mineo-sub001/internal/retrieval"
	"github.com/GoldenRodger5/isaac-mineo-sub001/internal/telemetry"
	"github.com/GoldenRodger5/isaac-mineo-sub001/provider"
)

// Run wires the pipeline together (top-level DI, one shared instance of each
// collaborator) and serves the HTTP API.
func Run(cfg *appconfig.Config, addr string) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}

	origins := cfg.General.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	ctx := context.Background()

	// Shared store: a failed connect degrades the cache, it never blocks boot.
	store := cache.NewRedisStore(cfg.Storage.Redis)
	store.Connect(ctx)

	kb, err := knowledge.NewBase()
	if err != nil {
		return err
	}

	llm, err := provider.NewProvider(provider.OpenAI, cfg.Providers.OpenAI)
	if err != nil {
		return err
	}

	searcher := retrieval.New(cfg.Retrieval, llm, kb)
	limiter := ratelimit.New(store, cfg.Chat.RateLimitRequests, cfg.Chat.RateLimitWindow)
	sessions := chat.NewSessionManager(store, cfg.Chat)
	metrics := telemetry.NewMetrics(cfg.Telemetry)
	orch := chat.NewOrchestrator(store, limiter, sessions, searcher, llm, metrics, cfg.Chat)

	api := e.Group("/api")
	ch := &ChatHandler{Orch: orch, RetryAfter: limiter.RetryAfter()}
	ch.Register(api)

	hh := &HealthHandler{Store: store, Searcher: searcher}
	e.GET("/health", hh.health)
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	addr = listenAddr(addr, cfg)
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}

// listenAddr prefers an explicit flag; otherwise the configured listen
// address, whose default lives with the rest of the config defaults.
func listenAddr(flag string, cfg *appconfig.Config) string {
	if flag != "" {
		return flag
	}
	return cfg.General.Listen
}
