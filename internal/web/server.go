// Package web serves the browser UI and the JSON API.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/grecsai/grecs/internal/auth"
	"github.com/grecsai/grecs/internal/export"
	"github.com/grecsai/grecs/internal/session"
	"github.com/grecsai/grecs/internal/store"
	"github.com/grecsai/grecs/internal/study"
	"github.com/grecsai/grecs/internal/tutor"
)

// Config holds the HTTP settings.
type Config struct {
	Addr           string
	AllowOrigins   []string // CORS origins for /api; empty allows any origin
	CookieName     string
	SecureCookie   bool
	MaxUploadBytes int64
	SweepInterval  time.Duration
}

// DefaultConfig listens on :8080 and accepts 8 MiB uploads.
func DefaultConfig() Config {
	return Config{
		Addr:           ":8080",
		AllowOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		CookieName:     "grecs_session",
		MaxUploadBytes: 8 << 20,
		SweepInterval:  10 * time.Minute,
	}
}

// ConfigFromEnv overlays GRECS_ADDR, GRECS_CORS_ORIGINS and
// GRECS_SECURE_COOKIE on the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("GRECS_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v, ok := os.LookupEnv("GRECS_CORS_ORIGINS"); ok {
		cfg.AllowOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowOrigins = append(cfg.AllowOrigins, o)
			}
		}
	}
	cfg.SecureCookie = os.Getenv("GRECS_SECURE_COOKIE") == "true"
	return cfg
}

// Asker runs one study request. *tutor.Service implements it.
type Asker interface {
	Ask(ctx context.Context, sess *session.Context, mode study.Mode, text, melc string) tutor.Outcome
}

// TextExtractor reads text from an uploaded image. *ocr.Extractor
// implements it.
type TextExtractor interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// Deps are the collaborators of a Server. OCR and Archive may be nil.
type Deps struct {
	Tutor     Asker
	Sessions  *session.Manager
	Gate      *auth.Gate
	OCR       TextExtractor
	Archive   store.HistoryRepo
	Logger    *slog.Logger
	LogWriter io.Writer // gin request log; defaults to io.Discard
	PDF       export.PDFConfig
}

// Server is the gin engine plus its dependencies.
type Server struct {
	cfg    Config
	deps   Deps
	router *gin.Engine
	logger *slog.Logger
}

// NewServer wires routes and templates.
func NewServer(cfg Config, deps Deps) (*Server, error) {
	if deps.Tutor == nil || deps.Sessions == nil || deps.Gate == nil {
		return nil, errors.New("web: tutor, sessions and gate are required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.LogWriter == nil {
		deps.LogWriter = io.Discard
	}
	if deps.PDF.PageSize == "" {
		deps.PDF = export.DefaultPDFConfig()
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultConfig().CookieName
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultConfig().MaxUploadBytes
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output:    deps.LogWriter,
		SkipPaths: []string{"/healthz"},
	}))
	r.SetHTMLTemplate(tmpl)
	r.MaxMultipartMemory = cfg.MaxUploadBytes

	s := &Server{cfg: cfg, deps: deps, router: r, logger: deps.Logger}
	s.setupRoutes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	r := s.router
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	pages := r.Group("/")
	pages.Use(s.withSession())
	{
		pages.GET("/login", s.loginPage)
		pages.POST("/login", s.login)
		pages.POST("/logout", s.logout)

		gated := pages.Group("/")
		gated.Use(s.requireAuth(false))
		gated.GET("/", s.indexPage)
		gated.POST("/ask", s.ask)
		gated.POST("/reset", s.reset)
		gated.GET("/history", s.historyPage)
		gated.GET("/export/:id", s.exportEntry)
	}

	api := r.Group("/api/v1")
	api.Use(cors.New(s.corsConfig()))
	api.Use(s.withSession())
	{
		api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		api.POST("/login", s.apiLogin)

		gated := api.Group("/")
		gated.Use(s.requireAuth(true))
		gated.POST("/ask", s.apiAsk)
		gated.GET("/history", s.apiHistory)
		gated.POST("/ocr", s.apiOCR)
	}
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if len(s.cfg.AllowOrigins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = s.cfg.AllowOrigins
	cfg.AllowCredentials = true
	return cfg
}

// Run serves until ctx is cancelled, then shuts down gracefully. It also
// sweeps idle sessions in the background.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.cfg.SweepInterval > 0 {
		go s.deps.Sessions.RunSweeper(ctx, s.cfg.SweepInterval, func(n int) {
			s.logger.Info("swept idle sessions", "removed", n)
		})
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web UI listening", "addr", s.cfg.Addr, "gated", !s.deps.Gate.Open())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
