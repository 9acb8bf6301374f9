package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/grecsai/grecs/internal/auth"
	"github.com/grecsai/grecs/internal/history"
	"github.com/grecsai/grecs/internal/ocr"
	"github.com/grecsai/grecs/internal/session"
	"github.com/grecsai/grecs/internal/store"
	"github.com/grecsai/grecs/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web UI and JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides GRECS_ADDR, default :8080)")
	serveCmd.Flags().Duration("session-ttl", session.DefaultIdleTTL, "Idle time after which a browser session is dropped")
	serveCmd.Flags().Bool("no-ocr", false, "Disable image uploads")
}

func runServe(cmd *cobra.Command) error {
	if os.Getenv("GRECS_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	svc, notice, err := newTutor(ctx, st.EventRepo(), logger)
	if err != nil {
		return err
	}
	if notice != "" {
		logger.Warn(notice)
	}

	gate, err := auth.NewGate(auth.ConfigFromEnv())
	if err != nil {
		return fmt.Errorf("access gate: %w", err)
	}
	if gate.Open() {
		logger.Warn("no passphrase configured: the web UI is open to anyone who can reach it")
	}

	archive := st.HistoryRepo()
	ttl, _ := cmd.Flags().GetDuration("session-ttl")
	sessions := session.NewManager(ttl, func(id string) []history.Option {
		return []history.Option{history.WithArchiver(
			store.LedgerArchiver{Repo: archive, SessionID: id},
			func(err error) { logger.Warn("archive entry", "session", id, "error", err) },
		)}
	})

	cfg := web.ConfigFromEnv()
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}
	if ttl > 0 && cfg.SweepInterval > ttl {
		cfg.SweepInterval = ttl / 2
	}

	deps := web.Deps{
		Tutor:     svc,
		Sessions:  sessions,
		Gate:      gate,
		Archive:   archive,
		Logger:    logger,
		LogWriter: os.Stderr,
	}
	if noOCR, _ := cmd.Flags().GetBool("no-ocr"); !noOCR {
		deps.OCR = ocr.NewExtractor(ocr.ConfigFromEnv(), nil)
	}

	srv, err := web.NewServer(cfg, deps)
	if err != nil {
		return err
	}

	start := time.Now()
	err = srv.Run(ctx)
	logger.Info("server stopped", "uptime", time.Since(start).Round(time.Second))
	return err
}
