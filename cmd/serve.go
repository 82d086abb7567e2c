package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conneroisu/inkpot/internal/config"
	"github.com/conneroisu/inkpot/internal/errors"
	inkhttp "github.com/conneroisu/inkpot/internal/http"
	"github.com/conneroisu/inkpot/internal/logging"
	"github.com/conneroisu/inkpot/internal/metrics"
	"github.com/conneroisu/inkpot/internal/seed"
	"github.com/conneroisu/inkpot/internal/server"
	"github.com/conneroisu/inkpot/internal/store"
	"github.com/conneroisu/inkpot/internal/watcher"
	"github.com/conneroisu/inkpot/internal/websocket"
)

var serveFlags *StandardFlags

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the blog server",
	Long: `Start the blog server. Records live in memory only; a seed file, if
configured, is loaded into the empty stores before the first request.

Examples:
  inkpot serve                              # Serve an empty blog on :8080
  inkpot serve --port 3000                  # Serve on another port
  inkpot serve --seed seed.yml              # Load records from seed.yml
  inkpot serve --seed seed.yml --watch-seed # Reload seed.yml on change`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := serveFlags.ValidateFlags(); err != nil {
			return err
		}
		return bindFlags(cmd, map[string]string{
			"port":       "server.port",
			"host":       "server.host",
			"seed":       "seed.file",
			"watch-seed": "seed.watch",
		})
	},
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveFlags = AddStandardFlags(serveCmd, "server", "seed")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Seed.Watch && cfg.Seed.File == "" {
		return fmt.Errorf("--watch-seed requires a seed file (--seed or seed.file)")
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := store.New()
	if cfg.Seed.File != "" {
		if err := loadSeed(ctx, cfg.Seed.File, st, logger); err != nil {
			return err
		}
	}

	return serve(ctx, cfg, st, logger, cmd.OutOrStdout())
}

// loadSeed applies the seed file at path to st, logging every dangling
// reference it contains.
func loadSeed(ctx context.Context, path string, st *store.Store, logger logging.Logger) error {
	file, err := seed.LoadFile(path)
	if err != nil {
		return errors.NewEnhancedError(
			fmt.Sprintf("Failed to load seed file %s", path),
			err,
			errors.SeedFileError(err, &errors.SuggestionContext{ConfigPath: configPath(), SeedPath: path}),
		)
	}

	result := file.Apply(st)
	for _, warning := range result.Warnings {
		logger.Warn(ctx, nil, "Seed reference", "warning", warning.String())
	}
	logger.Info(ctx, "Seed file loaded",
		"path", path,
		"categories", result.Categories,
		"posts", result.Posts,
		"comments", result.Comments)

	return nil
}

// serve runs the blog server on st until ctx is done. Store events are
// forwarded to websocket clients and counted by metrics; the seed file is
// watched when cfg.Seed.Watch is set.
func serve(ctx context.Context, cfg *config.Config, st *store.Store, logger logging.Logger, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hub := websocket.NewHub(cfg.Server.AllowedOrigins, logger)
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer done()
		if err := hub.Shutdown(shutdownCtx); err != nil {
			logger.Error(shutdownCtx, err, "WebSocket hub shutdown failed")
		}
	}()
	go hub.Forward(ctx, st.Watch())

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		var err error
		m, err = metrics.New(st, hub.ConnectedClients)
		if err != nil {
			return fmt.Errorf("failed to create metrics: %w", err)
		}
		go m.Record(ctx, st.Watch())
	}

	if cfg.Seed.Watch {
		fw, err := watcher.WatchSeed(ctx, cfg.Seed.File, st, watcher.DefaultDebounce, logger)
		if err != nil {
			return fmt.Errorf("failed to watch seed file: %w", err)
		}
		defer func() {
			if err := fw.Stop(); err != nil {
				logger.Error(context.Background(), err, "Failed to stop seed watcher")
			}
		}()
	}

	handler := server.New(server.Dependencies{
		Config:  cfg,
		Store:   st,
		Logger:  logger,
		Metrics: m,
		Hub:     hub,
	})
	srv := inkhttp.NewServer(cfg, handler, logger)

	fmt.Fprintf(out, "Starting inkpot at http://%s\n", cfg.Addr())

	if err := srv.Start(ctx); err != nil {
		if stderrors.Is(err, syscall.EADDRINUSE) {
			return errors.NewEnhancedError(
				fmt.Sprintf("Failed to start server on port %d", cfg.Server.Port),
				err,
				errors.ServerStartError(err, cfg.Server.Port, &errors.SuggestionContext{ConfigPath: configPath()}),
			)
		}
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
