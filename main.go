package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	snapshotdb "github.com/scorepad-app/scorepad/app/modules/storage"

	"github.com/scorepad-app/scorepad/app"
	"github.com/scorepad-app/scorepad/app/demo"
	"github.com/scorepad-app/scorepad/app/modules/export"
	"github.com/scorepad-app/scorepad/app/modules/ledger"
	"github.com/scorepad-app/scorepad/config"
	"github.com/scorepad-app/scorepad/internal/metrics"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cliApp := &cli.App{
		Name:  "scorepad",
		Usage: "score sheet tracking with ranked standings and exports",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "config.yaml",
				Usage: "path to the configuration file",
			},
		},
		Commands: []*cli.Command{
			serveCommand(logger),
			exportCommand(logger),
			demoCommand(logger),
			resetCommand(logger),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		logger.Error("scorepad failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	return config.LoadConfig(c.String("config"))
}

func serveCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the scorepad API",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(c.Context)
			defer cancel()

			application, err := app.NewApp(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			defer application.Close()

			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
			go func() {
				select {
				case <-interrupt:
					logger.Info("Shutdown signal received")
					cancel()
				case <-ctx.Done():
				}
			}()

			return application.Run(ctx)
		},
	}
}

// openStore opens storage for the headless commands.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*snapshotdb.Store, func(), error) {
	db, err := snapshotdb.Open(cfg.Storage.Path)
	if err != nil {
		return nil, nil, err
	}
	store := snapshotdb.NewStore(db, logger, metrics.New(), cfg.Session.TTL)
	if err := store.Init(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return store, func() { _ = db.Close() }, nil
}

func exportCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write the current session's spreadsheet and chart to disk",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "out",
				Value: ".",
				Usage: "directory to write artifacts into",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			store, closeStore, err := openStore(c.Context, cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			snap, err := store.Load(c.Context)
			if err != nil {
				return err
			}
			l, err := ledger.Restore(snap)
			if err != nil {
				return fmt.Errorf("stored session is unusable: %w", err)
			}

			now := time.Now()
			workbook, err := export.BuildWorkbook(l)
			if err != nil {
				return err
			}
			chart, err := export.RenderProgressionChart(l)
			if err != nil {
				return err
			}

			outDir := c.String("out")
			wbPath := filepath.Join(outDir, export.WorkbookFilename(l.Title(), now))
			chartPath := filepath.Join(outDir, export.ChartFilename(now))
			if err := os.WriteFile(wbPath, workbook, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", wbPath, err)
			}
			if err := os.WriteFile(chartPath, chart, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", chartPath, err)
			}

			logger.Info("Export written",
				slog.String("workbook", wbPath),
				slog.String("chart", chartPath),
			)
			return nil
		},
	}
}

func demoCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "seed the session with generated players and scores",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "players", Value: 4},
			&cli.IntFlag{Name: "rounds", Value: ledger.DefaultRoundCount},
			&cli.Uint64Flag{Name: "seed", Value: 0, Usage: "faker seed; 0 picks a random one"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			store, closeStore, err := openStore(c.Context, cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			l := demo.NewSeeder(c.Uint64("seed")).Ledger(c.Int("players"), c.Int("rounds"))
			if err := store.Save(c.Context, l.Snapshot()); err != nil {
				return err
			}

			logger.Info("Demo session seeded",
				slog.String("title", l.Title()),
				slog.Int("players", len(l.Players())),
				slog.Int("rounds", l.RoundCount()),
			)
			return nil
		},
	}
}

func resetCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "clear the persisted session",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			store, closeStore, err := openStore(c.Context, cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := store.Clear(c.Context); err != nil {
				return err
			}
			logger.Info("Persisted session cleared")
			return nil
		},
	}
}
