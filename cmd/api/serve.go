package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/workly_be/internal/db"
	"github.com/Windi-Fikriyansyah/workly_be/internal/handlers"
	"github.com/Windi-Fikriyansyah/workly_be/internal/realtime"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, lg, err := bootstrap()
	if err != nil {
		return err
	}
	defer lg.Sync() //nolint:errcheck

	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		lg.Error("connecting to database", zap.Error(err))
		return err
	}
	if err := db.Migrate(gdb); err != nil {
		lg.Error("migrating", zap.Error(err))
		return err
	}

	rdb, err := realtime.NewRedis(ctx, cfg, lg)
	if err != nil {
		lg.Error("connecting to redis", zap.Error(err))
		return err
	}
	defer rdb.Close()

	hub := realtime.NewHub(lg)
	go hub.Run(ctx)

	bridge := realtime.NewBridge(rdb, hub, lg)
	go func() {
		if err := bridge.Run(ctx, nil); err != nil && !errors.Is(err, context.Canceled) {
			lg.Error("notification bridge stopped", zap.Error(err))
		}
	}()

	app := handlers.NewApp(handlers.Deps{
		Config: cfg,
		DB:     gdb,
		RDB:    rdb,
		Hub:    hub,
		Log:    lg,
	})

	errc := make(chan error, 1)
	go func() {
		lg.Info("listening", zap.String("port", cfg.AppPort))
		errc <- app.Listen(":" + cfg.AppPort)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	lg.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		lg.Error("shutdown", zap.Error(err))
		return err
	}
	return nil
}
