package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Mansoor88-6/launcher-kit/internal/collector"
	"Mansoor88-6/launcher-kit/internal/database"
	"Mansoor88-6/launcher-kit/internal/device"
	"Mansoor88-6/launcher-kit/internal/journal"
	"Mansoor88-6/launcher-kit/internal/models"
	"Mansoor88-6/launcher-kit/internal/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the native side: bridge server, package watcher and event journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(false)
			if err != nil {
				return err
			}
			defer rt.Close()
			return runServe(cmd.Context(), rt, watch)
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", true, "Arm the install and removal watchers at startup")
	return cmd
}

func runServe(ctx context.Context, rt *runtime, watch bool) error {
	log := rt.log
	cfg := rt.cfg

	log.Info("Starting launcher-kit",
		zap.String("env", cfg.Env),
		zap.String("config_path", configPath),
		zap.String("host", rt.host.Name()),
	)

	var reader server.JournalReader
	if cfg.Journal.Enabled {
		db, err := database.New(cfg.StoragePath, log.Logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close database", zap.Error(err))
			}
		}()

		deviceID, err := device.NewDeviceManager(db.DB, log.Logger).GetOrGenerateDeviceID(ctx, cfg.Device.ID, rt.host)
		if err != nil {
			return err
		}
		log.Info("Using device ID", zap.String("device_id", deviceID))

		j := journal.New(db.DB, log.Named("journal"))
		if _, err := j.Cleanup(ctx, cfg.Journal.Retention); err != nil {
			log.Warn("Failed to cleanup journal", zap.Error(err))
		}
		reader = j

		eventCollector := collector.NewEventCollector(deviceID, cfg.Journal.BatchSize, cfg.Journal.FlushInterval, log.Named("collector"))
		eventCollector.Start(func(batch []models.AppEvent) {
			appendCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := j.Append(appendCtx, batch); err != nil {
				log.Error("Failed to journal app events", zap.Int("count", len(batch)), zap.Error(err))
			}
		})
		defer eventCollector.Stop()
		rt.emitter.Observe(eventCollector.Observe)
	}

	var srv *server.Server
	if cfg.Server.Enabled {
		srv = server.New(cfg.Server, rt.native, rt.emitter, reader, rt.metrics, log.Named("server"))
		if err := srv.Start(); err != nil {
			return err
		}
	} else {
		log.Info("Bridge server disabled in configuration")
	}

	if watch {
		if err := rt.native.StartListeningForAppInstallations(ctx); err != nil {
			log.Warn("Failed to arm install watcher", zap.Error(err))
		}
		if err := rt.native.StartListeningForAppRemovals(ctx); err != nil {
			log.Warn("Failed to arm removal watcher", zap.Error(err))
		}
	}

	log.Info("launcher-kit started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		log.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case <-ctx.Done():
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("Bridge server shutdown error", zap.Error(err))
		} else {
			log.Info("Bridge server stopped")
		}
	}

	log.Info("launcher-kit stopped")
	return nil
}
