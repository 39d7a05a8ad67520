package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jdelaire/gymbot/adapters/whatsapp"
	"github.com/jdelaire/gymbot/core"
	"github.com/jdelaire/gymbot/core/configwatch"
	"github.com/jdelaire/gymbot/core/features"
	"github.com/jdelaire/gymbot/core/metrics"
	"github.com/jdelaire/gymbot/core/policy"
	"github.com/jdelaire/gymbot/core/ratelimit"
	"github.com/jdelaire/gymbot/internal/config"
	"github.com/jdelaire/gymbot/internal/db"
	"github.com/jdelaire/gymbot/internal/localtime"
	"github.com/jdelaire/gymbot/internal/logging"
	"github.com/jdelaire/gymbot/internal/tasks"
	"github.com/jdelaire/gymbot/internal/workout"
)

const allowlistDebounce = 500 * time.Millisecond

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to WhatsApp and answer commands",
	Long: `Connect to WhatsApp and answer commands until interrupted.

On first start no device session exists: a QR code is printed to link the
bot from the phone (Settings > Linked devices).`,
	Args: cobra.NoArgs,
	RunE: runBot,
}

func runBot(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{Debug: cfg.Debug, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, logger); err != nil {
		logger.Error("gymbot stopped with error", zap.Error(err))
		return err
	}
	logger.Info("gymbot stopped")
	return nil
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	conn, err := db.Open(ctx, cfg.DatabasePath())
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := db.Migrate(ctx, conn, workout.Schema, tasks.Schema); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	wa, err := whatsapp.Open(ctx, cfg.SessionPath(), logger.Named("whatsapp"))
	if err != nil {
		return err
	}
	defer wa.Close()

	base := policy.ParseList(cfg.AllowedNumbers)
	pol := policy.New(base, logger.Named("policy"))
	reloader := core.NewReloader(pol, base, logger.Named("reload"))
	if cfg.AllowlistFile != "" {
		reloader.ReloadAllowlist(cfg.AllowlistFile)
	}
	logger.Info("allow-list loaded",
		zap.String("source", cfg.AllowlistSource),
		zap.String("file", cfg.AllowlistFile),
		zap.Int("count", pol.Len()))
	if pol.Len() == 0 {
		logger.Warn("allow-list is empty: every command will be ignored")
	}

	clock := localtime.New(cfg.TimezoneOffset)
	taskService := tasks.NewTaskService(tasks.NewStore(conn), clock)

	registry := features.NewRegistry(features.Flags{
		"workout": cfg.FeatureWorkout,
		"todo":    cfg.FeatureTodo,
		"system":  cfg.FeatureSystem,
	}, cfg.CommandPrefix, logger.Named("features"))
	if err := registry.Register("workout", &features.WorkoutFeature{
		Service: workout.NewService(workout.NewStore(conn), clock, cfg.WorkoutListLimit),
		Metrics: m,
		Prefix:  cfg.CommandPrefix,
	}); err != nil {
		return err
	}
	if err := registry.Register("todo", &features.TodoFeature{
		Service: taskService,
		Metrics: m,
		Prefix:  cfg.CommandPrefix,
	}); err != nil {
		return err
	}
	if err := registry.Register("system", features.NewSystemFeature(registry, cfg.CommandPrefix)); err != nil {
		return err
	}

	delivery := core.NewDelivery(wa, m, logger.Named("delivery"))
	dispatcher := core.NewDispatcher(wa, pol, registry, delivery, cfg.CommandPrefix, logger.Named("dispatcher")).
		WithMetrics(m).
		WithLimiter(ratelimit.New(cfg.RateLimitPerMinute))
	wa.OnMessage(func(msg core.InboundMessage) {
		dispatcher.Handle(ctx, msg)
	})

	g, ctx := errgroup.WithContext(ctx)

	if cfg.AllowlistFile != "" {
		watcher, err := configwatch.New(allowlistDebounce, logger.Named("configwatch"))
		if err != nil {
			return err
		}
		if err := watcher.Watch(cfg.AllowlistFile, reloader.ReloadAllowlist); err != nil {
			return err
		}
		g.Go(func() error {
			watcher.Run(ctx)
			return nil
		})
	}

	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, reg, logger.Named("metrics")); err != nil {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}

	if cfg.ReminderEnabled() {
		scheduler, err := tasks.NewScheduler(taskService, delivery.Deliver, cfg.ReminderSchedule, clock, logger.Named("reminder"))
		if err != nil {
			return err
		}
		scheduler.WithPrefix(cfg.CommandPrefix)
		g.Go(func() error {
			scheduler.Run(ctx)
			return nil
		})
	}

	g.Go(func() error {
		return wa.Start(ctx)
	})

	logger.Info("gymbot started",
		zap.String("prefix", cfg.CommandPrefix),
		zap.Int("utc_offset_minutes", cfg.TimezoneOffset),
		zap.String("data_dir", cfg.DataPath()))
	return g.Wait()
}
