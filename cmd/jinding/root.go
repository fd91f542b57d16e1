package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"jinding-ha/internal/adapters/output/homeassistant"
	"jinding-ha/internal/adapters/output/persistence"
	"jinding-ha/internal/config"
	"jinding-ha/internal/domain/model"
	"jinding-ha/internal/domain/service"
	"jinding-ha/internal/logging"
	"jinding-ha/internal/ports"
)

var (
	flagConfig   string
	flagLogLevel string
	flagJSON     bool
)

var rootCmd = &cobra.Command{
	Use:   "jinding",
	Short: "Jinding switch to Home Assistant light setup assistant",
	Long: `jinding discovers the keys of Jinding wall switches and the lights known to
Home Assistant, keeps key to light bindings and KNX light items, and renders
the automation and KNX declarations that Home Assistant needs.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (env: CONFIG_PATH, default: "+config.DefaultPath+")")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print lists as JSON")
}

// Execute runs the root command.
func Execute(version string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("jinding %s\n", version))
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfigPath returns the config path from flag, environment or default.
func resolveConfigPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return config.DefaultPath
}

// app holds the wired components shared by every subcommand.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  ports.StateStore
	ha     *homeassistant.Client
	setup  *service.SetupService
	closer func() error
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return nil, err
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, "jinding")
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	store, closer, err := newStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	haClient := homeassistant.NewClient(cfg.HomeAssistant.TimeoutDuration(), logger.Named("homeassistant"))
	setup := service.NewSetupService(haClient, store, logger.Named("setup"), service.Options{
		DeviceMarker:    cfg.Discovery.DeviceMarker,
		RestoreBindings: cfg.Discovery.RestoreBindings,
	})

	// Saved connection first, then the one from config or environment
	fallback := model.HassConfig{URL: cfg.HomeAssistant.URL, Token: cfg.HomeAssistant.Token}
	if err := setup.Apply(ctx, fallback); err != nil {
		logger.Warn("applying home assistant connection failed", zap.Error(err))
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		store:  store,
		ha:     haClient,
		setup:  setup,
		closer: closer,
	}, nil
}

func newStore(ctx context.Context, cfg config.StoreConfig) (ports.StateStore, func() error, error) {
	switch cfg.Driver {
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Redis.Addr, err)
		}
		return persistence.NewRedisStateStore(client, cfg.Redis.Prefix), client.Close, nil
	case config.StoreJSON:
		return persistence.NewJSONStateStore(cfg.Path), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func (a *app) Close() {
	if err := a.closer(); err != nil {
		a.logger.Warn("closing store failed", zap.Error(err))
	}
	a.logger.Sync()
}

// withApp wires the app for a subcommand and tears it down afterwards.
func withApp(run func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		return run(ctx, a, cmd, args)
	}
}
