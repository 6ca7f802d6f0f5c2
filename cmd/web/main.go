package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/climfin/finance-atlas/pkg/metrics"
	"github.com/climfin/finance-atlas/pkg/server"
	"github.com/climfin/finance-atlas/pkg/services/config"
	"github.com/climfin/finance-atlas/pkg/services/dashboard"
	"github.com/climfin/finance-atlas/pkg/services/geo"
	"github.com/climfin/finance-atlas/pkg/store/cache"
	"github.com/climfin/finance-atlas/pkg/store/flows"
	"github.com/climfin/finance-atlas/pkg/store/source"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for the climate finance atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the application config file (yaml, toml or json)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	sources, err := source.NewDefaultRegistry(cfg.Store.Table)
	if err != nil {
		return fmt.Errorf("failed to create backend registry: %w", err)
	}

	var (
		db        *sql.DB
		geography *geo.Geography
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		db, err = sources.Open(gctx, cfg.Store.Backend, cfg.Store.Target())
		return err
	})
	g.Go(func() error {
		var err error
		geography, err = geo.Load(gctx, cfg.Geography.Source, geo.LoadOptions{Region: cfg.Geography.AWSRegion})
		return err
	})
	if err := g.Wait(); err != nil {
		if db != nil {
			_ = db.Close()
		}
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer db.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var store flows.Store
	store, err = flows.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create flow store: %w", err)
	}

	redis, err := cache.NewRedis(ctx, cfg.Cache.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	if redis != nil {
		defer redis.Close()
		store = cache.NewStore(store, redis, cfg.Cache.TTL, m)
		logger.Info().Dur("ttl", cfg.Cache.TTL).Msg("query cache enabled")
	}

	svc, err := dashboard.NewService(dashboard.Dependencies{
		Store:     store,
		Geography: geography,
		Table:     cfg.Store.Table,
		Metrics:   m,
	})
	if err != nil {
		return fmt.Errorf("failed to create dashboard service: %w", err)
	}

	logger.Info().
		Str("backend", cfg.Store.Backend).
		Str("table", cfg.Store.Table).
		Int("features", geography.Len()).
		Msg("atlas initialized")

	web := server.NewWebAPI(logger, server.Config{
		Addr: cfg.Server.Addr(),
		Dependencies: server.Dependencies{
			Dashboard: svc,
			Gatherer:  reg,
			Ping:      db.PingContext,
			Features:  geography.Len(),
		},
	})
	return web.Start()
}
