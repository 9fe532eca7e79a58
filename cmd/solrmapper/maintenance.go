package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openark/solrmapper/internal/config"
	"github.com/openark/solrmapper/internal/extract"
	"github.com/openark/solrmapper/internal/indexer"
	logpkg "github.com/openark/solrmapper/internal/logger"
	"github.com/openark/solrmapper/internal/solr/client"
	chiTransport "github.com/openark/solrmapper/internal/transport/chi"
)

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every document of this logical index",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, engine, logger, err := connect()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			maps, err := cfg.BuildMappings()
			if err != nil {
				return fmt.Errorf("build mappings: %w", err)
			}
			ix := indexer.New(engine, maps, extract.NewSession(nil, logger), indexer.Config{
				ServerScope: cfg.Index.ServerScope,
				IndexScope:  cfg.Index.Scope,
			}, logger)

			if err := ix.ClearIndex(cmd.Context()); err != nil {
				return fmt.Errorf("clear index: %w", err)
			}
			logger.Info("Index cleared", zap.String("scope", cfg.Index.Scope))
			return nil
		},
	}
}

func newReindexCmd() *cobra.Command {
	var clearFirst bool

	cmd := &cobra.Command{
		Use:   "reindex <file>",
		Short: "Rebuild the index from a resource dump",
		Long: "Reads a JSON file holding the same body shape as POST /api/v1/index\n" +
			"and indexes every resource in it, optionally clearing the logical\n" +
			"index first.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, engine, logger, err := connect()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open dump: %w", err)
			}
			defer func() { _ = f.Close() }()

			resources, err := chiTransport.DecodeResources(f)
			if err != nil {
				return fmt.Errorf("decode dump: %w", err)
			}

			maps, err := cfg.BuildMappings()
			if err != nil {
				return fmt.Errorf("build mappings: %w", err)
			}
			ix := indexer.New(engine, maps, extract.NewSession(nil, logger), indexer.Config{
				BatchSize:     cfg.Index.BatchSize,
				ServerScope:   cfg.Index.ServerScope,
				IndexScope:    cfg.Index.Scope,
				ExtraRequired: cfg.Index.ExtraRequired,
				RetryDelay:    time.Duration(cfg.Index.RetryDelaySec) * time.Second,
			}, logger)

			if err := ix.Preflight(cmd.Context()); err != nil {
				return fmt.Errorf("preflight: %w", err)
			}
			if clearFirst {
				if err := ix.ClearIndex(cmd.Context()); err != nil {
					return fmt.Errorf("clear index: %w", err)
				}
			}
			if err := ix.IndexBatch(cmd.Context(), resources); err != nil {
				return fmt.Errorf("index batch: %w", err)
			}
			logger.Info("Reindex finished",
				zap.Int("resources", len(resources)),
				zap.String("scope", cfg.Index.Scope))
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearFirst, "clear", false, "clear the logical index before indexing")
	return cmd
}

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check engine availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, engine, logger, err := connect()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if err := engine.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
			fmt.Println("ok")
			return nil
		},
	}
}

func connect() (config.Config, *client.Client, *zap.Logger, error) {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("create logger: %w", err)
	}

	engine, err := client.New(client.Config{
		BaseURL:  cfg.Solr.BaseURL,
		Core:     cfg.Solr.Core,
		Username: cfg.Solr.Username,
		Password: cfg.Solr.Password,
		Timeout:  time.Duration(cfg.Solr.TimeoutSec) * time.Second,
	})
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("create engine client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Solr.ReadinessTimeout)*time.Second)
	defer cancel()
	if err := engine.WaitForReady(ctx, time.Duration(cfg.Solr.ReadinessTimeout)*time.Second); err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("engine not ready: %w", err)
	}
	return cfg, engine, logger, nil
}
