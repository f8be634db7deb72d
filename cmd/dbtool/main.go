package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"fleet-client/internal/adapters/kv"
	"fleet-client/internal/cache"
	"fleet-client/internal/config"
	"fleet-client/internal/platform/logging"
	"fleet-client/internal/store"
)

const usage = `usage: dbtool <command>

commands:
  init          create the cache schema for the configured driver
  keys          list cached keys
  clear         remove every cached key
  seed-offline  store the seed file as the offline snapshot`

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	logger := logging.New(logging.Config{
		Level:       cfg.Log.Level,
		ServiceName: "fleet-dbtool",
		Environment: cfg.Env,
		Output:      os.Stderr,
	})

	if err := run(context.Background(), os.Args[1], cfg, logger); err != nil {
		logger.Error("dbtool failed", "command", os.Args[1], "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, cfg config.Config, logger *slog.Logger) error {
	// Opening the store initializes its schema.
	kvStore, closeKV, err := kv.Open(ctx, cfg.Cache, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeKV() }()

	switch command {
	case "init":
		logger.Info("schema ready", "driver", cfg.Cache.Driver)

	case "keys":
		keys, err := kvStore.Keys(ctx)
		if err != nil {
			return fmt.Errorf("list keys: %w", err)
		}
		for _, k := range keys {
			fmt.Println(k)
		}

	case "clear":
		if err := kvStore.Clear(ctx); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
		logger.Info("cache cleared", "driver", cfg.Cache.Driver)

	case "seed-offline":
		stores := store.NewStores(nil)
		if err := store.SeedFromJSON(stores, cfg.Seed.Path); err != nil {
			return err
		}
		if !cache.New(kvStore, logger).SaveOfflineData(ctx, stores.Export()) {
			return fmt.Errorf("seed offline: could not write snapshot")
		}
		logger.Info("offline snapshot stored", "path", cfg.Seed.Path, "orders", stores.Orders.Len())

	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
	return nil
}
