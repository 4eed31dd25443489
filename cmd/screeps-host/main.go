package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/woxQAQ/screeps-go/internal/config"
	"github.com/woxQAQ/screeps-go/internal/host"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	flags := pflag.NewFlagSet("screeps-host", pflag.ExitOnError)
	configPath := flags.StringP("config", "c", "", "Path to configuration file")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringSlice("bots", []string{"./bots"}, "Directories containing bot subdirectories")
	flags.IntP("ticks", "n", 1, "Number of ticks to run")
	flags.Int("tick-timeout", 500, "Per-bot tick budget in milliseconds")
	flags.String("snapshot", "./build/memory.snap", "Snapshot file (empty disables persistence)")
	flags.String("compression", "zstd", "Snapshot compression (none, zstd)")
	flags.Bool("wasm-debug", false, "Log failed host function calls")
	flags.Uint32("memory-pages", 256, "Memory limit per bot in 64KiB pages")
	flags.Int("max-instances", 100, "Maximum concurrent bot instances")
	showVersion := flags.Bool("version", false, "Print version and exit")
	_ = flags.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("screeps-host %s (%s, %s)\n", version, commit, date)
		return
	}

	// Load configuration
	cfg, err := config.LoadHostConfig(*configPath, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "screeps-host: failed to load configuration: %v\n", err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "screeps-host: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	logger.Info("Starting screeps-host",
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("date", date),
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, err := host.NewServer(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create host", zap.Error(err))
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	runErr := server.Run(ctx)
	if err := server.Close(context.WithoutCancel(ctx)); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
	}
	if runErr != nil {
		logger.Fatal("Host error", zap.Error(runErr))
	}

	logger.Info("Host shutdown complete")
}

// newLogger builds a development logger for debug and a production logger at
// the requested level otherwise.
func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}
