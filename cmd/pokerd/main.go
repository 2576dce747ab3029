package main

import (
	"context"
	rand "math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/a1henu/deepseek-poker/internal/ai"
	"github.com/a1henu/deepseek-poker/internal/config"
	"github.com/a1henu/deepseek-poker/internal/ident"
	"github.com/a1henu/deepseek-poker/internal/room"
	"github.com/a1henu/deepseek-poker/internal/server"
)

var CLI struct {
	Config   string `short:"c" default:"pokerd.hcl" help:"Path to HCL configuration file."`
	Addr     string `short:"a" env:"POKERD_ADDR" help:"Listen address (overrides config)."`
	LogLevel string `short:"l" env:"POKERD_LOG_LEVEL" help:"Log level (overrides config)."`
}

func main() {
	kctx := kong.Parse(&CLI)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		kctx.Errorf("loading config: %v", err)
		kctx.Exit(1)
	}
	if CLI.Addr != "" {
		cfg.Server.Address = CLI.Addr
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}

	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	if cfg.AI.APIKey == "" {
		logger.Warn("no DeepSeek API key configured; automated seats will play the fallback")
	}

	decider := ai.New(ai.Config{
		APIKey: cfg.AI.APIKey,
		Model:  cfg.AI.Model,
		URL:    cfg.AI.URL,
	}, logger)

	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	registry := room.NewRegistry(
		cfg.Defaults.MaxRooms,
		decider,
		ident.NewGenerator(nil),
		rng,
		quartz.NewReal(),
		logger,
	)

	srv := server.New(cfg.Server.Address, registry, *cfg.Defaults, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting poker server",
		"addr", cfg.Server.Address,
		"max_rooms", cfg.Defaults.MaxRooms,
		"model", cfg.AI.Model)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx)
	})
	if err := g.Wait(); err != nil {
		logger.Error("server exited", "error", err)
		kctx.Exit(1)
	}
}
