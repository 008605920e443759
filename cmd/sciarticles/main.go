package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/pribylovaa/sciarticles/internal/cli"
	"github.com/pribylovaa/sciarticles/internal/client"
	"github.com/pribylovaa/sciarticles/internal/config"
	"github.com/pribylovaa/sciarticles/internal/session"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	// .env удобен при локальной разработке; отсутствие файла — не ошибка.
	_ = godotenv.Load()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	sessionPath, err := cfg.Session.ResolvePath()
	if err != nil {
		log.Error("session_path_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	store, err := session.OpenFile(sessionPath)
	if err != nil {
		log.Error("session_open_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	cl, err := client.New(store, client.Options{
		BaseURL:   cfg.API.BaseURL,
		UserAgent: cfg.API.UserAgent,
		Timeout:   cfg.Timeouts.Request,
		Logger:    log,
	})
	if err != nil {
		log.Error("client_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := cli.New(cl, os.Stdout)

	if err := app.Run(ctx, flag.Args()); err != nil {
		if errors.Is(err, cli.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
			cli.Usage(os.Stderr)
			os.Exit(2)
		}

		fmt.Fprintln(os.Stderr, cli.Render(err))
		log.Debug("command_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
}
