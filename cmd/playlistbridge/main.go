// Playlist Bridge - pushes city playlists into Discord channels
// License: MIT
//
// Copyright (c) 2026 Playlist Bridge contributors

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/citytrip/playlistbridge/pkg/cache"
	"github.com/citytrip/playlistbridge/pkg/config"
	"github.com/citytrip/playlistbridge/pkg/discord"
	"github.com/citytrip/playlistbridge/pkg/interactions"
	"github.com/citytrip/playlistbridge/pkg/logger"
	"github.com/citytrip/playlistbridge/pkg/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "playlistbridge: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := cache.New(cache.DefaultRetention)
	if err != nil {
		return err
	}
	go store.Run(ctx)

	resolver := interactions.NewResolver(store, cfg.FrontendBaseURL)

	client, err := discord.NewClient(cfg.BotToken, resolver)
	if err != nil {
		return err
	}
	if err := client.Start(ctx); err != nil {
		// Keep serving HTTP so health and diagnostics still answer; pushes
		// fail with a retry message until the bot connects.
		logger.ErrorCF("main", "Discord start failed", map[string]any{"error": err.Error()})
	}

	srv := server.New(server.Options{
		Addr:            fmt.Sprintf(":%d", cfg.Port),
		FrontendBaseURL: cfg.FrontendBaseURL,
		AllowedOrigins:  cfg.AllowedOrigins,
		Development:     cfg.Development(),
	}, &cfg.CityChannels, store, client)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.InfoCF("main", "Playlist bridge started", map[string]any{
		"port":   cfg.Port,
		"cities": len(cfg.CityChannels.Entries()),
		"env":    cfg.AppEnv,
	})

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	logger.InfoC("main", "Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WarnCF("main", "HTTP shutdown error", map[string]any{"error": err.Error()})
	}
	if client.Ready() {
		if err := client.Stop(shutdownCtx); err != nil {
			logger.WarnCF("main", "Discord stop error", map[string]any{"error": err.Error()})
		}
	}
	return nil
}
