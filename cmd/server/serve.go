// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/spf13/cobra"

	"github.com/tomtom215/metromap/internal/api"
	"github.com/tomtom215/metromap/internal/chatkit"
	"github.com/tomtom215/metromap/internal/config"
	"github.com/tomtom215/metromap/internal/events"
	"github.com/tomtom215/metromap/internal/logging"
	"github.com/tomtom215/metromap/internal/metromap"
	"github.com/tomtom215/metromap/internal/snapshot"
	"github.com/tomtom215/metromap/internal/supervisor"
	"github.com/tomtom215/metromap/internal/supervisor/services"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg)
		},
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.LoadWithKoanf()
}

//nolint:gocyclo // sequential wiring of every component
func runServer(ctx context.Context, cfg *config.Config) error {
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Format = cfg.Logging.Format
	logCfg.Caller = cfg.Logging.Caller
	logging.Init(logCfg)

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Bool("chatkit", cfg.ChatKit.Enabled()).
		Bool("snapshots", cfg.Map.SnapshotEnabled).
		Msg("Starting Metromap")
	if cfg.HasWildcardCORS() {
		logging.Warn().Msg("CORS allows any origin; set CORS_ORIGINS for production")
	}

	var snaps *snapshot.Store
	if cfg.Map.SnapshotEnabled {
		var err error
		snaps, err = snapshot.Open(cfg.Map.SnapshotPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := snaps.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing snapshot database")
			}
		}()
	}

	initial, revision, err := loadInitialMap(ctx, cfg.Map, snaps)
	if err != nil {
		return err
	}

	store, err := metromap.NewStore(initial, metromap.WithRevision(revision))
	if err != nil {
		return fmt.Errorf("seed map store: %w", err)
	}

	wmLogger := logging.NewWatermillAdapter()
	bus := events.NewBus(events.DefaultBusConfig(), wmLogger)
	defer func() { _ = bus.Close() }()
	store.SetPublisher(bus)

	var writer *snapshot.Writer
	if snaps != nil {
		writer = snapshot.NewWriter(snaps, revision, snapshot.DefaultRetain)
	}

	provider := chatkit.NewProvider(cfg.ChatKit)

	handler := api.NewHandler(store, provider, api.HandlerConfig{
		DefaultMapID: cfg.ChatKit.DefaultMapID,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	})
	site := api.NewStaticSite(api.ResolveStaticDir(cfg.Static.Dirs))
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(cfg.Security), site)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	routerCfg := events.DefaultRouterConfig()
	tree.AddMessagingService(services.NewEventRouterService(func() (services.EventRouter, error) {
		r, err := events.NewRouter(&routerCfg, wmLogger)
		if err != nil {
			return nil, err
		}
		if writer != nil {
			r.AddConsumerHandler("snapshot-writer", events.TopicMapReplaced, bus.Subscriber(), writer.Handle)
		} else {
			r.AddConsumerHandler("map-audit", events.TopicMapReplaced, bus.Subscriber(), logMapReplaced)
		}
		return r, nil
	}, routerCfg.CloseTimeout))

	if snaps != nil {
		tree.AddDataService(services.NewSnapshotGCService(snaps, 0))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}

	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within the shutdown timeout")
		}
	}
	logging.Info().Uint64("revision", store.Revision()).Msg("Metromap stopped")
	return nil
}

// loadInitialMap picks the startup document: the seed file when configured,
// otherwise the latest snapshot, otherwise the built-in map. With snapshots
// enabled the revision counter continues from the latest snapshot even when
// the seed file wins, so new snapshots never fall behind stored ones.
func loadInitialMap(ctx context.Context, cfg config.MapConfig, snaps *snapshot.Store) (*metromap.MetroMap, uint64, error) {
	var latest *snapshot.Snapshot
	if snaps != nil {
		snap, err := snaps.Load(ctx)
		switch {
		case err == nil:
			latest = snap
		case errors.Is(err, snapshot.ErrNoSnapshot):
		default:
			return nil, 0, fmt.Errorf("load map snapshot: %w", err)
		}
	}

	var revision uint64
	if latest != nil {
		revision = latest.Revision
	}

	if cfg.SeedPath != "" {
		m, err := metromap.LoadFile(cfg.SeedPath)
		if err != nil {
			return nil, 0, err
		}
		logging.Info().Str("path", cfg.SeedPath).Str("map_id", m.ID).Msg("Seeded map from file")
		return m, revision, nil
	}

	if latest != nil {
		if err := latest.Map.Validate(); err != nil {
			return nil, 0, fmt.Errorf("snapshot revision %d: %w", latest.Revision, err)
		}
		logging.Info().
			Uint64("revision", latest.Revision).
			Time("saved_at", latest.SavedAt).
			Str("map_id", latest.Map.ID).
			Msg("Restored map from snapshot")
		return latest.Map, revision, nil
	}

	m := metromap.Default()
	logging.Info().Str("map_id", m.ID).Msg("Seeded built-in map")
	return m, revision, nil
}

// logMapReplaced records replacements when no snapshot writer consumes them.
func logMapReplaced(msg *message.Message) error {
	evt, err := events.DecodeMapReplaced(msg.Payload)
	if err != nil {
		logging.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping malformed map event")
		return nil
	}
	logging.Debug().
		Uint64("revision", evt.Revision).
		Str("map_id", evt.MapID).
		Msg("Map replaced")
	return nil
}
