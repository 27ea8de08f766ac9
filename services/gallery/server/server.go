// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package server wires the gallery service together and runs it. The
// service binary and the ops CLI's serve command both enter here.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/AleutianAI/AiGallery/services/gallery/config"
	"github.com/AleutianAI/AiGallery/services/gallery/handlers"
	"github.com/AleutianAI/AiGallery/services/gallery/interact"
	"github.com/AleutianAI/AiGallery/services/gallery/middleware"
	"github.com/AleutianAI/AiGallery/services/gallery/observability"
	"github.com/AleutianAI/AiGallery/services/gallery/routes"
	"github.com/AleutianAI/AiGallery/services/gallery/seeding"
	"github.com/AleutianAI/AiGallery/services/gallery/store"
	"github.com/AleutianAI/AiGallery/services/genai"
	"github.com/AleutianAI/AiGallery/services/imagehost"
)

func initTracer(endpoint string) (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("gallery-service")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

// newImageHost picks the hosting backend. GCS without a bucket falls back
// to local so a dev checkout still works end to end.
func newImageHost(ctx context.Context, cfg config.Config) (imagehost.Host, error) {
	if cfg.Images.Backend == "gcs" && cfg.Images.Bucket != "" {
		return imagehost.NewGCSHost(ctx, cfg.Images.Bucket, cfg.Images.SAKeyPath)
	}
	if cfg.Images.Backend == "gcs" {
		slog.Warn("gcs image backend selected but no bucket configured, using local hosting")
	}
	return imagehost.NewLocalHost(cfg.Images.Dir, cfg.Images.BaseURL)
}

// Run loads the config at configPath, wires every component, and serves
// until the listener fails.
func Run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := new(slog.LevelVar)
	level.Set(config.ParseLevel(cfg.Log.Level))
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if watcher, err := config.WatchLogLevel(configPath, level, logger); err == nil {
		defer watcher.Close()
	} else {
		slog.Info("config file not watched", "path", configPath, "error", err)
	}

	if cfg.Otel.Enabled {
		cleanup, err := initTracer(cfg.Otel.Endpoint)
		if err != nil {
			return fmt.Errorf("failed to setup the OTLP tracer: %w", err)
		}
		defer cleanup(context.Background())
	}

	storeCfg := store.DefaultConfig(cfg.Store.Path)
	if cfg.Store.InMemory {
		storeCfg = store.InMemoryConfig()
	}
	st, err := store.Open(storeCfg)
	if err != nil {
		return fmt.Errorf("failed to open document store: %w", err)
	}
	defer st.Close()

	secret, err := cfg.JWTSecret()
	if err != nil {
		return fmt.Errorf("failed to resolve JWT secret: %w", err)
	}
	auth, err := middleware.NewAuthenticator(secret)
	if err != nil {
		return fmt.Errorf("failed to initialize authenticator: %w", err)
	}

	genaiClient, err := genai.NewOpenAIClient()
	if err != nil {
		return fmt.Errorf("failed to initialize generation client: %w", err)
	}

	host, err := newImageHost(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize image hosting: %w", err)
	}

	metrics := observability.InitMetrics()
	hub := handlers.NewHub(logger)

	engine := interact.New(st, logger, metrics)
	engine.Publisher = hub

	seeder := seeding.New(st, genaiClient, logger, metrics)
	seeder.Publisher = hub

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default()
	router.Use(otelgin.Middleware("gallery-service"))

	routes.SetupRoutes(router, routes.Deps{
		Store:    st,
		Auth:     auth,
		Engine:   engine,
		Seeder:   seeder,
		GenAI:    genaiClient,
		Host:     host,
		Hub:      hub,
		Metrics:  metrics,
		GenLimit: middleware.NewPerUserLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst),
	})

	slog.Info("starting the gallery server", "addr", cfg.Server.Addr)
	return router.Run(cfg.Server.Addr)
}
