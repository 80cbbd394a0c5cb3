// Command api serves the project showcase HTTP and websocket API.
//
// @title                       Showcase API
// @version                     1.0
// @description                 Developer project showcase: projects, comments, likes, bookmarks and moderation.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/devshowcase/showcase-api/docs"
	"github.com/devshowcase/showcase-api/internal/api"
	"github.com/devshowcase/showcase-api/internal/api/handler"
	"github.com/devshowcase/showcase-api/internal/api/metrics"
	"github.com/devshowcase/showcase-api/internal/core/service"
	"github.com/devshowcase/showcase-api/internal/infrastructure/ai"
	mongodb "github.com/devshowcase/showcase-api/internal/infrastructure/db/mongo"
	redisdb "github.com/devshowcase/showcase-api/internal/infrastructure/db/redis"
	"github.com/devshowcase/showcase-api/internal/pkg/config"
	"github.com/devshowcase/showcase-api/internal/realtime"
	"github.com/devshowcase/showcase-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "showcase-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongodb index setup failed")
	}

	// Redis only backs the tag quota, which fails open, so an unreachable
	// server degrades instead of blocking startup.
	redisCfg := redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
	rdb, err := redisdb.Connect(ctx, redisCfg)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, tag quota will fail open")
		rdb = redisdb.NewClient(redisCfg)
	}
	defer func() {
		_ = rdb.Close()
	}()

	repos := service.Repositories{
		Users:       mongodb.NewUserRepository(db),
		Projects:    mongodb.NewProjectRepository(db),
		Comments:    mongodb.NewCommentRepository(db),
		Engagements: mongodb.NewEngagementRepository(db),
		Categories:  mongodb.NewCategoryRepository(db),
	}

	// --- Tag suggestions ---
	tagger, err := ai.New(ai.Config{
		APIKey:   cfg.Tags.APIKey,
		Model:    cfg.Tags.Model,
		Timeout:  cfg.Tags.Timeout,
		Attempts: cfg.Tags.Attempts,
		Observer: func(result string) {
			metrics.TagSuggestionsTotal.WithLabelValues(result).Inc()
		},
	}, logger.Component("tagger"))
	if err != nil {
		log.Fatal().Err(err).Msg("tag suggester setup failed")
	}
	if !tagger.Enabled() {
		log.Warn().Msg("OPENAI_API_KEY not set, tag suggestions disabled")
	}
	quota := redisdb.NewQuota(rdb, "tags", cfg.Tags.PerHour, time.Hour)

	// --- Realtime ---
	hub := realtime.NewHub(cfg.Realtime.Outbox, log)
	dispatcher := realtime.NewDispatcher(cfg.Realtime.Workers, cfg.Realtime.Buffer, hub, log)
	dispatcher.Start(ctx)

	authService := service.NewAuthService(repos.Users, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	e := api.NewRouter(api.Deps{
		Auth:        authService,
		Projects:    service.NewProjectService(repos, tagger, quota, log),
		Comments:    service.NewCommentService(repos, log),
		Engagements: service.NewEngagementService(repos, log),
		Categories:  service.NewCategoryService(repos.Categories, log),
		Admin:       service.NewAdminService(repos, log),
		Hub:         hub,
		Notifier:    dispatcher,
		Checks: map[string]handler.Check{
			"mongodb": handler.MongoCheck(db),
			"redis":   handler.RedisCheck(rdb),
		},
		CORSOrigins: cfg.CORSOrigins,
		Logger:      log,
		Docs:        cfg.IsDevelopment(),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	hub.Shutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
