package main

import (
	"context"

	"github.com/sniperthink/identity-service/internal/api"
	"github.com/sniperthink/identity-service/internal/core/domain"
	"github.com/sniperthink/identity-service/internal/infrastructure/config"
	mongodb "github.com/sniperthink/identity-service/internal/infrastructure/db/mongo"
	redisdb "github.com/sniperthink/identity-service/internal/infrastructure/db/redis"
	"github.com/sniperthink/identity-service/internal/infrastructure/email"
	"github.com/sniperthink/identity-service/internal/infrastructure/queue"
	"github.com/sniperthink/identity-service/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx := context.Background()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = client.Disconnect(ctx) }()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}
	migrated, err := mongodb.BackfillRoles(ctx, db, domain.RoleUser)
	if err != nil {
		log.Fatal().Err(err).Msg("role backfill failed")
	}
	if migrated > 0 {
		log.Info().Int64("count", migrated).Msg("backfilled default role on legacy users")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	mailer := email.NewSMTPMailer(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	dispatcher := queue.NewDispatcher(0, mailer, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(cfg, db, rdb, dispatcher, log)

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting identity service")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
