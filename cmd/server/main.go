// Package main is the entry point for the contacts API server. It loads
// configuration, connects MongoDB and Redis, starts the mail dispatcher and
// serves HTTP until interrupted.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contactbook/contacts-api/internal/api"
	"github.com/contactbook/contacts-api/internal/infrastructure/config"
	contactsmongo "github.com/contactbook/contacts-api/internal/infrastructure/db/mongo"
	contactsredis "github.com/contactbook/contacts-api/internal/infrastructure/db/redis"
	"github.com/contactbook/contacts-api/internal/infrastructure/mail"
	"github.com/contactbook/contacts-api/internal/infrastructure/queue"
	"github.com/contactbook/contacts-api/pkg/logger"
)

// @title        Contacts API
// @version      1.0
// @description  Contact book backend with JWT authentication, email confirmation and password reset.
// @BasePath     /
func main() {
	cfg := config.Load()
	log := logger.Init(cfg.LogLevel, cfg.Env)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("starting contacts-api")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	mongoClient, db, err := contactsmongo.Connect(ctx, contactsmongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()
	log.Info().Msg("connected to MongoDB")

	if err := contactsmongo.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}
	if err := contactsmongo.NewContactRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create contact indexes")
	}

	// --- Redis ---
	rdb, err := contactsredis.Connect(ctx, contactsredis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("connected to Redis")

	// --- Outbound email ---
	mailer := mail.NewSMTPMailer(mail.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
		FromName: cfg.Mail.FromName,
		StartTLS: cfg.Mail.StartTLS,
	})
	dispatcher := queue.NewDispatcher(0, mailer, log)
	dispatcher.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(cfg, db, rdb, dispatcher, log)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down server...")

		// Give in-flight requests 10 seconds to complete.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server forced shutdown")
		}
	}()

	if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
