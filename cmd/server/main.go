package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	_ "github.com/notesaas/notes-api/docs" // registers the swagger spec

	"github.com/notesaas/notes-api/internal/api"
	"github.com/notesaas/notes-api/internal/core/ports"
	"github.com/notesaas/notes-api/internal/core/service"
	"github.com/notesaas/notes-api/internal/infrastructure/db/memory"
	"github.com/notesaas/notes-api/internal/infrastructure/db/mongo"
	"github.com/notesaas/notes-api/internal/infrastructure/db/redis"
	"github.com/notesaas/notes-api/internal/infrastructure/http/handlers"
	"github.com/notesaas/notes-api/internal/infrastructure/queue"
	"github.com/notesaas/notes-api/internal/infrastructure/seed"
	"github.com/notesaas/notes-api/internal/pkg/config"
	"github.com/notesaas/notes-api/pkg/logger"
)

//	@title			Notes SaaS API
//	@version		1.0
//	@description	Multi-tenant notes backend with plan-based quotas.

//	@BasePath	/api

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT token.

const serviceName = "notes-api"

type stores struct {
	users   ports.UserRepository
	tenants ports.TenantRepository
	notes   ports.NoteRepository
}

func main() {
	// A missing .env is normal outside local development.
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
	})
	if envErr != nil {
		log.Debug().Msg("no .env file found, using process environment")
	}
	if cfg.UsesDevSecret() {
		log.Warn().Msg("JWT_SECRET not set, using the development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	users, err := seed.Users(cfg.Store.SeedBcryptCost)
	if err != nil {
		return err
	}

	readiness := map[string]handlers.Check{}

	// --- Stores ---
	var st stores
	switch cfg.Store.Backend {
	case config.BackendMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  serviceName,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error().Err(err).Msg("mongo disconnect")
			}
		}()

		store := mongo.NewStore(db)
		if err := store.Bootstrap(ctx, seed.Tenants(), users); err != nil {
			return err
		}
		st = stores{users: store.Users, tenants: store.Tenants, notes: store.Notes}
		readiness["mongodb"] = handlers.MongoCheck(db)
		log.Info().Str("database", cfg.Mongo.Database).Msg("using mongo store")
	default:
		st = stores{
			users:   memory.NewUserRepository(users...),
			tenants: memory.NewTenantRepository(seed.Tenants()...),
			notes:   memory.NewNoteRepository(),
		}
		log.Info().Msg("using in-memory store")
	}

	// --- Tenant serialization ---
	var locker ports.TenantLocker
	redisCfg := redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
	if redisCfg.Enabled() {
		rdb, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer rdb.Close()

		locker = redis.NewTenantLock(rdb, cfg.Redis.LockTTL, cfg.Redis.LockWait)
		readiness["redis"] = handlers.RedisCheck(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis tenant locks")
	} else {
		serializer := queue.NewSerializer(cfg.Store.LockWorkers, logger.Component(log, "serializer"))
		serializer.Start(ctx)
		locker = serializer
	}

	// --- Services ---
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	plans := service.NewPlanService(st.tenants, logger.Component(log, "plans"))
	notes := service.NewNoteService(st.notes, plans, locker, logger.Component(log, "notes"))
	auth := service.NewAuthService(st.users, tokens, logger.Component(log, "auth"))

	e := api.NewRouter(api.Deps{
		HTTP:      cfg.HTTP,
		Log:       logger.Component(log, "http"),
		Tokens:    tokens,
		Auth:      auth,
		Notes:     notes,
		Plans:     plans,
		Tenants:   st.tenants,
		Readiness: readiness,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("base_path", cfg.HTTP.BasePath).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownGrace)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
