package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/iliyamo/campus-access-map/internal/apiclient"
	"github.com/iliyamo/campus-access-map/internal/config"
	"github.com/iliyamo/campus-access-map/internal/database"
	"github.com/iliyamo/campus-access-map/internal/handler"
	"github.com/iliyamo/campus-access-map/internal/mapimage"
	"github.com/iliyamo/campus-access-map/internal/middleware"
	"github.com/iliyamo/campus-access-map/internal/render"
	"github.com/iliyamo/campus-access-map/internal/repository"
	"github.com/iliyamo/campus-access-map/internal/resolver"
	"github.com/iliyamo/campus-access-map/internal/router"
	"github.com/iliyamo/campus-access-map/internal/service"
)

const shutdownTimeout = 10 * time.Second

func dbOptions(cfg config.Config) database.Options {
	return database.Options{User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName}
}

// openHistory connects the moderation log.  Without DB settings, or when
// MySQL is down, the history page is shown as unavailable.
func openHistory(ctx context.Context, cfg config.Config) (*repository.ModerationRepo, *sql.DB) {
	if !cfg.DatabaseEnabled() {
		return repository.NewModerationRepo(nil), nil
	}
	db, err := database.Open(ctx, dbOptions(cfg))
	if err != nil {
		log.Warnf("mysql unavailable, moderation history disabled: %v", err)
		return repository.NewModerationRepo(nil), nil
	}
	repo := repository.NewModerationRepo(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Warnf("moderation_log schema: %v", err)
	}
	return repo, db
}

func newPublisher(cfg config.Config) (service.Publisher, func()) {
	if !cfg.ModerationEvents {
		return service.NopPublisher{}, func() {}
	}
	p := service.NewAMQPPublisher(cfg.AMQPURL)
	return p, func() { _ = p.Close() }
}

func runServe(cmd *cobra.Command, _ []string) error {
	config.LoadDotEnv()
	cfg := config.Load()
	level := log.INFO
	if cfg.Env == "dev" {
		level = log.DEBUG
	}
	log.SetLevel(level)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := config.NewRedisClient(ctx)
	if rdb != nil {
		defer func(c *redis.Client) { _ = c.Close() }(rdb)
	}
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	history, db := openHistory(ctx, cfg)
	if db != nil {
		defer db.Close()
	}
	publisher, closePublisher := newPublisher(cfg)
	defer closePublisher()

	size := mapimage.ReadOr(cfg.MapImagePath, mapimage.Size{Width: cfg.MapWidth, Height: cfg.MapHeight})
	log.Infof("map image %s is %dx%d", cfg.MapImagePath, size.Width, size.Height)

	api := apiclient.New(cfg.APIBaseURL, cfg.APITimeout)
	res := resolver.New(cfg.APIBaseURL)
	sessions := handler.NewSessions(cfg.SessionTTL, cfg.SecureCookies)

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(level)
	e.Renderer = render.MustNew()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	mapHandler := &handler.MapHandler{
		API:         api,
		Resolver:    res,
		Sessions:    sessions,
		MapImageURL: cfg.MapImageURL,
		Width:       size.Width,
		Height:      size.Height,
	}
	adminHandler := &handler.AdminHandler{
		API:       api,
		Resolver:  res,
		Sessions:  sessions,
		Publisher: publisher,
		History:   history,
		Invalidate: func(ctx context.Context) error {
			return middleware.InvalidateCache(ctx, cacheCfg, rdb)
		},
		LoginPath: cfg.LoginPath,
		Secure:    cfg.SecureCookies,
	}

	router.RegisterRoutes(e, cfg.AssetsDir)
	router.RegisterMap(e, mapHandler,
		middleware.NewRedisCache(cacheCfg, rdb),
		middleware.NewTokenBucket(rlCfg, rdb, mapHandler.CommentRateLimited))
	router.RegisterAdmin(e, adminHandler)

	addr := ":" + cfg.Port
	errc := make(chan error, 1)
	go func() {
		log.Infof("listening on %s (env=%s, api=%s)", addr, cfg.Env, cfg.APIBaseURL)
		errc <- e.Start(addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
