package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"github.com/iliyamo/campus-access-map/internal/config"
	"github.com/iliyamo/campus-access-map/internal/database"
	"github.com/iliyamo/campus-access-map/internal/queue"
	"github.com/iliyamo/campus-access-map/internal/repository"
)

// runConsume fills the moderation log from the queue.  Unlike the server it
// needs MySQL and fails without it.
func runConsume(cmd *cobra.Command, _ []string) error {
	config.LoadDotEnv()
	cfg := config.Load()
	if !cfg.DatabaseEnabled() {
		return errors.New("consume: DB_HOST and DB_USER are required")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, dbOptions(cfg))
	if err != nil {
		return fmt.Errorf("consume: open mysql: %w", err)
	}
	defer db.Close()

	repo := repository.NewModerationRepo(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	log.Infof("consuming %s", queue.ModerationQueue)
	err = queue.NewConsumer(cfg.AMQPURL, repo).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
