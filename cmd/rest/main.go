package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"ai-briefbuilder-be/internal/bootstrap"
	"ai-briefbuilder-be/internal/config"
	"ai-briefbuilder-be/internal/server"
	"ai-briefbuilder-be/internal/tracer"
	"ai-briefbuilder-be/pkg/database"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	// An unreachable store degrades the service instead of stopping it.
	var gormDB *gorm.DB
	db, err := database.Open(cfg.Database.Connection)
	if err != nil {
		log.Printf("[WARN] Unable to connect to database: %v", err)
	} else {
		gormDB = db
	}

	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, container)

	g, gctx := errgroup.WithContext(ctx)
	if container.AutosaveConsumer != nil {
		g.Go(func() error {
			log.Println("Background: Starting Autosave Consumer...")
			return container.AutosaveConsumer.Consume(gctx)
		})
	}
	g.Go(srv.Run)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}
