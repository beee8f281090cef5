package main

import (
	"context"
	"log"

	"ai-concierge-be/internal/bootstrap"
	"ai-concierge-be/internal/config"
	"ai-concierge-be/internal/server"
	"ai-concierge-be/internal/tracer"
	"ai-concierge-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Hydrate the catalog index before serving traffic
	if err := container.CatalogService.HydrateIndex(context.Background()); err != nil {
		log.Panicf("Unable to hydrate catalog index: %v", err)
	}

	// 5. Start Background Services
	go func() {
		log.Println("Background: Starting Embed Consumer...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	if container.RelayWorker != nil {
		log.Println("Background: Starting Relay Worker...")
		if err := container.RelayWorker.Start(); err != nil {
			log.Printf("Relay Worker Error: %v (events will relay inline)", err)
		}
	}

	// 6. Initialize Server
	srv := server.New(cfg, container)

	// 7. Run Server
	log.Fatal(srv.Run())
}
