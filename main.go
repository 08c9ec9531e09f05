package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/sbo24/finance-flow/internal/cache"
	"github.com/sbo24/finance-flow/internal/config"
	"github.com/sbo24/finance-flow/internal/database"
	"github.com/sbo24/finance-flow/internal/router"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate", false, "run database migrations and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}
	if *migrateOnly {
		log.Println("migrations complete")
		return
	}

	store := cache.New(cfg.Redis)

	r := router.SetupRouter(cfg, db, store)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}
