package main

import (
	"log"
	"net/http"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/fileshare/internal/devserver"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := devserver.Config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}

	srv := devserver.New(cfg)

	log.Println("starting dev server on :8080")
	if err := http.ListenAndServe(":8080", srv.Handler()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
