package handler

import (
	"context"
	"net/http"

	"github.com/wadjakorntonsri/clipstash/pkg/adapters/handler"
	"github.com/wadjakorntonsri/clipstash/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/clipstash/pkg/config"
	"github.com/wadjakorntonsri/clipstash/pkg/core/domain"
	"github.com/wadjakorntonsri/clipstash/pkg/core/services"
	"github.com/wadjakorntonsri/clipstash/pkg/logger"
)

var mux http.Handler

func init() {
	cfg := config.Load()

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	// Serverless file systems are ephemeral; DATABASE_URL should point at libsql.
	db, err := sqlite.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxOpenConns)
	if err != nil {
		panic(err)
	}

	clock := domain.RealClock{}
	repo := sqlite.NewSQLiteRepository(db, log.Named("repository"), sqlite.WithClock(clock))
	service := services.NewClipService(repo, clock, log.Named("service"))

	mux, err = handler.NewRouter(cfg, service, log.Named("http"))
	if err != nil {
		panic(err)
	}
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
