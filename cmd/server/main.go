package main

import (
	"context"
	"fmt"

	"github.com/notesafe/notesafe/internal/config"
	myhttp "github.com/notesafe/notesafe/internal/handler/http"
	"github.com/notesafe/notesafe/internal/logger"
	"github.com/notesafe/notesafe/internal/server"
	"github.com/notesafe/notesafe/internal/service"
	"github.com/notesafe/notesafe/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("notesafe-server")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	storages, err := store.NewStorages(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	services := service.NewServices(storages, cfg.Auth, log)
	handler := myhttp.NewHandler(services, log)

	srv, err := server.NewServer(handler, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
