package main

import (
	"fmt"

	"github.com/mailguest/flatnotes/internal/config"
	handler "github.com/mailguest/flatnotes/internal/handler/http"
	"github.com/mailguest/flatnotes/internal/logger"
	"github.com/mailguest/flatnotes/internal/server"
	"github.com/mailguest/flatnotes/internal/service"
	"github.com/mailguest/flatnotes/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("flatnotes-server")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	storages, err := store.NewStorages(cfg.Files, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init storages error")
	}
	defer storages.Close()

	services := service.NewServices(storages, cfg.Auth, log)
	router := handler.NewHandler(services, log).Init()

	srv, err := server.NewServer(router, cfg.HTTP, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init server error")
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
