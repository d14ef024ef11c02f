package main

import (
	"embed"
	"log"

	"github.com/joho/godotenv"

	"cleanmycsv/internal/config"
	"cleanmycsv/internal/ops"
	"cleanmycsv/ui"
)

//go:embed ui/templates/* ui/static/*
var embeddedFiles embed.FS

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if appConfig.Ops.Enabled {
		ops.Start(appConfig.Ops.Port)
	}

	server, err := ui.NewServer(appConfig, embeddedFiles)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	log.Printf("Starting CleanMyCSV server on port %s", appConfig.Server.Port)
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
