package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Its-donkey/folio/internal/config"
	"github.com/Its-donkey/folio/internal/ui/server"
	"github.com/Its-donkey/folio/logging"
	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the JSON config file")
	envFile := flag.String("env", ".env", "path to a .env file loaded before config")
	listen := flag.String("listen", "", "address to serve the site (overrides config)")
	templatesDir := flag.String("templates", "", "path to the html/template files")
	assetsDir := flag.String("assets", "", "path where styles.css and main.wasm are located")
	contentPath := flag.String("content", "", "path to the site content YAML")
	contactMode := flag.String("contact-mode", "", `contact submission mode: "http" or "simulated"`)
	flag.Parse()

	if err := config.LoadEnv(*envFile); err != nil {
		log.Fatalf("load env: %v", err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	override := func(dst *string, value string) {
		if value != "" {
			*dst = value
		}
	}
	override(&cfg.App.Templates, *templatesDir)
	override(&cfg.App.Assets, *assetsDir)
	override(&cfg.App.Content, *contentPath)
	override(&cfg.Contact.Mode, *contactMode)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	addr := cfg.Server.ListenAddr()
	override(&addr, *listen)

	fileWriter, err := logging.NewFileWriter(filepath.Join(cfg.App.Logs, "server.json"), 10, 5)
	if err != nil {
		log.Fatalf("open log file: %v", err)
	}
	defer fileWriter.Close()
	logger := logging.New(cfg.App.Name, logging.ParseLevel(cfg.App.LogLevel), os.Stdout, fileWriter)

	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = server.Run(ctx, addr, server.Options{
		Config:  cfg,
		Logger:  logger,
		LogPath: fileWriter.Path(),
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("general", "server stopped", err, nil)
		fileWriter.Close()
		os.Exit(1)
	}
}
