package main

import (
	"context"
	"log"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"taskflow/handlers"
	"taskflow/utils"
)

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logFile, err := utils.SetupLogging(cfg.LogFile)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logFile.Close()
	log.Println("environment: ", cfg.Env)

	records, err := utils.OpenStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreBackend, err)
	}
	defer records.Close()

	storage := utils.NewStorage(records)
	if err := storage.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	creds, err := utils.NewCredentials(cfg.AdminPassword, cfg.UserPassword, bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to prepare credentials: %v", err)
	}

	var notifier utils.Notifier = utils.LogNotifier{}
	if cfg.SendGridKey != "" {
		notifier = utils.NewMailNotifier(cfg.SendGridKey, cfg.NotifyFrom, cfg.NotifyDomain)
	}

	env := &handlers.Env{
		Storage:    storage,
		Auth:       utils.NewAuthenticator(storage, creds, cfg.SessionTTL),
		Notifier:   notifier,
		SessionTTL: cfg.SessionTTL,
	}

	log.Printf("Starting server on %s (%s store)", cfg.HTTPAddr, cfg.StoreBackend)
	if err := http.ListenAndServe(cfg.HTTPAddr, handlers.NewMux(env)); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
