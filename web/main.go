package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"itsheet.com/itsheet/core"
	"itsheet.com/itsheet/infrastructure/communication"
	"itsheet.com/itsheet/infrastructure/devops"
	"itsheet.com/itsheet/infrastructure/filesystem"
	"itsheet.com/itsheet/security"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := devops.Load(ctx)
	if err != nil {
		log.Fatalf("[ERROR] failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
	secret, err := security.DecodeSecret(cfg.SigningSecret)
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}

	dm, err := core.New(cfg.DSN, cfg.MaxConnections)
	if err != nil {
		log.Fatalf("[ERROR] failed to connect to database: %v", err)
	}
	defer dm.Close()

	deps := Dependencies{Config: cfg, DM: dm, Secret: secret}
	// ConnectSlack returns a nil *Slack, which must not become a non-nil
	// interface value
	if slack := communication.ConnectSlack(cfg.Slack.Token, communication.SlackOption{
		InfoChannelID:  cfg.Slack.InfoChannelID,
		ErrorChannelID: cfg.Slack.ErrorChannelID,
	}); slack != nil {
		deps.Notifier = slack
	}
	if cfg.ReportBucket != "" {
		archive, err := filesystem.NewS3Archive(ctx, cfg.ReportBucket)
		if err != nil {
			log.Printf("[WARN] report archive disabled: %v", err)
		} else {
			deps.Archive = archive
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[INFO] listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[ERROR] server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("[INFO] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] graceful shutdown failed: %v", err)
	}
}
