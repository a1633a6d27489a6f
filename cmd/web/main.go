package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/popcatch/internal/config"
	"github.com/tomz197/popcatch/internal/leaderboard"
	"github.com/tomz197/popcatch/internal/web"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

func main() {
	config.LoadDotEnv()
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Level: config.LogLevel()})

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")

	store := leaderboard.OpenStore(leaderboard.StoreConfig{
		BinID: config.GetEnv("JSONBIN_BIN_ID", ""),
		Key:   config.GetEnv("JSONBIN_KEY", ""),
		URL:   config.GetEnv("JSONBIN_URL", ""),
	}, logger)

	handler := web.NewHandler(web.Options{
		Board:        leaderboard.NewService(store, logger),
		Page:         htmlPage,
		SSHHost:      sshHost,
		PollInterval: config.GetEnvDuration("WEB_POLL_INTERVAL", 5*time.Second),
		Logger:       logger,
	})

	addr := fmt.Sprintf("%s:%s", host, port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting web server", "url", "http://"+addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Could not start server", "error", err)
			done <- nil
		}
	}()

	<-done
	logger.Info("Stopping web server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Could not stop server", "error", err)
	}
}
