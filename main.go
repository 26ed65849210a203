package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"promptui/backend"
	"promptui/cli"
	"promptui/config"
	"promptui/handler"
	"promptui/logging"
	"promptui/manager"
	"promptui/metrics"
	"promptui/submitter"
)

var version = "dev"

func main() {
	if err := config.ParseArgs(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if config.CliArgs.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	log := logging.GetLogger()
	cfg, err := config.LoadConfig(config.CliArgs)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Debug {
		logging.InitLogger(logrus.DebugLevel)
	} else {
		logging.InitLogger(logrus.InfoLevel)
	}

	inflight := manager.NewInFlightManager()
	inflight.OnChange = metrics.SetInFlight
	defer inflight.Shutdown()

	client := backend.NewBackendClient(cfg.Endpoint, cfg.Timeout)
	prompts := submitter.NewPromptSubmitter(client, inflight, cfg.Policy == config.PolicySupersede)

	if config.CliArgs.OneShot {
		os.Exit(cli.RunOnce(context.Background(), prompts, config.CliArgs.Prompt, os.Stdout, os.Stderr))
	}

	pageHandler := handler.NewPageHandler(prompts, cfg.Endpoint)
	server := &http.Server{
		Addr:    cfg.ListenAddress,
		Handler: pageHandler.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Errorf("Server shutdown: %v", err)
		}
	}()

	log.Infof("Starting server on %s, querying %s (policy %s)", cfg.ListenAddress, cfg.Endpoint, cfg.Policy)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed to start: %v", err)
	}
}
