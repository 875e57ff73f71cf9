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

	"go.uber.org/zap"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/config"
	"github.com/nekogravitycat/shareit-backend/internal/gateway"
	"github.com/nekogravitycat/shareit-backend/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadGateway()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewNamed(cfg.AppEnv, "shareit-gateway")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := gateway.RegisterValidations(time.Now); err != nil {
		log.Fatal("failed to register validations", zap.Error(err))
	}

	var tokens *auth.JWTManager
	if cfg.InternalTokenSecret != "" {
		tokens = auth.NewJWTManager(cfg.InternalTokenSecret, cfg.InternalTokenTTL)
	} else {
		log.Warn("INTERNAL_TOKEN_SECRET is not set; forwarding without gateway tokens")
	}

	forwarder, err := gateway.NewForwarder(cfg.ServerURL, tokens, log.Named("proxy"))
	if err != nil {
		log.Fatal("invalid server url", zap.String("url", cfg.ServerURL), zap.Error(err))
	}

	router := gateway.NewRouter(gateway.RouterConfig{
		IsProduction: cfg.IsProduction(),
		Logger:       log.Named("http"),
		Forwarder:    forwarder,
	})

	server := &http.Server{
		Addr:              cfg.GatewayAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("gateway running", zap.String("addr", cfg.GatewayAddr), zap.String("server", cfg.ServerURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("gateway error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("gateway forced to shutdown", zap.Error(err))
	}

	log.Info("gateway exited gracefully")
}
