package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	gormlogger "gorm.io/gorm/logger"

	"ecoeats-server/internal/config"
	"ecoeats-server/internal/domain/conversation"
	"ecoeats-server/internal/infrastructure/auth"
	"ecoeats-server/internal/infrastructure/database"
	"ecoeats-server/internal/infrastructure/gateway"
	"ecoeats-server/internal/infrastructure/logger"
	"ecoeats-server/internal/infrastructure/observability"
	conversationrepo "ecoeats-server/internal/infrastructure/repository/conversation"
	"ecoeats-server/internal/interfaces/httpserver"
)

// Application bundles the long-running listeners.
type Application struct {
	httpServer *httpserver.HttpServer
	cfg        *config.Config
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, cfg *config.Config, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		cfg:        cfg,
		log:        log,
	}
}

// Start runs the API listener and the metrics listener until the context is
// cancelled.
func (a *Application) Start(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return a.httpServer.Run(ctx)
	})

	group.Go(func() error {
		return a.runMetrics(ctx)
	})

	return group.Wait()
}

func (a *Application) runMetrics(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:    a.cfg.MetricsAddr(),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", a.cfg.MetricsAddr()).Msg("metrics server listening")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	conversationRepository := conversationrepo.NewRepository(db)
	conversationService := conversation.NewService(conversationRepository)

	if cfg.AIGatewayKey == "" {
		log.Warn().Msg("AI gateway key not set; relay requests will fail until configured")
	}
	gatewayClient := gateway.NewClient(cfg.AIGatewayURL, cfg.AIGatewayKey, cfg.AIGatewayModel, log)

	httpServer := httpserver.New(cfg, log, gatewayClient, conversationService, authValidator)
	app := NewApplication(httpServer, cfg, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
