package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"PinGateway/config"
	"PinGateway/internal/controller/rest"
	"PinGateway/internal/controller/rest/handlers"
	"PinGateway/internal/domain/charge"
	"PinGateway/internal/external/pin"
	"PinGateway/pkg/health"
	"PinGateway/pkg/logger"

	"golang.org/x/sync/errgroup"
)

func Run(cfg config.Config) error {
	logger.Setup(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pinClient := pin.New(
		pin.Config{
			SecretKey:    cfg.PinSecretKey,
			TestMode:     cfg.PinTestMode,
			TestEndpoint: cfg.PinTestEndpoint,
			LiveEndpoint: cfg.PinLiveEndpoint,
		},
		&http.Client{Timeout: cfg.HTTPPinClientTimeout},
	)

	gatewayCheck, err := health.NewURLChecker("pin", pinClient.Endpoint())
	if err != nil {
		return fmt.Errorf("app - Run - health.NewURLChecker: %w", err)
	}

	chargeService := charge.NewService(pin.NewGateway(pinClient))
	chargeHandler := handlers.NewChargeHandler(chargeService)

	engine := rest.NewEngine()
	rest.NewRouter(chargeHandler, health.NewRegistry(gatewayCheck)).SetUp(engine)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Starting HTTP server",
			slog.Int("port", cfg.Port),
			slog.Bool("pin_test_mode", cfg.PinTestMode),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("app - Run - ListenAndServe: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down HTTP server gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
