package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ArowuTest/recyclepoints-backend/api/routes"
	"github.com/ArowuTest/recyclepoints-backend/internal/config"
	"github.com/ArowuTest/recyclepoints-backend/internal/handlers"
	"github.com/ArowuTest/recyclepoints-backend/internal/services"
	"github.com/ArowuTest/recyclepoints-backend/pkg/pushgateway"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.JWT.Secret == "" {
		return errors.New("JWT.Secret is not configured (set JWT_SECRET)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	dispatcher := services.NewNotificationDispatcher(store.Repositories().Notifications, newGateway(cfg), services.DispatcherOptions{
		Workers:   cfg.Notification.Workers,
		QueueSize: cfg.Notification.QueueSize,
	})

	requestService := services.NewRequestService(store, dispatcher)
	collectionService := services.NewCollectionService(store, dispatcher)
	redemptionService := services.NewRedemptionService(store, dispatcher)
	accountService := services.NewAccountService(store)

	gin.SetMode(gin.ReleaseMode)
	router := routes.SetupRouter(cfg, routes.HandlerDependencies{
		RequestHandler:    handlers.NewRequestHandler(requestService),
		CollectionHandler: handlers.NewCollectionHandler(collectionService),
		AccountHandler:    handlers.NewAccountHandler(accountService, redemptionService),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port, "storage", cfg.Storage.Driver, "gateway", cfg.Notification.Gateway)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	// In-flight requests are done; deliver what they queued.
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		slog.Warn("Notifications not fully delivered", "error", err)
	}
	slog.Info("Server exiting")
	return nil
}

func newGateway(cfg *config.Config) pushgateway.Gateway {
	if cfg.Notification.Gateway == "webhook" {
		return pushgateway.NewWebhookGateway(cfg.Notification.WebhookURL, cfg.Notification.WebhookSecret, 10*time.Second)
	}
	return pushgateway.NewLogGateway(slog.Default())
}
