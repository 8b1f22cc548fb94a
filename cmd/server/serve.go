package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"scaffold-backend/internal/auth"
	"scaffold-backend/internal/cache"
	"scaffold-backend/internal/config"
	"scaffold-backend/internal/handlers"
	"scaffold-backend/internal/health"
	router "scaffold-backend/internal/http"
	"scaffold-backend/internal/logging"
	"scaffold-backend/internal/middleware"
	"scaffold-backend/internal/monitoring"
	"scaffold-backend/internal/rental"
	"scaffold-backend/internal/repositories"
	"scaffold-backend/internal/services"
	"scaffold-backend/internal/storage"
)

func newServeCommand() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the ops server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Server.Port = port
			}
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "server port (overrides config)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	log := logging.For("main")

	pool, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	// Redis is optional; every cache helper degrades to a miss
	if err := cache.Init(cfg); err != nil {
		log.WithError(err).Warn("Redis cache unavailable, continuing without cache")
	}
	defer cache.Close()

	files, err := storage.NewS3Store(ctx, cfg)
	if err != nil {
		return err
	}
	if err := files.Ping(ctx); err != nil {
		log.WithError(err).Warn("Object storage unreachable, uploads will fail until it recovers")
	}

	healthChecker := health.NewHealthChecker(pool, files)
	ops := monitoring.NewMonitoringServer(healthChecker, cfg.Monitoring.Port)
	go func() {
		if err := ops.Start(ctx); err != nil {
			log.WithError(err).Error("Monitoring server stopped")
		}
	}()

	jwtManager := auth.NewJWTManager(cfg)

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	customerRepo := repositories.NewCustomerRepository(pool)
	equipmentRepo := repositories.NewEquipmentRepository(pool)
	contractRepo := repositories.NewContractRepository(pool)
	attachmentRepo := repositories.NewAttachmentRepository(pool)

	// Services
	policy := rental.SigningPolicy{AllowResign: cfg.Signing.AllowResign, AllowTerminal: cfg.Signing.AllowTerminal}
	userService := services.NewUserService(userRepo, jwtManager)
	customerService := services.NewCustomerService(customerRepo)
	equipmentService := services.NewEquipmentService(equipmentRepo)
	contractService := services.NewContractService(contractRepo, equipmentRepo, files, ops)
	paymentService := services.NewPaymentService(contractRepo, files, ops)
	attachmentService := services.NewAttachmentService(attachmentRepo, contractRepo, files, ops)
	signatureService := services.NewSignatureService(contractRepo, files, jwtManager, policy, cfg.Server.PublicURL, ops)
	reportService := services.NewReportService(contractService, customerRepo)

	collector := services.NewMetricsCollector(contractService, time.Minute)
	collector.Start()
	defer collector.Stop()

	r := router.NewRouter(router.Handlers{
		Auth:       handlers.NewAuthHandler(userService),
		User:       handlers.NewUserHandler(userService),
		Customer:   handlers.NewCustomerHandler(customerService),
		Equipment:  handlers.NewEquipmentHandler(equipmentService),
		Contract:   handlers.NewContractHandler(contractService),
		Payment:    handlers.NewPaymentHandler(paymentService),
		Attachment: handlers.NewAttachmentHandler(attachmentService),
		Signature:  handlers.NewSignatureHandler(signatureService),
		Report:     handlers.NewReportHandler(reportService),
		Health:     handlers.NewHealthHandler(healthChecker),
	}, middleware.NewAuthMiddleware(jwtManager, userRepo))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           middleware.NewCORS(cfg)(r),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("Server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
