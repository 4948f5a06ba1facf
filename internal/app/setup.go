// Package app contains the application setup for the product service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/abgdnv/productcrud/internal/config"
	"github.com/abgdnv/productcrud/internal/service"
	"github.com/abgdnv/productcrud/internal/store"
	grpcImpl "github.com/abgdnv/productcrud/internal/transport/grpc"
	"github.com/abgdnv/productcrud/internal/transport/rest"
	"github.com/abgdnv/productcrud/pkg/messaging"
	"github.com/abgdnv/productcrud/pkg/server"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
)

type Dependencies struct {
	ProductService service.ProductService
	// Health is set by SetupGrpcServer and must be run alongside the gRPC server.
	Health           *grpcImpl.HealthReporter
	ReadinessChecks  []rest.ReadinessCheck
	ValidationStatus int
	Logger           *slog.Logger
}

// SetupDependencies wires the product service on top of an already opened store.
func SetupDependencies(productStore store.ProductStore, publisher messaging.Publisher, logger *slog.Logger) *Dependencies {
	pService := service.NewService(productStore, publisher)

	return &Dependencies{
		ProductService:   pService,
		ValidationStatus: http.StatusInternalServerError,
		Logger:           logger,
	}
}

// SetupHttpHandler initializes the router and routes for the product service.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the product service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	reporter := rest.NewErrorReporter(deps.Logger, deps.ValidationStatus)
	productHandler := rest.NewHandler(deps.ProductService, reporter, deps.Logger, deps.ReadinessChecks...)
	productHandler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())
}

// SetupHttpServer creates and configures an HTTP server for the product service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	deps.ValidationStatus = cfg.HTTPServer.ValidationStatus
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, "product-http", mux)
}

// SetupGrpcServer initializes the gRPC server exposing the health service.
func SetupGrpcServer(deps *Dependencies, cfg *config.Config) *grpc.Server {
	deps.Health = grpcImpl.NewHealthReporter(deps.ProductService, cfg.GRPC.HealthInterval, deps.Logger)
	return server.NewGRPCServer(deps.Logger, cfg.GRPC.ReflectionEnabled, deps.Health.Register)
}
