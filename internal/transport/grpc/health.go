// Package grpc exposes the product service health over the gRPC health protocol.
package grpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name under which the product API reports its health.
const ServiceName = "product.v1.ProductService"

// Pinger is satisfied by the product service and its stores.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthReporter keeps the gRPC health status in sync with the store.
type HealthReporter struct {
	server   *health.Server
	pinger   Pinger
	interval time.Duration
	logger   *slog.Logger
}

// NewHealthReporter creates a reporter probing pinger every interval.
func NewHealthReporter(pinger Pinger, interval time.Duration, logger *slog.Logger) *HealthReporter {
	return &HealthReporter{
		server:   health.NewServer(),
		pinger:   pinger,
		interval: interval,
		logger:   logger.With("component", "grpc_health"),
	}
}

// Register adds the health service to s.
func (h *HealthReporter) Register(s *grpc.Server) {
	grpc_health_v1.RegisterHealthServer(s, h.server)
}

// Run probes the store until ctx is done, then marks every service NOT_SERVING.
func (h *HealthReporter) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.probe(ctx)
	for {
		select {
		case <-ctx.Done():
			h.server.Shutdown()
			return nil
		case <-ticker.C:
			h.probe(ctx)
		}
	}
}

func (h *HealthReporter) probe(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, h.interval)
	defer cancel()

	status := grpc_health_v1.HealthCheckResponse_SERVING
	if err := h.pinger.Ping(pingCtx); err != nil {
		if ctx.Err() != nil {
			return
		}
		h.logger.WarnContext(ctx, "Store ping failed", "error", err)
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(ServiceName, status)
}
