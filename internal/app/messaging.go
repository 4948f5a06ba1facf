package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/abgdnv/productcrud/internal/transport/rest"
	"github.com/abgdnv/productcrud/pkg/config"
	"github.com/abgdnv/productcrud/pkg/messaging"
	pkgnats "github.com/abgdnv/productcrud/pkg/nats"
	"github.com/nats-io/nats.go"
)

var errNatsDisconnected = errors.New("nats connection is not established")

// SetupPublisher connects to NATS JetStream when configured and returns the event
// publisher, a readiness check for the connection and a close function.
// Without a NATS url events are dropped.
func SetupPublisher(ctx context.Context, cfg config.NATSConfig, logger *slog.Logger) (messaging.Publisher, []rest.ReadinessCheck, func(), error) {
	if !cfg.Enabled() {
		logger.Info("NATS is not configured, product events are disabled")
		return messaging.NoopPublisher{}, nil, func() {}, nil
	}

	nc, err := pkgnats.NewClient(cfg.Url, cfg.Timeout)
	if err != nil {
		return nil, nil, nil, err
	}
	js, err := pkgnats.NewJetStreamContext(nc)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := pkgnats.EnsureStream(ctx, js, cfg.Stream, messaging.ProductsSubjects); err != nil {
		nc.Close()
		return nil, nil, nil, err
	}
	logger.Info("Successfully connected to NATS", "stream", cfg.Stream)

	check := rest.ReadinessCheck{
		Name: "nats",
		Check: func(context.Context) error {
			if nc.Status() != nats.CONNECTED {
				return errNatsDisconnected
			}
			return nil
		},
	}
	closeFn := func() {
		if err := nc.Drain(); err != nil {
			logger.Error("Failed to drain NATS connection", "error", err)
		}
	}
	return pkgnats.NewNatsPublisher(js), []rest.ReadinessCheck{check}, closeFn, nil
}
