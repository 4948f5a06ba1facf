package grpc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

// mockPinger fails while healthy is false.
type mockPinger struct {
	healthy atomic.Bool
}

func (m *mockPinger) Ping(context.Context) error {
	if m.healthy.Load() {
		return nil
	}
	return errors.New("store unreachable")
}

func startHealthServer(t *testing.T, reporter *HealthReporter) grpc_health_v1.HealthClient {
	t.Helper()
	srv := grpc.NewServer()
	reporter.Register(srv)
	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return grpc_health_v1.NewHealthClient(conn)
}

func checkStatus(t *testing.T, client grpc_health_v1.HealthClient) grpc_health_v1.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	resp, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return grpc_health_v1.HealthCheckResponse_UNKNOWN
	}
	return resp.GetStatus()
}

func Test_HealthReporter_FollowsStore(t *testing.T) {
	// given
	pinger := &mockPinger{}
	pinger.healthy.Store(true)
	reporter := NewHealthReporter(pinger, 20*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
	client := startHealthServer(t, reporter)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- reporter.Run(ctx) }()

	// then
	assert.Eventually(t, func() bool {
		return checkStatus(t, client) == grpc_health_v1.HealthCheckResponse_SERVING
	}, 2*time.Second, 10*time.Millisecond)

	// when the store goes away
	pinger.healthy.Store(false)
	assert.Eventually(t, func() bool {
		return checkStatus(t, client) == grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}, 2*time.Second, 10*time.Millisecond)

	// when the store comes back
	pinger.healthy.Store(true)
	assert.Eventually(t, func() bool {
		return checkStatus(t, client) == grpc_health_v1.HealthCheckResponse_SERVING
	}, 2*time.Second, 10*time.Millisecond)

	// when shutting down
	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, checkStatus(t, client))
}
