package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func Test_NewHTTPServer(t *testing.T) {
	cfg := HTTPConfig{
		Port:           8080,
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    time.Second,
		WriteTimeout:   2 * time.Second,
		IdleTimeout:    3 * time.Second,
		ReadHeader:     4 * time.Second,
	}

	srv := NewHTTPServer(cfg, "test", http.NotFoundHandler())

	assert.Equal(t, ":8080", srv.Addr)
	assert.Equal(t, 1<<20, srv.MaxHeaderBytes)
	assert.Equal(t, time.Second, srv.ReadTimeout)
	assert.Equal(t, 2*time.Second, srv.WriteTimeout)
	assert.Equal(t, 3*time.Second, srv.IdleTimeout)
	assert.Equal(t, 4*time.Second, srv.ReadHeaderTimeout)
	assert.NotNil(t, srv.Handler)
}

func Test_NewChiRouter_RequestIDAndRecovery(t *testing.T) {
	// given
	mux := NewChiRouter(testLogger())
	var seenReqID string
	mux.Get("/id", func(w http.ResponseWriter, r *http.Request) {
		seenReqID = middleware.GetReqID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	mux.Get("/panic", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	// when
	idRec := httptest.NewRecorder()
	mux.ServeHTTP(idRec, httptest.NewRequest(http.MethodGet, "/id", nil))
	panicRec := httptest.NewRecorder()
	mux.ServeHTTP(panicRec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	// then
	assert.Equal(t, http.StatusOK, idRec.Code)
	assert.NotEmpty(t, seenReqID)
	assert.Equal(t, http.StatusInternalServerError, panicRec.Code)
	assert.JSONEq(t, `{"message":"Internal Server Error"}`, panicRec.Body.String())
}

func Test_NewGRPCServer_RegistersServices(t *testing.T) {
	// given
	healthServer := health.NewServer()
	srv := NewGRPCServer(testLogger(), true, func(s *grpc.Server) {
		grpc_health_v1.RegisterHealthServer(s, healthServer)
	})
	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	// when
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{})

	// then
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.GetStatus())
	_, registered := srv.GetServiceInfo()["grpc.reflection.v1.ServerReflection"]
	assert.True(t, registered)
}
