package server

import (
	"context"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-storefront/pkg/httpjson"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const ServiceName = "storefront"

// Pinger is satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health tracks row store reachability and reports it over gRPC health and
// GET /healthz.
type Health struct {
	srv    *health.Server
	db     Pinger
	logger logger.ZapLogger
}

func NewHealth(db Pinger, log logger.ZapLogger) *Health {
	srv := health.NewServer()
	srv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	srv.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return &Health{srv: srv, db: db, logger: log}
}

// Check pings the database once and updates the serving status.
func (h *Health) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	st := healthpb.HealthCheckResponse_SERVING
	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn("database ping failed", zap.Error(err))
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.srv.SetServingStatus("", st)
	h.srv.SetServingStatus(ServiceName, st)
	return st == healthpb.HealthCheckResponse_SERVING
}

// Watch checks every interval until ctx is done.
func (h *Health) Watch(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}

func (h *Health) Shutdown() {
	h.srv.Shutdown()
}

func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp, err := h.srv.Check(r.Context(), &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	code := http.StatusOK
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		code = http.StatusServiceUnavailable
	}
	httpjson.Write(w, code, map[string]string{"status": resp.GetStatus().String()})
}

// NewGRPCServer exposes the health service with reflection for ops tooling.
func NewGRPCServer(h *Health) *grpc.Server {
	s := grpc.NewServer()
	healthpb.RegisterHealthServer(s, h.srv)
	reflection.Register(s)
	return s
}
