package server

import (
	"errors"
	"log/slog"
	"net"

	grpc3 "github.com/mama165/sdk-go/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the name reported by the health service, next to the "" overall status.
const ServiceName = "chat-live"

// AdminServer exposes the standard gRPC health service and reflection for
// probes and operators. Chat traffic never goes through it.
type AdminServer struct {
	log    *slog.Logger
	server *grpc.Server
	health *health.Server
}

func NewAdminServer(log *slog.Logger) *AdminServer {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc3.UnaryLoggingInterceptor(log),
		))
	h := health.NewServer()
	healthpb.RegisterHealthServer(s, h)
	reflection.Register(s)

	h.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	h.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &AdminServer{log: log, server: s, health: h}
}

// SetServing flips both the overall and the named status.
func (a *AdminServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	a.health.SetServingStatus("", status)
	a.health.SetServingStatus(ServiceName, status)
	a.log.Debug("Admin health status changed", "status", status.String())
}

// Serve blocks until GracefulStop is called.
func (a *AdminServer) Serve(listener net.Listener) error {
	for serviceName := range a.server.GetServiceInfo() {
		a.log.Debug("📡 gRPC exposed services", "name", serviceName)
	}
	if err := a.server.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// GracefulStop reports NOT_SERVING to watchers before draining calls.
func (a *AdminServer) GracefulStop() {
	a.health.Shutdown()
	a.server.GracefulStop()
}
