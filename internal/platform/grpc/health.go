package grpc

import (
	"context"
	"fmt"
	"time"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	healthCheckTimeout = time.Second
	healthBackoffStart = 200 * time.Millisecond
	healthBackoffMax   = time.Second
)

// RegisterHealth registers a health server on s and marks the overall server
// and each named service as SERVING.
func RegisterHealth(s *gogrpc.Server, services ...string) *health.Server {
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(s, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	for _, service := range services {
		healthServer.SetServingStatus(service, grpc_health_v1.HealthCheckResponse_SERVING)
	}
	return healthServer
}

// WaitForHealth blocks until the gRPC health check reports SERVING or the context ends.
func WaitForHealth(ctx context.Context, conn *gogrpc.ClientConn, service string, logf func(string, ...any)) error {
	if conn == nil {
		return fmt.Errorf("gRPC connection is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}

	healthClient := grpc_health_v1.NewHealthClient(conn)
	backoff := healthBackoffStart
	for {
		callCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
		response, err := healthClient.Check(callCtx, &grpc_health_v1.HealthCheckRequest{Service: service})
		cancel()
		switch {
		case err == nil && response.GetStatus() == grpc_health_v1.HealthCheckResponse_SERVING:
			logf("gRPC health check for %q is SERVING", service)
			return nil
		case err != nil:
			logf("waiting for gRPC health: %v", err)
		default:
			logf("waiting for gRPC health: status %s", response.GetStatus().String())
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for gRPC health: %w", ctx.Err())
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, healthBackoffMax)
	}
}
