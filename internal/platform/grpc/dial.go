// Package grpc holds client and server helpers shared by skirmish gRPC
// services and their callers.
package grpc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Dialer describes the gRPC dial behavior used by helpers.
type Dialer interface {
	DialContext(ctx context.Context, addr string, opts ...gogrpc.DialOption) (*gogrpc.ClientConn, error)
}

// DialerFunc adapts a dial function to the Dialer interface.
type DialerFunc func(ctx context.Context, addr string, opts ...gogrpc.DialOption) (*gogrpc.ClientConn, error)

// DialContext implements Dialer for DialerFunc.
func (fn DialerFunc) DialContext(ctx context.Context, addr string, opts ...gogrpc.DialOption) (*gogrpc.ClientConn, error) {
	return fn(ctx, addr, opts...)
}

// newClientDialer creates lazy connections; readiness is left to the health
// check.
var newClientDialer = DialerFunc(func(_ context.Context, addr string, opts ...gogrpc.DialOption) (*gogrpc.ClientConn, error) {
	return gogrpc.NewClient(addr, opts...)
})

// DialStage describes where a dial attempt failed.
type DialStage string

const (
	// DialStageConnect indicates a dial connection failure.
	DialStageConnect DialStage = "connect"
	// DialStageHealth indicates the health check failed.
	DialStageHealth DialStage = "health"
)

// DialError wraps dial and health check failures with a stage indicator.
type DialError struct {
	Stage DialStage
	Err   error
}

// Error implements the error interface.
func (e *DialError) Error() string {
	if e == nil {
		return "gRPC dial error"
	}
	return fmt.Sprintf("gRPC %s error: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *DialError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DialConfig describes one health-checked client connection.
type DialConfig struct {
	Addr string
	// Service is the health service name to wait for. Empty checks the
	// server as a whole.
	Service string
	// Timeout bounds both connecting and the health wait. Zero leaves the
	// caller's context in charge.
	Timeout time.Duration
	Dialer  Dialer
	Logf    func(string, ...any)
	Options []gogrpc.DialOption
}

// DefaultClientDialOptions returns standard dial options for in-process clients.
// Includes OTel gRPC interceptors so that every outbound call propagates trace
// context automatically when a TracerProvider is registered.
func DefaultClientDialOptions() []gogrpc.DialOption {
	return []gogrpc.DialOption{
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}
}

// Dial connects to cfg.Addr and waits for the health check to serve.
// It closes the connection if the health check fails.
func Dial(ctx context.Context, cfg DialConfig) (*gogrpc.ClientConn, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, &DialError{Stage: DialStageConnect, Err: errors.New("address is required")}
	}
	dialer := cfg.Dialer
	if dialer == nil {
		dialer = newClientDialer
	}
	opts := cfg.Options
	if len(opts) == 0 {
		opts = DefaultClientDialOptions()
	}

	dialCtx := ctx
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	conn, err := dialer.DialContext(dialCtx, cfg.Addr, opts...)
	if err != nil {
		return nil, &DialError{Stage: DialStageConnect, Err: err}
	}
	if err := WaitForHealth(dialCtx, conn, cfg.Service, cfg.Logf); err != nil {
		_ = conn.Close()
		return nil, &DialError{Stage: DialStageHealth, Err: err}
	}
	return conn, nil
}
