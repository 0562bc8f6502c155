// Package server wires the battle runtime and gRPC lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/skirmish/internal/battle/catalog"
	"github.com/louisbranch/skirmish/internal/platform/config"
	platformgrpc "github.com/louisbranch/skirmish/internal/platform/grpc"
	battleservice "github.com/louisbranch/skirmish/internal/services/battle/api/grpc/battle"
	battlesqlite "github.com/louisbranch/skirmish/internal/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

type serverEnv struct {
	DBPath      string `env:"SKIRMISH_BATTLE_DB_PATH"`
	CatalogPath string `env:"SKIRMISH_CATALOG_PATH"`
}

func loadServerEnv() (serverEnv, error) {
	var cfg serverEnv
	if err := config.ParseEnv(&cfg); err != nil {
		return serverEnv{}, err
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "battles.db")
	}
	return cfg, nil
}

// Server hosts the battle gRPC API and storage lifecycle.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	store      *battlesqlite.Store
	logger     *log.Logger
}

// New creates a configured battle server listening on the provided port.
func New(port int) (*Server, error) {
	return NewWithAddr(fmt.Sprintf(":%d", port))
}

// NewWithAddr creates a configured battle server for the provided address.
func NewWithAddr(addr string) (*Server, error) {
	env, err := loadServerEnv()
	if err != nil {
		return nil, err
	}
	cat, err := loadCatalog(env.CatalogPath)
	if err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	store, err := openBattleStore(env.DBPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	logger := log.Default()
	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	battleservice.RegisterBattleServiceServer(grpcServer, battleservice.NewService(store, cat, battleservice.WithLogger(logger)))
	healthServer := platformgrpc.RegisterHealth(grpcServer, battleservice.ServiceName)

	return &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		store:      store,
		logger:     logger,
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a battle server until context cancellation.
func Run(ctx context.Context, port int) error {
	server, err := New(port)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// RunWithAddr creates and serves a battle server on addr until context
// cancellation.
func RunWithAddr(ctx context.Context, addr string) error {
	server, err := NewWithAddr(addr)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the gRPC server until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	s.logger.Printf("battle server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		if s.health != nil {
			s.health.Shutdown()
		}
		s.grpcServer.GracefulStop()
		err := <-serveErr
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}
}

// Close releases battle server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Printf("close battle store: %v", err)
		}
		s.store = nil
	}
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return catalog.Default()
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return cat, nil
}

func openBattleStore(path string) (*battlesqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := battlesqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open battle sqlite store: %w", err)
	}
	return store, nil
}
