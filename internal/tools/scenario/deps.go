package scenario

import (
	"context"

	"github.com/louisbranch/skirmish/internal/battle/engine"
)

// battleDriver runs one battle for a scenario, either in process or over
// gRPC.
type battleDriver interface {
	start(ctx context.Context, sideA, sideB []string, seed uint64) error
	turn(ctx context.Context, intentsA, intentsB []engine.Intent) (turnResult, error)
	snapshot(ctx context.Context) (snapshot, error)
	close() error
}

// runnerDeps bundles injectable dependencies for runner construction.
type runnerDeps struct {
	driver battleDriver
}
