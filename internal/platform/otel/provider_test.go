package otel_test

import (
	"context"
	"testing"

	"github.com/louisbranch/skirmish/internal/platform/otel"
)

func TestSetup_NoopWhenEndpointEmpty(t *testing.T) {
	t.Setenv("SKIRMISH_OTEL_ENDPOINT", "")

	shutdown, err := otel.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_NoopWhenExplicitlyDisabled(t *testing.T) {
	t.Setenv("SKIRMISH_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("SKIRMISH_OTEL_ENABLED", "false")

	shutdown, err := otel.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_RejectsBadEnv(t *testing.T) {
	t.Setenv("SKIRMISH_OTEL_ENABLED", "maybe")

	if _, err := otel.Setup(context.Background(), "test-service"); err == nil {
		t.Fatal("expected env parse error")
	}
}

func TestSetupWithConfig_RejectsSampleRatio(t *testing.T) {
	_, err := otel.SetupWithConfig(context.Background(), "test-service", otel.Config{
		Endpoint:    "http://192.0.2.1:4318",
		Enabled:     true,
		SampleRatio: 2,
	})
	if err == nil {
		t.Fatal("expected sample ratio error")
	}
}

func TestSetupWithConfig_CreatesProviderWhenEndpointSet(t *testing.T) {
	// Non-routable address so nothing is exported.
	shutdown, err := otel.SetupWithConfig(context.Background(), "test-service", otel.Config{
		Endpoint:    "http://192.0.2.1:4318",
		Enabled:     true,
		SampleRatio: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}
