package otel_test

import (
	"context"
	"testing"

	"github.com/louisbranch/leaguepool/internal/platform/otel"
)

func setupTracing(t *testing.T, endpoint, enabled string) otel.ShutdownFunc {
	t.Helper()
	t.Setenv("LEAGUEPOOL_OTEL_ENDPOINT", endpoint)
	t.Setenv("LEAGUEPOOL_OTEL_ENABLED", enabled)

	shutdown, err := otel.Setup(context.Background(), "treasury-test")
	if err != nil {
		t.Fatalf("setup tracing: %v", err)
	}
	return shutdown
}

func TestSetupIsNoopWithoutEndpoint(t *testing.T) {
	shutdown := setupTracing(t, "", "")
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}
}

func TestSetupHonorsDisableSwitch(t *testing.T) {
	shutdown := setupTracing(t, "http://localhost:4318", "false")
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}
}

func TestSetupInstallsProviderForEndpoint(t *testing.T) {
	// TEST-NET address: spans buffer locally, nothing is exported.
	shutdown := setupTracing(t, "http://192.0.2.1:4318", "")
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown with unreachable endpoint: %v", err)
	}
}

func TestNoopShutdownIgnoresCancelledContext(t *testing.T) {
	shutdown := setupTracing(t, "", "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("noop shutdown with cancelled context: %v", err)
	}
}
