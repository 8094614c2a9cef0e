package services_test

import (
	"context"
	"testing"

	"vdesk/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithSessionID(ctx, "sess-123")
	ctx = services.WithMachine(ctx, "alpha")

	if id, ok := services.SessionIDFromContext(ctx); !ok || id != "sess-123" {
		t.Fatalf("unexpected session id: %v %v", id, ok)
	}
	if name, ok := services.MachineFromContext(ctx); !ok || name != "alpha" {
		t.Fatalf("unexpected machine: %v %v", name, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithMachine(ctx, "")
	ctx = services.WithSessionID(ctx, "")
	if _, ok := services.MachineFromContext(ctx); ok {
		t.Fatal("expected no machine value")
	}
	if _, ok := services.SessionIDFromContext(ctx); ok {
		t.Fatal("expected no session id value")
	}
}
