package services

import "context"

type contextKey string

const (
	sessionIDKey contextKey = "session_id"
	machineKey   contextKey = "machine"
)

// WithSessionID annotates context with the launch correlation identifier.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext extracts the launch correlation identifier if present.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sessionIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithMachine annotates context with the machine name an operation targets.
func WithMachine(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, machineKey, name)
}

// MachineFromContext returns the machine name if present.
func MachineFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(machineKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
