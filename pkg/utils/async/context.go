package async

import "context"

type contextKey string

const (
	syncModeKey contextKey = "async-sync-mode"
)

// WithSyncMode returns a new context with sync mode enabled.
// Dispatch runs handlers synchronously under it, for tests and for short-lived processes.
func WithSyncMode(ctx context.Context) context.Context {
	return context.WithValue(ctx, syncModeKey, true)
}

// isSyncMode checks if sync mode is enabled in the context
func isSyncMode(ctx context.Context) bool {
	if v, ok := ctx.Value(syncModeKey).(bool); ok {
		return v
	}
	return false
}
