package services

import "context"

type contextKey int

const (
	stageKey contextKey = iota
	modeKey
	requestIDKey
)

// WithStage records the import stage (sniff, convert, load, ...) for log
// fields. Empty values leave ctx unchanged.
func WithStage(ctx context.Context, stage string) context.Context {
	return withString(ctx, stageKey, stage)
}

func StageFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, stageKey)
}

// WithMode records the conversion strategy being attempted.
func WithMode(ctx context.Context, mode string) context.Context {
	return withString(ctx, modeKey, mode)
}

func ModeFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, modeKey)
}

// WithRequestID records the run id so every log line of one import can be
// correlated with its history entry.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withString(ctx, requestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, requestIDKey)
}

func withString(ctx context.Context, key contextKey, value string) context.Context {
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func stringFrom(ctx context.Context, key contextKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(key).(string)
	return v, ok && v != ""
}
