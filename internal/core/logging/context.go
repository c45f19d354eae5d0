package logging

import "context"

type contextKey string

const (
	viewportIDKey  contextKey = "viewport_id"
	translationKey contextKey = "translation"
)

// WithViewportID adds a viewport ID to the context.
func WithViewportID(ctx context.Context, viewportID string) context.Context {
	return context.WithValue(ctx, viewportIDKey, viewportID)
}

// WithTranslation adds a translation identifier to the context.
func WithTranslation(ctx context.Context, translation string) context.Context {
	return context.WithValue(ctx, translationKey, translation)
}

// GetViewportID retrieves the viewport ID from the context.
// Returns empty string if not present.
func GetViewportID(ctx context.Context) string {
	if id, ok := ctx.Value(viewportIDKey).(string); ok {
		return id
	}
	return ""
}

// GetTranslation retrieves the translation identifier from the context.
// Returns empty string if not present.
func GetTranslation(ctx context.Context) string {
	if id, ok := ctx.Value(translationKey).(string); ok {
		return id
	}
	return ""
}
