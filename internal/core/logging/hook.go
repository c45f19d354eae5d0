package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts viewport_id and translation from context and adds them to log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if viewportID := GetViewportID(ctx); viewportID != "" {
		e.Str("viewport_id", viewportID)
	}

	if translation := GetTranslation(ctx); translation != "" {
		e.Str("translation", translation)
	}
}
