package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextHook_Run(t *testing.T) {
	tests := []struct {
		name      string
		setupCtx  func() context.Context
		wantKeys  []string
		wantEmpty []string
	}{
		{
			name: "both viewport_id and translation",
			setupCtx: func() context.Context {
				ctx := context.Background()
				ctx = WithViewportID(ctx, "source")
				ctx = WithTranslation(ctx, "web")
				return ctx
			},
			wantKeys: []string{"viewport_id", "translation"},
		},
		{
			name: "only viewport_id",
			setupCtx: func() context.Context {
				return WithViewportID(context.Background(), "source")
			},
			wantKeys:  []string{"viewport_id"},
			wantEmpty: []string{"translation"},
		},
		{
			name: "only translation",
			setupCtx: func() context.Context {
				return WithTranslation(context.Background(), "web")
			},
			wantKeys:  []string{"translation"},
			wantEmpty: []string{"viewport_id"},
		},
		{
			name:      "no context values",
			setupCtx:  context.Background,
			wantEmpty: []string{"viewport_id", "translation"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := tt.setupCtx()

			logger := zerolog.New(&buf).Hook(ContextHook{})
			logger.Info().Ctx(ctx).Msg("test")

			var logEntry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				t.Fatalf("failed to parse log: %v", err)
			}

			for _, key := range tt.wantKeys {
				if _, ok := logEntry[key]; !ok {
					t.Errorf("expected %s to be present in log", key)
				}
			}

			for _, key := range tt.wantEmpty {
				if _, ok := logEntry[key]; ok {
					t.Errorf("expected %s to be absent from log", key)
				}
			}
		})
	}
}
