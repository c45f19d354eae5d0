package logging

import (
	"context"
	"testing"
)

func TestWithViewportID(t *testing.T) {
	ctx := context.Background()
	viewportID := "source"

	ctx = WithViewportID(ctx, viewportID)
	got := GetViewportID(ctx)

	if got != viewportID {
		t.Errorf("GetViewportID() = %q, want %q", got, viewportID)
	}
}

func TestWithTranslation(t *testing.T) {
	ctx := context.Background()
	translation := "web"

	ctx = WithTranslation(ctx, translation)
	got := GetTranslation(ctx)

	if got != translation {
		t.Errorf("GetTranslation() = %q, want %q", got, translation)
	}
}

func TestGetViewportID_NotPresent(t *testing.T) {
	ctx := context.Background()
	got := GetViewportID(ctx)

	if got != "" {
		t.Errorf("GetViewportID() = %q, want empty string", got)
	}
}

func TestGetTranslation_NotPresent(t *testing.T) {
	ctx := context.Background()
	got := GetTranslation(ctx)

	if got != "" {
		t.Errorf("GetTranslation() = %q, want empty string", got)
	}
}

func TestBothValues(t *testing.T) {
	ctx := context.Background()
	viewportID := "target"
	translation := "draft"

	ctx = WithViewportID(ctx, viewportID)
	ctx = WithTranslation(ctx, translation)

	if got := GetViewportID(ctx); got != viewportID {
		t.Errorf("GetViewportID() = %q, want %q", got, viewportID)
	}

	if got := GetTranslation(ctx); got != translation {
		t.Errorf("GetTranslation() = %q, want %q", got, translation)
	}
}
