package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/genesis-ai-dev/CodexZero-sub001/internal/data/db"
)

// PositionStore persists each viewport's last-known centered index so a
// restart reopens where the translator left off.
type PositionStore struct {
	db *db.DB
}

// NewPositionStore creates a SQLite-backed position store.
func NewPositionStore(database *db.DB) *PositionStore {
	return &PositionStore{db: database}
}

// Save upserts the last-known index for a viewport.
func (s *PositionStore) Save(ctx context.Context, viewportID string, index int) error {
	if err := s.db.Queries().SavePosition(ctx, viewportID, index, time.Now().UnixNano()); err != nil {
		return fmt.Errorf("save position for %q: %w", viewportID, err)
	}
	return nil
}

// Last returns the saved index for a viewport. ok is false when the
// viewport has no saved position.
func (s *PositionStore) Last(ctx context.Context, viewportID string) (int, bool, error) {
	idx, err := s.db.Queries().GetPosition(ctx, viewportID)
	if IsNotFoundError(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("load position for %q: %w", viewportID, err)
	}
	return idx, true, nil
}
