// Package save persists snapshot envelopes under named slots. The API server
// uses the Postgres store; the CLI falls back to plain files when it runs
// without a database.
package save

import (
	"context"
	"errors"
	"time"

	"mogul/internal/sim"
)

var (
	ErrNotFound    = errors.New("save slot not found")
	ErrInvalidSlot = errors.New("invalid save slot name")
)

// SlotInfo describes a stored save without loading its payload.
type SlotInfo struct {
	Slot    string    `json:"slot"`
	Version int       `json:"version"`
	SavedAt time.Time `json:"saved_at"`
}

type Store interface {
	Save(ctx context.Context, slot string, env sim.Envelope) error
	Load(ctx context.Context, slot string) (sim.Envelope, error)
	List(ctx context.Context) ([]SlotInfo, error)
	Delete(ctx context.Context, slot string) error
}

func validSlot(slot string) bool {
	if slot == "" || len(slot) > 64 {
		return false
	}
	for _, r := range slot {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
