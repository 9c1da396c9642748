package save

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mogul/internal/sim"
)

// PGStore keeps saves in the game_saves table, one row per slot.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) Save(ctx context.Context, slot string, env sim.Envelope) error {
	if !validSlot(slot) {
		return ErrInvalidSlot
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	const q = `
INSERT INTO game_saves (slot, version, saved_at, payload)
VALUES ($1, $2, $3, $4)
ON CONFLICT (slot) DO UPDATE
SET version = EXCLUDED.version, saved_at = EXCLUDED.saved_at, payload = EXCLUDED.payload`
	if _, err := s.pool.Exec(ctx, q, slot, env.Version, env.SavedAt, payload); err != nil {
		return fmt.Errorf("write save %q: %w", slot, err)
	}
	return nil
}

func (s *PGStore) Load(ctx context.Context, slot string) (sim.Envelope, error) {
	if !validSlot(slot) {
		return sim.Envelope{}, ErrInvalidSlot
	}
	var payload []byte
	err := s.pool.QueryRow(ctx, `SELECT payload FROM game_saves WHERE slot = $1`, slot).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return sim.Envelope{}, ErrNotFound
	}
	if err != nil {
		return sim.Envelope{}, fmt.Errorf("read save %q: %w", slot, err)
	}
	var env sim.Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return sim.Envelope{}, fmt.Errorf("decode save %q: %w", slot, err)
	}
	return env, nil
}

func (s *PGStore) List(ctx context.Context) ([]SlotInfo, error) {
	rows, err := s.pool.Query(ctx, `SELECT slot, version, saved_at FROM game_saves ORDER BY slot`)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	var out []SlotInfo
	for rows.Next() {
		var info SlotInfo
		if err := rows.Scan(&info.Slot, &info.Version, &info.SavedAt); err != nil {
			return nil, fmt.Errorf("scan save row: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func (s *PGStore) Delete(ctx context.Context, slot string) error {
	if !validSlot(slot) {
		return ErrInvalidSlot
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM game_saves WHERE slot = $1`, slot)
	if err != nil {
		return fmt.Errorf("delete save %q: %w", slot, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
