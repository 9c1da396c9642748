package save

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mogul/internal/sim"
)

// FileStore keeps one JSON file per slot under a directory. It backs the
// offline CLI, which has no database to talk to.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(slot string) string {
	return filepath.Join(s.dir, slot+".json")
}

func (s *FileStore) Save(_ context.Context, slot string, env sim.Envelope) error {
	if !validSlot(slot) {
		return ErrInvalidSlot
	}
	payload, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	tmp := s.path(slot) + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write save %q: %w", slot, err)
	}
	if err := os.Rename(tmp, s.path(slot)); err != nil {
		return fmt.Errorf("commit save %q: %w", slot, err)
	}
	return nil
}

func (s *FileStore) Load(_ context.Context, slot string) (sim.Envelope, error) {
	if !validSlot(slot) {
		return sim.Envelope{}, ErrInvalidSlot
	}
	payload, err := os.ReadFile(s.path(slot))
	if errors.Is(err, fs.ErrNotExist) {
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

func (s *FileStore) List(_ context.Context) ([]SlotInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	var out []SlotInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		slot := strings.TrimSuffix(name, ".json")
		if !validSlot(slot) {
			continue
		}
		payload, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			continue
		}
		var env sim.Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			continue
		}
		out = append(out, SlotInfo{Slot: slot, Version: env.Version, SavedAt: env.SavedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out, nil
}

func (s *FileStore) Delete(_ context.Context, slot string) error {
	if !validSlot(slot) {
		return ErrInvalidSlot
	}
	err := os.Remove(s.path(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}
