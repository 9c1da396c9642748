package save

import (
	"context"
	"errors"
	"testing"

	"mogul/internal/sim"
)

func testEnvelope(t *testing.T) sim.Envelope {
	t.Helper()
	e := sim.New(sim.Config{Seed: 7})
	return e.Snapshot()
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()
	env := testEnvelope(t)

	if err := store.Save(ctx, "campaign-1", env); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load(ctx, "campaign-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Version != env.Version || got.Manager.Week != env.Manager.Week {
		t.Fatalf("loaded envelope mismatch: %+v", got)
	}
	if len(got.Manager.Talent) != len(env.Manager.Talent) {
		t.Fatalf("talent count %d != %d", len(got.Manager.Talent), len(env.Manager.Talent))
	}
}

func TestFileStoreListAndDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()
	env := testEnvelope(t)

	for _, slot := range []string{"beta", "alpha"} {
		if err := store.Save(ctx, slot, env); err != nil {
			t.Fatalf("Save %s: %v", slot, err)
		}
	}
	infos, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 || infos[0].Slot != "alpha" || infos[1].Slot != "beta" {
		t.Fatalf("List = %+v", infos)
	}

	if err := store.Delete(ctx, "alpha"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load(ctx, "alpha"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load after delete = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, "alpha"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double Delete = %v, want ErrNotFound", err)
	}
}

func TestFileStoreRejectsBadSlots(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()
	env := testEnvelope(t)

	for _, slot := range []string{"", "has space", "../escape", "UPPER"} {
		if err := store.Save(ctx, slot, env); !errors.Is(err, ErrInvalidSlot) {
			t.Fatalf("Save(%q) = %v, want ErrInvalidSlot", slot, err)
		}
	}
}
