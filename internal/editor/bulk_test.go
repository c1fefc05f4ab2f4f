package editor

import (
	"context"
	"testing"

	"github.com/campmap/campmap/internal/command"
	"github.com/campmap/campmap/internal/model"
)

func TestBulkLockAndUnlock(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	bus := command.NewBus()

	_ = store.AddModule(ctx, placed("a", 0, 0, 5, 5))
	_ = store.AddModule(ctx, placed("b", 10, 0, 5, 5))

	if r := bus.Execute(ctx, NewBulkCommand(store, BulkLock, "a", "b")); !r.Success {
		t.Fatalf("lock: %v", r.Err)
	}
	for _, id := range []model.ModuleID{"a", "b"} {
		if m, _ := store.Module(id); !m.Locked {
			t.Errorf("%s not locked", id)
		}
	}

	if r := bus.Undo(ctx); !r.Success {
		t.Fatalf("undo: %v", r.Err)
	}
	for _, id := range []model.ModuleID{"a", "b"} {
		if m, _ := store.Module(id); m.Locked {
			t.Errorf("%s still locked after undo", id)
		}
	}
}

func TestBulkHideAndShow(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	bus := command.NewBus()

	_ = store.AddModule(ctx, placed("a", 0, 0, 5, 5))

	if r := bus.Execute(ctx, NewBulkCommand(store, BulkHide, "a")); !r.Success {
		t.Fatalf("hide: %v", r.Err)
	}
	if m, _ := store.Module("a"); m.Visible {
		t.Error("module still visible")
	}

	if r := bus.Execute(ctx, NewBulkCommand(store, BulkShow, "a")); !r.Success {
		t.Fatalf("show: %v", r.Err)
	}
	if m, _ := store.Module("a"); !m.Visible {
		t.Error("module still hidden")
	}
}

func TestAlignRight(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	bus := command.NewBus()

	_ = store.AddModule(ctx, placed("a", 0, 0, 10, 5))
	_ = store.AddModule(ctx, placed("b", 50, 10, 10, 5))
	_ = store.AddModule(ctx, placed("c", 100, 20, 10, 5))

	if r := bus.Execute(ctx, NewAlignCommand(store, AlignRight, "a", "b", "c")); !r.Success {
		t.Fatalf("align: %v", r.Err)
	}

	// All right edges land on the rightmost member's right edge, 110.
	for _, id := range []model.ModuleID{"a", "b", "c"} {
		m, _ := store.Module(id)
		if m.Right() != 110 {
			t.Errorf("%s right edge: expected 110, got %v", id, m.Right())
		}
	}
	// Vertical positions are untouched by a horizontal align.
	if m, _ := store.Module("b"); m.Position.Y != 10 {
		t.Errorf("align right moved b vertically to %v", m.Position.Y)
	}

	if r := bus.Undo(ctx); !r.Success {
		t.Fatalf("undo: %v", r.Err)
	}
	for id, wantX := range map[model.ModuleID]float64{"a": 0, "b": 50, "c": 100} {
		m, _ := store.Module(id)
		if m.Position.X != wantX {
			t.Errorf("%s: expected x %v after undo, got %v", id, wantX, m.Position.X)
		}
	}
}

func TestAlignLeftTopBottomCenter(t *testing.T) {
	cases := []struct {
		anchor AlignAnchor
		check  func(m model.Module) float64
		want   float64
	}{
		{AlignLeft, func(m model.Module) float64 { return m.Left() }, 0},
		{AlignTop, func(m model.Module) float64 { return m.Top() }, 0},
		{AlignBottom, func(m model.Module) float64 { return m.Bottom() }, 25},
		{AlignCenter, func(m model.Module) float64 { return m.Left() + m.Size.Width/2 }, 30},
	}

	for _, tc := range cases {
		t.Run(string(tc.anchor), func(t *testing.T) {
			store, _ := newTestStore(t)
			ctx := context.Background()
			bus := command.NewBus()

			_ = store.AddModule(ctx, placed("a", 0, 0, 10, 5))
			_ = store.AddModule(ctx, placed("b", 50, 20, 10, 5))

			if r := bus.Execute(ctx, NewAlignCommand(store, tc.anchor, "a", "b")); !r.Success {
				t.Fatalf("align: %v", r.Err)
			}
			for _, id := range []model.ModuleID{"a", "b"} {
				m, _ := store.Module(id)
				if got := tc.check(m); got != tc.want {
					t.Errorf("%s: expected %v, got %v", id, tc.want, got)
				}
			}
		})
	}
}

func TestAlignWithFewerThanTwoTargetsIsNoop(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	bus := command.NewBus()

	_ = store.AddModule(ctx, placed("a", 7, 7, 5, 5))

	// "ghost" does not resolve, leaving one member: nothing to align to.
	if r := bus.Execute(ctx, NewAlignCommand(store, AlignLeft, "a", "ghost")); !r.Success {
		t.Fatalf("align: %v", r.Err)
	}
	if m, _ := store.Module("a"); m.Position.X != 7 {
		t.Errorf("single resolvable target moved to %v", m.Position.X)
	}
}

func TestBulkSkipsUnresolvedTargets(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	bus := command.NewBus()

	_ = store.AddModule(ctx, placed("a", 0, 0, 5, 5))

	if r := bus.Execute(ctx, NewBulkCommand(store, BulkLock, "a", "ghost")); !r.Success {
		t.Fatalf("lock: %v", r.Err)
	}
	if m, _ := store.Module("a"); !m.Locked {
		t.Error("resolvable target not locked")
	}
}

func TestBulkCommandPreconditions(t *testing.T) {
	store, _ := newTestStore(t)

	if NewBulkCommand(store, BulkLock).CanExecute() {
		t.Error("empty target set must decline")
	}
	if NewBulkCommand(store, BulkOp("defragment"), "a").CanExecute() {
		t.Error("unknown operation must decline")
	}
	if NewAlignCommand(store, AlignAnchor("diagonal"), "a").CanExecute() {
		t.Error("unknown anchor must decline")
	}
}

func TestBulkUndoRestoresPriorLockState(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	bus := command.NewBus()

	pre := placed("a", 0, 0, 5, 5)
	pre.Locked = true
	_ = store.AddModule(ctx, pre)
	_ = store.AddModule(ctx, placed("b", 10, 0, 5, 5))

	if r := bus.Execute(ctx, NewBulkCommand(store, BulkUnlock, "a", "b")); !r.Success {
		t.Fatalf("unlock: %v", r.Err)
	}
	if r := bus.Undo(ctx); !r.Success {
		t.Fatalf("undo: %v", r.Err)
	}

	// Undo restores each member's own prior state, not a uniform one.
	if m, _ := store.Module("a"); !m.Locked {
		t.Error("a should be locked again")
	}
	if m, _ := store.Module("b"); m.Locked {
		t.Error("b was never locked")
	}
}
