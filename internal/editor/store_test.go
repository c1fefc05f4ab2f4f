package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/campmap/campmap/internal/event"
	"github.com/campmap/campmap/internal/event/events"
	"github.com/campmap/campmap/internal/model"
)

func newTestStore(t *testing.T) (*Store, *event.Bus) {
	t.Helper()
	bus := event.NewBus()
	t.Cleanup(bus.Close)
	return NewStore(bus, "map-1", zerolog.Nop()), bus
}

func placed(id string, x, y, w, h float64) model.Module {
	return model.Module{
		ID:       model.ModuleID(id),
		Name:     id,
		Kind:     model.KindPitch,
		Position: model.Position{X: x, Y: y},
		Size:     model.Size{Width: w, Height: h},
		Visible:  true,
	}
}

// recordTopics subscribes a recorder to a set of topics.
func recordTopics(t *testing.T, bus *event.Bus, topics ...event.Topic) *[]event.Topic {
	t.Helper()
	var seen []event.Topic
	for _, topic := range topics {
		if _, err := bus.OnFunc(topic, func(_ context.Context, p event.Payload) error {
			seen = append(seen, p.EventTopic())
			return nil
		}); err != nil {
			t.Fatalf("subscribe %s: %v", topic, err)
		}
	}
	return &seen
}

func TestStoreMutationsEmitCatalogEvents(t *testing.T) {
	store, bus := newTestStore(t)
	ctx := context.Background()

	seen := recordTopics(t, bus,
		events.TopicModuleAdd,
		events.TopicModuleMove,
		events.TopicModuleResize,
		events.TopicModuleRotate,
		events.TopicModuleDelete,
	)

	if err := store.AddModule(ctx, placed("p1", 0, 0, 10, 5)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.SetPosition(ctx, "p1", model.Position{X: 4, Y: 2}); err != nil {
		t.Fatalf("move: %v", err)
	}
	if err := store.SetSize(ctx, "p1", model.Size{Width: 12, Height: 6}); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if err := store.SetRotation(ctx, "p1", 90); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if err := store.RemoveModules(ctx, "p1"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	want := []event.Topic{
		events.TopicModuleAdd,
		events.TopicModuleMove,
		events.TopicModuleResize,
		events.TopicModuleRotate,
		events.TopicModuleDelete,
	}
	if len(*seen) != len(want) {
		t.Fatalf("expected %d events, got %v", len(want), *seen)
	}
	for i := range want {
		if (*seen)[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], (*seen)[i])
		}
	}
}

func TestStoreAddDuplicate(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.AddModule(ctx, placed("p1", 0, 0, 10, 5)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.AddModule(ctx, placed("p1", 1, 1, 10, 5)); !errors.Is(err, ErrModuleExists) {
		t.Errorf("expected ErrModuleExists, got %v", err)
	}
}

func TestStoreRemoveMissingIsAtomic(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_ = store.AddModule(ctx, placed("p1", 0, 0, 10, 5))

	err := store.RemoveModules(ctx, "p1", "ghost")
	if !errors.Is(err, ErrModuleNotFound) {
		t.Fatalf("expected ErrModuleNotFound, got %v", err)
	}
	if _, ok := store.Module("p1"); !ok {
		t.Error("partial removal: p1 should survive a failed batch remove")
	}
}

func TestStoreUpdateModule(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_ = store.AddModule(ctx, placed("p1", 0, 0, 10, 5))

	name := "Pitch 12"
	locked := true
	if err := store.UpdateModule(ctx, "p1", model.ModuleUpdates{Name: &name, Locked: &locked}); err != nil {
		t.Fatalf("update: %v", err)
	}

	m, _ := store.Module("p1")
	if m.Name != "Pitch 12" || !m.Locked {
		t.Errorf("update not applied: %+v", m)
	}
	// Untouched fields survive a partial update.
	if m.Size.Width != 10 || m.Position.X != 0 {
		t.Errorf("partial update clobbered other fields: %+v", m)
	}
}

func TestStoreLoadAndSaveMap(t *testing.T) {
	store, bus := newTestStore(t)
	ctx := context.Background()

	seen := recordTopics(t, bus, events.TopicMapLoad, events.TopicMapSave)

	store.LoadMap(ctx, model.Map{
		ID:   "map-2",
		Name: "Riverside",
		Modules: []model.Module{
			placed("b", 5, 5, 4, 4),
			placed("a", 0, 0, 4, 4),
		},
	})

	if store.MapID() != "map-2" {
		t.Errorf("expected map-2, got %s", store.MapID())
	}
	if store.ModuleCount() != 2 {
		t.Errorf("expected 2 modules, got %d", store.ModuleCount())
	}

	snap := store.SaveMap(ctx)
	if snap.Name != "Riverside" || len(snap.Modules) != 2 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if snap.Modules[0].ID != "a" || snap.Modules[1].ID != "b" {
		t.Errorf("expected modules ordered by ID, got %v", snap.Modules)
	}

	if len(*seen) != 2 || (*seen)[0] != events.TopicMapLoad || (*seen)[1] != events.TopicMapSave {
		t.Errorf("unexpected events: %v", *seen)
	}
}

func TestStoreWatch(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	var changes []Change
	cancel := store.Watch(func(c Change) { changes = append(changes, c) })

	_ = store.AddModule(ctx, placed("p1", 0, 0, 10, 5))
	if len(changes) != 1 || changes[0].Topic != events.TopicModuleAdd {
		t.Fatalf("expected one add change, got %v", changes)
	}

	cancel()
	_ = store.SetPosition(ctx, "p1", model.Position{X: 1})
	if len(changes) != 1 {
		t.Errorf("cancelled watcher still notified: %v", changes)
	}
}
