package editor

import (
	"context"
	"sync"

	"github.com/campmap/campmap/internal/event"
	"github.com/campmap/campmap/internal/event/events"
	"github.com/campmap/campmap/internal/model"
)

// Selection tracks the selected module set. It is a bus consumer: deleted
// modules fall out of the selection, and a map load clears it.
type Selection struct {
	mu  sync.Mutex
	bus *event.Bus
	ids []model.ModuleID

	subs []*event.Subscription
}

// NewSelection creates a selection tracker subscribed to the session bus.
func NewSelection(bus *event.Bus) (*Selection, error) {
	s := &Selection{bus: bus}

	onDelete, err := bus.OnFunc(events.TopicModuleDelete, func(ctx context.Context, p event.Payload) error {
		if deleted, ok := p.(events.ModulesDeleted); ok {
			s.drop(ctx, deleted.ModuleIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.subs = append(s.subs, onDelete)

	onLoad, err := bus.OnFunc(events.TopicMapLoad, func(ctx context.Context, _ event.Payload) error {
		s.mu.Lock()
		s.ids = nil
		s.mu.Unlock()
		return nil
	})
	if err != nil {
		_ = bus.Off(onDelete)
		return nil, err
	}
	s.subs = append(s.subs, onLoad)

	return s, nil
}

// Select adds a module to the selection, or replaces it when multiSelect is
// false, emitting module:select and selection:change.
func (s *Selection) Select(ctx context.Context, id model.ModuleID, multiSelect bool) {
	s.mu.Lock()
	if !multiSelect {
		s.ids = s.ids[:0]
	}
	if !s.contains(id) {
		s.ids = append(s.ids, id)
	}
	current := s.snapshot()
	s.mu.Unlock()

	_ = s.bus.Emit(ctx, events.ModuleSelected{ModuleID: id, MultiSelect: multiSelect})
	_ = s.bus.Emit(ctx, events.SelectionChanged{SelectedModuleIDs: current})
}

// Clear empties the selection and emits selection:clear.
func (s *Selection) Clear(ctx context.Context) {
	s.mu.Lock()
	s.ids = nil
	s.mu.Unlock()

	_ = s.bus.Emit(ctx, events.SelectionCleared{})
}

// Selected returns the selected module IDs in selection order.
func (s *Selection) Selected() []model.ModuleID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Close removes the tracker's bus subscriptions.
func (s *Selection) Close() {
	for _, sub := range s.subs {
		_ = s.bus.Off(sub)
	}
	s.subs = nil
}

// drop removes deleted modules from the selection, emitting
// selection:change if anything fell out.
func (s *Selection) drop(ctx context.Context, deleted []model.ModuleID) {
	gone := make(map[model.ModuleID]struct{}, len(deleted))
	for _, id := range deleted {
		gone[id] = struct{}{}
	}

	s.mu.Lock()
	kept := s.ids[:0]
	for _, id := range s.ids {
		if _, ok := gone[id]; !ok {
			kept = append(kept, id)
		}
	}
	changed := len(kept) != len(s.ids)
	s.ids = kept
	current := s.snapshot()
	s.mu.Unlock()

	if changed {
		_ = s.bus.Emit(ctx, events.SelectionChanged{SelectedModuleIDs: current})
	}
}

func (s *Selection) contains(id model.ModuleID) bool {
	for _, existing := range s.ids {
		if existing == id {
			return true
		}
	}
	return false
}

func (s *Selection) snapshot() []model.ModuleID {
	result := make([]model.ModuleID, len(s.ids))
	copy(result, s.ids)
	return result
}
