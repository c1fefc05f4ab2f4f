package editor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/campmap/campmap/internal/event"
	"github.com/campmap/campmap/internal/event/events"
	"github.com/campmap/campmap/internal/model"
)

// Store errors.
var (
	// ErrModuleNotFound is returned when a target module does not exist.
	ErrModuleNotFound = errors.New("module not found")

	// ErrModuleExists is returned when adding a module whose ID is taken.
	ErrModuleExists = errors.New("module already exists")
)

// Change describes one store mutation for plain observers.
type Change struct {
	Topic     event.Topic
	ModuleIDs []model.ModuleID
}

// Store holds the session's map state in memory. It is the repository the
// concrete commands mutate; after every mutation it emits the matching
// catalog event on the session bus and notifies registered watchers.
// Locking is a command-level precondition, not enforced here.
type Store struct {
	mu      sync.RWMutex
	mapID   model.MapID
	mapName string
	modules map[model.ModuleID]model.Module

	bus *event.Bus
	log zerolog.Logger

	watcherMu   sync.Mutex
	watchers    map[uint64]func(Change)
	nextWatcher uint64
}

// NewStore creates an empty store bound to a session bus.
func NewStore(bus *event.Bus, mapID model.MapID, logger zerolog.Logger) *Store {
	return &Store{
		mapID:    mapID,
		modules:  make(map[model.ModuleID]model.Module),
		bus:      bus,
		log:      logger,
		watchers: make(map[uint64]func(Change)),
	}
}

// MapID returns the loaded map's identifier.
func (s *Store) MapID() model.MapID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mapID
}

// Module returns a copy of the module with the given ID.
func (s *Store) Module(id model.ModuleID) (model.Module, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.modules[id]
	return m, ok
}

// Modules returns copies of all modules, ordered by ID.
func (s *Store) Modules() []model.Module {
	s.mu.RLock()
	result := make([]model.Module, 0, len(s.modules))
	for _, m := range s.modules {
		result = append(result, m)
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// ModuleCount returns the number of modules on the map.
func (s *Store) ModuleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.modules)
}

// AddModule places a module on the map and emits module:add.
func (s *Store) AddModule(ctx context.Context, m model.Module) error {
	if m.ID == "" {
		return fmt.Errorf("add module: empty ID")
	}

	s.mu.Lock()
	if _, exists := s.modules[m.ID]; exists {
		s.mu.Unlock()
		return fmt.Errorf("add module %s: %w", m.ID, ErrModuleExists)
	}
	m.MapID = s.mapID
	m.UpdatedAt = time.Now()
	s.modules[m.ID] = m
	s.mu.Unlock()

	s.publish(ctx, events.ModuleAdded{Module: m, MapID: s.mapID}, m.ID)
	return nil
}

// RemoveModules removes the given modules and emits module:delete. A
// missing target fails the whole call with nothing removed.
func (s *Store) RemoveModules(ctx context.Context, ids ...model.ModuleID) error {
	s.mu.Lock()
	for _, id := range ids {
		if _, ok := s.modules[id]; !ok {
			s.mu.Unlock()
			return fmt.Errorf("remove module %s: %w", id, ErrModuleNotFound)
		}
	}
	for _, id := range ids {
		delete(s.modules, id)
	}
	s.mu.Unlock()

	s.publish(ctx, events.ModulesDeleted{ModuleIDs: ids, MapID: s.mapID}, ids...)
	return nil
}

// SetPosition moves a module and emits module:move.
func (s *Store) SetPosition(ctx context.Context, id model.ModuleID, pos model.Position) error {
	if err := s.mutate(id, func(m *model.Module) { m.Position = pos }); err != nil {
		return err
	}
	s.publish(ctx, events.ModuleMoved{ModuleID: id, Position: pos}, id)
	return nil
}

// SetSize resizes a module and emits module:resize.
func (s *Store) SetSize(ctx context.Context, id model.ModuleID, size model.Size) error {
	if err := s.mutate(id, func(m *model.Module) { m.Size = size }); err != nil {
		return err
	}
	s.publish(ctx, events.ModuleResized{ModuleID: id, Size: size}, id)
	return nil
}

// SetRotation rotates a module and emits module:rotate.
func (s *Store) SetRotation(ctx context.Context, id model.ModuleID, rotation float64) error {
	if err := s.mutate(id, func(m *model.Module) { m.Rotation = rotation }); err != nil {
		return err
	}
	s.publish(ctx, events.ModuleRotated{ModuleID: id, Rotation: rotation}, id)
	return nil
}

// UpdateModule applies a partial update and emits module:update.
func (s *Store) UpdateModule(ctx context.Context, id model.ModuleID, updates model.ModuleUpdates) error {
	if updates.IsEmpty() {
		return nil
	}
	if err := s.mutate(id, func(m *model.Module) { *m = updates.Apply(*m) }); err != nil {
		return err
	}
	s.publish(ctx, events.ModuleUpdated{ModuleID: id, Updates: updates, MapID: s.mapID}, id)
	return nil
}

// SetLocked locks or unlocks a module.
func (s *Store) SetLocked(ctx context.Context, id model.ModuleID, locked bool) error {
	return s.UpdateModule(ctx, id, model.ModuleUpdates{Locked: &locked})
}

// SetVisible shows or hides a module.
func (s *Store) SetVisible(ctx context.Context, id model.ModuleID, visible bool) error {
	return s.UpdateModule(ctx, id, model.ModuleUpdates{Visible: &visible})
}

// RestoreModule writes a full module snapshot back, inserting it if it was
// removed, and emits module:update with every field set. Bulk-operation
// undo uses this to restore snapshots verbatim.
func (s *Store) RestoreModule(ctx context.Context, snapshot model.Module) error {
	if snapshot.ID == "" {
		return fmt.Errorf("restore module: empty ID")
	}

	s.mu.Lock()
	snapshot.MapID = s.mapID
	snapshot.UpdatedAt = time.Now()
	s.modules[snapshot.ID] = snapshot
	s.mu.Unlock()

	updates := model.ModuleUpdates{
		Name:     &snapshot.Name,
		Position: &snapshot.Position,
		Size:     &snapshot.Size,
		Rotation: &snapshot.Rotation,
		Locked:   &snapshot.Locked,
		Visible:  &snapshot.Visible,
	}
	s.publish(ctx, events.ModuleUpdated{ModuleID: snapshot.ID, Updates: updates, MapID: s.mapID}, snapshot.ID)
	return nil
}

// LoadMap replaces the session state with a map and emits map:load.
func (s *Store) LoadMap(ctx context.Context, m model.Map) {
	s.mu.Lock()
	s.mapID = m.ID
	s.mapName = m.Name
	s.modules = make(map[model.ModuleID]model.Module, len(m.Modules))
	for _, mod := range m.Modules {
		mod.MapID = m.ID
		s.modules[mod.ID] = mod
	}
	s.mu.Unlock()

	s.publish(ctx, events.MapLoaded{MapID: m.ID, Map: m})
}

// SaveMap snapshots the current map and emits map:save.
func (s *Store) SaveMap(ctx context.Context) model.Map {
	s.mu.RLock()
	snapshot := model.Map{
		ID:      s.mapID,
		Name:    s.mapName,
		Modules: make([]model.Module, 0, len(s.modules)),
	}
	for _, m := range s.modules {
		snapshot.Modules = append(snapshot.Modules, m)
	}
	s.mu.RUnlock()

	sort.Slice(snapshot.Modules, func(i, j int) bool {
		return snapshot.Modules[i].ID < snapshot.Modules[j].ID
	})

	s.publish(ctx, events.MapSaved{MapID: snapshot.ID, Success: true})
	return snapshot
}

// Watch registers a plain observer over store mutations. The returned
// function cancels the registration.
func (s *Store) Watch(fn func(Change)) func() {
	s.watcherMu.Lock()
	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[id] = fn
	s.watcherMu.Unlock()

	return func() {
		s.watcherMu.Lock()
		delete(s.watchers, id)
		s.watcherMu.Unlock()
	}
}

// mutate applies fn to a module under the write lock and stamps UpdatedAt.
func (s *Store) mutate(id model.ModuleID, fn func(*model.Module)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.modules[id]
	if !ok {
		return fmt.Errorf("module %s: %w", id, ErrModuleNotFound)
	}
	fn(&m)
	m.UpdatedAt = time.Now()
	s.modules[id] = m
	return nil
}

// publish emits the catalog event for a completed mutation and notifies
// watchers. Runs outside the store lock so handlers can read back.
func (s *Store) publish(ctx context.Context, p event.Payload, ids ...model.ModuleID) {
	if err := s.bus.Emit(ctx, p); err != nil {
		s.log.Warn().Str("topic", string(p.EventTopic())).Err(err).Msg("event emission failed")
	}

	s.watcherMu.Lock()
	fns := make([]func(Change), 0, len(s.watchers))
	for _, fn := range s.watchers {
		fns = append(fns, fn)
	}
	s.watcherMu.Unlock()

	change := Change{Topic: p.EventTopic(), ModuleIDs: ids}
	for _, fn := range fns {
		fn(change)
	}
}
