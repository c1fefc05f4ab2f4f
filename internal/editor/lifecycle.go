package editor

import (
	"context"
	"fmt"

	"github.com/campmap/campmap/internal/model"
)

// AddCommand places a new module on the map. Its inverse is removal.
type AddCommand struct {
	store  *Store
	module model.Module
}

// NewAddCommand creates an add command for a fully specified module.
func NewAddCommand(store *Store, m model.Module) *AddCommand {
	return &AddCommand{store: store, module: m}
}

// Description returns a human-readable description.
func (c *AddCommand) Description() string {
	return fmt.Sprintf("Add %s", displayName(c.module, c.module.ID))
}

// CanExecute requires a valid ID that is not already on the map.
func (c *AddCommand) CanExecute() bool {
	if c.module.ID == "" {
		return false
	}
	_, exists := c.store.Module(c.module.ID)
	return !exists
}

// Execute places the module.
func (c *AddCommand) Execute(ctx context.Context) error {
	return c.store.AddModule(ctx, c.module)
}

// Undo removes the module again.
func (c *AddCommand) Undo(ctx context.Context) error {
	return c.store.RemoveModules(ctx, c.module.ID)
}

// DeleteCommand removes a set of modules. Every target is snapshotted in
// full before removal so undo restores the exact entities.
type DeleteCommand struct {
	store     *Store
	ids       []model.ModuleID
	snapshots []model.Module
}

// NewDeleteCommand creates a delete command over a target set.
func NewDeleteCommand(store *Store, ids ...model.ModuleID) *DeleteCommand {
	return &DeleteCommand{store: store, ids: ids}
}

// Description returns a human-readable description.
func (c *DeleteCommand) Description() string {
	if len(c.ids) == 1 {
		m, _ := c.store.Module(c.ids[0])
		return fmt.Sprintf("Delete %s", displayName(m, c.ids[0]))
	}
	return fmt.Sprintf("Delete %d modules", len(c.ids))
}

// CanExecute requires every target to exist and be unlocked. A partial
// match fails the whole command.
func (c *DeleteCommand) CanExecute() bool {
	if len(c.ids) == 0 {
		return false
	}
	for _, id := range c.ids {
		m, ok := c.store.Module(id)
		if !ok || m.Locked {
			return false
		}
	}
	return true
}

// Execute snapshots every target, then removes them.
func (c *DeleteCommand) Execute(ctx context.Context) error {
	c.snapshots = c.snapshots[:0]
	for _, id := range c.ids {
		m, ok := c.store.Module(id)
		if !ok {
			return fmt.Errorf("delete %s: %w", id, ErrModuleNotFound)
		}
		c.snapshots = append(c.snapshots, m)
	}
	return c.store.RemoveModules(ctx, c.ids...)
}

// Undo re-adds the snapshotted modules.
func (c *DeleteCommand) Undo(ctx context.Context) error {
	for _, snap := range c.snapshots {
		if err := c.store.AddModule(ctx, snap); err != nil {
			return fmt.Errorf("restore %s: %w", snap.ID, err)
		}
	}
	return nil
}
