package editor

import (
	"context"
	"fmt"

	"github.com/campmap/campmap/internal/model"
)

// MoveCommand repositions one module. It stores the positions on both sides
// of the edit so undo is an exact restore.
type MoveCommand struct {
	store *Store
	id    model.ModuleID
	name  string
	from  model.Position
	to    model.Position
}

// NewMoveCommand creates a move command, snapshotting the module's current
// position as the undo target.
func NewMoveCommand(store *Store, id model.ModuleID, to model.Position) *MoveCommand {
	m, _ := store.Module(id)
	return &MoveCommand{
		store: store,
		id:    id,
		name:  displayName(m, id),
		from:  m.Position,
		to:    to,
	}
}

// Description returns a human-readable description.
func (c *MoveCommand) Description() string {
	return fmt.Sprintf("Move %s", c.name)
}

// CanExecute requires the target to exist and be unlocked.
func (c *MoveCommand) CanExecute() bool {
	m, ok := c.store.Module(c.id)
	return ok && !m.Locked
}

// Execute writes the new position.
func (c *MoveCommand) Execute(ctx context.Context) error {
	return c.store.SetPosition(ctx, c.id, c.to)
}

// Undo restores the original position.
func (c *MoveCommand) Undo(ctx context.Context) error {
	return c.store.SetPosition(ctx, c.id, c.from)
}

// ResizeCommand changes one module's size.
type ResizeCommand struct {
	store *Store
	id    model.ModuleID
	name  string
	from  model.Size
	to    model.Size
}

// NewResizeCommand creates a resize command, snapshotting the current size.
func NewResizeCommand(store *Store, id model.ModuleID, to model.Size) *ResizeCommand {
	m, _ := store.Module(id)
	return &ResizeCommand{
		store: store,
		id:    id,
		name:  displayName(m, id),
		from:  m.Size,
		to:    to,
	}
}

// Description returns a human-readable description.
func (c *ResizeCommand) Description() string {
	return fmt.Sprintf("Resize %s", c.name)
}

// CanExecute requires the target to exist and be unlocked.
func (c *ResizeCommand) CanExecute() bool {
	m, ok := c.store.Module(c.id)
	return ok && !m.Locked
}

// Execute writes the new size.
func (c *ResizeCommand) Execute(ctx context.Context) error {
	return c.store.SetSize(ctx, c.id, c.to)
}

// Undo restores the original size.
func (c *ResizeCommand) Undo(ctx context.Context) error {
	return c.store.SetSize(ctx, c.id, c.from)
}

// RotateCommand changes one module's rotation.
type RotateCommand struct {
	store *Store
	id    model.ModuleID
	name  string
	from  float64
	to    float64
}

// NewRotateCommand creates a rotate command, snapshotting the current angle.
func NewRotateCommand(store *Store, id model.ModuleID, to float64) *RotateCommand {
	m, _ := store.Module(id)
	return &RotateCommand{
		store: store,
		id:    id,
		name:  displayName(m, id),
		from:  m.Rotation,
		to:    to,
	}
}

// Description returns a human-readable description.
func (c *RotateCommand) Description() string {
	return fmt.Sprintf("Rotate %s", c.name)
}

// CanExecute requires the target to exist and be unlocked.
func (c *RotateCommand) CanExecute() bool {
	m, ok := c.store.Module(c.id)
	return ok && !m.Locked
}

// Execute writes the new rotation.
func (c *RotateCommand) Execute(ctx context.Context) error {
	return c.store.SetRotation(ctx, c.id, c.to)
}

// Undo restores the original rotation.
func (c *RotateCommand) Undo(ctx context.Context) error {
	return c.store.SetRotation(ctx, c.id, c.from)
}

// displayName prefers the module name over its ID for command descriptions.
func displayName(m model.Module, id model.ModuleID) string {
	if m.Name != "" {
		return m.Name
	}
	return string(id)
}
