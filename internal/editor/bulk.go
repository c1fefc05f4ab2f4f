package editor

import (
	"context"
	"fmt"

	"github.com/campmap/campmap/internal/model"
)

// BulkOp enumerates the operations BulkCommand covers.
type BulkOp string

// Bulk operations.
const (
	BulkLock   BulkOp = "lock"
	BulkUnlock BulkOp = "unlock"
	BulkShow   BulkOp = "show"
	BulkHide   BulkOp = "hide"
	BulkAlign  BulkOp = "align"
)

// AlignAnchor selects the edge or axis modules are aligned to.
type AlignAnchor string

// Align anchors.
const (
	AlignLeft   AlignAnchor = "left"
	AlignRight  AlignAnchor = "right"
	AlignCenter AlignAnchor = "center"
	AlignTop    AlignAnchor = "top"
	AlignBottom AlignAnchor = "bottom"
)

// BulkCommand applies one operation to a set of modules. Before applying,
// it snapshots every currently-resolvable target in full; undo restores the
// snapshots verbatim instead of replaying an inverse transform, which stays
// correct even when the forward operation is not trivially invertible.
type BulkCommand struct {
	store     *Store
	op        BulkOp
	anchor    AlignAnchor
	ids       []model.ModuleID
	snapshots []model.Module
}

// NewBulkCommand creates a lock/unlock/show/hide bulk command.
func NewBulkCommand(store *Store, op BulkOp, ids ...model.ModuleID) *BulkCommand {
	return &BulkCommand{store: store, op: op, ids: ids}
}

// NewAlignCommand creates an align bulk command for the given anchor.
func NewAlignCommand(store *Store, anchor AlignAnchor, ids ...model.ModuleID) *BulkCommand {
	return &BulkCommand{store: store, op: BulkAlign, anchor: anchor, ids: ids}
}

// Description returns a human-readable description.
func (c *BulkCommand) Description() string {
	if c.op == BulkAlign {
		return fmt.Sprintf("Align %d modules %s", len(c.ids), c.anchor)
	}
	return fmt.Sprintf("%s %d modules", describeOp(c.op), len(c.ids))
}

// CanExecute requires a non-empty target set and a known operation.
func (c *BulkCommand) CanExecute() bool {
	if len(c.ids) == 0 {
		return false
	}
	switch c.op {
	case BulkLock, BulkUnlock, BulkShow, BulkHide:
		return true
	case BulkAlign:
		switch c.anchor {
		case AlignLeft, AlignRight, AlignCenter, AlignTop, AlignBottom:
			return true
		}
	}
	return false
}

// Execute snapshots resolvable targets, then applies the operation to them.
// Targets that no longer resolve are skipped.
func (c *BulkCommand) Execute(ctx context.Context) error {
	resolved := make([]model.Module, 0, len(c.ids))
	for _, id := range c.ids {
		if m, ok := c.store.Module(id); ok {
			resolved = append(resolved, m)
		}
	}
	c.snapshots = resolved

	switch c.op {
	case BulkLock, BulkUnlock:
		locked := c.op == BulkLock
		for _, m := range resolved {
			if err := c.store.SetLocked(ctx, m.ID, locked); err != nil {
				return err
			}
		}
	case BulkShow, BulkHide:
		visible := c.op == BulkShow
		for _, m := range resolved {
			if err := c.store.SetVisible(ctx, m.ID, visible); err != nil {
				return err
			}
		}
	case BulkAlign:
		return c.align(ctx, resolved)
	default:
		return fmt.Errorf("unknown bulk operation %q", c.op)
	}
	return nil
}

// align repositions every resolved member relative to one coordinate
// computed from the set's bounding extents. With fewer than two resolved
// targets it is a no-op.
func (c *BulkCommand) align(ctx context.Context, resolved []model.Module) error {
	if len(resolved) < 2 {
		return nil
	}

	target := alignTarget(c.anchor, resolved)

	for _, m := range resolved {
		pos := m.Position
		switch c.anchor {
		case AlignLeft:
			pos.X = target
		case AlignRight:
			// Far edge lands exactly on the target.
			pos.X = target - m.Size.Width
		case AlignCenter:
			pos.X = target - m.Size.Width/2
		case AlignTop:
			pos.Y = target
		case AlignBottom:
			pos.Y = target - m.Size.Height
		}
		if err := c.store.SetPosition(ctx, m.ID, pos); err != nil {
			return err
		}
	}
	return nil
}

// alignTarget computes the scalar target coordinate from bounding extents.
func alignTarget(anchor AlignAnchor, modules []model.Module) float64 {
	minLeft, maxRight := modules[0].Left(), modules[0].Right()
	minTop, maxBottom := modules[0].Top(), modules[0].Bottom()
	for _, m := range modules[1:] {
		if m.Left() < minLeft {
			minLeft = m.Left()
		}
		if m.Right() > maxRight {
			maxRight = m.Right()
		}
		if m.Top() < minTop {
			minTop = m.Top()
		}
		if m.Bottom() > maxBottom {
			maxBottom = m.Bottom()
		}
	}

	switch anchor {
	case AlignLeft:
		return minLeft
	case AlignRight:
		return maxRight
	case AlignCenter:
		return (minLeft + maxRight) / 2
	case AlignTop:
		return minTop
	default:
		return maxBottom
	}
}

// Undo restores every snapshot verbatim.
func (c *BulkCommand) Undo(ctx context.Context) error {
	for _, snap := range c.snapshots {
		if err := c.store.RestoreModule(ctx, snap); err != nil {
			return fmt.Errorf("restore %s: %w", snap.ID, err)
		}
	}
	return nil
}

func describeOp(op BulkOp) string {
	switch op {
	case BulkLock:
		return "Lock"
	case BulkUnlock:
		return "Unlock"
	case BulkShow:
		return "Show"
	case BulkHide:
		return "Hide"
	default:
		return string(op)
	}
}
