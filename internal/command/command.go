package command

import (
	"context"
	"fmt"
	"time"
)

// Command represents a reversible editor action.
type Command interface {
	// Description returns a human-readable description for UI display.
	Description() string

	// CanExecute is a pure, side-effect-free precondition check. It is
	// evaluated before initial execution only; undo and redo assume the
	// command was previously validated.
	CanExecute() bool

	// Execute performs the command.
	Execute(ctx context.Context) error

	// Undo reverses the command.
	Undo(ctx context.Context) error
}

// Grouped is implemented by commands that belong to a named group.
type Grouped interface {
	// GroupID returns the command's group identifier.
	GroupID() string
}

// Metadata accompanies a command in history.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
	GroupID     string    `json:"groupId,omitempty"`
}

// Result reports the outcome of a Bus operation. A declined or failed
// operation has Success false and Err set; a command queued inside an open
// transaction has Success true and Queued true even though it has not run.
type Result struct {
	Success bool
	Queued  bool
	Err     error
}

// ok is the success result.
func ok() Result { return Result{Success: true} }

// queued marks a command accepted into an open transaction.
func queued() Result { return Result{Success: true, Queued: true} }

// fail wraps an error into a failure result.
func fail(err error) Result { return Result{Success: false, Err: err} }

// groupID extracts the optional group identifier from a command.
func groupID(cmd Command) string {
	if g, ok := cmd.(Grouped); ok {
		return g.GroupID()
	}
	return ""
}

// composite wraps an ordered list of member commands into one atomic
// history entry. Execute runs members in enqueue order; Undo runs member
// undos in reverse.
type composite struct {
	group   string
	members []Command
}

func newComposite(group string, members []Command) *composite {
	return &composite{group: group, members: members}
}

// Description returns the group name, or a member count.
func (c *composite) Description() string {
	if c.group != "" {
		return c.group
	}
	if len(c.members) == 1 {
		return c.members[0].Description()
	}
	return fmt.Sprintf("%d operations", len(c.members))
}

// CanExecute returns true; members were validated when they were enqueued.
func (c *composite) CanExecute() bool { return true }

// Execute runs members in enqueue order. On a member failure the already
// executed prefix is undone best-effort so the failed transaction leaves no
// partial mutation behind.
func (c *composite) Execute(ctx context.Context) error {
	for i, cmd := range c.members {
		if err := cmd.Execute(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = c.members[j].Undo(ctx)
			}
			return fmt.Errorf("transaction %q step %d: %w", c.group, i, err)
		}
	}
	return nil
}

// Undo reverses members in reverse enqueue order.
func (c *composite) Undo(ctx context.Context) error {
	for i := len(c.members) - 1; i >= 0; i-- {
		if err := c.members[i].Undo(ctx); err != nil {
			return fmt.Errorf("undo transaction %q step %d: %w", c.group, i, err)
		}
	}
	return nil
}

// GroupID implements Grouped.
func (c *composite) GroupID() string { return c.group }
