package command

import "context"

// History is a narrow facade over Bus for call sites that prefer returned
// errors to result inspection: a failed undo or redo surfaces the error
// carried in the bus result.
type History struct {
	bus *Bus
}

// NewHistory wraps a command bus.
func NewHistory(bus *Bus) *History {
	return &History{bus: bus}
}

// Undo reverses the most recent command, returning the failure carried in
// the bus result, if any.
func (h *History) Undo(ctx context.Context) error {
	if r := h.bus.Undo(ctx); !r.Success {
		return r.Err
	}
	return nil
}

// Redo re-executes the most recently undone command.
func (h *History) Redo(ctx context.Context) error {
	if r := h.bus.Redo(ctx); !r.Success {
		return r.Err
	}
	return nil
}

// CanUndo reports whether undo is available.
func (h *History) CanUndo() bool { return h.bus.CanUndo() }

// CanRedo reports whether redo is available.
func (h *History) CanRedo() bool { return h.bus.CanRedo() }

// UndoDepth returns the undo stack length.
func (h *History) UndoDepth() int { return h.bus.UndoDepth() }

// RedoDepth returns the redo stack length.
func (h *History) RedoDepth() int { return h.bus.RedoDepth() }

// LastCommandDescription peeks the next undo candidate's description.
func (h *History) LastCommandDescription() (string, bool) {
	return h.bus.LastCommandDescription()
}

// NextCommandDescription peeks the next redo candidate's description.
func (h *History) NextCommandDescription() (string, bool) {
	return h.bus.NextCommandDescription()
}

// Clear empties both history stacks.
func (h *History) Clear() { h.bus.Clear() }
