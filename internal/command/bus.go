package command

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// entry pairs a command with its history metadata.
type entry struct {
	cmd  Command
	meta Metadata
}

// Bus executes commands and maintains undo/redo history. One Bus lives for
// the duration of one editor session; history is not persisted.
//
// The Bus serializes its own bookkeeping but does not serialize overlapping
// Execute calls from independent UI affordances; callers are expected to
// await each call before issuing the next.
type Bus struct {
	mu   sync.Mutex
	undo []entry
	redo []entry

	// Transaction state: at most one open transaction per Bus.
	txOpen  bool
	txGroup string
	txCmds  []Command

	maxHistory int
	log        zerolog.Logger
}

// Option configures a Bus.
type Option func(*Bus)

// WithMaxHistory bounds the undo stack; the oldest entry is evicted once
// the bound is exceeded.
func WithMaxHistory(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.maxHistory = n
		}
	}
}

// WithLogger sets the bus logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Bus) {
		b.log = logger
	}
}

// NewBus creates a command bus with the given options.
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		maxHistory: 100,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Execute runs a command and records it in history. A command whose
// preconditions fail is declined without any state change. While a
// transaction is open the command is queued instead of run, and the result
// reports Queued. A command that errors is treated as never having
// happened: both stacks are left untouched.
func (b *Bus) Execute(ctx context.Context, cmd Command) Result {
	if cmd == nil {
		return fail(ErrNilCommand)
	}
	if !cmd.CanExecute() {
		return fail(ErrNotExecutable)
	}

	b.mu.Lock()
	if b.txOpen {
		b.txCmds = append(b.txCmds, cmd)
		b.mu.Unlock()
		b.log.Debug().Str("command", cmd.Description()).Str("group", b.txGroup).Msg("command queued in transaction")
		return queued()
	}
	b.mu.Unlock()

	if err := cmd.Execute(ctx); err != nil {
		b.log.Warn().Str("command", cmd.Description()).Err(err).Msg("command failed")
		return fail(err)
	}

	b.push(cmd)
	b.log.Debug().Str("command", cmd.Description()).Msg("command executed")
	return ok()
}

// push records an executed command, clears the redo stack, and evicts the
// oldest entry past the history bound.
func (b *Bus) push(cmd Command) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.undo = append(b.undo, entry{
		cmd: cmd,
		meta: Metadata{
			Timestamp:   time.Now(),
			Description: cmd.Description(),
			GroupID:     groupID(cmd),
		},
	})
	b.redo = nil

	if len(b.undo) > b.maxHistory {
		b.undo = b.undo[len(b.undo)-b.maxHistory:]
	}
}

// Undo reverses the most recent command and moves it to the redo stack.
// On failure the popped entry is not restored; the error is carried in the
// result and the entry is lost.
func (b *Bus) Undo(ctx context.Context) Result {
	b.mu.Lock()
	if len(b.undo) == 0 {
		b.mu.Unlock()
		return fail(ErrNothingToUndo)
	}
	e := b.undo[len(b.undo)-1]
	b.undo = b.undo[:len(b.undo)-1]
	b.mu.Unlock()

	if err := e.cmd.Undo(ctx); err != nil {
		b.log.Warn().Str("command", e.meta.Description).Err(err).Msg("undo failed")
		return fail(err)
	}

	b.mu.Lock()
	b.redo = append(b.redo, e)
	b.mu.Unlock()

	b.log.Debug().Str("command", e.meta.Description).Msg("command undone")
	return ok()
}

// Redo re-executes the most recently undone command and moves it back to
// the undo stack. On failure the popped entry is not restored.
func (b *Bus) Redo(ctx context.Context) Result {
	b.mu.Lock()
	if len(b.redo) == 0 {
		b.mu.Unlock()
		return fail(ErrNothingToRedo)
	}
	e := b.redo[len(b.redo)-1]
	b.redo = b.redo[:len(b.redo)-1]
	b.mu.Unlock()

	if err := e.cmd.Execute(ctx); err != nil {
		b.log.Warn().Str("command", e.meta.Description).Err(err).Msg("redo failed")
		return fail(err)
	}

	b.mu.Lock()
	b.undo = append(b.undo, e)
	b.mu.Unlock()

	b.log.Debug().Str("command", e.meta.Description).Msg("command redone")
	return ok()
}

// Begin opens a transaction. Commands executed until Commit are queued
// under the group without running. Opening a second transaction while one
// is active is a programmer error.
func (b *Bus) Begin(group string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.txOpen {
		return ErrTransactionOpen
	}
	b.txOpen = true
	b.txGroup = group
	b.txCmds = nil
	return nil
}

// Commit closes the open transaction and runs its queue as one composite
// command through the normal Execute path, so it lands as a single
// undo-able history entry. An empty transaction commits to nothing.
func (b *Bus) Commit(ctx context.Context) Result {
	b.mu.Lock()
	if !b.txOpen {
		b.mu.Unlock()
		return fail(ErrNoTransaction)
	}
	group := b.txGroup
	cmds := b.txCmds
	b.txOpen = false
	b.txGroup = ""
	b.txCmds = nil
	b.mu.Unlock()

	if len(cmds) == 0 {
		return ok()
	}
	return b.Execute(ctx, newComposite(group, cmds))
}

// Rollback discards the open transaction's queue. None of the queued
// commands were executed, so none are undone.
func (b *Bus) Rollback() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.txOpen {
		return ErrNoTransaction
	}
	b.txOpen = false
	b.txGroup = ""
	b.txCmds = nil
	return nil
}

// InTransaction reports whether a transaction is open.
func (b *Bus) InTransaction() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.txOpen
}

// CanUndo reports whether the undo stack is non-empty.
func (b *Bus) CanUndo() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.undo) > 0
}

// CanRedo reports whether the redo stack is non-empty.
func (b *Bus) CanRedo() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.redo) > 0
}

// UndoDepth returns the undo stack length.
func (b *Bus) UndoDepth() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.undo)
}

// RedoDepth returns the redo stack length.
func (b *Bus) RedoDepth() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.redo)
}

// LastCommandDescription peeks the top of the undo stack for UI display.
func (b *Bus) LastCommandDescription() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.undo) == 0 {
		return "", false
	}
	return b.undo[len(b.undo)-1].meta.Description, true
}

// NextCommandDescription peeks the top of the redo stack for UI display.
func (b *Bus) NextCommandDescription() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.redo) == 0 {
		return "", false
	}
	return b.redo[len(b.redo)-1].meta.Description, true
}

// UndoEntries returns metadata for the undo stack, oldest first.
func (b *Bus) UndoEntries() []Metadata {
	b.mu.Lock()
	defer b.mu.Unlock()

	result := make([]Metadata, len(b.undo))
	for i, e := range b.undo {
		result[i] = e.meta
	}
	return result
}

// RedoEntries returns metadata for the redo stack, oldest first.
func (b *Bus) RedoEntries() []Metadata {
	b.mu.Lock()
	defer b.mu.Unlock()

	result := make([]Metadata, len(b.redo))
	for i, e := range b.redo {
		result[i] = e.meta
	}
	return result
}

// Clear empties both stacks. This is a hard reset: in-flight state is not
// undone.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.undo = nil
	b.redo = nil
}
