// Package command provides the editor's reversible command layer: the
// Command contract, a Bus maintaining undo/redo history with transactional
// grouping, and an error-returning History facade for call sites that
// prefer conventional error handling over result inspection.
//
// # Commands
//
// A Command is a self-contained, reversible unit of UI-driven state
// mutation. Concrete commands are immutable once constructed and carry
// exactly the before/after values they need to reverse themselves.
// CanExecute is a pure precondition check evaluated before initial
// execution; undo and redo assume the command was previously validated.
//
// # History
//
// Executing a command pushes it onto the undo stack and clears the redo
// stack. The undo stack is bounded: the oldest entry is evicted once the
// bound is exceeded. Undo and redo move entries between the two stacks.
//
// # Transactions
//
// Commands executed between Begin and Commit are queued, not run. Commit
// wraps the queue into a composite command that executes members in order
// and undoes them in reverse, pushed as a single history entry. Rollback
// discards the queue; nothing was executed, so nothing is undone.
//
// # Error styles
//
// The Bus never panics on command failure: declined execution and thrown
// errors both surface as a Result. The History facade converts failed
// results back into returned errors.
package command
