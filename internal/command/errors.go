package command

import "errors"

// Sentinel errors for the command bus.
var (
	// ErrNilCommand is returned when Execute is called with nil.
	ErrNilCommand = errors.New("command cannot be nil")

	// ErrNotExecutable marks a declined execution: CanExecute returned
	// false and no state was touched.
	ErrNotExecutable = errors.New("command preconditions not met")

	// ErrNothingToUndo is returned when the undo stack is empty.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo is returned when the redo stack is empty.
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrTransactionOpen is returned when Begin is called while a
	// transaction is already open. Transactions are not reentrant.
	ErrTransactionOpen = errors.New("a transaction is already open")

	// ErrNoTransaction is returned by Commit or Rollback without an
	// open transaction.
	ErrNoTransaction = errors.New("no open transaction")
)
