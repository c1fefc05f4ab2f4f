package editor

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/campmap/campmap/internal/command"
	"github.com/campmap/campmap/internal/event"
	"github.com/campmap/campmap/internal/event/events"
	"github.com/campmap/campmap/internal/model"
)

// Options configures a Session.
type Options struct {
	// MapID identifies the map the session starts on.
	MapID model.MapID

	// MaxHistory bounds the undo stack. Zero keeps the default.
	MaxHistory int

	// Logger is the session's base logger.
	Logger zerolog.Logger

	// BusOptions are appended to the session's default event bus
	// configuration, so callers can override intervals, caps, the clock,
	// or instrumentation toggles.
	BusOptions []event.BusOption
}

// Session wires one editing session: one event bus, one command bus with
// its history facade, the module store, and the selection tracker. Sessions
// are independent; none of their state is global or persisted.
type Session struct {
	ID        string
	Events    *event.Bus
	Commands  *command.Bus
	History   *command.History
	Store     *Store
	Selection *Selection

	log zerolog.Logger
}

// NewSession constructs and wires a session.
func NewSession(opts Options) (*Session, error) {
	id := uuid.NewString()
	logger := opts.Logger.With().Str("session", id).Logger()

	busOpts := append([]event.BusOption{
		event.WithBatchedTopics(events.TopicViewportChange),
		event.WithDebouncedTopics(events.TopicModuleValidation),
		event.WithLogger(logger),
	}, opts.BusOptions...)
	bus := event.NewBus(busOpts...)

	cmdOpts := []command.Option{command.WithLogger(logger)}
	if opts.MaxHistory > 0 {
		cmdOpts = append(cmdOpts, command.WithMaxHistory(opts.MaxHistory))
	}
	cmdBus := command.NewBus(cmdOpts...)

	store := NewStore(bus, opts.MapID, logger)

	selection, err := NewSelection(bus)
	if err != nil {
		bus.Close()
		return nil, err
	}

	return &Session{
		ID:        id,
		Events:    bus,
		Commands:  cmdBus,
		History:   command.NewHistory(cmdBus),
		Store:     store,
		Selection: selection,
		log:       logger,
	}, nil
}

// Execute routes a command through the session's command bus.
func (s *Session) Execute(ctx context.Context, cmd command.Command) command.Result {
	return s.Commands.Execute(ctx, cmd)
}

// Undo reverses the most recent command and announces it on the bus.
func (s *Session) Undo(ctx context.Context) error {
	if err := s.History.Undo(ctx); err != nil {
		return err
	}
	_ = s.Events.Emit(ctx, events.HistoryUndone{})
	return nil
}

// Redo re-executes the most recently undone command and announces it.
func (s *Session) Redo(ctx context.Context) error {
	if err := s.History.Redo(ctx); err != nil {
		return err
	}
	_ = s.Events.Emit(ctx, events.HistoryRedone{})
	return nil
}

// Close tears the session down. History and pending coalesced deliveries
// are discarded; nothing survives the session.
func (s *Session) Close() {
	s.Selection.Close()
	s.Events.Close()
	s.log.Debug().Msg("session closed")
}
