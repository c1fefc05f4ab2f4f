package events

import (
	"github.com/campmap/campmap/internal/event"
	"github.com/campmap/campmap/internal/model"
)

// Editor-surface event topics.
const (
	// TopicSelectionChange is published when the selected set changes.
	TopicSelectionChange event.Topic = "selection:change"

	// TopicSelectionClear is published when the selection is emptied.
	TopicSelectionClear event.Topic = "selection:clear"

	// TopicToolChange is published when the active tool switches.
	TopicToolChange event.Topic = "tool:change"

	// TopicViewportChange is published on pan/zoom. It is a batched topic:
	// rapid emissions coalesce to the newest payload per window.
	TopicViewportChange event.Topic = "viewport:change"

	// TopicHistoryUndo is published after a successful undo.
	TopicHistoryUndo event.Topic = "history:undo"

	// TopicHistoryRedo is published after a successful redo.
	TopicHistoryRedo event.Topic = "history:redo"

	// TopicGridToggle is published when the grid overlay toggles.
	TopicGridToggle event.Topic = "grid:toggle"

	// TopicRulerToggle is published when the rulers toggle.
	TopicRulerToggle event.Topic = "ruler:toggle"

	// TopicSnapToGridToggle is published when grid snapping toggles.
	TopicSnapToGridToggle event.Topic = "snap-to-grid:toggle"
)

// SelectionChanged is published when the selected set changes.
type SelectionChanged struct {
	SelectedModuleIDs []model.ModuleID `json:"selectedModuleIds"`
}

// EventTopic implements event.Payload.
func (SelectionChanged) EventTopic() event.Topic { return TopicSelectionChange }

// SelectionCleared is published when the selection is emptied.
type SelectionCleared struct{}

// EventTopic implements event.Payload.
func (SelectionCleared) EventTopic() event.Topic { return TopicSelectionClear }

// ToolChanged is published when the active tool switches.
type ToolChanged struct {
	Tool model.Tool `json:"tool"`
}

// EventTopic implements event.Payload.
func (ToolChanged) EventTopic() event.Topic { return TopicToolChange }

// ViewportChanged is published on pan/zoom.
type ViewportChanged struct {
	Zoom     float64        `json:"zoom"`
	Position model.Position `json:"position"`
}

// EventTopic implements event.Payload.
func (ViewportChanged) EventTopic() event.Topic { return TopicViewportChange }

// HistoryUndone is published after a successful undo.
type HistoryUndone struct{}

// EventTopic implements event.Payload.
func (HistoryUndone) EventTopic() event.Topic { return TopicHistoryUndo }

// HistoryRedone is published after a successful redo.
type HistoryRedone struct{}

// EventTopic implements event.Payload.
func (HistoryRedone) EventTopic() event.Topic { return TopicHistoryRedo }

// GridToggled is published when the grid overlay toggles.
type GridToggled struct {
	Enabled bool `json:"enabled"`
}

// EventTopic implements event.Payload.
func (GridToggled) EventTopic() event.Topic { return TopicGridToggle }

// RulerToggled is published when the rulers toggle.
type RulerToggled struct {
	Enabled bool `json:"enabled"`
}

// EventTopic implements event.Payload.
func (RulerToggled) EventTopic() event.Topic { return TopicRulerToggle }

// SnapToGridToggled is published when grid snapping toggles.
type SnapToGridToggled struct {
	Enabled bool `json:"enabled"`
}

// EventTopic implements event.Payload.
func (SnapToGridToggled) EventTopic() event.Topic { return TopicSnapToGridToggle }
