package events

import (
	"github.com/campmap/campmap/internal/event"
	"github.com/campmap/campmap/internal/model"
)

// Module event topics.
const (
	// TopicModuleSelect is published when a module is picked in the UI.
	TopicModuleSelect event.Topic = "module:select"

	// TopicModuleMove is published after a module's position changes.
	TopicModuleMove event.Topic = "module:move"

	// TopicModuleResize is published after a module's size changes.
	TopicModuleResize event.Topic = "module:resize"

	// TopicModuleRotate is published after a module's rotation changes.
	TopicModuleRotate event.Topic = "module:rotate"

	// TopicModuleAdd is published after a module is placed on a map.
	TopicModuleAdd event.Topic = "module:add"

	// TopicModuleDelete is published after modules are removed from a map.
	TopicModuleDelete event.Topic = "module:delete"

	// TopicModuleUpdate is published after a partial module update.
	TopicModuleUpdate event.Topic = "module:update"

	// TopicModuleValidation is published when validation results change.
	TopicModuleValidation event.Topic = "module:validation"
)

// ModuleSelected is published when a module is picked in the UI.
type ModuleSelected struct {
	ModuleID    model.ModuleID `json:"moduleId"`
	MultiSelect bool           `json:"multiSelect"`
}

// EventTopic implements event.Payload.
func (ModuleSelected) EventTopic() event.Topic { return TopicModuleSelect }

// ModuleMoved is published after a module's position changes.
type ModuleMoved struct {
	ModuleID model.ModuleID `json:"moduleId"`
	Position model.Position `json:"position"`
}

// EventTopic implements event.Payload.
func (ModuleMoved) EventTopic() event.Topic { return TopicModuleMove }

// ModuleResized is published after a module's size changes.
type ModuleResized struct {
	ModuleID model.ModuleID `json:"moduleId"`
	Size     model.Size     `json:"size"`
}

// EventTopic implements event.Payload.
func (ModuleResized) EventTopic() event.Topic { return TopicModuleResize }

// ModuleRotated is published after a module's rotation changes.
type ModuleRotated struct {
	ModuleID model.ModuleID `json:"moduleId"`
	Rotation float64        `json:"rotation"`
}

// EventTopic implements event.Payload.
func (ModuleRotated) EventTopic() event.Topic { return TopicModuleRotate }

// ModuleAdded is published after a module is placed on a map.
type ModuleAdded struct {
	Module model.Module `json:"module"`
	MapID  model.MapID  `json:"mapId"`
}

// EventTopic implements event.Payload.
func (ModuleAdded) EventTopic() event.Topic { return TopicModuleAdd }

// ModulesDeleted is published after modules are removed from a map.
type ModulesDeleted struct {
	ModuleIDs []model.ModuleID `json:"moduleIds"`
	MapID     model.MapID      `json:"mapId"`
}

// EventTopic implements event.Payload.
func (ModulesDeleted) EventTopic() event.Topic { return TopicModuleDelete }

// ModuleUpdated is published after a partial module update.
type ModuleUpdated struct {
	ModuleID model.ModuleID      `json:"moduleId"`
	Updates  model.ModuleUpdates `json:"updates"`
	MapID    model.MapID         `json:"mapId"`
}

// EventTopic implements event.Payload.
func (ModuleUpdated) EventTopic() event.Topic { return TopicModuleUpdate }

// ModuleValidated is published when validation results change.
type ModuleValidated struct {
	ModuleID model.ModuleID `json:"moduleId"`
	IsValid  bool           `json:"isValid"`
	Errors   []string       `json:"errors,omitempty"`
}

// EventTopic implements event.Payload.
func (ModuleValidated) EventTopic() event.Topic { return TopicModuleValidation }
