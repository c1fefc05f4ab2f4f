package events

import (
	"github.com/campmap/campmap/internal/event"
	"github.com/campmap/campmap/internal/model"
)

// Map lifecycle topics.
const (
	// TopicMapLoad is published after a map is loaded into the session.
	TopicMapLoad event.Topic = "map:load"

	// TopicMapSave is published after a save attempt completes.
	TopicMapSave event.Topic = "map:save"
)

// MapLoaded is published after a map is loaded into the session.
type MapLoaded struct {
	MapID model.MapID `json:"mapId"`
	Map   model.Map   `json:"map"`
}

// EventTopic implements event.Payload.
func (MapLoaded) EventTopic() event.Topic { return TopicMapLoad }

// MapSaved is published after a save attempt completes.
type MapSaved struct {
	MapID   model.MapID `json:"mapId"`
	Success bool        `json:"success"`
}

// EventTopic implements event.Payload.
func (MapSaved) EventTopic() event.Topic { return TopicMapSave }
