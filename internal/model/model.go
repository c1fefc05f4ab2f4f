// Package model defines the campsite map entities shared by the editor core,
// the event catalog, and external consumers. It is a pure data contract with
// no behavior beyond value helpers.
package model

import "time"

// MapID uniquely identifies a campsite map.
type MapID string

// ModuleID uniquely identifies a module placed on a map.
type ModuleID string

// Position is a module's top-left corner in map coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a module's bounding-box dimensions in map units.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ModuleKind is the closed set of module subtypes a map can contain.
type ModuleKind string

// Module kinds.
const (
	KindPitch    ModuleKind = "pitch"
	KindCabin    ModuleKind = "cabin"
	KindSanitary ModuleKind = "sanitary"
	KindRoad     ModuleKind = "road"
	KindWater    ModuleKind = "water"
	KindPower    ModuleKind = "power"
	KindAmenity  ModuleKind = "amenity"
)

// Module is a placeable element on a campsite map: a pitch, a cabin, a
// sanitary block, and so on.
type Module struct {
	ID       ModuleID   `json:"id"`
	MapID    MapID      `json:"mapId"`
	Name     string     `json:"name"`
	Kind     ModuleKind `json:"kind"`
	Position Position   `json:"position"`
	Size     Size       `json:"size"`
	Rotation float64    `json:"rotation"`
	Locked   bool       `json:"locked"`
	Visible  bool       `json:"visible"`

	// UpdatedAt is stamped on every mutation.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Left returns the module's left edge.
func (m Module) Left() float64 { return m.Position.X }

// Right returns the module's right edge.
func (m Module) Right() float64 { return m.Position.X + m.Size.Width }

// Top returns the module's top edge.
func (m Module) Top() float64 { return m.Position.Y }

// Bottom returns the module's bottom edge.
func (m Module) Bottom() float64 { return m.Position.Y + m.Size.Height }

// Map is a campsite map with its placed modules.
type Map struct {
	ID      MapID    `json:"id"`
	Name    string   `json:"name"`
	Modules []Module `json:"modules"`
}

// ModuleUpdates is an explicit set of optional field updates applied to a
// module. A nil field means the field is untouched.
type ModuleUpdates struct {
	Name     *string   `json:"name,omitempty"`
	Position *Position `json:"position,omitempty"`
	Size     *Size     `json:"size,omitempty"`
	Rotation *float64  `json:"rotation,omitempty"`
	Locked   *bool     `json:"locked,omitempty"`
	Visible  *bool     `json:"visible,omitempty"`
}

// IsEmpty returns true if no field is set.
func (u ModuleUpdates) IsEmpty() bool {
	return u.Name == nil && u.Position == nil && u.Size == nil &&
		u.Rotation == nil && u.Locked == nil && u.Visible == nil
}

// Apply writes the set fields onto a module and returns the result.
func (u ModuleUpdates) Apply(m Module) Module {
	if u.Name != nil {
		m.Name = *u.Name
	}
	if u.Position != nil {
		m.Position = *u.Position
	}
	if u.Size != nil {
		m.Size = *u.Size
	}
	if u.Rotation != nil {
		m.Rotation = *u.Rotation
	}
	if u.Locked != nil {
		m.Locked = *u.Locked
	}
	if u.Visible != nil {
		m.Visible = *u.Visible
	}
	return m
}

// Tool is an editor tool a user can switch to.
type Tool string

// Editor tools.
const (
	ToolSelect  Tool = "select"
	ToolPan     Tool = "pan"
	ToolDraw    Tool = "draw"
	ToolMeasure Tool = "measure"
)
