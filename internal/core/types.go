package core

import (
	"time"
)

const (
	AppName       = "geodrop"
	AppVersion    = "0.1.0"
	RepositoryURL = "https://github.com/sandevgo/geodrop"

	// DefaultStorageKey is the key the content collection lives under.
	DefaultStorageKey = "jetstreamin-ar-content"
)

type ContentType string

const (
	ContentUserGenerated ContentType = "user-generated"
)

type ViewMode string

const (
	ModeScan     ViewMode = "scan"
	ModeLocation ViewMode = "location"
	ModeHand     ViewMode = "hand"
	ModeFace     ViewMode = "face"
)

func ViewModes() []ViewMode {
	return []ViewMode{ModeScan, ModeLocation, ModeHand, ModeFace}
}

func (m ViewMode) Valid() bool {
	for _, v := range ViewModes() {
		if v == m {
			return true
		}
	}
	return false
}

// Coordinates is a WGS84 position in degrees.
type Coordinates struct {
	Latitude  float64 `json:"lat" validate:"latitude"`
	Longitude float64 `json:"lng" validate:"longitude"`
}

type ContentPayload struct {
	Text   string `json:"text"`
	Color  string `json:"color"`
	Author string `json:"author"`
}

// ContentRecord is a piece of content dropped at a location. Records are
// immutable once persisted.
type ContentRecord struct {
	ID        int64          `json:"id"`
	Type      ContentType    `json:"type"`
	Location  Coordinates    `json:"location"`
	CreatedAt time.Time      `json:"timestamp"`
	Payload   ContentPayload `json:"data"`
}

// LocationSample is a single position fix. Accuracy is in meters and is
// informational only.
type LocationSample struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
	Accuracy  float64 `json:"accuracy" validate:"gte=0"`
}

func (s LocationSample) Coordinates() Coordinates {
	return Coordinates{Latitude: s.Latitude, Longitude: s.Longitude}
}

// Landmark is a well-known marker baked into the binary.
type Landmark struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Label     string  `json:"label"`
}

func (l Landmark) Coordinates() Coordinates {
	return Coordinates{Latitude: l.Latitude, Longitude: l.Longitude}
}

// DropRequest carries the free-text fields of a "drop content here" action.
// Empty fields fall back to the defaults below.
type DropRequest struct {
	Text   string `json:"text" validate:"max=280"`
	Color  string `json:"color" validate:"omitempty,hexcolor"`
	Author string `json:"author" validate:"max=64"`
}

const (
	DefaultDropText   = "Jetstreamin was here!"
	DefaultDropColor  = "#00ff88"
	DefaultDropAuthor = "anonymous"
)

// Snapshot is what a presentation layer receives after each recomputation.
type Snapshot struct {
	Location  *LocationSample `json:"location,omitempty"`
	Mode      ViewMode        `json:"mode"`
	Nearby    []ContentRecord `json:"nearby"`
	Landmarks []Landmark      `json:"landmarks"`
}
