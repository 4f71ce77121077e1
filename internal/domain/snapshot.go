package domain

import (
	"time"

	"github.com/golang/geo/s2"
	"github.com/google/uuid"
)

// Status tells renderers whether a snapshot carries results.
type Status string

const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
)

// SeriesPoint is one row of the derived table: the mean brightness of every
// detection sharing a date and origin.
type SeriesPoint struct {
	Date           string     `json:"date"`
	Origin         FireOrigin `json:"fire_origin"`
	OriginLabel    string     `json:"fire_origin_label"`
	MeanBrightness float64    `json:"mean_brightness"`
	Detections     int        `json:"detections"`
}

// FramePoint is one detection drawn on a map frame.
type FramePoint struct {
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	Brightness float64    `json:"brightness"`
	Origin     FireOrigin `json:"fire_origin"`
	Time       FireTime   `json:"fire_time"`
}

// Bounds is the lat/lng rectangle enclosing a frame, in degrees.
type Bounds struct {
	South     float64 `json:"south"`
	West      float64 `json:"west"`
	North     float64 `json:"north"`
	East      float64 `json:"east"`
	CenterLat float64 `json:"center_lat"`
	CenterLng float64 `json:"center_lng"`
}

// BoundsOf computes the enclosing rectangle of the given points. The zero
// Bounds is returned for no points.
func BoundsOf(points []FramePoint) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	rect := s2.EmptyRect()
	for _, p := range points {
		rect = rect.AddPoint(s2.LatLngFromDegrees(p.Latitude, p.Longitude))
	}
	lo, hi, center := rect.Lo(), rect.Hi(), rect.Center()
	return Bounds{
		South:     lo.Lat.Degrees(),
		West:      lo.Lng.Degrees(),
		North:     hi.Lat.Degrees(),
		East:      hi.Lng.Degrees(),
		CenterLat: center.Lat.Degrees(),
		CenterLng: center.Lng.Degrees(),
	}
}

// Frame is one animation step of the map: every filtered detection on a date.
type Frame struct {
	Date   string       `json:"date"`
	Points []FramePoint `json:"points"`
	Bounds Bounds       `json:"bounds"`
}

// Snapshot is the set of artifacts published for one recompute cycle. Count,
// Series and Frames always come from the same filtered view.
type Snapshot struct {
	Cycle      string        `json:"cycle,omitempty"`
	Generation uint64        `json:"generation"`
	Status     Status        `json:"status"`
	Filters    *Selection    `json:"filters,omitempty"`
	Count      *int          `json:"count"`
	Series     []SeriesPoint `json:"series"`
	Frames     []Frame       `json:"frames"`
	ComputedAt time.Time     `json:"computed_at"`
}

// PendingSnapshot is the explicit "no result" placeholder published before the
// first submit in deferred mode.
func PendingSnapshot() Snapshot {
	return Snapshot{
		Status:     StatusPending,
		ComputedAt: clock.Now().UTC(),
	}
}

// NewSnapshot stamps a ready snapshot for the given generation.
func NewSnapshot(generation uint64, sel Selection, count int, series []SeriesPoint, frames []Frame) Snapshot {
	if series == nil {
		series = []SeriesPoint{}
	}
	if frames == nil {
		frames = []Frame{}
	}
	return Snapshot{
		Cycle:      uuid.NewString(),
		Generation: generation,
		Status:     StatusReady,
		Filters:    &sel,
		Count:      &count,
		Series:     series,
		Frames:     frames,
		ComputedAt: clock.Now().UTC(),
	}
}

// Ready reports whether the snapshot carries results.
func (s Snapshot) Ready() bool {
	return s.Status == StatusReady
}
