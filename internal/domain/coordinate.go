package domain

import (
	"math"
	"strconv"
)

// Coordinate represents a WGS-84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lng"`
}

// NewCoordinate clamps latitude to [-90, 90] and wraps longitude into [-180, 180].
func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{Lat: clampLat(lat), Lon: wrapLon(lon)}
}

// FieldLat formats the latitude for the editable field (6 decimals).
func (c Coordinate) FieldLat() string { return strconv.FormatFloat(c.Lat, 'f', 6, 64) }

// FieldLon formats the longitude for the editable field (6 decimals).
func (c Coordinate) FieldLon() string { return strconv.FormatFloat(c.Lon, 'f', 6, 64) }

// LabelLat formats the latitude for the read-only label (4 decimals).
func (c Coordinate) LabelLat() string { return strconv.FormatFloat(c.Lat, 'f', 4, 64) }

// LabelLon formats the longitude for the read-only label (4 decimals).
func (c Coordinate) LabelLon() string { return strconv.FormatFloat(c.Lon, 'f', 4, 64) }

func clampLat(lat float64) float64 {
	return math.Max(-90, math.Min(90, lat))
}

// wrapLon maps any longitude onto [-180, 180], keeping exactly 180 as-is.
func wrapLon(lon float64) float64 {
	if lon >= -180 && lon <= 180 {
		return lon
	}
	w := math.Mod(lon+180, 360)
	if w < 0 {
		w += 360
	}
	return w - 180
}
