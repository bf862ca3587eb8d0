package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCoordinate_InRangeUnchanged(t *testing.T) {
	c := NewCoordinate(40.7128, -74.006)
	assert.Equal(t, 40.7128, c.Lat)
	assert.Equal(t, -74.006, c.Lon)
}

func TestNewCoordinate_ClampsLatitude(t *testing.T) {
	assert.Equal(t, 90.0, NewCoordinate(91.5, 0).Lat)
	assert.Equal(t, -90.0, NewCoordinate(-120, 0).Lat)
}

func TestNewCoordinate_WrapsLongitude(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 180, want: 180},
		{in: -180, want: -180},
		{in: 190, want: -170},
		{in: -190, want: 170},
		{in: 285.994, want: -74.006},
		{in: 540, want: -180},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, NewCoordinate(0, tt.in).Lon, 1e-9, "lon %v", tt.in)
	}
}

func TestCoordinate_Precision(t *testing.T) {
	c := NewCoordinate(40.712776, -74.005974)

	assert.Equal(t, "40.712776", c.FieldLat())
	assert.Equal(t, "-74.005974", c.FieldLon())
	assert.Equal(t, "40.7128", c.LabelLat())
	assert.Equal(t, "-74.0060", c.LabelLon())
}

func TestCoordinate_PrecisionPadsZeros(t *testing.T) {
	c := NewCoordinate(40.7128, -74.006)

	assert.Equal(t, "40.712800", c.FieldLat())
	assert.Equal(t, "-74.006000", c.FieldLon())
	assert.Equal(t, "40.7128", c.LabelLat())
	assert.Equal(t, "-74.0060", c.LabelLon())
}
