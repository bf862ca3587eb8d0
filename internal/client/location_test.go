package client

import (
	"testing"

	"github.com/couchcryptid/risk-map-client/internal/domain"
	"github.com/stretchr/testify/assert"
)

func newTestLocation() (*Page, *LocationSync) {
	page := NewPage("2024-01-01")
	return page, NewLocationSync(page, testViewport())
}

func assertSynced(t *testing.T, page *Page, lat, lon, latLabel, lonLabel string) {
	t.Helper()
	assert.Equal(t, lat, page.Field(FieldLatitude))
	assert.Equal(t, lon, page.Field(FieldLongitude))
	assert.Equal(t, latLabel, page.LatDisplay)
	assert.Equal(t, lonLabel, page.LngDisplay)
}

func TestNewLocationSync_StartsAtViewportCenter(t *testing.T) {
	page, loc := newTestLocation()

	assert.Equal(t, domain.NewCoordinate(40.7128, -74.006), loc.Coordinate())
	assert.Equal(t, 11, loc.Viewport().Zoom)
	assertSynced(t, page, "40.712800", "-74.006000", "40.7128", "-74.0060")
}

func TestOnMapClick_MovesMarkerAndSyncsFields(t *testing.T) {
	page, loc := newTestLocation()

	loc.OnMapClick(domain.Coordinate{Lat: 40.758896, Lon: -73.985130})

	assert.Equal(t, domain.Coordinate{Lat: 40.758896, Lon: -73.985130}, loc.Coordinate())
	assertSynced(t, page, "40.758896", "-73.985130", "40.7589", "-73.9851")
}

func TestOnMapClick_WrapsLongitudeFromNeighbouringWorld(t *testing.T) {
	page, loc := newTestLocation()

	loc.OnMapClick(domain.Coordinate{Lat: 40.7128, Lon: 285.994})

	assert.InDelta(t, -74.006, loc.Coordinate().Lon, 1e-9)
	assert.Equal(t, "-74.006000", page.Field(FieldLongitude))
}

func TestDragMarker_DoesNotSyncUntilDragEnd(t *testing.T) {
	page, loc := newTestLocation()

	loc.DragMarker(domain.Coordinate{Lat: 40.6782, Lon: -73.9442})

	assertSynced(t, page, "40.712800", "-74.006000", "40.7128", "-74.0060")

	loc.OnMarkerDragEnd()

	assertSynced(t, page, "40.678200", "-73.944200", "40.6782", "-73.9442")
}

func TestManualFieldEdit_DoesNotMoveMarker(t *testing.T) {
	page, loc := newTestLocation()

	assert.NoError(t, page.SetField(FieldLatitude, "41.000000"))

	assert.Equal(t, 40.7128, loc.Coordinate().Lat)
	assert.Equal(t, "41.000000", page.Field(FieldLatitude))
	assert.Equal(t, "40.7128", page.LatDisplay, "labels follow the marker, not the field")
}

func TestSetCoordinate_SyncsAndNotifies(t *testing.T) {
	page, loc := newTestLocation()

	var got []Source
	loc.Subscribe(func(c domain.Coordinate, src Source) {
		// Listeners observe fields already committed.
		assert.Equal(t, c.FieldLat(), page.Field(FieldLatitude))
		got = append(got, src)
	})

	loc.SetCoordinate(domain.Coordinate{Lat: 40.5795, Lon: -74.1502})
	loc.OnMapClick(domain.Coordinate{Lat: 40.8448, Lon: -73.8648})
	loc.DragMarker(domain.Coordinate{Lat: 40.7282, Lon: -73.7949})
	loc.OnMarkerDragEnd()

	assert.Equal(t, []Source{SourceSet, SourceClick, SourceDrag}, got)
	assertSynced(t, page, "40.728200", "-73.794900", "40.7282", "-73.7949")
}

func TestSyncFields_ClearsStaleAddress(t *testing.T) {
	page, loc := newTestLocation()
	page.Address = "City Hall Park, New York"

	loc.OnMapClick(domain.Coordinate{Lat: 40.7, Lon: -74.0})

	assert.Empty(t, page.Address)
}
