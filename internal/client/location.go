package client

import "github.com/couchcryptid/risk-map-client/internal/domain"

// Source identifies the gesture that moved the marker.
type Source string

const (
	SourceClick Source = "click"
	SourceDrag  Source = "drag"
	SourceSet   Source = "set"
)

// Viewport is the map's initial center and zoom.
type Viewport struct {
	Center domain.Coordinate `json:"center"`
	Zoom   int               `json:"zoom"`
}

// LocationListener is called after every synchronization with the committed
// coordinate.
type LocationListener func(coord domain.Coordinate, source Source)

// LocationSync keeps the single marker, the latitude/longitude fields, and the
// two coordinate labels showing the same coordinate. The latest gesture wins;
// editing the fields directly does not move the marker.
type LocationSync struct {
	page      *Page
	viewport  Viewport
	marker    domain.Coordinate
	listeners []LocationListener
}

// NewLocationSync places the marker at the viewport center and fills the
// coordinate fields from it.
func NewLocationSync(page *Page, viewport Viewport) *LocationSync {
	l := &LocationSync{
		page:     page,
		viewport: viewport,
		marker:   viewport.Center,
	}
	l.syncFields(l.marker)
	return l
}

// Viewport returns the map's initial viewport.
func (l *LocationSync) Viewport() Viewport {
	return l.viewport
}

// Coordinate returns the marker position.
func (l *LocationSync) Coordinate() domain.Coordinate {
	return l.marker
}

// SetCoordinate moves the marker programmatically and synchronizes the fields.
func (l *LocationSync) SetCoordinate(c domain.Coordinate) {
	l.marker = domain.NewCoordinate(c.Lat, c.Lon)
	l.commit(SourceSet)
}

// Subscribe registers a listener for committed coordinate changes.
func (l *LocationSync) Subscribe(fn LocationListener) {
	l.listeners = append(l.listeners, fn)
}

// OnMapClick relocates the marker to the clicked point and synchronizes the fields.
func (l *LocationSync) OnMapClick(point domain.Coordinate) {
	l.marker = domain.NewCoordinate(point.Lat, point.Lon)
	l.commit(SourceClick)
}

// DragMarker moves the marker during a drag. Fields are left alone until
// OnMarkerDragEnd.
func (l *LocationSync) DragMarker(point domain.Coordinate) {
	l.marker = domain.NewCoordinate(point.Lat, point.Lon)
}

// OnMarkerDragEnd synchronizes the fields to the marker's resting position.
func (l *LocationSync) OnMarkerDragEnd() {
	l.commit(SourceDrag)
}

func (l *LocationSync) commit(source Source) {
	l.syncFields(l.marker)
	for _, fn := range l.listeners {
		fn(l.marker, source)
	}
}

// syncFields writes the coordinate to the editable fields (6 decimals) and the
// read-only labels (4 decimals). Any previous address label no longer applies.
func (l *LocationSync) syncFields(c domain.Coordinate) {
	l.page.fields[FieldLatitude] = c.FieldLat()
	l.page.fields[FieldLongitude] = c.FieldLon()
	l.page.LatDisplay = c.LabelLat()
	l.page.LngDisplay = c.LabelLon()
	l.page.Address = ""
}
