// Package domain models the incident risk prediction exchanged between the
// map client and the external prediction service.
//
// # Coordinates
//
// A [Coordinate] is a WGS-84 latitude/longitude pair. Latitude is clamped to
// [-90, 90] and longitude is wrapped into [-180, 180] by [NewCoordinate], since
// a panned map can report longitudes from a neighbouring world copy. The same
// coordinate is shown at two precisions:
//
//	editable fields:  6 decimals  ("40.712800")
//	display labels:   4 decimals  ("40.7128")
//
// # Requests
//
// A [PredictionRequest] is built from the form state at submission time. Numeric
// fields are parsed but never range-checked; a value that does not parse is sent
// as JSON null and the service decides whether the request is valid.
//
// # Results
//
// [BuildResultView] turns a [PredictionResponse] into what the result panel
// shows, without touching any page state:
//
//	top card:   category, first 8 subcategories, confidence percent
//	breakdown:  every prediction in response order, each with a tier
//
// Tiers by confidence c:
//
//	c > 0.6        high
//	0.3 < c ≤ 0.6  medium
//	c ≤ 0.3        low
//
// Percentages are c*100 rounded to one decimal ("72.0").
package domain
