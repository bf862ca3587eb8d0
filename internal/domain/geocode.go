package domain

import (
	"context"
	"log/slog"
)

// ResolveAddress looks up a display address for a coordinate. A nil geocoder,
// a failed lookup, or an empty result all yield "" (graceful degradation).
func ResolveAddress(ctx context.Context, coord Coordinate, geocoder Geocoder, logger *slog.Logger) string {
	if geocoder == nil {
		return ""
	}

	result, err := geocoder.ReverseGeocode(ctx, coord.Lat, coord.Lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"lat", coord.Lat,
			"lon", coord.Lon,
			"error", err,
		)
		return ""
	}
	if result.FormattedAddress != "" {
		return result.FormattedAddress
	}
	return result.PlaceName
}
