// SPDX-FileCopyrightText: Marc Lajoie <marc@joyloc.dev>
//
// SPDX-License-Identifier: MIT

package geowatch

import (
	"math"
)

const (
	// SignificanceThreshold is the per-axis movement threshold in degrees. 0.0001
	// degrees is roughly 11 meters of latitude at the equator.
	SignificanceThreshold = 0.0001

	// TruncPrecision is the number of decimal places coordinates are truncated to
	// before being emitted by a provider.
	TruncPrecision = 4

	// significanceEpsilon absorbs float64 representation noise so a move of
	// exactly one threshold step (e.g. 4.8001 - 4.8000, which subtracts to
	// 0.0000999...) still counts as significant.
	significanceEpsilon = 1e-12
)

// Coordinate represents a geographic coordinate.
type Coordinate struct {
	Lat float64
	Lon float64
}

// SignificantlyDiffers reports whether the coordinate differs from prev by at
// least SignificanceThreshold on the latitude or the longitude axis. The
// comparison is axis-wise on purpose, not great-circle distance: a fix that
// moved far enough on a single axis counts as significant.
func (c Coordinate) SignificantlyDiffers(prev Coordinate) bool {
	return math.Abs(c.Lat-prev.Lat) >= SignificanceThreshold-significanceEpsilon ||
		math.Abs(c.Lon-prev.Lon) >= SignificanceThreshold-significanceEpsilon
}

// Valid checks if the coordinate is valid according to the EPSG logic
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Truncate cuts off a float at the given number of decimal places.
func Truncate(x float64, precision int) float64 {
	p := math.Pow(10, float64(precision))
	return math.Trunc(x*p) / p
}
