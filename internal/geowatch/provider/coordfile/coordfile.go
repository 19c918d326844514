// SPDX-FileCopyrightText: Marc Lajoie <marc@joyloc.dev>
//
// SPDX-License-Identifier: MIT

package coordfile

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/marclajoie/JoyLoc/internal/geowatch"
)

const (
	name          = "coordfile"
	defaultPeriod = time.Second * 30
)

var ErrNoCoordinates = fmt.Errorf("no valid coordinates found in coordinate file")

// CoordFileProvider watches a plain text file for "lat,lon" coordinate pairs.
// It periodically re-reads the file and emits a fix whenever the parsed
// coordinate changes. Useful for static setups and testing without any
// location hardware.
type CoordFileProvider struct {
	name     string
	path     string
	period   time.Duration
	locateFn func() (geowatch.Coordinate, error)
}

// NewCoordFileProvider initializes a CoordFileProvider for the given file path.
func NewCoordFileProvider(path string) *CoordFileProvider {
	provider := &CoordFileProvider{
		name:   name,
		path:   path,
		period: defaultPeriod,
	}
	provider.locateFn = provider.readFile
	return provider
}

// Name returns the name of the CoordFileProvider instance.
func (p *CoordFileProvider) Name() string {
	return p.name
}

// WatchStream continuously streams coordinates read from the file, emitting
// updates when the data changes or a read starts failing.
func (p *CoordFileProvider) WatchStream(ctx context.Context, _ geowatch.Options) <-chan geowatch.Update {
	out := make(chan geowatch.Update)
	go func() {
		defer close(out)
		var last geowatch.Coordinate
		var haveLast, failing bool
		firstRun := true

		for {
			if !firstRun {
				select {
				case <-ctx.Done():
					return
				case <-time.After(p.period):
				}
			}
			firstRun = false

			coord, err := p.locateFn()
			if err != nil {
				// Only report the start of a failure streak, not every period
				if failing {
					continue
				}
				failing = true
				select {
				case <-ctx.Done():
					return
				case out <- geowatch.FailureUpdate(geowatch.CausePositionUnavailable, err):
				}
				continue
			}
			failing = false

			if haveLast && coord == last {
				continue
			}
			last, haveLast = coord, true

			select {
			case <-ctx.Done():
				return
			case out <- geowatch.FixUpdate(coord):
			}
		}
	}()
	return out
}

// readFile reads a coordinate from the file at the configured path. Lines
// starting with "#" are skipped; the first parsable "lat,lon" pair wins.
func (p *CoordFileProvider) readFile() (geowatch.Coordinate, error) {
	var zero geowatch.Coordinate
	data, err := os.ReadFile(p.path)
	if err != nil {
		return zero, fmt.Errorf("failed to read coordinate file %q: %w", p.path, err)
	}
	lines := strings.Split(string(data), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			continue
		}
		coords := strings.Split(line, ",")
		if len(coords) != 2 {
			continue
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(coords[0]), 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(coords[1]), 64)
		if err != nil {
			continue
		}
		coord := geowatch.Coordinate{Lat: lat, Lon: lon}
		if !coord.Valid() {
			continue
		}
		return coord, nil
	}
	return zero, ErrNoCoordinates
}
