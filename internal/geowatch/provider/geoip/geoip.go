// SPDX-FileCopyrightText: Marc Lajoie <marc@joyloc.dev>
//
// SPDX-License-Identifier: MIT

package geoip

import (
	"context"
	"fmt"
	"time"

	"github.com/marclajoie/JoyLoc/internal/geowatch"
	"github.com/marclajoie/JoyLoc/internal/http"
)

const (
	apiEndpoint   = "https://reallyfreegeoip.org/json/"
	lookupTimeout = time.Second * 5
	name          = "geoip"
)

// GeoIPProvider is a coarse, IP-based location watch adapter. It polls a
// GeoIP service and emits a fix whenever the reported position changes.
type GeoIPProvider struct {
	name     string
	http     *http.Client
	period   time.Duration
	locateFn func(ctx context.Context) (geowatch.Coordinate, error)
}

type apiResult struct {
	IP          string  `json:"ip"`
	CountryCode string  `json:"country_code"`
	Country     string  `json:"country_name"`
	Region      string  `json:"region_name,omitempty"`
	City        string  `json:"city,omitempty"`
	ZipCode     string  `json:"zip_code,omitempty"`
	TimeZone    string  `json:"time_zone"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

func NewGeoIPProvider(http *http.Client) (*GeoIPProvider, error) {
	if http == nil {
		return nil, fmt.Errorf("http client is required")
	}
	provider := &GeoIPProvider{
		name:   name,
		http:   http,
		period: time.Minute * 10,
	}
	provider.locateFn = provider.locate
	return provider, nil
}

func (p *GeoIPProvider) Name() string {
	return p.name
}

// WatchStream continuously streams IP-based positions, emitting updates when
// the position changes or lookups start failing.
func (p *GeoIPProvider) WatchStream(ctx context.Context, _ geowatch.Options) <-chan geowatch.Update {
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

			coord, err := p.locateFn(ctx)
			if err != nil {
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

func (p *GeoIPProvider) locate(ctx context.Context) (geowatch.Coordinate, error) {
	var zero geowatch.Coordinate
	ctxHttp, cancelHttp := context.WithTimeout(ctx, lookupTimeout)
	defer cancelHttp()

	result := new(apiResult)
	if _, err := p.http.Get(ctxHttp, apiEndpoint, result, nil, nil); err != nil {
		return zero, fmt.Errorf("failed to get geolocation data from GeoIP API: %w", err)
	}

	coord := geowatch.Coordinate{
		Lat: geowatch.Truncate(result.Latitude, geowatch.TruncPrecision),
		Lon: geowatch.Truncate(result.Longitude, geowatch.TruncPrecision),
	}
	if !coord.Valid() || (coord.Lat == 0 && coord.Lon == 0) {
		return zero, fmt.Errorf("GeoIP API returned no usable coordinates")
	}

	return coord, nil
}
