// SPDX-FileCopyrightText: Marc Lajoie <marc@joyloc.dev>
//
// SPDX-License-Identifier: MIT

package gpsd

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/stratoberry/go-gpsd"

	"github.com/marclajoie/JoyLoc/internal/geowatch"
)

const (
	host = "localhost"
	port = "2947"

	name           = "gpsd"
	reconnectDelay = time.Second * 30
)

// GPSDProvider streams position fixes from a local gpsd daemon.
type GPSDProvider struct {
	name  string
	addr  string
	delay time.Duration
}

func NewGPSDProvider() *GPSDProvider {
	return &GPSDProvider{
		name:  name,
		addr:  net.JoinHostPort(host, port),
		delay: reconnectDelay,
	}
}

func (p *GPSDProvider) Name() string {
	return p.name
}

// WatchStream connects to gpsd and streams TPV reports as fixes. Connection
// loss is reported once and followed by reconnect attempts.
func (p *GPSDProvider) WatchStream(ctx context.Context, opts geowatch.Options) <-chan geowatch.Update {
	out := make(chan geowatch.Update)

	minMode := gpsd.Mode2D
	if opts.HighAccuracy {
		minMode = gpsd.Mode3D
	}

	go func() {
		defer close(out)
		var last geowatch.Coordinate
		var haveLast, failing bool

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			session, err := gpsd.Dial(p.addr)
			if err != nil {
				if !failing {
					failing = true
					err = fmt.Errorf("failed to connect to gpsd at %q: %w", p.addr, err)
					select {
					case <-ctx.Done():
						return
					case out <- geowatch.FailureUpdate(geowatch.CausePositionUnavailable, err):
					}
				}
				select {
				case <-ctx.Done():
					return
				case <-time.After(p.delay):
					continue
				}
			}
			failing = false

			// This gets called for every TPV report on the stream
			session.AddFilter("TPV", func(r interface{}) {
				tpv, ok := r.(*gpsd.TPVReport)
				if !ok {
					return
				}
				if tpv.Mode < minMode {
					return
				}

				coord := geowatch.Coordinate{
					Lat: geowatch.Truncate(tpv.Lat, geowatch.TruncPrecision),
					Lon: geowatch.Truncate(tpv.Lon, geowatch.TruncPrecision),
				}
				if !coord.Valid() {
					return
				}
				if haveLast && coord == last {
					return
				}
				last, haveLast = coord, true

				select {
				case <-ctx.Done():
					// Caller is done; just stop sending.
					return
				case out <- geowatch.FixUpdate(coord):
				}
			})

			// Watch() returns a channel that closes when the watch ends
			// (e.g. connection lost).
			done := session.Watch()

			select {
			case <-ctx.Done():
				// Context canceled; just return. The process exiting will
				// tear down the gpsd connection; go-gpsd itself has no Close().
				return
			case <-done:
				// gpsd connection ended; reconnect after a short delay
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(p.delay):
			}
		}
	}()

	return out
}
