// SPDX-FileCopyrightText: Marc Lajoie <marc@joyloc.dev>
//
// SPDX-License-Identifier: MIT

package geoclue

import (
	"context"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/marclajoie/JoyLoc/internal/geowatch"
)

const (
	busName      = "org.freedesktop.GeoClue2"
	managerPath  = "/org/freedesktop/GeoClue2/Manager"
	managerIface = "org.freedesktop.GeoClue2.Manager"
	clientIface  = "org.freedesktop.GeoClue2.Client"
	locIface     = "org.freedesktop.GeoClue2.Location"

	dbusErrAccessDenied   = "org.freedesktop.DBus.Error.AccessDenied"
	dbusErrServiceUnknown = "org.freedesktop.DBus.Error.ServiceUnknown"

	// GClue accuracy levels as defined by the GeoClue2 D-Bus API
	accuracyLevelCity  = uint32(4)
	accuracyLevelExact = uint32(8)

	signalBufferSize = 8
	name             = "geoclue"
)

// GeoClueProvider subscribes to location updates from a GeoClue2 service over
// the D-Bus system bus.
type GeoClueProvider struct {
	name      string
	desktopID string
	conn      *dbus.Conn
}

func NewGeoClueProvider(desktopID string) (*GeoClueProvider, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system bus: %w", err)
	}
	return &GeoClueProvider{
		name:      name,
		desktopID: desktopID,
		conn:      conn,
	}, nil
}

func (p *GeoClueProvider) Name() string {
	return p.name
}

// WatchStream registers a GeoClue client and streams LocationUpdated signals
// as fixes until the context is cancelled.
func (p *GeoClueProvider) WatchStream(ctx context.Context, opts geowatch.Options) <-chan geowatch.Update {
	out := make(chan geowatch.Update)

	go func() {
		defer close(out)

		clientPath, err := p.registerClient(ctx, opts)
		if err != nil {
			select {
			case <-ctx.Done():
			case out <- geowatch.FailureUpdate(classifyDBusError(err), err):
			}
			return
		}
		client := p.conn.Object(busName, clientPath)
		defer func() {
			_ = client.Call(clientIface+".Stop", 0).Err
		}()

		matchOpts := []dbus.MatchOption{
			dbus.WithMatchObjectPath(clientPath),
			dbus.WithMatchInterface(clientIface),
			dbus.WithMatchMember("LocationUpdated"),
		}
		if err = p.conn.AddMatchSignalContext(ctx, matchOpts...); err != nil {
			err = fmt.Errorf("failed to subscribe to location updates: %w", err)
			select {
			case <-ctx.Done():
			case out <- geowatch.FailureUpdate(classifyDBusError(err), err):
			}
			return
		}
		defer func() {
			_ = p.conn.RemoveMatchSignal(matchOpts...)
		}()

		sigCh := make(chan *dbus.Signal, signalBufferSize)
		p.conn.Signal(sigCh)
		defer p.conn.RemoveSignal(sigCh)

		if call := client.CallWithContext(ctx, clientIface+".Start", 0); call.Err != nil {
			err = fmt.Errorf("failed to start geoclue client: %w", call.Err)
			select {
			case <-ctx.Done():
			case out <- geowatch.FailureUpdate(classifyDBusError(call.Err), err):
			}
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case sig, ok := <-sigCh:
				if !ok {
					return
				}
				if sig == nil || sig.Name != clientIface+".LocationUpdated" || len(sig.Body) != 2 {
					continue
				}
				newPath, ok := sig.Body[1].(dbus.ObjectPath)
				if !ok {
					continue
				}
				coord, err := p.readLocation(newPath)
				if err != nil {
					select {
					case <-ctx.Done():
						return
					case out <- geowatch.FailureUpdate(geowatch.CausePositionUnavailable, err):
					}
					continue
				}
				select {
				case <-ctx.Done():
					return
				case out <- geowatch.FixUpdate(coord):
				}
			}
		}
	}()

	return out
}

// registerClient obtains a client object from the GeoClue manager and
// configures the desktop id and requested accuracy.
func (p *GeoClueProvider) registerClient(ctx context.Context, opts geowatch.Options) (dbus.ObjectPath, error) {
	var clientPath dbus.ObjectPath
	manager := p.conn.Object(busName, managerPath)
	if err := manager.CallWithContext(ctx, managerIface+".GetClient", 0).Store(&clientPath); err != nil {
		return "", fmt.Errorf("failed to get geoclue client: %w", err)
	}

	client := p.conn.Object(busName, clientPath)
	if err := client.SetProperty(clientIface+".DesktopId", dbus.MakeVariant(p.desktopID)); err != nil {
		return "", fmt.Errorf("failed to set desktop id: %w", err)
	}
	level := accuracyLevelCity
	if opts.HighAccuracy {
		level = accuracyLevelExact
	}
	if err := client.SetProperty(clientIface+".RequestedAccuracyLevel", dbus.MakeVariant(level)); err != nil {
		return "", fmt.Errorf("failed to set requested accuracy level: %w", err)
	}

	return clientPath, nil
}

// readLocation reads latitude and longitude from a GeoClue location object.
func (p *GeoClueProvider) readLocation(path dbus.ObjectPath) (geowatch.Coordinate, error) {
	var zero geowatch.Coordinate
	location := p.conn.Object(busName, path)

	var lat, lon float64
	if err := location.StoreProperty(locIface+".Latitude", &lat); err != nil {
		return zero, fmt.Errorf("failed to read latitude: %w", err)
	}
	if err := location.StoreProperty(locIface+".Longitude", &lon); err != nil {
		return zero, fmt.Errorf("failed to read longitude: %w", err)
	}

	coord := geowatch.Coordinate{
		Lat: geowatch.Truncate(lat, geowatch.TruncPrecision),
		Lon: geowatch.Truncate(lon, geowatch.TruncPrecision),
	}
	if !coord.Valid() {
		return zero, fmt.Errorf("geoclue returned invalid coordinates")
	}
	return coord, nil
}

// classifyDBusError maps D-Bus errors to watch failure causes.
func classifyDBusError(err error) geowatch.Cause {
	var dbErr dbus.Error
	if !errors.As(err, &dbErr) {
		return geowatch.CauseUnknown
	}
	switch dbErr.Name {
	case dbusErrAccessDenied:
		return geowatch.CausePermissionDenied
	case dbusErrServiceUnknown:
		return geowatch.CauseUnsupported
	default:
		return geowatch.CauseUnknown
	}
}
