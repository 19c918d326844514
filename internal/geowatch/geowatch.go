// SPDX-FileCopyrightText: Marc Lajoie <marc@joyloc.dev>
//
// SPDX-License-Identifier: MIT

// Package geowatch defines the location watch abstraction. A Provider pushes a
// continuous stream of Updates, each carrying either a position fix or a watch
// failure cause.
package geowatch

import (
	"context"
	"time"
)

// Cause classifies a watch failure.
type Cause int

const (
	CauseUnknown Cause = iota
	CausePermissionDenied
	CausePositionUnavailable
	CauseTimeout
	CauseUnsupported
)

// String returns a short identifier for the cause, mainly for logging.
func (c Cause) String() string {
	switch c {
	case CausePermissionDenied:
		return "permission_denied"
	case CausePositionUnavailable:
		return "position_unavailable"
	case CauseTimeout:
		return "timeout"
	case CauseUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Message returns the canonical user-facing message for the cause. The strings
// are msgids and are localized by the presentation layer.
func (c Cause) Message() string {
	switch c {
	case CausePermissionDenied:
		return "Location permission denied"
	case CausePositionUnavailable:
		return "Location is currently unavailable"
	case CauseTimeout:
		return "Timed out waiting for a location fix"
	case CauseUnsupported:
		return "Location services are not supported on this system"
	default:
		return "Failed to determine location"
	}
}

// Options configures a location watch subscription.
type Options struct {
	// HighAccuracy requests the most precise fixes the provider can deliver.
	HighAccuracy bool
	// Timeout is the maximum time to wait for a fix before the watch reports
	// a timeout failure.
	Timeout time.Duration
	// MaximumAge is the maximum acceptable age of a fix. Zero means only
	// fresh fixes are accepted.
	MaximumAge time.Duration
}

// DefaultOptions returns the default watch configuration.
func DefaultOptions() Options {
	return Options{
		HighAccuracy: true,
		Timeout:      time.Second * 10,
		MaximumAge:   0,
	}
}

// Update is a single event on a watch stream: a position fix or a failure.
type Update struct {
	Coord  Coordinate
	At     time.Time
	Failed bool
	Cause  Cause
	Err    error
}

// FixUpdate returns an Update carrying a position fix.
func FixUpdate(coord Coordinate) Update {
	return Update{Coord: coord, At: time.Now()}
}

// FailureUpdate returns an Update carrying a watch failure.
func FailureUpdate(cause Cause, err error) Update {
	return Update{At: time.Now(), Failed: true, Cause: cause, Err: err}
}

// Provider defines an interface for location watch providers. WatchStream
// delivers updates until the context is cancelled; the returned channel is
// closed when the watch ends.
type Provider interface {
	Name() string
	WatchStream(ctx context.Context, opts Options) <-chan Update
}
