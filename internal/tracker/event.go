// SPDX-FileCopyrightText: Marc Lajoie <marc@joyloc.dev>
//
// SPDX-License-Identifier: MIT

package tracker

import (
	"time"

	"github.com/marclajoie/JoyLoc/internal/geowatch"
)

// EventKind identifies the kind of event driving the status state machine.
type EventKind int

const (
	// EventWatchStarted is emitted once when the location watch subscription
	// is established.
	EventWatchStarted EventKind = iota
	// EventFixAccepted carries a coordinate that passed the significance
	// filter.
	EventFixAccepted
	// EventWatchFailed carries a location watch failure cause.
	EventWatchFailed
	// EventResolveSucceeded carries a resolved town name.
	EventResolveSucceeded
	// EventResolveFailed signals a failed town name lookup.
	EventResolveFailed
)

// String returns a short identifier for the event kind, mainly for logging.
func (k EventKind) String() string {
	switch k {
	case EventWatchStarted:
		return "watch_started"
	case EventFixAccepted:
		return "fix_accepted"
	case EventWatchFailed:
		return "watch_failed"
	case EventResolveSucceeded:
		return "resolve_succeeded"
	case EventResolveFailed:
		return "resolve_failed"
	default:
		return "unknown"
	}
}

// Event is a single input to the status state machine. The location watch and
// the town name resolver are adapters that translate their platform or
// network outcomes into Events.
type Event struct {
	Kind  EventKind
	Coord geowatch.Coordinate
	Cause geowatch.Cause
	Town  string
	// Seq is the sequence number of the resolver request a settlement belongs
	// to. Settlements older than the currently displayed one are discarded.
	Seq uint64
	At  time.Time
}
