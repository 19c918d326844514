// SPDX-FileCopyrightText: Marc Lajoie <marc@joyloc.dev>
//
// SPDX-License-Identifier: MIT

// Package tracker implements the location update controller: it filters
// incoming position fixes for significance, issues town name lookups and maps
// the asynchronous outcomes onto a small status state machine.
package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/marclajoie/JoyLoc/internal/geowatch"
	"github.com/marclajoie/JoyLoc/internal/logger"
)

// LookupFailedMessage is the generic message for failed town lookups. The
// string is a msgid and localized by the presentation layer.
const LookupFailedMessage = "Town lookup failed"

// State is the complete observable state of the controller.
type State struct {
	Status Status
	// Coord is the last fix accepted by the significance filter, regardless
	// of whether its lookup has completed.
	Coord    geowatch.Coordinate
	HasCoord bool
	// Town is the last successfully resolved town name. It survives later
	// errors until overwritten by a new success.
	Town string
	// ErrMessage describes the most recent failure. Cleared on success.
	ErrMessage string
	UpdatedAt  time.Time

	// displayedSeq is the sequence number of the resolver settlement the
	// state currently reflects.
	displayedSeq uint64
}

// Apply is the transition function of the status state machine. It is a pure
// function of (state, event) and carries no side effects, so transitions can
// be tested deterministically.
func Apply(s State, ev Event) State {
	switch ev.Kind {
	case EventWatchStarted:
		s.Status = StatusLocating
	case EventFixAccepted:
		s.Status = StatusGeocoding
		s.Coord = ev.Coord
		s.HasCoord = true
	case EventWatchFailed:
		s.Status = StatusError
		s.ErrMessage = ev.Cause.Message()
	case EventResolveSucceeded:
		if ev.Seq < s.displayedSeq {
			return s
		}
		s.displayedSeq = ev.Seq
		s.Status = StatusSuccess
		s.Town = ev.Town
		s.ErrMessage = ""
	case EventResolveFailed:
		if ev.Seq < s.displayedSeq {
			return s
		}
		s.displayedSeq = ev.Seq
		s.Status = StatusError
		s.ErrMessage = LookupFailedMessage
	}
	if !ev.At.IsZero() {
		s.UpdatedAt = ev.At
	}
	return s
}

// Resolver resolves a coordinate pair to a town name. Satisfied by the
// geocode providers.
type Resolver interface {
	Name() string
	ResolveTown(ctx context.Context, lat, lon float64) (string, error)
}

// Controller owns the state machine. It consumes watch updates, applies the
// significance filter and issues at most one resolver call per accepted fix.
// Overlapping resolver calls are possible when fixes arrive while a lookup is
// still in flight; the sequence number guard in Apply keeps stale settlements
// from overwriting newer ones.
type Controller struct {
	mu       sync.RWMutex
	state    State
	seq      uint64
	resolver Resolver
	logger   *logger.Logger
	onChange func(State)
}

// NewController returns a Controller using the given resolver. The onChange
// hook, if non-nil, is invoked after every state transition with the updated
// state.
func NewController(resolver Resolver, log *logger.Logger, onChange func(State)) *Controller {
	return &Controller{
		state:    State{Status: StatusIdle},
		resolver: resolver,
		logger:   log,
		onChange: onChange,
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Run consumes the given watch stream until the context is cancelled or the
// stream is closed.
func (c *Controller) Run(ctx context.Context, updates <-chan geowatch.Update) {
	c.dispatch(Event{Kind: EventWatchStarted, At: time.Now()})
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			c.HandleUpdate(ctx, u)
		}
	}
}

// HandleUpdate processes a single watch update.
func (c *Controller) HandleUpdate(ctx context.Context, u geowatch.Update) {
	if u.Failed {
		c.logger.Error("location watch reported a failure", slog.String("cause", u.Cause.String()),
			logger.Err(u.Err))
		c.FailWatch(u.Cause)
		return
	}
	c.handleFix(ctx, u.Coord)
}

// FailWatch records a watch failure. The resolved town name is deliberately
// left untouched.
func (c *Controller) FailWatch(cause geowatch.Cause) {
	c.dispatch(Event{Kind: EventWatchFailed, Cause: cause, At: time.Now()})
}

// ForgetLastFix drops the stored last accepted coordinate, so the next fix
// bypasses the significance filter. Used after a system resume, where the
// device may have moved while the process was suspended.
func (c *Controller) ForgetLastFix() {
	c.mu.Lock()
	c.state.HasCoord = false
	c.mu.Unlock()
}

func (c *Controller) handleFix(ctx context.Context, coord geowatch.Coordinate) {
	if !coord.Valid() {
		c.logger.Debug("dropping invalid coordinate", slog.Float64("lat", coord.Lat),
			slog.Float64("lon", coord.Lon))
		return
	}

	// Filter decision and state transition happen under one lock, so a
	// concurrent settlement cannot interleave between them.
	c.mu.Lock()
	if c.state.HasCoord && !coord.SignificantlyDiffers(c.state.Coord) {
		c.mu.Unlock()
		c.logger.Debug("dropping fix below significance threshold",
			slog.Float64("lat", coord.Lat), slog.Float64("lon", coord.Lon))
		return
	}
	c.seq++
	seq := c.seq
	c.state = Apply(c.state, Event{Kind: EventFixAccepted, Coord: coord, At: time.Now()})
	state := c.state
	c.mu.Unlock()
	c.notify(state)

	c.logger.Debug("accepted new position fix", slog.Float64("lat", coord.Lat),
		slog.Float64("lon", coord.Lon), slog.Uint64("seq", seq))
	go c.resolve(ctx, seq, coord)
}

func (c *Controller) resolve(ctx context.Context, seq uint64, coord geowatch.Coordinate) {
	town, err := c.resolver.ResolveTown(ctx, coord.Lat, coord.Lon)
	if ctx.Err() != nil {
		// The watch was torn down while the lookup was in flight. Drop the
		// settlement instead of writing to a state nobody displays anymore.
		return
	}
	if err != nil {
		c.logger.Error("failed to resolve town name", logger.Err(err),
			slog.String("resolver", c.resolver.Name()), slog.Uint64("seq", seq))
		c.dispatch(Event{Kind: EventResolveFailed, Seq: seq, At: time.Now()})
		return
	}
	c.dispatch(Event{Kind: EventResolveSucceeded, Town: town, Seq: seq, At: time.Now()})
}

func (c *Controller) dispatch(ev Event) {
	c.mu.Lock()
	prev := c.state
	c.state = Apply(c.state, ev)
	changed := c.state != prev
	state := c.state
	c.mu.Unlock()
	if changed {
		c.notify(state)
	}
}

func (c *Controller) notify(state State) {
	if c.onChange != nil {
		c.onChange(state)
	}
}
