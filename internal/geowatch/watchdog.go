// SPDX-FileCopyrightText: Marc Lajoie <marc@joyloc.dev>
//
// SPDX-License-Identifier: MIT

package geowatch

import (
	"context"
	"errors"
	"time"
)

var ErrWatchTimeout = errors.New("no location fix within the configured timeout")

// Watchdog wraps a watch stream and enforces the Timeout and MaximumAge options
// uniformly across providers. If no fix arrives within opts.Timeout a timeout
// failure is emitted and the timer restarts, the underlying watch stays alive.
// Fixes older than opts.MaximumAge (when non-zero) are dropped.
func Watchdog(ctx context.Context, opts Options, in <-chan Update) <-chan Update {
	out := make(chan Update)

	go func() {
		defer close(out)

		timer := time.NewTimer(opts.Timeout)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case u, ok := <-in:
				if !ok {
					return
				}
				if !u.Failed {
					if opts.MaximumAge > 0 && time.Since(u.At) > opts.MaximumAge {
						continue
					}
					if !timer.Stop() {
						select {
						case <-timer.C:
						default:
						}
					}
					timer.Reset(opts.Timeout)
				}
				select {
				case <-ctx.Done():
					return
				case out <- u:
				}
			case <-timer.C:
				select {
				case <-ctx.Done():
					return
				case out <- FailureUpdate(CauseTimeout, ErrWatchTimeout):
				}
				timer.Reset(opts.Timeout)
			}
		}
	}()

	return out
}
