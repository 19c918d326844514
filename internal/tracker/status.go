// SPDX-FileCopyrightText: Marc Lajoie <marc@joyloc.dev>
//
// SPDX-License-Identifier: MIT

package tracker

// Status is the single source of truth for what the presentation layer
// displays.
type Status int

const (
	StatusIdle Status = iota
	StatusLocating
	StatusGeocoding
	StatusSuccess
	StatusError
)

// String returns the canonical label of the status. The labels double as
// msgids for localization.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusLocating:
		return "Locating"
	case StatusGeocoding:
		return "Geocoding"
	case StatusSuccess:
		return "Success"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}
