// SPDX-FileCopyrightText: Marc Lajoie <marc@joyloc.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"github.com/vorlif/spreak/localize"

	"github.com/marclajoie/JoyLoc/internal/tracker"
)

// MoonPhaseIcon is a map where moon phase names are keys and their corresponding emoji representations are values.
var MoonPhaseIcon = map[string]string{
	"New Moon":        "🌑",
	"Waxing Crescent": "🌒",
	"First Quarter":   "🌓",
	"Waxing Gibbous":  "🌔",
	"Full Moon":       "🌕",
	"Waning Gibbous":  "🌖",
	"Third Quarter":   "🌗",
	"Waning Crescent": "🌘",
}

// StatusIcons maps a tracker status to a single emoji icon for day (true) and night (false)
var StatusIcons = map[tracker.Status]map[bool]string{
	tracker.StatusIdle: {
		true:  "🛰️",
		false: "🛰️",
	},
	tracker.StatusLocating: {
		true:  "📡",
		false: "📡",
	},
	tracker.StatusGeocoding: {
		true:  "🔍",
		false: "🔎",
	},
	tracker.StatusSuccess: {
		true:  "📍",
		false: "🌃",
	},
	tracker.StatusError: {
		true:  "⚠️",
		false: "⚠️",
	},
}

// StatusClasses maps a tracker status to the CSS class emitted on the waybar
// status line, so the bar style sheet can color the module per state.
var StatusClasses = map[tracker.Status]string{
	tracker.StatusIdle:      "idle",
	tracker.StatusLocating:  "locating",
	tracker.StatusGeocoding: "geocoding",
	tracker.StatusSuccess:   "success",
	tracker.StatusError:     "error",
}

var i18nVars = map[string]localize.MsgID{
	"status":    "Status",
	"town":      "Town",
	"coords":    "Coordinates",
	"updated":   "Updated",
	"moonphase": "Moonphase",
	"daytime":   "Daytime",
	"nighttime": "Nighttime",
}
