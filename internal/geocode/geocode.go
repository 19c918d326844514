// SPDX-FileCopyrightText: Marc Lajoie <marc@joyloc.dev>
//
// SPDX-License-Identifier: MIT

// Package geocode resolves coordinate pairs to town names through a
// generative-language API.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyResult indicates that the upstream API answered, but no usable town
// name was left after sanitization.
var ErrEmptyResult = errors.New("resolver returned an empty town name")

// Resolver resolves a coordinate pair to a single human-readable town name.
// Implementations are one-shot: no internal retry, any failure is returned
// to the caller as-is.
type Resolver interface {
	Name() string
	ResolveTown(ctx context.Context, lat, lon float64) (string, error)
}

// SystemPrompt is the instruction shared by all chat-completion resolvers.
const SystemPrompt = "You are a reverse geocoding assistant. Given a pair of geographic " +
	"coordinates, reply with the name of the town or city closest to them. Reply with the " +
	"bare name only, no punctuation, no formatting, no explanation."

// UserPrompt formats the coordinate pair for a chat-completion request.
func UserPrompt(lat, lon float64) string {
	return fmt.Sprintf("Latitude: %.6f, Longitude: %.6f", lat, lon)
}

// SanitizeTownName strips chat-model formatting artifacts from a raw response:
// code fences, emphasis markers, surrounding quotes and trailing punctuation.
// It returns the first non-empty line that remains.
func SanitizeTownName(raw string) string {
	cleaned := strings.ReplaceAll(raw, "`", "")
	cleaned = strings.ReplaceAll(cleaned, "*", "")
	for line := range strings.Lines(cleaned) {
		line = strings.TrimSpace(line)
		line = strings.Trim(line, `"'`)
		line = strings.TrimSuffix(line, ".")
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
