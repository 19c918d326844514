// SPDX-FileCopyrightText: Marc Lajoie <marc@joyloc.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"strings"
	"testing"
)

func TestSanitizeTownName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain name", "Lyon", "Lyon"},
		{"surrounding whitespace", "  Lyon \n", "Lyon"},
		{"quoted name", `"Lyon"`, "Lyon"},
		{"single quoted name", "'Lyon'", "Lyon"},
		{"trailing period", "Lyon.", "Lyon"},
		{"bold markdown", "**Lyon**", "Lyon"},
		{"code fence", "```\nLyon\n```", "Lyon"},
		{"inline code", "`Lyon`", "Lyon"},
		{"name with explanation on next line", "Lyon\nThis is a city in France.", "Lyon"},
		{"multi word name", "Saint-Étienne-du-Rouvray", "Saint-Étienne-du-Rouvray"},
		{"name containing spaces", "New York City", "New York City"},
		{"empty input", "", ""},
		{"only formatting artifacts", "``**``\n", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeTownName(tc.raw); got != tc.want {
				t.Errorf("expected sanitized name to be %q, got %q", tc.want, got)
			}
		})
	}
}

func TestUserPrompt(t *testing.T) {
	prompt := UserPrompt(45.7640, 4.8357)
	if !strings.Contains(prompt, "45.764000") {
		t.Errorf("expected prompt to contain the latitude, got %q", prompt)
	}
	if !strings.Contains(prompt, "4.835700") {
		t.Errorf("expected prompt to contain the longitude, got %q", prompt)
	}
}
