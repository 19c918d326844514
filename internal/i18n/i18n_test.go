// SPDX-FileCopyrightText: Marc Lajoie <marc@joyloc.dev>
//
// SPDX-License-Identifier: MIT

package i18n

import "testing"

func TestNew(t *testing.T) {
	t.Run("new i18n provider with empty locale string succeeds", func(t *testing.T) {
		provider, err := New("")
		if err != nil {
			t.Fatalf("failed to create i18n provider: %s", err)
		}
		if provider == nil {
			t.Fatal("expected i18n provider to be non-nil")
		}
	})
	t.Run("german catalog is loaded", func(t *testing.T) {
		provider, err := New("de-DE")
		if err != nil {
			t.Fatalf("failed to create i18n provider: %s", err)
		}
		want := "Ort"
		if got := provider.Get("Town"); got != want {
			t.Errorf("expected translation %q, got %q", want, got)
		}
	})
	t.Run("unknown locale falls back to english", func(t *testing.T) {
		provider, err := New("tlh")
		if err != nil {
			t.Fatalf("failed to create i18n provider: %s", err)
		}
		want := "Town"
		if got := provider.Get("Town"); got != want {
			t.Errorf("expected fallback %q, got %q", want, got)
		}
	})
}
