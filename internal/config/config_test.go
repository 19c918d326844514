// SPDX-FileCopyrightText: Marc Lajoie <marc@joyloc.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	const (
		expectGeocoderProvider = "openai"
		expectLocationWatcher  = "geoclue"
		expectLocationTimeout  = time.Second * 10
		expectIntervalOutput   = time.Second * 30
		expectLogLevel         = slog.LevelInfo
	)
	t.Run("new config with all defaults set", func(t *testing.T) {
		t.Setenv("JOYLOC_GEOCODER_APIKEY", "test-key")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Geocoder.Provider != expectGeocoderProvider {
			t.Errorf("expected geocoder provider to be: %s, got %s", expectGeocoderProvider,
				conf.Geocoder.Provider)
		}
		if conf.Location.Watcher != expectLocationWatcher {
			t.Errorf("expected location watcher to be: %s, got %s", expectLocationWatcher,
				conf.Location.Watcher)
		}
		if conf.Location.DisableHighAccuracy {
			t.Error("expected high accuracy location watching to be enabled by default")
		}
		if conf.Location.Timeout != expectLocationTimeout {
			t.Errorf("expected location timeout to be: %s, got %s", expectLocationTimeout,
				conf.Location.Timeout)
		}
		if conf.Location.MaximumAge != 0 {
			t.Errorf("expected location maximum age to be zero, got %s", conf.Location.MaximumAge)
		}
		if conf.Intervals.Output != expectIntervalOutput {
			t.Errorf("expected output interval to be: %s, got %s", expectIntervalOutput,
				conf.Intervals.Output)
		}
		if conf.LogLevel != expectLogLevel {
			t.Errorf("expected log level to be: %s, got %s", expectLogLevel, conf.LogLevel)
		}
		if conf.Templates.Text != DefaultTextTpl {
			t.Errorf("expected text template to be: %s, got %s", DefaultTextTpl, conf.Templates.Text)
		}
		if conf.Templates.Tooltip != DefaultTooltipTpl {
			t.Errorf("expected tooltip template to be: %s, got %s", DefaultTooltipTpl,
				conf.Templates.Tooltip)
		}
	})
	t.Run("config without an API key fails", func(t *testing.T) {
		t.Setenv("JOYLOC_GEOCODER_APIKEY", "")
		if _, err := New(); err == nil {
			t.Fatal("expected config load to fail without an API key")
		}
	})
	t.Run("config with invalid values fails", func(t *testing.T) {
		tests := []struct {
			name  string
			key   string
			value string
		}{
			{"invalid geocoder provider", "JOYLOC_GEOCODER_PROVIDER", "invalid"},
			{"invalid location watcher", "JOYLOC_LOCATION_WATCHER", "invalid"},
			{"invalid location timeout", "JOYLOC_LOCATION_TIMEOUT", "-1s"},
			{"invalid maximum age", "JOYLOC_LOCATION_MAXIMUM_AGE", "-1s"},
			{"invalid output interval", "JOYLOC_INTERVALS_OUTPUT", "0s"},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				t.Setenv("JOYLOC_GEOCODER_APIKEY", "test-key")
				t.Setenv(tc.key, tc.value)
				if _, err := New(); err == nil {
					t.Errorf("expected config load to fail with %s=%s", tc.key, tc.value)
				}
			})
		}
	})
	t.Run("environment overrides default values", func(t *testing.T) {
		t.Setenv("JOYLOC_GEOCODER_APIKEY", "test-key")
		t.Setenv("JOYLOC_GEOCODER_PROVIDER", "perplexity")
		t.Setenv("JOYLOC_LOCATION_WATCHER", "gpsd")
		t.Setenv("JOYLOC_LOCATION_TIMEOUT", "30s")
		t.Setenv("JOYLOC_LOCATION_DISABLE_HIGH_ACCURACY", "true")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if !conf.Location.DisableHighAccuracy {
			t.Error("expected high accuracy location watching to be disabled")
		}
		if conf.Geocoder.Provider != "perplexity" {
			t.Errorf("expected geocoder provider to be: perplexity, got %s", conf.Geocoder.Provider)
		}
		if conf.Location.Watcher != "gpsd" {
			t.Errorf("expected location watcher to be: gpsd, got %s", conf.Location.Watcher)
		}
		if conf.Location.Timeout != time.Second*30 {
			t.Errorf("expected location timeout to be: 30s, got %s", conf.Location.Timeout)
		}
	})
}

func TestNewFromFile(t *testing.T) {
	t.Run("new config from file succeeds", func(t *testing.T) {
		dir := t.TempDir()
		data := "locale = \"de\"\n\n[geocoder]\napikey = \"test-key\"\nprovider = \"openai\"\n" +
			"\n[location]\nwatcher = \"coordfile\"\n"
		if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(data), 0o600); err != nil {
			t.Fatalf("failed to write config file: %s", err)
		}
		conf, err := NewFromFile(dir, "config.toml")
		if err != nil {
			t.Fatalf("failed to load config from file: %s", err)
		}
		if conf.Locale != "de" {
			t.Errorf("expected locale to be: de, got %s", conf.Locale)
		}
		if conf.Location.Watcher != "coordfile" {
			t.Errorf("expected location watcher to be: coordfile, got %s", conf.Location.Watcher)
		}
	})
	t.Run("new config from non-existing file fails", func(t *testing.T) {
		if _, err := NewFromFile(t.TempDir(), "missing.toml"); err == nil {
			t.Fatal("expected config load to fail for missing file")
		}
	})
}
