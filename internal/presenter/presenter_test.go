// SPDX-FileCopyrightText: Marc Lajoie <marc@joyloc.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"strings"
	"testing"
	"time"

	"github.com/vorlif/spreak"

	"github.com/marclajoie/JoyLoc/internal/config"
	"github.com/marclajoie/JoyLoc/internal/geowatch"
	"github.com/marclajoie/JoyLoc/internal/i18n"
	"github.com/marclajoie/JoyLoc/internal/tracker"
)

func TestNew(t *testing.T) {
	t.Run("creating a new presenter succeeds", func(t *testing.T) {
		conf, lang := testConfLang(t)
		pres, err := New(conf, lang)
		if err != nil {
			t.Fatalf("failed to create presenter: %s", err)
		}
		if pres == nil {
			t.Fatal("expected presenter to be non-nil")
		}
	})
	t.Run("creating presenter with invalid templates fails", func(t *testing.T) {
		tests := []struct {
			name       string
			templateFn func(conf *config.Config)
		}{
			{"text", func(conf *config.Config) { conf.Templates.Text = "{{invalid" }},
			{"alt_text", func(conf *config.Config) { conf.Templates.AltText = "{{invalid" }},
			{"tooltip", func(conf *config.Config) { conf.Templates.Tooltip = "{{invalid" }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				conf, lang := testConfLang(t)
				tt.templateFn(conf)
				_, err := New(conf, lang)
				if err == nil {
					t.Error("expected presenter to fail, but didn't")
				}
				wantErr := "failed to parse"
				if !strings.Contains(err.Error(), wantErr) {
					t.Errorf("expected error to contain %q, got %q", wantErr, err)
				}
			})
		}
	})
	t.Run("creating presenter with template execution errors fails", func(t *testing.T) {
		tests := []struct {
			name       string
			templateFn func(conf *config.Config)
		}{
			{"text", func(conf *config.Config) { conf.Templates.Text = "{{.Data}}" }},
			{"alt_text", func(conf *config.Config) { conf.Templates.AltText = "{{.Data}}" }},
			{"tooltip", func(conf *config.Config) { conf.Templates.Tooltip = "{{.Data}}" }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				conf, lang := testConfLang(t)
				tt.templateFn(conf)
				_, err := New(conf, lang)
				if err == nil {
					t.Error("expected presenter to fail, but didn't")
				}
				wantErr := "failed to render"
				if !strings.Contains(err.Error(), wantErr) {
					t.Errorf("expected error to contain %q, got %q", wantErr, err)
				}
			})
		}
	})
}

func TestPresenter_BuildContext(t *testing.T) {
	t.Run("building context from a success state", func(t *testing.T) {
		conf, lang := testConfLang(t)
		pres, err := New(conf, lang)
		if err != nil {
			t.Fatalf("failed to create presenter: %s", err)
		}
		state := tracker.State{
			Status:    tracker.StatusSuccess,
			Coord:     geowatch.Coordinate{Lat: 45.76402, Lon: 4.83565},
			HasCoord:  true,
			Town:      "Lyon",
			UpdatedAt: time.Now(),
		}
		tplCtx := pres.BuildContext(state)
		if tplCtx.StatusLabel != "Success" {
			t.Errorf("expected status label Success, got %q", tplCtx.StatusLabel)
		}
		if tplCtx.StatusClass != "success" {
			t.Errorf("expected status class success, got %q", tplCtx.StatusClass)
		}
		if tplCtx.Town != "Lyon" {
			t.Errorf("expected town Lyon, got %q", tplCtx.Town)
		}
		if tplCtx.ErrorMessage != "" {
			t.Errorf("expected empty error message, got %q", tplCtx.ErrorMessage)
		}
		if tplCtx.Latitude != state.Coord.Lat || tplCtx.Longitude != state.Coord.Lon {
			t.Errorf("expected coordinates %v, got %f, %f", state.Coord, tplCtx.Latitude, tplCtx.Longitude)
		}
		if tplCtx.StatusIcon != StatusIcons[tracker.StatusSuccess][tplCtx.IsDaytime] {
			t.Errorf("expected status icon to match day/night map, got %q", tplCtx.StatusIcon)
		}
		if tplCtx.MoonPhase == "" {
			t.Error("expected moon phase to be set")
		}
		if tplCtx.MoonPhaseIcon != MoonPhaseIcon[tplCtx.MoonPhase] {
			t.Errorf("expected moon phase icon for %q, got %q", tplCtx.MoonPhase, tplCtx.MoonPhaseIcon)
		}
		if tplCtx.UpdateTime.IsZero() {
			t.Error("expected update time to be set")
		}
	})
	t.Run("building context from an error state keeps town", func(t *testing.T) {
		conf, lang := testConfLang(t)
		pres, err := New(conf, lang)
		if err != nil {
			t.Fatalf("failed to create presenter: %s", err)
		}
		state := tracker.State{
			Status:     tracker.StatusError,
			Town:       "Lyon",
			ErrMessage: tracker.LookupFailedMessage,
		}
		tplCtx := pres.BuildContext(state)
		if tplCtx.StatusLabel != "Error" {
			t.Errorf("expected status label Error, got %q", tplCtx.StatusLabel)
		}
		if tplCtx.Town != "Lyon" {
			t.Errorf("expected town Lyon to survive, got %q", tplCtx.Town)
		}
		if tplCtx.ErrorMessage != "Town lookup failed" {
			t.Errorf("expected lookup failure message, got %q", tplCtx.ErrorMessage)
		}
	})
	t.Run("building context without a coordinate defaults to daytime icons", func(t *testing.T) {
		conf, lang := testConfLang(t)
		pres, err := New(conf, lang)
		if err != nil {
			t.Fatalf("failed to create presenter: %s", err)
		}
		tplCtx := pres.BuildContext(tracker.State{Status: tracker.StatusIdle})
		if !tplCtx.IsDaytime {
			t.Error("expected daytime to default to true without a coordinate")
		}
		if tplCtx.HasCoord {
			t.Error("expected HasCoord to be false")
		}
	})
}

func TestPresenter_Render(t *testing.T) {
	t.Run("rendering succeeds", func(t *testing.T) {
		conf, lang := testConfLang(t)
		conf.Templates.Text = "{{.Town}}"
		conf.Templates.AltText = "{{floatFormat .Latitude 4}}, {{floatFormat .Longitude 4}}"
		conf.Templates.Tooltip = "{{loc \"status\"}}: {{loc .StatusLabel}}"
		pres, err := New(conf, lang)
		if err != nil {
			t.Fatalf("failed to create presenter: %s", err)
		}

		state := tracker.State{
			Status:   tracker.StatusSuccess,
			Coord:    geowatch.Coordinate{Lat: 45.76402, Lon: 4.83565},
			HasCoord: true,
			Town:     "Lyon",
		}
		outMap, err := pres.Render(pres.BuildContext(state))
		if err != nil {
			t.Fatalf("failed to render: %s", err)
		}
		if len(outMap) != 3 {
			t.Errorf("expected output map to have length 3, got %d", len(outMap))
		}
		if outMap["text"] != "Lyon" {
			t.Errorf("expected text output to be %q, got %q", "Lyon", outMap["text"])
		}
		wantAltText := "45.7640, 4.8356"
		if outMap["alt_text"] != wantAltText {
			t.Errorf("expected alt_text output to be %q, got %q", wantAltText, outMap["alt_text"])
		}
		wantTooltip := "Status: Success"
		if outMap["tooltip"] != wantTooltip {
			t.Errorf("expected tooltip output to be %q, got %q", wantTooltip, outMap["tooltip"])
		}
	})
	t.Run("default templates render an error state", func(t *testing.T) {
		conf, lang := testConfLang(t)
		pres, err := New(conf, lang)
		if err != nil {
			t.Fatalf("failed to create presenter: %s", err)
		}
		state := tracker.State{
			Status:     tracker.StatusError,
			Town:       "Lyon",
			ErrMessage: "Location permission denied",
		}
		outMap, err := pres.Render(pres.BuildContext(state))
		if err != nil {
			t.Fatalf("failed to render: %s", err)
		}
		if !strings.Contains(outMap["text"], "Lyon") {
			t.Errorf("expected text to keep the resolved town, got %q", outMap["text"])
		}
		if !strings.Contains(outMap["tooltip"], "Location permission denied") {
			t.Errorf("expected tooltip to contain the error message, got %q", outMap["tooltip"])
		}
	})
}

func TestPresenter_loc(t *testing.T) {
	t.Run("short variable key is resolved", func(t *testing.T) {
		conf, lang := testConfLang(t)
		pres, err := New(conf, lang)
		if err != nil {
			t.Fatalf("failed to create presenter: %s", err)
		}
		want := "Coordinates"
		if got := pres.loc("coords"); got != want {
			t.Errorf("failed to get localized value: got %s, want %s", got, want)
		}
	})
	t.Run("localized german value is found", func(t *testing.T) {
		conf := testConf(t)
		lang, err := i18n.New("de-DE")
		if err != nil {
			t.Fatalf("failed to create i18n provider: %s", err)
		}
		pres, err := New(conf, lang)
		if err != nil {
			t.Fatalf("failed to create presenter: %s", err)
		}
		want := "Ortsnamenssuche fehlgeschlagen"
		if got := pres.loc("Town lookup failed"); got != want {
			t.Errorf("failed to get localized value: got %s, want %s", got, want)
		}
		want = "Ort"
		if got := pres.loc("town"); got != want {
			t.Errorf("failed to get localized value: got %s, want %s", got, want)
		}
	})
	t.Run("unknown value is passed through", func(t *testing.T) {
		conf, lang := testConfLang(t)
		pres, err := New(conf, lang)
		if err != nil {
			t.Fatalf("failed to create presenter: %s", err)
		}
		want := "foobar"
		if got := pres.loc("foobar"); got != want {
			t.Errorf("failed to get localized value: got %s, want %s", got, want)
		}
	})
}

func TestPresenter_timeFormat(t *testing.T) {
	t.Run("RFC3339 format is used", func(t *testing.T) {
		pres := new(Presenter)
		now := time.Now()
		if got := pres.timeFormat(now, time.RFC3339); got != now.Format(time.RFC3339) {
			t.Errorf("failed to get time format: got %s, want %s", got, now.Format(time.RFC3339))
		}
	})
}

func TestPresenter_floatFormat(t *testing.T) {
	tests := []struct {
		name string
		val  float64
		prec int
		want string
	}{
		{"0.0", 0.0, 0, "0"},
		{"0.4", 0.4, 1, "0.4"},
		{"45.76402 to 4", 45.76402, 4, "45.7640"},
		{"0.1234", 0.1234, 4, "0.1234"},
		{"0.123", 0.1234, 3, "0.123"},
		{"0.12", 0.1234, 2, "0.12"},
		{"0.1", 0.1234, 1, "0.1"},
		{"0", 0.1234, 0, "0"},
	}

	pres := new(Presenter)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pres.floatFormat(tt.val, tt.prec); got != tt.want {
				t.Errorf("failed to get float format: got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEmojiWithSpace(t *testing.T) {
	t.Run("wide emoji is padded", func(t *testing.T) {
		got := EmojiWithSpace("📍")
		if !strings.HasPrefix(got, "📍") {
			t.Errorf("expected padded emoji to start with the emoji, got %q", got)
		}
		if !strings.HasSuffix(got, " ") {
			t.Errorf("expected padded emoji to end with a space, got %q", got)
		}
	})
}

func testConf(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("JOYLOC_GEOCODER_APIKEY", "test-key")
	conf, err := config.New()
	if err != nil {
		t.Fatalf("failed to create config: %s", err)
	}
	return conf
}

func testConfLang(t *testing.T) (*config.Config, *spreak.Localizer) {
	t.Helper()
	conf := testConf(t)
	lang, err := i18n.New("en")
	if err != nil {
		t.Fatalf("failed to create i18n provider: %s", err)
	}
	return conf, lang
}
