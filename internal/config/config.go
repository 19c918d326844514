// SPDX-FileCopyrightText: Marc Lajoie <marc@joyloc.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kkyr/fig"
)

const (
	configEnv = "JOYLOC"

	DefaultTextTpl    = "{{.StatusIcon}} {{if .Town}}{{.Town}}{{else}}{{loc .StatusLabel}}{{end}}"
	DefaultAltTextTpl = "{{.StatusIcon}} {{floatFormat .Latitude 4}}, {{floatFormat .Longitude 4}}"
	DefaultTooltipTpl = "{{loc \"Status\"}}: {{loc .StatusLabel}}{{if .ErrorMessage}} ({{loc .ErrorMessage}}){{end}}\n" +
		"{{loc \"Town\"}}: {{.Town}}\n{{loc \"Coordinates\"}}: {{floatFormat .Latitude 4}}, " +
		"{{floatFormat .Longitude 4}}\n{{loc \"Updated\"}}: {{localizedTime .UpdateTime}}\n" +
		"{{loc \"Moonphase\"}}: {{.MoonPhaseIcon}} {{loc .MoonPhase}}"
)

// Config represents the application's configuration structure.
type Config struct {
	Locale   string     `fig:"locale"`
	LogLevel slog.Level `fig:"loglevel" default:"0"`

	Geocoder struct {
		// Allowed values: openai, perplexity
		Provider string `fig:"provider" default:"openai"`
		APIKey   string `fig:"apikey"`
		Model    string `fig:"model"`
		Endpoint string `fig:"endpoint"`
	} `fig:"geocoder"`

	Location struct {
		// Allowed values: geoclue, gpsd, geoip, ichnaea, coordfile
		Watcher string `fig:"watcher" default:"geoclue"`
		// High accuracy fixes are requested unless explicitly disabled. fig
		// cannot default bool fields, hence the negative sense.
		DisableHighAccuracy bool          `fig:"disable_high_accuracy"`
		Timeout             time.Duration `fig:"timeout" default:"10s"`
		MaximumAge          time.Duration `fig:"maximum_age"`
		File                string        `fig:"file"`
	} `fig:"location"`

	Intervals struct {
		Output time.Duration `fig:"output" default:"30s"`
	} `fig:"intervals"`

	Templates struct {
		Text    string `fig:"text"`
		AltText string `fig:"alt_text"`
		Tooltip string `fig:"tooltip"`
	} `fig:"templates"`
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func (c *Config) Validate() error {
	switch c.Geocoder.Provider {
	case "openai", "perplexity":
	default:
		return fmt.Errorf("invalid geocoder provider: %s", c.Geocoder.Provider)
	}
	// A missing API credential is a fatal startup condition, not a runtime one.
	if c.Geocoder.APIKey == "" {
		return fmt.Errorf("geocoder provider %s requires an API key", c.Geocoder.Provider)
	}
	switch c.Location.Watcher {
	case "geoclue", "gpsd", "geoip", "ichnaea", "coordfile":
	default:
		return fmt.Errorf("invalid location watcher: %s", c.Location.Watcher)
	}
	if c.Location.Timeout <= 0 {
		return fmt.Errorf("invalid location timeout: %s", c.Location.Timeout)
	}
	if c.Location.MaximumAge < 0 {
		return fmt.Errorf("invalid location maximum age: %s", c.Location.MaximumAge)
	}
	if c.Intervals.Output <= 0 {
		return fmt.Errorf("invalid output interval: %s", c.Intervals.Output)
	}
	if c.Locale == "" {
		c.Locale = getLocale()
	}
	if c.Templates.Text == "" {
		c.Templates.Text = DefaultTextTpl
	}
	if c.Templates.AltText == "" {
		c.Templates.AltText = DefaultAltTextTpl
	}
	if c.Templates.Tooltip == "" {
		c.Templates.Tooltip = DefaultTooltipTpl
	}
	if c.Location.File == "" {
		home, _ := os.UserHomeDir()
		c.Location.File = filepath.Join(home, ".config", "joyloc", "geolocation")
	}

	return nil
}

func getLocale() string {
	locale := os.Getenv("LC_MESSAGES")
	if idx := strings.Index(locale, "."); idx != -1 {
		lang := locale[:idx]
		return strings.ReplaceAll(lang, "_", "-")
	}
	return locale
}
