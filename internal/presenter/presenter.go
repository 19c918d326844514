// SPDX-FileCopyrightText: Marc Lajoie <marc@joyloc.dev>
//
// SPDX-License-Identifier: MIT

// Package presenter renders tracker state into the text, alt text and tooltip
// strings of the waybar status line.
package presenter

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/vorlif/humanize"
	"github.com/vorlif/humanize/locale/de"
	"github.com/vorlif/humanize/locale/fr"
	"github.com/vorlif/spreak"
	"github.com/wneessen/go-moonphase"

	"github.com/marclajoie/JoyLoc/internal/config"
	"github.com/marclajoie/JoyLoc/internal/tracker"
)

// TemplateContext is the data exposed to the user-configurable templates.
type TemplateContext struct {
	StatusLabel         string
	StatusIcon          string
	StatusIconWithSpace string
	StatusClass         string
	Town                string
	ErrorMessage        string

	Latitude  float64
	Longitude float64
	HasCoord  bool

	UpdateTime             time.Time
	IsDaytime              bool
	MoonPhase              string
	MoonPhaseIcon          string
	MoonPhaseIconWithSpace string
}

type Presenter struct {
	TextTemplate    *template.Template
	AltTextTemplate *template.Template
	TooltipTemplate *template.Template

	localizer *spreak.Localizer
	humanizer *humanize.Humanizer
}

// New parses the configured templates and verifies that they render against a
// sample context, so broken user templates fail at startup instead of on the
// status line.
func New(conf *config.Config, localizer *spreak.Localizer) (*Presenter, error) {
	pres := &Presenter{localizer: localizer}
	collection := humanize.MustNew(humanize.WithLocale(de.New(), fr.New()))
	pres.humanizer = collection.CreateHumanizer(localizer.Language())

	tpl, err := template.New("text").Funcs(pres.templateFuncMap()).Parse(conf.Templates.Text)
	if err != nil {
		return pres, fmt.Errorf("failed to parse text template: %w", err)
	}
	pres.TextTemplate = tpl

	tpl, err = template.New("alt_text").Funcs(pres.templateFuncMap()).Parse(conf.Templates.AltText)
	if err != nil {
		return pres, fmt.Errorf("failed to parse alt text template: %w", err)
	}
	pres.AltTextTemplate = tpl

	tpl, err = template.New("tooltip").Funcs(pres.templateFuncMap()).Parse(conf.Templates.Tooltip)
	if err != nil {
		return pres, fmt.Errorf("failed to parse tooltip template: %w", err)
	}
	pres.TooltipTemplate = tpl

	if _, err = pres.Render(pres.BuildContext(tracker.State{Status: tracker.StatusIdle})); err != nil {
		return pres, err
	}

	return pres, nil
}

// BuildContext converts a tracker state snapshot into a TemplateContext,
// enriched with day/night and moon phase data.
func (p *Presenter) BuildContext(state tracker.State) TemplateContext {
	now := time.Now()

	isDay := true
	if state.HasCoord {
		sunriseTime, sunsetTime := sunrise.SunriseSunset(state.Coord.Lat, state.Coord.Lon,
			now.Year(), now.Month(), now.Day())
		isDay = now.After(sunriseTime) && now.Before(sunsetTime)
	}

	moon := moonphase.New(now)
	phase := moon.PhaseName()
	icon := StatusIcons[state.Status][isDay]

	return TemplateContext{
		StatusLabel:         state.Status.String(),
		StatusIcon:          icon,
		StatusIconWithSpace: EmojiWithSpace(icon),
		StatusClass:         StatusClasses[state.Status],
		Town:                state.Town,
		ErrorMessage:        state.ErrMessage,

		Latitude:  state.Coord.Lat,
		Longitude: state.Coord.Lon,
		HasCoord:  state.HasCoord,

		UpdateTime:             state.UpdatedAt,
		IsDaytime:              isDay,
		MoonPhase:              phase,
		MoonPhaseIcon:          MoonPhaseIcon[phase],
		MoonPhaseIconWithSpace: EmojiWithSpace(MoonPhaseIcon[phase]),
	}
}

// Render executes all templates against the given context and returns the
// rendered strings keyed by template name.
func (p *Presenter) Render(tplCtx TemplateContext) (map[string]string, error) {
	out := make(map[string]string, 3)
	for name, tpl := range map[string]*template.Template{
		"text":     p.TextTemplate,
		"alt_text": p.AltTextTemplate,
		"tooltip":  p.TooltipTemplate,
	} {
		buf := bytes.NewBuffer(nil)
		if err := tpl.Execute(buf, tplCtx); err != nil {
			return nil, fmt.Errorf("failed to render %s template: %w", name, err)
		}
		out[name] = buf.String()
	}
	return out, nil
}
