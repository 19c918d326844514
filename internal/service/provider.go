// SPDX-FileCopyrightText: Marc Lajoie <marc@joyloc.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"strings"

	"github.com/marclajoie/JoyLoc/internal/geocode"
	"github.com/marclajoie/JoyLoc/internal/geocode/provider/openai"
	"github.com/marclajoie/JoyLoc/internal/geocode/provider/perplexity"
	"github.com/marclajoie/JoyLoc/internal/geowatch"
	"github.com/marclajoie/JoyLoc/internal/geowatch/provider/coordfile"
	"github.com/marclajoie/JoyLoc/internal/geowatch/provider/geoclue"
	"github.com/marclajoie/JoyLoc/internal/geowatch/provider/geoip"
	"github.com/marclajoie/JoyLoc/internal/geowatch/provider/gpsd"
	"github.com/marclajoie/JoyLoc/internal/geowatch/provider/ichnaea"
	"github.com/marclajoie/JoyLoc/internal/http"
)

func (s *Service) selectWatchProvider(httpClient *http.Client) (geowatch.Provider, error) {
	switch strings.ToLower(s.config.Location.Watcher) {
	case "geoclue":
		provider, err := geoclue.NewGeoClueProvider(DesktopID)
		if err != nil {
			return nil, fmt.Errorf("failed to create GeoClue provider: %w", err)
		}
		return provider, nil
	case "gpsd":
		return gpsd.NewGPSDProvider(), nil
	case "geoip":
		provider, err := geoip.NewGeoIPProvider(httpClient)
		if err != nil {
			return nil, fmt.Errorf("failed to create GeoIP provider: %w", err)
		}
		return provider, nil
	case "ichnaea":
		provider, err := ichnaea.NewIchnaeaProvider(httpClient)
		if err != nil {
			return nil, fmt.Errorf("failed to create ICHNAEA provider: %w", err)
		}
		return provider, nil
	case "coordfile":
		return coordfile.NewCoordFileProvider(s.config.Location.File), nil
	default:
		return nil, fmt.Errorf("unsupported location watcher: %s", s.config.Location.Watcher)
	}
}

func (s *Service) selectResolver(httpClient *http.Client) (geocode.Resolver, error) {
	switch strings.ToLower(s.config.Geocoder.Provider) {
	case "openai":
		return openai.New(httpClient, s.config.Geocoder.APIKey, s.config.Geocoder.Model,
			s.config.Geocoder.Endpoint)
	case "perplexity":
		return perplexity.New(httpClient, s.config.Geocoder.APIKey, s.config.Geocoder.Model,
			s.config.Geocoder.Endpoint)
	default:
		return nil, fmt.Errorf("unsupported geocoder provider: %s", s.config.Geocoder.Provider)
	}
}
