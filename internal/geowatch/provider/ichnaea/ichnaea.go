// SPDX-FileCopyrightText: Marc Lajoie <marc@joyloc.dev>
//
// SPDX-License-Identifier: MIT

package ichnaea

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mdlayher/wifi"

	"github.com/marclajoie/JoyLoc/internal/geowatch"
	"github.com/marclajoie/JoyLoc/internal/http"
)

const (
	apiEndpoint   = "https://api.beacondb.net/v1/geolocate"
	lookupTimeout = time.Second * 5
	name          = "ichnaea"
)

// IchnaeaProvider locates the device by scanning nearby wifi networks and
// submitting them to an Ichnaea-compatible geolocation service.
type IchnaeaProvider struct {
	name     string
	http     *http.Client
	wlan     *wifi.Client
	period   time.Duration
	locateFn func(ctx context.Context) (geowatch.Coordinate, error)
}

type apiResult struct {
	Location struct {
		Latitude  float64 `json:"lat"`
		Longitude float64 `json:"lng"`
	} `json:"location"`
	Accuracy float64 `json:"accuracy"`
}

type wirelessNetwork struct {
	LastSeen       int64  `json:"age"`
	MACAddress     string `json:"macAddress"`
	SignalStrength int32  `json:"signalStrength"`
}

func NewIchnaeaProvider(http *http.Client) (*IchnaeaProvider, error) {
	if http == nil {
		return nil, fmt.Errorf("http client is required")
	}
	wlan, err := wifi.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create wifi client: %w", err)
	}

	provider := &IchnaeaProvider{
		name:   name,
		http:   http,
		wlan:   wlan,
		period: time.Minute * 5,
	}
	provider.locateFn = provider.locate
	return provider, nil
}

func (p *IchnaeaProvider) Name() string {
	return p.name
}

// WatchStream periodically scans wifi networks, resolves them to a position
// and emits updates when the position changes or lookups start failing.
func (p *IchnaeaProvider) WatchStream(ctx context.Context, _ geowatch.Options) <-chan geowatch.Update {
	out := make(chan geowatch.Update)
	go func() {
		defer close(out)
		var last geowatch.Coordinate
		var haveLast, failing bool
		firstRun := true

		for {
			if !firstRun {
				select {
				case <-ctx.Done():
					return
				case <-time.After(p.period):
				}
			}
			firstRun = false

			coord, err := p.locateFn(ctx)
			if err != nil {
				if failing {
					continue
				}
				failing = true
				select {
				case <-ctx.Done():
					return
				case out <- geowatch.FailureUpdate(geowatch.CausePositionUnavailable, err):
				}
				continue
			}
			failing = false

			if haveLast && coord == last {
				continue
			}
			last, haveLast = coord, true

			select {
			case <-ctx.Done():
				return
			case out <- geowatch.FixUpdate(coord):
			}
		}
	}()
	return out
}

func (p *IchnaeaProvider) wifiList() ([]wirelessNetwork, error) {
	var checkIfaces []*wifi.Interface
	var list []wirelessNetwork

	ifaces, err := p.wlan.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}
	for _, iface := range ifaces {
		if iface.Type != wifi.InterfaceTypeStation {
			continue
		}
		checkIfaces = append(checkIfaces, iface)
	}
	if len(checkIfaces) == 0 {
		return nil, nil
	}

	for _, iface := range checkIfaces {
		aps, err := p.wlan.AccessPoints(iface)
		if err != nil {
			continue
		}
		for _, ap := range aps {
			if ap.SSID == "" || ap.SSID[0] == '\x00' || strings.HasSuffix(ap.SSID, "_nomap") {
				continue
			}
			list = append(list, wirelessNetwork{
				SignalStrength: ap.Signal / 100,
				MACAddress:     ap.BSSID.String(),
				LastSeen:       ap.LastSeen.Milliseconds(),
			})
		}
	}

	return list, nil
}

func (p *IchnaeaProvider) locate(ctx context.Context) (geowatch.Coordinate, error) {
	var zero geowatch.Coordinate
	wifiList, err := p.wifiList()
	if err != nil {
		return zero, fmt.Errorf("failed to retrieve wifi list: %w", err)
	}
	if len(wifiList) == 0 {
		return zero, fmt.Errorf("no usable wifi networks in range")
	}

	type request struct {
		ConsiderIP   bool              `json:"considerIp"`
		Accesspoints []wirelessNetwork `json:"wifiAccessPoints"`
	}
	req := request{
		ConsiderIP:   true,
		Accesspoints: wifiList,
	}
	bodyBuffer := bytes.NewBuffer(nil)
	if err = json.NewEncoder(bodyBuffer).Encode(req); err != nil {
		return zero, fmt.Errorf("failed to encode wifi list to JSON: %w", err)
	}

	ctxHttp, cancelHttp := context.WithTimeout(ctx, lookupTimeout)
	defer cancelHttp()
	result := new(apiResult)
	if _, err = p.http.Post(ctxHttp, apiEndpoint, result, bodyBuffer,
		map[string]string{"Content-Type": "application/json"}); err != nil {
		return zero, fmt.Errorf("failed to get geolocation data from API: %w", err)
	}

	coord := geowatch.Coordinate{
		Lat: geowatch.Truncate(result.Location.Latitude, geowatch.TruncPrecision),
		Lon: geowatch.Truncate(result.Location.Longitude, geowatch.TruncPrecision),
	}
	if !coord.Valid() {
		return zero, fmt.Errorf("geolocation API returned invalid coordinates")
	}
	return coord, nil
}
