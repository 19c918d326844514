// SPDX-FileCopyrightText: Marc Lajoie <marc@joyloc.dev>
//
// SPDX-License-Identifier: MIT

// Package service wires the location watcher, the tracker and the presenter
// together and emits the waybar status line.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/vorlif/spreak"

	"github.com/marclajoie/JoyLoc/internal/config"
	"github.com/marclajoie/JoyLoc/internal/geocode"
	"github.com/marclajoie/JoyLoc/internal/geowatch"
	"github.com/marclajoie/JoyLoc/internal/http"
	"github.com/marclajoie/JoyLoc/internal/logger"
	"github.com/marclajoie/JoyLoc/internal/presenter"
	"github.com/marclajoie/JoyLoc/internal/tracker"
)

// DesktopID identifies the application towards GeoClue and on the session bus.
const DesktopID = "joyloc"

type outputData struct {
	Text    string `json:"text"`
	Tooltip string `json:"tooltip"`
	Class   string `json:"class"`
}

type Service struct {
	config     *config.Config
	logger     *logger.Logger
	scheduler  gocron.Scheduler
	presenter  *presenter.Presenter
	controller *tracker.Controller
	resolver   geocode.Resolver
	watcher    geowatch.Provider

	SignalSrc signalSource

	outLock sync.Mutex
	out     io.Writer

	displayAltLock sync.RWMutex
	displayAltText bool
}

func New(conf *config.Config, log *logger.Logger, localizer *spreak.Localizer) (*Service, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	pres, err := presenter.New(conf, localizer)
	if err != nil {
		return nil, fmt.Errorf("failed to create presenter: %w", err)
	}

	service := &Service{
		config:    conf,
		logger:    log,
		scheduler: scheduler,
		presenter: pres,
		SignalSrc: stdLibSignalSource{},
		out:       os.Stdout,
	}

	httpClient := http.New(log)
	service.resolver, err = service.selectResolver(httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocode resolver: %w", err)
	}

	// A watcher that cannot be created is not fatal. The tracker reports the
	// unsupported state on the status line instead.
	service.watcher, err = service.selectWatchProvider(httpClient)
	if err != nil {
		log.Error("failed to create location watch provider", logger.Err(err))
	}

	service.controller = tracker.NewController(service.resolver, log, service.onStateChange)
	return service, nil
}

func (s *Service) Run(ctx context.Context) error {
	if err := s.createScheduledJob(ctx, s.config.Intervals.Output, s.printStatus,
		"status_output_job"); err != nil {
		return err
	}
	s.scheduler.Start()

	sigChan := make(chan os.Signal, 1)
	s.SignalSrc.Notify(sigChan, syscall.SIGUSR1)
	defer s.SignalSrc.Stop(sigChan)
	go s.HandleAltTextToggleSignal(ctx, sigChan)
	go s.monitorSleepResume(ctx)

	if s.watcher == nil {
		s.controller.FailWatch(geowatch.CauseUnsupported)
	} else {
		opts := geowatch.Options{
			HighAccuracy: !s.config.Location.DisableHighAccuracy,
			Timeout:      s.config.Location.Timeout,
			MaximumAge:   s.config.Location.MaximumAge,
		}
		updates := geowatch.Watchdog(ctx, opts, s.watcher.WatchStream(ctx, opts))
		go s.controller.Run(ctx, updates)
	}

	<-ctx.Done()
	return s.scheduler.Shutdown()
}

func (s *Service) createScheduledJob(ctx context.Context, interval time.Duration, task func(context.Context),
	jobName string,
) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(jobName),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", jobName, err)
	}
	return nil
}

// printStatus renders the current tracker state and writes it as a single
// JSON line to the output writer.
func (s *Service) printStatus(context.Context) {
	state := s.controller.Snapshot()
	tplCtx := s.presenter.BuildContext(state)
	rendered, err := s.presenter.Render(tplCtx)
	if err != nil {
		s.logger.Error("failed to render status line", logger.Err(err))
		return
	}

	text := rendered["text"]
	s.displayAltLock.RLock()
	if s.displayAltText && state.HasCoord {
		text = rendered["alt_text"]
	}
	s.displayAltLock.RUnlock()

	output := outputData{
		Text:    text,
		Tooltip: rendered["tooltip"],
		Class:   tplCtx.StatusClass,
	}

	s.outLock.Lock()
	defer s.outLock.Unlock()
	if err := json.NewEncoder(s.out).Encode(output); err != nil {
		s.logger.Error("failed to encode status line", logger.Err(err))
	}
}

// onStateChange re-renders the status line immediately after every tracker
// transition, so the bar does not wait for the next scheduled output tick.
func (s *Service) onStateChange(tracker.State) {
	s.printStatus(context.Background())
}
