// leak_detector.go - Application loop: poll the probe, sound and show alarms

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type LevelReader interface {
	ReadLevel() HydroLevel
}

type PatternPlayer interface {
	Init() error
	Play(p *Pattern) error
	Deinit() error
}

type StatusLED interface {
	BlinkColor(r, g, b uint8, period time.Duration) error
	StopBlink() error
}

// LeakDetector ties the sensor, buzzer and LED together. Each level above OK
// has its own alarm pattern which is restarted on every poll.
type LeakDetector struct {
	cfg    *Config
	sensor LevelReader
	buzzer PatternPlayer
	led    StatusLED
	status *runtimeStatusStore

	startup *Pattern
	alarms  [HYDRO_LEVEL_HIGH + 1]*Pattern
	last    HydroLevel
}

func NewLeakDetector(cfg *Config, sensor LevelReader, buzzer PatternPlayer, led StatusLED) (*LeakDetector, error) {
	if cfg == nil || sensor == nil || buzzer == nil || led == nil {
		return nil, fmt.Errorf("leak detector: missing component: %w", ErrInvalidArgument)
	}
	d := &LeakDetector{
		cfg:    cfg,
		sensor: sensor,
		buzzer: buzzer,
		led:    led,
		status: runtimeStatus,
		last:   HYDRO_LEVEL_ERR,
	}

	var err error
	if d.startup, err = d.build(PATTERN_STARTUP); err != nil {
		return nil, err
	}
	levels := map[HydroLevel]string{
		HYDRO_LEVEL_LOW:  PATTERN_LOW,
		HYDRO_LEVEL_MED:  PATTERN_MEDIUM,
		HYDRO_LEVEL_HIGH: PATTERN_HIGH,
	}
	for level, key := range levels {
		if d.alarms[level], err = d.build(key); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *LeakDetector) build(key string) (*Pattern, error) {
	pc, ok := d.cfg.Patterns[key]
	if !ok {
		return nil, fmt.Errorf("pattern %q missing: %w", key, ErrInvalidArgument)
	}
	p, err := pc.Build()
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", key, err)
	}
	p.Name = key
	return p, nil
}

// AlarmPattern returns the pattern played for level, nil for OK and ERR.
func (d *LeakDetector) AlarmPattern(level HydroLevel) *Pattern {
	if level <= HYDRO_LEVEL_OK || int(level) >= len(d.alarms) {
		return nil
	}
	return d.alarms[level]
}

// Start brings up the buzzer, plays the startup jingle and cycles the LED
// through red, green and blue. A buzzer that fails to come up is logged and
// the detector carries on with the LED alone.
func (d *LeakDetector) Start(ctx context.Context) error {
	if err := d.buzzer.Init(); err != nil {
		logger.Error("buzzer unavailable", "component", "LEAK_DETECTOR", "err", err)
	} else if err := d.buzzer.Play(d.startup); err != nil {
		return err
	}

	for _, c := range []LEDColor{{R: 255}, {G: 255}, {B: 255}} {
		if err := d.led.BlinkColor(c.R, c.G, c.B, d.cfg.AlarmPeriod); err != nil {
			return err
		}
		if err := sleepContext(ctx, d.cfg.StartupBlink); err != nil {
			_ = d.led.StopBlink()
			return err
		}
	}
	return d.led.StopBlink()
}

// Run polls the sensor until ctx is cancelled.
func (d *LeakDetector) Run(ctx context.Context) error {
	logger.Info("polling sensor", "component", "LEAK_DETECTOR", "interval", d.cfg.PollInterval)
	for {
		d.Poll()
		if err := sleepContext(ctx, d.cfg.PollInterval); err != nil {
			return nil
		}
	}
}

// Poll reads the sensor once and updates the buzzer and LED. It returns the
// level read.
func (d *LeakDetector) Poll() HydroLevel {
	level := d.sensor.ReadLevel()
	raw := -1
	if r, ok := d.sensor.(interface{ LastRaw() int }); ok {
		raw = r.LastRaw()
	}
	d.status.setSensor(level, raw)

	if level == HYDRO_LEVEL_ERR {
		logger.Info("failed to read sensor", "component", "LEAK_DETECTOR")
		return level
	}
	logger.Debug("sensor level", "component", "LEAK_DETECTOR", "level", level)
	if level != d.last {
		logger.Info("level changed", "component", "LEAK_DETECTOR", "from", d.last, "to", level)
		d.last = level
	}

	if p := d.AlarmPattern(level); p != nil {
		if err := d.buzzer.Play(p); err != nil && !errors.Is(err, ErrNotActive) {
			logger.Warn("alarm playback failed", "component", "LEAK_DETECTOR", "err", err)
		}
	}

	if level > HYDRO_LEVEL_OK {
		c := d.cfg.AlarmColor
		if err := d.led.BlinkColor(c.R, c.G, c.B, d.cfg.AlarmPeriod); err != nil {
			logger.Warn("alarm blink failed", "component", "LEAK_DETECTOR", "err", err)
		}
	} else if err := d.led.StopBlink(); err != nil && !errors.Is(err, ErrNotActive) {
		logger.Warn("stop blink failed", "component", "LEAK_DETECTOR", "err", err)
	}
	return level
}

// Shutdown silences the buzzer and darkens the LED.
func (d *LeakDetector) Shutdown() error {
	if err := d.led.StopBlink(); err != nil && !errors.Is(err, ErrNotActive) {
		return err
	}
	if err := d.buzzer.Deinit(); err != nil && !errors.Is(err, ErrNotActive) {
		return err
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
