// led_blink.go - Single-pixel status LED with a blink task

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const (
	LED_MIN_BLINK_PERIOD = 20 * time.Millisecond
	LED_MAX_BLINK_PERIOD = 10 * time.Second
	LED_DEFAULT_PERIOD   = 500 * time.Millisecond
)

// LEDStrip is a single addressable pixel.
type LEDStrip interface {
	SetPixel(r, g, b uint8) error
	Clear() error
}

type LEDColor struct {
	R, G, B uint8
}

func (c LEDColor) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

type blinkSettings struct {
	color  LEDColor
	period time.Duration
}

// LEDBlinker drives an LEDStrip either steadily or from a blink goroutine.
// Colour and period changes made while blinking are picked up on the next
// toggle.
type LEDBlinker struct {
	strip   LEDStrip
	stripMu sync.Mutex

	mu       sync.Mutex
	commands *CommandChannel
	done     chan struct{}

	settings atomic.Pointer[blinkSettings]
	lit      atomic.Bool
	observer func(LEDColor, bool)
}

func NewLEDBlinker(strip LEDStrip) (*LEDBlinker, error) {
	l := &LEDBlinker{strip: strip}
	l.settings.Store(&blinkSettings{period: LED_DEFAULT_PERIOD})
	if err := strip.Clear(); err != nil {
		return nil, &HardwareInitError{Component: "led", Err: err}
	}
	return l, nil
}

// SetObserver is called with the colour shown and whether the blink task is
// running, after every strip update.
func (l *LEDBlinker) SetObserver(fn func(LEDColor, bool)) {
	l.stripMu.Lock()
	l.observer = fn
	l.stripMu.Unlock()
}

// SetColor shows c now. While blinking, c also becomes the blink colour and
// the period is kept.
func (l *LEDBlinker) SetColor(r, g, b uint8) error {
	c := LEDColor{r, g, b}
	l.settings.Store(&blinkSettings{color: c, period: l.settings.Load().period})
	return l.show(c, l.Blinking())
}

// BlinkColor starts blinking, or retargets a running blink.
func (l *LEDBlinker) BlinkColor(r, g, b uint8, period time.Duration) error {
	if period < LED_MIN_BLINK_PERIOD || period > LED_MAX_BLINK_PERIOD {
		return fmt.Errorf("blink period %v outside %v..%v: %w",
			period, LED_MIN_BLINK_PERIOD, LED_MAX_BLINK_PERIOD, ErrInvalidArgument)
	}
	l.settings.Store(&blinkSettings{color: LEDColor{r, g, b}, period: period})

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.commands != nil {
		return nil
	}
	l.commands = NewCommandChannel()
	l.done = make(chan struct{})
	go l.blink(l.commands, l.done)

	logger.Debug("blink started", "component", "C3_LED_BLINK", "color", LEDColor{r, g, b}, "period", period)
	return nil
}

// StopBlink ends the blink task and leaves the LED dark.
func (l *LEDBlinker) StopBlink() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.commands == nil {
		return fmt.Errorf("led blink: %w", ErrNotActive)
	}
	l.commands.Send(CmdQuit)
	<-l.done
	l.commands = nil
	l.done = nil
	return nil
}

func (l *LEDBlinker) Blinking() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.commands != nil
}

func (l *LEDBlinker) blink(commands *CommandChannel, done chan struct{}) {
	defer close(done)
	on := true
	for {
		s := l.settings.Load()
		if cmd, ok := commands.Wait(s.period / 2); ok && cmd == CmdQuit {
			logger.Info("quitting blink loop", "component", "C3_LED_BLINK")
			l.clear(false)
			return
		}

		logger.Debug("blink", "component", "C3_LED_BLINK", "on", on)
		var err error
		if on {
			err = l.show(l.settings.Load().color, true)
		} else {
			err = l.clear(true)
		}
		if err != nil {
			logger.Warn("led update failed", "component", "C3_LED_BLINK", "err", err)
		}
		on = !on
	}
}

func (l *LEDBlinker) show(c LEDColor, blinking bool) error {
	l.stripMu.Lock()
	defer l.stripMu.Unlock()
	if err := l.strip.SetPixel(c.R, c.G, c.B); err != nil {
		return err
	}
	l.lit.Store(c != LEDColor{})
	if l.observer != nil {
		l.observer(c, blinking)
	}
	return nil
}

func (l *LEDBlinker) clear(blinking bool) error {
	l.stripMu.Lock()
	defer l.stripMu.Unlock()
	if err := l.strip.Clear(); err != nil {
		return err
	}
	l.lit.Store(false)
	if l.observer != nil {
		l.observer(LEDColor{}, blinking)
	}
	return nil
}

// Lit reports whether the pixel currently shows a non-black colour.
func (l *LEDBlinker) Lit() bool {
	return l.lit.Load()
}
