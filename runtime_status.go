package main

import (
	"fmt"
	"strings"
	"sync"
)

type runtimeStatusSnapshot struct {
	level      HydroLevel
	raw        int
	readings   uint64
	failures   uint64
	seqState   SequencerState
	pattern    string
	index      int
	frequency  uint32
	ledColor   LEDColor
	ledBlinkOn bool
}

// runtimeStatusStore aggregates what the sensor, buzzer and LED last reported
// so the window and terminal front ends can render one status line.
type runtimeStatusStore struct {
	mu sync.RWMutex
	runtimeStatusSnapshot
}

func newRuntimeStatusStore() *runtimeStatusStore {
	return &runtimeStatusStore{runtimeStatusSnapshot: runtimeStatusSnapshot{level: HYDRO_LEVEL_ERR}}
}

func (s *runtimeStatusStore) setSensor(level HydroLevel, raw int) {
	s.mu.Lock()
	s.level = level
	s.raw = raw
	s.readings++
	if level == HYDRO_LEVEL_ERR {
		s.failures++
	}
	s.mu.Unlock()
}

func (s *runtimeStatusStore) setPlayback(snap PlaybackSnapshot) {
	s.mu.Lock()
	s.seqState = snap.State
	s.pattern = patternName(snap.Pattern)
	s.index = snap.Index
	s.frequency = snap.Frequency
	s.mu.Unlock()
}

func (s *runtimeStatusStore) setLED(c LEDColor, blinking bool) {
	s.mu.Lock()
	s.ledColor = c
	s.ledBlinkOn = blinking
	s.mu.Unlock()
}

func (s *runtimeStatusStore) snapshot() runtimeStatusSnapshot {
	s.mu.RLock()
	snap := s.runtimeStatusSnapshot
	s.mu.RUnlock()
	return snap
}

// line renders the snapshot as a single human readable status line.
func (snap runtimeStatusSnapshot) line() string {
	var b strings.Builder
	fmt.Fprintf(&b, "level=%s raw=%d", snap.level, snap.raw)
	fmt.Fprintf(&b, " buzzer=%s", snap.seqState)
	if snap.pattern != "" {
		fmt.Fprintf(&b, " pattern=%q %s", snap.pattern, formatNote(snap.index, snap.frequency))
	}
	led := "off"
	if snap.ledColor != (LEDColor{}) {
		led = snap.ledColor.String()
	}
	if snap.ledBlinkOn {
		led += " blinking"
	}
	fmt.Fprintf(&b, " led=%s", led)
	if snap.failures > 0 {
		fmt.Fprintf(&b, " read_errors=%d/%d", snap.failures, snap.readings)
	}
	return b.String()
}

func formatNote(index int, freq uint32) string {
	if freq == 0 {
		return fmt.Sprintf("#%d rest", index)
	}
	return fmt.Sprintf("#%d %dHz", index, freq)
}

var runtimeStatus = newRuntimeStatusStore()
