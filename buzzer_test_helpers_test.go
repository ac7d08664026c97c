// buzzer_test_helpers_test.go - Fakes shared by the buzzer, sensor and LED tests

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"
)

// manualClock only moves when told to; Sleep advances it.
type manualClock struct {
	mu  sync.Mutex
	now time.Duration
}

func (c *manualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Sleep(d time.Duration) {
	c.Advance(d)
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()
}

// recordingSynth logs Start and Stop calls as "start <freq>" and "stop".
type recordingSynth struct {
	mu     sync.Mutex
	events []string
	table  *WaveTable
	freq   uint32
}

func (s *recordingSynth) Start(table *WaveTable, frequency uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, fmt.Sprintf("start %d", frequency))
	s.table = table
	s.freq = frequency
}

func (s *recordingSynth) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, "stop")
	s.table = nil
	s.freq = 0
}

func (s *recordingSynth) Events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.events...)
}

func (s *recordingSynth) Reset() {
	s.mu.Lock()
	s.events = nil
	s.mu.Unlock()
}

// starts returns only the "start" events.
func (s *recordingSynth) starts() []string {
	var out []string
	for _, e := range s.Events() {
		if e != "stop" {
			out = append(out, e)
		}
	}
	return out
}

type fakeHardware struct {
	synth   *recordingSynth
	openErr error
	opens   int
	closes  int
}

func (h *fakeHardware) Open() (Synth, error) {
	h.opens++
	if h.openErr != nil {
		return nil, h.openErr
	}
	return h.synth, nil
}

func (h *fakeHardware) Close() {
	h.closes++
}

// recordingDAC keeps every level written.
type recordingDAC struct {
	levels []uint8
}

func (d *recordingDAC) WriteLevel(level uint8) {
	d.levels = append(d.levels, level)
}

// recordingLED logs pixel updates as colours, black for Clear.
type recordingLED struct {
	mu      sync.Mutex
	colors  []LEDColor
	failErr error
}

func (l *recordingLED) SetPixel(r, g, b uint8) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failErr != nil {
		return l.failErr
	}
	l.colors = append(l.colors, LEDColor{r, g, b})
	return nil
}

func (l *recordingLED) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failErr != nil {
		return l.failErr
	}
	l.colors = append(l.colors, LEDColor{})
	return nil
}

func (l *recordingLED) Colors() []LEDColor {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LEDColor(nil), l.colors...)
}

// fakeSerialPort answers every request with the next scripted reply.
// A reply of "" simulates a read timeout.
type fakeSerialPort struct {
	mu       sync.Mutex
	requests bytes.Buffer
	replies  []string
	pending  []byte
	closed   bool
}

func (p *fakeSerialPort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, io.ErrClosedPipe
	}
	p.requests.Write(b)
	if bytes.HasSuffix(b, []byte("\n")) && len(p.replies) > 0 {
		p.pending = append(p.pending, p.replies[0]...)
		p.replies = p.replies[1:]
	}
	return len(b), nil
}

func (p *fakeSerialPort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, io.ErrClosedPipe
	}
	n := copy(b, p.pending)
	p.pending = p.pending[n:]
	return n, nil
}

func (p *fakeSerialPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// fixedLevels is a LevelReader replaying a list of levels.
type fixedLevels struct {
	levels []HydroLevel
	next   int
}

func (f *fixedLevels) ReadLevel() HydroLevel {
	if len(f.levels) == 0 {
		return HYDRO_LEVEL_ERR
	}
	l := f.levels[f.next%len(f.levels)]
	f.next++
	return l
}

// fakePlayer records every pattern handed to Play.
type fakePlayer struct {
	initErr error
	active  bool
	played  []string
	deinits int
}

func (p *fakePlayer) Init() error {
	if p.initErr != nil {
		return p.initErr
	}
	if p.active {
		return ErrAlreadyActive
	}
	p.active = true
	return nil
}

func (p *fakePlayer) Play(pat *Pattern) error {
	if err := pat.Validate(); err != nil {
		return err
	}
	if !p.active {
		return ErrNotActive
	}
	p.played = append(p.played, pat.Name)
	return nil
}

func (p *fakePlayer) Deinit() error {
	if !p.active {
		return ErrNotActive
	}
	p.active = false
	p.deinits++
	return nil
}

var errFakeHardware = errors.New("fake hardware fault")

func testPattern(loop bool, frames ...Keyframe) *Pattern {
	return &Pattern{Name: "test", Keyframes: frames, Waveform: WAVE_SINE, Loop: loop}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out after %v waiting for %s", timeout, what)
		}
		time.Sleep(time.Millisecond)
	}
}
