// buzzer_sequencer.go - Keyframe playback state machine

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package main

import (
	"sync/atomic"
	"time"
)

type SequencerState int32

const (
	SEQ_IDLE SequencerState = iota
	SEQ_PLAYING
	SEQ_TRANSITIONING
)

func (s SequencerState) String() string {
	switch s {
	case SEQ_IDLE:
		return "idle"
	case SEQ_PLAYING:
		return "playing"
	case SEQ_TRANSITIONING:
		return "transitioning"
	default:
		return "unknown"
	}
}

// PlaybackSnapshot is a consistent view of the cursor, published after every
// transition.
type PlaybackSnapshot struct {
	State     SequencerState
	Pattern   *Pattern
	Index     int
	Frequency uint32
	Waveform  *WaveTable
}

// playbackCursor is owned by the sequencer goroutine.
type playbackCursor struct {
	pattern        *Pattern
	index          int
	keyframe       *Keyframe
	nextTransition time.Duration
	activeWave     *WaveTable
}

// Sequencer walks the current pattern against the clock and reconfigures the
// synth on every keyframe change. All cursor state is private to the goroutine
// running Run; other goroutines talk to it through Assign and Quit.
type Sequencer struct {
	synth        Synth
	clock        Clock
	commands     *CommandChannel
	pollInterval time.Duration
	settleDelay  time.Duration

	pending  atomic.Pointer[Pattern]
	state    atomic.Int32
	snapshot atomic.Pointer[PlaybackSnapshot]
	observer func(PlaybackSnapshot)

	cursor  playbackCursor
	changed bool
	done    chan struct{}
}

func NewSequencer(synth Synth, clock Clock) *Sequencer {
	s := &Sequencer{
		synth:        synth,
		clock:        clock,
		commands:     NewCommandChannel(),
		pollInterval: POLL_INTERVAL,
		settleDelay:  SETTLE_DELAY,
		done:         make(chan struct{}),
	}
	s.snapshot.Store(&PlaybackSnapshot{State: SEQ_IDLE})
	return s
}

// SetObserver registers fn to be called on the sequencer goroutine after each
// transition. It must be set before Run.
func (s *Sequencer) SetObserver(fn func(PlaybackSnapshot)) {
	s.observer = fn
}

// Assign makes p the current pattern and restarts it from keyframe 0.
func (s *Sequencer) Assign(p *Pattern) {
	s.pending.Store(p)
	s.commands.Send(CmdReset)
}

// Quit asks the sequencer to silence the output and exit.
func (s *Sequencer) Quit() {
	s.commands.Send(CmdQuit)
}

// Done is closed when Run returns.
func (s *Sequencer) Done() <-chan struct{} {
	return s.done
}

func (s *Sequencer) State() SequencerState {
	return SequencerState(s.state.Load())
}

func (s *Sequencer) Snapshot() PlaybackSnapshot {
	return *s.snapshot.Load()
}

// Run is the sequencer task. A command wait that times out is the normal
// heartbeat that checks for keyframe expiry.
func (s *Sequencer) Run() {
	defer close(s.done)
	for {
		cmd, ok := s.commands.Wait(s.pollInterval)
		if !s.step(cmd, ok) {
			return
		}
	}
}

// step handles one wake-up. It returns false once the sequencer has quit.
func (s *Sequencer) step(cmd Command, ok bool) bool {
	if ok {
		switch cmd {
		case CmdQuit:
			logger.Info("quitting buzzer loop", "component", "BUZZER_CONTROL")
			s.shutdown()
			return false
		case CmdReset:
			s.reset()
		}
	} else if s.cursor.pattern != nil && s.advance(s.clock.Now()) {
		s.changed = true
	}

	if s.changed {
		s.transition()
		s.changed = false
	}
	return true
}

func (s *Sequencer) reset() {
	p := s.pending.Load()
	logger.Debug("resetting", "component", "BUZZER_CONTROL", "pattern", patternName(p))

	s.cursor.pattern = p
	s.cursor.index = 0
	s.cursor.keyframe = nil
	if p != nil && len(p.Keyframes) > 0 {
		s.cursor.keyframe = &p.Keyframes[0]
	}
	s.cursor.nextTransition = 0
	s.changed = true
}

// advance moves to the next keyframe once the current one has expired.
func (s *Sequencer) advance(now time.Duration) bool {
	if s.cursor.keyframe == nil {
		return false
	}
	if now < s.cursor.nextTransition {
		return false
	}

	s.cursor.index++
	if s.cursor.index == len(s.cursor.pattern.Keyframes) {
		s.cursor.index = 0
		if !s.cursor.pattern.Loop {
			s.cursor.keyframe = nil
			s.cursor.pattern = nil
			return true
		}
	}
	s.cursor.keyframe = &s.cursor.pattern.Keyframes[s.cursor.index]
	return true
}

// transition silences the synth, waits out the settle delay and then starts
// whatever the cursor now points at.
func (s *Sequencer) transition() {
	s.setState(SEQ_TRANSITIONING)
	s.synth.Stop()
	s.cursor.activeWave = nil
	s.clock.Sleep(s.settleDelay)

	kf := s.cursor.keyframe
	if kf == nil {
		s.setState(SEQ_IDLE)
		s.publish()
		return
	}

	s.cursor.nextTransition = s.clock.Now() + kf.Length()
	if !kf.Silent() {
		table := s.cursor.pattern.Waveform.Table()
		s.synth.Start(table, kf.Frequency)
		s.cursor.activeWave = table
	}
	s.setState(SEQ_PLAYING)
	s.publish()
}

func (s *Sequencer) shutdown() {
	s.synth.Stop()
	s.cursor = playbackCursor{}
	s.pending.Store(nil)
	s.setState(SEQ_IDLE)
	s.publish()
}

func (s *Sequencer) setState(state SequencerState) {
	s.state.Store(int32(state))
}

func (s *Sequencer) publish() {
	snap := &PlaybackSnapshot{
		State:    s.State(),
		Pattern:  s.cursor.pattern,
		Index:    s.cursor.index,
		Waveform: s.cursor.activeWave,
	}
	if kf := s.cursor.keyframe; kf != nil {
		snap.Frequency = kf.Frequency
	}
	s.snapshot.Store(snap)

	logger.Debug("keyframe transition", "component", "BUZZER_CONTROL",
		"state", snap.State, "pattern", patternName(snap.Pattern), "index", snap.Index, "freq", snap.Frequency)
	if s.observer != nil {
		s.observer(*snap)
	}
}

func patternName(p *Pattern) string {
	if p == nil {
		return ""
	}
	return p.Name
}
