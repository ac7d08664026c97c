// buzzer_control.go - Buzzer lifecycle: hardware bring-up, playback, teardown

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"strings"
	"sync"
)

const (
	SYNTH_STREAM = "stream"
	SYNTH_TIMER  = "timer"
)

// BuzzerHardware acquires the synthesis peripheral. Open is called once per
// Init and Close once per Deinit.
type BuzzerHardware interface {
	Open() (Synth, error)
	Close()
}

// audioHardware pairs a synthesis strategy with an audio backend that clocks
// it. It is the hosted-OS equivalent of the DAC and timer peripherals.
type audioHardware struct {
	strategy   string
	backend    int
	sampleRate int
	volume     float32
	output     AudioOutput
	newOutput  func(backend, sampleRate int, src SampleSource) (AudioOutput, error)
}

func NewAudioHardware(strategy string, backend int, volume float32) (BuzzerHardware, error) {
	strategy = strings.ToLower(strategy)
	if strategy != SYNTH_STREAM && strategy != SYNTH_TIMER {
		return nil, fmt.Errorf("unknown synth strategy %q: %w", strategy, ErrInvalidArgument)
	}
	if volume < 0 || volume > 1 {
		return nil, fmt.Errorf("volume %.2f out of range: %w", volume, ErrInvalidArgument)
	}
	return &audioHardware{
		strategy:   strategy,
		backend:    backend,
		sampleRate: STREAM_SAMPLE_RATE,
		volume:     volume,
		newOutput:  NewAudioOutput,
	}, nil
}

func (h *audioHardware) Open() (Synth, error) {
	synth, err := newSynthSource(h.strategy, h.sampleRate, h.volume)
	if err != nil {
		return nil, err
	}

	output, err := h.newOutput(h.backend, h.sampleRate, synth)
	if err != nil {
		return nil, err
	}
	output.Start()
	if !output.IsStarted() {
		output.Close()
		return nil, fmt.Errorf("audio backend %d did not start", h.backend)
	}
	h.output = output
	return synth, nil
}

func (h *audioHardware) Close() {
	if h.output != nil {
		h.output.Close()
		h.output = nil
	}
}

// Buzzer is the public face of the playback engine.
type Buzzer struct {
	hw    BuzzerHardware
	clock Clock

	mu       sync.Mutex
	seq      *Sequencer
	observer func(PlaybackSnapshot)
}

func NewBuzzer(hw BuzzerHardware, clock Clock) *Buzzer {
	if clock == nil {
		clock = NewMonotonicClock()
	}
	return &Buzzer{hw: hw, clock: clock}
}

// SetObserver forwards sequencer transitions to fn. It takes effect on the
// next Init.
func (b *Buzzer) SetObserver(fn func(PlaybackSnapshot)) {
	b.mu.Lock()
	b.observer = fn
	b.mu.Unlock()
}

// Init brings up the synthesis hardware and starts the sequencer task.
func (b *Buzzer) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.seq != nil {
		return fmt.Errorf("buzzer: %w", ErrAlreadyActive)
	}

	synth, err := b.hw.Open()
	if err != nil {
		return &HardwareInitError{Component: "buzzer", Err: err}
	}

	b.seq = NewSequencer(synth, b.clock)
	b.seq.SetObserver(b.observer)
	go b.seq.Run()

	logger.Info("buzzer initialised", "component", "BUZZER_CONTROL")
	return nil
}

// Play restarts playback from keyframe 0 of p. p must stay valid and
// unmodified for as long as it may be playing.
func (b *Buzzer) Play(p *Pattern) error {
	if err := p.Validate(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.seq == nil {
		return fmt.Errorf("buzzer: %w", ErrNotActive)
	}
	b.seq.Assign(p)
	return nil
}

// Deinit stops the sequencer, waits for it to silence the output and releases
// the hardware.
func (b *Buzzer) Deinit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.seq == nil {
		return fmt.Errorf("buzzer: %w", ErrNotActive)
	}
	b.seq.Quit()
	<-b.seq.Done()
	b.seq = nil
	b.hw.Close()

	logger.Info("buzzer deinitialised", "component", "BUZZER_CONTROL")
	return nil
}

func (b *Buzzer) State() SequencerState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.seq == nil {
		return SEQ_IDLE
	}
	return b.seq.State()
}

func (b *Buzzer) Snapshot() PlaybackSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.seq == nil {
		return PlaybackSnapshot{State: SEQ_IDLE}
	}
	return b.seq.Snapshot()
}
