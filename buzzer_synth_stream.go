// buzzer_synth_stream.go - Continuous stream synthesis

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package main

import (
	"encoding/binary"
	"math"
	"sync/atomic"
)

// streamBuffer is a pre-rendered loop holding a whole number of cycles, so it
// can be replayed end to end without a phase jump.
type streamBuffer struct {
	samples   []float32
	frequency uint32
}

// StreamSynth feeds a fixed-rate audio stream from a pre-rendered buffer.
// Start renders a new buffer on the caller's goroutine and publishes it with a
// single pointer store; the audio callback only ever swaps which buffer it
// reads.
type StreamSynth struct {
	sampleRate int
	volume     float32
	active     atomic.Pointer[streamBuffer]

	// Callback-private state
	current *streamBuffer
	pos     int
}

func NewStreamSynth(sampleRate int, volume float32) *StreamSynth {
	return &StreamSynth{
		sampleRate: sampleRate,
		volume:     volume,
	}
}

func (s *StreamSynth) Start(table *WaveTable, frequency uint32) {
	if table == nil || frequency == 0 || int(frequency) >= s.sampleRate/2 {
		s.Stop()
		return
	}
	s.active.Store(renderStreamBuffer(table, frequency, s.sampleRate, s.volume))
}

func (s *StreamSynth) Stop() {
	s.active.Store(nil)
}

// renderStreamBuffer picks the cycle count whose length lands closest to
// STREAM_BUFFER_SIZE and resamples the table across it.
func renderStreamBuffer(table *WaveTable, frequency uint32, sampleRate int, volume float32) *streamBuffer {
	cycles := uint64(math.Round(float64(STREAM_BUFFER_SIZE) * float64(frequency) / float64(sampleRate)))
	if cycles == 0 {
		cycles = 1
	}
	n := uint64(math.Round(float64(cycles) * float64(sampleRate) / float64(frequency)))
	if n == 0 {
		n = 1
	}

	buf := &streamBuffer{
		samples:   make([]float32, n),
		frequency: frequency,
	}
	for i := uint64(0); i < n; i++ {
		idx := (i * cycles * WAVE_TABLE_SIZE / n) % WAVE_TABLE_SIZE
		buf.samples[i] = dacToSample(table[idx], volume)
	}
	return buf
}

func (s *StreamSynth) ReadSample() float32 {
	b := s.active.Load()
	if b != s.current {
		s.current = b
		s.pos = 0
	}
	if b == nil {
		return 0
	}
	v := b.samples[s.pos]
	s.pos++
	if s.pos == len(b.samples) {
		s.pos = 0
	}
	return v
}

// Read implements io.Reader with mono float32 little-endian frames.
func (s *StreamSynth) Read(p []byte) (int, error) {
	n := len(p) / 4
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s.ReadSample()))
	}
	return n * 4, nil
}
