// buzzer_synth_stream_test.go - Tests for the pre-rendered stream synth

package main

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestRenderStreamBufferHoldsWholeCycles(t *testing.T) {
	for _, freq := range []uint32{262, 440, 1047, 2093, 5000} {
		buf := renderStreamBuffer(WAVE_SAW.Table(), freq, STREAM_SAMPLE_RATE, 1)
		n := len(buf.samples)
		samplesPerCycle := float64(STREAM_SAMPLE_RATE) / float64(freq)
		if math.Abs(float64(n)-STREAM_BUFFER_SIZE) > samplesPerCycle {
			t.Errorf("freq %d: buffer of %d samples is more than one cycle from %d", freq, n, STREAM_BUFFER_SIZE)
		}

		// The saw resets once per cycle, so the resets count the cycles.
		resets := 0
		for i := 1; i < n; i++ {
			if buf.samples[i] < buf.samples[i-1] {
				resets++
			}
		}
		cycles := math.Round(STREAM_BUFFER_SIZE * float64(freq) / STREAM_SAMPLE_RATE)
		if float64(resets+1) != cycles {
			t.Errorf("freq %d: %d cycles in buffer, want %.0f", freq, resets+1, cycles)
		}
	}
}

func TestRenderStreamBufferLowFrequency(t *testing.T) {
	buf := renderStreamBuffer(WAVE_SINE.Table(), 10, STREAM_SAMPLE_RATE, 1)
	if len(buf.samples) != STREAM_SAMPLE_RATE/10 {
		t.Fatalf("10 Hz buffer has %d samples, want one cycle of %d", len(buf.samples), STREAM_SAMPLE_RATE/10)
	}
}

func TestStreamSynthLoopsBuffer(t *testing.T) {
	s := NewStreamSynth(STREAM_SAMPLE_RATE, 1)
	s.Start(WAVE_SINE.Table(), 440)
	n := len(s.active.Load().samples)

	first := make([]float32, n)
	for i := range first {
		first[i] = s.ReadSample()
	}
	for i := 0; i < n; i++ {
		if got := s.ReadSample(); got != first[i] {
			t.Fatalf("second pass sample %d = %v, want %v", i, got, first[i])
		}
	}
	if first[0] != dacToSample(WAVE_SINE.Table()[0], 1) {
		t.Fatalf("buffer should start at table index 0")
	}
}

func TestStreamSynthSilence(t *testing.T) {
	cases := []struct {
		name  string
		table *WaveTable
		freq  uint32
	}{
		{"zero frequency", WAVE_SINE.Table(), 0},
		{"nil table", nil, 440},
		{"at nyquist", WAVE_SINE.Table(), STREAM_SAMPLE_RATE / 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewStreamSynth(STREAM_SAMPLE_RATE, 1)
			s.Start(WAVE_SQUARE.Table(), 440)
			s.Start(tc.table, tc.freq)
			for i := 0; i < 100; i++ {
				if v := s.ReadSample(); v != 0 {
					t.Fatalf("sample %d = %v, want silence", i, v)
				}
			}
		})
	}
}

func TestStreamSynthStopAndRestart(t *testing.T) {
	s := NewStreamSynth(STREAM_SAMPLE_RATE, 0.5)
	s.Start(WAVE_SQUARE.Table(), 1000)
	if v := s.ReadSample(); v != -0.5 {
		t.Fatalf("square starts low at half volume: got %v, want -0.5", v)
	}
	s.ReadSample()

	s.Stop()
	if v := s.ReadSample(); v != 0 {
		t.Fatalf("stopped synth produced %v", v)
	}

	s.Start(WAVE_SQUARE.Table(), 1000)
	if v := s.ReadSample(); v != -0.5 {
		t.Fatalf("restart should begin at buffer start: got %v", v)
	}
}

func TestStreamSynthReadEncodesFloat32(t *testing.T) {
	s := NewStreamSynth(STREAM_SAMPLE_RATE, 1)
	s.Start(WAVE_SQUARE.Table(), 1000)

	p := make([]byte, 4*8+3)
	n, err := s.Read(p)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if n != 32 {
		t.Fatalf("Read returned %d bytes, want 32", n)
	}
	if v := math.Float32frombits(binary.LittleEndian.Uint32(p)); v != -1 {
		t.Fatalf("first frame = %v, want -1", v)
	}
}
