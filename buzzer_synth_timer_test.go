// buzzer_synth_timer_test.go - Tests for the timer-driven DAC synth

package main

import "testing"

func TestHalfPeriodTicks(t *testing.T) {
	cases := []struct {
		freq uint32
		want uint32
	}{
		{0, 0},
		{440, 113},
		{1000, 50},
		{50000, 1},
		{60000, 0},
	}
	for _, tc := range cases {
		if got := HalfPeriodTicks(tc.freq); got != tc.want {
			t.Errorf("HalfPeriodTicks(%d) = %d, want %d", tc.freq, got, tc.want)
		}
	}
}

func TestTimerSynthPlayPosStaysInPeriod(t *testing.T) {
	dac := &recordingDAC{}
	s := NewTimerSynth(dac)

	for _, freq := range []uint32{440, 1047, 2093, 50000} {
		s.Start(WAVE_SINE.Table(), freq)
		period := 2 * HalfPeriodTicks(freq)
		for i := 0; i < 20000; i++ {
			s.Tick()
			if pos := s.PlayPos(); pos >= period {
				t.Fatalf("freq %d: playPos %d escaped [0,%d) after %d ticks", freq, pos, period, i+1)
			}
		}
	}
}

func TestTimerSynthWritesOnlyOnEdges(t *testing.T) {
	dac := &recordingDAC{}
	s := NewTimerSynth(dac)
	if len(dac.levels) != 1 || dac.levels[0] != DAC_MIDPOINT {
		t.Fatalf("new synth should park the DAC at midpoint, got %v", dac.levels)
	}

	s.Start(WAVE_SQUARE.Table(), 1000)
	period := int(2 * HalfPeriodTicks(1000))
	for i := 0; i < 10*period; i++ {
		s.Tick()
	}

	// One write leaving the midpoint, then two edges per cycle.
	if got := len(dac.levels) - 1; got < 19 || got > 21 {
		t.Fatalf("square wave over 10 cycles wrote %d levels, want about 20", got)
	}
	for i := 1; i < len(dac.levels); i++ {
		if dac.levels[i] == dac.levels[i-1] {
			t.Fatalf("write %d repeats level %d", i, dac.levels[i])
		}
	}
}

func TestTimerSynthSilentVoices(t *testing.T) {
	cases := []struct {
		name  string
		table *WaveTable
		freq  uint32
	}{
		{"zero frequency", WAVE_SINE.Table(), 0},
		{"nil table", nil, 440},
		{"above tick rate", WAVE_SAW.Table(), 80000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dac := &recordingDAC{}
			s := NewTimerSynth(dac)
			s.Start(tc.table, tc.freq)
			for i := 0; i < 1000; i++ {
				s.Tick()
			}
			if len(dac.levels) != 1 {
				t.Fatalf("silent voice wrote %v", dac.levels)
			}
			if s.PlayPos() != 0 {
				t.Fatalf("silent voice advanced playPos to %d", s.PlayPos())
			}
		})
	}
}

func TestTimerSynthStopReturnsToMidpoint(t *testing.T) {
	dac := &recordingDAC{}
	s := NewTimerSynth(dac)
	s.Start(WAVE_SQUARE.Table(), 440)
	s.Tick()
	s.Stop()
	s.Tick()

	if last := dac.levels[len(dac.levels)-1]; last != DAC_MIDPOINT {
		t.Fatalf("DAC left at %d after stop, want %d", last, DAC_MIDPOINT)
	}
}

func TestTimerSynthVoiceChangeRestartsPhase(t *testing.T) {
	s := NewTimerSynth(&recordingDAC{})
	s.Start(WAVE_SINE.Table(), 440)
	for i := 0; i < 50; i++ {
		s.Tick()
	}
	if s.PlayPos() != 50 {
		t.Fatalf("playPos = %d, want 50", s.PlayPos())
	}

	s.Start(WAVE_SINE.Table(), 880)
	s.Tick()
	if s.PlayPos() != 1 {
		t.Fatalf("playPos after voice change = %d, want 1", s.PlayPos())
	}
}

func TestDifferentialDAC(t *testing.T) {
	pos, neg := NewDACLatch(), NewDACLatch()
	d := DifferentialDAC{Pos: pos, Neg: neg}
	d.WriteLevel(200)
	if pos.Level() != 200 || neg.Level() != 55 {
		t.Fatalf("differential pair = %d/%d, want 200/55", pos.Level(), neg.Level())
	}
}
