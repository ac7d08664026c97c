// buzzer_timer_driver_test.go - Tests for the sample-clocked timer driver

package main

import "testing"

func TestTimerDriverTickRate(t *testing.T) {
	d := NewTimerDriver(STREAM_SAMPLE_RATE, 1)
	ticks := uint64(0)
	for i := 0; i < STREAM_SAMPLE_RATE; i++ {
		before := d.acc
		d.ReadSample()
		ticks += (before + d.tickRate - d.acc) / d.sampleRate
	}
	if ticks != TIMER_TICK_HZ {
		t.Fatalf("one second of samples fired %d ticks, want %d", ticks, TIMER_TICK_HZ)
	}
	if d.acc != 0 {
		t.Fatalf("accumulator should be empty after a whole second, got %d", d.acc)
	}
}

func TestTimerDriverSquareOutput(t *testing.T) {
	d := NewTimerDriver(STREAM_SAMPLE_RATE, 1)
	idle := differentialToSample(DAC_MIDPOINT, DAC_MAX-DAC_MIDPOINT, 1)
	if v := d.ReadSample(); v != idle || v > 0.005 {
		t.Fatalf("idle driver produced %v, want %v", v, idle)
	}

	d.Start(WAVE_SQUARE.Table(), 1000)
	lows, highs := 0, 0
	for i := 0; i < STREAM_SAMPLE_RATE/10; i++ {
		switch v := d.ReadSample(); {
		case v == -1:
			lows++
		case v > 0.99:
			highs++
		default:
			t.Fatalf("sample %d = %v, want a square level", i, v)
		}
	}
	if diff := lows - highs; diff < -100 || diff > 100 {
		t.Fatalf("square duty cycle off: %d low, %d high", lows, highs)
	}
	pos, neg := d.Latches()
	for _, latch := range []*DACLatch{pos, neg} {
		if w := latch.Writes(); w < 195 || w > 205 {
			t.Fatalf("100 cycles wrote a DAC channel %d times, want about 200", w)
		}
	}

	d.Stop()
	d.ReadSample()
	if v := d.ReadSample(); v != idle {
		t.Fatalf("stopped driver produced %v, want %v", v, idle)
	}
}

func TestTimerDriverDrivesDifferentialPair(t *testing.T) {
	d := NewTimerDriver(STREAM_SAMPLE_RATE, 0.5)
	pos, neg := d.Latches()
	if pos.Level() != DAC_MIDPOINT || neg.Level() != DAC_MAX-DAC_MIDPOINT {
		t.Fatalf("idle pair = %d/%d", pos.Level(), neg.Level())
	}

	d.Start(WAVE_SINE.Table(), 440)
	for i := 0; i < STREAM_SAMPLE_RATE/100; i++ {
		v := d.ReadSample()
		p, n := pos.Level(), neg.Level()
		if uint16(p)+uint16(n) != DAC_MAX {
			t.Fatalf("sample %d: pair %d/%d not in opposite phase", i, p, n)
		}
		if want := differentialToSample(p, n, 0.5); v != want {
			t.Fatalf("sample %d = %v, want %v from the pair", i, v, want)
		}
	}
}
