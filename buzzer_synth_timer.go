// buzzer_synth_timer.go - Timer interrupt / phase accumulator synthesis

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package main

import "sync/atomic"

// DACOutput is an 8-bit DAC channel.
type DACOutput interface {
	WriteLevel(level uint8)
}

// DifferentialDAC drives a buzzer across two DAC channels in opposite phase.
type DifferentialDAC struct {
	Pos DACOutput
	Neg DACOutput
}

func (d DifferentialDAC) WriteLevel(level uint8) {
	d.Pos.WriteLevel(level)
	d.Neg.WriteLevel(DAC_MAX - level)
}

// timerVoice is published as a whole so Tick never sees a table paired with
// the wrong period.
type timerVoice struct {
	table           *WaveTable
	halfPeriodTicks uint32
}

// TimerSynth updates a DAC once per timer alarm. Start and Stop run on the
// sequencer goroutine; Tick runs in the interrupt context and owns playPos.
type TimerSynth struct {
	voice atomic.Pointer[timerVoice]
	out   DACOutput

	// Interrupt-private state
	current   *timerVoice
	playPos   uint32
	lastLevel uint8
}

func NewTimerSynth(out DACOutput) *TimerSynth {
	s := &TimerSynth{
		out:       out,
		lastLevel: DAC_MIDPOINT,
	}
	out.WriteLevel(DAC_MIDPOINT)
	return s
}

// HalfPeriodTicks returns the number of timer ticks in half a cycle of
// frequency, or 0 when the frequency is zero or above the tick rate.
func HalfPeriodTicks(frequency uint32) uint32 {
	if frequency == 0 {
		return 0
	}
	return uint32(uint64(TIMER_RES_HZ) / (uint64(TIMER_ALARM_COUNT) * 2 * uint64(frequency)))
}

func (s *TimerSynth) Start(table *WaveTable, frequency uint32) {
	half := HalfPeriodTicks(frequency)
	if table == nil || half == 0 {
		s.Stop()
		return
	}
	s.voice.Store(&timerVoice{table: table, halfPeriodTicks: half})
}

func (s *TimerSynth) Stop() {
	s.voice.Store(nil)
}

// Tick advances the phase accumulator by one timer alarm and writes the DAC
// only when the level changes. It never allocates, blocks or locks.
func (s *TimerSynth) Tick() {
	level := uint8(DAC_MIDPOINT)

	v := s.voice.Load()
	if v != s.current {
		s.current = v
		s.playPos = 0
	}
	if v != nil {
		period := 2 * v.halfPeriodTicks
		s.playPos = (s.playPos + 1) % period
		progress := uint64(s.playPos) * WAVE_TABLE_SIZE / uint64(period)
		level = v.table[progress]
	}

	if level != s.lastLevel {
		s.out.WriteLevel(level)
		s.lastLevel = level
	}
}

// PlayPos exposes the phase accumulator for tests and diagnostics. It must only
// be called from the goroutine that calls Tick.
func (s *TimerSynth) PlayPos() uint32 {
	return s.playPos
}
