// buzzer_waves.go - Waveform lookup tables for the buzzer synthesis layer

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"math"
	"strings"
)

// Waveform selects one of the precomputed tables.
type Waveform int

const (
	WAVE_SINE Waveform = iota
	WAVE_SAW
	WAVE_SQUARE
)

// WaveTable maps a phase index to an unsigned DAC sample.
type WaveTable [WAVE_TABLE_SIZE]uint8

// The tables are filled once by init and never written again. Both the
// sequencer and the synthesis callback read them without locking.
var (
	sineTable   WaveTable
	sawTable    WaveTable
	squareTable WaveTable
)

func init() {
	generateSine(&sineTable)
	generateSaw(&sawTable)
	generateSquare(&squareTable)
}

// generateSine fills one full cycle centred on the DAC midpoint.
func generateSine(t *WaveTable) {
	halfMax := float64(DAC_MAX) / 2
	for i := range t {
		phase := 2 * math.Pi * float64(i) / WAVE_TABLE_SIZE
		v := math.Round(math.Sin(phase)*halfMax + halfMax)
		t[i] = uint8(min(max(v, 0), DAC_MAX))
	}
}

// generateSaw is a linear ramp from 0 to just under full scale.
func generateSaw(t *WaveTable) {
	for i := range t {
		t[i] = uint8(i * (DAC_MAX + 1) / WAVE_TABLE_SIZE)
	}
}

// generateSquare is low for the first half cycle and high for the second.
func generateSquare(t *WaveTable) {
	for i := range t {
		if i < WAVE_TABLE_SIZE/2 {
			t[i] = 0
		} else {
			t[i] = DAC_MAX
		}
	}
}

// Table returns the shared table for w, or nil for an unknown waveform.
func (w Waveform) Table() *WaveTable {
	switch w {
	case WAVE_SINE:
		return &sineTable
	case WAVE_SAW:
		return &sawTable
	case WAVE_SQUARE:
		return &squareTable
	default:
		return nil
	}
}

func (w Waveform) String() string {
	switch w {
	case WAVE_SINE:
		return "sine"
	case WAVE_SAW:
		return "saw"
	case WAVE_SQUARE:
		return "square"
	default:
		return fmt.Sprintf("waveform(%d)", int(w))
	}
}

// ParseWaveform accepts the names used in configuration files.
func ParseWaveform(name string) (Waveform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sine", "sin":
		return WAVE_SINE, nil
	case "saw", "sawtooth":
		return WAVE_SAW, nil
	case "square", "sq":
		return WAVE_SQUARE, nil
	default:
		return 0, fmt.Errorf("unknown waveform %q: %w", name, ErrInvalidArgument)
	}
}
