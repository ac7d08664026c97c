// buzzer_pattern_test.go - Tests for pattern validation

package main

import (
	"errors"
	"testing"
	"time"
)

func TestPatternValidate(t *testing.T) {
	tooMany := make([]Keyframe, MAX_KEYFRAME_COUNT+1)
	for i := range tooMany {
		tooMany[i] = Keyframe{Frequency: 440, Duration: 10}
	}

	cases := []struct {
		name string
		p    *Pattern
		ok   bool
	}{
		{"nil", nil, false},
		{"empty", &Pattern{Waveform: WAVE_SINE}, false},
		{"too many keyframes", &Pattern{Keyframes: tooMany, Waveform: WAVE_SINE}, false},
		{"max keyframes", &Pattern{Keyframes: tooMany[:MAX_KEYFRAME_COUNT], Waveform: WAVE_SINE}, true},
		{"unknown waveform", &Pattern{Keyframes: tooMany[:1], Waveform: Waveform(9)}, false},
		{"zero duration", &Pattern{Keyframes: []Keyframe{{Frequency: 440}}, Waveform: WAVE_SAW}, false},
		{"rest only", &Pattern{Keyframes: []Keyframe{{Duration: 100}}, Waveform: WAVE_SQUARE}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.p.Validate()
			if tc.ok && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("Validate() = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestPatternDuration(t *testing.T) {
	p := testPattern(false, Keyframe{440, 200}, Keyframe{0, 100}, Keyframe{880, 150})
	if got := p.Duration(); got != 450*time.Millisecond {
		t.Fatalf("Duration() = %v, want 450ms", got)
	}
	if !p.Keyframes[1].Silent() || p.Keyframes[0].Silent() {
		t.Fatal("only the zero-frequency keyframe is silent")
	}
}
