// notation_parser_test.go - Tests for the music string parser

package main

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestParseNotationAlarmPatterns(t *testing.T) {
	cases := []struct {
		in   string
		want []Keyframe
	}{
		{"o4l2cr2c", []Keyframe{{262, 1000}, {0, 1000}, {262, 1000}}},
		{"o5l2co4f#", []Keyframe{{523, 1000}, {370, 1000}}},
		{"l4o6cf#o7co6f#c", []Keyframe{{1047, 500}, {1480, 500}, {2093, 500}, {1480, 500}, {1047, 500}}},
		{"o5l4cego6c", []Keyframe{{523, 500}, {659, 500}, {784, 500}, {1047, 500}}},
	}
	for _, tc := range cases {
		p, err := ParseNotation(tc.in)
		if err != nil {
			t.Errorf("ParseNotation(%q) error: %v", tc.in, err)
			continue
		}
		if !slices.Equal(p.Keyframes, tc.want) {
			t.Errorf("ParseNotation(%q) = %v, want %v", tc.in, p.Keyframes, tc.want)
		}
		if p.Waveform != WAVE_SQUARE || p.Loop {
			t.Errorf("ParseNotation(%q) waveform=%v loop=%v, want square without loop", tc.in, p.Waveform, p.Loop)
		}
	}
}

func TestParseNotationLengthsAndTempo(t *testing.T) {
	cases := []struct {
		in   string
		want Keyframe
	}{
		{"a", Keyframe{440, 500}},
		{"A", Keyframe{440, 500}},
		{"a8", Keyframe{440, 250}},
		{"a4.", Keyframe{440, 750}},
		{"a4..", Keyframe{440, 875}},
		{"a64", Keyframe{440, 31}},
		{"t60a", Keyframe{440, 1000}},
		{"b-", Keyframe{466, 500}},
		{"c+", Keyframe{277, 500}},
		{">a", Keyframe{880, 500}},
		{"<a", Keyframe{220, 500}},
		{"r16", Keyframe{0, 125}},
		{" a \n", Keyframe{440, 500}},
	}
	for _, tc := range cases {
		p, err := ParseNotation(tc.in)
		if err != nil {
			t.Errorf("ParseNotation(%q) error: %v", tc.in, err)
			continue
		}
		if len(p.Keyframes) != 1 || p.Keyframes[0] != tc.want {
			t.Errorf("ParseNotation(%q) = %v, want [%v]", tc.in, p.Keyframes, tc.want)
		}
	}
}

func TestParseNotationErrors(t *testing.T) {
	cases := []struct {
		in  string
		pos int
	}{
		{"", 0},
		{"o4", 2},
		{"ab?", 2},
		{"h", 0},
		{"o9c", 0},
		{"co", 1},
		{"l3c", 0},
		{"c3", 0},
		{"t10c", 0},
		{"t300c", 0},
		{"o0<c", 2},
		{"o8>c", 2},
		{strings.Repeat("c", MAX_KEYFRAME_COUNT+1), MAX_KEYFRAME_COUNT},
	}
	for _, tc := range cases {
		_, err := ParseNotation(tc.in)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("ParseNotation(%q) error = %v, want *ParseError", tc.in, err)
			continue
		}
		if pe.Pos != tc.pos {
			t.Errorf("ParseNotation(%q) error at %d, want %d (%v)", tc.in, pe.Pos, tc.pos, err)
		}
	}
}

func TestParseNotationMaxKeyframes(t *testing.T) {
	p, err := ParseNotation(strings.Repeat("c", MAX_KEYFRAME_COUNT))
	if err != nil {
		t.Fatalf("ParseNotation error: %v", err)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("parsed pattern should validate: %v", err)
	}
}
