// notation_parser.go - Music string parser for buzzer patterns

package main

import "math"

const (
	NOTATION_DEFAULT_OCTAVE = 4
	NOTATION_DEFAULT_LENGTH = 4
	NOTATION_DEFAULT_TEMPO  = 120
	NOTATION_MIN_TEMPO      = 32
	NOTATION_MAX_TEMPO      = 255
	NOTATION_MAX_OCTAVE     = 8
	NOTATION_MAX_LENGTH     = 64
)

// Semitone offsets from C for the note letters a-g.
var noteSemitones = [7]int{
	9,  // a
	11, // b
	0,  // c
	2,  // d
	4,  // e
	5,  // f
	7,  // g
}

type notationParser struct {
	input  string
	pos    int
	octave int
	length int
	tempo  int
	frames []Keyframe
}

// ParseNotation converts a music string such as "o5l4cego6c" into a pattern.
//
//	a-g     note, followed by optional #, + (sharp) or - (flat), length and dots
//	r       rest, with optional length and dots
//	o<n>    octave 0-8 (default 4); < and > step down and up
//	l<n>    default note length as a fraction of a whole note (default 4)
//	t<n>    tempo in quarter notes per minute (default 120)
//
// The result uses the square waveform and does not loop; callers adjust both.
func ParseNotation(text string) (*Pattern, error) {
	p := &notationParser{
		input:  text,
		octave: NOTATION_DEFAULT_OCTAVE,
		length: NOTATION_DEFAULT_LENGTH,
		tempo:  NOTATION_DEFAULT_TEMPO,
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return &Pattern{
		Name:      text,
		Keyframes: p.frames,
		Waveform:  WAVE_SQUARE,
	}, nil
}

func (p *notationParser) parse() error {
	for p.pos < len(p.input) {
		c := lower(p.input[p.pos])
		start := p.pos
		p.pos++

		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
		case c >= 'a' && c <= 'g':
			if err := p.note(start, c); err != nil {
				return err
			}
		case c == 'r':
			ms, err := p.duration(start)
			if err != nil {
				return err
			}
			if err := p.emit(start, 0, ms); err != nil {
				return err
			}
		case c == 'o':
			n, ok := p.number()
			if !ok || n > NOTATION_MAX_OCTAVE {
				return p.fail(start, "octave must be 0-8")
			}
			p.octave = n
		case c == '<':
			if p.octave == 0 {
				return p.fail(start, "octave below 0")
			}
			p.octave--
		case c == '>':
			if p.octave == NOTATION_MAX_OCTAVE {
				return p.fail(start, "octave above 8")
			}
			p.octave++
		case c == 'l':
			n, ok := p.number()
			if !ok || !validLength(n) {
				return p.fail(start, "length must be 1, 2, 4, 8, 16, 32 or 64")
			}
			p.length = n
		case c == 't':
			n, ok := p.number()
			if !ok || n < NOTATION_MIN_TEMPO || n > NOTATION_MAX_TEMPO {
				return p.fail(start, "tempo must be 32-255")
			}
			p.tempo = n
		default:
			return p.fail(start, "unexpected character "+string(p.input[start]))
		}
	}

	if len(p.frames) == 0 {
		return p.fail(len(p.input), "no notes")
	}
	return nil
}

func (p *notationParser) note(start int, letter byte) error {
	semitone := noteSemitones[letter-'a']
	if p.pos < len(p.input) {
		switch p.input[p.pos] {
		case '#', '+':
			semitone++
			p.pos++
		case '-':
			semitone--
			p.pos++
		}
	}

	ms, err := p.duration(start)
	if err != nil {
		return err
	}
	midi := 12*(p.octave+1) + semitone
	return p.emit(start, noteFrequency(midi), ms)
}

// duration reads an optional length and any dots following a note or rest.
func (p *notationParser) duration(start int) (uint32, error) {
	length := p.length
	if n, ok := p.number(); ok {
		if !validLength(n) {
			return 0, p.fail(start, "length must be 1, 2, 4, 8, 16, 32 or 64")
		}
		length = n
	}

	whole := 240000.0 / float64(p.tempo)
	base := whole / float64(length)
	ms := base
	for add := base / 2; p.pos < len(p.input) && p.input[p.pos] == '.'; add /= 2 {
		ms += add
		p.pos++
	}
	return uint32(max(math.Round(ms), 1)), nil
}

func (p *notationParser) emit(start int, freq uint32, ms uint32) error {
	if len(p.frames) == MAX_KEYFRAME_COUNT {
		return p.fail(start, "too many keyframes")
	}
	p.frames = append(p.frames, Keyframe{Frequency: freq, Duration: ms})
	return nil
}

func (p *notationParser) number() (int, bool) {
	n, digits := 0, 0
	for p.pos < len(p.input) && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
		n = n*10 + int(p.input[p.pos]-'0')
		p.pos++
		digits++
		if n > 9999 {
			return 0, false
		}
	}
	return n, digits > 0
}

func (p *notationParser) fail(pos int, msg string) error {
	return &ParseError{Input: p.input, Pos: pos, Msg: msg}
}

func validLength(n int) bool {
	return n >= 1 && n <= NOTATION_MAX_LENGTH && n&(n-1) == 0
}

// noteFrequency returns the equal-tempered frequency of a MIDI note, A4 = 440 Hz.
func noteFrequency(midi int) uint32 {
	return uint32(math.Round(440 * math.Pow(2, float64(midi-69)/12)))
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
