// export_midi.go - Write buzzer patterns to a Standard MIDI File

package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	MIDI_TICKS_PER_QUARTER = 960
	MIDI_EXPORT_BPM        = 120
	MIDI_VELOCITY          = 100
)

// frequencyToMIDINote returns the nearest equal-tempered note, clamped to the
// MIDI range.
func frequencyToMIDINote(freq uint32) uint8 {
	n := math.Round(69 + 12*math.Log2(float64(freq)/440))
	return uint8(min(max(n, 0), 127))
}

func durationToTicks(d time.Duration) uint32 {
	quarter := time.Minute / MIDI_EXPORT_BPM
	return uint32(math.Round(float64(d) * MIDI_TICKS_PER_QUARTER / float64(quarter)))
}

// WriteMIDI writes a format 1 file with a tempo track followed by one track
// per pattern. Rests become gaps between notes.
func WriteMIDI(w io.Writer, patterns []*Pattern) error {
	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(MIDI_TICKS_PER_QUARTER)

	var tempo smf.Track
	tempo.Add(0, smf.MetaMeter(4, 4))
	tempo.Add(0, smf.MetaTempo(MIDI_EXPORT_BPM))
	tempo.Close(0)
	if err := sm.Add(tempo); err != nil {
		return fmt.Errorf("error adding tempo track: %w", err)
	}

	for i, p := range patterns {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("pattern %d: %w", i, err)
		}
		var track smf.Track
		track.Add(0, smf.MetaTrackSequenceName(p.Name))

		var gap uint32
		for _, kf := range p.Keyframes {
			ticks := durationToTicks(kf.Length())
			if kf.Silent() {
				gap += ticks
				continue
			}
			key := frequencyToMIDINote(kf.Frequency)
			track.Add(gap, midi.NoteOn(0, key, MIDI_VELOCITY))
			track.Add(ticks, midi.NoteOff(0, key))
			gap = 0
		}
		track.Close(gap)
		if err := sm.Add(track); err != nil {
			return fmt.Errorf("error adding track %q: %w", p.Name, err)
		}
	}

	if _, err := sm.WriteTo(w); err != nil {
		return fmt.Errorf("error writing MIDI data: %w", err)
	}
	return nil
}

func ExportMIDI(path string, patterns []*Pattern) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteMIDI(f, patterns); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
