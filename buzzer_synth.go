// buzzer_synth.go - Common interfaces for the buzzer synthesis strategies

package main

// Synth keeps emitting the selected waveform at the selected frequency until
// told to stop. Start with a nil table or a zero frequency is the same as Stop.
// Both methods are called from the sequencer goroutine only.
type Synth interface {
	Start(table *WaveTable, frequency uint32)
	Stop()
}

// SampleSource is pulled by an audio backend once per output sample.
// Implementations run on the audio callback and must not block.
type SampleSource interface {
	ReadSample() float32
}

// SynthSource is a synth that can also be clocked by an audio backend.
type SynthSource interface {
	Synth
	SampleSource
}

// differentialToSample converts the voltage across a DAC pair to a float
// sample in [-1, 1]. The idle pair (128, 127) leaves one LSB of offset.
func differentialToSample(pos, neg uint8, volume float32) float32 {
	return float32(int(pos)-int(neg)) / DAC_MAX * volume
}

// dacToSample converts an unsigned DAC level to a float sample in [-1, 1).
func dacToSample(level uint8, volume float32) float32 {
	return (float32(level) - DAC_MIDPOINT) / DAC_MIDPOINT * volume
}
