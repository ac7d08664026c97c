// export_wav.go - Offline rendering of a pattern through a synth strategy

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const WAV_BIT_DEPTH = 16

func newSynthSource(strategy string, sampleRate int, volume float32) (SynthSource, error) {
	switch strategy {
	case SYNTH_STREAM:
		return NewStreamSynth(sampleRate, volume), nil
	case SYNTH_TIMER:
		return NewTimerDriver(sampleRate, volume), nil
	default:
		return nil, fmt.Errorf("unknown synth strategy %q: %w", strategy, ErrInvalidArgument)
	}
}

func samplesFor(d time.Duration, sampleRate int) int {
	return int(int64(d) * int64(sampleRate) / int64(time.Second))
}

// RenderPattern plays p once through the chosen strategy and returns the mono
// output. Every keyframe is preceded by a settle gap of silence, as in live
// playback. Looping patterns are rendered for a single pass.
func RenderPattern(p *Pattern, strategy string, sampleRate int, volume float32) ([]float32, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	synth, err := newSynthSource(strategy, sampleRate, volume)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, kf := range p.Keyframes {
		total += samplesFor(SETTLE_DELAY, sampleRate) + samplesFor(kf.Length(), sampleRate)
	}
	out := make([]float32, 0, total)
	pull := func(n int) {
		for range n {
			out = append(out, synth.ReadSample())
		}
	}

	table := p.Waveform.Table()
	for _, kf := range p.Keyframes {
		synth.Stop()
		pull(samplesFor(SETTLE_DELAY, sampleRate))
		if !kf.Silent() {
			synth.Start(table, kf.Frequency)
		}
		pull(samplesFor(kf.Length(), sampleRate))
	}
	synth.Stop()
	return out, nil
}

func WriteWAV(w io.WriteSeeker, samples []float32, sampleRate int) error {
	enc := wav.NewEncoder(w, sampleRate, WAV_BIT_DEPTH, 1, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: WAV_BIT_DEPTH,
	}
	for i, s := range samples {
		buf.Data[i] = int(max(min(s, 1), -1) * 32767)
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}

func ExportWAV(path string, p *Pattern, strategy string, volume float32) error {
	samples, err := RenderPattern(p, strategy, STREAM_SAMPLE_RATE, volume)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteWAV(f, samples, STREAM_SAMPLE_RATE); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
