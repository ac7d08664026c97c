//go:build !portaudio || headless

package main

import (
	"errors"
	"fmt"
)

func NewPortAudioPlayer(sampleRate int, src SampleSource) (AudioOutput, error) {
	return nil, fmt.Errorf("portaudio backend not compiled in (build with -tags portaudio): %w", errors.ErrUnsupported)
}
