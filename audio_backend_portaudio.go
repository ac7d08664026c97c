//go:build portaudio && !headless

package main

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

func init() {
	compiledFeatures = append(compiledFeatures, "audio:portaudio")
}

const portAudioFramesPerBuffer = 256

// PortAudioPlayer clocks a SampleSource from the PortAudio callback thread.
type PortAudioPlayer struct {
	stream  *portaudio.Stream
	src     SampleSource
	started bool
	mutex   sync.Mutex
}

func NewPortAudioPlayer(sampleRate int, src SampleSource) (AudioOutput, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}
	pp := &PortAudioPlayer{src: src}
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(sampleRate), portAudioFramesPerBuffer, pp.process)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("portaudio open stream: %w", err)
	}
	pp.stream = stream
	return pp, nil
}

func (pp *PortAudioPlayer) process(out []float32) {
	for i := range out {
		out[i] = pp.src.ReadSample()
	}
}

func (pp *PortAudioPlayer) Start() {
	pp.mutex.Lock()
	defer pp.mutex.Unlock()

	if pp.started || pp.stream == nil {
		return
	}
	if err := pp.stream.Start(); err != nil {
		logger.Error("portaudio start failed", "component", "BUZZER_CONTROL", "err", err)
		return
	}
	pp.started = true
}

func (pp *PortAudioPlayer) Stop() {
	pp.mutex.Lock()
	defer pp.mutex.Unlock()

	if pp.started && pp.stream != nil {
		_ = pp.stream.Stop()
		pp.started = false
	}
}

func (pp *PortAudioPlayer) Close() {
	pp.Stop()
	pp.mutex.Lock()
	defer pp.mutex.Unlock()

	if pp.stream != nil {
		_ = pp.stream.Close()
		pp.stream = nil
		portaudio.Terminate()
	}
}

func (pp *PortAudioPlayer) IsStarted() bool {
	pp.mutex.Lock()
	defer pp.mutex.Unlock()
	return pp.started
}
