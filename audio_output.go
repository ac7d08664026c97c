package main

import "fmt"

const (
	AUDIO_BACKEND_OTO = iota
	AUDIO_BACKEND_PORTAUDIO
	AUDIO_BACKEND_NULL
)

// AudioOutput pulls samples from a SampleSource at a fixed rate.
type AudioOutput interface {
	Start()
	Stop()
	Close()
	IsStarted() bool
}

func NewAudioOutput(backend int, sampleRate int, src SampleSource) (AudioOutput, error) {
	switch backend {
	case AUDIO_BACKEND_OTO:
		player, err := NewOtoPlayer(sampleRate)
		if err != nil {
			return nil, err
		}
		player.SetupPlayer(src)
		return player, nil
	case AUDIO_BACKEND_PORTAUDIO:
		return NewPortAudioPlayer(sampleRate, src)
	case AUDIO_BACKEND_NULL:
		return &nullAudioOutput{}, nil
	default:
		return nil, fmt.Errorf("unknown audio backend %d: %w", backend, ErrInvalidArgument)
	}
}

func ParseAudioBackend(name string) (int, error) {
	switch name {
	case "oto":
		return AUDIO_BACKEND_OTO, nil
	case "portaudio":
		return AUDIO_BACKEND_PORTAUDIO, nil
	case "null", "none":
		return AUDIO_BACKEND_NULL, nil
	default:
		return 0, fmt.Errorf("unknown audio backend %q: %w", name, ErrInvalidArgument)
	}
}

// nullAudioOutput discards audio. The synth is never clocked, which is what a
// board without a buzzer fitted looks like.
type nullAudioOutput struct {
	started bool
}

func (n *nullAudioOutput) Start()          { n.started = true }
func (n *nullAudioOutput) Stop()           { n.started = false }
func (n *nullAudioOutput) Close()          { n.started = false }
func (n *nullAudioOutput) IsStarted() bool { return n.started }
