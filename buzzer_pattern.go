package main

import (
	"fmt"
	"time"
)

// Keyframe is one (frequency, duration) step of a pattern. A zero frequency
// holds silence for the duration.
type Keyframe struct {
	Frequency uint32 // Hz
	Duration  uint32 // ms
}

// Pattern is an ordered keyframe sequence played with a single waveform.
// The buzzer only borrows a *Pattern; the caller owns it and must not modify
// it while it is playing.
type Pattern struct {
	Name      string
	Keyframes []Keyframe
	Waveform  Waveform
	Loop      bool
}

func (p *Pattern) Validate() error {
	if p == nil {
		return fmt.Errorf("nil pattern: %w", ErrInvalidArgument)
	}
	if len(p.Keyframes) == 0 {
		return fmt.Errorf("pattern %q has no keyframes: %w", p.Name, ErrInvalidArgument)
	}
	if len(p.Keyframes) > MAX_KEYFRAME_COUNT {
		return fmt.Errorf("pattern %q has %d keyframes, max %d: %w", p.Name, len(p.Keyframes), MAX_KEYFRAME_COUNT, ErrInvalidArgument)
	}
	if p.Waveform.Table() == nil {
		return fmt.Errorf("pattern %q: %v: %w", p.Name, p.Waveform, ErrInvalidArgument)
	}
	for i, kf := range p.Keyframes {
		if kf.Duration == 0 {
			return fmt.Errorf("pattern %q keyframe %d has zero duration: %w", p.Name, i, ErrInvalidArgument)
		}
	}
	return nil
}

// Duration is the length of one pass through the pattern, excluding the
// settle gaps inserted between keyframes.
func (p *Pattern) Duration() time.Duration {
	var total time.Duration
	for _, kf := range p.Keyframes {
		total += kf.Length()
	}
	return total
}

func (kf Keyframe) Length() time.Duration {
	return time.Duration(kf.Duration) * time.Millisecond
}

func (kf Keyframe) Silent() bool {
	return kf.Frequency == 0
}
