// hydro_sensor.go - Moisture level classification

package main

import (
	"fmt"
	"sync/atomic"
)

type HydroLevel int

const (
	HYDRO_LEVEL_ERR HydroLevel = -1
	HYDRO_LEVEL_OK  HydroLevel = iota - 1
	HYDRO_LEVEL_LOW
	HYDRO_LEVEL_MED
	HYDRO_LEVEL_HIGH
)

const (
	HYDRO_DEFAULT_BITS = 12
	HYDRO_MAX_BITS     = 24
)

func validADCBits(bits int) bool {
	return bits >= 1 && bits <= HYDRO_MAX_BITS
}

func (l HydroLevel) String() string {
	switch l {
	case HYDRO_LEVEL_OK:
		return "ok"
	case HYDRO_LEVEL_LOW:
		return "low"
	case HYDRO_LEVEL_MED:
		return "medium"
	case HYDRO_LEVEL_HIGH:
		return "high"
	default:
		return "error"
	}
}

// ADC is a one-shot analogue read.
type ADC interface {
	ReadRaw() (int, error)
}

// HydroThresholds are raw ADC limits. A dry probe reads near full scale and
// the reading drops as moisture bridges the probe: above Low is OK, above
// Medium is LOW, above High is MED, anything else is HIGH.
type HydroThresholds struct {
	Low    int
	Medium int
	High   int
}

// DefaultHydroThresholds returns 15/16, 3/4 and 1/2 of full scale. An
// unsupported width yields zero thresholds, which Validate rejects.
func DefaultHydroThresholds(bits int) HydroThresholds {
	if !validADCBits(bits) {
		return HydroThresholds{}
	}
	full := 1 << bits
	return HydroThresholds{
		Low:    full * 15 / 16,
		Medium: full * 3 / 4,
		High:   full / 2,
	}
}

func (t HydroThresholds) Validate(bits int) error {
	if !validADCBits(bits) {
		return fmt.Errorf("adc width %d: %w", bits, ErrInvalidArgument)
	}
	full := 1 << bits
	if t.High < 0 || t.Low >= full {
		return fmt.Errorf("thresholds %+v outside 0-%d: %w", t, full-1, ErrInvalidArgument)
	}
	if !(t.Low > t.Medium && t.Medium > t.High) {
		return fmt.Errorf("thresholds %+v must be strictly descending: %w", t, ErrInvalidArgument)
	}
	return nil
}

// Classify maps a raw reading to a level. The comparisons run from the driest
// band down so every band is reachable.
func (t HydroThresholds) Classify(raw int) HydroLevel {
	switch {
	case raw > t.Low:
		return HYDRO_LEVEL_OK
	case raw > t.Medium:
		return HYDRO_LEVEL_LOW
	case raw > t.High:
		return HYDRO_LEVEL_MED
	default:
		return HYDRO_LEVEL_HIGH
	}
}

type HydroSensor struct {
	adc        ADC
	bits       int
	thresholds HydroThresholds
	invert     bool
	lastRaw    atomic.Int64
}

// NewHydroSensor validates the thresholds against the ADC width. invert is for
// probes whose reading rises with moisture.
func NewHydroSensor(adc ADC, bits int, thresholds HydroThresholds, invert bool) (*HydroSensor, error) {
	if adc == nil {
		return nil, fmt.Errorf("hydro sensor: nil adc: %w", ErrInvalidArgument)
	}
	if !validADCBits(bits) {
		return nil, fmt.Errorf("hydro sensor: adc width %d: %w", bits, ErrInvalidArgument)
	}
	if err := thresholds.Validate(bits); err != nil {
		return nil, err
	}
	s := &HydroSensor{adc: adc, bits: bits, thresholds: thresholds, invert: invert}
	s.lastRaw.Store(-1)
	return s, nil
}

// ReadLevel never fails; read errors and out-of-range samples are reported as
// HYDRO_LEVEL_ERR so the caller can skip a cycle.
func (s *HydroSensor) ReadLevel() HydroLevel {
	raw, err := s.adc.ReadRaw()
	if err != nil {
		logger.Warn("adc read failed", "component", "HYDRO_SENSOR", "err", err)
		return HYDRO_LEVEL_ERR
	}
	full := 1 << s.bits
	if raw < 0 || raw >= full {
		logger.Warn("adc reading out of range", "component", "HYDRO_SENSOR", "raw", raw)
		return HYDRO_LEVEL_ERR
	}
	s.lastRaw.Store(int64(raw))

	if s.invert {
		raw = full - 1 - raw
	}
	level := s.thresholds.Classify(raw)
	logger.Debug("raw read", "component", "HYDRO_SENSOR", "raw", raw, "level", level,
		"low", s.thresholds.Low, "med", s.thresholds.Medium, "high", s.thresholds.High)
	return level
}

// LastRaw is the most recent valid reading, or -1 before the first one.
func (s *HydroSensor) LastRaw() int {
	return int(s.lastRaw.Load())
}

// RawForLevel returns a reading in the middle of the band for level. The
// simulated ADCs use it to turn a requested level into a plausible sample.
func (t HydroThresholds) RawForLevel(level HydroLevel, bits int) int {
	full := 1 << bits
	switch level {
	case HYDRO_LEVEL_OK:
		return (t.Low + full) / 2
	case HYDRO_LEVEL_LOW:
		return (t.Medium + t.Low + 1) / 2
	case HYDRO_LEVEL_MED:
		return (t.High + t.Medium + 1) / 2
	default:
		return t.High / 2
	}
}
