package main

import (
	"errors"
	"sync"
	"sync/atomic"
)

var errSimulatedReadFailure = errors.New("simulated adc read failure")

// KeyedADC is driven from a keyboard: 0-3 select the OK, LOW, MED and HIGH
// bands and x toggles a simulated read failure.
type KeyedADC struct {
	rawFor func(HydroLevel) int
	raw    atomic.Int64
	failed atomic.Bool
}

// NewKeyedADC starts in the OK band. rawFor maps a level to the sample the
// ADC should report for it.
func NewKeyedADC(rawFor func(HydroLevel) int) *KeyedADC {
	a := &KeyedADC{rawFor: rawFor}
	a.raw.Store(int64(rawFor(HYDRO_LEVEL_OK)))
	return a
}

func (a *KeyedADC) ReadRaw() (int, error) {
	if a.failed.Load() {
		return 0, errSimulatedReadFailure
	}
	return int(a.raw.Load()), nil
}

// RouteKey applies one key press and reports whether it was recognised.
func (a *KeyedADC) RouteKey(b byte) bool {
	switch b {
	case '0', '1', '2', '3':
		level := HydroLevel(b - '0')
		a.raw.Store(int64(a.rawFor(level)))
		a.failed.Store(false)
		logger.Info("simulated level selected", "component", "HYDRO_SENSOR", "level", level)
		return true
	case 'x', 'X':
		failed := !a.failed.Load()
		a.failed.Store(failed)
		logger.Info("simulated read failure", "component", "HYDRO_SENSOR", "enabled", failed)
		return true
	default:
		return false
	}
}

// ScriptedADC replays a fixed list of samples, wrapping at the end. A negative
// sample is reported as a read failure.
type ScriptedADC struct {
	mu      sync.Mutex
	samples []int
	next    int
}

func NewScriptedADC(samples ...int) *ScriptedADC {
	return &ScriptedADC{samples: samples}
}

func (a *ScriptedADC) ReadRaw() (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.samples) == 0 {
		return 0, errSimulatedReadFailure
	}
	v := a.samples[a.next]
	a.next = (a.next + 1) % len(a.samples)
	if v < 0 {
		return 0, errSimulatedReadFailure
	}
	return v, nil
}
