package main

import "sync/atomic"

// DACLatch holds the last level written to an emulated DAC channel so an
// audio backend can sample it.
type DACLatch struct {
	level  atomic.Uint32
	writes atomic.Uint64
}

func NewDACLatch() *DACLatch {
	l := &DACLatch{}
	l.level.Store(DAC_MIDPOINT)
	return l
}

func (l *DACLatch) WriteLevel(level uint8) {
	l.level.Store(uint32(level))
	l.writes.Add(1)
}

func (l *DACLatch) Level() uint8 {
	return uint8(l.level.Load())
}

// Writes counts DAC updates, which the timer synth only issues on edges.
func (l *DACLatch) Writes() uint64 {
	return l.writes.Load()
}

// TimerDriver stands in for the hardware alarm on a hosted OS: each output
// sample it fires as many Tick calls as the timer would have in that sample
// period, carrying the remainder so the long-run rate is exact.
//
// The synth drives a differential pair, and the sample is taken across it
// the way the buzzer sees it.
type TimerDriver struct {
	synth      *TimerSynth
	pos, neg   *DACLatch
	sampleRate uint64
	tickRate   uint64
	acc        uint64
	volume     float32
}

func NewTimerDriver(sampleRate int, volume float32) *TimerDriver {
	pos, neg := NewDACLatch(), NewDACLatch()
	return &TimerDriver{
		synth:      NewTimerSynth(DifferentialDAC{Pos: pos, Neg: neg}),
		pos:        pos,
		neg:        neg,
		sampleRate: uint64(sampleRate),
		tickRate:   TIMER_TICK_HZ,
		volume:     volume,
	}
}

func (d *TimerDriver) Start(table *WaveTable, frequency uint32) {
	d.synth.Start(table, frequency)
}

func (d *TimerDriver) Stop() {
	d.synth.Stop()
}

func (d *TimerDriver) ReadSample() float32 {
	d.acc += d.tickRate
	ticks := d.acc / d.sampleRate
	d.acc -= ticks * d.sampleRate
	for range ticks {
		d.synth.Tick()
	}
	return differentialToSample(d.pos.Level(), d.neg.Level(), d.volume)
}

// Latches returns the positive and negative DAC channels.
func (d *TimerDriver) Latches() (pos, neg *DACLatch) {
	return d.pos, d.neg
}
