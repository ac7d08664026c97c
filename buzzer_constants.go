package main

import "time"

const (
	// Timer resolution of the synthesis interrupt source and the number of
	// alarm subdivisions per tick, matching the gptimer setup of the board.
	TIMER_RES_HZ      = 1000000
	TIMER_ALARM_COUNT = 10
	TIMER_TICK_HZ     = TIMER_RES_HZ / TIMER_ALARM_COUNT

	WAVE_TABLE_SIZE = 2048

	// Continuous DAC stream: 48 kHz, 2048-sample descriptors.
	STREAM_SAMPLE_RATE = 48000
	STREAM_BUFFER_SIZE = 2048

	MAX_KEYFRAME_COUNT = 32

	DAC_MIDPOINT = 128
	DAC_MAX      = 255
)

const (
	SETTLE_DELAY  = 10 * time.Millisecond
	POLL_INTERVAL = 10 * time.Millisecond
)

const DEFAULT_BUZZER_VOLUME = 0.5
