// config.go - Boot configuration loaded from a Lua file

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
)

const (
	SENSOR_BACKEND_SIM    = "sim"
	SENSOR_BACKEND_SERIAL = "serial"
	SENSOR_BACKEND_KEYS   = "keys"

	LED_BACKEND_TERMINAL = "terminal"
	LED_BACKEND_WINDOW   = "window"
	LED_BACKEND_LOG      = "log"

	DEFAULT_POLL_INTERVAL = 4000 * time.Millisecond
	DEFAULT_ALARM_PERIOD  = 400 * time.Millisecond
	DEFAULT_STARTUP_BLINK = 400 * time.Millisecond
)

const (
	PATTERN_STARTUP = "startup"
	PATTERN_LOW     = "low"
	PATTERN_MEDIUM  = "medium"
	PATTERN_HIGH    = "high"
)

var patternKeys = []string{PATTERN_STARTUP, PATTERN_LOW, PATTERN_MEDIUM, PATTERN_HIGH}

type PatternConfig struct {
	Notation string
	Waveform Waveform
	Loop     bool
}

type SensorConfig struct {
	Backend    string
	Device     string
	Baud       int
	Bits       int
	Invert     bool
	Thresholds HydroThresholds
	Script     []int
}

type BuzzerConfig struct {
	Strategy string
	Audio    string
	Volume   float64
}

type Config struct {
	PollInterval time.Duration
	Sensor       SensorConfig
	Buzzer       BuzzerConfig
	LED          string
	AlarmColor   LEDColor
	AlarmPeriod  time.Duration
	StartupBlink time.Duration
	Patterns     map[string]PatternConfig
}

func DefaultConfig() *Config {
	return &Config{
		PollInterval: DEFAULT_POLL_INTERVAL,
		Sensor: SensorConfig{
			Backend:    SENSOR_BACKEND_SIM,
			Baud:       SERIAL_DEFAULT_BAUD,
			Bits:       HYDRO_DEFAULT_BITS,
			Thresholds: DefaultHydroThresholds(HYDRO_DEFAULT_BITS),
		},
		Buzzer: BuzzerConfig{
			Strategy: SYNTH_STREAM,
			Audio:    "oto",
			Volume:   DEFAULT_BUZZER_VOLUME,
		},
		LED:          LED_BACKEND_TERMINAL,
		AlarmColor:   LEDColor{R: 255},
		AlarmPeriod:  DEFAULT_ALARM_PERIOD,
		StartupBlink: DEFAULT_STARTUP_BLINK,
		Patterns: map[string]PatternConfig{
			PATTERN_STARTUP: {Notation: "o5l4cego6c", Waveform: WAVE_SQUARE},
			PATTERN_LOW:     {Notation: "o4l2cr2c", Waveform: WAVE_SAW},
			PATTERN_MEDIUM:  {Notation: "o5l2co4f#", Waveform: WAVE_SAW},
			PATTERN_HIGH:    {Notation: "l4o6cf#o7co6f#c", Waveform: WAVE_SAW},
		},
	}
}

// LoadConfig runs a Lua file and overlays its globals on the defaults.
func LoadConfig(path string) (*Config, error) {
	L := lua.NewState()
	defer L.Close()
	if err := L.DoFile(path); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return configFromState(L)
}

func LoadConfigString(src string) (*Config, error) {
	L := lua.NewState()
	defer L.Close()
	if err := L.DoString(src); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return configFromState(L)
}

func configFromState(L *lua.LState) (*Config, error) {
	cfg := DefaultConfig()
	r := &luaReader{}

	if ms, ok := r.number(L.GetGlobal("poll_interval_ms"), "poll_interval_ms"); ok {
		cfg.PollInterval = time.Duration(ms) * time.Millisecond
	}

	if sensor := r.table(L.GetGlobal("sensor"), "sensor"); sensor != nil {
		s := &cfg.Sensor
		if v, ok := r.string(sensor.RawGetString("backend"), "sensor.backend"); ok {
			s.Backend = strings.ToLower(v)
		}
		if v, ok := r.string(sensor.RawGetString("device"), "sensor.device"); ok {
			s.Device = v
		}
		if v, ok := r.number(sensor.RawGetString("baud"), "sensor.baud"); ok {
			s.Baud = int(v)
		}
		if v, ok := r.number(sensor.RawGetString("bits"), "sensor.bits"); ok {
			if !validADCBits(int(v)) {
				r.fail(fmt.Errorf("sensor.bits: %v not in 1-%d: %w", v, HYDRO_MAX_BITS, ErrInvalidArgument))
			} else {
				s.Bits = int(v)
				s.Thresholds = DefaultHydroThresholds(s.Bits)
			}
		}
		if v, ok := r.bool(sensor.RawGetString("invert"), "sensor.invert"); ok {
			s.Invert = v
		}
		if th := r.table(sensor.RawGetString("thresholds"), "sensor.thresholds"); th != nil {
			if v, ok := r.number(th.RawGetString("low"), "sensor.thresholds.low"); ok {
				s.Thresholds.Low = int(v)
			}
			if v, ok := r.number(th.RawGetString("medium"), "sensor.thresholds.medium"); ok {
				s.Thresholds.Medium = int(v)
			}
			if v, ok := r.number(th.RawGetString("high"), "sensor.thresholds.high"); ok {
				s.Thresholds.High = int(v)
			}
		}
		if script := r.table(sensor.RawGetString("script"), "sensor.script"); script != nil {
			s.Script = s.Script[:0]
			for i := 1; i <= script.Len(); i++ {
				if v, ok := r.number(script.RawGetInt(i), fmt.Sprintf("sensor.script[%d]", i)); ok {
					s.Script = append(s.Script, int(v))
				}
			}
		}
	}

	if buzzer := r.table(L.GetGlobal("buzzer"), "buzzer"); buzzer != nil {
		if v, ok := r.string(buzzer.RawGetString("strategy"), "buzzer.strategy"); ok {
			cfg.Buzzer.Strategy = strings.ToLower(v)
		}
		if v, ok := r.string(buzzer.RawGetString("audio"), "buzzer.audio"); ok {
			cfg.Buzzer.Audio = strings.ToLower(v)
		}
		if v, ok := r.number(buzzer.RawGetString("volume"), "buzzer.volume"); ok {
			cfg.Buzzer.Volume = v
		}
	}

	if v, ok := r.string(L.GetGlobal("led"), "led"); ok {
		cfg.LED = strings.ToLower(v)
	}

	if blink := r.table(L.GetGlobal("alarm_blink"), "alarm_blink"); blink != nil {
		cfg.AlarmColor.R = r.channel(blink.RawGetString("r"), "alarm_blink.r", cfg.AlarmColor.R)
		cfg.AlarmColor.G = r.channel(blink.RawGetString("g"), "alarm_blink.g", cfg.AlarmColor.G)
		cfg.AlarmColor.B = r.channel(blink.RawGetString("b"), "alarm_blink.b", cfg.AlarmColor.B)
		if ms, ok := r.number(blink.RawGetString("period_ms"), "alarm_blink.period_ms"); ok {
			cfg.AlarmPeriod = time.Duration(ms) * time.Millisecond
		}
	}

	if ms, ok := r.number(L.GetGlobal("startup_blink_ms"), "startup_blink_ms"); ok {
		cfg.StartupBlink = time.Duration(ms) * time.Millisecond
	}

	if patterns := r.table(L.GetGlobal("patterns"), "patterns"); patterns != nil {
		for _, key := range patternKeys {
			lv := patterns.RawGetString(key)
			if s, ok := lv.(lua.LString); ok {
				pc := cfg.Patterns[key]
				pc.Notation = string(s)
				cfg.Patterns[key] = pc
				continue
			}
			pt := r.table(lv, "patterns."+key)
			if pt == nil {
				continue
			}
			pc := cfg.Patterns[key]
			if v, ok := r.string(pt.RawGetString("notation"), "patterns."+key+".notation"); ok {
				pc.Notation = v
			}
			if v, ok := r.string(pt.RawGetString("waveform"), "patterns."+key+".waveform"); ok {
				w, err := ParseWaveform(v)
				if err != nil {
					r.fail(fmt.Errorf("patterns.%s.waveform: %w", key, err))
				} else {
					pc.Waveform = w
				}
			}
			if v, ok := r.bool(pt.RawGetString("loop"), "patterns."+key+".loop"); ok {
				pc.Loop = v
			}
			cfg.Patterns[key] = pc
		}
	}

	if r.err != nil {
		return nil, r.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field that the components would otherwise reject at
// start-up, so a bad file fails before any hardware is touched.
func (c *Config) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval %v: %w", c.PollInterval, ErrInvalidArgument)
	}
	switch c.Sensor.Backend {
	case SENSOR_BACKEND_SIM, SENSOR_BACKEND_KEYS:
	case SENSOR_BACKEND_SERIAL:
		if c.Sensor.Device == "" {
			return fmt.Errorf("serial sensor needs a device: %w", ErrInvalidArgument)
		}
		if c.Sensor.Baud <= 0 {
			return fmt.Errorf("serial baud %d: %w", c.Sensor.Baud, ErrInvalidArgument)
		}
	default:
		return fmt.Errorf("unknown sensor backend %q: %w", c.Sensor.Backend, ErrInvalidArgument)
	}
	if !validADCBits(c.Sensor.Bits) {
		return fmt.Errorf("sensor bits %d: %w", c.Sensor.Bits, ErrInvalidArgument)
	}
	if err := c.Sensor.Thresholds.Validate(c.Sensor.Bits); err != nil {
		return err
	}
	if c.Buzzer.Strategy != SYNTH_STREAM && c.Buzzer.Strategy != SYNTH_TIMER {
		return fmt.Errorf("unknown synth strategy %q: %w", c.Buzzer.Strategy, ErrInvalidArgument)
	}
	if _, err := ParseAudioBackend(c.Buzzer.Audio); err != nil {
		return err
	}
	if c.Buzzer.Volume < 0 || c.Buzzer.Volume > 1 {
		return fmt.Errorf("volume %.2f out of range: %w", c.Buzzer.Volume, ErrInvalidArgument)
	}
	switch c.LED {
	case LED_BACKEND_TERMINAL, LED_BACKEND_WINDOW, LED_BACKEND_LOG:
	default:
		return fmt.Errorf("unknown led backend %q: %w", c.LED, ErrInvalidArgument)
	}
	if c.AlarmPeriod < LED_MIN_BLINK_PERIOD || c.AlarmPeriod > LED_MAX_BLINK_PERIOD {
		return fmt.Errorf("alarm blink period %v: %w", c.AlarmPeriod, ErrInvalidArgument)
	}
	if c.StartupBlink < 0 {
		return fmt.Errorf("startup blink %v: %w", c.StartupBlink, ErrInvalidArgument)
	}
	for _, key := range patternKeys {
		pc, ok := c.Patterns[key]
		if !ok {
			return fmt.Errorf("pattern %q missing: %w", key, ErrInvalidArgument)
		}
		if _, err := pc.Build(); err != nil {
			return fmt.Errorf("pattern %q: %w", key, err)
		}
	}
	return nil
}

// Build parses the notation and applies the waveform and loop settings.
func (pc PatternConfig) Build() (*Pattern, error) {
	p, err := ParseNotation(pc.Notation)
	if err != nil {
		return nil, err
	}
	p.Waveform = pc.Waveform
	p.Loop = pc.Loop
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// luaReader converts Lua values and keeps the first type error.
type luaReader struct {
	err error
}

func (r *luaReader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *luaReader) mismatch(name, want string, lv lua.LValue) {
	r.fail(fmt.Errorf("%s: want %s, got %s: %w", name, want, lv.Type(), ErrInvalidArgument))
}

func (r *luaReader) number(lv lua.LValue, name string) (float64, bool) {
	if lv == lua.LNil {
		return 0, false
	}
	n, ok := lv.(lua.LNumber)
	if !ok {
		r.mismatch(name, "number", lv)
		return 0, false
	}
	return float64(n), true
}

func (r *luaReader) string(lv lua.LValue, name string) (string, bool) {
	if lv == lua.LNil {
		return "", false
	}
	s, ok := lv.(lua.LString)
	if !ok {
		r.mismatch(name, "string", lv)
		return "", false
	}
	return string(s), true
}

func (r *luaReader) bool(lv lua.LValue, name string) (bool, bool) {
	if lv == lua.LNil {
		return false, false
	}
	b, ok := lv.(lua.LBool)
	if !ok {
		r.mismatch(name, "boolean", lv)
		return false, false
	}
	return bool(b), true
}

func (r *luaReader) table(lv lua.LValue, name string) *lua.LTable {
	if lv == lua.LNil {
		return nil
	}
	t, ok := lv.(*lua.LTable)
	if !ok {
		r.mismatch(name, "table", lv)
		return nil
	}
	return t
}

func (r *luaReader) channel(lv lua.LValue, name string, def uint8) uint8 {
	v, ok := r.number(lv, name)
	if !ok {
		return def
	}
	if v < 0 || v > 255 || v != float64(int(v)) {
		r.fail(fmt.Errorf("%s: %v not in 0-255: %w", name, v, ErrInvalidArgument))
		return def
	}
	return uint8(v)
}
