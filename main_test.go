package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFlagOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hydroalarm.lua")
	src := `sensor = { backend = "keys" } buzzer = { strategy = "timer" } led = "log"`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(cliOptions{configPath: path})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Sensor.Backend != SENSOR_BACKEND_KEYS || cfg.Buzzer.Strategy != SYNTH_TIMER || cfg.LED != LED_BACKEND_LOG {
		t.Fatalf("file values not applied: %+v", cfg)
	}

	cfg, err = loadConfig(cliOptions{
		configPath: path,
		sensor:     "SERIAL",
		serialDev:  "/dev/ttyACM0",
		baud:       57600,
		synth:      "Stream",
		audio:      "null",
		led:        "terminal",
	})
	if err != nil {
		t.Fatalf("loadConfig with flags: %v", err)
	}
	s := cfg.Sensor
	if s.Backend != SENSOR_BACKEND_SERIAL || s.Device != "/dev/ttyACM0" || s.Baud != 57600 {
		t.Errorf("sensor = %+v", s)
	}
	if cfg.Buzzer.Strategy != SYNTH_STREAM || cfg.Buzzer.Audio != "null" || cfg.LED != LED_BACKEND_TERMINAL {
		t.Errorf("flags not applied: buzzer=%+v led=%q", cfg.Buzzer, cfg.LED)
	}

	if _, err := loadConfig(cliOptions{sensor: "serial"}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("serial without device = %v, want ErrInvalidArgument", err)
	}
}

func TestSimulatedRaw(t *testing.T) {
	s := DefaultConfig().Sensor
	rawFor := simulatedRaw(s)
	for _, level := range []HydroLevel{HYDRO_LEVEL_OK, HYDRO_LEVEL_LOW, HYDRO_LEVEL_MED, HYDRO_LEVEL_HIGH} {
		if got := s.Thresholds.Classify(rawFor(level)); got != level {
			t.Errorf("simulated %v classifies as %v", level, got)
		}
	}

	s.Invert = true
	sensor, err := NewHydroSensor(NewKeyedADC(simulatedRaw(s)), s.Bits, s.Thresholds, true)
	if err != nil {
		t.Fatal(err)
	}
	if got := sensor.ReadLevel(); got != HYDRO_LEVEL_OK {
		t.Fatalf("inverted simulated probe reads %v, want ok", got)
	}
}

func TestOpenADCSimulatedSweep(t *testing.T) {
	s := DefaultConfig().Sensor
	adc, keys, closeADC, err := openADC(s)
	if err != nil {
		t.Fatalf("openADC: %v", err)
	}
	defer closeADC()
	if keys != nil {
		t.Fatal("scripted sensor should not take keys")
	}

	sensor, err := NewHydroSensor(adc, s.Bits, s.Thresholds, false)
	if err != nil {
		t.Fatal(err)
	}
	want := []HydroLevel{HYDRO_LEVEL_OK, HYDRO_LEVEL_LOW, HYDRO_LEVEL_MED, HYDRO_LEVEL_HIGH, HYDRO_LEVEL_OK, HYDRO_LEVEL_OK}
	for i, w := range want {
		if got := sensor.ReadLevel(); got != w {
			t.Fatalf("reading %d = %v, want %v", i, got, w)
		}
	}
}

func TestOpenADCKeys(t *testing.T) {
	s := DefaultConfig().Sensor
	s.Backend = SENSOR_BACKEND_KEYS
	adc, keys, closeADC, err := openADC(s)
	if err != nil {
		t.Fatalf("openADC: %v", err)
	}
	defer closeADC()

	sensor, _ := NewHydroSensor(adc, s.Bits, s.Thresholds, false)
	if !keys('3') {
		t.Fatal("key 3 not handled")
	}
	if got := sensor.ReadLevel(); got != HYDRO_LEVEL_HIGH {
		t.Fatalf("after key 3 level = %v, want high", got)
	}
}

func TestBuildPatternsNamesByKey(t *testing.T) {
	patterns, err := buildPatterns(DefaultConfig())
	if err != nil {
		t.Fatalf("buildPatterns: %v", err)
	}
	for i, p := range patterns {
		if p.Name != patternKeys[i] {
			t.Errorf("pattern %d named %q, want %q", i, p.Name, patternKeys[i])
		}
	}
}
