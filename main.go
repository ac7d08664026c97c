// main.go - Entry point for the hydroalarm leak detector

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

func boilerPlate() {
	fmt.Println("\n\033[38;2;0;160;255m ╻ ╻╻ ╻╺┳┓┏━┓┏━┓┏━┓╻  ┏━┓┏━┓┏┳┓\033[0m")
	fmt.Println("\033[38;2;0;200;255m ┣━┫┗┳┛ ┃┃┣┳┛┃ ┃┣━┫┃  ┣━┫┣┳┛┃┃┃\033[0m")
	fmt.Println("\033[38;2;0;240;255m ╹ ╹ ╹ ╺┻┛╹┗╸┗━┛╹ ╹┗━╸╹ ╹╹┗╸╹ ╹\033[0m")
	fmt.Println("\nWater leak detector with buzzer alarm patterns.")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("License: GPLv3 or later")
}

type cliOptions struct {
	configPath string
	sensor     string
	serialDev  string
	baud       int
	led        string
	synth      string
	audio      string
	debug      bool
	features   bool
	exportMIDI string
	renderWAV  string
	pattern    string
}

func main() {
	var opts cliOptions

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&opts.configPath, "config", "", "Lua configuration file")
	flagSet.StringVar(&opts.sensor, "sensor", "", "Sensor backend: sim, serial or keys")
	flagSet.StringVar(&opts.serialDev, "serial-dev", "", "Serial device for the serial sensor")
	flagSet.IntVar(&opts.baud, "baud", 0, "Serial baud rate")
	flagSet.StringVar(&opts.led, "led", "", "LED backend: terminal, window or log")
	flagSet.StringVar(&opts.synth, "synth", "", "Synth strategy: stream or timer")
	flagSet.StringVar(&opts.audio, "audio", "", "Audio backend: oto, portaudio or null")
	flagSet.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flagSet.BoolVar(&opts.features, "features", false, "Print compiled-in features and exit")
	flagSet.StringVar(&opts.exportMIDI, "export-midi", "", "Write all patterns to a MIDI file and exit")
	flagSet.StringVar(&opts.renderWAV, "render-wav", "", "Render one pattern to a WAV file and exit")
	flagSet.StringVar(&opts.pattern, "pattern", PATTERN_STARTUP, "Pattern for -render-wav: startup, low, medium or high")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./hydroalarm [-config file.lua] [-sensor sim|serial|keys] [-led terminal|window|log] [-synth stream|timer] [-audio oto|portaudio|null]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if opts.features {
		printFeatures()
		return
	}

	initLogger(opts.debug)

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	switch {
	case opts.exportMIDI != "":
		err = exportMIDI(cfg, opts.exportMIDI)
	case opts.renderWAV != "":
		err = renderWAV(cfg, opts.pattern, opts.renderWAV)
	default:
		boilerPlate()
		err = run(cfg)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration file, if any, and applies the flags
// that were given on the command line.
func loadConfig(opts cliOptions) (*Config, error) {
	cfg := DefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = LoadConfig(opts.configPath); err != nil {
			return nil, err
		}
	}
	if opts.sensor != "" {
		cfg.Sensor.Backend = strings.ToLower(opts.sensor)
	}
	if opts.serialDev != "" {
		cfg.Sensor.Device = opts.serialDev
	}
	if opts.baud != 0 {
		cfg.Sensor.Baud = opts.baud
	}
	if opts.led != "" {
		cfg.LED = strings.ToLower(opts.led)
	}
	if opts.synth != "" {
		cfg.Buzzer.Strategy = strings.ToLower(opts.synth)
	}
	if opts.audio != "" {
		cfg.Buzzer.Audio = strings.ToLower(opts.audio)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildPatterns(cfg *Config) ([]*Pattern, error) {
	patterns := make([]*Pattern, 0, len(patternKeys))
	for _, key := range patternKeys {
		p, err := cfg.Patterns[key].Build()
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", key, err)
		}
		p.Name = key
		patterns = append(patterns, p)
	}
	return patterns, nil
}

func exportMIDI(cfg *Config, path string) error {
	patterns, err := buildPatterns(cfg)
	if err != nil {
		return err
	}
	if err := ExportMIDI(path, patterns); err != nil {
		return err
	}
	fmt.Printf("Wrote %d patterns to %s\n", len(patterns), path)
	return nil
}

func renderWAV(cfg *Config, name, path string) error {
	pc, ok := cfg.Patterns[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("unknown pattern %q: %w", name, ErrInvalidArgument)
	}
	p, err := pc.Build()
	if err != nil {
		return err
	}
	p.Name = name
	if err := ExportWAV(path, p, cfg.Buzzer.Strategy, float32(cfg.Buzzer.Volume)); err != nil {
		return err
	}
	fmt.Printf("Rendered %s (%v) to %s\n", name, p.Duration(), path)
	return nil
}

// simulatedRaw maps a level to the sample a probe would report for it,
// accounting for inverted probes.
func simulatedRaw(s SensorConfig) func(HydroLevel) int {
	full := 1 << s.Bits
	return func(level HydroLevel) int {
		raw := s.Thresholds.RawForLevel(level, s.Bits)
		if s.Invert {
			raw = full - 1 - raw
		}
		return raw
	}
}

// openADC returns the ADC for the configured backend and, for keys, the
// key handler that drives it.
func openADC(s SensorConfig) (ADC, func(byte) bool, func(), error) {
	switch s.Backend {
	case SENSOR_BACKEND_SERIAL:
		adc, err := OpenSerialADC(s.Device, s.Baud)
		if err != nil {
			return nil, nil, nil, err
		}
		return adc, nil, func() { _ = adc.Close() }, nil
	case SENSOR_BACKEND_KEYS:
		adc := NewKeyedADC(simulatedRaw(s))
		return adc, adc.RouteKey, func() {}, nil
	default:
		script := s.Script
		if len(script) == 0 {
			rawFor := simulatedRaw(s)
			for _, level := range []HydroLevel{HYDRO_LEVEL_OK, HYDRO_LEVEL_LOW, HYDRO_LEVEL_MED, HYDRO_LEVEL_HIGH, HYDRO_LEVEL_OK} {
				script = append(script, rawFor(level))
			}
		}
		return NewScriptedADC(script...), nil, func() {}, nil
	}
}

func run(cfg *Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	adc, keyHandler, closeADC, err := openADC(cfg.Sensor)
	if err != nil {
		return err
	}
	defer closeADC()

	sensor, err := NewHydroSensor(adc, cfg.Sensor.Bits, cfg.Sensor.Thresholds, cfg.Sensor.Invert)
	if err != nil {
		return err
	}

	keys := NewKeyRouter(keyHandler, stop)

	var strip LEDStrip
	switch cfg.LED {
	case LED_BACKEND_WINDOW:
		window, err := NewLEDWindow()
		if err != nil {
			return err
		}
		window.SetKeyHandler(keys.Route)
		if err := window.Start(); err != nil {
			return err
		}
		defer window.Close()
		go func() {
			select {
			case <-window.Done():
				stop()
			case <-ctx.Done():
			}
		}()
		strip = window
	case LED_BACKEND_LOG:
		strip = LogLED{}
	default:
		strip = NewStdoutLED()
	}

	if keyHandler != nil && cfg.LED != LED_BACKEND_WINDOW {
		host := NewTerminalHost(keys)
		if err := host.Start(); err != nil {
			logger.Warn("keyboard input unavailable", "component", "LEAK_DETECTOR", "err", err)
		} else {
			defer host.Stop()
			fmt.Print("Keys: 0-3 select level, x toggles read failure, q quits\r\n")
		}
	}

	led, err := NewLEDBlinker(strip)
	if err != nil {
		return err
	}
	led.SetObserver(runtimeStatus.setLED)

	backend, err := ParseAudioBackend(cfg.Buzzer.Audio)
	if err != nil {
		return err
	}
	hw, err := NewAudioHardware(cfg.Buzzer.Strategy, backend, float32(cfg.Buzzer.Volume))
	if err != nil {
		return err
	}
	buzzer := NewBuzzer(hw, nil)
	buzzer.SetObserver(runtimeStatus.setPlayback)

	detector, err := NewLeakDetector(cfg, sensor, buzzer, led)
	if err != nil {
		return err
	}

	if err := detector.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		_ = detector.Shutdown()
		return err
	}
	runErr := detector.Run(ctx)
	logger.Info("shutting down", "component", "LEAK_DETECTOR")
	if err := detector.Shutdown(); err != nil {
		return err
	}
	return runErr
}
