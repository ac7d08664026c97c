// led_terminal.go - LED strips rendered on a terminal or the log

package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// TerminalLED draws the pixel as a coloured block using 24-bit ANSI escapes,
// redrawing in place. On a non-terminal writer it prints one plain line per
// change.
type TerminalLED struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
	last  LEDColor
	drawn bool
}

func NewTerminalLED(w io.Writer, color bool) *TerminalLED {
	return &TerminalLED{w: w, color: color}
}

// NewStdoutLED enables colour only when stdout is a terminal.
func NewStdoutLED() *TerminalLED {
	return NewTerminalLED(os.Stdout, term.IsTerminal(int(os.Stdout.Fd())))
}

func (t *TerminalLED) SetPixel(r, g, b uint8) error {
	return t.draw(LEDColor{r, g, b})
}

func (t *TerminalLED) Clear() error {
	return t.draw(LEDColor{})
}

func (t *TerminalLED) draw(c LEDColor) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.drawn && c == t.last {
		return nil
	}
	t.last = c
	t.drawn = true

	var err error
	if t.color {
		_, err = fmt.Fprintf(t.w, "\r\033[K\033[48;2;%d;%d;%dm    \033[0m LED %s", c.R, c.G, c.B, c)
	} else {
		_, err = fmt.Fprintf(t.w, "LED %s\n", c)
	}
	return err
}

// LogLED records pixel changes as log entries.
type LogLED struct{}

func (LogLED) SetPixel(r, g, b uint8) error {
	logger.Info("led", "component", "C3_LED_BLINK", "color", LEDColor{r, g, b})
	return nil
}

func (LogLED) Clear() error {
	logger.Info("led", "component", "C3_LED_BLINK", "color", "off")
	return nil
}
