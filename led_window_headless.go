//go:build headless

package main

import (
	"errors"
	"fmt"
)

type LEDWindow struct {
	done chan struct{}
}

func NewLEDWindow() (*LEDWindow, error) {
	return nil, fmt.Errorf("led window not compiled into headless build: %w", errors.ErrUnsupported)
}

func (w *LEDWindow) SetPixel(r, g, b uint8) error { return nil }
func (w *LEDWindow) Clear() error                 { return nil }
func (w *LEDWindow) SetKeyHandler(func(byte) bool) {}
func (w *LEDWindow) Start() error                 { return nil }
func (w *LEDWindow) Close() error                 { return nil }
func (w *LEDWindow) Done() <-chan struct{}        { return w.done }
