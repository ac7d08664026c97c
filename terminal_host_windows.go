//go:build windows

package main

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"
)

// TerminalHost reads raw stdin and feeds key presses to a KeyRouter.
// Console reads cannot be interrupted, so Stop restores the console without
// waiting for the reader to return.
type TerminalHost struct {
	keys         *KeyRouter
	stopCh       chan struct{}
	stopped      sync.Once
	fd           int
	oldTermState *term.State
}

func NewTerminalHost(keys *KeyRouter) *TerminalHost {
	return &TerminalHost{
		keys:   keys,
		stopCh: make(chan struct{}),
	}
}

func (h *TerminalHost) Start() error {
	h.fd = int(os.Stdin.Fd())
	if !term.IsTerminal(h.fd) {
		return fmt.Errorf("terminal host: stdin is not a terminal: %w", ErrInvalidArgument)
	}

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		return &HardwareInitError{Component: "terminal", Err: err}
	}
	h.oldTermState = oldState

	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			select {
			case <-h.stopCh:
				return
			default:
			}
			if n > 0 {
				h.keys.Route(buf[0])
			}
			if err != nil {
				return
			}
		}
	}()
	return nil
}

func (h *TerminalHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}
