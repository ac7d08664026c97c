//go:build !windows

package main

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

const terminalIdleSleep = 5 * time.Millisecond

// TerminalHost puts stdin in raw mode so single key presses reach the
// KeyRouter without waiting for Enter. The descriptor is non-blocking so the
// reader can notice Stop between keys.
type TerminalHost struct {
	keys *KeyRouter

	fd       int
	saved    *term.State
	nonblock bool

	quit     chan struct{}
	done     chan struct{}
	quitOnce sync.Once
}

func NewTerminalHost(keys *KeyRouter) *TerminalHost {
	return &TerminalHost{
		keys: keys,
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (h *TerminalHost) Start() error {
	h.fd = int(os.Stdin.Fd())
	if !term.IsTerminal(h.fd) {
		close(h.done)
		return fmt.Errorf("terminal host: stdin is not a terminal: %w", ErrInvalidArgument)
	}

	saved, err := term.MakeRaw(h.fd)
	if err != nil {
		close(h.done)
		return &HardwareInitError{Component: "terminal", Err: err}
	}
	h.saved = saved

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		h.restore()
		close(h.done)
		return &HardwareInitError{Component: "terminal", Err: err}
	}
	h.nonblock = true

	go h.readLoop()
	return nil
}

func (h *TerminalHost) readLoop() {
	defer close(h.done)

	var key [1]byte
	for {
		select {
		case <-h.quit:
			return
		default:
		}

		n, err := syscall.Read(h.fd, key[:])
		switch {
		case n > 0:
			h.keys.Route(key[0])
		case errors.Is(err, syscall.EAGAIN), errors.Is(err, syscall.EWOULDBLOCK), err == nil:
			time.Sleep(terminalIdleSleep)
		default:
			logger.Debug("stdin closed", "err", err)
			return
		}
	}
}

// Stop waits for the reader and hands the terminal back in its original mode.
func (h *TerminalHost) Stop() {
	h.quitOnce.Do(func() { close(h.quit) })
	<-h.done
	h.restore()
}

func (h *TerminalHost) restore() {
	if h.nonblock {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblock = false
	}
	if h.saved != nil {
		_ = term.Restore(h.fd, h.saved)
		h.saved = nil
	}
}
