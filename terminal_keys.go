// terminal_keys.go - Keyboard routing shared by the terminal and window hosts

package main

import "sync"

const (
	KEY_CTRL_C = 0x03
	KEY_QUIT   = 'q'
)

// KeyRouter dispatches host key presses. Quit keys fire onQuit once; every
// other byte goes to the handler, normally KeyedADC.RouteKey.
type KeyRouter struct {
	handler func(byte) bool
	onQuit  func()
	quit    sync.Once
}

func NewKeyRouter(handler func(byte) bool, onQuit func()) *KeyRouter {
	return &KeyRouter{handler: handler, onQuit: onQuit}
}

// Route reports whether b was consumed.
func (r *KeyRouter) Route(b byte) bool {
	if b == KEY_CTRL_C || b == KEY_QUIT || b == 'Q' {
		if r.onQuit != nil {
			r.quit.Do(r.onQuit)
		}
		return true
	}
	if b == '\r' {
		b = '\n'
	}
	if r.handler == nil {
		return false
	}
	handled := r.handler(b)
	if !handled {
		logger.Debug("ignored key", "component", "LEAK_DETECTOR", "key", b)
	}
	return handled
}
