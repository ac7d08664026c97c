package main

import (
	"sync/atomic"
	"time"
)

// Command is a lifecycle signal for a background task.
type Command uint32

const (
	CmdReset Command = 1 << iota
	CmdQuit
)

func (c Command) String() string {
	switch c {
	case CmdReset:
		return "reset"
	case CmdQuit:
		return "quit"
	default:
		return "none"
	}
}

// CommandChannel delivers Reset and Quit to a single waiting task.
// Send never blocks. Repeated sends of the same command before the task wakes
// collapse into one, and a pending Quit discards a pending Reset.
type CommandChannel struct {
	pending atomic.Uint32
	wake    chan struct{}
}

func NewCommandChannel() *CommandChannel {
	return &CommandChannel{wake: make(chan struct{}, 1)}
}

func (c *CommandChannel) Send(cmd Command) {
	c.pending.Or(uint32(cmd))
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Wait blocks until a command arrives or timeout elapses. ok is false on
// timeout, which callers treat as their periodic tick.
func (c *CommandChannel) Wait(timeout time.Duration) (cmd Command, ok bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-c.wake:
	case <-timer.C:
	}
	return c.Poll()
}

// Poll takes at most one pending command without blocking.
func (c *CommandChannel) Poll() (Command, bool) {
	bits := Command(c.pending.Swap(0))
	switch {
	case bits&CmdQuit != 0:
		return CmdQuit, true
	case bits&CmdReset != 0:
		return CmdReset, true
	default:
		return 0, false
	}
}
