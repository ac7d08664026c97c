package main

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAlreadyActive   = errors.New("already active")
	ErrNotActive       = errors.New("not active")
)

// HardwareInitError reports a peripheral that could not be acquired or
// configured. It is fatal for the component that returned it.
type HardwareInitError struct {
	Component string
	Err       error
}

func (e *HardwareInitError) Error() string {
	return fmt.Sprintf("%s: hardware init failed: %v", e.Component, e.Err)
}

func (e *HardwareInitError) Unwrap() error {
	return e.Err
}

// ParseError is returned by ParseNotation for malformed notation.
// Pos is the byte offset of the offending character.
type ParseError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("notation %q: %s at offset %d", e.Input, e.Msg, e.Pos)
}
