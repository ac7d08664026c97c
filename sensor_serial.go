package main

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
)

const (
	SERIAL_DEFAULT_BAUD    = 115200
	SERIAL_READ_TIMEOUT    = 500 * time.Millisecond
	SERIAL_REQUEST_COMMAND = "?\n"
)

// SerialADC talks to an ADC bridge on a serial line. Each read sends "?\n"
// and expects one decimal sample terminated by a newline.
type SerialADC struct {
	mu      sync.Mutex
	port    io.ReadWriteCloser
	pending []byte
	chunk   [64]byte
}

// OpenSerialADC opens the named serial device at the given baud rate.
func OpenSerialADC(name string, baud int) (*SerialADC, error) {
	mode := &serial.Mode{BaudRate: baud}
	p, err := serial.Open(name, mode)
	if err != nil {
		return nil, &HardwareInitError{Component: "serial adc " + name, Err: err}
	}
	if err := p.SetReadTimeout(SERIAL_READ_TIMEOUT); err != nil {
		_ = p.Close()
		return nil, &HardwareInitError{Component: "serial adc " + name, Err: err}
	}
	logger.Info("serial: port opened", "component", "HYDRO_SENSOR", "device", name, "baud", baud)
	return newSerialADC(p), nil
}

func newSerialADC(port io.ReadWriteCloser) *SerialADC {
	return &SerialADC{port: port}
}

func (s *SerialADC) ReadRaw() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = s.pending[:0]
	if _, err := io.WriteString(s.port, SERIAL_REQUEST_COMMAND); err != nil {
		return 0, fmt.Errorf("serial adc request: %w", err)
	}
	line, err := s.readLine()
	if err != nil {
		return 0, err
	}
	raw, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("serial adc reply %q: %w", strings.TrimSpace(line), err)
	}
	return raw, nil
}

// readLine returns the next newline-terminated reply. go.bug.st/serial reports
// a read timeout as a zero-length read, which ends the wait.
func (s *SerialADC) readLine() (string, error) {
	for {
		if i := bytes.IndexByte(s.pending, '\n'); i >= 0 {
			line := string(s.pending[:i])
			s.pending = s.pending[i+1:]
			return line, nil
		}
		n, err := s.port.Read(s.chunk[:])
		s.pending = append(s.pending, s.chunk[:n]...)
		if err != nil {
			return "", fmt.Errorf("serial adc reply: %w", err)
		}
		if n == 0 {
			s.pending = s.pending[:0]
			return "", fmt.Errorf("serial adc: no reply within %v", SERIAL_READ_TIMEOUT)
		}
	}
}

func (s *SerialADC) Close() error {
	logger.Info("serial: closing port", "component", "HYDRO_SENSOR")
	return s.port.Close()
}
