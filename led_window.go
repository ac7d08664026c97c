//go:build !headless

// led_window.go - Ebiten window showing the LED and the detector status

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package main

import (
	"image/color"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

const (
	LED_WINDOW_WIDTH  = 480
	LED_WINDOW_HEIGHT = 200
	LED_WINDOW_PIXEL  = 96
)

func init() {
	compiledFeatures = append(compiledFeatures, "led:window")
}

type LEDWindow struct {
	color   atomic.Uint32
	running atomic.Bool

	mu         sync.RWMutex
	keyHandler func(byte) bool
	done       chan struct{}
	firstDraw  chan struct{}
	drawOnce   sync.Once

	clipboardOnce sync.Once
	clipboardOK   bool
}

func NewLEDWindow() (*LEDWindow, error) {
	return &LEDWindow{
		done:      make(chan struct{}),
		firstDraw: make(chan struct{}),
	}, nil
}

func (w *LEDWindow) SetPixel(r, g, b uint8) error {
	w.color.Store(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
	return nil
}

func (w *LEDWindow) Clear() error {
	w.color.Store(0)
	return nil
}

func (w *LEDWindow) SetKeyHandler(fn func(byte) bool) {
	w.mu.Lock()
	w.keyHandler = fn
	w.mu.Unlock()
}

// Start opens the window and returns once the first frame has been drawn.
func (w *LEDWindow) Start() error {
	if w.running.Swap(true) {
		return nil
	}
	ebiten.SetWindowSize(LED_WINDOW_WIDTH, LED_WINDOW_HEIGHT)
	ebiten.SetWindowTitle("Hydroalarm")
	ebiten.SetRunnableOnUnfocused(true)

	errCh := make(chan error, 1)
	go func() {
		defer close(w.done)
		if err := ebiten.RunGame(w); err != nil {
			logger.Error("window stopped", "component", "C3_LED_BLINK", "err", err)
			errCh <- err
		}
	}()

	select {
	case <-w.firstDraw:
		return nil
	case err := <-errCh:
		return &HardwareInitError{Component: "led window", Err: err}
	}
}

// Close asks the game loop to terminate on its next update.
func (w *LEDWindow) Close() error {
	w.running.Store(false)
	return nil
}

// Done is closed when the window has gone away.
func (w *LEDWindow) Done() <-chan struct{} {
	return w.done
}

func (w *LEDWindow) Update() error {
	if ebiten.IsWindowBeingClosed() || !w.running.Load() {
		return ebiten.Termination
	}
	w.handleKeyboardInput()
	return nil
}

func (w *LEDWindow) handleKeyboardInput() {
	w.mu.RLock()
	handler := w.keyHandler
	w.mu.RUnlock()

	for _, r := range ebiten.AppendInputChars(nil) {
		if r == 'c' || r == 'C' {
			w.copyStatus()
			continue
		}
		if r > 0 && r <= 0x7F && handler != nil {
			handler(byte(r))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && handler != nil {
		handler(KEY_QUIT)
	}
}

func (w *LEDWindow) copyStatus() {
	w.clipboardOnce.Do(func() {
		w.clipboardOK = clipboard.Init() == nil
	})
	if !w.clipboardOK {
		logger.Warn("clipboard unavailable", "component", "C3_LED_BLINK")
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(runtimeStatus.snapshot().line()))
}

func (w *LEDWindow) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{16, 16, 24, 255})

	rgb := w.color.Load()
	led := color.RGBA{uint8(rgb >> 16), uint8(rgb >> 8), uint8(rgb), 255}
	ebitenutil.DrawRect(screen, 22, 22, LED_WINDOW_PIXEL+4, LED_WINDOW_PIXEL+4, color.RGBA{70, 70, 80, 255})
	ebitenutil.DrawRect(screen, 24, 24, LED_WINDOW_PIXEL, LED_WINDOW_PIXEL, led)

	face := basicfont.Face7x13
	labelColor := color.RGBA{190, 190, 190, 255}
	valueColor := color.RGBA{0, 220, 90, 255}
	s := runtimeStatus.snapshot()

	x := 24 + LED_WINDOW_PIXEL + 20
	text.Draw(screen, "LEVEL", face, x, 36, labelColor)
	text.Draw(screen, s.level.String(), face, x+56, 36, valueColor)
	text.Draw(screen, "BUZZER", face, x, 56, labelColor)
	text.Draw(screen, s.seqState.String(), face, x+56, 56, valueColor)
	if s.pattern != "" {
		text.Draw(screen, "NOTE", face, x, 76, labelColor)
		text.Draw(screen, formatNote(s.index, s.frequency), face, x+56, 76, valueColor)
	}

	legend := "0-3 Level  X Fail  C Copy  Q Quit"
	legendW := text.BoundString(face, legend).Dx()
	legendX := max(LED_WINDOW_WIDTH-legendW-6, 6)
	ebitenutil.DrawRect(screen, 0, LED_WINDOW_HEIGHT-40, LED_WINDOW_WIDTH, 40, color.RGBA{0, 0, 0, 180})
	text.Draw(screen, s.line(), face, 6, LED_WINDOW_HEIGHT-24, labelColor)
	text.Draw(screen, legend, face, legendX, LED_WINDOW_HEIGHT-8, color.RGBA{160, 160, 160, 255})

	w.drawOnce.Do(func() { close(w.firstDraw) })
}

func (w *LEDWindow) Layout(_, _ int) (int, int) {
	return LED_WINDOW_WIDTH, LED_WINDOW_HEIGHT
}
