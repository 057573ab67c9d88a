// Package pinscreen renders live pin values to a terminal (stdout) using
// ANSI color codes: one block per watched pin, bright for high digital levels
// or scaled with the sample for analog pins.
//
// Useful while bringing up a board without any LEDs wired yet.
package pinscreen

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// Cell is one rendered pin: either a digital level or a 10-bit analog
// sample.
type Cell struct {
	Label  string
	Analog bool
	Level  bool
	Sample uint16
}

// Opts represents the options available for this display.
type Opts struct {
	Palette *ansi256.Palette

	_ struct{}
}

// Screen redraws a single terminal line in place on every update.
type Screen struct {
	w       io.Writer
	palette ansi256.Palette

	buf bytes.Buffer
}

// New returns a Screen that displays at the console.
func New(opts *Opts) *Screen {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	return &Screen{
		w:       colorable.NewColorableStdout(),
		palette: *p,
	}
}

func (s *Screen) String() string {
	return "PinScreen"
}

// Halt resets the terminal colors so the display is not corrupted.
func (s *Screen) Halt() error {
	_, err := s.w.Write([]byte("\n\033[0m"))
	return err
}

// Draw renders one snapshot of all watched pins.
func (s *Screen) Draw(cells []Cell) error {
	// Rewrites one line in place; minimizes allocations per call.
	s.buf.Reset()
	_, _ = s.buf.WriteString("\r\033[0m")
	for _, c := range cells {
		_, _ = io.WriteString(&s.buf, s.palette.Block(cellColor(c)))
		_, _ = fmt.Fprintf(&s.buf, "\033[0m %s=%s  ", c.Label, cellText(c))
	}
	_, err := s.buf.WriteTo(s.w)
	return err
}

// cellColor maps a pin value to a color: green for high, dark gray for low,
// and a red ramp for analog samples.
func cellColor(c Cell) color.NRGBA {
	if c.Analog {
		// 10-bit sample scaled to one channel.
		v := byte(c.Sample >> 2)
		return color.NRGBA{R: v, G: 0, B: 255 - v, A: 255}
	}
	if c.Level {
		return color.NRGBA{R: 0, G: 255, B: 0, A: 255}
	}
	return color.NRGBA{R: 40, G: 40, B: 40, A: 255}
}

func cellText(c Cell) string {
	if c.Analog {
		return fmt.Sprintf("%4d", c.Sample)
	}
	if c.Level {
		return "high"
	}
	return "low "
}

var _ fmt.Stringer = &Screen{}
