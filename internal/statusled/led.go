// Package statusled drives the RGB status LED on the enclosure. All
// methods tolerate missing pins, so binaries run unchanged on hardware
// without the LED fitted.
package statusled

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Color is an RGB on/off triple; the LED has no PWM dimming.
type Color struct {
	R, G, B bool
}

var (
	Off    = Color{}
	Green  = Color{G: true}
	Blue   = Color{B: true}
	Yellow = Color{R: true, G: true}
	Red    = Color{R: true}
)

// LED is the three-pin status light. The zero value is a disabled LED.
type LED struct {
	r, g, b gpio.PinIO
}

// New resolves the configured pin names. Empty names yield a disabled
// LED and no error; a named pin that cannot be found is an error.
func New(pinR, pinG, pinB string) (*LED, error) {
	if pinR == "" && pinG == "" && pinB == "" {
		return &LED{}, nil
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("status LED: periph host init: %w", err)
	}

	led := &LED{}
	for _, p := range []struct {
		name string
		dst  *gpio.PinIO
	}{
		{pinR, &led.r},
		{pinG, &led.g},
		{pinB, &led.b},
	} {
		if p.name == "" {
			continue
		}
		pin := gpioreg.ByName(p.name)
		if pin == nil {
			return nil, fmt.Errorf("status LED: pin %q not found", p.name)
		}
		*p.dst = pin
	}
	return led, nil
}

// Set lights the LED in the given color. Failures are logged, not
// returned; a dead LED must never take down the sampling loop.
func (l *LED) Set(c Color) {
	l.write(l.r, c.R)
	l.write(l.g, c.G)
	l.write(l.b, c.B)
}

func (l *LED) write(pin gpio.PinIO, on bool) {
	if pin == nil {
		return
	}
	level := gpio.Low
	if on {
		level = gpio.High
	}
	if err := pin.Out(level); err != nil {
		log.Printf("status LED: %s: %v", pin.Name(), err)
	}
}

// Close turns the LED off.
func (l *LED) Close() {
	l.Set(Off)
}
