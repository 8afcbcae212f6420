// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/gesture_jukebox/internal/config"
	"github.com/relabs-tech/gesture_jukebox/internal/gesture"
)

// Array is the VL53L0X triangle. All three sensors share one I2C bus and
// boot at the same address, so each one is held in reset via its XSHUT
// pin and released one at a time to be moved to its own address.
type Array struct {
	bus    i2c.BusCloser
	devs   [gesture.NumSensors]*VL53L0X
	ticker *time.Ticker
	start  time.Time
}

// NewArray brings up the triangle per the global config and starts
// continuous ranging on all three sensors.
func NewArray() (*Array, error) {
	cfg := config.Get()

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("sensor array: periph host init: %w", err)
	}

	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return nil, fmt.Errorf("sensor array: open I2C bus %q: %w", cfg.I2CBus, err)
	}

	names := [gesture.NumSensors]string{"left", "right", "top"}
	xshutPins := [gesture.NumSensors]string{cfg.SensorXShutLeft, cfg.SensorXShutRight, cfg.SensorXShutTop}
	addrs := [gesture.NumSensors]uint16{cfg.SensorAddrLeft, cfg.SensorAddrRight, cfg.SensorAddrTop}

	var xshut [gesture.NumSensors]gpio.PinIO
	for i, pin := range xshutPins {
		p := gpioreg.ByName(pin)
		if p == nil {
			bus.Close()
			return nil, fmt.Errorf("sensor array: %s XSHUT pin %q not found", names[i], pin)
		}
		if err := p.Out(gpio.Low); err != nil {
			bus.Close()
			return nil, fmt.Errorf("sensor array: hold %s in reset: %w", names[i], err)
		}
		xshut[i] = p
	}
	// All sensors are now in reset and off the bus.
	time.Sleep(10 * time.Millisecond)

	a := &Array{bus: bus, start: time.Now()}
	for i := range a.devs {
		if err := xshut[i].Out(gpio.High); err != nil {
			a.Close()
			return nil, fmt.Errorf("sensor array: release %s: %w", names[i], err)
		}
		// Boot time per datasheet is 1.2ms; give it margin.
		time.Sleep(10 * time.Millisecond)

		dev, err := NewVL53L0X(bus, DefaultAddr, names[i])
		if err != nil {
			a.Close()
			return nil, err
		}
		if err := dev.SetAddress(addrs[i]); err != nil {
			a.Close()
			return nil, err
		}
		log.Printf("sensor array: %s VL53L0X online at 0x%02X", names[i], addrs[i])
		a.devs[i] = dev
	}

	for _, dev := range a.devs {
		if err := dev.StartContinuous(); err != nil {
			a.Close()
			return nil, err
		}
	}

	a.ticker = time.NewTicker(time.Duration(cfg.SampleInterval) * time.Millisecond)
	return a, nil
}

// Next waits for the next sample tick and reads all three sensors. A
// sensor that has no measurement ready by the tick deadline contributes
// an invalid reading rather than stalling the frame.
func (a *Array) Next() (gesture.Sample, error) {
	<-a.ticker.C

	s := gesture.Sample{TimeMS: time.Since(a.start).Milliseconds()}
	for i, dev := range a.devs {
		mm, ok, err := dev.ReadRange(2 * time.Millisecond)
		if err != nil {
			return gesture.Sample{}, err
		}
		s.Readings[i] = gesture.Reading{DistanceMM: mm, Valid: ok}
	}
	return s, nil
}

// Close stops ranging and releases the bus.
func (a *Array) Close() error {
	if a.ticker != nil {
		a.ticker.Stop()
	}
	for _, dev := range a.devs {
		if dev != nil {
			if err := dev.StopContinuous(); err != nil {
				log.Printf("sensor array: %v", err)
			}
		}
	}
	return a.bus.Close()
}
