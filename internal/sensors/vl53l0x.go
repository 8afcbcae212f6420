// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
)

// VL53L0X registers used here. Only the small continuous-ranging subset
// is needed; the sensor boots with usable default tuning.
const (
	regSysrangeStart         = 0x00
	regSystemInterruptClear  = 0x0B
	regResultInterruptStatus = 0x13
	regResultRangeStatus     = 0x14
	regSlaveDeviceAddress    = 0x8A
	regModelID               = 0xC0

	vl53l0xModelID = 0xEE

	// DefaultAddr is the power-on I2C address of every VL53L0X.
	DefaultAddr = 0x29

	// outOfRange is reported by the sensor when nothing reflects. Anything
	// at or above it is treated as no reading.
	outOfRange = 8190
)

// VL53L0X drives one time-of-flight ranger in continuous back-to-back
// mode.
type VL53L0X struct {
	dev  i2c.Dev
	name string
}

// NewVL53L0X probes the device at addr on bus and verifies its model ID.
func NewVL53L0X(bus i2c.Bus, addr uint16, name string) (*VL53L0X, error) {
	d := &VL53L0X{dev: i2c.Dev{Bus: bus, Addr: addr}, name: name}
	id, err := d.readReg(regModelID)
	if err != nil {
		return nil, fmt.Errorf("%s sensor: probe at 0x%02X: %w", name, addr, err)
	}
	if id != vl53l0xModelID {
		return nil, fmt.Errorf("%s sensor: unexpected model ID 0x%02X at 0x%02X", name, id, addr)
	}
	return d, nil
}

// SetAddress moves the device to a new I2C address. Effective
// immediately; the receiver is updated to keep talking to it.
func (d *VL53L0X) SetAddress(addr uint16) error {
	if err := d.writeReg(regSlaveDeviceAddress, byte(addr&0x7F)); err != nil {
		return fmt.Errorf("%s sensor: set address 0x%02X: %w", d.name, addr, err)
	}
	d.dev.Addr = addr
	return nil
}

// StartContinuous puts the device into back-to-back ranging mode.
func (d *VL53L0X) StartContinuous() error {
	if err := d.writeReg(regSysrangeStart, 0x02); err != nil {
		return fmt.Errorf("%s sensor: start continuous: %w", d.name, err)
	}
	return nil
}

// StopContinuous returns the device to single-shot idle.
func (d *VL53L0X) StopContinuous() error {
	if err := d.writeReg(regSysrangeStart, 0x01); err != nil {
		return fmt.Errorf("%s sensor: stop continuous: %w", d.name, err)
	}
	return nil
}

// ReadRange returns the latest distance in mm and whether it is a real
// target. It waits up to timeout for a measurement to become ready; a
// slow frame or an out-of-range report comes back as not valid, an I2C
// failure as an error.
func (d *VL53L0X) ReadRange(timeout time.Duration) (uint16, bool, error) {
	deadline := time.Now().Add(timeout)
	for {
		status, err := d.readReg(regResultInterruptStatus)
		if err != nil {
			return 0, false, fmt.Errorf("%s sensor: interrupt status: %w", d.name, err)
		}
		if status&0x07 != 0 {
			break
		}
		if time.Now().After(deadline) {
			return 0, false, nil
		}
		time.Sleep(500 * time.Microsecond)
	}

	var buf [2]byte
	if err := d.dev.Tx([]byte{regResultRangeStatus + 10}, buf[:]); err != nil {
		return 0, false, fmt.Errorf("%s sensor: read range: %w", d.name, err)
	}
	if err := d.writeReg(regSystemInterruptClear, 0x01); err != nil {
		return 0, false, fmt.Errorf("%s sensor: clear interrupt: %w", d.name, err)
	}

	mm := uint16(buf[0])<<8 | uint16(buf[1])
	if mm == 0 || mm >= outOfRange {
		return mm, false, nil
	}
	return mm, true, nil
}

func (d *VL53L0X) readReg(reg byte) (byte, error) {
	var buf [1]byte
	if err := d.dev.Tx([]byte{reg}, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (d *VL53L0X) writeReg(reg, val byte) error {
	return d.dev.Tx([]byte{reg, val}, nil)
}
