// Package sensors provides the raw distance sample sources for the
// gesture pipeline: the VL53L0X triangle on I2C, a serial-attached
// microcontroller, and a mock for development without hardware.
package sensors

import (
	"fmt"

	"github.com/relabs-tech/gesture_jukebox/internal/config"
	"github.com/relabs-tech/gesture_jukebox/internal/gesture"
)

// Source delivers raw distance samples, one frame per call. Next blocks
// until the next frame is due.
type Source interface {
	Next() (gesture.Sample, error)
	Close() error
}

// Open builds the sample source selected by SENSOR_SOURCE.
func Open() (Source, error) {
	cfg := config.Get()
	switch cfg.SensorSource {
	case config.SourceI2C:
		return NewArray()
	case config.SourceSerial:
		return NewSerialSource()
	case config.SourceMock:
		return NewMockSource(cfg.SampleInterval), nil
	default:
		return nil, fmt.Errorf("unknown sensor source %q", cfg.SensorSource)
	}
}
