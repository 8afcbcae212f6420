package sensors

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/gesture_jukebox/internal/config"
	"github.com/relabs-tech/gesture_jukebox/internal/gesture"
)

// serialNoTarget is what the MCU firmware sends for a sensor with no
// reflection this frame.
const serialNoTarget = 65535

// serialSource reads distance frames from a microcontroller that owns
// the sensor triangle and streams one line per frame:
//
//	D,<time_ms>,<left_mm>,<right_mm>,<top_mm>
//
// Lines not starting with "D," are status chatter and are skipped.
type serialSource struct {
	port   io.ReadCloser
	reader *bufio.Reader
}

// NewSerialSource opens the configured serial port.
func NewSerialSource() (Source, error) {
	cfg := config.Get()

	serialOpts := serial.OpenOptions{
		PortName:              cfg.SerialPort,
		BaudRate:              uint(cfg.SerialBaudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.SerialPort, err)
	}
	log.Printf("sensor serial port opened on %s at %d baud", cfg.SerialPort, cfg.SerialBaudRate)

	return newSerialSource(port), nil
}

// newSerialSource wraps an already-open stream; split out for tests.
func newSerialSource(port io.ReadCloser) Source {
	return &serialSource{port: port, reader: bufio.NewReader(port)}
}

// Next blocks on the port until a well-formed distance frame arrives.
// Malformed lines are logged and skipped rather than failing the stream.
func (s *serialSource) Next() (gesture.Sample, error) {
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return gesture.Sample{}, fmt.Errorf("sensor serial read: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, "D,") {
			continue
		}

		sample, err := parseFrame(line)
		if err != nil {
			log.Printf("sensor serial: %v", err)
			continue
		}
		return sample, nil
	}
}

func (s *serialSource) Close() error {
	return s.port.Close()
}

func parseFrame(line string) (gesture.Sample, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 2+gesture.NumSensors {
		return gesture.Sample{}, fmt.Errorf("bad frame %q: want %d fields", line, 2+gesture.NumSensors)
	}

	ts, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return gesture.Sample{}, fmt.Errorf("bad frame %q: timestamp: %w", line, err)
	}

	sample := gesture.Sample{TimeMS: ts}
	for i := 0; i < gesture.NumSensors; i++ {
		mm, err := strconv.ParseUint(fields[2+i], 10, 16)
		if err != nil {
			return gesture.Sample{}, fmt.Errorf("bad frame %q: distance %d: %w", line, i, err)
		}
		if mm != 0 && mm != serialNoTarget {
			sample.Readings[i] = gesture.Reading{DistanceMM: uint16(mm), Valid: true}
		}
	}
	return sample, nil
}
