// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech

package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/relabs-tech/gesture_jukebox/internal/gesture"
)

// Sensor source selection values for SENSOR_SOURCE.
const (
	SourceI2C    = "i2c"
	SourceSerial = "serial"
	SourceMock   = "mock"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDPlayer   string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string
	MQTTClientIDDisplay  string

	// Topics
	TopicGesture   string
	TopicReject    string
	TopicDistances string

	// Sensor source: "i2c" for the VL53L0X triangle, "serial" for an
	// external MCU streaming frames, "mock" for development without
	// hardware.
	SensorSource string

	// I2C sensor array
	I2CBus           string
	SensorXShutLeft  string
	SensorXShutRight string
	SensorXShutTop   string
	SensorAddrLeft   uint16
	SensorAddrRight  uint16
	SensorAddrTop    uint16

	// Serial sensor source
	SerialPort     string
	SerialBaudRate int

	// Timing
	SampleInterval     int // milliseconds
	ConsoleLogInterval int // milliseconds

	// Status LED (empty pin names disable the LED)
	LEDPinR string
	LEDPinG string
	LEDPinB string

	// Web Server
	WebServerPort int

	// Player
	TracksDir string

	// Event log (empty disables persistence)
	EventLogPath string

	// Display
	DisplayI2CAddr        uint16
	DisplayUpdateInterval int // milliseconds

	// Gesture detection tuning. Every key is optional and overrides the
	// built-in default individually.
	Gesture gesture.Config
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: unexported (lowercase) so other packages cannot access it directly.
//     This enforces encapsulation and prevents external code from modifying config without proper locking.
//     Has package-level scope (visible to all functions in this package, persists for program lifetime).
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex protects concurrent access. Write lock (Lock) for initialization,
//     read lock (RLock) for Get() allows multiple concurrent readers without blocking each other.
//
// External code must use InitGlobal() to set and Get() to read, ensuring thread safety.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := &Config{Gesture: gesture.DefaultConfig()}
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func atoi(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func atoi64(key, value string) (int64, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func atou16(key, value string) (uint16, error) {
	n, err := strconv.ParseUint(value, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return uint16(n), nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	var err error
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_PLAYER":
		c.MQTTClientIDPlayer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_GESTURE":
		c.TopicGesture = value
	case "TOPIC_REJECT":
		c.TopicReject = value
	case "TOPIC_DISTANCES":
		c.TopicDistances = value

	// Sensor source
	case "SENSOR_SOURCE":
		switch value {
		case SourceI2C, SourceSerial, SourceMock:
			c.SensorSource = value
		default:
			return fmt.Errorf("SENSOR_SOURCE must be %q, %q or %q, got %q",
				SourceI2C, SourceSerial, SourceMock, value)
		}
	case "I2C_BUS":
		c.I2CBus = value
	case "SENSOR_XSHUT_LEFT":
		c.SensorXShutLeft = value
	case "SENSOR_XSHUT_RIGHT":
		c.SensorXShutRight = value
	case "SENSOR_XSHUT_TOP":
		c.SensorXShutTop = value
	case "SENSOR_ADDR_LEFT":
		c.SensorAddrLeft, err = atou16(key, value)
	case "SENSOR_ADDR_RIGHT":
		c.SensorAddrRight, err = atou16(key, value)
	case "SENSOR_ADDR_TOP":
		c.SensorAddrTop, err = atou16(key, value)

	// Serial
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD_RATE":
		c.SerialBaudRate, err = atoi(key, value)

	// Timing
	case "SAMPLE_INTERVAL":
		c.SampleInterval, err = atoi(key, value)
	case "CONSOLE_LOG_INTERVAL":
		c.ConsoleLogInterval, err = atoi(key, value)

	// Status LED
	case "LED_PIN_R":
		c.LEDPinR = value
	case "LED_PIN_G":
		c.LEDPinG = value
	case "LED_PIN_B":
		c.LEDPinB = value

	// Web Server
	case "WEB_SERVER_PORT":
		c.WebServerPort, err = atoi(key, value)

	// Player
	case "TRACKS_DIR":
		c.TracksDir = value

	// Event log
	case "EVENTLOG_PATH":
		c.EventLogPath = value

	// Display
	case "DISPLAY_I2C_ADDR":
		c.DisplayI2CAddr, err = atou16(key, value)
	case "DISPLAY_UPDATE_INTERVAL":
		c.DisplayUpdateInterval, err = atoi(key, value)

	// Gesture tuning
	case "GESTURE_DIST_MIN":
		c.Gesture.DMinMM, err = atou16(key, value)
	case "GESTURE_DIST_MAX":
		c.Gesture.DMaxMM, err = atou16(key, value)
	case "GESTURE_NEAR_LAYER":
		c.Gesture.NearLayerMM, err = atou16(key, value)
	case "GESTURE_INVALID_RESET":
		c.Gesture.InvalidResetCount, err = atoi(key, value)
	case "GESTURE_ENTER_COUNT":
		c.Gesture.EnterCount, err = atoi(key, value)
	case "GESTURE_EXIT_COUNT":
		c.Gesture.ExitCount, err = atoi(key, value)
	case "GESTURE_MIN_EPISODE_MS":
		c.Gesture.MinEpisodeMS, err = atoi64(key, value)
	case "GESTURE_MAX_EPISODE_MS":
		c.Gesture.MaxEpisodeMS, err = atoi64(key, value)
	case "GESTURE_COOLDOWN_MS":
		c.Gesture.CooldownMS, err = atoi64(key, value)
	case "GESTURE_MIN_SWING":
		c.Gesture.MinSwingMM, err = atou16(key, value)
	case "GESTURE_MIN_STRENGTH":
		c.Gesture.MinStrengthMMPS, err = atoi(key, value)
	case "GESTURE_TAP_SWING":
		c.Gesture.TapSwingMM, err = atou16(key, value)
	case "GESTURE_TAP_VELOCITY":
		c.Gesture.TapVelocityMMPS, err = atoi(key, value)
	case "GESTURE_SWIPE_SWING":
		c.Gesture.SwipeSwingMM, err = atou16(key, value)
	case "GESTURE_GAP_MIN_MS":
		c.Gesture.GapMinMS, err = atoi64(key, value)
	case "GESTURE_GAP_MAX_MS":
		c.Gesture.GapMaxMS, err = atoi64(key, value)

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return err
}

// validate checks that all required fields are set and consistent.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicGesture == "" {
		return fmt.Errorf("TOPIC_GESTURE is required")
	}
	if c.SensorSource == "" {
		return fmt.Errorf("SENSOR_SOURCE is required")
	}
	if c.SampleInterval == 0 {
		return fmt.Errorf("SAMPLE_INTERVAL is required")
	}
	if c.SensorSource == SourceSerial {
		if c.SerialPort == "" {
			return fmt.Errorf("SERIAL_PORT is required when SENSOR_SOURCE=serial")
		}
		if c.SerialBaudRate == 0 {
			return fmt.Errorf("SERIAL_BAUD_RATE is required when SENSOR_SOURCE=serial")
		}
	}
	if c.SensorSource == SourceI2C && c.I2CBus == "" {
		return fmt.Errorf("I2C_BUS is required when SENSOR_SOURCE=i2c")
	}
	if c.Gesture.DMinMM >= c.Gesture.DMaxMM {
		return fmt.Errorf("GESTURE_DIST_MIN must be below GESTURE_DIST_MAX")
	}
	if c.Gesture.EnterCount < 1 || c.Gesture.ExitCount < 1 {
		return fmt.Errorf("GESTURE_ENTER_COUNT and GESTURE_EXIT_COUNT must be at least 1")
	}
	if c.Gesture.GapMinMS > c.Gesture.GapMaxMS {
		return fmt.Errorf("GESTURE_GAP_MIN_MS must not exceed GESTURE_GAP_MAX_MS")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
// Acquires write lock (configMu.Lock) during initialization to prevent concurrent access.
// This is the only function that can set globalConfig.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
// Uses read lock (configMu.RLock) to allow multiple concurrent readers without blocking.
// This is thread-safe and efficient for concurrent access across goroutines.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
