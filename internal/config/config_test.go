package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jukebox.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `# gesture jukebox
MQTT_BROKER=tcp://localhost:1883
TOPIC_GESTURE=jukebox/gesture
SENSOR_SOURCE=mock
SAMPLE_INTERVAL=20
`

func TestLoadMinimal(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker)
	assert.Equal(t, "jukebox/gesture", cfg.TopicGesture)
	assert.Equal(t, SourceMock, cfg.SensorSource)
	assert.Equal(t, 20, cfg.SampleInterval)

	// Untouched tuning keys keep the built-in defaults.
	assert.Equal(t, uint16(30), cfg.Gesture.DMinMM)
	assert.Equal(t, uint16(140), cfg.Gesture.DMaxMM)
	assert.Equal(t, int64(2000), cfg.Gesture.MaxEpisodeMS)
}

func TestLoadGestureOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
GESTURE_DIST_MAX=200
GESTURE_TAP_VELOCITY=90
GESTURE_EXIT_COUNT=4
`))
	require.NoError(t, err)

	assert.Equal(t, uint16(200), cfg.Gesture.DMaxMM)
	assert.Equal(t, 90, cfg.Gesture.TapVelocityMMPS)
	assert.Equal(t, 4, cfg.Gesture.ExitCount)
	// Neighbouring defaults survive the overrides.
	assert.Equal(t, uint16(30), cfg.Gesture.DMinMM)
	assert.Equal(t, 1, cfg.Gesture.EnterCount)
}

func TestLoadHexSensorAddr(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+"SENSOR_ADDR_LEFT=0x30\n"))
	require.NoError(t, err)
	assert.Equal(t, uint16(0x30), cfg.SensorAddrLeft)
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{"missing broker", "TOPIC_GESTURE=t\nSENSOR_SOURCE=mock\nSAMPLE_INTERVAL=20\n", "MQTT_BROKER"},
		{"missing interval", "MQTT_BROKER=b\nTOPIC_GESTURE=t\nSENSOR_SOURCE=mock\n", "SAMPLE_INTERVAL"},
		{"unknown key", minimalConfig + "NO_SUCH_KEY=1\n", "unknown config key"},
		{"bad int", minimalConfig + "WEB_SERVER_PORT=eighty\n", "WEB_SERVER_PORT"},
		{"bad source", minimalConfig + "SENSOR_SOURCE=gpio\n", "SENSOR_SOURCE"},
		{"serial without port", "MQTT_BROKER=b\nTOPIC_GESTURE=t\nSENSOR_SOURCE=serial\nSAMPLE_INTERVAL=20\n", "SERIAL_PORT"},
		{"inverted band", minimalConfig + "GESTURE_DIST_MIN=150\n", "GESTURE_DIST_MIN"},
		{"malformed line", minimalConfig + "JUST_A_KEY\n", "invalid config line"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
