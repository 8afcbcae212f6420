package sensors

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/gesture_jukebox/internal/gesture"
)

func serialFixture(lines string) Source {
	return newSerialSource(io.NopCloser(strings.NewReader(lines)))
}

func TestSerialSourceParsesFrames(t *testing.T) {
	src := serialFixture("D,1000,120,65535,0\nD,1020,95,80,140\n")

	s, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(1000), s.TimeMS)
	assert.Equal(t, gesture.Reading{DistanceMM: 120, Valid: true}, s.Readings[gesture.SensorLeft])
	assert.False(t, s.Readings[gesture.SensorRight].Valid, "65535 is no-target")
	assert.False(t, s.Readings[gesture.SensorTop].Valid, "0 is no-target")

	s, err = src.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(1020), s.TimeMS)
	assert.Equal(t, gesture.Reading{DistanceMM: 140, Valid: true}, s.Readings[gesture.SensorTop])
}

func TestSerialSourceSkipsChatter(t *testing.T) {
	src := serialFixture("# boot v1.2\n\nSTATUS,ok\nD,500,0,0,100\n")

	s, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(500), s.TimeMS)
}

func TestSerialSourceSkipsMalformedFrames(t *testing.T) {
	src := serialFixture("D,1000,120\nD,abc,1,2,3\nD,1000,1,2,zz\nD,2000,50,60,0\n")

	s, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(2000), s.TimeMS)
}

func TestSerialSourceEOF(t *testing.T) {
	src := serialFixture("D,1000,120,0,0")
	// No trailing newline: the partial line is dropped and EOF surfaces.
	_, err := src.Next()
	require.Error(t, err)
}
