package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// samp builds a sample where a distance of 0 means "no reading".
func samp(t int64, l, r, top uint16) Sample {
	s := Sample{TimeMS: t}
	for i, d := range [NumSensors]uint16{l, r, top} {
		if d != 0 {
			s.Readings[i] = Reading{DistanceMM: d, Valid: true}
		}
	}
	return s
}

func TestMedian3(t *testing.T) {
	cases := []struct {
		a, b, c, want uint16
	}{
		{1, 2, 3, 2},
		{3, 2, 1, 2},
		{5, 7, 6, 6},
		{6, 5, 7, 6},
		{7, 6, 5, 6},
		{5, 5, 7, 5},
		{0, 0, 90, 0},
		{0, 90, 90, 90},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, median3(c.a, c.b, c.c), "median3(%d,%d,%d)", c.a, c.b, c.c)
	}
}

func TestFilterSmoothing(t *testing.T) {
	f := NewFilter(DefaultConfig())

	filt := f.Update(samp(0, 50, 0, 0))
	require.Equal(t, uint16(50), filt[SensorLeft], "first reading initializes directly")

	filt = f.Update(samp(20, 70, 0, 0))
	assert.Equal(t, uint16(55), filt[SensorLeft], "(3*50+70)/4")
}

func TestFilterDropoutSubstitution(t *testing.T) {
	f := NewFilter(DefaultConfig())

	f.Update(samp(0, 90, 0, 0))
	f.Update(samp(20, 90, 0, 0))

	// One missing frame is bridged by the history median.
	filt := f.Update(samp(40, 0, 0, 0))
	assert.Equal(t, uint16(90), filt[SensorLeft])

	// The out-of-range marker counts as a dropout too.
	filt = f.Update(samp(60, noTarget, 0, 0))
	assert.Equal(t, uint16(90), filt[SensorLeft])
}

func TestFilterNearLayerGate(t *testing.T) {
	f := NewFilter(DefaultConfig())

	// Right reads 50mm behind the nearest target and is rejected as
	// background.
	filt := f.Update(samp(0, 50, 100, 0))
	assert.Equal(t, uint16(50), filt[SensorLeft])
	assert.Equal(t, uint16(0), filt[SensorRight])

	// Within the near-layer margin both pass.
	f.Reset()
	filt = f.Update(samp(0, 50, 65, 0))
	assert.Equal(t, uint16(50), filt[SensorLeft])
	assert.Equal(t, uint16(65), filt[SensorRight])
}

func TestFilterBandLimits(t *testing.T) {
	f := NewFilter(DefaultConfig())

	// Too close and too far both decay instead of tracking.
	filt := f.Update(samp(0, 20, 0, 0))
	assert.Equal(t, uint16(0), filt[SensorLeft])

	f.Reset()
	filt = f.Update(samp(0, 0, 150, 0))
	assert.Equal(t, uint16(0), filt[SensorRight])

	// Band edges are inclusive.
	f.Reset()
	filt = f.Update(samp(0, 30, 0, 0))
	assert.Equal(t, uint16(30), filt[SensorLeft])
	f.Reset()
	filt = f.Update(samp(0, 0, 140, 0))
	assert.Equal(t, uint16(140), filt[SensorRight])
}

func TestFilterDecayAfterInvalidRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InvalidResetCount = 3
	f := NewFilter(cfg)

	f.Update(samp(0, 50, 0, 0))

	now := int64(20)
	var filt [NumSensors]uint16
	for i := 0; i < cfg.InvalidResetCount-1; i++ {
		filt = f.Update(samp(now, 0, 0, 0))
		now += 20
	}
	require.Equal(t, uint16(50), filt[SensorLeft], "holds through a short dropout")

	filt = f.Update(samp(now, 0, 0, 0))
	assert.Equal(t, uint16(0), filt[SensorLeft], "clears after the full invalid run")
}
