package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPipelineSwipeRight plays a full left-to-right hand pass through the
// raw samples and checks that exactly one episode comes out and that it
// classifies as a right swipe. After the hand leaves, the filtered values
// hold until the invalid-run counter expires, so the exit lands well after
// the last real reading.
func TestPipelineSwipeRight(t *testing.T) {
	cfg := DefaultConfig()
	p := NewPipeline(cfg)

	script := []Sample{
		samp(1000, 120, 0, 0),
		samp(1020, 90, 0, 0),
		samp(1040, 0, 105, 0),
		samp(1060, 0, 80, 0),
	}
	for _, s := range script {
		require.Equal(t, EventNone, p.Update(s))
	}
	require.Equal(t, StateTracking, p.Segmenter.State())

	// Hand gone: feed empty frames until the episode closes.
	now := int64(1060)
	ev := EventNone
	events := 0
	for now < 3000 {
		now += 20
		ev = p.Update(samp(now, 0, 0, 0))
		if ev == EventEpisodeReady {
			events++
		}
	}
	require.Equal(t, 1, events)
	require.Equal(t, StateIdle, p.Segmenter.State())

	ep := p.Episode()
	assert.Equal(t, int64(1000), ep.StartMS)
	assert.Equal(t, int64(1000), ep.FirstSeenMS[SensorLeft])
	assert.Equal(t, int64(1040), ep.FirstSeenMS[SensorRight])
	assert.False(t, ep.Seen(SensorTop))
	assert.Greater(t, ep.Swing(SensorLeft), cfg.SwipeSwingMM)
	assert.Greater(t, ep.Swing(SensorRight), cfg.SwipeSwingMM)

	assert.Equal(t, GestureRight, Classify(cfg, ep))

	// The return to idle also cleared the filter history.
	assert.Equal(t, [NumSensors]uint16{}, p.Filter.Filtered())
}

func TestPipelineIgnoresBackgroundObject(t *testing.T) {
	cfg := DefaultConfig()
	p := NewPipeline(cfg)

	// A wall past the detection band never starts an episode.
	for now := int64(0); now < 2000; now += 20 {
		require.Equal(t, EventNone, p.Update(samp(now, 0, 0, 300)))
	}
	assert.Equal(t, StateIdle, p.Segmenter.State())
}

func TestPipelineReset(t *testing.T) {
	p := NewPipeline(DefaultConfig())
	p.Update(samp(1000, 80, 0, 0))
	require.Equal(t, StateTracking, p.Segmenter.State())

	p.Reset()
	assert.Equal(t, StateIdle, p.Segmenter.State())
	assert.Equal(t, [NumSensors]uint16{}, p.Filter.Filtered())
}
