package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// sensorTrack describes one sensor's contribution to a synthetic episode.
type sensorTrack struct {
	min, max  uint16
	firstSeen int64
	peakVel   int
}

func episodeOf(l, r, top sensorTrack) *Episode {
	ep := &Episode{}
	ep.reset(1000)
	ep.EndMS = 1400
	ep.SampleCount = 10
	for i, tr := range []sensorTrack{l, r, top} {
		if tr.firstSeen == 0 {
			continue
		}
		ep.MinMM[i] = tr.min
		ep.MaxMM[i] = tr.max
		ep.FirstSeenMS[i] = tr.firstSeen
		ep.LastSeenMS[i] = tr.firstSeen + 100
		ep.PeakApproachMMPS[i] = tr.peakVel
	}
	return ep
}

func TestClassifyTap(t *testing.T) {
	cfg := DefaultConfig()
	ep := episodeOf(
		sensorTrack{min: 60, max: 90, firstSeen: 1000, peakVel: 80},
		sensorTrack{min: 55, max: 90, firstSeen: 1010},
		sensorTrack{},
	)
	assert.Equal(t, GestureTap, Classify(cfg, ep))
}

func TestClassifyTapNeedsVelocity(t *testing.T) {
	cfg := DefaultConfig()
	// Large symmetric swings but a slow descent: not a tap, and the
	// near-simultaneous contact still reads as a swipe.
	ep := episodeOf(
		sensorTrack{min: 60, max: 90, firstSeen: 1000, peakVel: 40},
		sensorTrack{min: 55, max: 90, firstSeen: 1010, peakVel: 30},
		sensorTrack{},
	)
	assert.Equal(t, GestureRight, Classify(cfg, ep))
}

func TestClassifySwipeRight(t *testing.T) {
	cfg := DefaultConfig()
	ep := episodeOf(
		sensorTrack{min: 100, max: 110, firstSeen: 1000, peakVel: 40},
		sensorTrack{min: 95, max: 105, firstSeen: 1120, peakVel: 40},
		sensorTrack{},
	)
	assert.Equal(t, GestureRight, Classify(cfg, ep))
}

func TestClassifySwipeLeft(t *testing.T) {
	cfg := DefaultConfig()
	ep := episodeOf(
		sensorTrack{min: 100, max: 110, firstSeen: 1120, peakVel: 40},
		sensorTrack{min: 95, max: 105, firstSeen: 1000, peakVel: 40},
		sensorTrack{},
	)
	assert.Equal(t, GestureLeft, Classify(cfg, ep))
}

func TestClassifySwipeGapBounds(t *testing.T) {
	cfg := DefaultConfig()

	// Contacts too far apart in time are unrelated targets.
	ep := episodeOf(
		sensorTrack{min: 100, max: 110, firstSeen: 1000, peakVel: 40},
		sensorTrack{min: 95, max: 105, firstSeen: 3500, peakVel: 40},
		sensorTrack{},
	)
	assert.Equal(t, GestureNone, Classify(cfg, ep))
}

func TestClassifySwipeBlockedByTop(t *testing.T) {
	cfg := DefaultConfig()
	// Any top contact disqualifies the horizontal interpretation; with the
	// top seen after the bottom row this becomes an upward swipe.
	ep := episodeOf(
		sensorTrack{min: 100, max: 110, firstSeen: 1000, peakVel: 40},
		sensorTrack{min: 95, max: 105, firstSeen: 1120, peakVel: 40},
		sensorTrack{min: 100, max: 102, firstSeen: 1060},
	)
	assert.Equal(t, GestureUp, Classify(cfg, ep))
}

func TestClassifyUp(t *testing.T) {
	cfg := DefaultConfig()
	ep := episodeOf(
		sensorTrack{min: 90, max: 110, firstSeen: 1000, peakVel: 40},
		sensorTrack{},
		sensorTrack{min: 95, max: 105, firstSeen: 1150, peakVel: 40},
	)
	assert.Equal(t, GestureUp, Classify(cfg, ep))
}

func TestClassifyDown(t *testing.T) {
	cfg := DefaultConfig()
	ep := episodeOf(
		sensorTrack{min: 90, max: 110, firstSeen: 1150, peakVel: 40},
		sensorTrack{},
		sensorTrack{min: 95, max: 105, firstSeen: 1000, peakVel: 40},
	)
	assert.Equal(t, GestureDown, Classify(cfg, ep))
}

func TestClassifyVerticalGapBounds(t *testing.T) {
	cfg := DefaultConfig()

	// Top contact far outside the gap window is an unrelated target.
	ep := episodeOf(
		sensorTrack{min: 90, max: 110, firstSeen: 1000, peakVel: 40},
		sensorTrack{},
		sensorTrack{min: 95, max: 105, firstSeen: 3500, peakVel: 40},
	)
	assert.Equal(t, GestureNone, Classify(cfg, ep))

	// Below the lower bound there is no usable ordering signal.
	ep = episodeOf(
		sensorTrack{min: 90, max: 110, firstSeen: 1000, peakVel: 40},
		sensorTrack{},
		sensorTrack{min: 95, max: 105, firstSeen: 1002, peakVel: 40},
	)
	assert.Equal(t, GestureNone, Classify(cfg, ep))

	// Simultaneous contact has no direction at all.
	ep = episodeOf(
		sensorTrack{min: 90, max: 110, firstSeen: 1000, peakVel: 40},
		sensorTrack{},
		sensorTrack{min: 95, max: 105, firstSeen: 1000, peakVel: 40},
	)
	assert.Equal(t, GestureNone, Classify(cfg, ep))
}

func TestClassifyNoneForSingleSensor(t *testing.T) {
	cfg := DefaultConfig()
	ep := episodeOf(
		sensorTrack{min: 90, max: 110, firstSeen: 1000, peakVel: 40},
		sensorTrack{},
		sensorTrack{},
	)
	assert.Equal(t, GestureNone, Classify(cfg, ep))
}
