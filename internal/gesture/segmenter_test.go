package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(l, r, top uint16) [NumSensors]uint16 {
	return [NumSensors]uint16{l, r, top}
}

func TestSegmenterStaysIdleWithoutTargets(t *testing.T) {
	s := NewSegmenter(DefaultConfig())
	for now := int64(0); now < 1000; now += 20 {
		require.Equal(t, EventNone, s.Step(frame(0, 0, 0), now))
	}
	assert.Equal(t, StateIdle, s.State())
}

func TestSegmenterEntryDebounce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnterCount = 3
	s := NewSegmenter(cfg)

	// Two valid frames, then a gap: the streak resets.
	s.Step(frame(80, 0, 0), 0)
	s.Step(frame(80, 0, 0), 20)
	s.Step(frame(0, 0, 0), 40)
	require.Equal(t, StateIdle, s.State())

	s.Step(frame(80, 0, 0), 60)
	s.Step(frame(80, 0, 0), 80)
	require.Equal(t, StateIdle, s.State())
	s.Step(frame(80, 0, 0), 100)
	assert.Equal(t, StateTracking, s.State())
	assert.Equal(t, int64(100), s.Episode().StartMS)
}

func TestSegmenterRejectsSingleSample(t *testing.T) {
	s := NewSegmenter(DefaultConfig())
	var reason string
	s.OnReject = func(r string) { reason = r }

	s.Step(frame(80, 0, 0), 1000)
	s.Step(frame(0, 0, 0), 1005)
	ev := s.Step(frame(0, 0, 0), 1010)

	assert.Equal(t, EventNone, ev)
	assert.Equal(t, "sample count below minimum", reason)
	assert.Equal(t, StateIdle, s.State())
}

func TestSegmenterRejectsShortEpisode(t *testing.T) {
	s := NewSegmenter(DefaultConfig())
	var reason string
	s.OnReject = func(r string) { reason = r }

	s.Step(frame(80, 0, 0), 1000)
	s.Step(frame(70, 0, 0), 1005)
	s.Step(frame(0, 0, 0), 1010)
	s.Step(frame(0, 0, 0), 1015)

	assert.Equal(t, "episode too short", reason)
	assert.Equal(t, StateIdle, s.State())
}

func TestSegmenterRejectsWeakSignal(t *testing.T) {
	s := NewSegmenter(DefaultConfig())
	var reason string
	s.OnReject = func(r string) { reason = r }

	// A static object at constant distance has no swing and no approach
	// velocity.
	for now := int64(1000); now <= 1100; now += 20 {
		s.Step(frame(80, 0, 0), now)
	}
	s.Step(frame(0, 0, 0), 1120)
	s.Step(frame(0, 0, 0), 1140)

	assert.Equal(t, "weak swing and weak velocity", reason)
	assert.Equal(t, StateIdle, s.State())
}

func TestSegmenterEmitsEpisode(t *testing.T) {
	s := NewSegmenter(DefaultConfig())

	s.Step(frame(120, 0, 0), 1000)
	s.Step(frame(90, 0, 0), 1020)
	s.Step(frame(60, 0, 0), 1040)
	require.Equal(t, EventNone, s.Step(frame(0, 0, 0), 1060))
	ev := s.Step(frame(0, 0, 0), 1080)

	require.Equal(t, EventEpisodeReady, ev)
	require.Equal(t, StateCooldown, s.State())

	ep := s.Episode()
	assert.Equal(t, int64(1000), ep.StartMS)
	assert.Equal(t, int64(1080), ep.EndMS)
	assert.Equal(t, 3, ep.SampleCount)
	assert.Equal(t, uint16(60), ep.MinMM[SensorLeft])
	assert.Equal(t, uint16(120), ep.MaxMM[SensorLeft])
	assert.Equal(t, uint16(60), ep.Swing(SensorLeft))
	assert.Equal(t, int64(1000), ep.FirstSeenMS[SensorLeft])
	assert.Equal(t, int64(1040), ep.LastSeenMS[SensorLeft])
	// 30mm closer in 20ms.
	assert.Equal(t, 1500, ep.PeakApproachMMPS[SensorLeft])
	assert.False(t, ep.Seen(SensorRight))
	assert.Equal(t, uint16(0), ep.Swing(SensorRight))
	assert.Equal(t, uint16(60), ep.MaxSwing())
	assert.Equal(t, 1500, ep.PeakVelocity())
}

func TestSegmenterTimeout(t *testing.T) {
	cfg := DefaultConfig()
	s := NewSegmenter(cfg)

	now := int64(1000)
	s.Step(frame(120, 0, 0), now)
	ev := EventNone
	for ev == EventNone {
		now += 20
		require.Less(t, now, int64(4000), "episode must be force-finalized")
		ev = s.Step(frame(60, 0, 0), now)
	}

	assert.Equal(t, EventEpisodeReady, ev)
	assert.Greater(t, s.Episode().DurationMS(), cfg.MaxEpisodeMS)
	assert.Equal(t, StateCooldown, s.State())
}

func TestSegmenterCooldown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CooldownMS = 100
	s := NewSegmenter(cfg)

	s.Step(frame(120, 0, 0), 1000)
	s.Step(frame(60, 0, 0), 1020)
	s.Step(frame(0, 0, 0), 1040)
	require.Equal(t, EventEpisodeReady, s.Step(frame(0, 0, 0), 1060))

	// A lingering target keeps the cooldown armed even past the deadline.
	s.Step(frame(60, 0, 0), 1200)
	require.Equal(t, StateCooldown, s.State())

	// Only a clear frame after the deadline releases it.
	s.Step(frame(0, 0, 0), 1220)
	assert.Equal(t, StateIdle, s.State())

	s.Step(frame(80, 0, 0), 1240)
	assert.Equal(t, StateTracking, s.State())
}

func TestSegmenterDominantChanges(t *testing.T) {
	s := NewSegmenter(DefaultConfig())

	s.Step(frame(100, 0, 0), 1000)
	s.Step(frame(100, 80, 0), 1020)
	s.Step(frame(70, 80, 0), 1040)
	assert.Equal(t, 2, s.Episode().DominantChanges)
}
