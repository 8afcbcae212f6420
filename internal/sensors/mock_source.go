// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"time"

	"github.com/relabs-tech/gesture_jukebox/internal/gesture"
)

// mockStep is one scripted frame: distances in mm, 0 meaning no target.
type mockStep [gesture.NumSensors]uint16

// mockScript loops forever: a right swipe, a left swipe, then a tap,
// separated by pauses. An all-zero step is a pause marker that the
// source holds long enough for the filter to decay and the episode to
// close. Enough to exercise the whole pipeline and the player without
// hardware.
var mockScript = []mockStep{
	// right swipe: left sensor first, then right
	{120, 0, 0}, {95, 0, 0}, {80, 100, 0}, {0, 85, 0}, {0, 70, 0},
	{},
	// left swipe
	{0, 120, 0}, {0, 95, 0}, {100, 80, 0}, {85, 0, 0}, {70, 0, 0},
	{},
	// tap: both bottom sensors drop fast and symmetrically
	{110, 110, 0}, {75, 78, 0}, {50, 52, 0}, {48, 50, 0},
	{},
}

type mockSource struct {
	interval time.Duration
	start    time.Time
	pos      int
	gap      int
}

// NewMockSource creates a scripted sample source that replays hand
// passes at the configured interval.
func NewMockSource(intervalMS int) Source {
	return &mockSource{
		interval: time.Duration(intervalMS) * time.Millisecond,
		start:    time.Now(),
	}
}

func (m *mockSource) Next() (gesture.Sample, error) {
	time.Sleep(m.interval)

	step := mockScript[m.pos]
	// Hold each empty stretch long enough for the filter to decay and the
	// episode to close before the next scripted pass begins.
	if step == (mockStep{}) && m.gap < 60 {
		m.gap++
	} else {
		m.gap = 0
		m.pos = (m.pos + 1) % len(mockScript)
	}

	s := gesture.Sample{TimeMS: time.Since(m.start).Milliseconds()}
	for i, d := range step {
		if d != 0 {
			s.Readings[i] = gesture.Reading{DistanceMM: d, Valid: true}
		}
	}
	return s, nil
}

func (m *mockSource) Close() error { return nil }
