// Package events defines the JSON payloads exchanged between the jukebox
// binaries over MQTT.
package events

import "github.com/relabs-tech/gesture_jukebox/internal/gesture"

// GestureEvent is published on the gesture topic once per recognized
// gesture. Gesture carries the lowercase name ("left", "tap", ...);
// consumers map it back with gesture.ParseGesture.
type GestureEvent struct {
	ID               string `json:"id"`
	TimeMS           int64  `json:"time_ms"`
	Gesture          string `json:"gesture"`
	DurationMS       int64  `json:"duration_ms"`
	Samples          int    `json:"samples"`
	MaxSwingMM       uint16 `json:"max_swing_mm"`
	PeakVelocityMMPS int    `json:"peak_velocity_mmps"`
	DominantChanges  int    `json:"dominant_changes"`
}

// RejectEvent is published on the reject topic when an episode fails
// validation, mainly for tuning.
type RejectEvent struct {
	TimeMS int64  `json:"time_ms"`
	Reason string `json:"reason"`
}

// DistanceFrame is the per-tick telemetry stream: raw and filtered
// distances plus the segmenter phase. Zero means no target.
type DistanceFrame struct {
	TimeMS     int64                      `json:"time_ms"`
	RawMM      [gesture.NumSensors]uint16 `json:"raw_mm"`
	FilteredMM [gesture.NumSensors]uint16 `json:"filtered_mm"`
	State      string                     `json:"state"`
}
