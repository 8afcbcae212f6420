// Package gesture implements the episode detection and classification
// pipeline for the three-sensor ToF gesture plane: per-sensor distance
// filtering, episode segmentation, episode validation, and the heuristic
// classifier that turns a finished episode into a gesture label.
//
// The pipeline is driven by exactly one caller at a fixed sampling cadence.
// It holds no locks and performs no I/O; every anomalous condition is data
// (an invalid reading, an unseen filtered value, a rejected episode), never
// an error.
package gesture

// NumSensors is the size of the fixed sensor triangle. The classifier
// thresholds are specific to this geometry, so it never generalizes.
const NumSensors = 3

// Sensor indexes the triangle: 0 = Left, 1 = Right, 2 = Top.
type Sensor int

const (
	SensorLeft Sensor = iota
	SensorRight
	SensorTop
)

func (s Sensor) String() string {
	switch s {
	case SensorLeft:
		return "left"
	case SensorRight:
		return "right"
	case SensorTop:
		return "top"
	}
	return "unknown"
}

// Reading is one raw range measurement from a single sensor. Valid is false
// when the sensor reported no target or an out-of-range condition for this
// tick. A Valid reading of 0 mm is treated as invalid as well: the sensors
// cannot measure zero distance, and 0 doubles as the "unseen" marker inside
// the filter.
type Reading struct {
	DistanceMM uint16
	Valid      bool
}

// Sample is one tick of pipeline input: the three raw readings plus a
// monotonically increasing millisecond timestamp. TimeMS must be positive;
// zero is reserved for "never seen" inside the episode record.
type Sample struct {
	Readings [NumSensors]Reading
	TimeMS   int64
}

// Event is the per-tick pipeline outcome visible to the caller.
type Event uint8

const (
	EventNone Event = iota
	// EventEpisodeReady is emitted exactly once per accepted episode, on the
	// tick that finalized it. The episode is readable until the pipeline
	// starts accumulating the next one.
	EventEpisodeReady
)

// Gesture is the classified label for one accepted episode.
type Gesture uint8

const (
	GestureNone Gesture = iota
	GestureLeft
	GestureRight
	GestureUp
	GestureDown
	GestureTap
)

func (g Gesture) String() string {
	switch g {
	case GestureLeft:
		return "left"
	case GestureRight:
		return "right"
	case GestureUp:
		return "up"
	case GestureDown:
		return "down"
	case GestureTap:
		return "tap"
	}
	return "none"
}

// ParseGesture maps the wire form produced by Gesture.String back to a
// label. Unknown strings map to GestureNone.
func ParseGesture(s string) Gesture {
	switch s {
	case "left":
		return GestureLeft
	case "right":
		return GestureRight
	case "up":
		return GestureUp
	case "down":
		return GestureDown
	case "tap":
		return GestureTap
	}
	return GestureNone
}
