package gesture

// minUnset marks a per-sensor minimum that was never written: the sensor
// had no valid data during the episode. Swing and Seen interpret it so the
// caller never mistakes "no data" for a zero-swing measurement.
const minUnset uint16 = 0xFFFF

// Episode aggregates one complete hand-presence interval, from detected
// entry to detected exit. A single instance is owned by the Segmenter and
// reused; after EventEpisodeReady it stays readable until the next episode
// starts accumulating.
type Episode struct {
	StartMS int64
	EndMS   int64

	// Per-sensor statistics. For a sensor that was never valid, MinMM stays
	// at its unset marker and FirstSeenMS/LastSeenMS stay zero.
	MinMM       [NumSensors]uint16
	MaxMM       [NumSensors]uint16
	FirstSeenMS [NumSensors]int64
	LastSeenMS  [NumSensors]int64

	// PeakApproachMMPS is the largest closing velocity observed per sensor,
	// in mm/s. Motion away from a sensor never contributes.
	PeakApproachMMPS [NumSensors]int

	SampleCount     int
	DominantChanges int
}

// reset prepares the buffer for a new episode starting at startMS.
func (e *Episode) reset(startMS int64) {
	e.StartMS = startMS
	e.EndMS = 0
	e.SampleCount = 0
	e.DominantChanges = 0
	for i := 0; i < NumSensors; i++ {
		e.MinMM[i] = minUnset
		e.MaxMM[i] = 0
		e.FirstSeenMS[i] = 0
		e.LastSeenMS[i] = 0
		e.PeakApproachMMPS[i] = 0
	}
}

// Seen reports whether the sensor contributed any valid data.
func (e *Episode) Seen(s Sensor) bool {
	return e.MinMM[s] != minUnset
}

// Swing is the max-min filtered distance the sensor witnessed, or 0 for a
// sensor with no data.
func (e *Episode) Swing(s Sensor) uint16 {
	if !e.Seen(s) {
		return 0
	}
	return e.MaxMM[s] - e.MinMM[s]
}

// MaxSwing is the largest per-sensor swing across the triangle.
func (e *Episode) MaxSwing() uint16 {
	var best uint16
	for i := 0; i < NumSensors; i++ {
		if sw := e.Swing(Sensor(i)); sw > best {
			best = sw
		}
	}
	return best
}

// PeakVelocity is the largest approach velocity across the triangle, mm/s.
func (e *Episode) PeakVelocity() int {
	best := e.PeakApproachMMPS[0]
	for i := 1; i < NumSensors; i++ {
		if e.PeakApproachMMPS[i] > best {
			best = e.PeakApproachMMPS[i]
		}
	}
	return best
}

// DurationMS is the episode length. Only meaningful once finalized.
func (e *Episode) DurationMS() int64 {
	return e.EndMS - e.StartMS
}
