package gesture

const (
	// unseen marks a filtered value with no recent acquisition. A freshly
	// accepted candidate initializes the filter directly instead of being
	// smoothed against it.
	unseen uint16 = 0

	// noTarget is the raw out-of-range marker. Raw readings carrying it are
	// never usable, and a median that lands on it is discarded too.
	noTarget uint16 = 0xFFFF
)

// Filter denoises the three raw distance streams: median-of-history
// substitution for per-frame dropouts, nearest-layer gating to reject
// background objects, and exponential smoothing with weight 1/4.
//
// One ring index is shared across all three sensors; the streams advance in
// lockstep, one slot per tick.
type Filter struct {
	cfg Config

	hist    [NumSensors][3]uint16
	idx     int
	filt    [NumSensors]uint16
	invalid [NumSensors]uint8
}

func NewFilter(cfg Config) *Filter {
	return &Filter{cfg: cfg}
}

// Reset clears history, filtered values and invalid-run counters.
func (f *Filter) Reset() {
	f.idx = 0
	for i := 0; i < NumSensors; i++ {
		f.filt[i] = unseen
		f.invalid[i] = 0
		for j := range f.hist[i] {
			f.hist[i][j] = 0
		}
	}
}

// Filtered returns the current filtered distances. A value of 0 means the
// sensor is unseen: no valid near-layer target recently.
func (f *Filter) Filtered() [NumSensors]uint16 {
	return f.filt
}

// Update folds one raw sample into the filter state and returns the
// filtered distances for this tick. Invalid readings are recorded in the
// history ring as 0 so the median substitution stays biased toward "no
// target" rather than inventing one.
func (f *Filter) Update(s Sample) [NumSensors]uint16 {
	f.idx = (f.idx + 1) % 3

	var m [NumSensors]uint16
	var usable [NumSensors]bool
	for i := 0; i < NumSensors; i++ {
		r := s.Readings[i]
		raw := uint16(0)
		if r.Valid {
			raw = r.DistanceMM
		}
		f.hist[i][f.idx] = raw

		if raw != 0 && raw != noTarget {
			m[i] = raw
		} else {
			m[i] = median3(f.hist[i][0], f.hist[i][1], f.hist[i][2])
		}
		usable[i] = m[i] != 0 && m[i] != noTarget
	}

	// Nearest candidate across the frame anchors the foreground layer.
	zMinFrame := noTarget
	for i := 0; i < NumSensors; i++ {
		if usable[i] && m[i] < zMinFrame {
			zMinFrame = m[i]
		}
	}

	// No usable candidate anywhere: decay everything, no smoothing.
	if zMinFrame == noTarget {
		for i := 0; i < NumSensors; i++ {
			f.decay(i)
		}
		return f.filt
	}

	zMaxAllowed := zMinFrame + f.cfg.NearLayerMM
	for i := 0; i < NumSensors; i++ {
		ok := usable[i] && f.cfg.inBand(m[i]) && m[i] <= zMaxAllowed
		if !ok {
			f.decay(i)
			continue
		}

		f.invalid[i] = 0
		if f.filt[i] == unseen {
			f.filt[i] = m[i]
		} else {
			f.filt[i] = (3*f.filt[i] + m[i]) / 4
		}
	}
	return f.filt
}

// decay advances a sensor's invalid run; a long enough run clears the
// filtered value back to unseen.
func (f *Filter) decay(i int) {
	if f.invalid[i] < 255 {
		f.invalid[i]++
	}
	if int(f.invalid[i]) >= f.cfg.InvalidResetCount {
		f.filt[i] = unseen
	}
}

// gateNearest evaluates per-sensor validity against filtered values: in
// band, and within the nearest-layer margin of the closest filtered value
// this tick.
func gateNearest(cfg Config, filt [NumSensors]uint16) [NumSensors]bool {
	var valid [NumSensors]bool

	zMinFrame := noTarget
	for i := 0; i < NumSensors; i++ {
		if cfg.inBand(filt[i]) && filt[i] < zMinFrame {
			zMinFrame = filt[i]
		}
	}
	if zMinFrame == noTarget {
		return valid
	}

	zMaxAllowed := zMinFrame + cfg.NearLayerMM
	for i := 0; i < NumSensors; i++ {
		if cfg.inBand(filt[i]) && filt[i] <= zMaxAllowed {
			valid[i] = true
		}
	}
	return valid
}

// median3 returns the middle of three values, order-independent.
func median3(a, b, c uint16) uint16 {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		b = a
	}
	return b
}
