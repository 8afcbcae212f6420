package gesture

// Config collects every tuning threshold used by the pipeline so scenarios
// can be tested and the gesture plane retuned without touching algorithm
// code. The zero value is not usable; start from DefaultConfig.
type Config struct {
	// Distance band for the gesture plane. Filtered values outside
	// [DMinMM, DMaxMM] are never considered valid. Bounds are inclusive.
	DMinMM uint16 // mm
	DMaxMM uint16 // mm

	// NearLayerMM is the nearest-layer gate: a sensor is accepted only if
	// its candidate lies within this margin of the closest candidate seen
	// across all sensors this tick. Suppresses background clutter.
	NearLayerMM uint16 // mm

	// InvalidResetCount is the number of consecutive invalid frames after
	// which a sensor's filtered value decays back to unseen.
	InvalidResetCount int // frames

	// Entry/exit debounce: consecutive same-outcome ticks required before
	// the state machine honors a transition.
	EnterCount int // ticks
	ExitCount  int // ticks

	// Episode duration limits. An episode shorter than MinEpisodeMS is
	// rejected; one still tracking past MaxEpisodeMS is force-finalized.
	MinEpisodeMS int64 // ms
	MaxEpisodeMS int64 // ms

	// CooldownMS is the refractory window after a finalized episode, so the
	// trailing edge of the same motion cannot start a new one.
	CooldownMS int64 // ms

	// MinSwingMM and MinStrengthMMPS gate episode acceptance: an episode
	// whose best swing AND best approach velocity both fall below these is
	// discarded as noise. They are independent of the classifier thresholds
	// below.
	MinSwingMM      uint16 // mm
	MinStrengthMMPS int    // mm/s

	// Classifier thresholds. TapVelocityMMPS is deliberately separate from
	// MinStrengthMMPS above; the two were tuned independently.
	TapSwingMM      uint16 // mm, both L and R must exceed this for a tap
	TapVelocityMMPS int    // mm/s
	SwipeSwingMM    uint16 // mm, minimum swing for a swipe to count

	// Gap window for directional decisions: the first-seen gap between two
	// sensors must fall inside [GapMinMS, GapMaxMS] to carry a direction.
	// Below it the triggering is effectively simultaneous; above it the
	// transition is too slow to be a deliberate swipe.
	GapMinMS int64 // ms
	GapMaxMS int64 // ms
}

// DefaultConfig returns the thresholds tuned on the hardware: a gesture
// plane roughly 3-14 cm above the sensors, sampled at 50 Hz.
func DefaultConfig() Config {
	return Config{
		DMinMM:            30,
		DMaxMM:            140,
		NearLayerMM:       20,
		InvalidResetCount: 50,
		EnterCount:        1,
		ExitCount:         2,
		MinEpisodeMS:      20,
		MaxEpisodeMS:      2000,
		CooldownMS:        5,
		MinSwingMM:        5,
		MinStrengthMMPS:   200,
		TapSwingMM:        20,
		TapVelocityMMPS:   60,
		SwipeSwingMM:      5,
		GapMinMS:          5,
		GapMaxMS:          1500,
	}
}

// inBand reports whether a distance lies inside the gesture plane band.
func (c Config) inBand(d uint16) bool {
	return d >= c.DMinMM && d <= c.DMaxMM
}
