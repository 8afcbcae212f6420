// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech

package gesture

// State is the segmenter phase.
type State uint8

const (
	// StateIdle waits for a hand to enter the detection band.
	StateIdle State = iota
	// StateTracking accumulates episode statistics while a hand is present.
	StateTracking
	// StateCooldown suppresses re-triggering right after an episode ends.
	StateCooldown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTracking:
		return "tracking"
	case StateCooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

// Segmenter turns the per-tick filtered distance frames into discrete
// episodes. Entry and exit are debounced with the configured counts, an
// episode that runs past MaxEpisodeMS is force-finalized, and after a
// finalize the cooldown window must elapse with no hand present before a
// new episode can start.
type Segmenter struct {
	cfg Config

	state           State
	enterCount      int
	exitCount       int
	cooldownUntilMS int64

	ep Episode

	// lastWinner tracks which sensor currently reads nearest, for the
	// dominant-change counter. -1 means no winner yet this episode.
	lastWinner int

	// Per-sensor velocity memory. Updated for every sensor on every
	// tracked sample so approach speed is computed against the most
	// recent reading, valid or not.
	lastFilt     [NumSensors]uint16
	lastFiltTime [NumSensors]int64

	// OnReject, when set, is called with a short reason whenever a
	// finalizing episode fails validation. Optional.
	OnReject func(reason string)
}

// NewSegmenter returns an idle segmenter.
func NewSegmenter(cfg Config) *Segmenter {
	s := &Segmenter{cfg: cfg}
	s.Reset()
	s.ep.reset(0)
	return s
}

// State returns the current phase.
func (s *Segmenter) State() State { return s.state }

// Episode returns the episode buffer. After Step returns
// EventEpisodeReady the buffer holds the finalized episode and remains
// stable until the next episode begins.
func (s *Segmenter) Episode() *Episode { return &s.ep }

// Reset drops all tracking state and returns to idle. The episode buffer
// is left alone so a just-emitted episode stays readable through the
// cooldown reset that follows it.
func (s *Segmenter) Reset() {
	s.state = StateIdle
	s.enterCount = 0
	s.exitCount = 0
	s.cooldownUntilMS = 0
	s.lastWinner = -1
	for i := 0; i < NumSensors; i++ {
		s.lastFilt[i] = 0
		s.lastFiltTime[i] = 0
	}
}

// Step advances the machine one tick with the filtered frame filt at
// nowMS. It returns EventEpisodeReady when a valid episode has just been
// finalized, EventNone otherwise.
func (s *Segmenter) Step(filt [NumSensors]uint16, nowMS int64) Event {
	valid := gateNearest(s.cfg, filt)
	anyValid := valid[0] || valid[1] || valid[2]

	switch s.state {
	case StateIdle:
		s.exitCount = 0
		if anyValid {
			s.enterCount++
			if s.enterCount >= s.cfg.EnterCount {
				s.state = StateTracking
				s.enterCount = 0
				s.lastWinner = -1
				s.ep.reset(nowMS)
				s.accumulate(valid, filt, nowMS)
			}
		} else {
			s.enterCount = 0
		}

	case StateTracking:
		if anyValid {
			s.exitCount = 0
			s.accumulate(valid, filt, nowMS)
			if nowMS-s.ep.StartMS > s.cfg.MaxEpisodeMS {
				return s.finalize(nowMS)
			}
		} else {
			s.exitCount++
			if s.exitCount >= s.cfg.ExitCount {
				return s.finalize(nowMS)
			}
		}

	case StateCooldown:
		if !anyValid && nowMS >= s.cooldownUntilMS {
			s.Reset()
		}
	}

	return EventNone
}

// accumulate folds one tracked frame into the episode statistics.
func (s *Segmenter) accumulate(valid [NumSensors]bool, filt [NumSensors]uint16, nowMS int64) {
	s.ep.SampleCount++

	winner := -1
	var winnerDist uint16
	for i := 0; i < NumSensors; i++ {
		if valid[i] {
			d := filt[i]
			if d < s.ep.MinMM[i] {
				s.ep.MinMM[i] = d
			}
			if d > s.ep.MaxMM[i] {
				s.ep.MaxMM[i] = d
			}
			if s.ep.FirstSeenMS[i] == 0 {
				s.ep.FirstSeenMS[i] = nowMS
			}
			s.ep.LastSeenMS[i] = nowMS

			if winner == -1 || d < winnerDist {
				winner = i
				winnerDist = d
			}

			// Approach velocity against the previous reading of this
			// sensor. Only closing motion counts.
			if s.lastFiltTime[i] != 0 && nowMS > s.lastFiltTime[i] {
				dv := int(s.lastFilt[i]) - int(d)
				if dv > 0 {
					v := dv * 1000 / int(nowMS-s.lastFiltTime[i])
					if v > s.ep.PeakApproachMMPS[i] {
						s.ep.PeakApproachMMPS[i] = v
					}
				}
			}
		}
	}

	if winner != -1 {
		if s.lastWinner != -1 && s.lastWinner != winner {
			s.ep.DominantChanges++
		}
		s.lastWinner = winner
	}

	for i := 0; i < NumSensors; i++ {
		s.lastFilt[i] = filt[i]
		s.lastFiltTime[i] = nowMS
	}
}

// finalize closes the running episode, validates it and either emits it or
// rejects it and returns to idle.
func (s *Segmenter) finalize(nowMS int64) Event {
	s.ep.EndMS = nowMS

	if reason := s.validate(); reason != "" {
		if s.OnReject != nil {
			s.OnReject(reason)
		}
		s.Reset()
		return EventNone
	}

	s.state = StateCooldown
	s.cooldownUntilMS = nowMS + s.cfg.CooldownMS
	s.enterCount = 0
	s.exitCount = 0
	return EventEpisodeReady
}

// validate checks the finalized episode against the minimum-signal
// thresholds. It returns a non-empty reason string on rejection.
func (s *Segmenter) validate() string {
	if s.ep.SampleCount < 2 {
		return "sample count below minimum"
	}
	if s.ep.DurationMS() < s.cfg.MinEpisodeMS {
		return "episode too short"
	}
	if s.ep.MaxSwing() < s.cfg.MinSwingMM && s.ep.PeakVelocity() < s.cfg.MinStrengthMMPS {
		return "weak swing and weak velocity"
	}
	return ""
}
