// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech

package gesture

// Classify maps a finalized episode to a gesture. Checks run in priority
// order: tap first, then horizontal swipes, then vertical swipes. An
// episode matching none of them reports GestureNone.
func Classify(cfg Config, ep *Episode) Gesture {
	swingL := ep.Swing(SensorLeft)
	swingR := ep.Swing(SensorRight)
	swingT := ep.Swing(SensorTop)

	// Tap: both bottom sensors see a large swing and the approach was
	// fast. A hand stabbing straight down at the triangle hits left and
	// right nearly symmetrically, which swipes never do.
	if swingL > cfg.TapSwingMM && swingR > cfg.TapSwingMM && ep.PeakVelocity() >= cfg.TapVelocityMMPS {
		return GestureTap
	}

	activeL := ep.Seen(SensorLeft)
	activeR := ep.Seen(SensorRight)
	activeT := ep.Seen(SensorTop)
	tL := ep.FirstSeenMS[SensorLeft]
	tR := ep.FirstSeenMS[SensorRight]

	// Horizontal swipe: both bottom sensors fired at distinct times with
	// some lateral motion, and the top sensor saw no motion.
	if activeL && activeR && tL != 0 && tR != 0 && swingT == 0 &&
		(swingL > cfg.SwipeSwingMM || swingR > cfg.SwipeSwingMM) {
		gap := tR - tL
		if gap < 0 {
			gap = -gap
		}
		if gap >= cfg.GapMinMS && gap <= cfg.GapMaxMS {
			if tL < tR {
				return GestureRight
			}
			return GestureLeft
		}
	}

	// Vertical swipe: the top sensor and at least one bottom sensor both
	// fired; ordering of first contact decides the direction, subject to
	// the same gap window the horizontal branch uses. Simultaneous
	// contact carries no direction.
	if activeT && (activeL || activeR) {
		tBottom := int64(0)
		if activeL {
			tBottom = tL
		}
		if activeR && (tBottom == 0 || tR < tBottom) {
			tBottom = tR
		}
		tTop := ep.FirstSeenMS[SensorTop]
		if tBottom != 0 && tTop != 0 &&
			(swingL > cfg.SwipeSwingMM || swingR > cfg.SwipeSwingMM || swingT > cfg.SwipeSwingMM) {
			if tTop > tBottom && tTop-tBottom >= cfg.GapMinMS && tTop-tBottom <= cfg.GapMaxMS {
				return GestureUp
			}
			if tBottom > tTop && tBottom-tTop >= cfg.GapMinMS && tBottom-tTop <= cfg.GapMaxMS {
				return GestureDown
			}
		}
	}

	return GestureNone
}
