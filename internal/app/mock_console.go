// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"

	"github.com/relabs-tech/gesture_jukebox/internal/config"
	"github.com/relabs-tech/gesture_jukebox/internal/gesture"
	"github.com/relabs-tech/gesture_jukebox/internal/sensors"
)

// RunMockConsole runs the pipeline on the scripted mock source and
// prints what it classifies. No broker, no hardware; a quick sanity
// check of the detection chain.
func RunMockConsole() error {
	cfg := config.Get()

	src := sensors.NewMockSource(cfg.SampleInterval)
	defer src.Close()

	pipe := gesture.NewPipeline(cfg.Gesture)
	pipe.Segmenter.OnReject = func(reason string) {
		fmt.Printf("rejected: %s\n", reason)
	}

	for {
		s, err := src.Next()
		if err != nil {
			return err
		}
		if pipe.Update(s) != gesture.EventEpisodeReady {
			continue
		}

		ep := pipe.Episode()
		fmt.Printf(
			"%-5s  dur=%4dms samples=%3d swing=%3dmm vel=%4dmm/s\n",
			gesture.Classify(cfg.Gesture, ep),
			ep.DurationMS(), ep.SampleCount, ep.MaxSwing(), ep.PeakVelocity(),
		)
	}
}
