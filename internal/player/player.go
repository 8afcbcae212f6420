// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package player drives audio playback on the speaker, mapped onto the
// gesture vocabulary: swipes change tracks, vertical swipes change
// volume, a tap toggles pause.
package player

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

type command int

const (
	cmdNext command = iota
	cmdPrev
	cmdPauseToggle
	cmdVolumeUp
	cmdVolumeDown
	cmdRescan
	cmdStop
)

// Volume is a power-of-two gain in half steps. The audible floor is low
// enough to be effectively silent without actually muting.
const (
	volumeStep = 0.5
	volumeMin  = -5.0
	volumeMax  = 2.0
)

// speakerBufferMS trades latency for underrun safety on a busy Pi.
const speakerBufferMS = 100

// Player owns the playlist position and the speaker. All command
// methods are non-blocking and safe from any goroutine; a command
// arriving faster than the loop can drain is dropped, which is the
// right behavior for gesture input.
type Player struct {
	dir    string
	tracks []string
	idx    int

	paused bool
	volume float64

	rate     beep.SampleRate
	rateInit bool

	// Shared with the speaker goroutine, guarded by speaker.Lock. The
	// done flag is flipped by the end-of-track callback, which beep runs
	// under the same lock.
	ctrl      *beep.Ctrl
	vol       *effects.Volume
	trackDone bool

	cmds chan command
}

// New scans dir and prepares a stopped player.
func New(dir string) (*Player, error) {
	tracks, err := ScanPlaylist(dir)
	if err != nil {
		return nil, err
	}
	return &Player{
		dir:    dir,
		tracks: tracks,
		cmds:   make(chan command, 8),
	}, nil
}

func (p *Player) send(c command) {
	select {
	case p.cmds <- c:
	default:
	}
}

// Next skips to the next track, wrapping at the end of the playlist.
func (p *Player) Next() { p.send(cmdNext) }

// Prev skips to the previous track, wrapping at the start.
func (p *Player) Prev() { p.send(cmdPrev) }

// PauseToggle pauses or resumes playback.
func (p *Player) PauseToggle() { p.send(cmdPauseToggle) }

// VolumeUp raises the gain one step.
func (p *Player) VolumeUp() { p.send(cmdVolumeUp) }

// VolumeDown lowers the gain one step.
func (p *Player) VolumeDown() { p.send(cmdVolumeDown) }

// Rescan reloads the playlist from disk, keeping the current track
// playing.
func (p *Player) Rescan() { p.send(cmdRescan) }

// Stop ends the Run loop.
func (p *Player) Stop() { p.send(cmdStop) }

// Track returns the path of the current track, or "" for an empty
// playlist. Only meaningful from the Run goroutine's perspective but
// handy for logs.
func (p *Player) Track() string {
	if len(p.tracks) == 0 {
		return ""
	}
	return p.tracks[p.idx]
}

// Run plays the playlist until Stop. A track that ends naturally is
// replayed; gestures are the only way to move through the playlist.
func (p *Player) Run() error {
	for {
		if len(p.tracks) == 0 {
			// Nothing to play. Wait for a rescan to find tracks.
			log.Printf("player: playlist empty, waiting for tracks in %s", p.dir)
			switch c := <-p.cmds; c {
			case cmdStop:
				return nil
			case cmdRescan:
				p.rescan()
			}
			continue
		}

		stop, err := p.startTrack(p.tracks[p.idx])
		if err != nil {
			log.Printf("player: %v", err)
			// Skip the broken file. Back off a little so a playlist of
			// broken files does not spin.
			p.tracks = append(p.tracks[:p.idx], p.tracks[p.idx+1:]...)
			if p.idx >= len(p.tracks) {
				p.idx = 0
			}
			time.Sleep(time.Second)
			continue
		}

		if done := p.trackLoop(stop); done {
			speaker.Clear()
			return nil
		}
	}
}

// trackLoop services commands until the current track is over or the
// player is stopped. Returns true on stop.
func (p *Player) trackLoop(stop func() bool) bool {
	for {
		select {
		case c := <-p.cmds:
			switch c {
			case cmdNext:
				p.idx = (p.idx + 1) % len(p.tracks)
				speaker.Clear()
				stop()
				return false
			case cmdPrev:
				p.idx = (p.idx - 1 + len(p.tracks)) % len(p.tracks)
				speaker.Clear()
				stop()
				return false
			case cmdPauseToggle:
				p.paused = !p.paused
				p.applyState()
				log.Printf("player: paused=%v", p.paused)
			case cmdVolumeUp:
				p.setVolume(p.volume + volumeStep)
			case cmdVolumeDown:
				p.setVolume(p.volume - volumeStep)
			case cmdRescan:
				p.rescan()
			case cmdStop:
				stop()
				return true
			}
		default:
		}

		if p.finished() {
			// Natural end: restart the same track.
			stop()
			return false
		}
		time.Sleep(20 * time.Millisecond)
	}
}

// startTrack decodes path and hands it to the speaker. The returned
// function closes the decoder.
func (p *Player) startTrack(path string) (stop func() bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open track: %w", err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported track %q", path)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %q: %w", path, err)
	}

	// The speaker is initialized once, at the first track's rate; later
	// tracks at other rates are resampled to it.
	var src beep.Streamer = streamer
	if !p.rateInit {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(speakerBufferMS*time.Millisecond)); err != nil {
			streamer.Close()
			return nil, fmt.Errorf("speaker init: %w", err)
		}
		p.rate = format.SampleRate
		p.rateInit = true
	} else if format.SampleRate != p.rate {
		src = beep.Resample(4, format.SampleRate, p.rate, streamer)
	}

	ctrl := &beep.Ctrl{Streamer: src, Paused: p.paused}
	vol := &effects.Volume{Streamer: ctrl, Base: 2, Volume: p.volume, Silent: false}

	speaker.Lock()
	p.ctrl = ctrl
	p.vol = vol
	p.trackDone = false
	speaker.Unlock()

	speaker.Play(beep.Seq(vol, beep.Callback(func() {
		p.trackDone = true
	})))

	log.Printf("player: playing %s", filepath.Base(path))
	return func() bool {
		streamer.Close()
		return true
	}, nil
}

// finished reports whether the current track reached its natural end,
// under the speaker lock.
func (p *Player) finished() bool {
	speaker.Lock()
	defer speaker.Unlock()
	return p.trackDone
}

func (p *Player) applyState() {
	speaker.Lock()
	defer speaker.Unlock()
	if p.ctrl != nil {
		p.ctrl.Paused = p.paused
	}
}

func (p *Player) setVolume(v float64) {
	if v > volumeMax {
		v = volumeMax
	}
	if v < volumeMin {
		v = volumeMin
	}
	p.volume = v
	speaker.Lock()
	if p.vol != nil {
		p.vol.Volume = v
	}
	speaker.Unlock()
	log.Printf("player: volume %.1f", v)
}

func (p *Player) rescan() {
	cur := p.Track()
	tracks, err := ScanPlaylist(p.dir)
	if err != nil {
		log.Printf("player: %v", err)
		return
	}
	p.tracks = tracks
	p.idx = 0
	for i, t := range tracks {
		if t == cur {
			p.idx = i
			break
		}
	}
	log.Printf("player: playlist reloaded, %d tracks", len(tracks))
}
