// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package player

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// IsTrack reports whether name has a playable extension.
func IsTrack(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav", ".mp3":
		return true
	}
	return false
}

// ScanPlaylist lists the playable files directly under dir, sorted by
// name so the track order is stable across restarts.
func ScanPlaylist(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan tracks dir %q: %w", dir, err)
	}

	var tracks []string
	for _, e := range entries {
		if e.IsDir() || !IsTrack(e.Name()) {
			continue
		}
		tracks = append(tracks, filepath.Join(dir, e.Name()))
	}
	sort.Strings(tracks)
	return tracks, nil
}
