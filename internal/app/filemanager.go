package app

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/relabs-tech/gesture_jukebox/internal/player"
)

// maxUploadBytes caps a single track upload.
const maxUploadBytes = 64 << 20

// trackName sanitizes a user-supplied track name to a bare file name
// inside the tracks dir with a playable extension.
func trackName(name string) (string, error) {
	base := filepath.Base(name)
	if base != name || base == "." || base == "/" {
		return "", fmt.Errorf("bad track name %q", name)
	}
	if !player.IsTrack(base) {
		return "", fmt.Errorf("track %q: only .wav and .mp3 are playable", name)
	}
	return base, nil
}

// registerTrackHandlers wires the track file manager endpoints onto the
// default mux: list, upload, download, delete.
func registerTrackHandlers(tracksDir string) {
	type trackInfo struct {
		Name string `json:"name"`
		Size int64  `json:"size"`
	}

	http.HandleFunc("/api/tracks", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			paths, err := player.ScanPlaylist(tracksDir)
			if err != nil {
				log.Printf("web: %v", err)
				http.Error(w, "cannot list tracks", http.StatusInternalServerError)
				return
			}
			tracks := []trackInfo{}
			for _, p := range paths {
				info, err := os.Stat(p)
				if err != nil {
					continue
				}
				tracks = append(tracks, trackInfo{Name: filepath.Base(p), Size: info.Size()})
			}
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(tracks); err != nil {
				log.Printf("web: json encode error: %v", err)
			}

		case http.MethodPost:
			r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
			file, header, err := r.FormFile("track")
			if err != nil {
				http.Error(w, "missing track file", http.StatusBadRequest)
				return
			}
			defer file.Close()

			name, err := trackName(header.Filename)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			dst, err := os.Create(filepath.Join(tracksDir, name))
			if err != nil {
				log.Printf("web: %v", err)
				http.Error(w, "cannot store track", http.StatusInternalServerError)
				return
			}
			if _, err := io.Copy(dst, file); err != nil {
				dst.Close()
				os.Remove(dst.Name())
				log.Printf("web: upload %s: %v", name, err)
				http.Error(w, "upload failed", http.StatusInternalServerError)
				return
			}
			if err := dst.Close(); err != nil {
				log.Printf("web: upload %s: %v", name, err)
				http.Error(w, "upload failed", http.StatusInternalServerError)
				return
			}
			log.Printf("web: uploaded track %s", name)
			w.WriteHeader(http.StatusCreated)

		case http.MethodDelete:
			name, err := trackName(r.URL.Query().Get("name"))
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if err := os.Remove(filepath.Join(tracksDir, name)); err != nil {
				if os.IsNotExist(err) {
					http.NotFound(w, r)
					return
				}
				log.Printf("web: delete %s: %v", name, err)
				http.Error(w, "delete failed", http.StatusInternalServerError)
				return
			}
			log.Printf("web: deleted track %s", name)

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	http.HandleFunc("/api/tracks/download", func(w http.ResponseWriter, r *http.Request) {
		name, err := trackName(r.URL.Query().Get("name"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		http.ServeFile(w, r, filepath.Join(tracksDir, name))
	})
}
