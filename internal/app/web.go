package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/gesture_jukebox/internal/config"
	"github.com/relabs-tech/gesture_jukebox/internal/eventlog"
	"github.com/relabs-tech/gesture_jukebox/internal/events"
)

// webState is the latest snapshot served by /api/status.
type webState struct {
	mu          sync.RWMutex
	lastGesture events.GestureEvent
	haveGesture bool
	lastFrame   events.DistanceFrame
	haveFrame   bool
	lastReject  events.RejectEvent
	haveReject  bool
}

// wsHub fans MQTT traffic out to every connected websocket. Slow
// clients are dropped rather than buffered without bound.
type wsHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte
}

func newWSHub() *wsHub {
	return &wsHub{clients: make(map[*websocket.Conn]chan []byte)}
}

func (h *wsHub) add(conn *websocket.Conn) chan []byte {
	ch := make(chan []byte, 32)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()
	return ch
}

func (h *wsHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if ch, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(ch)
	}
	h.mu.Unlock()
	conn.Close()
}

// broadcast tags the payload with its kind and queues it for every
// client.
func (h *wsHub) broadcast(kind string, payload []byte) {
	msg, err := json.Marshal(struct {
		Kind string          `json:"kind"`
		Data json.RawMessage `json:"data"`
	}{kind, payload})
	if err != nil {
		log.Printf("web: ws marshal error: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, ch := range h.clients {
		select {
		case ch <- msg:
		default:
			delete(h.clients, conn)
			close(ch)
			conn.Close()
		}
	}
}

// The UI is served from the same LAN as the jukebox; no origin check.
var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RunWeb serves the jukebox web UI: live gesture/telemetry feed over a
// websocket, gesture history from the event log, and the track file
// manager.
func RunWeb() error {
	cfg := config.Get()

	state := &webState{}
	hub := newWSHub()

	// --- event log, read-only view (optional) ---
	var store *eventlog.Store
	if cfg.EventLogPath != "" {
		var err error
		store, err = eventlog.Open(cfg.EventLogPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	// --- connect to MQTT and mirror the topics into state + websocket ---
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicGesture, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var ev events.GestureEvent
		if err := json.Unmarshal(msg.Payload(), &ev); err != nil {
			log.Printf("web: gesture unmarshal error: %v", err)
			return
		}
		state.mu.Lock()
		state.lastGesture = ev
		state.haveGesture = true
		state.mu.Unlock()
		hub.broadcast("gesture", msg.Payload())
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to %s", cfg.TopicGesture)

	if cfg.TopicReject != "" {
		token := client.Subscribe(cfg.TopicReject, 0, func(_ mqtt.Client, msg mqtt.Message) {
			var ev events.RejectEvent
			if err := json.Unmarshal(msg.Payload(), &ev); err != nil {
				log.Printf("web: reject unmarshal error: %v", err)
				return
			}
			state.mu.Lock()
			state.lastReject = ev
			state.haveReject = true
			state.mu.Unlock()
			hub.broadcast("reject", msg.Payload())
		})
		token.Wait()
		if token.Error() != nil {
			return token.Error()
		}
	}

	if cfg.TopicDistances != "" {
		token := client.Subscribe(cfg.TopicDistances, 0, func(_ mqtt.Client, msg mqtt.Message) {
			var frame events.DistanceFrame
			if err := json.Unmarshal(msg.Payload(), &frame); err != nil {
				log.Printf("web: distances unmarshal error: %v", err)
				return
			}
			state.mu.Lock()
			state.lastFrame = frame
			state.haveFrame = true
			state.mu.Unlock()
			hub.broadcast("distances", msg.Payload())
		})
		token.Wait()
		if token.Error() != nil {
			return token.Error()
		}
	}

	// --- JSON API: latest snapshot ---
	http.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		state.mu.RLock()
		resp := struct {
			Gesture   *events.GestureEvent  `json:"gesture,omitempty"`
			Reject    *events.RejectEvent   `json:"reject,omitempty"`
			Distances *events.DistanceFrame `json:"distances,omitempty"`
		}{}
		if state.haveGesture {
			g := state.lastGesture
			resp.Gesture = &g
		}
		if state.haveReject {
			rej := state.lastReject
			resp.Reject = &rej
		}
		if state.haveFrame {
			f := state.lastFrame
			resp.Distances = &f
		}
		state.mu.RUnlock()

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	// --- JSON API: gesture history ---
	http.HandleFunc("/api/events", func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			http.Error(w, "event log disabled", http.StatusNotFound)
			return
		}
		entries, err := store.Recent(100)
		if err != nil {
			log.Printf("web: %v", err)
			http.Error(w, "event log error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	// --- live feed ---
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := wsUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("web: ws upgrade error: %v", err)
			return
		}
		ch := hub.add(conn)

		// Reader goroutine only to notice the close.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					hub.remove(conn)
					return
				}
			}
		}()

		for msg := range ch {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				hub.remove(conn)
				return
			}
		}
	})

	// --- track file manager ---
	registerTrackHandlers(cfg.TracksDir)

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, indexHTML)
	})

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
