package app

import (
	"encoding/json"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/relabs-tech/gesture_jukebox/internal/config"
	"github.com/relabs-tech/gesture_jukebox/internal/eventlog"
	"github.com/relabs-tech/gesture_jukebox/internal/events"
	"github.com/relabs-tech/gesture_jukebox/internal/gesture"
	"github.com/relabs-tech/gesture_jukebox/internal/sensors"
	"github.com/relabs-tech/gesture_jukebox/internal/statusled"
)

// RunGestureProducer runs the sampling loop: read the sensor triangle,
// push each sample through the gesture pipeline, and publish recognized
// gestures, rejects, and the distance telemetry stream over MQTT.
func RunGestureProducer() error {
	log.Println("starting gesture producer")

	cfg := config.Get()

	// --- sensor source (i2c, serial, or mock) ---
	src, err := sensors.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	log.Printf("sensor source %q ready", cfg.SensorSource)

	// --- status LED (optional hardware) ---
	led, err := statusled.New(cfg.LEDPinR, cfg.LEDPinG, cfg.LEDPinB)
	if err != nil {
		log.Printf("WARNING: %v, continuing without status LED", err)
		led = &statusled.LED{}
	}
	defer led.Close()

	// --- event log (optional persistence) ---
	var store *eventlog.Store
	if cfg.EventLogPath != "" {
		store, err = eventlog.Open(cfg.EventLogPath)
		if err != nil {
			return err
		}
		defer store.Close()
		log.Printf("event log at %s", cfg.EventLogPath)
	}
	logWriter := eventlog.NewWriter(store)
	defer logWriter.Close()

	// --- connect to MQTT ---
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDProducer)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Println("connected to MQTT, starting sample loop")

	pipe := gesture.NewPipeline(cfg.Gesture)

	// Rejects are published from inside the segmenter callback; nowMS
	// tracks the current sample so the callback can timestamp them.
	var nowMS int64
	pipe.Segmenter.OnReject = func(reason string) {
		log.Printf("episode rejected: %s", reason)
		logWriter.Record(eventlog.Entry{
			TimeMS: nowMS,
			Kind:   eventlog.KindRejected,
			Reason: reason,
		})
		if cfg.TopicReject == "" {
			return
		}
		payload, err := json.Marshal(events.RejectEvent{TimeMS: nowMS, Reason: reason})
		if err != nil {
			log.Printf("json marshal error (reject): %v", err)
			return
		}
		client.Publish(cfg.TopicReject, 0, false, payload)
	}

	for {
		s, err := src.Next()
		if err != nil {
			return err
		}
		nowMS = s.TimeMS

		ev := pipe.Update(s)

		switch pipe.Segmenter.State() {
		case gesture.StateTracking:
			led.Set(statusled.Blue)
		case gesture.StateCooldown:
			led.Set(statusled.Yellow)
		default:
			led.Set(statusled.Green)
		}

		// Telemetry stream for the web UI tuning view. Fire-and-forget:
		// waiting on the broker here would cost sample cadence.
		if cfg.TopicDistances != "" {
			frame := events.DistanceFrame{
				TimeMS:     s.TimeMS,
				FilteredMM: pipe.Filter.Filtered(),
				State:      pipe.Segmenter.State().String(),
			}
			for i, r := range s.Readings {
				if r.Valid {
					frame.RawMM[i] = r.DistanceMM
				}
			}
			if payload, err := json.Marshal(frame); err != nil {
				log.Printf("json marshal error (distances): %v", err)
			} else {
				client.Publish(cfg.TopicDistances, 0, false, payload)
			}
		}

		if ev != gesture.EventEpisodeReady {
			continue
		}

		ep := pipe.Episode()
		g := gesture.Classify(cfg.Gesture, ep)
		log.Printf("episode %dms %d samples swing=%dmm vel=%dmm/s -> %s",
			ep.DurationMS(), ep.SampleCount, ep.MaxSwing(), ep.PeakVelocity(), g)

		gev := events.GestureEvent{
			ID:               uuid.NewString(),
			TimeMS:           ep.EndMS,
			Gesture:          g.String(),
			DurationMS:       ep.DurationMS(),
			Samples:          ep.SampleCount,
			MaxSwingMM:       ep.MaxSwing(),
			PeakVelocityMMPS: ep.PeakVelocity(),
			DominantChanges:  ep.DominantChanges,
		}
		logWriter.Record(eventlog.Entry{
			TimeMS:           gev.TimeMS,
			Kind:             eventlog.KindGesture,
			Gesture:          gev.Gesture,
			DurationMS:       gev.DurationMS,
			Samples:          gev.Samples,
			MaxSwingMM:       int(gev.MaxSwingMM),
			PeakVelocityMMPS: gev.PeakVelocityMMPS,
		})

		// An episode that classifies as no gesture is still worth the
		// log entry above but not a publish.
		if g == gesture.GestureNone {
			continue
		}
		payload, err := json.Marshal(gev)
		if err != nil {
			log.Printf("json marshal error (gesture): %v", err)
			continue
		}
		if token := client.Publish(cfg.TopicGesture, 0, false, payload); token.Wait() && token.Error() != nil {
			log.Printf("MQTT publish error (gesture): %v", token.Error())
		}
	}
}
