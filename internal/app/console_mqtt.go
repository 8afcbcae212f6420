package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/gesture_jukebox/internal/config"
	"github.com/relabs-tech/gesture_jukebox/internal/events"
)

// RunConsoleMQTT tails the jukebox topics to the terminal, for watching
// the pipeline live while waving a hand over the triangle.
func RunConsoleMQTT() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	gestureToken := client.Subscribe(cfg.TopicGesture, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var ev events.GestureEvent
		if err := json.Unmarshal(msg.Payload(), &ev); err != nil {
			log.Printf("console: gesture unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[GESTURE] %-5s  dur=%4dms samples=%3d swing=%3dmm vel=%4dmm/s changes=%d\n",
			ev.Gesture, ev.DurationMS, ev.Samples, ev.MaxSwingMM, ev.PeakVelocityMMPS, ev.DominantChanges,
		)
	})
	gestureToken.Wait()
	if gestureToken.Error() != nil {
		return gestureToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicGesture)

	if cfg.TopicReject != "" {
		rejectToken := client.Subscribe(cfg.TopicReject, 0, func(_ mqtt.Client, msg mqtt.Message) {
			var ev events.RejectEvent
			if err := json.Unmarshal(msg.Payload(), &ev); err != nil {
				log.Printf("console: reject unmarshal error: %v", err)
				return
			}

			fmt.Printf("[REJECT ] t=%dms %s\n", ev.TimeMS, ev.Reason)
		})
		rejectToken.Wait()
		if rejectToken.Error() != nil {
			return rejectToken.Error()
		}
		log.Printf("console: subscribed to %s", cfg.TopicReject)
	}

	if cfg.TopicDistances != "" {
		// The distance stream runs at full sample rate; printing every
		// frame would drown the gesture lines. Throttle it.
		interval := time.Duration(cfg.ConsoleLogInterval) * time.Millisecond
		if interval <= 0 {
			interval = time.Second
		}
		var lastPrint atomic.Int64

		distToken := client.Subscribe(cfg.TopicDistances, 0, func(_ mqtt.Client, msg mqtt.Message) {
			var frame events.DistanceFrame
			if err := json.Unmarshal(msg.Payload(), &frame); err != nil {
				log.Printf("console: distances unmarshal error: %v", err)
				return
			}

			now := time.Now().UnixNano()
			last := lastPrint.Load()
			if now-last < int64(interval) || !lastPrint.CompareAndSwap(last, now) {
				return
			}
			fmt.Printf(
				"[DIST   ] t=%6dms L=%3d R=%3d T=%3d (raw %3d/%3d/%3d) %s\n",
				frame.TimeMS,
				frame.FilteredMM[0], frame.FilteredMM[1], frame.FilteredMM[2],
				frame.RawMM[0], frame.RawMM[1], frame.RawMM[2],
				frame.State,
			)
		})
		distToken.Wait()
		if distToken.Error() != nil {
			return distToken.Error()
		}
		log.Printf("console: subscribed to %s", cfg.TopicDistances)
	}

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
