package app

import (
	"encoding/json"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/gesture_jukebox/internal/config"
	"github.com/relabs-tech/gesture_jukebox/internal/events"
	"github.com/relabs-tech/gesture_jukebox/internal/gesture"
	"github.com/relabs-tech/gesture_jukebox/internal/player"
)

// RunPlayer subscribes to the gesture topic and drives the audio player:
// left/right swipes change tracks, up/down change volume, a tap toggles
// pause.
func RunPlayer() error {
	cfg := config.Get()

	p, err := player.New(cfg.TracksDir)
	if err != nil {
		return err
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDPlayer)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("player: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicGesture, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var ev events.GestureEvent
		if err := json.Unmarshal(msg.Payload(), &ev); err != nil {
			log.Printf("player: gesture unmarshal error: %v", err)
			return
		}

		g := gesture.ParseGesture(ev.Gesture)
		log.Printf("player: gesture %s (%dms, swing %dmm)", ev.Gesture, ev.DurationMS, ev.MaxSwingMM)

		switch g {
		case gesture.GestureLeft:
			p.Prev()
		case gesture.GestureRight:
			p.Next()
		case gesture.GestureUp:
			p.VolumeUp()
		case gesture.GestureDown:
			p.VolumeDown()
		case gesture.GestureTap:
			p.PauseToggle()
		default:
			log.Printf("player: ignoring gesture %q", ev.Gesture)
		}
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("player: subscribed to %s", cfg.TopicGesture)

	return p.Run()
}
