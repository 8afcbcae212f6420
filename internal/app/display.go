package app

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/gesture_jukebox/internal/config"
	"github.com/relabs-tech/gesture_jukebox/internal/events"
)

// displayData holds the latest data shown on the OLED.
type displayData struct {
	mu sync.RWMutex

	gesture     events.GestureEvent
	gestureAt   time.Time
	haveGesture bool

	frame     events.DistanceFrame
	haveFrame bool
}

// gestureHoldTime is how long a recognized gesture stays on screen
// before the display falls back to the live distance view.
const gestureHoldTime = 2 * time.Second

// RunDisplay drives the front-panel OLED: big gesture name right after
// a recognition, live distances otherwise.
func RunDisplay() error {
	cfg := config.Get()

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	// Open I2C bus
	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Printf("display: initialized at 0x%02X", cfg.DisplayI2CAddr)

	if err := showSplash(dev); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	data := &displayData{}

	// Connect to MQTT
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDDisplay)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("display: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicGesture, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var ev events.GestureEvent
		if err := json.Unmarshal(msg.Payload(), &ev); err != nil {
			log.Printf("display: gesture unmarshal error: %v", err)
			return
		}
		data.mu.Lock()
		data.gesture = ev
		data.gestureAt = time.Now()
		data.haveGesture = true
		data.mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: subscribed to %s", cfg.TopicGesture)

	if cfg.TopicDistances != "" {
		token := client.Subscribe(cfg.TopicDistances, 0, func(_ mqtt.Client, msg mqtt.Message) {
			var frame events.DistanceFrame
			if err := json.Unmarshal(msg.Payload(), &frame); err != nil {
				log.Printf("display: distances unmarshal error: %v", err)
				return
			}
			data.mu.Lock()
			data.frame = frame
			data.haveFrame = true
			data.mu.Unlock()
		})
		token.Wait()
		if token.Error() != nil {
			return token.Error()
		}
		log.Printf("display: subscribed to %s", cfg.TopicDistances)
	}

	// Display update loop
	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")

	for range ticker.C {
		data.mu.RLock()
		gev := data.gesture
		showGesture := data.haveGesture && time.Since(data.gestureAt) < gestureHoldTime
		frame := data.frame
		haveFrame := data.haveFrame
		data.mu.RUnlock()

		var err error
		if showGesture {
			err = drawGesture(dev, gev)
		} else {
			err = drawDistances(dev, frame, haveFrame)
		}
		if err != nil {
			log.Printf("display: draw error: %v", err)
		}
	}

	return nil
}

func newDrawer() (*image1bit.VerticalLSB, *font.Drawer) {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	return img, drawer
}

func drawGesture(dev *ssd1306.Dev, ev events.GestureEvent) error {
	img, drawer := newDrawer()

	name := strings.ToUpper(ev.Gesture)
	// Center the name roughly; the face is 7px wide.
	drawer.Dot = fixed.P((128-len(name)*7)/2, 30)
	drawer.DrawBytes([]byte(name))

	drawer.Dot = fixed.P(0, 56)
	drawer.DrawBytes([]byte(fmt.Sprintf("%dms  %dmm/s", ev.DurationMS, ev.PeakVelocityMMPS)))

	return dev.Draw(dev.Bounds(), img, image.Point{})
}

func drawDistances(dev *ssd1306.Dev, frame events.DistanceFrame, haveData bool) error {
	img, drawer := newDrawer()

	if !haveData {
		drawer.Dot = fixed.P(0, 26)
		drawer.DrawBytes([]byte("Gesture Jukebox"))
		drawer.Dot = fixed.P(0, 39)
		drawer.DrawBytes([]byte("Waiting..."))
	} else {
		labels := [...]string{"L", "R", "T"}
		for i, label := range labels {
			drawer.Dot = fixed.P(0, 13+13*i)
			mm := frame.FilteredMM[i]
			if mm == 0 {
				drawer.DrawBytes([]byte(fmt.Sprintf("%s: ---", label)))
			} else {
				drawer.DrawBytes([]byte(fmt.Sprintf("%s: %3dmm", label, mm)))
			}
		}
		drawer.Dot = fixed.P(0, 58)
		drawer.DrawBytes([]byte(frame.State))
	}

	return dev.Draw(dev.Bounds(), img, image.Point{})
}

func showSplash(dev *ssd1306.Dev) error {
	img, drawer := newDrawer()

	drawer.Dot = fixed.P(10, 26)
	drawer.DrawBytes([]byte("Gesture"))

	drawer.Dot = fixed.P(10, 43)
	drawer.DrawBytes([]byte("Jukebox"))

	return dev.Draw(dev.Bounds(), img, image.Point{})
}
