package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/gesture_jukebox/internal/app"
	"github.com/relabs-tech/gesture_jukebox/internal/config"
)

func main() {
	configPath := flag.String("config", "./gesture_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting gesture-jukebox display (MQTT → OLED)")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunDisplay(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
