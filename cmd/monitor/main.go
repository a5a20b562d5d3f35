package main

import (
	"log"

	"github.com/prite36/aquaponics-iot-system/internal/config"
	"github.com/prite36/aquaponics-iot-system/internal/service"
)

func main() {
	log.Println("Starting aquaponics monitor...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app, err := service.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Start(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}
