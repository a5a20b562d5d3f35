package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/prite36/aquaponics-iot-system/internal/config"
	"github.com/prite36/aquaponics-iot-system/internal/mqtt"
	"github.com/prite36/aquaponics-iot-system/internal/simulator"
)

func main() {
	log.Println("Starting aquaponics sensor simulator...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	clientID := cfg.MQTT.ClientID
	if clientID == "" {
		clientID = "aquaponics-simulator-" + uuid.NewString()[:8]
	}
	mqttClient, err := mqtt.NewClient(cfg.MQTT.Broker, clientID, cfg.MQTT.Username, cfg.MQTT.Password)
	if err != nil {
		log.Fatalf("Failed to initialize MQTT client: %v", err)
	}
	defer mqttClient.Close()

	model := simulator.NewModel(cfg.Simulator)
	publisher := simulator.NewPublisher(model, mqttClient, cfg.Simulator.IntervalSeconds)
	if err := publisher.Start(); err != nil {
		log.Fatalf("Failed to start publisher: %v", err)
	}
	defer publisher.Stop()

	log.Println("Simulator is running. Press CTRL+C to exit.")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	log.Println("Simulator shutting down.")
}
