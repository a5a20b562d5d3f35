package simulator

import (
	"encoding/json"
	"log"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/go-co-op/gocron"

	"github.com/prite36/aquaponics-iot-system/internal/models"
	"github.com/prite36/aquaponics-iot-system/internal/mqtt"
)

// sensorPoint is the informational per-sensor payload.
type sensorPoint struct {
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher ties the model to the broker: it publishes one reading per tick
// and feeds inbound control messages into the model.
type Publisher struct {
	model     *Model
	client    *mqtt.Client
	scheduler *gocron.Scheduler
	interval  int
}

// NewPublisher creates a publisher ticking every interval seconds.
func NewPublisher(model *Model, client *mqtt.Client, intervalSeconds int) *Publisher {
	if intervalSeconds <= 0 {
		intervalSeconds = 5
	}
	return &Publisher{
		model:     model,
		client:    client,
		scheduler: gocron.NewScheduler(time.Local),
		interval:  intervalSeconds,
	}
}

// Start subscribes to the control topics and begins publishing readings.
func (p *Publisher) Start() error {
	for _, topic := range []string{
		mqtt.TopicControlPump,
		mqtt.TopicControlLight,
		mqtt.TopicControlSimulate,
	} {
		if err := p.client.Subscribe(topic, p.handleControl); err != nil {
			return err
		}
	}

	if _, err := p.scheduler.Every(p.interval).Seconds().Do(p.publishReadings); err != nil {
		return err
	}
	p.scheduler.StartAsync()
	log.Printf("Publishing readings every %d seconds", p.interval)
	return nil
}

// Stop halts the tick scheduler.
func (p *Publisher) Stop() {
	p.scheduler.Stop()
}

// publishReadings generates one reading and publishes the combined payload
// plus the per-sensor series.
func (p *Publisher) publishReadings() {
	reading := p.model.GenerateReading()

	points := map[string]float64{
		"water_temp":       reading.WaterTempC,
		"air_temp":         reading.AirTempC,
		"ph":               reading.PH,
		"ammonia":          reading.AmmoniaMgL,
		"dissolved_oxygen": reading.DissolvedOxygenMgL,
		"ec":               reading.ECuScm,
		"water_level":      reading.WaterLevelPercent,
		"humidity":         reading.HumidityPercent,
		"light":            reading.LightLux,
	}
	for name, value := range points {
		data, err := json.Marshal(sensorPoint{Value: value, Timestamp: reading.Timestamp})
		if err != nil {
			continue
		}
		if err := p.client.Publish(mqtt.SensorTopic(name), data); err != nil {
			log.Printf("[WARN] Failed to publish %s: %v", name, err)
		}
	}

	data, err := json.Marshal(reading)
	if err != nil {
		log.Printf("[ERROR] Failed to encode reading #%d: %v", reading.ReadingID, err)
		return
	}
	if err := p.client.Publish(mqtt.TopicSensorsAll, data); err != nil {
		log.Printf("[WARN] Failed to publish reading #%d: %v", reading.ReadingID, err)
		return
	}

	log.Printf("Published reading #%d (pump: %s, light: %s)",
		reading.ReadingID, reading.PumpStatus, reading.LightStatus)
}

// handleControl applies an inbound control message to the model. Malformed
// payloads are dropped; missing fields fall back to the wire defaults
// (state "toggle", enable true).
func (p *Publisher) handleControl(client paho.Client, msg paho.Message) {
	var payload models.ControlPayload
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		log.Printf("[WARN] Dropping malformed control payload on %s: %v", msg.Topic(), err)
		return
	}

	switch msg.Topic() {
	case mqtt.TopicControlPump:
		state := payload.State
		if state == "" {
			state = models.StateToggle
		}
		p.model.ApplyPump(state)
	case mqtt.TopicControlLight:
		state := payload.State
		if state == "" {
			state = models.StateToggle
		}
		p.model.ApplyLight(state)
	case mqtt.TopicControlSimulate:
		enable := true
		if payload.Enable != nil {
			enable = *payload.Enable
		}
		p.model.SetFailure(enable)
	default:
		log.Printf("[WARN] No handler for control topic: %s", msg.Topic())
	}
}
