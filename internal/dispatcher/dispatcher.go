package dispatcher

import (
	"encoding/json"
	"log"

	"github.com/prite36/aquaponics-iot-system/internal/models"
	"github.com/prite36/aquaponics-iot-system/internal/mqtt"
)

// Publisher is the slice of the MQTT client the dispatcher needs.
type Publisher interface {
	Publish(topic string, payload []byte) error
	IsConnected() bool
}

// Dispatcher turns control requests into messages on the control topics.
// The protocol is fire-and-forget: no retry, no acknowledgment that the
// device applied the command.
type Dispatcher struct {
	client Publisher
}

func New(client Publisher) *Dispatcher {
	return &Dispatcher{client: client}
}

// SendControl publishes a control command and reports whether the channel
// was connected at send time. An unknown action is refused.
func (d *Dispatcher) SendControl(cmd models.ControlCommand) bool {
	var topic string
	var payload models.ControlPayload

	switch cmd.Action {
	case models.ActionPump:
		topic = mqtt.TopicControlPump
		payload = models.ControlPayload{Action: models.ActionPump, State: cmd.State}
	case models.ActionLight:
		topic = mqtt.TopicControlLight
		payload = models.ControlPayload{Action: models.ActionLight, State: cmd.State}
	case models.ActionSimulateFailure:
		topic = mqtt.TopicControlSimulate
		enable := cmd.Enable
		payload = models.ControlPayload{Action: models.ActionSimulateFailure, Enable: &enable}
	default:
		log.Printf("[WARN] Refusing control command with unknown action %q", cmd.Action)
		return false
	}

	if !d.client.IsConnected() {
		log.Printf("[WARN] Control channel disconnected, dropping %s command", cmd.Action)
		return false
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[ERROR] Failed to encode %s command: %v", cmd.Action, err)
		return false
	}

	if err := d.client.Publish(topic, data); err != nil {
		log.Printf("[ERROR] Failed to publish %s command: %v", cmd.Action, err)
	}
	return true
}
