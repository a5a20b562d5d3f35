package dispatcher

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/prite36/aquaponics-iot-system/internal/models"
	"github.com/prite36/aquaponics-iot-system/internal/mqtt"
)

// fakePublisher records published messages instead of talking to a broker.
type fakePublisher struct {
	connected  bool
	publishErr error
	topics     []string
	payloads   [][]byte
}

func (f *fakePublisher) Publish(topic string, payload []byte) error {
	f.topics = append(f.topics, topic)
	f.payloads = append(f.payloads, payload)
	return f.publishErr
}

func (f *fakePublisher) IsConnected() bool {
	return f.connected
}

func TestSendControlPayloads(t *testing.T) {
	enable := false

	testCases := []struct {
		name          string
		cmd           models.ControlCommand
		expectedTopic string
		expectedJSON  models.ControlPayload
	}{
		{
			name:          "pump toggle",
			cmd:           models.ControlCommand{Action: models.ActionPump, State: models.StateToggle},
			expectedTopic: mqtt.TopicControlPump,
			expectedJSON:  models.ControlPayload{Action: "pump", State: "toggle"},
		},
		{
			name:          "light auto",
			cmd:           models.ControlCommand{Action: models.ActionLight, State: models.StateAuto},
			expectedTopic: mqtt.TopicControlLight,
			expectedJSON:  models.ControlPayload{Action: "light", State: "auto"},
		},
		{
			name:          "simulate failure disable",
			cmd:           models.ControlCommand{Action: models.ActionSimulateFailure, Enable: false},
			expectedTopic: mqtt.TopicControlSimulate,
			expectedJSON:  models.ControlPayload{Action: "simulate_failure", Enable: &enable},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pub := &fakePublisher{connected: true}
			d := New(pub)

			if !d.SendControl(tc.cmd) {
				t.Fatal("Expected SendControl to report success while connected")
			}
			if len(pub.topics) != 1 {
				t.Fatalf("Expected one publish, got %d", len(pub.topics))
			}
			if pub.topics[0] != tc.expectedTopic {
				t.Errorf("Expected topic %s, got %s", tc.expectedTopic, pub.topics[0])
			}

			var payload models.ControlPayload
			if err := json.Unmarshal(pub.payloads[0], &payload); err != nil {
				t.Fatalf("Failed to decode payload: %v", err)
			}
			if payload.Action != tc.expectedJSON.Action || payload.State != tc.expectedJSON.State {
				t.Errorf("Expected payload %+v, got %+v", tc.expectedJSON, payload)
			}
			if tc.expectedJSON.Enable != nil {
				if payload.Enable == nil || *payload.Enable != *tc.expectedJSON.Enable {
					t.Errorf("Expected enable %v, got %v", *tc.expectedJSON.Enable, payload.Enable)
				}
			} else if payload.Enable != nil {
				t.Errorf("Expected enable to be omitted, got %v", *payload.Enable)
			}
		})
	}
}

func TestSendControlDisconnected(t *testing.T) {
	pub := &fakePublisher{connected: false}
	d := New(pub)

	if d.SendControl(models.ControlCommand{Action: models.ActionPump, State: models.StateOn}) {
		t.Error("Expected SendControl to report failure while disconnected")
	}
	if len(pub.topics) != 0 {
		t.Errorf("Expected no publish while disconnected, got %d", len(pub.topics))
	}
}

func TestSendControlUnknownAction(t *testing.T) {
	pub := &fakePublisher{connected: true}
	d := New(pub)

	if d.SendControl(models.ControlCommand{Action: "reboot"}) {
		t.Error("Expected SendControl to refuse an unknown action")
	}
	if len(pub.topics) != 0 {
		t.Errorf("Expected no publish for unknown action, got %d", len(pub.topics))
	}
}

func TestSendControlReportsConnectedDespitePublishError(t *testing.T) {
	// Fire-and-forget: the result reflects connectivity at send time, not
	// delivery.
	pub := &fakePublisher{connected: true, publishErr: errors.New("broker hiccup")}
	d := New(pub)

	if !d.SendControl(models.ControlCommand{Action: models.ActionPump, State: models.StateOff}) {
		t.Error("Expected SendControl to report success when connected, even if publish errored")
	}
}
