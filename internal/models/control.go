package models

type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Alert is a single threshold violation on the latest reading. Alerts are
// recomputed on demand and never stored.
type Alert struct {
	Severity Severity `json:"type"`
	Sensor   string   `json:"sensor"`
	Message  string   `json:"message"`
}

// Control actions and states as they appear on the wire.
const (
	ActionPump            = "pump"
	ActionLight           = "light"
	ActionSimulateFailure = "simulate_failure"

	StateOn     = "on"
	StateOff    = "off"
	StateToggle = "toggle"
	StateAuto   = "auto"
)

// ControlCommand is a request to change device-side state. State applies to
// pump and light commands; Enable applies to simulate_failure.
type ControlCommand struct {
	Action string
	State  string
	Enable bool
}

// ControlPayload is the JSON shape carried on the control topics. Enable is
// a pointer so pump/light payloads omit it and the device side can default
// a missing value to true.
type ControlPayload struct {
	Action string `json:"action"`
	State  string `json:"state,omitempty"`
	Enable *bool  `json:"enable,omitempty"`
}
