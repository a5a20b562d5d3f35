package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/prite36/aquaponics-iot-system/internal/config"
	"github.com/prite36/aquaponics-iot-system/internal/diagnosis"
	"github.com/prite36/aquaponics-iot-system/internal/dispatcher"
	"github.com/prite36/aquaponics-iot-system/internal/models"
	"github.com/prite36/aquaponics-iot-system/internal/store"
)

// ControlResponse is the reply to every /control endpoint.
type ControlResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// IndexHandler lists the available endpoints.
func IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Welcome to Aquaponics IoT API",
			"endpoints": map[string]string{
				"/latest":    "Get latest sensor reading",
				"/data":      "Get historical readings",
				"/status":    "System status",
				"/alerts":    "Current alerts",
				"/dashboard": "Web dashboard",
			},
		})
	}
}

// LatestHandler returns the most recent sensor reading.
func LatestHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reading, ok := st.Latest()
		if !ok {
			writeJSON(w, http.StatusOK, map[string]string{
				"message": "No data yet. Is the simulator publishing?",
			})
			return
		}
		writeJSON(w, http.StatusOK, reading)
	}
}

// DataHandler returns up to limit historical readings, oldest first.
func DataHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 100
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				http.Error(w, "invalid limit parameter", http.StatusBadRequest)
				return
			}
			limit = parsed
		}

		readings := st.History(limit)
		writeJSON(w, http.StatusOK, map[string]any{
			"count":    len(readings),
			"readings": readings,
		})
	}
}

// AlertsHandler evaluates the thresholds against the latest reading.
func AlertsHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reading, ok := st.Latest()
		if !ok {
			writeJSON(w, http.StatusOK, map[string]any{
				"alerts":  []models.Alert{},
				"message": "No data available",
			})
			return
		}

		alerts := diagnosis.EvaluateAlerts(reading, st.Thresholds())
		writeJSON(w, http.StatusOK, map[string]any{
			"alerts":      alerts,
			"alert_count": len(alerts),
			"diagnosis":   reading.Diagnosis,
		})
	}
}

// StatusHandler reports broker connectivity and store statistics.
func StatusHandler(cfg *config.Config, st *store.Store, conn Connectivity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var lastTime any
		if reading, ok := st.Latest(); ok {
			lastTime = reading.Timestamp
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"mqtt_broker":       cfg.MQTT.Broker,
			"mqtt_connected":    conn != nil && conn.IsConnected(),
			"total_readings":    st.Count(),
			"has_data":          st.Count() > 0,
			"last_reading_time": lastTime,
			"thresholds":        cfg.Thresholds,
		})
	}
}

// controlState extracts the requested state from the query string or a JSON
// body, defaulting to "toggle".
func controlState(r *http.Request) string {
	if state := r.URL.Query().Get("state"); state != "" {
		return state
	}
	var body struct {
		State string `json:"state"`
	}
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && err != io.EOF {
			return models.StateToggle
		}
	}
	if body.State != "" {
		return body.State
	}
	return models.StateToggle
}

// ControlPumpHandler sends a pump command on the control channel.
func ControlPumpHandler(disp *dispatcher.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
			return
		}

		state := controlState(r)
		if disp.SendControl(models.ControlCommand{Action: models.ActionPump, State: state}) {
			log.Printf("[INFO] Sent pump control: %s", state)
			writeJSON(w, http.StatusOK, ControlResponse{Success: true, Message: fmt.Sprintf("Pump command sent: %s", state)})
			return
		}
		writeJSON(w, http.StatusOK, ControlResponse{Success: false, Message: "MQTT not connected"})
	}
}

// ControlLightHandler sends a light command on the control channel.
func ControlLightHandler(disp *dispatcher.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
			return
		}

		state := controlState(r)
		if disp.SendControl(models.ControlCommand{Action: models.ActionLight, State: state}) {
			log.Printf("[INFO] Sent light control: %s", state)
			writeJSON(w, http.StatusOK, ControlResponse{Success: true, Message: fmt.Sprintf("Light command sent: %s", state)})
			return
		}
		writeJSON(w, http.StatusOK, ControlResponse{Success: false, Message: "MQTT not connected"})
	}
}

// SimulateFailureHandler starts or stops a simulated pump failure.
func SimulateFailureHandler(disp *dispatcher.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
			return
		}

		enable := true
		if raw := r.URL.Query().Get("enable"); raw != "" {
			parsed, err := strconv.ParseBool(raw)
			if err != nil {
				http.Error(w, "invalid enable parameter", http.StatusBadRequest)
				return
			}
			enable = parsed
		} else if r.Body != nil && r.ContentLength > 0 {
			var body struct {
				Enable *bool `json:"enable"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil && body.Enable != nil {
				enable = *body.Enable
			}
		}

		status := "enabled"
		if !enable {
			status = "disabled"
		}
		if disp.SendControl(models.ControlCommand{Action: models.ActionSimulateFailure, Enable: enable}) {
			log.Printf("[INFO] Pump failure simulation: %s", status)
			writeJSON(w, http.StatusOK, ControlResponse{Success: true, Message: fmt.Sprintf("Pump failure simulation %s", status)})
			return
		}
		writeJSON(w, http.StatusOK, ControlResponse{Success: false, Message: "MQTT not connected"})
	}
}
