package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prite36/aquaponics-iot-system/internal/config"
	"github.com/prite36/aquaponics-iot-system/internal/dispatcher"
	"github.com/prite36/aquaponics-iot-system/internal/store"
)

type fakePublisher struct {
	connected bool
	topics    []string
}

func (f *fakePublisher) Publish(topic string, payload []byte) error {
	f.topics = append(f.topics, topic)
	return nil
}

func (f *fakePublisher) IsConnected() bool { return f.connected }

func testStore(t *testing.T, payloads ...string) *store.Store {
	t.Helper()
	s := store.New(10, config.ThresholdConfig{
		DOLow:         5.0,
		AmmoniaHigh:   0.5,
		WaterLevelLow: 80.0,
		TempHigh:      26.0,
		PHLow:         6.0,
	}, nil)
	for _, p := range payloads {
		if _, err := s.Ingest([]byte(p)); err != nil {
			t.Fatalf("Ingest failed: %v", err)
		}
	}
	return s
}

func TestLatestHandlerEmpty(t *testing.T) {
	handler := LatestHandler(testStore(t))

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/latest", nil))

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["message"] == "" {
		t.Error("Expected a no-data message for an empty store")
	}
}

func TestLatestHandlerReturnsReading(t *testing.T) {
	handler := LatestHandler(testStore(t, `{"reading_id": 3, "water_level_percent": 95, "pump_status": "ON"}`))

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/latest", nil))

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["reading_id"] != float64(3) {
		t.Errorf("Expected reading_id 3, got %v", body["reading_id"])
	}
	if body["diagnosis"] != "Normal operation" {
		t.Errorf("Expected attached diagnosis, got %v", body["diagnosis"])
	}
}

func TestDataHandlerLimit(t *testing.T) {
	s := testStore(t,
		`{"reading_id": 1}`,
		`{"reading_id": 2}`,
		`{"reading_id": 3}`,
	)
	handler := DataHandler(s)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/data?limit=2", nil))

	var body struct {
		Count    int              `json:"count"`
		Readings []map[string]any `json:"readings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Count != 2 {
		t.Fatalf("Expected count 2, got %d", body.Count)
	}
	if body.Readings[0]["reading_id"] != float64(2) || body.Readings[1]["reading_id"] != float64(3) {
		t.Errorf("Expected the two most recent readings oldest-first, got %v", body.Readings)
	}
}

func TestDataHandlerInvalidLimit(t *testing.T) {
	handler := DataHandler(testStore(t))

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/data?limit=abc", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid limit, got %d", rec.Code)
	}
}

func TestAlertsHandler(t *testing.T) {
	s := testStore(t, `{"reading_id": 1, "dissolved_oxygen_mgL": 4.0, "ammonia_mgL": 0.6, "water_level_percent": 90, "water_temp_C": 24, "pH": 6.5, "pump_status": "ON"}`)
	handler := AlertsHandler(s)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/alerts", nil))

	var body struct {
		AlertCount int    `json:"alert_count"`
		Diagnosis  string `json:"diagnosis"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.AlertCount != 2 {
		t.Errorf("Expected 2 alerts, got %d", body.AlertCount)
	}
	if body.Diagnosis != "Overfeeding / biofilter stress" {
		t.Errorf("Expected overfeeding diagnosis, got %q", body.Diagnosis)
	}
}

func TestControlPumpHandler(t *testing.T) {
	testCases := []struct {
		name            string
		connected       bool
		body            string
		expectedSuccess bool
		expectedPublish int
	}{
		{
			name:            "connected with explicit state",
			connected:       true,
			body:            `{"state": "on"}`,
			expectedSuccess: true,
			expectedPublish: 1,
		},
		{
			name:            "connected with default toggle",
			connected:       true,
			expectedSuccess: true,
			expectedPublish: 1,
		},
		{
			name:            "disconnected",
			connected:       false,
			expectedSuccess: false,
			expectedPublish: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pub := &fakePublisher{connected: tc.connected}
			handler := ControlPumpHandler(dispatcher.New(pub))

			var req *http.Request
			if tc.body != "" {
				req = httptest.NewRequest(http.MethodPost, "/control/pump", strings.NewReader(tc.body))
			} else {
				req = httptest.NewRequest(http.MethodPost, "/control/pump", nil)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			var body ControlResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if body.Success != tc.expectedSuccess {
				t.Errorf("Expected success=%v, got %v", tc.expectedSuccess, body.Success)
			}
			if len(pub.topics) != tc.expectedPublish {
				t.Errorf("Expected %d publishes, got %d", tc.expectedPublish, len(pub.topics))
			}
		})
	}
}

func TestControlPumpHandlerRejectsGet(t *testing.T) {
	handler := ControlPumpHandler(dispatcher.New(&fakePublisher{connected: true}))

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/control/pump", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET, got %d", rec.Code)
	}
}

func TestSimulateFailureHandler(t *testing.T) {
	pub := &fakePublisher{connected: true}
	handler := SimulateFailureHandler(dispatcher.New(pub))

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/control/simulate-failure?enable=false", nil))

	var body ControlResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !body.Success {
		t.Error("Expected success while connected")
	}
	if !strings.Contains(body.Message, "disabled") {
		t.Errorf("Expected message to mention disabled, got %q", body.Message)
	}
}
