package models

import (
	"encoding/json"
	"time"
)

type PumpStatus string

const (
	PumpOn      PumpStatus = "ON"
	PumpOff     PumpStatus = "OFF"
	PumpFailure PumpStatus = "FAILURE"
)

type LightStatus string

const (
	LightOn  LightStatus = "ON"
	LightOff LightStatus = "OFF"
)

// Reading is one immutable snapshot of every sensor in the enclosure.
// The simulator publishes it without a diagnosis; the monitor attaches
// the diagnosis once at ingestion and never recomputes it.
type Reading struct {
	Timestamp          time.Time   `json:"timestamp"`
	WaterTempC         float64     `json:"water_temp_C"`
	AirTempC           float64     `json:"air_temp_C"`
	PH                 float64     `json:"pH"`
	AmmoniaMgL         float64     `json:"ammonia_mgL"`
	DissolvedOxygenMgL float64     `json:"dissolved_oxygen_mgL"`
	ECuScm             float64     `json:"ec_uScm"`
	WaterLevelPercent  float64     `json:"water_level_percent"`
	HumidityPercent    float64     `json:"humidity_percent"`
	LightLux           float64     `json:"light_lux"`
	PumpStatus         PumpStatus  `json:"pump_status"`
	LightStatus        LightStatus `json:"light_status"`
	ReadingID          int64       `json:"reading_id"`
	Diagnosis          string      `json:"diagnosis,omitempty"`
}

// Defaults substituted for fields absent from an inbound payload, chosen so
// that a missing sensor never trips a threshold on its own.
const (
	DefaultWaterTempC         = 20.0
	DefaultPH                 = 7.0
	DefaultAmmoniaMgL         = 0.0
	DefaultDissolvedOxygenMgL = 10.0
	DefaultWaterLevelPercent  = 100.0
)

// readingPayload mirrors Reading but keeps the diagnosis-relevant fields as
// pointers so a missing field can be told apart from a literal zero.
type readingPayload struct {
	Timestamp          time.Time   `json:"timestamp"`
	WaterTempC         *float64    `json:"water_temp_C"`
	AirTempC           float64     `json:"air_temp_C"`
	PH                 *float64    `json:"pH"`
	AmmoniaMgL         *float64    `json:"ammonia_mgL"`
	DissolvedOxygenMgL *float64    `json:"dissolved_oxygen_mgL"`
	ECuScm             float64     `json:"ec_uScm"`
	WaterLevelPercent  *float64    `json:"water_level_percent"`
	HumidityPercent    float64     `json:"humidity_percent"`
	LightLux           float64     `json:"light_lux"`
	PumpStatus         PumpStatus  `json:"pump_status"`
	LightStatus        LightStatus `json:"light_status"`
	ReadingID          int64       `json:"reading_id"`
}

// DecodeReading parses a telemetry payload into a Reading, applying the
// missing-field defaults in one place so consumers downstream can rely on
// every field being populated.
func DecodeReading(data []byte) (Reading, error) {
	var p readingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return Reading{}, err
	}

	r := Reading{
		Timestamp:          p.Timestamp,
		WaterTempC:         DefaultWaterTempC,
		AirTempC:           p.AirTempC,
		PH:                 DefaultPH,
		AmmoniaMgL:         DefaultAmmoniaMgL,
		DissolvedOxygenMgL: DefaultDissolvedOxygenMgL,
		ECuScm:             p.ECuScm,
		WaterLevelPercent:  DefaultWaterLevelPercent,
		HumidityPercent:    p.HumidityPercent,
		LightLux:           p.LightLux,
		PumpStatus:         p.PumpStatus,
		LightStatus:        p.LightStatus,
		ReadingID:          p.ReadingID,
	}
	if p.WaterTempC != nil {
		r.WaterTempC = *p.WaterTempC
	}
	if p.PH != nil {
		r.PH = *p.PH
	}
	if p.AmmoniaMgL != nil {
		r.AmmoniaMgL = *p.AmmoniaMgL
	}
	if p.DissolvedOxygenMgL != nil {
		r.DissolvedOxygenMgL = *p.DissolvedOxygenMgL
	}
	if p.WaterLevelPercent != nil {
		r.WaterLevelPercent = *p.WaterLevelPercent
	}
	return r, nil
}
