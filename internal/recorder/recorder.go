package recorder

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/prite36/aquaponics-iot-system/internal/models"
)

// SensorRecord is the persisted form of a reading, one row per ingested
// message.
type SensorRecord struct {
	gorm.Model
	ReadingID          int64     `gorm:"not null;index"`
	ReadAt             time.Time `gorm:"not null;index"`
	WaterTempC         float64
	AirTempC           float64
	PH                 float64
	AmmoniaMgL         float64
	DissolvedOxygenMgL float64
	ECuScm             float64
	WaterLevelPercent  float64
	HumidityPercent    float64
	LightLux           float64
	PumpStatus         string `gorm:"type:varchar(10)"`
	LightStatus        string `gorm:"type:varchar(10)"`
	Diagnosis          string
}

func (SensorRecord) TableName() string {
	return "sensor_readings"
}

// Recorder appends readings to the database, best-effort. A nil Recorder is
// a valid no-op so the monitor runs without a database.
type Recorder struct {
	db *gorm.DB
}

// New creates a recorder and migrates the sensor_readings table.
func New(db *gorm.DB) (*Recorder, error) {
	if err := db.AutoMigrate(&SensorRecord{}); err != nil {
		return nil, err
	}
	return &Recorder{db: db}, nil
}

// Append writes one reading. Errors are logged and swallowed; persistence
// must never fail the ingestion path.
func (r *Recorder) Append(reading models.Reading) {
	if r == nil || r.db == nil {
		return
	}

	record := SensorRecord{
		ReadingID:          reading.ReadingID,
		ReadAt:             reading.Timestamp,
		WaterTempC:         reading.WaterTempC,
		AirTempC:           reading.AirTempC,
		PH:                 reading.PH,
		AmmoniaMgL:         reading.AmmoniaMgL,
		DissolvedOxygenMgL: reading.DissolvedOxygenMgL,
		ECuScm:             reading.ECuScm,
		WaterLevelPercent:  reading.WaterLevelPercent,
		HumidityPercent:    reading.HumidityPercent,
		LightLux:           reading.LightLux,
		PumpStatus:         string(reading.PumpStatus),
		LightStatus:        string(reading.LightStatus),
		Diagnosis:          reading.Diagnosis,
	}

	if err := r.db.Create(&record).Error; err != nil {
		log.Printf("[WARN] Failed to persist reading #%d: %v", reading.ReadingID, err)
	}
}
