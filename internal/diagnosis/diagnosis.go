package diagnosis

import (
	"fmt"

	"github.com/prite36/aquaponics-iot-system/internal/config"
	"github.com/prite36/aquaponics-iot-system/internal/models"
)

// Diagnosis labels. DiagnosisNormal is the quiet state; everything else is
// a suspected root cause.
const (
	DiagnosisPumpFailure = "Pump failure suspected"
	DiagnosisOverfeeding = "Overfeeding / biofilter stress"
	DiagnosisThermal     = "Thermal oxygen stress"
	DiagnosisLeak        = "Leak or evaporation"
	DiagnosisLowPH       = "pH too low - add buffer"
	DiagnosisNormal      = "Normal operation"
)

// Diagnose maps a reading to a single root-cause label. The rules are
// evaluated in priority order and the first match wins; combined symptoms
// (rule 1-3) outrank single-sensor ones.
func Diagnose(r models.Reading, t config.ThresholdConfig) string {
	lowDO := r.DissolvedOxygenMgL < t.DOLow
	highAmmonia := r.AmmoniaMgL > t.AmmoniaHigh
	lowWaterLevel := r.WaterLevelPercent < t.WaterLevelLow
	highTemp := r.WaterTempC > t.TempHigh
	lowPH := r.PH < t.PHLow

	switch {
	case lowWaterLevel && lowDO:
		return DiagnosisPumpFailure
	case highAmmonia && lowDO:
		return DiagnosisOverfeeding
	case highTemp && lowDO:
		return DiagnosisThermal
	case lowWaterLevel:
		return DiagnosisLeak
	case lowPH:
		return DiagnosisLowPH
	default:
		return DiagnosisNormal
	}
}

// EvaluateAlerts checks every threshold independently and returns one alert
// per violated condition. Unlike Diagnose, the conditions are not mutually
// exclusive.
func EvaluateAlerts(r models.Reading, t config.ThresholdConfig) []models.Alert {
	alerts := []models.Alert{}

	if r.DissolvedOxygenMgL < t.DOLow {
		alerts = append(alerts, models.Alert{
			Severity: models.SeverityWarning,
			Sensor:   "dissolved_oxygen",
			Message:  fmt.Sprintf("Low DO: %g mg/L", r.DissolvedOxygenMgL),
		})
	}
	if r.AmmoniaMgL > t.AmmoniaHigh {
		alerts = append(alerts, models.Alert{
			Severity: models.SeverityDanger,
			Sensor:   "ammonia",
			Message:  fmt.Sprintf("High ammonia: %g mg/L", r.AmmoniaMgL),
		})
	}
	if r.WaterLevelPercent < t.WaterLevelLow {
		alerts = append(alerts, models.Alert{
			Severity: models.SeverityDanger,
			Sensor:   "water_level",
			Message:  fmt.Sprintf("Low water: %g%%", r.WaterLevelPercent),
		})
	}
	if r.WaterTempC > t.TempHigh {
		alerts = append(alerts, models.Alert{
			Severity: models.SeverityWarning,
			Sensor:   "temperature",
			Message:  fmt.Sprintf("High temp: %g°C", r.WaterTempC),
		})
	}
	if r.PH < t.PHLow {
		alerts = append(alerts, models.Alert{
			Severity: models.SeverityWarning,
			Sensor:   "pH",
			Message:  fmt.Sprintf("Low pH: %g", r.PH),
		})
	}
	if r.PumpStatus == models.PumpFailure {
		alerts = append(alerts, models.Alert{
			Severity: models.SeverityDanger,
			Sensor:   "pump",
			Message:  "Pump failure detected!",
		})
	}

	return alerts
}
