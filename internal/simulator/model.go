package simulator

import (
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/prite36/aquaponics-iot-system/internal/config"
	"github.com/prite36/aquaponics-iot-system/internal/models"
)

// Model is the synthetic process behind the sensors: pump, grow light,
// slow chemical drifts and a daily cycle. Command handlers run on the MQTT
// client's goroutines while the tick runs on the scheduler's, so all state
// is mutex-guarded. Commands take effect on the next generated reading.
type Model struct {
	mu  sync.Mutex
	cfg config.SimulatorConfig

	pumpOn      bool
	pumpFailure bool
	lightOn     bool
	manualLight bool

	phDrift      float64
	ecDrift      float64
	readingCount int64

	rng *rand.Rand
	now func() time.Time
}

// NewModel creates a model with the pump running and the light in automatic
// day/night mode.
func NewModel(cfg config.SimulatorConfig) *Model {
	return &Model{
		cfg:     cfg,
		pumpOn:  true,
		lightOn: true,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}
}

func (m *Model) gauss(std float64) float64 {
	return m.rng.NormFloat64() * std
}

// dailyCycle generates a value following a sinusoidal day/night pattern
// plus Gaussian noise.
func (m *Model) dailyCycle(hour, mean, amplitude, noiseStd float64) float64 {
	value := mean + amplitude*math.Sin(2*math.Pi*hour/24)
	return round(value+m.gauss(noiseStd), 2)
}

// GenerateReading produces the next snapshot and advances the slow drifts.
func (m *Model) GenerateReading() models.Reading {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	hour := float64(now.Hour())

	m.readingCount++
	m.phDrift -= 0.0001
	m.ecDrift += m.gauss(0.5)

	waterTemp := m.dailyCycle(hour, 23.5, 1.5, 0.2)
	airTemp := m.dailyCycle(hour, 22.0, 2.0, 0.3)
	ph := round(6.9+m.phDrift+m.gauss(0.05), 2)
	ammonia := round(math.Max(0, 0.15+m.gauss(0.05)), 3)
	dissolvedOxygen := m.dailyCycle(hour, 6.5, 0.6, 0.15)
	ec := round(900+m.ecDrift, 1)
	waterLevel := round(95+m.gauss(2), 1)
	humidity := m.dailyCycle(hour, 60, 10, 2)

	// Manual mode follows the switch; automatic mode follows a half
	// sinusoid peaking at midday, dark outside the daylight window.
	var lux float64
	if m.manualLight {
		if m.lightOn {
			lux = 20000
		}
	} else {
		lux = math.Max(0, 20000*math.Sin(2*math.Pi*(hour-6)/24))
	}
	lux = math.Max(0, round(lux+m.gauss(500), 0))

	pumpStatus := models.PumpOn
	switch {
	case m.pumpFailure:
		pumpStatus = models.PumpFailure
		waterLevel -= m.cfg.FailureLevelPenalty
		dissolvedOxygen -= m.cfg.FailureDOPenalty
	case !m.pumpOn:
		pumpStatus = models.PumpOff
		waterLevel -= m.cfg.OffLevelPenalty
		dissolvedOxygen -= m.cfg.OffDOPenalty
	}

	lightStatus := models.LightOff
	if m.manualLight {
		if m.lightOn {
			lightStatus = models.LightOn
		}
	} else if lux > 0 {
		lightStatus = models.LightOn
	}

	return models.Reading{
		Timestamp:          now,
		WaterTempC:         waterTemp,
		AirTempC:           airTemp,
		PH:                 ph,
		AmmoniaMgL:         ammonia,
		DissolvedOxygenMgL: round(math.Max(0, dissolvedOxygen), 2),
		ECuScm:             ec,
		WaterLevelPercent:  round(math.Max(0, waterLevel), 1),
		HumidityPercent:    round(humidity, 1),
		LightLux:           lux,
		PumpStatus:         pumpStatus,
		LightStatus:        lightStatus,
		ReadingID:          m.readingCount,
	}
}

// ApplyPump sets or flips the pump switch. Unrecognized states are ignored.
func (m *Model) ApplyPump(state string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch state {
	case models.StateToggle:
		m.pumpOn = !m.pumpOn
	case models.StateOn:
		m.pumpOn = true
	case models.StateOff:
		m.pumpOn = false
	default:
		log.Printf("[WARN] Ignoring unrecognized pump state %q", state)
		return
	}
	log.Printf("Pump is now: %s", onOff(m.pumpOn))
}

// ApplyLight sets or flips the light and engages manual mode; "auto" hands
// control back to the day/night cycle without touching the switch.
func (m *Model) ApplyLight(state string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch state {
	case models.StateToggle:
		m.manualLight = true
		m.lightOn = !m.lightOn
	case models.StateOn:
		m.manualLight = true
		m.lightOn = true
	case models.StateOff:
		m.manualLight = true
		m.lightOn = false
	case models.StateAuto:
		m.manualLight = false
	default:
		log.Printf("[WARN] Ignoring unrecognized light state %q", state)
		return
	}

	mode := "auto"
	if m.manualLight {
		mode = "manual"
	}
	log.Printf("Light is now: %s (%s)", onOff(m.lightOn), mode)
}

// SetFailure enables or disables the simulated pump failure.
func (m *Model) SetFailure(enable bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pumpFailure = enable
	if enable {
		log.Println("Pump failure simulation: ENABLED")
	} else {
		log.Println("Pump failure simulation: DISABLED")
	}
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

func round(value float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(value*p) / p
}
