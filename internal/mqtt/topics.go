package mqtt

// Topic layout of the aquaponics broker. The combined sensor topic carries
// full readings; the per-sensor topics carry informational {value, timestamp}
// payloads for anything that wants a single series.
const (
	TopicSensorsAll    = "aquaponics/sensors/all"
	TopicSensorsPrefix = "aquaponics/sensors/"

	TopicControlPump     = "aquaponics/control/pump"
	TopicControlLight    = "aquaponics/control/light"
	TopicControlSimulate = "aquaponics/control/simulate"
)

// SensorTopic returns the per-sensor topic for a sensor name, e.g.
// "aquaponics/sensors/water_temp".
func SensorTopic(name string) string {
	return TopicSensorsPrefix + name
}
