package component

// GroundSensor is a downward probe from the body center. Grounded is refreshed
// every fixed step.
type GroundSensor struct {
	Length   float64
	Grounded bool
}

var GroundSensorComponent = NewComponent[GroundSensor]()
