package component

// InputScript drives an entity's Input from a tengo script instead of devices.
// Source wins over Path when both are set.
type InputScript struct {
	Path   string
	Source []byte
}

var InputScriptComponent = NewComponent[InputScript]()
