package dao

// Parameter represents a List filter. Stores match parameters by Name;
// unsupported names are ignored.
type Parameter struct {
	Name  string
	Value interface{}
}

// Lookup returns parameter value by name
func Lookup(parameters []*Parameter, name string) (interface{}, bool) {
	for _, parameter := range parameters {
		if parameter != nil && parameter.Name == name {
			return parameter.Value, true
		}
	}
	return nil, false
}
