package node

// InputSpec describes a node input handle.
type InputSpec struct {
	Name     string      `json:"name" yaml:"name"`
	Type     Capability  `json:"type" yaml:"type"`
	Required bool        `json:"required,omitempty" yaml:"required,omitempty"`
	Default  interface{} `json:"default,omitempty" yaml:"default,omitempty"`
}

// HasDefault returns true when a default value was declared.
func (s *InputSpec) HasDefault() bool {
	return s.Default != nil
}

// OutputSpec describes a node output handle.
type OutputSpec struct {
	Name string     `json:"name" yaml:"name"`
	Type Capability `json:"type" yaml:"type"`
}

// Metadata describes node class handles, order matters.
type Metadata struct {
	Inputs  []*InputSpec  `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs []*OutputSpec `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}

// genericInput is assumed for classes declaring no inputs.
var genericInput = &InputSpec{Name: "input", Type: Any}

// Input returns input spec by name
func (m *Metadata) Input(name string) *InputSpec {
	if m == nil {
		return nil
	}
	for _, candidate := range m.Inputs {
		if candidate.Name == name {
			return candidate
		}
	}
	return nil
}

// Output returns output spec by name
func (m *Metadata) Output(name string) *OutputSpec {
	if m == nil {
		return nil
	}
	for _, candidate := range m.Outputs {
		if candidate.Name == name {
			return candidate
		}
	}
	return nil
}

// InputSpecs returns declared inputs or a single optional "input" of type any.
func (m *Metadata) InputSpecs() []*InputSpec {
	if m == nil || len(m.Inputs) == 0 {
		return []*InputSpec{genericInput}
	}
	return m.Inputs
}

// In is a shorthand InputSpec constructor.
func In(name string, capability Capability, required bool) *InputSpec {
	return &InputSpec{Name: name, Type: capability, Required: required}
}

// Out is a shorthand OutputSpec constructor.
func Out(name string, capability Capability) *OutputSpec {
	return &OutputSpec{Name: name, Type: capability}
}
