package tool

// Type represents JSON Schema types.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Schema represents a JSON Schema for tool parameters.
type Schema struct {
	Type        Type               `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

// Declaration declares a tool's function signature for the LLM.
type Declaration struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

// Safety is the approval class of a tool invocation.
type Safety string

const (
	// Green runs without asking the operator.
	Green Safety = "green"
	// Red requires explicit operator approval.
	Red Safety = "red"
)

// Param declares one named argument of a tool.
type Param struct {
	Name        string
	Type        Type
	Description string

	// Items is the element type when Type is TypeArray.
	Items Type

	// Default is used when the argument is absent. A nil Default marks the
	// parameter as required.
	Default any
}

// Required reports whether the caller must supply the parameter.
func (p Param) Required() bool {
	return p.Default == nil
}

// Private reports whether the parameter is hidden from the model.
func (p Param) Private() bool {
	return len(p.Name) > 0 && p.Name[0] == '_'
}
