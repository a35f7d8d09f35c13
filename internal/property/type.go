// Package property implements the graph's typed, range-checked, optionally
// a-rate automatable parameters. A Property is the unit graph.Node attaches
// its configuration through; the automation support lets a value vary
// per-sample within a block ("a-rate") instead of staying constant for the
// whole block ("k-rate").
package property

// Type is the closed set of property value types.
type Type int

const (
	Int Type = iota
	Float
	Double
	String
	Float3
	Float6
	IntArray
	FloatArray
	BufferType
)

func (t Type) String() string {
	switch t {
	case Int:
		return "int"
	case Float:
		return "float"
	case Double:
		return "double"
	case String:
		return "string"
	case Float3:
		return "float3"
	case Float6:
		return "float6"
	case IntArray:
		return "int-array"
	case FloatArray:
		return "float-array"
	case BufferType:
		return "buffer"
	default:
		return "unknown"
	}
}

// IsNumericScalar reports whether values of this type are the single
// scalars that support a-rate automation tracks (int, float and double).
func (t Type) IsNumericScalar() bool {
	switch t {
	case Int, Float, Double:
		return true
	default:
		return false
	}
}

// Descriptor is the static metadata table entry spec.md §6 requires for
// every node property: slot id, name, type, default, range and flags.
type Descriptor struct {
	Slot       int
	Name       string
	Type       Type
	Default    any
	Min        any
	Max        any
	ReadOnly   bool
	Automatable bool
}
