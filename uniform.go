package sis

import "fmt"

// UniformKind tags the type of a shader uniform. Each uniform slot
// holds exactly one kind; setting a value of the wrong kind is an
// error rather than a silent coercion.
type UniformKind uint8

const (
	// UniformFloat is a single float64 scalar.
	UniformFloat UniformKind = iota

	// UniformVec2 is a pair of float64 components.
	UniformVec2

	// UniformTexture is a reference to a Texture sampled by the shader.
	UniformTexture

	uniformKindCount
)

// String returns a human-readable name for the kind.
func (k UniformKind) String() string {
	switch k {
	case UniformFloat:
		return "Float"
	case UniformVec2:
		return "Vec2"
	case UniformTexture:
		return "Texture"
	default:
		return fmt.Sprintf("UniformKind(%d)", uint8(k))
	}
}

// IsValid reports whether k is one of the defined uniform kinds.
func (k UniformKind) IsValid() bool {
	return k < uniformKindCount
}

// UniformDecl declares one uniform slot of a program: its shader-facing
// name and the kind of value it accepts.
type UniformDecl struct {
	Name string
	Kind UniformKind
}

// uniformValue is the storage for one uniform slot. The kind field
// mirrors the declaration; only the matching payload field is
// meaningful.
type uniformValue struct {
	kind UniformKind
	set  bool

	f   float64
	v   [2]float64
	tex *Texture
}
