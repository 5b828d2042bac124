package glsl

import (
	"fmt"
	"strings"
)

// Type enumerates the value types a socket can carry.
type Type int

const (
	Bool Type = iota
	Float
	Vector2
	Vector3
	Vector4
	Color
)

// Types lists every socket type in declaration order.
var Types = []Type{Bool, Float, Vector2, Vector3, Vector4, Color}

var typeNames = map[Type]string{
	Bool:    "bool",
	Float:   "float",
	Vector2: "vector2",
	Vector3: "vector3",
	Vector4: "vector4",
	Color:   "color",
}

var typeKeywords = map[Type]string{
	Bool:    "bool",
	Float:   "float",
	Vector2: "vec2",
	Vector3: "vec3",
	Vector4: "vec4",
	Color:   "vec4",
}

// String returns the socket type name (e.g. "vector3").
func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Keyword returns the GLSL type used to declare a variable of this type.
func (t Type) Keyword() string { return typeKeywords[t] }

// Valid reports whether t is one of the known socket types.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// Components returns the number of float components stored for the type.
// Bool reports 0.
func (t Type) Components() int {
	switch t {
	case Float:
		return 1
	case Vector2:
		return 2
	case Vector3:
		return 3
	case Vector4, Color:
		return 4
	}
	return 0
}

// ParseType parses a socket type name. Both the type name ("vector2") and the
// GLSL keyword ("vec2") are accepted; "vec4" resolves to Vector4.
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range Types {
		if typeNames[t] == s {
			return t, nil
		}
	}
	for _, t := range Types {
		if typeKeywords[t] == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown socket type %q", s)
}
