package glsl

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperr "github.com/matzehuels/shadergraph/pkg/errors"
)

// ErrNonFinite is returned for literals with an infinite or NaN component.
// GLSL has no literal syntax for either.
var ErrNonFinite = apperr.New(apperr.ErrCodeInvalidValue, "literal must be finite")

// Value is a literal of one socket type. The zero Value is the Bool false.
//
// Float-based variants store their components in v; unused slots are zero.
type Value struct {
	typ Type
	b   bool
	v   [4]float64
}

// BoolValue returns a Bool literal.
func BoolValue(b bool) Value { return Value{typ: Bool, b: b} }

// FloatValue returns a Float literal.
func FloatValue(f float64) Value { return Value{typ: Float, v: [4]float64{f}} }

// Vec2 returns a Vector2 literal.
func Vec2(x, y float64) Value { return Value{typ: Vector2, v: [4]float64{x, y}} }

// Vec3 returns a Vector3 literal.
func Vec3(x, y, z float64) Value { return Value{typ: Vector3, v: [4]float64{x, y, z}} }

// Vec4 returns a Vector4 literal.
func Vec4(x, y, z, w float64) Value { return Value{typ: Vector4, v: [4]float64{x, y, z, w}} }

// RGBA returns a Color literal with channels in [0, 1].
func RGBA(r, g, b, a float64) Value { return Value{typ: Color, v: [4]float64{r, g, b, a}} }

// Zero returns the default literal for t. Colors default to opaque black.
func Zero(t Type) Value {
	if t == Color {
		return RGBA(0, 0, 0, 1)
	}
	return Value{typ: t}
}

// Type returns the variant of v.
func (v Value) Type() Type { return v.typ }

// Bool returns the boolean payload. It is false for non-Bool values.
func (v Value) Bool() bool { return v.b }

// Float returns the first component. It is 0 for Bool values.
func (v Value) Float() float64 { return v.v[0] }

// Components returns a copy of the float components used by the variant.
func (v Value) Components() []float64 {
	n := v.typ.Components()
	out := make([]float64, n)
	copy(out, v.v[:n])
	return out
}

// Finite reports whether every component of v is a finite number.
func (v Value) Finite() bool {
	for _, f := range v.v {
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return false
		}
	}
	return true
}

// Literal renders v in GLSL constructor syntax with two decimals per
// component, e.g. "vec3(0.20, 0.40, 0.60)".
func (v Value) Literal() string {
	switch v.typ {
	case Bool:
		return strconv.FormatBool(v.b)
	case Float:
		return formatFloat(v.v[0])
	}
	n := v.typ.Components()
	parts := make([]string, n)
	for i := range n {
		parts[i] = formatFloat(v.v[i])
	}
	return v.typ.Keyword() + "(" + strings.Join(parts, ", ") + ")"
}

// String implements fmt.Stringer using the GLSL literal.
func (v Value) String() string { return v.Literal() }

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', 2, 64)
	if s == "-0.00" {
		return "0.00"
	}
	return s
}

// ParseColor parses "#rrggbb" or "#rrggbbaa" into a Color literal.
func ParseColor(s string) (Value, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Value{}, fmt.Errorf("invalid color %q: want #rrggbb or #rrggbbaa", s)
	}
	ch := [4]float64{0, 0, 0, 1}
	for i := 0; i < len(hex)/2; i++ {
		b, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return Value{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		ch[i] = float64(b) / 255
	}
	return RGBA(ch[0], ch[1], ch[2], ch[3]), nil
}

// FromAny builds a literal of type t from a decoded TOML or JSON value.
//
// Accepted shapes: bool for Bool; any number for Float; a list of numbers
// with exactly the component count for vector types. Colors additionally
// accept a hex string or a 3-element list (alpha defaults to 1).
func FromAny(t Type, raw any) (Value, error) {
	switch t {
	case Bool:
		b, ok := raw.(bool)
		if !ok {
			return Value{}, fmt.Errorf("want bool for %s, got %T", t, raw)
		}
		return BoolValue(b), nil
	case Float:
		f, ok := toFloat(raw)
		if !ok {
			return Value{}, fmt.Errorf("want number for %s, got %T", t, raw)
		}
		return checkFinite(FloatValue(f))
	case Vector2, Vector3, Vector4, Color:
		if s, ok := raw.(string); ok && t == Color {
			return ParseColor(s)
		}
		list, ok := toList(raw)
		if !ok {
			return Value{}, fmt.Errorf("want list of numbers for %s, got %T", t, raw)
		}
		want := t.Components()
		if t == Color && len(list) == 3 {
			list = append(list, 1)
		}
		if len(list) != want {
			return Value{}, fmt.Errorf("want %d components for %s, got %d", want, t, len(list))
		}
		val := Value{typ: t}
		copy(val.v[:], list)
		return checkFinite(val)
	}
	return Value{}, fmt.Errorf("unknown socket type %s", t)
}

func checkFinite(v Value) (Value, error) {
	if !v.Finite() {
		return Value{}, fmt.Errorf("%s: %w", v.typ, ErrNonFinite)
	}
	return v, nil
}

func toFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func toList(raw any) ([]float64, bool) {
	switch l := raw.(type) {
	case []float64:
		return append([]float64(nil), l...), true
	case []any:
		out := make([]float64, 0, len(l))
		for _, e := range l {
			f, ok := toFloat(e)
			if !ok {
				return nil, false
			}
			out = append(out, f)
		}
		return out, true
	}
	return nil, false
}
