package glsl

import (
	"fmt"

	apperr "github.com/matzehuels/shadergraph/pkg/errors"
)

// ConversionError reports that no rule turns a From value into a To value.
type ConversionError struct {
	From Type // producer socket type
	To   Type // consumer socket type
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	return fmt.Sprintf("can't convert %s to %s", e.From, e.To)
}

// Code returns the error code for this error type.
func (e *ConversionError) Code() apperr.Code { return apperr.ErrCodeConversion }

type rule func(expr string) string

// rules holds every supported cross-type conversion, keyed by from then to.
var rules = map[Type]map[Type]rule{
	Bool: {
		Float: func(e string) string { return fmt.Sprintf("(%s? 1.0: 0.0)", e) },
	},
	Float: {
		Bool:    func(e string) string { return fmt.Sprintf("(%s != 0.0)", e) },
		Vector2: func(e string) string { return fmt.Sprintf("vec2(%s, %s)", e, e) },
		Vector3: func(e string) string { return fmt.Sprintf("vec3(%s, %s, %s)", e, e, e) },
		Color:   func(e string) string { return fmt.Sprintf("vec4(%s, %s, %s, %s)", e, e, e, e) },
	},
	Vector2: {
		Bool: nonZeroLength,
	},
	Vector3: {
		Bool:    nonZeroLength,
		Vector2: func(e string) string { return e + ".xy" },
		Color:   func(e string) string { return fmt.Sprintf("vec4(%s, 1.0)", e) },
	},
	Color: {
		Bool:    nonZeroLength,
		Vector2: func(e string) string { return e + ".xy" },
		Vector3: func(e string) string { return e + ".xyz" },
	},
}

func nonZeroLength(e string) string { return fmt.Sprintf("(length(%s) != 0.0)", e) }

// Convert rewrites expr, an expression of the producer type from, into an
// expression of the consumer type to. Same-type conversion returns expr
// unchanged. Unsupported pairs return a [*ConversionError].
func Convert(from, to Type, expr string) (string, error) {
	if !from.Valid() || !to.Valid() {
		return "", &ConversionError{From: from, To: to}
	}
	if from == to {
		return expr, nil
	}
	if r, ok := rules[from][to]; ok {
		return r(expr), nil
	}
	return "", &ConversionError{From: from, To: to}
}

// CanConvert reports whether [Convert] supports the pair.
func CanConvert(from, to Type) bool {
	if from == to {
		return from.Valid()
	}
	_, ok := rules[from][to]
	return ok
}
