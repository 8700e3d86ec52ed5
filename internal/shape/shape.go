// Package shape checks decoded wire values against declared response shapes.
//
// A Shape is a small declarative descriptor (object, array, tuple, map,
// integer enum, tag...) built once per response type. Validate walks the
// decoded value and reports the first mismatch with its field path. Extra
// object fields are tolerated; missing required fields and type mismatches
// are not.
package shape

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/fd1az/melwalletd-client/internal/wirecodec"
)

// Shape describes the expected structure of a decoded value.
type Shape interface {
	// Describe returns a short human-readable name of the shape.
	Describe() string
	check(v wirecodec.Value, p path) *Error
}

// Validate reports whether v conforms to s. The returned error, when non-nil,
// is always a *Error.
func Validate(v wirecodec.Value, s Shape) error {
	if err := s.check(v, nil); err != nil {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------
// Primitives
// -----------------------------------------------------------------------------

type primitive struct {
	kind wirecodec.Kind
}

func (s primitive) Describe() string { return string(s.kind) }

func (s primitive) check(v wirecodec.Value, p path) *Error {
	if k := wirecodec.KindOf(v); k != s.kind {
		return mismatch(p, s, v)
	}
	return nil
}

// Integer matches an arbitrary-precision integer.
func Integer() Shape { return primitive{kind: wirecodec.KindInteger} }

// String matches a JSON string.
func String() Shape { return primitive{kind: wirecodec.KindString} }

// Bool matches a JSON boolean.
func Bool() Shape { return primitive{kind: wirecodec.KindBool} }

// Null matches only JSON null.
func Null() Shape { return primitive{kind: wirecodec.KindNull} }

type anyShape struct{}

func (anyShape) Describe() string { return "any" }

func (anyShape) check(wirecodec.Value, path) *Error { return nil }

// Any matches every value.
func Any() Shape { return anyShape{} }

// -----------------------------------------------------------------------------
// Constrained leaves
// -----------------------------------------------------------------------------

type intEnum struct {
	name  string
	codes map[string]struct{}
}

// IntEnum matches an integer whose value is one of codes.
func IntEnum(name string, codes ...int64) Shape {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[big.NewInt(c).String()] = struct{}{}
	}
	return intEnum{name: name, codes: set}
}

func (s intEnum) Describe() string { return s.name + " code" }

func (s intEnum) check(v wirecodec.Value, p path) *Error {
	n, ok := v.(*big.Int)
	if !ok || n == nil {
		return mismatch(p, s, v)
	}
	if _, known := s.codes[n.String()]; !known {
		return &Error{
			Path:     p.String(),
			Expected: s.Describe(),
			Actual:   fmt.Sprintf("unknown code %s", n.String()),
		}
	}
	return nil
}

type tag struct {
	name  string
	parse func(string) error
}

// Tag matches a string accepted by parse. Use it for compact encodings such as
// hex denomination tags, where the rejection reason comes from the parser.
func Tag(name string, parse func(string) error) Shape {
	return tag{name: name, parse: parse}
}

func (s tag) Describe() string { return s.name }

func (s tag) check(v wirecodec.Value, p path) *Error {
	str, ok := v.(string)
	if !ok {
		return mismatch(p, s, v)
	}
	if err := s.parse(str); err != nil {
		return &Error{
			Path:     p.String(),
			Expected: s.name,
			Actual:   fmt.Sprintf("%q (%v)", str, err),
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Combinators
// -----------------------------------------------------------------------------

type nullable struct {
	inner Shape
}

// Nullable matches null or inner.
func Nullable(inner Shape) Shape { return nullable{inner: inner} }

func (s nullable) Describe() string { return s.inner.Describe() + " | null" }

func (s nullable) check(v wirecodec.Value, p path) *Error {
	if v == nil {
		return nil
	}
	return s.inner.check(v, p)
}

type arrayOf struct {
	elem Shape
}

// ArrayOf matches an array whose every element matches elem.
func ArrayOf(elem Shape) Shape { return arrayOf{elem: elem} }

func (s arrayOf) Describe() string { return "array of " + s.elem.Describe() }

func (s arrayOf) check(v wirecodec.Value, p path) *Error {
	arr, ok := v.([]wirecodec.Value)
	if !ok {
		return mismatch(p, s, v)
	}
	for i, e := range arr {
		if err := s.elem.check(e, p.index(i)); err != nil {
			return err
		}
	}
	return nil
}

type tuple struct {
	elems []Shape
}

// Tuple matches a fixed-length array with per-position shapes.
func Tuple(elems ...Shape) Shape { return tuple{elems: elems} }

func (s tuple) Describe() string {
	names := make([]string, len(s.elems))
	for i, e := range s.elems {
		names[i] = e.Describe()
	}
	return "[" + strings.Join(names, ", ") + "]"
}

func (s tuple) check(v wirecodec.Value, p path) *Error {
	arr, ok := v.([]wirecodec.Value)
	if !ok {
		return mismatch(p, s, v)
	}
	if len(arr) != len(s.elems) {
		return &Error{
			Path:     p.String(),
			Expected: fmt.Sprintf("tuple of %d elements", len(s.elems)),
			Actual:   fmt.Sprintf("array of %d elements", len(arr)),
		}
	}
	for i, e := range s.elems {
		if err := e.check(arr[i], p.index(i)); err != nil {
			return err
		}
	}
	return nil
}

// Field is one declared member of an object shape.
type Field struct {
	Name     string
	Shape    Shape
	Optional bool
}

// Required declares a field that must be present.
func Required(name string, s Shape) Field { return Field{Name: name, Shape: s} }

// Optional declares a field that may be absent. When present it must match s.
func Optional(name string, s Shape) Field { return Field{Name: name, Shape: s, Optional: true} }

type object struct {
	name   string
	fields []Field
}

// Object matches a JSON object carrying the declared fields. Undeclared
// fields are ignored.
func Object(name string, fields ...Field) Shape {
	return object{name: name, fields: fields}
}

func (s object) Describe() string { return s.name }

func (s object) check(v wirecodec.Value, p path) *Error {
	obj, ok := v.(map[string]wirecodec.Value)
	if !ok {
		return mismatch(p, s, v)
	}
	for _, f := range s.fields {
		fv, present := obj[f.Name]
		if !present {
			if f.Optional {
				continue
			}
			return &Error{
				Path:     p.field(f.Name).String(),
				Expected: f.Shape.Describe(),
				Actual:   "missing",
			}
		}
		if err := f.Shape.check(fv, p.field(f.Name)); err != nil {
			return err
		}
	}
	return nil
}

type mapOf struct {
	key  Shape
	elem Shape
}

// MapOf matches an object used as a dictionary: every key must satisfy key
// (a String or Tag shape) and every value must match elem.
func MapOf(key, elem Shape) Shape { return mapOf{key: key, elem: elem} }

func (s mapOf) Describe() string {
	return "map of " + s.key.Describe() + " to " + s.elem.Describe()
}

func (s mapOf) check(v wirecodec.Value, p path) *Error {
	obj, ok := v.(map[string]wirecodec.Value)
	if !ok {
		return mismatch(p, s, v)
	}
	for k, e := range obj {
		kp := p.key(k)
		if err := s.key.check(k, kp); err != nil {
			return err
		}
		if err := s.elem.check(e, kp); err != nil {
			return err
		}
	}
	return nil
}
