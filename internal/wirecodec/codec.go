// Package wirecodec encodes and decodes melwalletd JSON payloads.
//
// Every JSON number is decoded into a *big.Int and every *big.Int is encoded as
// a bare integer literal, so amounts, heights and weights never pass through a
// float64. Fractional or exponent literals are rejected instead of rounded.
package wirecodec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
)

// Value is a decoded JSON tree. Leaves are nil, bool, string or *big.Int;
// containers are []Value and map[string]Value.
type Value = any

// Kind names the JSON type of a decoded value.
type Kind string

const (
	KindNull    Kind = "null"
	KindBool    Kind = "bool"
	KindInteger Kind = "integer"
	KindString  Kind = "string"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
	KindUnknown Kind = "unknown"
)

// KindOf reports the JSON kind of a decoded value.
func KindOf(v Value) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case *big.Int:
		return KindInteger
	case string:
		return KindString
	case []Value:
		return KindArray
	case map[string]Value:
		return KindObject
	default:
		return KindUnknown
	}
}

// Encode serializes v to JSON text. Map keys are emitted in sorted order, so
// equal inputs always produce identical bytes.
func Encode(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MustEncode is Encode for values known to be encodable.
func MustEncode(v Value) []byte {
	b, err := Encode(v)
	if err != nil {
		panic(err)
	}
	return b
}

func encodeValue(buf *bytes.Buffer, v Value) error {
	switch t := v.(type) {
	case *big.Int:
		if t == nil {
			buf.WriteString("null")
			return nil
		}
		buf.WriteString(t.String())
		return nil
	case []Value:
		buf.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case map[string]Value:
		keys := sortedKeys(t)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, _ := json.Marshal(k)
			buf.Write(kb)
			buf.WriteByte(':')
			if err := encodeValue(buf, t[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case float32, float64:
		return fmt.Errorf("wirecodec: refusing to encode floating point value %v", t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("wirecodec: %w", err)
		}
		buf.Write(b)
		return nil
	}
}

// Decode parses JSON text into a Value tree. Numbers become *big.Int; any
// number with a fraction or exponent fails with a *DecodeError positioned at
// that literal.
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := readValue(dec)
	if err != nil {
		var lit *literalError
		if errors.As(err, &lit) {
			return nil, newDecodeError(data, lit.offset, lit.err)
		}
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, newDecodeError(data, offsetOf(err, dec), err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, newDecodeError(data, dec.InputOffset(), errors.New("trailing data after JSON value"))
	}
	return v, nil
}

// DecodeString is Decode over a string.
func DecodeString(s string) (Value, error) {
	return Decode([]byte(s))
}

// literalError marks a number literal that parsed as JSON but is not an
// integer. offset is where the literal starts.
type literalError struct {
	offset int64
	err    error
}

func (e *literalError) Error() string { return e.err.Error() }

func readValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case nil, bool, string:
		return t, nil
	case json.Number:
		n, err := parseInteger(string(t))
		if err != nil {
			return nil, &literalError{offset: dec.InputOffset() - int64(len(t)), err: err}
		}
		return n, nil
	case json.Delim:
		switch t {
		case '[':
			out := []Value{}
			for dec.More() {
				v, err := readValue(dec)
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
			_, err := dec.Token()
			return out, err
		case '{':
			out := map[string]Value{}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				k, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, not string", kt)
				}
				v, err := readValue(dec)
				if err != nil {
					return nil, err
				}
				out[k] = v
			}
			_, err := dec.Token()
			return out, err
		}
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}

func parseInteger(lit string) (*big.Int, error) {
	if strings.ContainsAny(lit, ".eE") {
		return nil, fmt.Errorf("non-integer number %q", lit)
	}
	n, ok := new(big.Int).SetString(lit, 10)
	if !ok {
		return nil, fmt.Errorf("malformed integer %q", lit)
	}
	return n, nil
}

func offsetOf(err error, dec *json.Decoder) int64 {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return syn.Offset
	}
	return dec.InputOffset()
}
