package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ToJSON converts a document into the generic value encoding/json marshals:
// map[string]any, []any, json.Number, uint64, int64, string, bool or nil.
// A nil Value converts to nil (JSON null).
func ToJSON(v Value) any {
	if v == nil {
		return nil
	}
	return v.Accept(jsonVisitor{})
}

type jsonVisitor struct{}

var _ Visitor = jsonVisitor{}

func (j jsonVisitor) VisitObject(o Object) any {
	m := make(map[string]any, len(o))
	for k, v := range o {
		m[k] = ToJSON(v)
	}
	return m
}

func (j jsonVisitor) VisitArray(a Array) any {
	s := make([]any, len(a))
	for i, v := range a {
		s[i] = ToJSON(v)
	}
	return s
}

func (jsonVisitor) VisitFloat(f Float) any   { return FloatLiteral(float64(f)) }
func (jsonVisitor) VisitPosInt(n PosInt) any { return uint64(n) }
func (jsonVisitor) VisitNegInt(n NegInt) any { return int64(n) }
func (jsonVisitor) VisitString(s String) any { return string(s) }
func (jsonVisitor) VisitBool(b Bool) any     { return bool(b) }
func (jsonVisitor) VisitNull(Null) any       { return nil }

// FloatLiteral renders f as a JSON number that reads back as a float, so 1
// is written 1.0. NaN and infinities have no JSON form and become nil (null).
func FloatLiteral(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}

	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return json.Number(s)
}

// FromJSON parses JSON text into a document. Integers keep their sign class;
// any other number becomes a Float.
func FromJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode document: trailing data after value")
	}
	return FromAny(raw)
}

// FromAny converts a value produced by encoding/json (with UseNumber) into a document.
func FromAny(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Null{}, nil
	case map[string]any:
		o := make(Object, len(v))
		for k, e := range v {
			conv, err := FromAny(e)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			o[k] = conv
		}
		return o, nil
	case []any:
		a := make(Array, len(v))
		for i, e := range v {
			conv, err := FromAny(e)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			a[i] = conv
		}
		return a, nil
	case json.Number:
		return ParseNumber(v.String())
	case float64:
		return Float(v), nil
	case string:
		return String(v), nil
	case bool:
		return Bool(v), nil
	default:
		return nil, fmt.Errorf("unsupported document value of type %T", raw)
	}
}

// ParseNumber classifies a numeric literal: negative integers become NegInt,
// non-negative integers PosInt, everything else Float.
func ParseNumber(literal string) (Value, error) {
	if n, err := strconv.ParseInt(literal, 10, 64); err == nil && n < 0 {
		return NegInt(n), nil
	}
	if n, err := strconv.ParseUint(literal, 10, 64); err == nil {
		return PosInt(n), nil
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", literal, err)
	}
	return Float(f), nil
}
