// Package document models the self-describing metadata values attached to
// vectors and converts them to generic JSON.
package document

// Value is a schema-less document value. The set of variants is closed:
// Object, Array, Float, PosInt, NegInt, String, Bool and Null.
//
// Code that needs to branch on the variant implements Visitor instead of
// type-switching, so a new variant breaks every visitor at compile time.
type Value interface {
	Accept(v Visitor) any
	sealed()
}

// Visitor handles every Value variant.
type Visitor interface {
	VisitObject(o Object) any
	VisitArray(a Array) any
	VisitFloat(f Float) any
	VisitPosInt(n PosInt) any
	VisitNegInt(n NegInt) any
	VisitString(s String) any
	VisitBool(b Bool) any
	VisitNull(n Null) any
}

// Object is a string-keyed mapping. Key order is not significant.
type Object map[string]Value

// Array is an ordered sequence.
type Array []Value

// Float is a floating-point number.
type Float float64

// PosInt is a non-negative integer.
type PosInt uint64

// NegInt is a negative integer.
type NegInt int64

// String is a text value.
type String string

// Bool is a boolean value.
type Bool bool

// Null is the absent value.
type Null struct{}

func (o Object) Accept(v Visitor) any { return v.VisitObject(o) }
func (a Array) Accept(v Visitor) any  { return v.VisitArray(a) }
func (f Float) Accept(v Visitor) any  { return v.VisitFloat(f) }
func (n PosInt) Accept(v Visitor) any { return v.VisitPosInt(n) }
func (n NegInt) Accept(v Visitor) any { return v.VisitNegInt(n) }
func (s String) Accept(v Visitor) any { return v.VisitString(s) }
func (b Bool) Accept(v Visitor) any   { return v.VisitBool(b) }
func (n Null) Accept(v Visitor) any   { return v.VisitNull(n) }

func (Object) sealed() {}
func (Array) sealed()  {}
func (Float) sealed()  {}
func (PosInt) sealed() {}
func (NegInt) sealed() {}
func (String) sealed() {}
func (Bool) sealed()   {}
func (Null) sealed()   {}
