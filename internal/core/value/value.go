// Package value holds the decoded JSON value model shared by every panel
// algorithm, and the classifier that tags values with their JSON type.
package value

import (
	"math"
	"strconv"
)

// Type is the JSON type tag of a decoded value.
type Type string

const (
	TypeNull    Type = "null"
	TypeBoolean Type = "boolean"
	TypeNumber  Type = "number"
	TypeString  Type = "string"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Value is a decoded JSON value. The set of implementations is closed:
// Null, Bool, Number, String, Array and *Object. A nil Value is JSON null.
type Value interface {
	isValue()
}

type Null struct{}

type Bool bool

// Number keeps the JSON literal as written so that large or precise values
// survive a round trip. Comparisons go through Float64.
type Number string

type String string

type Array []Value

func (Null) isValue()    {}
func (Bool) isValue()    {}
func (Number) isValue()  {}
func (String) isValue()  {}
func (Array) isValue()   {}
func (*Object) isValue() {}

// Classify returns the JSON type of v. Arrays are detected before objects and
// null is its own type.
func Classify(v Value) Type {
	switch x := v.(type) {
	case Bool:
		return TypeBoolean
	case Number:
		return TypeNumber
	case String:
		return TypeString
	case Array:
		return TypeArray
	case *Object:
		if x != nil {
			return TypeObject
		}
	}
	return TypeNull
}

// IsContainer reports whether v is an array or an object.
func IsContainer(v Value) bool {
	t := Classify(v)
	return t == TypeArray || t == TypeObject
}

// Int returns a Number for an integer.
func Int(n int) Number {
	return Number(strconv.Itoa(n))
}

// Float64 parses the literal. Literals outside the float64 range saturate to ±Inf.
func (n Number) Float64() float64 {
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil && !math.IsInf(f, 0) {
		return math.NaN()
	}
	return f
}

// Truthy applies JavaScript truthiness: null, false, 0, NaN and "" are falsy,
// every container is truthy.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case nil, Null:
		return false
	case Bool:
		return bool(x)
	case Number:
		f := x.Float64()
		return f != 0 && !math.IsNaN(f)
	case String:
		return x != ""
	case *Object:
		return x != nil
	}
	return true
}

// Object is a JSON object that remembers key insertion order.
type Object struct {
	keys   []string
	fields map[string]Value
}

func NewObject() *Object {
	return &Object{fields: make(map[string]Value)}
}

// Set stores v under key. Re-setting an existing key replaces the value but
// keeps the key's original position.
func (o *Object) Set(key string, v Value) {
	if o.fields == nil {
		o.fields = make(map[string]Value)
	}
	if _, ok := o.fields[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = v
}

func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.fields[key]
	return v, ok
}

func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Each calls fn for every field in insertion order until fn returns false.
func (o *Object) Each(fn func(key string, v Value) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !fn(k, o.fields[k]) {
			return
		}
	}
}
