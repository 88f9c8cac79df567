package superjson

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// Kind identifies a Value variant.
type Kind uint8

const (
	// Plain JSON kinds.
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject

	// Extended kinds requiring a type annotation on the wire.
	KindUndefined
	KindDate
	KindBigInt
	KindSet
	KindMap
	KindNaN
	KindPosInfinity
	KindNegInfinity
	KindNegZero
	KindRegExp
	KindURL
	KindError
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindUndefined:
		return "undefined"
	case KindDate:
		return "date"
	case KindBigInt:
		return "bigint"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	case KindNaN:
		return "NaN"
	case KindPosInfinity:
		return "Infinity"
	case KindNegInfinity:
		return "-Infinity"
	case KindNegZero:
		return "-0"
	case KindRegExp:
		return "regexp"
	case KindURL:
		return "url"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Value is a superjson value: the plain JSON kinds plus every extended
// kind the wire format can annotate. The Number kind only ever holds a
// finite, non-negative-zero double; NaN, ±Infinity and -0 are their own
// kinds so the plain-number path never sees them.
type Value struct {
	kind Kind

	// Scalars (at most one valid, per kind).
	boolVal bool
	numVal  float64
	strVal  string // String, URL
	timeVal time.Time
	bigVal  *big.Int

	// Containers.
	listVal []*Value   // Array, Set
	objVal  []Member   // Object (insertion-ordered)
	mapVal  []MapEntry // Map (ordered pairs, keys may be any Value)

	regexVal *RegExpValue
	errVal   *ErrValue
}

// Member is a key-value pair in an Object.
type Member struct {
	Key   string
	Value *Value
}

// MapEntry is a key-value pair in a Map. Unlike Object members, keys
// may be any Value.
type MapEntry struct {
	Key   *Value
	Value *Value
}

// RegExpValue models a regular expression as a (source, flags) pair.
// The pattern is carried verbatim and never compiled.
type RegExpValue struct {
	Source string
	Flags  string
}

// ErrValue models a JS Error: a name, a message, and an optional cause
// which may itself be any Value.
type ErrValue struct {
	Name    string
	Message string
	Cause   *Value
}

// ============================================================
// Constructors
// ============================================================

// Null creates a null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Bool creates a boolean value.
func Bool(v bool) *Value {
	return &Value{kind: KindBool, boolVal: v}
}

// Number creates a numeric value. Non-finite doubles and negative zero
// are routed to their dedicated kinds so the Number kind invariant
// (finite, not -0) always holds.
func Number(v float64) *Value {
	switch {
	case math.IsNaN(v):
		return NaN()
	case math.IsInf(v, 1):
		return Infinity()
	case math.IsInf(v, -1):
		return NegInfinity()
	case v == 0 && math.Signbit(v):
		return NegZero()
	default:
		return &Value{kind: KindNumber, numVal: v}
	}
}

// String creates a string value.
func String(v string) *Value {
	return &Value{kind: KindString, strVal: v}
}

// Array creates an array value.
func Array(items ...*Value) *Value {
	return &Value{kind: KindArray, listVal: items}
}

// Object creates an object value. Member order is preserved.
func Object(members ...Member) *Value {
	return &Value{kind: KindObject, objVal: members}
}

// Field creates a Member for use in Object construction.
func Field(key string, v *Value) Member {
	return Member{Key: key, Value: v}
}

// Undefined creates an undefined value.
func Undefined() *Value {
	return &Value{kind: KindUndefined}
}

// Date creates a Date value. The wire format carries millisecond
// precision in UTC; sub-millisecond components are dropped on encode.
func Date(t time.Time) *Value {
	return &Value{kind: KindDate, timeVal: t}
}

// BigInt creates an arbitrary-precision integer value.
func BigInt(n *big.Int) *Value {
	return &Value{kind: KindBigInt, bigVal: n}
}

// Set creates a Set value. Element order is preserved; the codec does
// not deduplicate.
func Set(items ...*Value) *Value {
	return &Value{kind: KindSet, listVal: items}
}

// Map creates a Map value from ordered entries.
func Map(entries ...MapEntry) *Value {
	return &Value{kind: KindMap, mapVal: entries}
}

// Entry creates a MapEntry for use in Map construction.
func Entry(key, value *Value) MapEntry {
	return MapEntry{Key: key, Value: value}
}

// NaN creates a NaN value.
func NaN() *Value {
	return &Value{kind: KindNaN}
}

// Infinity creates a +Infinity value.
func Infinity() *Value {
	return &Value{kind: KindPosInfinity}
}

// NegInfinity creates a -Infinity value.
func NegInfinity() *Value {
	return &Value{kind: KindNegInfinity}
}

// NegZero creates a negative-zero value.
func NegZero() *Value {
	return &Value{kind: KindNegZero}
}

// RegExp creates a regular expression value from a source pattern and
// flags. The pattern is not validated or compiled.
func RegExp(source, flags string) *Value {
	return &Value{kind: KindRegExp, regexVal: &RegExpValue{Source: source, Flags: flags}}
}

// URL creates a URL value carrying the string verbatim.
func URL(v string) *Value {
	return &Value{kind: KindURL, strVal: v}
}

// Err creates an Error value. cause may be nil.
func Err(name, message string, cause *Value) *Value {
	return &Value{kind: KindError, errVal: &ErrValue{Name: name, Message: message, Cause: cause}}
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the value kind.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull returns true for a null value.
func (v *Value) IsNull() bool {
	return v == nil || v.kind == KindNull
}

// AsBool returns the boolean value.
func (v *Value) AsBool() (bool, error) {
	if v == nil || v.kind != KindBool {
		return false, fmt.Errorf("superjson: expected bool, got %s", v.Kind())
	}
	return v.boolVal, nil
}

// AsNumber returns the finite double value.
func (v *Value) AsNumber() (float64, error) {
	if v == nil || v.kind != KindNumber {
		return 0, fmt.Errorf("superjson: expected number, got %s", v.Kind())
	}
	return v.numVal, nil
}

// AsString returns the string value.
func (v *Value) AsString() (string, error) {
	if v == nil || v.kind != KindString {
		return "", fmt.Errorf("superjson: expected string, got %s", v.Kind())
	}
	return v.strVal, nil
}

// AsArray returns the array elements.
func (v *Value) AsArray() ([]*Value, error) {
	if v == nil || v.kind != KindArray {
		return nil, fmt.Errorf("superjson: expected array, got %s", v.Kind())
	}
	return v.listVal, nil
}

// AsObject returns the object members in insertion order.
func (v *Value) AsObject() ([]Member, error) {
	if v == nil || v.kind != KindObject {
		return nil, fmt.Errorf("superjson: expected object, got %s", v.Kind())
	}
	return v.objVal, nil
}

// AsDate returns the time value.
func (v *Value) AsDate() (time.Time, error) {
	if v == nil || v.kind != KindDate {
		return time.Time{}, fmt.Errorf("superjson: expected date, got %s", v.Kind())
	}
	return v.timeVal, nil
}

// AsBigInt returns the arbitrary-precision integer.
func (v *Value) AsBigInt() (*big.Int, error) {
	if v == nil || v.kind != KindBigInt {
		return nil, fmt.Errorf("superjson: expected bigint, got %s", v.Kind())
	}
	return v.bigVal, nil
}

// AsSet returns the set elements in order.
func (v *Value) AsSet() ([]*Value, error) {
	if v == nil || v.kind != KindSet {
		return nil, fmt.Errorf("superjson: expected set, got %s", v.Kind())
	}
	return v.listVal, nil
}

// AsMap returns the map entries in order.
func (v *Value) AsMap() ([]MapEntry, error) {
	if v == nil || v.kind != KindMap {
		return nil, fmt.Errorf("superjson: expected map, got %s", v.Kind())
	}
	return v.mapVal, nil
}

// AsRegExp returns the regular expression value.
func (v *Value) AsRegExp() (*RegExpValue, error) {
	if v == nil || v.kind != KindRegExp {
		return nil, fmt.Errorf("superjson: expected regexp, got %s", v.Kind())
	}
	return v.regexVal, nil
}

// AsURL returns the URL string.
func (v *Value) AsURL() (string, error) {
	if v == nil || v.kind != KindURL {
		return "", fmt.Errorf("superjson: expected url, got %s", v.Kind())
	}
	return v.strVal, nil
}

// AsErr returns the error value.
func (v *Value) AsErr() (*ErrValue, error) {
	if v == nil || v.kind != KindError {
		return nil, fmt.Errorf("superjson: expected error, got %s", v.Kind())
	}
	return v.errVal, nil
}

// Get returns an object member value by key, or nil.
func (v *Value) Get(key string) *Value {
	if v == nil || v.kind != KindObject {
		return nil
	}
	for _, m := range v.objVal {
		if m.Key == key {
			return m.Value
		}
	}
	return nil
}

// Len returns the element count of an array, set, object, or map.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.kind {
	case KindArray, KindSet:
		return len(v.listVal)
	case KindObject:
		return len(v.objVal)
	case KindMap:
		return len(v.mapVal)
	default:
		return 0
	}
}

// ============================================================
// Equality
// ============================================================

// Equal reports deep structural equality. Object members, array/set
// elements and map entries compare order-sensitively; Dates compare as
// instants; BigInts compare numerically.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull, KindUndefined, KindNaN, KindPosInfinity, KindNegInfinity, KindNegZero:
		return true
	case KindBool:
		return v.boolVal == o.boolVal
	case KindNumber:
		return v.numVal == o.numVal
	case KindString, KindURL:
		return v.strVal == o.strVal
	case KindDate:
		return v.timeVal.Equal(o.timeVal)
	case KindBigInt:
		return v.bigVal.Cmp(o.bigVal) == 0
	case KindArray, KindSet:
		if len(v.listVal) != len(o.listVal) {
			return false
		}
		for i := range v.listVal {
			if !v.listVal[i].Equal(o.listVal[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.objVal) != len(o.objVal) {
			return false
		}
		for i := range v.objVal {
			if v.objVal[i].Key != o.objVal[i].Key || !v.objVal[i].Value.Equal(o.objVal[i].Value) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.mapVal) != len(o.mapVal) {
			return false
		}
		for i := range v.mapVal {
			if !v.mapVal[i].Key.Equal(o.mapVal[i].Key) || !v.mapVal[i].Value.Equal(o.mapVal[i].Value) {
				return false
			}
		}
		return true
	case KindRegExp:
		return v.regexVal.Source == o.regexVal.Source && v.regexVal.Flags == o.regexVal.Flags
	case KindError:
		if v.errVal.Name != o.errVal.Name || v.errVal.Message != o.errVal.Message {
			return false
		}
		if (v.errVal.Cause == nil) != (o.errVal.Cause == nil) {
			return false
		}
		return v.errVal.Cause == nil || v.errVal.Cause.Equal(o.errVal.Cause)
	default:
		return false
	}
}

// ============================================================
// Display
// ============================================================

// String renders a human-readable form for diagnostics and CLI output.
// It is not the wire form.
func (v *Value) String() string {
	if v == nil {
		return "null"
	}
	var b strings.Builder
	v.writeDisplay(&b)
	return b.String()
}

func (v *Value) writeDisplay(b *strings.Builder) {
	switch v.kind {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		b.WriteString(strconv.FormatBool(v.boolVal))
	case KindNumber:
		b.WriteString(strconv.FormatFloat(v.numVal, 'g', -1, 64))
	case KindString:
		b.WriteString(strconv.Quote(v.strVal))
	case KindArray:
		b.WriteByte('[')
		for i, e := range v.listVal {
			if i > 0 {
				b.WriteString(", ")
			}
			e.writeDisplay(b)
		}
		b.WriteByte(']')
	case KindObject:
		b.WriteByte('{')
		for i, m := range v.objVal {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(m.Key))
			b.WriteString(": ")
			m.Value.writeDisplay(b)
		}
		b.WriteByte('}')
	case KindUndefined:
		b.WriteString("undefined")
	case KindDate:
		b.WriteString("Date(")
		b.WriteString(v.timeVal.UTC().Format(dateLayout))
		b.WriteByte(')')
	case KindBigInt:
		b.WriteString(v.bigVal.String())
		b.WriteByte('n')
	case KindSet:
		b.WriteString("Set {")
		for i, e := range v.listVal {
			if i > 0 {
				b.WriteString(", ")
			}
			e.writeDisplay(b)
		}
		b.WriteByte('}')
	case KindMap:
		b.WriteString("Map {")
		for i, e := range v.mapVal {
			if i > 0 {
				b.WriteString(", ")
			}
			e.Key.writeDisplay(b)
			b.WriteString(" => ")
			e.Value.writeDisplay(b)
		}
		b.WriteByte('}')
	case KindNaN:
		b.WriteString("NaN")
	case KindPosInfinity:
		b.WriteString("Infinity")
	case KindNegInfinity:
		b.WriteString("-Infinity")
	case KindNegZero:
		b.WriteString("-0")
	case KindRegExp:
		b.WriteByte('/')
		b.WriteString(v.regexVal.Source)
		b.WriteByte('/')
		b.WriteString(v.regexVal.Flags)
	case KindURL:
		b.WriteString("URL(")
		b.WriteString(v.strVal)
		b.WriteByte(')')
	case KindError:
		b.WriteString(v.errVal.Name)
		b.WriteString(": ")
		b.WriteString(v.errVal.Message)
		if v.errVal.Cause != nil {
			b.WriteString(" (cause: ")
			v.errVal.Cause.writeDisplay(b)
			b.WriteByte(')')
		}
	}
}
