package model

import (
	"fmt"
	"strconv"
	"time"
)

// Kind enumerates the variants a Value can hold.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindDate
	KindDateTime
	KindArray
	KindObject
)

// Layouts used when a temporal value is rendered as form text or JSON.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04:05"
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindDateTime:
		return "datetime"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Value is a JSON-like document node. The zero Value is Null.
type Value struct {
	kind Kind

	boolVal  bool
	intVal   int64
	floatVal float64
	strVal   string
	timeVal  time.Time

	items   []Value
	members []Member
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, boolVal: b} }

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: KindInt, intVal: i} }

// Float wraps a floating point number.
func Float(f float64) Value { return Value{kind: KindFloat, floatVal: f} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, strVal: s} }

// Date wraps a calendar date; the clock part of t is ignored.
func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, timeVal: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// DateTime wraps a timestamp.
func DateTime(t time.Time) Value { return Value{kind: KindDateTime, timeVal: t} }

// Array builds an array from items. The slice is copied.
func Array(items ...Value) Value {
	out := make([]Value, len(items))
	copy(out, items)
	return Value{kind: KindArray, items: out}
}

// Object builds an object from members. Later members replace earlier ones
// sharing a key, keeping the position of the first occurrence.
func Object(members ...Member) Value {
	v := Value{kind: KindObject, members: make([]Member, 0, len(members))}
	for _, m := range members {
		v.Set(m.Key, m.Value)
	}
	return v
}

// M is shorthand for building an object member.
func M(key string, value Value) Member {
	return Member{Key: key, Value: value}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsContainer reports whether v is an Array or an Object.
func (v Value) IsContainer() bool { return v.kind == KindArray || v.kind == KindObject }

// AsBool returns the boolean payload (false for other kinds).
func (v Value) AsBool() bool { return v.boolVal }

// AsInt returns the integer payload (0 for other kinds).
func (v Value) AsInt() int64 { return v.intVal }

// AsFloat returns the float payload (0 for other kinds).
func (v Value) AsFloat() float64 { return v.floatVal }

// AsString returns the string payload ("" for other kinds).
func (v Value) AsString() string { return v.strVal }

// AsTime returns the temporal payload of Date and DateTime values.
func (v Value) AsTime() time.Time { return v.timeVal }

// Len returns the number of items or members, 0 for scalars.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.members)
	default:
		return 0
	}
}

// Items returns a copy of the array items.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	out := make([]Value, len(v.items))
	copy(out, v.items)
	return out
}

// Members returns a copy of the object members in insertion order.
func (v Value) Members() []Member {
	if v.kind != KindObject {
		return nil
	}
	out := make([]Member, len(v.members))
	copy(out, v.members)
	return out
}

// Index returns the array item at i.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.items) {
		return Value{}, false
	}
	return v.items[i], true
}

// Get returns the object member stored under key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Set stores value under key, replacing an existing member in place or
// appending a new one. It is a no-op unless v is an Object.
func (v *Value) Set(key string, value Value) {
	if v.kind != KindObject {
		return
	}
	for i := range v.members {
		if v.members[i].Key == key {
			v.members[i].Value = value
			return
		}
	}
	v.members = append(v.members, Member{Key: key, Value: value})
}

// Append adds items to an Array. It is a no-op unless v is an Array.
func (v *Value) Append(items ...Value) {
	if v.kind != KindArray {
		return
	}
	v.items = append(v.items, items...)
}

// Text renders a scalar the way it is written into a form control: null is
// the empty string, dates use DateLayout and timestamps DateTimeLayout.
// Containers render as canonical JSON.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.boolVal)
	case KindInt:
		return strconv.FormatInt(v.intVal, 10)
	case KindFloat:
		return strconv.FormatFloat(v.floatVal, 'f', -1, 64)
	case KindString:
		return v.strVal
	case KindDate:
		return v.timeVal.Format(DateLayout)
	case KindDateTime:
		return v.timeVal.Format(DateTimeLayout)
	default:
		data, err := v.MarshalJSON()
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// Interface converts v into plain Go values (nil, bool, int64, float64,
// string, time.Time, []any, map[string]any). Object order is lost.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.boolVal
	case KindInt:
		return v.intVal
	case KindFloat:
		return v.floatVal
	case KindString:
		return v.strVal
	case KindDate, KindDateTime:
		return v.timeVal
	case KindArray:
		out := make([]any, 0, len(v.items))
		for _, item := range v.items {
			out = append(out, item.Interface())
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.members))
		for _, m := range v.members {
			out[m.Key] = m.Value.Interface()
		}
		return out
	default:
		return nil
	}
}

// GoString implements fmt.GoStringer for readable test failures.
func (v Value) GoString() string {
	switch v.kind {
	case KindArray, KindObject:
		return fmt.Sprintf("model.%s(%s)", v.kind, v.Text())
	default:
		return fmt.Sprintf("model.%s(%q)", v.kind, v.Text())
	}
}

// Equal reports whether v and other hold the same variant and content.
// Object members compare in order. It lets go-cmp compare values directly.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.boolVal == other.boolVal
	case KindInt:
		return v.intVal == other.intVal
	case KindFloat:
		return v.floatVal == other.floatVal
	case KindString:
		return v.strVal == other.strVal
	case KindDate, KindDateTime:
		return v.timeVal.Equal(other.timeVal)
	case KindArray:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.members) != len(other.members) {
			return false
		}
		for i := range v.members {
			if v.members[i].Key != other.members[i].Key || !v.members[i].Value.Equal(other.members[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
