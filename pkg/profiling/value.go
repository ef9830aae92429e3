package profiling

import (
	"fmt"
	"strconv"
)

// ValueKind enumerates the closed set of dimension value types.
type ValueKind uint8

const (
	KindString ValueKind = iota
	KindInt
	KindFloat
	KindBool
	KindObject
)

// Value is a dimension value: a small tagged variant over the types
// instrumentation is allowed to attach to events. Values are comparable
// through their rendered key and render stably, so they can serve both
// as map values and as aggregation bucket keys.
type Value struct {
	kind ValueKind
	str  string
	i    int64
	f    float64
	b    bool
	obj  any
}

func String(s string) Value {
	return Value{kind: KindString, str: s}
}

func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Object wraps an opaque reference. It renders via fmt and is bucketed
// by its rendering, so two objects with identical renderings group
// together.
func Object(obj any) Value {
	return Value{kind: KindObject, obj: obj}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

// String renders the value for reports.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindObject:
		return fmt.Sprintf("%v", v.obj)
	default:
		return "<invalid>"
	}
}

var kindPrefixes = [...]string{"s:", "i:", "f:", "b:", "o:"}

// Key is the bucketing identity of the value. The kind prefix keeps
// values of different types from colliding on rendering.
func (v Value) Key() string {
	return kindPrefixes[v.kind] + v.String()
}

// Equal reports whether two values share the same bucketing identity.
func (v Value) Equal(other Value) bool {
	return v.kind == other.kind && v.Key() == other.Key()
}

// DimensionMap maps dimension names to values. Keys are unique; the map
// carries no ordering. Rendering applies the canonical order instead.
type DimensionMap map[string]Value

// mergeDims unions finish and start dims. Start wins on key conflict.
func mergeDims(start, finish DimensionMap) DimensionMap {
	merged := make(DimensionMap, len(start)+len(finish))
	for k, v := range finish {
		merged[k] = v
	}
	for k, v := range start {
		merged[k] = v
	}
	return merged
}
