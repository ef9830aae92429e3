package profiling

import (
	"runtime"
	"strings"
)

// ParseDims splits a comma-separated option value into dimension names.
// Empty input yields nil, never a single empty name.
func ParseDims(csv string) []string {
	if csv == "" {
		return nil
	}
	return strings.Split(csv, ",")
}

// Caller returns a string Value naming the calling function, for use as
// a "name" dimension at instrumentation sites.
func Caller() Value {
	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return String("<unknown caller>")
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return String("<unknown caller>")
	}
	name := fn.Name()
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		name = name[idx+1:]
	}
	return String(name)
}
