// Package pprofexport converts correlation results into pprof profiles
// so they can be inspected with standard pprof tooling.
package pprofexport

import (
	"time"

	"github.com/google/pprof/profile"

	"github.com/dimtrace/dimtrace/pkg/profiling"
	"github.com/dimtrace/dimtrace/pkg/profiling/report"
)

type builder struct {
	profile   *profile.Profile
	locations map[string]*profile.Location
	labelDim  string
}

// Build produces a pprof profile with one self-time sample per record.
// Sample stacks follow the record forest, with frames labeled by the
// record's value at labelDim.
func Build(res *profiling.Result, labelDim string) *profile.Profile {
	b := &builder{
		profile: &profile.Profile{
			SampleType: []*profile.ValueType{
				{Type: "self", Unit: "nanoseconds"},
			},
			TimeNanos:     time.Now().UnixNano(),
			DurationNanos: res.Total.Nanoseconds(),
		},
		locations: make(map[string]*profile.Location),
		labelDim:  labelDim,
	}
	for _, root := range res.Roots() {
		b.addRecord(root, nil)
	}
	return b.profile
}

// addRecord appends one sample for rec. pprof stacks are leaf-first, so
// the record's own frame goes in front of the ancestor chain.
func (b *builder) addRecord(rec *profiling.Record, ancestors []*profile.Location) {
	loc := b.location(report.DefaultLookup(rec, b.labelDim).String())

	stack := make([]*profile.Location, 0, len(ancestors)+1)
	stack = append(stack, loc)
	stack = append(stack, ancestors...)

	b.profile.Sample = append(b.profile.Sample, &profile.Sample{
		Location: stack,
		Value:    []int64{rec.SelfTime.Nanoseconds()},
	})
	for _, child := range rec.Direct {
		b.addRecord(child, stack)
	}
}

func (b *builder) location(name string) *profile.Location {
	if loc, ok := b.locations[name]; ok {
		return loc
	}
	fn := &profile.Function{
		ID:         uint64(len(b.profile.Function) + 1),
		Name:       name,
		SystemName: name,
	}
	b.profile.Function = append(b.profile.Function, fn)

	loc := &profile.Location{
		ID:   uint64(len(b.profile.Location) + 1),
		Line: []profile.Line{{Function: fn}},
	}
	b.profile.Location = append(b.profile.Location, loc)
	b.locations[name] = loc
	return loc
}
