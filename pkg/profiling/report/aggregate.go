package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/dimtrace/dimtrace/pkg/profiling"
)

// LookupFunc resolves a record's value at a named dimension. Lookups
// never fail: missing dimensions must yield a placeholder value that
// aggregates and renders like any other.
type LookupFunc func(*profiling.Record, string) profiling.Value

// DefaultLookup reads the record's merged dimension map and falls back
// to a descriptive placeholder when the dimension is absent.
func DefaultLookup(rec *profiling.Record, dim string) profiling.Value {
	if v, ok := rec.Dims[dim]; ok {
		return v
	}
	return profiling.String(fmt.Sprintf("<no %q dimension in %s>", dim, profiling.FormatDims(rec.Dims)))
}

// Bucket groups the records sharing one value at the grouping
// dimension. DescTime charges each descendant's self time at most once
// per bucket, so two ancestors in the same bucket cannot both claim the
// same descendant.
type Bucket struct {
	Key      profiling.Value
	Members  []*profiling.Record
	Count    int
	SelfTime time.Duration
	DescTime time.Duration

	charged map[*profiling.Record]struct{}
}

// Time is the bucket's aggregate: self plus deduplicated descendant
// time.
func (b *Bucket) Time() time.Duration {
	return b.SelfTime + b.DescTime
}

// Aggregate groups records by their value at dim. Buckets are sorted
// descending by aggregate time; ties keep first-encounter order. Only
// buckets with directly assigned records appear.
func Aggregate(records []*profiling.Record, dim string, lookup LookupFunc) []*Bucket {
	if lookup == nil {
		lookup = DefaultLookup
	}

	var buckets []*Bucket
	index := make(map[string]*Bucket)
	get := func(v profiling.Value) *Bucket {
		key := v.Key()
		if b, ok := index[key]; ok {
			return b
		}
		b := &Bucket{Key: v, charged: make(map[*profiling.Record]struct{})}
		index[key] = b
		buckets = append(buckets, b)
		return b
	}

	for _, rec := range records {
		v := lookup(rec, dim)
		b := get(v)
		b.Members = append(b.Members, rec)
		b.Count++
		b.SelfTime += rec.SelfTime

		key := v.Key()
		for _, d := range rec.All {
			if lookup(d, dim).Key() == key {
				continue
			}
			if _, done := b.charged[d]; done {
				continue
			}
			b.charged[d] = struct{}{}
			b.DescTime += d.SelfTime
		}
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Time() > buckets[j].Time()
	})
	return buckets
}

// Table is one rendered grouping: the buckets of a single dimension
// over some record set. Nested drill-down tables carry a label built
// from the enclosing bucket values.
type Table struct {
	Label   string
	Dim     string
	Buckets []*Bucket
}

// Tables aggregates records by each dimension in turn: one table for
// the first dimension, then for every bucket one nested table per
// remaining dimension over that bucket's members. The result is in
// depth-first order, the order tables are printed.
func Tables(records []*profiling.Record, dims []string, lookup LookupFunc) []*Table {
	return subTables(records, dims, lookup, "")
}

func subTables(records []*profiling.Record, dims []string, lookup LookupFunc, label string) []*Table {
	if len(dims) == 0 {
		return nil
	}
	buckets := Aggregate(records, dims[0], lookup)
	out := []*Table{{Label: label, Dim: dims[0], Buckets: buckets}}
	if len(dims) == 1 {
		return out
	}
	for _, b := range buckets {
		sub := b.Key.String()
		if label != "" {
			sub = label + " and " + sub
		}
		out = append(out, subTables(b.Members, dims[1:], lookup, sub)...)
	}
	return out
}
