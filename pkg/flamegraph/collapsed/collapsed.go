package collapsed

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dimtrace/dimtrace/pkg/profiling"
	"github.com/dimtrace/dimtrace/pkg/profiling/report"
)

// Sample is one collapsed flamegraph line: a root-first label stack and
// a weight.
type Sample struct {
	Stack []string
	Value int64
}

type Profile struct {
	Samples []Sample
}

// FromResult flattens a correlation result into collapsed stacks. Each
// record contributes one sample labeled by its value at labelDim along
// its ancestor chain, weighted by self time in nanoseconds.
func FromResult(res *profiling.Result, labelDim string) *Profile {
	p := &Profile{Samples: make([]Sample, 0, len(res.Records))}
	for _, root := range res.Roots() {
		p.collect(root, nil, labelDim)
	}
	return p
}

func (p *Profile) collect(rec *profiling.Record, prefix []string, labelDim string) {
	stack := make([]string, len(prefix)+1)
	copy(stack, prefix)
	stack[len(prefix)] = report.DefaultLookup(rec, labelDim).String()
	p.Samples = append(p.Samples, Sample{Stack: stack, Value: rec.SelfTime.Nanoseconds()})
	for _, child := range rec.Direct {
		p.collect(child, stack, labelDim)
	}
}

func Decode(r io.Reader) (*Profile, error) {
	res := &Profile{
		Samples: make([]Sample, 0),
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		idx := strings.LastIndexByte(line, ' ')
		if idx == -1 {
			return nil, errors.New("collapsed: malformed input")
		}
		value, err := strconv.ParseInt(line[idx+1:], 0, 64)
		if err != nil {
			return nil, fmt.Errorf("collapsed: malformed input: %w", err)
		}
		res.Samples = append(res.Samples, Sample{
			Stack: strings.Split(line[:idx], ";"),
			Value: value,
		})
	}

	return res, scanner.Err()
}

func Encode(profile *Profile, w io.Writer) error {
	for _, sample := range profile.Samples {
		_, err := fmt.Fprintf(w, "%s %d\n", strings.Join(sample.Stack, ";"), sample.Value)
		if err != nil {
			return err
		}
	}
	return nil
}

func Unmarshal(buf []byte) (*Profile, error) {
	return Decode(bytes.NewBuffer(buf))
}

func Marshal(profile *Profile) ([]byte, error) {
	buf := new(bytes.Buffer)
	err := Encode(profile, buf)
	return buf.Bytes(), err
}
