// Package repl drives a bound report function from a line source:
// every line is a comma-separated dimension list, ":q" quits.
package repl

import (
	"bufio"
	"fmt"
	"io"

	"github.com/dimtrace/dimtrace/pkg/profiling"
)

const quit = ":q"

// Run prompts on w, reads dimension lists from r and invokes report for
// each until the quit sentinel or EOF.
func Run(r io.Reader, w io.Writer, report func(dims []string)) error {
	scanner := bufio.NewScanner(r)
	for {
		if _, err := fmt.Fprint(w, "dims> "); err != nil {
			return err
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := scanner.Text()
		if line == quit {
			return nil
		}
		report(profiling.ParseDims(line))
	}
}
