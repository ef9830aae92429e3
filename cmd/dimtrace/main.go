package main

import (
	"github.com/dimtrace/dimtrace/internal/cli"
)

func main() {
	cli.Execute()
}
