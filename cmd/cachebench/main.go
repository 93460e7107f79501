// Command cachebench measures memory hierarchy performance: sequential
// read, write, and copy bandwidth plus random-access latency for caller
// supplied L1, L2, L3, and main-memory working-set sizes.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/LynnColeArt/cachebench"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := cachebench.ParseFlags("cachebench", args)
	if err != nil {
		if err != flag.ErrHelp {
			fmt.Fprintf(stderr, "cachebench: %v\n", err)
		}
		usage(stderr)
		return 1
	}

	runner, err := cachebench.NewRunner(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "cachebench: %v\n", err)
		return 1
	}

	if cfg.CPUInfo {
		cachebench.WriteHostInfo(stdout)
	}

	rows := runner.Run()
	cachebench.WriteReport(stdout, rows)

	if cfg.JSONPath != "" {
		if err := cachebench.WriteJSONReport(cfg.JSONPath, cfg, rows, runner.SinkValue()); err != nil {
			fmt.Fprintf(stderr, "cachebench: %v\n", err)
			return 1
		}
	}

	// The sink has to stay observable or the timed loops become dead code.
	if runner.SinkValue() == 0xDEADBEEF {
		fmt.Fprintln(stderr, "sink")
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cachebench [--iters N] [--stride B] [--l1KB N] [--l2KB N] [--l3KB N] [--memKB N] [--quick] [--cpuinfo] [--json FILE]")
}
