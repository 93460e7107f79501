package cachebench

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
)

// formatThroughput renders a bytes-per-second value with unit auto-scaling:
// anything at or above 1000 MB/s prints in GB/s, everything below in MB/s,
// both at two decimal places.
func formatThroughput(bps float64) string {
	mbs := bps / 1e6
	if mbs >= 1000 {
		return fmt.Sprintf("%8.2f GB/s", bps/1e9)
	}
	return fmt.Sprintf("%8.2f MB/s", mbs)
}

// WriteRow prints one tier's measurements as a single formatted line.
func WriteRow(w io.Writer, name string, res Result) {
	fmt.Fprintf(w, "%-8s  Read %s   Write %s   Copy %s   Latency %6.2f ns\n",
		name,
		formatThroughput(res.ReadBps),
		formatThroughput(res.WriteBps),
		formatThroughput(res.CopyBps),
		res.LatencyNs)
}

// WriteReport prints the introductory line followed by one row per tier.
func WriteReport(w io.Writer, rows []TierResult) {
	fmt.Fprintln(w, "Cache & Memory Benchmark")
	for _, row := range rows {
		WriteRow(w, row.Name, row.Result)
	}
}

// JSONReport is the machine-readable form of a single run. The sink value
// is included so the measured sums observably escape into program output.
type JSONReport struct {
	Timestamp time.Time    `json:"timestamp"`
	Config    Config       `json:"config"`
	Tiers     []TierResult `json:"tiers"`
	Sink      uint64       `json:"sink"`
}

// WriteJSONReport writes the run's rows to path as indented JSON.
func WriteJSONReport(path string, cfg Config, rows []TierResult, sink uint64) error {
	report := JSONReport{
		Timestamp: time.Now(),
		Config:    cfg,
		Tiers:     rows,
		Sink:      sink,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling report")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "writing report to %s", path)
	}
	return nil
}
