// Command validate performs offline integrity checks on a persisted
// observation CSV: decoding and schema, per-unit row completeness, timestamp
// contiguity, calm-cell placement, and optionally agreement with the station
// registry.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -csv data/hourly_data/hourly_2023-08-10_2023-08-11.csv \
//	  -stations data/stations_information/stations.csv
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/amedas-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/amedas-etl/internal/domain"
	"github.com/couchcryptid/amedas-etl/internal/stations"
)

func main() {
	csvPath := flag.String("csv", "", "path to an observation CSV")
	stationsPath := flag.String("stations", "", "optional station registry CSV to cross-check")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(os.Stdout, *csvPath, *stationsPath))
}

func run(w io.Writer, csvPath, stationsPath string) int {
	fmt.Fprintln(w, "=== AMeDAS Observation CSV Validation ===")
	fmt.Fprintln(w)

	var reg *stations.Registry
	if stationsPath != "" {
		records, err := stations.ReadCSV(stationsPath)
		if err == nil {
			reg, err = stations.NewRegistry(records)
		}
		if err != nil {
			fmt.Fprintf(w, "FATAL: load station registry: %v\n", err)
			return 1
		}
	}

	decode := &phase{name: "Decoding and canonical schema"}
	t, err := csvfile.Read(csvPath)
	if err != nil {
		decode.errorf("%v", err)
		return report(w, []*phase{decode}, nil)
	}

	phases := []*phase{
		decode,
		validateUnitCompleteness(t),
		validateContiguity(t),
		validateCalmPlacement(t),
	}
	if reg != nil {
		phases = append(phases, validateRegistry(t, reg))
	}
	return report(w, phases, t)
}

func report(w io.Writer, phases []*phase, t *domain.Table) int {
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	if t != nil {
		s := summarize(t)
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Table: %s, %d rows, %d stations, %d columns\n", t.Cadence, t.NumRows(), s.stations, t.NumCols())
		fmt.Fprintf(w, "Cells: %d valid, %d calm, %d missing (%.1f%%)\n", s.valid, s.calm, s.missing, s.missingPct())
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}
