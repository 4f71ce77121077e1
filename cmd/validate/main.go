// Command validate performs data integrity checks on a detections dataset and
// runs the filter/aggregate pipeline over it to confirm the published
// aggregates stay consistent with the filtered view. When a SQLite copy is
// given, it also checks that both sources hold the same rows.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -csv data/mock/detections.csv \
//	  -sqlite data/mock/detections.db
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/google/go-cmp/cmp"

	"github.com/couchcryptid/wildfire-explorer/internal/adapter/dataset"
	"github.com/couchcryptid/wildfire-explorer/internal/adapter/sqlite"
	"github.com/couchcryptid/wildfire-explorer/internal/domain"
	"github.com/couchcryptid/wildfire-explorer/internal/pipeline"
)

// maxErrorsPerPhase caps the detail printed for a failing phase.
const maxErrorsPerPhase = 50

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "path to the detections CSV")
	dbPath := flag.String("sqlite", "", "optional path to a SQLite copy of the same detections")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*csvPath, *dbPath); code != 0 {
		os.Exit(code)
	}
}

func run(csvPath, dbPath string) int {
	ctx := context.Background()

	fmt.Println("=== Wildfire Dataset Validation ===")
	fmt.Println()

	tbl, err := dataset.LoadCSVFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load CSV: %v\n", err)
		return 1
	}
	rows, err := tbl.Detections(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read CSV rows: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateRows(rows),
		validateAggregates(ctx, tbl),
	}

	if dbPath != "" {
		store, err := sqlite.Open(ctx, dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: open SQLite: %v\n", err)
			return 1
		}
		defer store.Close()
		phases = append(phases, validateParity(ctx, rows, store))
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d\n", len(rows))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == maxErrorsPerPhase {
				fmt.Printf("  ... %d more\n", len(p.errors)-i)
				break
			}
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Row Integrity ──

func validateRows(rows []domain.Detection) *phase {
	p := &phase{name: "Phase 1: Row Integrity"}

	if len(rows) == 0 {
		p.errorf("dataset has no rows")
	}
	for i, d := range rows {
		line := i + 2
		if !d.Origin.Valid() {
			p.errorf("line %d: fire origin %d outside 0..3", line, d.Origin)
		}
		if !d.Time.Valid() {
			p.errorf("line %d: fire time %q is not D or N", line, d.Time)
		}
		if d.Month != int(d.Date.Month()) {
			p.errorf("line %d: month %d disagrees with date %s", line, d.Month, d.DayKey())
		}
		if d.Year != d.Date.Year() {
			p.errorf("line %d: year %d disagrees with date %s", line, d.Year, d.DayKey())
		}
		if math.Abs(d.Latitude) > 90 || math.Abs(d.Longitude) > 180 {
			p.errorf("line %d: coordinates (%g, %g) out of range", line, d.Latitude, d.Longitude)
		}
		if d.Brightness <= 0 || math.IsNaN(d.Brightness) {
			p.errorf("line %d: brightness %g is not positive", line, d.Brightness)
		}
	}
	return p
}

// ── Phase 2: Aggregate Consistency ──
// Runs the default selection and each single-origin selection through the
// pipeline and checks the outputs agree with each other.

func validateAggregates(ctx context.Context, ds pipeline.Dataset) *phase {
	p := &phase{name: "Phase 2: Aggregate Consistency"}

	base := domain.DefaultFilterState()
	all, ok := aggregate(ctx, p, ds, base)
	if !ok {
		return p
	}
	checkTotals(p, "default", all)

	perOrigin := 0
	for _, o := range domain.Origins {
		fs := base.Clone()
		if err := fs.Set(domain.DimOrigins, []string{fmt.Sprint(int(o))}); err != nil {
			p.errorf("origin %d: %v", o, err)
			continue
		}
		agg, ok := aggregate(ctx, p, ds, fs)
		if !ok {
			continue
		}
		checkTotals(p, o.Label(), agg)
		perOrigin += agg.Count
	}
	if perOrigin != all.Count {
		p.errorf("per-origin counts sum to %d, default selection has %d", perOrigin, all.Count)
	}

	// A months-only selection leaves the temporal gate closed.
	fs := base.Clone()
	if err := fs.Set(domain.DimMonths, []string{"1"}); err != nil {
		p.errorf("months: %v", err)
		return p
	}
	if gated, ok := aggregate(ctx, p, ds, fs); ok {
		if diff := cmp.Diff(all, gated); diff != "" {
			p.errorf("months-only selection changed the result:\n%s", diff)
		}
	}
	return p
}

func aggregate(ctx context.Context, p *phase, ds pipeline.Dataset, fs domain.FilterState) (pipeline.Aggregates, bool) {
	view, err := pipeline.Filter(ctx, ds, domain.BuildPredicate(fs))
	if err != nil {
		p.errorf("filter: %v", err)
		return pipeline.Aggregates{}, false
	}
	return pipeline.Aggregate(view), true
}

func checkTotals(p *phase, label string, agg pipeline.Aggregates) {
	series := 0
	for i, s := range agg.Series {
		series += s.Detections
		if i > 0 {
			prev := agg.Series[i-1]
			if prev.Date > s.Date || (prev.Date == s.Date && prev.Origin >= s.Origin) {
				p.errorf("%s: series out of order at %s/%d", label, s.Date, s.Origin)
			}
		}
	}
	if series != agg.Count {
		p.errorf("%s: series detections sum to %d, count is %d", label, series, agg.Count)
	}

	points := 0
	for _, f := range agg.Frames {
		points += len(f.Points)
	}
	if points != agg.Count {
		p.errorf("%s: frames hold %d points, count is %d", label, points, agg.Count)
	}
}

// ── Phase 3: Source Parity ──

func validateParity(ctx context.Context, rows []domain.Detection, store *sqlite.Store) *phase {
	p := &phase{name: "Phase 3: Source Parity (CSV vs SQLite)"}

	stored, err := store.Detections(ctx)
	if err != nil {
		p.errorf("read SQLite: %v", err)
		return p
	}
	if len(stored) != len(rows) {
		p.errorf("CSV has %d rows, SQLite has %d", len(rows), len(stored))
		return p
	}
	for i := range rows {
		if diff := cmp.Diff(rows[i], stored[i]); diff != "" {
			p.errorf("row %d differs (-csv +sqlite):\n%s", i+1, diff)
		}
	}
	return p
}
