// Command genmock writes a deterministic wildfire detections fixture for local
// runs and tests. The same seed always yields the same rows, so counts printed
// at the end can be pasted into test assertions.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out data/mock/detections.csv \
//	  -sqlite data/mock/detections.db \
//	  -days 60 -per-day 40
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/wildfire-explorer/internal/adapter/sqlite"
	"github.com/couchcryptid/wildfire-explorer/internal/domain"
)

// region is a lat/lng box detections are scattered in.
type region struct {
	name                     string
	south, west, north, east float64
	origin                   domain.FireOrigin
}

var regions = []region{
	{name: "llanos", south: 3.5, west: -72.5, north: 6.5, east: -67.5, origin: domain.OriginVegetation},
	{name: "amazonia", south: -1.5, west: -75.5, north: 2.0, east: -70.0, origin: domain.OriginVegetation},
	{name: "ruiz", south: 4.85, west: -75.37, north: 4.93, east: -75.27, origin: domain.OriginVolcano},
	{name: "cerrejon", south: 10.9, west: -72.8, north: 11.2, east: -72.4, origin: domain.OriginStaticLand},
	{name: "caribbean", south: 10.5, west: -76.5, north: 12.0, east: -75.0, origin: domain.OriginOffshore},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the detections CSV")
	dbOut := flag.String("sqlite", "", "optional output path for a SQLite copy of the fixture")
	days := flag.Int("days", 60, "number of consecutive days to generate")
	perDay := flag.Int("per-day", 40, "detections per day")
	seed := flag.Int64("seed", 20220201, "random seed")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	// Fixed clock so the date range is reproducible.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2022, time.February, 1, 0, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	rows := generate(rand.New(rand.NewSource(*seed)), domain.Clock().Now(), *days, *perDay)
	log.Printf("generated %d detections over %d days", len(rows), *days)

	if err := writeCSV(*out, rows); err != nil {
		return fmt.Errorf("writing CSV fixture: %w", err)
	}
	log.Printf("wrote CSV fixture: %s", *out)

	if *dbOut != "" {
		if err := writeSQLite(*dbOut, rows); err != nil {
			return fmt.Errorf("writing SQLite fixture: %w", err)
		}
		log.Printf("wrote SQLite fixture: %s", *dbOut)
	}

	printStats(rows)
	return nil
}

func generate(rng *rand.Rand, start time.Time, days, perDay int) []domain.Detection {
	rows := make([]domain.Detection, 0, days*perDay)
	for d := 0; d < days; d++ {
		day := start.AddDate(0, 0, d)
		for i := 0; i < perDay; i++ {
			r := regions[rng.Intn(len(regions))]
			origin := r.origin
			// Roughly one detection in ten reports another origin than its box.
			if rng.Intn(10) == 0 {
				origin = domain.Origins[rng.Intn(len(domain.Origins))]
			}
			fireTime := domain.TimeDay
			if rng.Intn(3) == 0 {
				fireTime = domain.TimeNight
			}
			rows = append(rows, domain.Detection{
				Date:       day,
				Latitude:   round(r.south+rng.Float64()*(r.north-r.south), 4),
				Longitude:  round(r.west+rng.Float64()*(r.east-r.west), 4),
				Brightness: round(295+rng.Float64()*80, 1),
				Origin:     origin,
				Time:       fireTime,
				Month:      int(day.Month()),
				Year:       day.Year(),
			})
		}
	}
	return rows
}

func round(v float64, places int) float64 {
	s := strconv.FormatFloat(v, 'f', places, 64)
	r, _ := strconv.ParseFloat(s, 64)
	return r
}

func writeCSV(path string, rows []domain.Detection) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "latitude", "longitude", "brightness", "fire_origin", "fire_time", "month", "year"}); err != nil {
		return err
	}
	for _, d := range rows {
		rec := []string{
			d.DayKey(),
			strconv.FormatFloat(d.Latitude, 'f', -1, 64),
			strconv.FormatFloat(d.Longitude, 'f', -1, 64),
			strconv.FormatFloat(d.Brightness, 'f', -1, 64),
			strconv.Itoa(int(d.Origin)),
			string(d.Time),
			strconv.Itoa(d.Month),
			strconv.Itoa(d.Year),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeSQLite(path string, rows []domain.Detection) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}

	ctx := context.Background()
	store, err := sqlite.Open(ctx, path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return err
	}
	return store.Insert(ctx, rows)
}

func printStats(rows []domain.Detection) {
	byOrigin := map[domain.FireOrigin]int{}
	byTime := map[domain.FireTime]int{}
	byMonth := map[string]int{}
	for _, d := range rows {
		byOrigin[d.Origin]++
		byTime[d.Time]++
		byMonth[fmt.Sprintf("%04d-%02d", d.Year, d.Month)]++
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(rows))
	for _, o := range domain.Origins {
		fmt.Printf("  %-32s %d\n", o.Label(), byOrigin[o])
	}
	fmt.Printf("Day=%d Night=%d\n", byTime[domain.TimeDay], byTime[domain.TimeNight])

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)
	for _, m := range months {
		fmt.Printf("  %s: %d\n", m, byMonth[m])
	}
}
