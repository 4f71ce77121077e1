package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/wildfire-explorer/internal/domain"
)

// columnAliases maps each field to the header names accepted for it. The first
// alias is the canonical name written by genmock; the rest are FIRMS archive names.
var columnAliases = map[string][]string{
	"date":        {"date", "acq_date"},
	"latitude":    {"latitude"},
	"longitude":   {"longitude"},
	"brightness":  {"brightness"},
	"fire_origin": {"fire_origin", "fire origin", "type"},
	"fire_time":   {"fire_time", "fire time", "daynight"},
	"month":       {"month"},
	"year":        {"year"},
}

var requiredColumns = []string{"date", "latitude", "longitude", "brightness", "fire_origin", "fire_time"}

// LoadCSVFile opens path and loads it with LoadCSV.
func LoadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return LoadCSV(f)
}

// LoadCSV reads a detections CSV and normalizes it once: a blank fire origin is
// replaced by the table's modal origin, and month/year are derived from the
// date when their columns are missing or blank.
func LoadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var (
		rows       []domain.Detection
		unresolved []int
		originFreq = make(map[domain.FireOrigin]int)
	)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		d, hasOrigin, err := parseRecord(rec, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if hasOrigin {
			originFreq[d.Origin]++
		} else {
			unresolved = append(unresolved, len(rows))
		}
		rows = append(rows, d)
	}

	if len(unresolved) > 0 {
		modal := modalOrigin(originFreq)
		for _, i := range unresolved {
			rows[i].Origin = modal
		}
	}
	return &Table{rows: rows}, nil
}

func resolveColumns(header []string) (map[string]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.ToLower(strings.TrimSpace(h))] = i
	}

	idx := make(map[string]int, len(columnAliases))
	for field, aliases := range columnAliases {
		for _, a := range aliases {
			if i, ok := pos[a]; ok {
				idx[field] = i
				break
			}
		}
	}
	for _, field := range requiredColumns {
		if _, ok := idx[field]; !ok {
			return nil, fmt.Errorf("missing column %q", field)
		}
	}
	return idx, nil
}

func parseRecord(rec []string, idx map[string]int) (domain.Detection, bool, error) {
	field := func(name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	date, err := domain.ParseDate(field("date"))
	if err != nil {
		return domain.Detection{}, false, err
	}
	lat, err := strconv.ParseFloat(field("latitude"), 64)
	if err != nil {
		return domain.Detection{}, false, fmt.Errorf("latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(field("longitude"), 64)
	if err != nil {
		return domain.Detection{}, false, fmt.Errorf("longitude: %w", err)
	}
	brightness, err := strconv.ParseFloat(field("brightness"), 64)
	if err != nil {
		return domain.Detection{}, false, fmt.Errorf("brightness: %w", err)
	}

	d := domain.Detection{
		Date:       date,
		Latitude:   lat,
		Longitude:  lon,
		Brightness: brightness,
		Time:       domain.FireTime(strings.ToUpper(field("fire_time"))),
		Month:      int(date.Month()),
		Year:       date.Year(),
	}

	hasOrigin := false
	if s := field("fire_origin"); s != "" {
		// Pandas exports integer columns with NaN as floats ("2.0").
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return domain.Detection{}, false, fmt.Errorf("fire_origin: %w", err)
		}
		d.Origin = domain.FireOrigin(int(f))
		hasOrigin = true
	}
	if s := field("month"); s != "" {
		if d.Month, err = domain.ParseMonth(s); err != nil {
			return domain.Detection{}, false, err
		}
	}
	if s := field("year"); s != "" {
		if d.Year, err = strconv.Atoi(s); err != nil {
			return domain.Detection{}, false, fmt.Errorf("year: %w", err)
		}
	}
	return d, hasOrigin, nil
}

// modalOrigin returns the most frequent origin, preferring the lowest code on ties.
func modalOrigin(freq map[domain.FireOrigin]int) domain.FireOrigin {
	best, bestN := domain.OriginVegetation, -1
	for _, o := range domain.Origins {
		if freq[o] > bestN {
			best, bestN = o, freq[o]
		}
	}
	return best
}
