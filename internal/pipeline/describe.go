package pipeline

import (
	"context"
	"fmt"
	"slices"

	"github.com/couchcryptid/wildfire-explorer/internal/domain"
)

// Option is one selectable value with its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// DomainInfo lists the values an analyst can select per dimension.
type DomainInfo struct {
	Origins []Option `json:"origins"`
	Times   []Option `json:"times"`
	Months  []int    `json:"months"`
	Years   []int    `json:"years"`
	Rows    int      `json:"rows"`
}

// Describe scans the dataset for the distinct values present in each dimension.
func Describe(ctx context.Context, ds Dataset) (DomainInfo, error) {
	rows, err := ds.Detections(ctx)
	if err != nil {
		return DomainInfo{}, fmt.Errorf("%w: %w", ErrDatasetUnavailable, err)
	}

	origins := map[domain.FireOrigin]struct{}{}
	times := map[domain.FireTime]struct{}{}
	months := map[int]struct{}{}
	years := map[int]struct{}{}
	for _, d := range rows {
		origins[d.Origin] = struct{}{}
		times[d.Time] = struct{}{}
		months[d.Month] = struct{}{}
		years[d.Year] = struct{}{}
	}

	info := DomainInfo{
		Months: sortedInts(months),
		Years:  sortedInts(years),
		Rows:   len(rows),
	}
	for _, o := range domain.Origins {
		if _, ok := origins[o]; ok {
			info.Origins = append(info.Origins, Option{Value: fmt.Sprint(int(o)), Label: o.Label()})
		}
	}
	for _, t := range domain.Times {
		if _, ok := times[t]; ok {
			info.Times = append(info.Times, Option{Value: string(t), Label: t.Label()})
		}
	}
	return info, nil
}

func sortedInts(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
