package pipeline

import (
	"cmp"
	"slices"

	"github.com/couchcryptid/wildfire-explorer/internal/domain"
)

// Aggregates are the three artifacts derived from one filtered view.
type Aggregates struct {
	Count  int
	Series []domain.SeriesPoint
	Frames []domain.Frame
}

type seriesKey struct {
	day    string
	origin domain.FireOrigin
}

type seriesAcc struct {
	sum float64
	n   int
}

// Aggregate derives the count, the per-(date, origin) mean brightness series,
// and the per-date map frames from a view. Output order depends only on the
// keys: series by date then origin code, frames by date. Sums accumulate in
// view order so identical views give identical means.
func Aggregate(view View) Aggregates {
	groups := make(map[seriesKey]*seriesAcc)
	frames := make(map[string][]domain.FramePoint)

	for _, d := range view.Rows {
		day := d.DayKey()

		k := seriesKey{day: day, origin: d.Origin}
		acc, ok := groups[k]
		if !ok {
			acc = &seriesAcc{}
			groups[k] = acc
		}
		acc.sum += d.Brightness
		acc.n++

		frames[day] = append(frames[day], domain.FramePoint{
			Latitude:   d.Latitude,
			Longitude:  d.Longitude,
			Brightness: d.Brightness,
			Origin:     d.Origin,
			Time:       d.Time,
		})
	}

	keys := make([]seriesKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b seriesKey) int {
		if c := cmp.Compare(a.day, b.day); c != 0 {
			return c
		}
		return cmp.Compare(a.origin, b.origin)
	})

	series := make([]domain.SeriesPoint, 0, len(keys))
	for _, k := range keys {
		acc := groups[k]
		series = append(series, domain.SeriesPoint{
			Date:           k.day,
			Origin:         k.origin,
			OriginLabel:    k.origin.Label(),
			MeanBrightness: acc.sum / float64(acc.n),
			Detections:     acc.n,
		})
	}

	days := make([]string, 0, len(frames))
	for day := range frames {
		days = append(days, day)
	}
	slices.Sort(days)

	out := make([]domain.Frame, 0, len(days))
	for _, day := range days {
		points := frames[day]
		out = append(out, domain.Frame{
			Date:   day,
			Points: points,
			Bounds: domain.BoundsOf(points),
		})
	}

	return Aggregates{
		Count:  len(view.Rows),
		Series: series,
		Frames: out,
	}
}
