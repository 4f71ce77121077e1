package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-day format used on the wire and in datasets.
const DateLayout = "2006-01-02"

// FireOrigin is the FIRMS inferred hot spot type.
type FireOrigin int

const (
	OriginVegetation FireOrigin = iota
	OriginVolcano
	OriginStaticLand
	OriginOffshore
)

// Origins lists every fire origin in enumeration order.
var Origins = []FireOrigin{OriginVegetation, OriginVolcano, OriginStaticLand, OriginOffshore}

var originLabels = map[FireOrigin]string{
	OriginVegetation: "Presumed vegetation fire (0)",
	OriginVolcano:    "Active volcano (1)",
	OriginStaticLand: "Other static land source (2)",
	OriginOffshore:   "Offshore (3)",
}

// Valid reports whether o is one of the four known codes.
func (o FireOrigin) Valid() bool {
	_, ok := originLabels[o]
	return ok
}

// Label returns the human-readable name, or the bare code for unknown values.
func (o FireOrigin) Label() string {
	if l, ok := originLabels[o]; ok {
		return l
	}
	return strconv.Itoa(int(o))
}

// FireTime is the day/night flag of the satellite overpass.
type FireTime string

const (
	TimeDay   FireTime = "D"
	TimeNight FireTime = "N"
)

// Times lists every fire time in display order.
var Times = []FireTime{TimeDay, TimeNight}

var timeLabels = map[FireTime]string{
	TimeDay:   "Day time fire (D)",
	TimeNight: "Night time fire (N)",
}

// Valid reports whether t is D or N.
func (t FireTime) Valid() bool {
	_, ok := timeLabels[t]
	return ok
}

// Label returns the human-readable name, or the raw flag for unknown values.
func (t FireTime) Label() string {
	if l, ok := timeLabels[t]; ok {
		return l
	}
	return string(t)
}

// Detection is one normalized hotspot row. Every field is populated.
type Detection struct {
	Date       time.Time  `json:"date"`
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	Brightness float64    `json:"brightness"`
	Origin     FireOrigin `json:"fire_origin"`
	Time       FireTime   `json:"fire_time"`
	Month      int        `json:"month"`
	Year       int        `json:"year"`
}

// DayKey returns the detection's calendar day as YYYY-MM-DD.
func (d Detection) DayKey() string {
	return d.Date.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD acquisition date as a UTC calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// ParseMonth accepts 1–12 or an English month name or abbreviation.
func ParseMonth(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	for m := time.January; m <= time.December; m++ {
		name := m.String()
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:3]) {
			return int(m), nil
		}
	}
	return 0, fmt.Errorf("unknown month %q", s)
}
