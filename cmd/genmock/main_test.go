package main

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_RowsFallInsideColombia(t *testing.T) {
	start := time.Date(2022, time.February, 1, 0, 0, 0, 0, time.UTC)
	rows := generate(rand.New(rand.NewSource(1)), start, 3, 50)
	require.Len(t, rows, 150)

	for _, d := range rows {
		assert.True(t, d.Latitude >= -4.3 && d.Latitude <= 13.5, "latitude %g", d.Latitude)
		assert.True(t, d.Longitude >= -82 && d.Longitude <= -66.8, "longitude %g", d.Longitude)
		assert.True(t, d.Origin.Valid())
		assert.True(t, d.Time.Valid())
		assert.Equal(t, int(d.Date.Month()), d.Month)
		assert.Equal(t, d.Date.Year(), d.Year)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	start := time.Date(2022, time.February, 1, 0, 0, 0, 0, time.UTC)
	a := generate(rand.New(rand.NewSource(7)), start, 2, 10)
	b := generate(rand.New(rand.NewSource(7)), start, 2, 10)
	assert.Equal(t, a, b)
	assert.Equal(t, "2022-02-02", a[len(a)-1].DayKey())
}
