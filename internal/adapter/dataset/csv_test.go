package dataset

import (
	"context"
	"strings"
	"testing"

	"github.com/couchcryptid/wildfire-explorer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const firmsExport = `latitude,longitude,brightness,acq_date,daynight,type
4.51,-74.10,300.5,2022-02-01,D,0
4.52,-74.11,310.0,2022-02-01,N,
6.20,-75.60,320.0,2022-02-02,D,1.0
3.10,-76.40,305.0,2022-03-15,n,0
`

func TestLoadCSV_FIRMSExport(t *testing.T) {
	tbl, err := LoadCSV(strings.NewReader(firmsExport))
	require.NoError(t, err)
	require.Equal(t, 4, tbl.Len())

	rows, err := tbl.Detections(context.Background())
	require.NoError(t, err)

	first := rows[0]
	assert.Equal(t, "2022-02-01", first.DayKey())
	assert.InDelta(t, 4.51, first.Latitude, 1e-9)
	assert.InDelta(t, -74.10, first.Longitude, 1e-9)
	assert.InDelta(t, 300.5, first.Brightness, 1e-9)
	assert.Equal(t, domain.OriginVegetation, first.Origin)
	assert.Equal(t, domain.TimeDay, first.Time)
	assert.Equal(t, 2, first.Month)
	assert.Equal(t, 2022, first.Year)

	assert.Equal(t, domain.OriginVolcano, rows[2].Origin, "float-encoded type")
	assert.Equal(t, domain.TimeNight, rows[3].Time, "daynight is upper-cased")
	assert.Equal(t, 3, rows[3].Month)
}

func TestLoadCSV_BlankOriginUsesModalOrigin(t *testing.T) {
	tbl, err := LoadCSV(strings.NewReader(firmsExport))
	require.NoError(t, err)

	rows, _ := tbl.Detections(context.Background())
	assert.Equal(t, domain.OriginVegetation, rows[1].Origin)
}

func TestLoadCSV_ExplicitCalendarColumns(t *testing.T) {
	data := `date,latitude,longitude,brightness,fire_origin,fire_time,month,year
2022-02-01,4.5,-74.1,300,2,D,Feb,2022
`
	tbl, err := LoadCSV(strings.NewReader(data))
	require.NoError(t, err)

	rows, _ := tbl.Detections(context.Background())
	require.Len(t, rows, 1)
	assert.Equal(t, domain.OriginStaticLand, rows[0].Origin)
	assert.Equal(t, 2, rows[0].Month)
	assert.Equal(t, 2022, rows[0].Year)
}

func TestLoadCSV_Errors(t *testing.T) {
	cases := map[string]string{
		"missing column": "date,latitude,longitude,brightness,fire_origin\n",
		"bad date":       "date,latitude,longitude,brightness,fire_origin,fire_time\n01/02/2022,1,1,300,0,D\n",
		"bad brightness": "date,latitude,longitude,brightness,fire_origin,fire_time\n2022-01-02,1,1,hot,0,D\n",
		"empty input":    "",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadCSV(strings.NewReader(data))
			assert.Error(t, err)
		})
	}
}

func TestLoadCSVFile_Missing(t *testing.T) {
	_, err := LoadCSVFile("testdata/does-not-exist.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open dataset")
}

func TestNewTable_CopiesRows(t *testing.T) {
	rows := []domain.Detection{{Brightness: 300}}
	tbl := NewTable(rows)
	rows[0].Brightness = 999

	got, _ := tbl.Detections(context.Background())
	assert.InDelta(t, 300.0, got[0].Brightness, 0)
}
