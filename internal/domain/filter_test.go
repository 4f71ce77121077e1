package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDimension(t *testing.T) {
	d, err := ParseDimension(" Months ")
	require.NoError(t, err)
	assert.Equal(t, DimMonths, d)

	_, err = ParseDimension("colour")
	require.ErrorIs(t, err, ErrUnknownDimension)
}

func TestDefaultFilterState(t *testing.T) {
	sel := DefaultFilterState().Selection()

	assert.Equal(t, []FireOrigin{0, 1, 2, 3}, sel.Origins)
	assert.Equal(t, []FireTime{TimeDay, TimeNight}, sel.Times)
	assert.Nil(t, sel.Months)
	assert.Nil(t, sel.Years)
}

func TestFilterState_Set(t *testing.T) {
	t.Run("replaces rather than merges", func(t *testing.T) {
		fs := DefaultFilterState()
		require.NoError(t, fs.Set(DimOrigins, []string{"1", "3"}))
		assert.Equal(t, []FireOrigin{1, 3}, fs.Selection().Origins)
	})

	t.Run("normalizes fire time case", func(t *testing.T) {
		fs := DefaultFilterState()
		require.NoError(t, fs.Set(DimTimes, []string{"n"}))
		assert.Equal(t, []FireTime{TimeNight}, fs.Selection().Times)
	})

	t.Run("month names", func(t *testing.T) {
		fs := DefaultFilterState()
		require.NoError(t, fs.Set(DimMonths, []string{"Feb", "december", "7"}))
		assert.Equal(t, []int{2, 7, 12}, fs.Selection().Months)
	})

	t.Run("empty months means absent", func(t *testing.T) {
		fs := DefaultFilterState()
		require.NoError(t, fs.Set(DimMonths, []string{}))
		assert.Nil(t, fs.Months)
	})

	t.Run("empty origins stays present", func(t *testing.T) {
		fs := DefaultFilterState()
		require.NoError(t, fs.Set(DimOrigins, nil))
		assert.Equal(t, []FireOrigin{}, fs.Selection().Origins)
	})

	t.Run("unknown dimension", func(t *testing.T) {
		fs := DefaultFilterState()
		err := fs.Set(Dimension("colour"), []string{"red"})
		require.ErrorIs(t, err, ErrUnknownDimension)
	})
}

func TestFilterState_CloneIsDeep(t *testing.T) {
	fs := DefaultFilterState()
	clone := fs.Clone()
	delete(fs.Origins, OriginVegetation)

	assert.Len(t, clone.Origins, 4)
}

func TestParseMonth(t *testing.T) {
	cases := map[string]int{"1": 1, "Jan": 1, "SEPTEMBER": 9, " oct ": 10}
	for in, want := range cases {
		got, err := ParseMonth(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseMonth("Smarch")
	assert.Error(t, err)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Offshore (3)", OriginOffshore.Label())
	assert.Equal(t, "9", FireOrigin(9).Label())
	assert.False(t, FireOrigin(9).Valid())
	assert.Equal(t, "Night time fire (N)", TimeNight.Label())
	assert.False(t, FireTime("X").Valid())
}
