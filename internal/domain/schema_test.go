package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testPrimary   = StationRecord{Name: "練馬", EnName: "Nerima", PrecNo: "44", BlockNo: "0366"}
	testSecondary = StationRecord{Name: "東京", EnName: "Tokyo", PrecNo: "44", BlockNo: "47662"}
)

// rawFrame builds a frame whose cell text encodes its raw position, "c<col>r<row>".
func rawFrame(rows, cols int) Frame {
	cells := make([][]string, rows)
	for i := range cells {
		row := make([]string, cols)
		for j := range row {
			row[j] = fmt.Sprintf("c%dr%d", j, i)
		}
		cells[i] = row
	}
	return Frame{Cells: cells}
}

func elementsOf(keys []ColumnKey) []Element {
	out := make([]Element, len(keys))
	for i, k := range keys {
		out[i] = k.Element
	}
	return out
}

func TestLayouts_WellFormed(t *testing.T) {
	for _, c := range []Cadence{TenMinute, Hourly, Daily} {
		known := Layouts(c)
		require.Len(t, known, 2, c.String())
		for _, l := range known {
			require.NoError(t, l.check(c.Elements()))
			if l.Name != "daily_s1" {
				assert.False(t, l.Inserts() > 0 && l.Drops() > 0, "%s inserts and drops", l.Name)
			}
		}
	}
}

func TestResolve_CanonicalWidthAndOrder(t *testing.T) {
	cases := []struct {
		cadence Cadence
		raw     int
		station StationRecord
	}{
		{TenMinute, 10, testSecondary},
		{TenMinute, 8, testPrimary},
		{Hourly, 16, testSecondary},
		{Hourly, 10, testPrimary},
		{Daily, 20, testSecondary},
		{Daily, 17, testPrimary},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s_%d", tc.cadence, tc.raw), func(t *testing.T) {
			got, err := Resolve(rawFrame(3, tc.raw), tc.cadence, tc.station)
			require.NoError(t, err)

			assert.Equal(t, tc.cadence.Elements(), elementsOf(got.Keys))
			for _, k := range got.Keys {
				assert.Equal(t, tc.station.BlockNo, k.BlockNo)
				assert.Equal(t, tc.station.Label(), k.Station)
			}
			for _, row := range got.Cells {
				assert.Len(t, row, len(tc.cadence.Elements()))
			}
		})
	}
}

func TestResolve_HourlyReducedInsertsAtCanonicalPositions(t *testing.T) {
	got, err := Resolve(rawFrame(1, 10), Hourly, testPrimary)
	require.NoError(t, err)

	row := got.Cells[0]
	assert.Equal(t, MissingToken, row[0])  // station_pressure
	assert.Equal(t, MissingToken, row[1])  // sea_level_pressure
	assert.Equal(t, "c0r0", row[2])        // precipitation
	assert.Equal(t, "c7r0", row[9])        // sunshine_hours
	assert.Equal(t, MissingToken, row[10]) // global_solar_radiation
	assert.Equal(t, "c8r0", row[11])       // snow_fall
	assert.Equal(t, "c9r0", row[12])       // snow_depth
	assert.Equal(t, MissingToken, row[13]) // cloud_cover
	assert.Equal(t, MissingToken, row[14]) // visibility
}

func TestResolve_HourlyCompleteDropsWeatherColumn(t *testing.T) {
	got, err := Resolve(rawFrame(1, 16), Hourly, testSecondary)
	require.NoError(t, err)

	row := got.Cells[0]
	assert.Equal(t, "c12r0", row[12])
	assert.Equal(t, "c14r0", row[13])
	assert.Equal(t, "c15r0", row[14])
	assert.NotContains(t, row, "c13r0")
}

func TestResolve_DailyLayouts(t *testing.T) {
	t.Run("s1 inserts most frequent direction and drops weather summaries", func(t *testing.T) {
		got, err := Resolve(rawFrame(1, 20), Daily, testSecondary)
		require.NoError(t, err)

		row := got.Cells[0]
		require.Len(t, row, len(DailyElements))
		assert.Equal(t, MostFrequentWindDir, got.Keys[15].Element)
		assert.Equal(t, "c14r0", row[14]) // max_instantaneous_wd
		assert.Equal(t, MissingToken, row[15])
		assert.Equal(t, "c15r0", row[16]) // sunshine_hours
		assert.Equal(t, "c17r0", row[18]) // max_snow_depth
		assert.NotContains(t, row, "c18r0")
		assert.NotContains(t, row, "c19r0")
	})

	t.Run("21 columns is not a daily layout", func(t *testing.T) {
		_, err := Resolve(rawFrame(1, 21), Daily, testSecondary)
		require.ErrorIs(t, err, ErrSchema)
	})

	t.Run("reduced inserts mean pressures", func(t *testing.T) {
		got, err := Resolve(rawFrame(1, 17), Daily, testPrimary)
		require.NoError(t, err)
		assert.Equal(t, MissingToken, got.Cells[0][0])
		assert.Equal(t, MissingToken, got.Cells[0][1])
		assert.Equal(t, "c0r0", got.Cells[0][2])
		assert.Equal(t, "c16r0", got.Cells[0][18])
	})
}

func TestResolve_Idempotent(t *testing.T) {
	for _, c := range []Cadence{TenMinute, Hourly, Daily} {
		for _, l := range Layouts(c) {
			once, err := Resolve(rawFrame(2, l.RawColumns), c, testPrimary)
			require.NoError(t, err)
			twice, err := Resolve(once, c, testPrimary)
			require.NoError(t, err)
			assert.Equal(t, once, twice, l.Name)
		}
	}
}

func TestResolve_UnknownWidth(t *testing.T) {
	_, err := Resolve(rawFrame(1, 12), Hourly, testPrimary)
	require.ErrorIs(t, err, ErrSchema)
	assert.Contains(t, err.Error(), "12 columns")
}

func TestResolve_RaggedRows(t *testing.T) {
	f := rawFrame(2, 10)
	f.Cells[1] = f.Cells[1][:9]
	_, err := Resolve(f, Hourly, testPrimary)
	require.ErrorIs(t, err, ErrSchema)
}

func TestResolve_InvalidBlockNo(t *testing.T) {
	st := StationRecord{Name: "x", PrecNo: "44", BlockNo: "123"}
	_, err := Resolve(rawFrame(1, 10), Hourly, st)
	require.ErrorIs(t, err, ErrInvalidInput)
}
