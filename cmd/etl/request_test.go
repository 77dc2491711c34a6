package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/amedas-etl/internal/domain"
	"github.com/couchcryptid/amedas-etl/internal/stations"
)

func jstDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, domain.JST)
}

func TestParseRequest_Hourly(t *testing.T) {
	r, err := parseRequest("hourly", "東京都, 46", "", "2023-08-11,2023-08-10,2023-08-10", "", "")
	require.NoError(t, err)

	assert.Equal(t, domain.Hourly, r.cadence)
	assert.Equal(t, []string{"44", "46"}, r.precNos)
	require.Len(t, r.units, 2)
	assert.True(t, r.units[0].Equal(jstDate(2023, time.August, 10)))
	assert.True(t, r.units[1].Equal(jstDate(2023, time.August, 11)))
}

func TestParseRequest_MonthsExpandToDays(t *testing.T) {
	r, err := parseRequest("10min", "", "0366", "", "2024-02", "")
	require.NoError(t, err)
	assert.Len(t, r.units, 29)
	assert.True(t, r.units[28].Equal(jstDate(2024, time.February, 29)))
}

func TestParseRequest_DailyFoldsToMonths(t *testing.T) {
	r, err := parseRequest("daily", "", "47662", "2023-01-15,2023-01-20", "2023-02", "")
	require.NoError(t, err)
	require.Len(t, r.units, 2)
	assert.True(t, r.units[0].Equal(jstDate(2023, time.January, 1)))
	assert.True(t, r.units[1].Equal(jstDate(2023, time.February, 1)))
}

func TestParseRequest_Errors(t *testing.T) {
	tests := []struct {
		name                                 string
		cadence, precs, blocks, dates, month string
		wantErr                              error
	}{
		{"bad cadence", "weekly", "44", "", "2023-08-10", "", domain.ErrInvalidInput},
		{"unknown prefecture", "hourly", "アトランティス", "", "2023-08-10", "", domain.ErrNotFound},
		{"no stations", "hourly", "", "", "2023-08-10", "", domain.ErrInvalidInput},
		{"no dates", "hourly", "44", "", "", "", domain.ErrInvalidInput},
		{"bad date", "hourly", "44", "", "2023-13-01", "", domain.ErrInvalidInput},
		{"bad month", "daily", "44", "", "", "2023/02", domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRequest(tt.cadence, tt.precs, tt.blocks, tt.dates, tt.month, "")
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSelectStations(t *testing.T) {
	reg, err := stations.NewRegistry([]domain.StationRecord{
		{Name: "東京", PrecNo: "44", BlockNo: "47662"},
		{Name: "練馬", PrecNo: "44", BlockNo: "0366"},
		{Name: "横浜", PrecNo: "46", BlockNo: "47670"},
	})
	require.NoError(t, err)

	r := request{precNos: []string{"44"}, blockNos: []string{"47670", "0366"}}
	got, err := r.selectStations(reg)
	require.NoError(t, err)

	blocks := make([]string, len(got))
	for i, st := range got {
		blocks[i] = st.BlockNo
	}
	assert.Equal(t, []string{"47662", "0366", "47670"}, blocks)

	_, err = request{blockNos: []string{"99999"}}.selectStations(reg)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = request{precNos: []string{"91"}}.selectStations(reg)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOutputPath(t *testing.T) {
	r := request{cadence: domain.Hourly, units: []time.Time{jstDate(2023, time.August, 10), jstDate(2023, time.August, 11)}}
	assert.Equal(t, filepath.Join("data", "hourly_data", "hourly_2023-08-10_2023-08-11.csv"), r.outputPath("data"))

	r = request{cadence: domain.Daily, units: []time.Time{jstDate(2023, time.January, 1)}}
	assert.Equal(t, filepath.Join("data", "daily_data", "daily_2023-01_2023-01.csv"), r.outputPath("data"))

	r.out = "/tmp/x.csv"
	assert.Equal(t, "/tmp/x.csv", r.outputPath("data"))
}
