//go:build jma

package jma

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/amedas-etl/internal/domain"
)

// These tests hit the live JMA site.
// Run with: go test -tags=jma ./internal/adapter/jma/ -v -count=1

const liveBaseURL = "https://www.data.jma.go.jp/obd/stats/etrn"

func TestSmoke_SelectorPage(t *testing.T) {
	body, err := testClient().Fetch(context.Background(), domain.SelectorURL(liveBaseURL))
	require.NoError(t, err)

	areas, err := ParseAreas(body)
	require.NoError(t, err)
	assert.Greater(t, len(areas), 40)
}

func TestSmoke_HourlyTableResolves(t *testing.T) {
	st := domain.StationRecord{Name: "東京", EnName: "Tokyo", PrecNo: "44", BlockNo: "47662"}
	day := time.Date(2023, time.August, 1, 0, 0, 0, 0, domain.JST)
	url, err := domain.ObservationURL(liveBaseURL, st, domain.Hourly, day)
	require.NoError(t, err)

	body, err := testClient().Fetch(context.Background(), url)
	require.NoError(t, err)

	raw, err := ParseObservationTable(body)
	require.NoError(t, err)
	require.Len(t, raw.Cells, 24)

	resolved, err := domain.Resolve(raw, domain.Hourly, st)
	require.NoError(t, err)
	_, err = domain.Normalize(resolved)
	require.NoError(t, err)
}

func TestSmoke_DailyTableResolves(t *testing.T) {
	st := domain.StationRecord{Name: "東京", EnName: "Tokyo", PrecNo: "44", BlockNo: "47662"}
	month := time.Date(2023, time.August, 1, 0, 0, 0, 0, domain.JST)
	url, err := domain.ObservationURL(liveBaseURL, st, domain.Daily, month)
	require.NoError(t, err)

	body, err := testClient().Fetch(context.Background(), url)
	require.NoError(t, err)

	raw, err := ParseObservationTable(body)
	require.NoError(t, err)
	require.Len(t, raw.Cells, 31)
	require.Len(t, raw.Cells[0], 20)

	resolved, err := domain.Resolve(raw, domain.Daily, st)
	require.NoError(t, err)
	block, err := domain.Normalize(resolved)
	require.NoError(t, err)

	assert.Equal(t, domain.MostFrequentWindDir, block.Keys[15].Element)
	for _, row := range block.Rows {
		assert.True(t, row[15].IsMissing())
	}
}
