package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBase = "https://www.data.jma.go.jp/obd/stats/etrn/"

func TestObservationURL(t *testing.T) {
	day := jst(2023, time.August, 5, 0, 0)

	got, err := ObservationURL(testBase, testPrimary, Hourly, day)
	require.NoError(t, err)
	assert.Equal(t, "https://www.data.jma.go.jp/obd/stats/etrn/view/hourly_a1.php?prec_no=44&block_no=0366&year=2023&month=08&day=05&view=", got)

	got, err = ObservationURL(testBase, testSecondary, TenMinute, day)
	require.NoError(t, err)
	assert.Equal(t, "https://www.data.jma.go.jp/obd/stats/etrn/view/10min_s1.php?prec_no=44&block_no=47662&year=2023&month=08&day=05&view=p1", got)

	got, err = ObservationURL(testBase, testSecondary, Daily, day)
	require.NoError(t, err)
	assert.Equal(t, "https://www.data.jma.go.jp/obd/stats/etrn/view/daily_s1.php?prec_no=44&block_no=47662&year=2023&month=08&day=&view=", got)
}

func TestObservationURL_BadBlockNo(t *testing.T) {
	_, err := ObservationURL(testBase, StationRecord{PrecNo: "44", BlockNo: "662"}, Hourly, jst(2023, time.August, 5, 0, 0))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSelectorURLs(t *testing.T) {
	assert.Equal(t, "https://www.data.jma.go.jp/obd/stats/etrn/select/prefecture00.php?prec_no=&block_no=&year=&month=&day=&view=", SelectorURL(testBase))
	assert.Equal(t, "https://www.data.jma.go.jp/obd/stats/etrn/select/prefecture.php?prec_no=44&block_no=&year=&month=&day=&view=", PrefectureURL(testBase, "44"))
}
