package stations

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/amedas-etl/internal/domain"
)

var testRecords = []domain.StationRecord{
	{Name: "東京", EnName: "Tokyo", Area: "東京都", PrecNo: "44", BlockNo: "47662", Lon: 139.75, Lat: 35.691667, Observed: 0xff},
	{Name: "練馬", EnName: "Nerima", Area: "東京都", PrecNo: "44", BlockNo: "0366", Lon: 139.666667, Lat: 35.735, Observed: 0x0f},
	{Name: "海老名", EnName: "Ebina", Area: "神奈川県", PrecNo: "46", BlockNo: "0372", Lon: 139.388333, Lat: 35.438333, Observed: 0x0f},
}

func TestRegistry_Lookup(t *testing.T) {
	reg, err := NewRegistry(testRecords)
	require.NoError(t, err)
	assert.Equal(t, 3, reg.Len())

	rec, err := reg.Lookup("0366")
	require.NoError(t, err)
	assert.Equal(t, "練馬", rec.Name)

	_, err = reg.Lookup("9999")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistry_LookupAllKeepsOrder(t *testing.T) {
	reg, err := NewRegistry(testRecords)
	require.NoError(t, err)

	got, err := reg.LookupAll([]string{"0372", "47662"})
	require.NoError(t, err)
	assert.Equal(t, []string{"0372", "47662"}, []string{got[0].BlockNo, got[1].BlockNo})

	_, err = reg.LookupAll([]string{"0372", "0000"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistry_ByPrefecture(t *testing.T) {
	reg, err := NewRegistry(testRecords)
	require.NoError(t, err)

	assert.Len(t, reg.ByPrefecture("44"), 2)
	assert.Len(t, reg.ByPrefecture("44", "46"), 3)
	assert.Empty(t, reg.ByPrefecture("11"))
}

func TestNewRegistry_Rejects(t *testing.T) {
	_, err := NewRegistry([]domain.StationRecord{testRecords[0], testRecords[0]})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewRegistry([]domain.StationRecord{{Name: "x", BlockNo: "123"}})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCSV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stations_information", "stations.csv")
	require.NoError(t, WriteCSV(path, testRecords))

	got, err := ReadCSV(path)
	require.NoError(t, err)
	if diff := cmp.Diff(testRecords, got); diff != "" {
		t.Errorf("registry round trip mismatch (-want +got):\n%s", diff)
	}

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "station,en_name,area,prec_no,block_no,lon,lat,temperature,precipitation,wind_direction,wind,sunshine,snow_depth,humidity,pressure\n")
	assert.Contains(t, string(raw), ",0366,")
}

func TestReadCSV_BadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stations.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))

	_, err := ReadCSV(path)
	require.ErrorIs(t, err, domain.ErrParse)
}

type countingSource struct {
	calls   int
	records []domain.StationRecord
}

func (s *countingSource) Build(context.Context) ([]domain.StationRecord, error) {
	s.calls++
	return s.records, nil
}

func TestEnsure_SkipsBuildWhenFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stations.csv")
	src := &countingSource{records: testRecords}

	reg, err := Ensure(context.Background(), path, src, false, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 3, reg.Len())
	assert.Equal(t, 1, src.calls)

	reg, err = Ensure(context.Background(), path, src, false, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 3, reg.Len())
	assert.Equal(t, 1, src.calls, "existing registry must not be rebuilt")

	src.records = testRecords[:1]
	reg, err = Ensure(context.Background(), path, src, true, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, 2, src.calls)
}
