package stations

import (
	"fmt"

	"github.com/couchcryptid/amedas-etl/internal/domain"
)

// Registry is the read-only station directory keyed by block_no.
type Registry struct {
	records []domain.StationRecord
	byBlock map[string]int
}

// NewRegistry indexes records. Block numbers must be valid and unique.
func NewRegistry(records []domain.StationRecord) (*Registry, error) {
	r := &Registry{
		records: make([]domain.StationRecord, len(records)),
		byBlock: make(map[string]int, len(records)),
	}
	copy(r.records, records)
	for i, rec := range r.records {
		if _, err := rec.Class(); err != nil {
			return nil, fmt.Errorf("station %q: %w", rec.Name, err)
		}
		if _, dup := r.byBlock[rec.BlockNo]; dup {
			return nil, fmt.Errorf("%w: duplicate block_no %s", domain.ErrInvalidInput, rec.BlockNo)
		}
		r.byBlock[rec.BlockNo] = i
	}
	return r, nil
}

// Len returns the number of stations.
func (r *Registry) Len() int { return len(r.records) }

// Records returns a copy of every station in registry order.
func (r *Registry) Records() []domain.StationRecord {
	out := make([]domain.StationRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Lookup returns the station with the given block number.
func (r *Registry) Lookup(blockNo string) (domain.StationRecord, error) {
	i, ok := r.byBlock[blockNo]
	if !ok {
		return domain.StationRecord{}, fmt.Errorf("%w: station block_no %s", domain.ErrNotFound, blockNo)
	}
	return r.records[i], nil
}

// LookupAll resolves block numbers in the given order.
func (r *Registry) LookupAll(blockNos []string) ([]domain.StationRecord, error) {
	out := make([]domain.StationRecord, 0, len(blockNos))
	for _, b := range blockNos {
		rec, err := r.Lookup(b)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// ByPrefecture returns the stations of the given prefectures in registry order.
func (r *Registry) ByPrefecture(precNos ...string) []domain.StationRecord {
	want := make(map[string]bool, len(precNos))
	for _, p := range precNos {
		want[p] = true
	}
	var out []domain.StationRecord
	for _, rec := range r.records {
		if want[rec.PrecNo] {
			out = append(out, rec)
		}
	}
	return out
}
