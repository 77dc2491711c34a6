package stations

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/amedas-etl/internal/domain"
)

var baseHeader = []string{"station", "en_name", "area", "prec_no", "block_no", "lon", "lat"}

func header() []string {
	h := append([]string{}, baseHeader...)
	for _, k := range domain.ElementKinds {
		h = append(h, k.String())
	}
	return h
}

// WriteCSV writes the registry file, creating parent directories. The file
// is replaced atomically so a failed write never leaves a partial registry.
func WriteCSV(path string, records []domain.StationRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create registry dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".stations-*.csv")
	if err != nil {
		return fmt.Errorf("create registry file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after rename

	if err := encode(tmp, records); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close registry file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func encode(w io.Writer, records []domain.StationRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header()); err != nil {
		return fmt.Errorf("write registry header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Name, r.EnName, r.Area, r.PrecNo, r.BlockNo,
			strconv.FormatFloat(r.Lon, 'f', -1, 64),
			strconv.FormatFloat(r.Lat, 'f', -1, 64),
		}
		for _, k := range domain.ElementKinds {
			flag := "0"
			if r.Observed.Has(k) {
				flag = "1"
			}
			row = append(row, flag)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write station %s: %w", r.BlockNo, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV loads a registry file written by WriteCSV. block_no and prec_no
// stay strings so leading zeros survive.
func ReadCSV(path string) ([]domain.StationRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	want := header()
	cr.FieldsPerRecord = len(want)

	got, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: registry %s is empty", domain.ErrParse, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read registry header: %v", domain.ErrParse, err)
	}
	for i := range want {
		if got[i] != want[i] {
			return nil, fmt.Errorf("%w: registry column %d is %q, want %q", domain.ErrParse, i, got[i], want[i])
		}
	}

	var out []domain.StationRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: registry line %d: %v", domain.ErrParse, line, err)
		}
		rec, err := decodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("registry line %d: %w", line, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func decodeRow(row []string) (domain.StationRecord, error) {
	lon, err := strconv.ParseFloat(row[5], 64)
	if err != nil {
		return domain.StationRecord{}, fmt.Errorf("%w: lon %q", domain.ErrParse, row[5])
	}
	lat, err := strconv.ParseFloat(row[6], 64)
	if err != nil {
		return domain.StationRecord{}, fmt.Errorf("%w: lat %q", domain.ErrParse, row[6])
	}
	flags := ""
	for _, f := range row[len(baseHeader):] {
		flags += f
	}
	observed, err := domain.ParseElementSet(flags)
	if err != nil {
		return domain.StationRecord{}, err
	}
	return domain.StationRecord{
		Name:     row[0],
		EnName:   row[1],
		Area:     row[2],
		PrecNo:   row[3],
		BlockNo:  row[4],
		Lon:      lon,
		Lat:      lat,
		Observed: observed,
	}, nil
}
