package stations

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/couchcryptid/amedas-etl/internal/domain"
)

// Source builds the station list from upstream.
type Source interface {
	Build(ctx context.Context) ([]domain.StationRecord, error)
}

// Ensure returns the registry stored at path. The upstream build runs only
// when the file does not exist yet or refresh is set.
func Ensure(ctx context.Context, path string, src Source, refresh bool, logger *slog.Logger) (*Registry, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil && !refresh:
		logger.Info("using existing station registry", "path", path)
		records, err := ReadCSV(path)
		if err != nil {
			return nil, err
		}
		return NewRegistry(records)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("stat registry: %w", err)
	}

	records, err := src.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("build station registry: %w", err)
	}
	reg, err := NewRegistry(records)
	if err != nil {
		return nil, err
	}
	if err := WriteCSV(path, records); err != nil {
		return nil, err
	}
	logger.Info("station registry written", "path", path, "stations", reg.Len())
	return reg, nil
}
