package dataset

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/octobees/complaint-helper/api/internal/database"
	"github.com/octobees/complaint-helper/api/internal/entity"
	"github.com/octobees/complaint-helper/api/internal/repository"
)

// Options selects where the directory is read from. DatabaseURL wins over
// Path; with neither set the embedded directory is used.
type Options struct {
	Path        string
	DatabaseURL string
	Table       string
}

// Lister reads every company from a backing store.
type Lister interface {
	ListAll(ctx context.Context) ([]entity.Company, error)
}

// Load returns the validated directory described by opts.
func Load(ctx context.Context, opts Options) ([]entity.Company, error) {
	switch {
	case strings.TrimSpace(opts.DatabaseURL) != "":
		pool, err := database.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, eris.Wrap(err, "dataset: connect")
		}
		defer pool.Close()

		zap.L().Info("dataset: loading from postgres", zap.String("table", opts.Table))
		return FromLister(ctx, repository.NewPGXCompaniesRepository(pool, opts.Table))
	case strings.TrimSpace(opts.Path) != "":
		zap.L().Info("dataset: loading from file", zap.String("path", opts.Path))
		return LoadFile(opts.Path)
	default:
		zap.L().Info("dataset: using bundled directory")
		return Default()
	}
}

// FromLister reads and validates the directory from a store.
func FromLister(ctx context.Context, l Lister) ([]entity.Company, error) {
	records, err := l.ListAll(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: list companies")
	}
	if err := Validate(records); err != nil {
		return nil, err
	}
	return records, nil
}
