package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/octobees/complaint-helper/api/internal/entity"
)

// DefaultCompaniesTable is read when no table name is configured.
const DefaultCompaniesTable = "companies"

// pgxQuerier is the subset of pgxpool.Pool the repository relies on.
type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var _ pgxQuerier = (*pgxpool.Pool)(nil)

// PGXCompaniesRepository reads the company directory from Postgres.
type PGXCompaniesRepository struct {
	pool  pgxQuerier
	table string
}

// NewPGXCompaniesRepository wires a pgx backed repository. table may be
// schema-qualified ("directory.companies").
func NewPGXCompaniesRepository(pool pgxQuerier, table string) *PGXCompaniesRepository {
	if strings.TrimSpace(table) == "" {
		table = DefaultCompaniesTable
	}
	return &PGXCompaniesRepository{pool: pool, table: table}
}

// ListAll returns every company ordered by serial.
func (r *PGXCompaniesRepository) ListAll(ctx context.Context) ([]entity.Company, error) {
	query := fmt.Sprintf(`
        SELECT
            serial,
            company_name,
            COALESCE(company_number, ''),
            COALESCE(company_complaints_email, ''),
            COALESCE(x_handle, ''),
            COALESCE(facebook_handle, '')
        FROM %s
        ORDER BY serial ASC
    `, r.quotedTable())

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "list companies")
	}
	defer rows.Close()

	return scanCompanies(rows)
}

func (r *PGXCompaniesRepository) quotedTable() string {
	return pgx.Identifier(strings.Split(r.table, ".")).Sanitize()
}

func scanCompanies(rows pgx.Rows) ([]entity.Company, error) {
	var companies []entity.Company
	for rows.Next() {
		var c entity.Company
		err := rows.Scan(
			&c.Serial,
			&c.CompanyName,
			&c.CompanyNumber,
			&c.ComplaintsEmail,
			&c.XHandle,
			&c.FacebookHandle,
		)
		if err != nil {
			return nil, eris.Wrap(err, "scan company")
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "iterate companies")
	}
	return companies, nil
}
