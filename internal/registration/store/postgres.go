package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"motoreg/internal/registration/models"
	"motoreg/pkg/platform/sentinel"
)

// Postgres persists records in PostgreSQL. The unique indexes on document
// and plate are the real uniqueness guarantee; the duplicate guard in front
// of this store is only a pre-screen.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed record store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS registrations (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	full_name   TEXT NOT NULL,
	birth_date  DATE NOT NULL,
	document    TEXT NOT NULL,
	phone       TEXT NOT NULL DEFAULT '',
	plate       TEXT NOT NULL,
	sector      TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS registrations_document_key ON registrations (document);
CREATE UNIQUE INDEX IF NOT EXISTS registrations_plate_key ON registrations (plate);
`

// EnsureSchema creates the registrations table and unique indexes. Kept
// here instead of a migration tool; the schema is a single table.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", translate(err))
	}
	return nil
}

// Create inserts a record; ID and CreatedAt are assigned by the database.
func (s *Postgres) Create(ctx context.Context, rec *models.Record) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO registrations (full_name, birth_date, document, phone, plate, sector)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		rec.FullName, rec.BirthDate, rec.Document, rec.Phone, rec.Plate, string(rec.Sector),
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert registration: %w", translate(err))
	}
	return nil
}

// FindByDocument returns records whose document matches exactly.
func (s *Postgres) FindByDocument(ctx context.Context, document string) ([]models.Record, error) {
	return s.findBy(ctx, "document", document)
}

// FindByPlate returns records whose plate matches exactly.
func (s *Postgres) FindByPlate(ctx context.Context, plate string) ([]models.Record, error) {
	return s.findBy(ctx, "plate", plate)
}

func (s *Postgres) findBy(ctx context.Context, column, value string) ([]models.Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, full_name, birth_date, document, phone, plate, sector, created_at
		 FROM registrations WHERE `+column+` = $1`, value)
	if err != nil {
		return nil, fmt.Errorf("query by %s: %w", column, translate(err))
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ListAll returns every record ordered by creation time descending.
func (s *Postgres) ListAll(ctx context.Context) ([]models.Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, full_name, birth_date, document, phone, plate, sector, created_at
		 FROM registrations ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", translate(err))
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Count returns the number of stored records.
func (s *Postgres) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM registrations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count registrations: %w", translate(err))
	}
	return n, nil
}

func scanRecords(rows pgx.Rows) ([]models.Record, error) {
	var out []models.Record
	for rows.Next() {
		var rec models.Record
		var sector string
		if err := rows.Scan(&rec.ID, &rec.FullName, &rec.BirthDate, &rec.Document,
			&rec.Phone, &rec.Plate, &sector, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		rec.Sector = models.Sector(sector)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registrations: %w", translate(err))
	}
	return out, nil
}

// translate maps pgx errors onto the categorized store sentinels.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505": // unique_violation
			return fmt.Errorf("%w: %s", sentinel.ErrConflict, pgErr.ConstraintName)
		case pgErr.Code == "28000" || pgErr.Code == "42501": // auth / privilege
			return fmt.Errorf("%w: %s", sentinel.ErrPermissionDenied, pgErr.Message)
		case pgErr.Code[:2] == "22" || pgErr.Code[:2] == "23": // data / other constraint
			return fmt.Errorf("%w: %s", sentinel.ErrInvalidArgument, pgErr.Message)
		}
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", sentinel.ErrUnavailable, err)
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %v", sentinel.ErrUnavailable, err)
	}
	return err
}
