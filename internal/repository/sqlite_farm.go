package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/trayflow/internal/db"
	"github.com/alexanderramin/trayflow/internal/domain"
)

// SQLiteFarmRepo implements FarmRepo using a SQLite database.
type SQLiteFarmRepo struct {
	db db.DBTX
}

// NewSQLiteFarmRepo creates a new SQLiteFarmRepo.
func NewSQLiteFarmRepo(conn db.DBTX) *SQLiteFarmRepo {
	return &SQLiteFarmRepo{db: conn}
}

const farmColumns = `id, name, allowed_seeding_days, low_stock_threshold, created_at, updated_at`

func (r *SQLiteFarmRepo) Create(ctx context.Context, f *domain.Farm) error {
	query := `INSERT INTO farms (` + farmColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		f.ID,
		f.Name,
		int(f.AllowedSeedingDays),
		f.LowStockThreshold,
		formatTimestamp(f.CreatedAt),
		formatTimestamp(f.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting farm: %w", err)
	}
	return nil
}

func (r *SQLiteFarmRepo) GetByID(ctx context.Context, id string) (*domain.Farm, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+farmColumns+` FROM farms WHERE id = ?`, id)
	return scanFarm(row)
}

func (r *SQLiteFarmRepo) GetByName(ctx context.Context, name string) (*domain.Farm, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+farmColumns+` FROM farms WHERE name = ? COLLATE NOCASE`, name)
	return scanFarm(row)
}

func (r *SQLiteFarmRepo) List(ctx context.Context) ([]*domain.Farm, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+farmColumns+` FROM farms ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing farms: %w", err)
	}
	defer rows.Close()

	var farms []*domain.Farm
	for rows.Next() {
		f, err := scanFarm(rows)
		if err != nil {
			return nil, err
		}
		farms = append(farms, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating farms: %w", err)
	}
	return farms, nil
}

func (r *SQLiteFarmRepo) Update(ctx context.Context, f *domain.Farm) error {
	query := `UPDATE farms SET name = ?, allowed_seeding_days = ?, low_stock_threshold = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		f.Name,
		int(f.AllowedSeedingDays),
		f.LowStockThreshold,
		formatTimestamp(f.UpdatedAt),
		f.ID,
	)
	if err != nil {
		return fmt.Errorf("updating farm: %w", err)
	}
	if ok, err := rowsAffected(res); err != nil {
		return fmt.Errorf("updating farm: %w", err)
	} else if !ok {
		return fmt.Errorf("farm %s: %w", f.ID, ErrNotFound)
	}
	return nil
}

func scanFarm(row rowScanner) (*domain.Farm, error) {
	var f domain.Farm
	var days int
	var createdAt, updatedAt string
	err := row.Scan(&f.ID, &f.Name, &days, &f.LowStockThreshold, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("farm: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning farm: %w", err)
	}
	f.AllowedSeedingDays = domain.WeekdaySet(days)

	var parseErr error
	if f.CreatedAt, parseErr = parseTimestamp(createdAt); parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	if f.UpdatedAt, parseErr = parseTimestamp(updatedAt); parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &f, nil
}
