package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/trayflow/internal/db"
	"github.com/alexanderramin/trayflow/internal/domain"
)

// SQLiteCustomerRepo implements CustomerRepo using a SQLite database.
type SQLiteCustomerRepo struct {
	db db.DBTX
}

// NewSQLiteCustomerRepo creates a new SQLiteCustomerRepo.
func NewSQLiteCustomerRepo(conn db.DBTX) *SQLiteCustomerRepo {
	return &SQLiteCustomerRepo{db: conn}
}

func (r *SQLiteCustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO customers (id, farm_id, name, created_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.FarmID, c.Name, formatTimestamp(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting customer: %w", err)
	}
	return nil
}

func (r *SQLiteCustomerRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, farm_id, name, created_at FROM customers WHERE id = ?`, id)
	return scanCustomer(row)
}

func (r *SQLiteCustomerRepo) List(ctx context.Context, farmID string) ([]*domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, farm_id, name, created_at FROM customers WHERE farm_id = ? ORDER BY name`, farmID)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	defer rows.Close()

	var out []*domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating customers: %w", err)
	}
	return out, nil
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var c domain.Customer
	var createdAt string
	if err := row.Scan(&c.ID, &c.FarmID, &c.Name, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("customer: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning customer: %w", err)
	}
	var err error
	if c.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &c, nil
}
