package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/trayflow/internal/db"
	"github.com/alexanderramin/trayflow/internal/domain"
)

// SQLiteStandingOrderRepo implements StandingOrderRepo using a SQLite database.
type SQLiteStandingOrderRepo struct {
	db db.DBTX
}

// NewSQLiteStandingOrderRepo creates a new SQLiteStandingOrderRepo.
func NewSQLiteStandingOrderRepo(conn db.DBTX) *SQLiteStandingOrderRepo {
	return &SQLiteStandingOrderRepo{db: conn}
}

const orderColumns = `id, farm_id, customer_id, product_id, quantity, delivery_days, start_date, end_date, created_at`

func (r *SQLiteStandingOrderRepo) Create(ctx context.Context, o *domain.StandingOrder) error {
	query := `INSERT INTO standing_orders (` + orderColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		o.ID,
		o.FarmID,
		o.CustomerID,
		o.ProductID,
		o.Quantity,
		int(o.DeliveryDays),
		formatDate(o.StartDate),
		nullableTimeToString(o.EndDate, dateLayout),
		formatTimestamp(o.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting standing order: %w", err)
	}
	return nil
}

func (r *SQLiteStandingOrderRepo) GetByID(ctx context.Context, id string) (*domain.StandingOrder, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM standing_orders WHERE id = ?`, id)
	return scanStandingOrder(row)
}

func (r *SQLiteStandingOrderRepo) List(ctx context.Context, farmID string) ([]*domain.StandingOrder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM standing_orders WHERE farm_id = ? ORDER BY created_at, id`, farmID)
	if err != nil {
		return nil, fmt.Errorf("listing standing orders: %w", err)
	}
	defer rows.Close()

	var out []*domain.StandingOrder
	for rows.Next() {
		o, err := scanStandingOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating standing orders: %w", err)
	}
	return out, nil
}

func (r *SQLiteStandingOrderRepo) SetEndDate(ctx context.Context, id string, end *time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE standing_orders SET end_date = ? WHERE id = ?`,
		nullableTimeToString(end, dateLayout), id)
	if err != nil {
		return fmt.Errorf("ending standing order: %w", err)
	}
	if ok, err := rowsAffected(res); err != nil {
		return fmt.Errorf("ending standing order: %w", err)
	} else if !ok {
		return fmt.Errorf("standing order %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteStandingOrderRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM standing_orders WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting standing order: %w", err)
	}
	return nil
}

func scanStandingOrder(row rowScanner) (*domain.StandingOrder, error) {
	var o domain.StandingOrder
	var days int
	var startDate, createdAt string
	var endDate sql.NullString
	err := row.Scan(&o.ID, &o.FarmID, &o.CustomerID, &o.ProductID, &o.Quantity, &days,
		&startDate, &endDate, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("standing order: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning standing order: %w", err)
	}
	o.DeliveryDays = domain.WeekdaySet(days)
	if o.StartDate, err = time.Parse(dateLayout, startDate); err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}
	o.EndDate = parseNullableTime(endDate, dateLayout)
	if o.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &o, nil
}
