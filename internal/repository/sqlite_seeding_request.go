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

// SQLiteSeedingRequestRepo implements SeedingRequestRepo using a SQLite database.
type SQLiteSeedingRequestRepo struct {
	db db.DBTX
}

// NewSQLiteSeedingRequestRepo creates a new SQLiteSeedingRequestRepo.
func NewSQLiteSeedingRequestRepo(conn db.DBTX) *SQLiteSeedingRequestRepo {
	return &SQLiteSeedingRequestRepo{db: conn}
}

const seedingColumns = `id, farm_id, recipe_id, quantity, seed_date, status, source, standing_order_id,
	customer_id, delivery_date, soaked_at, completed_at, created_at`

const seedingInsert = `INSERT INTO seeding_requests (` + seedingColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func seedingArgs(r *domain.SeedingRequest) []any {
	return []any{
		r.ID,
		r.FarmID,
		r.RecipeID,
		r.Quantity,
		formatDate(r.SeedDate),
		string(r.Status),
		string(r.Source),
		nullableString(r.StandingOrderID),
		nullableString(r.CustomerID),
		nullableTimeToString(r.DeliveryDate, dateLayout),
		nullableTimeToString(r.SoakedAt, timestampLayout),
		nullableTimeToString(r.CompletedAt, timestampLayout),
		formatTimestamp(r.CreatedAt),
	}
}

func (r *SQLiteSeedingRequestRepo) Create(ctx context.Context, req *domain.SeedingRequest) error {
	if _, err := r.db.ExecContext(ctx, seedingInsert, seedingArgs(req)...); err != nil {
		return fmt.Errorf("inserting seeding request: %w", err)
	}
	return nil
}

func (r *SQLiteSeedingRequestRepo) InsertIfAbsent(ctx context.Context, req *domain.SeedingRequest) (bool, error) {
	query := seedingInsert + `
		ON CONFLICT (standing_order_id, seed_date)
		WHERE standing_order_id IS NOT NULL AND status != 'cancelled'
		DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, seedingArgs(req)...)
	if err != nil {
		return false, fmt.Errorf("inserting planned seeding request: %w", err)
	}
	inserted, err := rowsAffected(res)
	if err != nil {
		return false, fmt.Errorf("inserting planned seeding request: %w", err)
	}
	return inserted, nil
}

func (r *SQLiteSeedingRequestRepo) FindLive(ctx context.Context, orderID string, seedDate time.Time) (*domain.SeedingRequest, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+seedingColumns+` FROM seeding_requests
		WHERE standing_order_id = ? AND seed_date = ? AND status != 'cancelled'`,
		orderID, formatDate(seedDate))
	return scanSeedingRequest(row)
}

func (r *SQLiteSeedingRequestRepo) Deliveries(ctx context.Context, requestID string) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT delivery_date FROM seeding_request_deliveries
		WHERE request_id = ? ORDER BY delivery_date`, requestID)
	if err != nil {
		return nil, fmt.Errorf("listing covered deliveries: %w", err)
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scanning covered delivery: %w", err)
		}
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil, fmt.Errorf("parsing covered delivery %q: %w", s, err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating covered deliveries: %w", err)
	}
	return out, nil
}

func (r *SQLiteSeedingRequestRepo) RecordDeliveries(ctx context.Context, requestID string, dates []time.Time, perDelivery int) error {
	for _, d := range dates {
		_, err := r.db.ExecContext(ctx, `INSERT INTO seeding_request_deliveries (request_id, delivery_date, quantity)
			VALUES (?, ?, ?) ON CONFLICT (request_id, delivery_date) DO NOTHING`,
			requestID, formatDate(d), perDelivery)
		if err != nil {
			return fmt.Errorf("recording delivery %s: %w", formatDate(d), err)
		}
	}
	return nil
}

func (r *SQLiteSeedingRequestRepo) AddQuantity(ctx context.Context, id string, add int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE seeding_requests SET quantity = quantity + ?
		WHERE id = ? AND status = 'pending'`, add, id)
	if err != nil {
		return false, fmt.Errorf("topping up seeding request: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteSeedingRequestRepo) GetByID(ctx context.Context, id string) (*domain.SeedingRequest, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+seedingColumns+` FROM seeding_requests WHERE id = ?`, id)
	return scanSeedingRequest(row)
}

func (r *SQLiteSeedingRequestRepo) List(ctx context.Context, farmID string, f SeedingFilter) ([]*domain.SeedingRequest, error) {
	query := `SELECT ` + seedingColumns + ` FROM seeding_requests WHERE farm_id = ?`
	args := []any{farmID}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	if f.From != nil {
		query += ` AND seed_date >= ?`
		args = append(args, formatDate(*f.From))
	}
	if f.To != nil {
		query += ` AND seed_date <= ?`
		args = append(args, formatDate(*f.To))
	}
	query += ` ORDER BY seed_date, created_at, id`
	return r.query(ctx, query, args...)
}

func (r *SQLiteSeedingRequestRepo) ListPending(ctx context.Context, farmID string) ([]*domain.SeedingRequest, error) {
	return r.List(ctx, farmID, SeedingFilter{Status: domain.SeedingPending})
}

func (r *SQLiteSeedingRequestRepo) Transition(ctx context.Context, id string, from, to domain.SeedingStatus, at time.Time) (bool, error) {
	query := `UPDATE seeding_requests SET status = ?,
		completed_at = CASE WHEN ? = 'completed' THEN ? ELSE completed_at END
		WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, query, string(to), string(to), formatTimestamp(at), id, string(from))
	if err != nil {
		return false, fmt.Errorf("updating seeding request status: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteSeedingRequestRepo) MarkSoaked(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `UPDATE seeding_requests SET soaked_at = ?
		WHERE id = ? AND status = 'pending' AND soaked_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, formatTimestamp(at), id)
	if err != nil {
		return false, fmt.Errorf("marking seeding request soaked: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteSeedingRequestRepo) query(ctx context.Context, query string, args ...any) ([]*domain.SeedingRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing seeding requests: %w", err)
	}
	defer rows.Close()

	var out []*domain.SeedingRequest
	for rows.Next() {
		req, err := scanSeedingRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating seeding requests: %w", err)
	}
	return out, nil
}

func scanSeedingRequest(row rowScanner) (*domain.SeedingRequest, error) {
	var req domain.SeedingRequest
	var seedDate, status, source, createdAt string
	var orderID, customerID, deliveryDate, soakedAt, completedAt sql.NullString
	err := row.Scan(&req.ID, &req.FarmID, &req.RecipeID, &req.Quantity, &seedDate, &status, &source,
		&orderID, &customerID, &deliveryDate, &soakedAt, &completedAt, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("seeding request: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning seeding request: %w", err)
	}
	req.Status = domain.SeedingStatus(status)
	req.Source = domain.SeedingSource(source)
	req.StandingOrderID = stringPtr(orderID)
	req.CustomerID = stringPtr(customerID)
	req.DeliveryDate = parseNullableTime(deliveryDate, dateLayout)
	req.SoakedAt = parseNullableTime(soakedAt, timestampLayout)
	req.CompletedAt = parseNullableTime(completedAt, timestampLayout)
	if req.SeedDate, err = time.Parse(dateLayout, seedDate); err != nil {
		return nil, fmt.Errorf("parsing seed_date: %w", err)
	}
	if req.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &req, nil
}
