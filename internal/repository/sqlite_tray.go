package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/trayflow/internal/db"
	"github.com/alexanderramin/trayflow/internal/domain"
)

// SQLiteTrayRepo implements TrayRepo using a SQLite database.
type SQLiteTrayRepo struct {
	db db.DBTX
}

// NewSQLiteTrayRepo creates a new SQLiteTrayRepo.
func NewSQLiteTrayRepo(conn db.DBTX) *SQLiteTrayRepo {
	return &SQLiteTrayRepo{db: conn}
}

const trayColumns = `id, farm_id, recipe_id, sow_date, loss_state, loss_reason, loss_note, customer_id,
	yield_grams, seeding_request_id, location, harvested_on, created_at, updated_at`

func (r *SQLiteTrayRepo) Create(ctx context.Context, t *domain.Tray) error {
	query := `INSERT INTO trays (` + trayColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var reason any
	if t.LossReason != nil {
		reason = string(*t.LossReason)
	}
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.FarmID,
		t.RecipeID,
		formatDate(t.SowDate),
		string(t.LossState),
		reason,
		t.LossNote,
		nullableString(t.CustomerID),
		nullableFloat(t.YieldGrams),
		nullableString(t.SeedingRequestID),
		t.Location,
		nullableTimeToString(t.HarvestedOn, dateLayout),
		formatTimestamp(t.CreatedAt),
		formatTimestamp(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting tray: %w", err)
	}
	return nil
}

func (r *SQLiteTrayRepo) GetByID(ctx context.Context, id string) (*domain.Tray, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+trayColumns+` FROM trays WHERE id = ?`, id)
	return scanTray(row)
}

func (r *SQLiteTrayRepo) List(ctx context.Context, farmID string, states ...domain.LossState) ([]*domain.Tray, error) {
	query := `SELECT ` + trayColumns + ` FROM trays WHERE farm_id = ?`
	args := []any{farmID}
	if len(states) > 0 {
		query += ` AND loss_state IN (` + placeholders(len(states)) + `)`
		for _, s := range states {
			args = append(args, string(s))
		}
	}
	query += ` ORDER BY sow_date, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing trays: %w", err)
	}
	defer rows.Close()

	var out []*domain.Tray
	for rows.Next() {
		t, err := scanTray(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trays: %w", err)
	}
	return out, nil
}

func (r *SQLiteTrayRepo) MarkHarvested(ctx context.Context, id string, yieldGrams float64, on time.Time, now time.Time) (bool, error) {
	query := `UPDATE trays SET loss_state = 'harvested', yield_grams = ?, harvested_on = ?, updated_at = ?
		WHERE id = ? AND loss_state = 'active'`
	res, err := r.db.ExecContext(ctx, query, yieldGrams, formatDate(on), formatTimestamp(now), id)
	if err != nil {
		return false, fmt.Errorf("marking tray harvested: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteTrayRepo) MarkLost(ctx context.Context, id string, reason domain.LossReason, note string, now time.Time) (bool, error) {
	query := `UPDATE trays SET loss_state = 'lost', loss_reason = ?, loss_note = ?, updated_at = ?
		WHERE id = ? AND loss_state = 'active'`
	res, err := r.db.ExecContext(ctx, query, string(reason), note, formatTimestamp(now), id)
	if err != nil {
		return false, fmt.Errorf("marking tray lost: %w", err)
	}
	return rowsAffected(res)
}

// Update writes the mutable placement fields: location and customer.
func (r *SQLiteTrayRepo) Update(ctx context.Context, t *domain.Tray) error {
	query := `UPDATE trays SET location = ?, customer_id = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		strings.TrimSpace(t.Location), nullableString(t.CustomerID), formatTimestamp(t.UpdatedAt), t.ID)
	if err != nil {
		return fmt.Errorf("updating tray: %w", err)
	}
	if ok, err := rowsAffected(res); err != nil {
		return fmt.Errorf("updating tray: %w", err)
	} else if !ok {
		return fmt.Errorf("tray %s: %w", t.ID, ErrNotFound)
	}
	return nil
}

func scanTray(row rowScanner) (*domain.Tray, error) {
	var t domain.Tray
	var sowDate, state, createdAt, updatedAt string
	var reason, customerID, requestID, harvestedOn sql.NullString
	var yield sql.NullFloat64
	err := row.Scan(&t.ID, &t.FarmID, &t.RecipeID, &sowDate, &state, &reason, &t.LossNote, &customerID,
		&yield, &requestID, &t.Location, &harvestedOn, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("tray: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning tray: %w", err)
	}
	t.LossState = domain.LossState(state)
	if reason.Valid {
		lr := domain.LossReason(reason.String)
		t.LossReason = &lr
	}
	t.CustomerID = stringPtr(customerID)
	t.SeedingRequestID = stringPtr(requestID)
	t.YieldGrams = floatPtr(yield)
	t.HarvestedOn = parseNullableTime(harvestedOn, dateLayout)
	if t.SowDate, err = time.Parse(dateLayout, sowDate); err != nil {
		return nil, fmt.Errorf("parsing sow_date: %w", err)
	}
	if t.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &t, nil
}
