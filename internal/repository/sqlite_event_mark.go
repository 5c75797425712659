package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/trayflow/internal/db"
	"github.com/alexanderramin/trayflow/internal/domain"
)

// SQLiteEventMarkRepo implements EventMarkRepo using a SQLite database. The
// (tray, day offset, kind) primary key makes every insert a guarded write.
type SQLiteEventMarkRepo struct {
	db db.DBTX
}

// NewSQLiteEventMarkRepo creates a new SQLiteEventMarkRepo.
func NewSQLiteEventMarkRepo(conn db.DBTX) *SQLiteEventMarkRepo {
	return &SQLiteEventMarkRepo{db: conn}
}

func (r *SQLiteEventMarkRepo) Insert(ctx context.Context, m *domain.EventMark) error {
	query := `INSERT INTO tray_event_marks (tray_id, day_offset, kind, resolution, note, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (tray_id, day_offset, kind) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query,
		m.TrayID, m.DayOffset, string(m.Kind), string(m.Resolution), m.Note, formatTimestamp(m.ResolvedAt))
	if err != nil {
		return fmt.Errorf("inserting event mark: %w", err)
	}
	inserted, err := rowsAffected(res)
	if err != nil {
		return fmt.Errorf("inserting event mark: %w", err)
	}
	if !inserted {
		return fmt.Errorf("tray %s %s: %w", m.TrayID, m.Key(), domain.ErrAlreadyResolved)
	}
	return nil
}

func (r *SQLiteEventMarkRepo) ListByTray(ctx context.Context, trayID string) ([]domain.EventMark, error) {
	byTray, err := r.query(ctx, `SELECT tray_id, day_offset, kind, resolution, note, resolved_at
		FROM tray_event_marks WHERE tray_id = ? ORDER BY day_offset, kind`, trayID)
	if err != nil {
		return nil, err
	}
	return byTray[trayID], nil
}

func (r *SQLiteEventMarkRepo) ListForActiveTrays(ctx context.Context, farmID string) (map[string][]domain.EventMark, error) {
	return r.query(ctx, `SELECT m.tray_id, m.day_offset, m.kind, m.resolution, m.note, m.resolved_at
		FROM tray_event_marks m
		JOIN trays t ON t.id = m.tray_id
		WHERE t.farm_id = ? AND t.loss_state = 'active'
		ORDER BY m.tray_id, m.day_offset, m.kind`, farmID)
}

func (r *SQLiteEventMarkRepo) query(ctx context.Context, query string, args ...any) (map[string][]domain.EventMark, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing event marks: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.EventMark)
	for rows.Next() {
		var m domain.EventMark
		var kind, resolution, resolvedAt string
		if err := rows.Scan(&m.TrayID, &m.DayOffset, &kind, &resolution, &m.Note, &resolvedAt); err != nil {
			return nil, fmt.Errorf("scanning event mark: %w", err)
		}
		m.Kind = domain.EventKind(kind)
		m.Resolution = domain.Resolution(resolution)
		if m.ResolvedAt, err = parseTimestamp(resolvedAt); err != nil {
			return nil, fmt.Errorf("parsing resolved_at: %w", err)
		}
		out[m.TrayID] = append(out[m.TrayID], m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating event marks: %w", err)
	}
	return out, nil
}
