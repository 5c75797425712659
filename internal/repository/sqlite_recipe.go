package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/trayflow/internal/db"
	"github.com/alexanderramin/trayflow/internal/domain"
)

// SQLiteRecipeRepo implements RecipeRepo using a SQLite database. Create
// writes several rows, so callers pass a transaction.
type SQLiteRecipeRepo struct {
	db db.DBTX
}

// NewSQLiteRecipeRepo creates a new SQLiteRecipeRepo.
func NewSQLiteRecipeRepo(conn db.DBTX) *SQLiteRecipeRepo {
	return &SQLiteRecipeRepo{db: conn}
}

const recipeColumns = `id, farm_id, variety, name, version, supersedes_id, created_at`

const stepColumns = `recipe_id, sequence_order, action, duration, unit, weight_grams,
	water_type, water_method, water_times, post_sow_wetting, notes`

func (r *SQLiteRecipeRepo) Create(ctx context.Context, rec *domain.Recipe) error {
	query := `INSERT INTO recipes (` + recipeColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.FarmID,
		rec.Variety,
		rec.Name,
		rec.Version,
		nullableString(rec.SupersedesID),
		formatTimestamp(rec.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting recipe: %w", err)
	}

	stepQuery := `INSERT INTO recipe_steps (` + stepColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, s := range rec.Steps {
		waterType, waterMethod, waterTimes := string(domain.WaterNone), "", 0
		if s.Water != nil {
			waterType, waterMethod, waterTimes = string(s.Water.Type), string(s.Water.Method), s.Water.TimesPerDay
		}
		_, err := r.db.ExecContext(ctx, stepQuery,
			rec.ID,
			s.SequenceOrder,
			string(s.Action),
			s.Duration,
			string(s.Unit),
			nullableFloat(s.WeightGrams),
			waterType,
			waterMethod,
			waterTimes,
			string(s.PostSowWetting),
			s.Notes,
		)
		if err != nil {
			return fmt.Errorf("inserting recipe step %d: %w", s.SequenceOrder, err)
		}
	}
	return nil
}

func (r *SQLiteRecipeRepo) GetByID(ctx context.Context, id string) (*domain.Recipe, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, id)
	rec, err := scanRecipe(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadSteps(ctx, map[string]*domain.Recipe{rec.ID: rec}); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *SQLiteRecipeRepo) List(ctx context.Context, farmID string, includeSuperseded bool) ([]*domain.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE farm_id = ?`
	if !includeSuperseded {
		query += ` AND id NOT IN (SELECT supersedes_id FROM recipes WHERE supersedes_id IS NOT NULL)`
	}
	query += ` ORDER BY name, version`
	return r.query(ctx, query, farmID)
}

func (r *SQLiteRecipeRepo) ListByIDs(ctx context.Context, ids []string) (map[string]*domain.Recipe, error) {
	out := make(map[string]*domain.Recipe, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE id IN (` + placeholders(len(ids)) + `)`
	recipes, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	for _, rec := range recipes {
		out[rec.ID] = rec
	}
	return out, nil
}

func (r *SQLiteRecipeRepo) query(ctx context.Context, query string, args ...any) ([]*domain.Recipe, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}
	var recipes []*domain.Recipe
	byID := make(map[string]*domain.Recipe)
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		recipes = append(recipes, rec)
		byID[rec.ID] = rec
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating recipes: %w", err)
	}
	// Close before the next query: an in-memory database has one connection.
	rows.Close()

	if err := r.loadSteps(ctx, byID); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *SQLiteRecipeRepo) loadSteps(ctx context.Context, byID map[string]*domain.Recipe) error {
	if len(byID) == 0 {
		return nil
	}
	args := make([]any, 0, len(byID))
	for id := range byID {
		args = append(args, id)
	}
	query := `SELECT ` + stepColumns + ` FROM recipe_steps WHERE recipe_id IN (` + placeholders(len(args)) + `)
		ORDER BY recipe_id, sequence_order`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("loading recipe steps: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipeID, action, unit, waterType, waterMethod, wetting string
		var s domain.Step
		var weight sql.NullFloat64
		var times int
		if err := rows.Scan(&recipeID, &s.SequenceOrder, &action, &s.Duration, &unit, &weight,
			&waterType, &waterMethod, &times, &wetting, &s.Notes); err != nil {
			return fmt.Errorf("scanning recipe step: %w", err)
		}
		s.Action = domain.ActionKind(action)
		s.Unit = domain.DurationUnit(unit)
		s.WeightGrams = floatPtr(weight)
		s.PostSowWetting = domain.WettingMethod(wetting)
		if domain.WaterType(waterType) != domain.WaterNone {
			s.Water = &domain.WaterSpec{
				Type:        domain.WaterType(waterType),
				Method:      domain.WaterMethod(waterMethod),
				TimesPerDay: times,
			}
		}
		if rec, ok := byID[recipeID]; ok {
			rec.Steps = append(rec.Steps, s)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating recipe steps: %w", err)
	}
	return nil
}

func scanRecipe(row rowScanner) (*domain.Recipe, error) {
	var rec domain.Recipe
	var supersedes sql.NullString
	var createdAt string
	err := row.Scan(&rec.ID, &rec.FarmID, &rec.Variety, &rec.Name, &rec.Version, &supersedes, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("recipe: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning recipe: %w", err)
	}
	rec.SupersedesID = stringPtr(supersedes)
	if rec.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &rec, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
