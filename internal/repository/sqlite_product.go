package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/trayflow/internal/db"
	"github.com/alexanderramin/trayflow/internal/domain"
)

// SQLiteProductRepo implements ProductRepo using a SQLite database.
type SQLiteProductRepo struct {
	db db.DBTX
}

// NewSQLiteProductRepo creates a new SQLiteProductRepo.
func NewSQLiteProductRepo(conn db.DBTX) *SQLiteProductRepo {
	return &SQLiteProductRepo{db: conn}
}

func (r *SQLiteProductRepo) Create(ctx context.Context, p *domain.Product) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (id, farm_id, name, recipe_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.FarmID, p.Name, nullableString(p.RecipeID), formatTimestamp(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}
	return nil
}

func (r *SQLiteProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, farm_id, name, recipe_id, created_at FROM products WHERE id = ?`, id)
	return scanProduct(row)
}

func (r *SQLiteProductRepo) List(ctx context.Context, farmID string) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, farm_id, name, recipe_id, created_at FROM products WHERE farm_id = ? ORDER BY name`, farmID)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var out []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}
	return out, nil
}

func (r *SQLiteProductRepo) SetRecipe(ctx context.Context, productID string, recipeID *string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE products SET recipe_id = ? WHERE id = ?`,
		nullableString(recipeID), productID)
	if err != nil {
		return fmt.Errorf("linking product recipe: %w", err)
	}
	if ok, err := rowsAffected(res); err != nil {
		return fmt.Errorf("linking product recipe: %w", err)
	} else if !ok {
		return fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	return nil
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var recipeID sql.NullString
	var createdAt string
	if err := row.Scan(&p.ID, &p.FarmID, &p.Name, &recipeID, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning product: %w", err)
	}
	p.RecipeID = stringPtr(recipeID)
	var err error
	if p.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &p, nil
}
