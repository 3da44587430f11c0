package repository

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Category, error) {
	categories := []model.Category{}
	query := `
        SELECT product_type, count(*) AS products
        FROM "Products"
        GROUP BY product_type
        ORDER BY product_type
    `
	if err := r.DB.SelectContext(ctx, &categories, query); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *PGRepository) Exists(ctx context.Context, name string) (bool, error) {
	var count int
	query := r.DB.Rebind(`SELECT count(*) FROM "Products" WHERE product_type = ?`)
	if err := r.DB.GetContext(ctx, &count, query, name); err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreatePlaceholder inserts the row that makes an empty category visible.
func (r *PGRepository) CreatePlaceholder(ctx context.Context, name string) (*model.Product, error) {
	p := &model.Product{Name: model.PlaceholderProductName, Category: name}
	query := r.DB.Rebind(`INSERT INTO "Products" (product_name, product_type) VALUES (?, ?) RETURNING id`)
	if err := r.DB.QueryRowxContext(ctx, query, p.Name, p.Category).Scan(&p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteByName deletes the category's rows inside one transaction.
func (r *PGRepository) DeleteByName(ctx context.Context, name string) (int64, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM "Products" WHERE product_type = ?`), name)
	if err != nil {
		return 0, fmt.Errorf("delete category %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}
