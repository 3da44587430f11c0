package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindAll(ctx context.Context, category string) ([]model.Product, error) {
	products := []model.Product{}
	query := `SELECT id, product_name, product_type, price FROM "Products"`
	args := []interface{}{}
	if category != "" {
		query += ` WHERE product_type = ?`
		args = append(args, category)
	}
	query += ` ORDER BY id`

	if err := r.DB.SelectContext(ctx, &products, r.DB.Rebind(query), args...); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	query := r.DB.Rebind(`SELECT id, product_name, product_type, price FROM "Products" WHERE id = ? LIMIT 1`)
	err := r.DB.GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// Create inserts p and sets its generated id.
func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := r.DB.Rebind(`INSERT INTO "Products" (product_name, product_type, price) VALUES (?, ?, ?) RETURNING id`)
	return r.DB.QueryRowxContext(ctx, query, p.Name, p.Category, p.Price).Scan(&p.ID)
}

func (r *PGRepository) DeleteByName(ctx context.Context, category, name string) (int64, error) {
	query := r.DB.Rebind(`DELETE FROM "Products" WHERE product_type = ? AND product_name = ?`)
	res, err := r.DB.ExecContext(ctx, query, category, name)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
