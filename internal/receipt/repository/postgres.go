package repository

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/receipt/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, rc *model.Receipt) error {
	query := r.DB.Rebind(`
        INSERT INTO "Receipts" (created_at, "Customer", "Createdby", url)
        VALUES (?, ?, ?, ?)
        RETURNING id
    `)
	return r.DB.QueryRowxContext(ctx, query, rc.CreatedAt, rc.Customer, rc.CreatedBy, rc.URL).Scan(&rc.ID)
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ReceiptFilters) ([]model.Receipt, error) {
	receipts := []model.Receipt{}
	query := `SELECT id, created_at, "Customer", "Createdby", url FROM "Receipts"`
	args := []interface{}{}

	if term := strings.TrimSpace(f.Customer); term != "" {
		query += ` WHERE LOWER("Customer") LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(strings.ToLower(term))+"%")
	}

	// Whitelisted ordering
	if f.Sort == dto.SortOldest {
		query += ` ORDER BY created_at ASC, id ASC`
	} else {
		query += ` ORDER BY created_at DESC, id DESC`
	}

	if err := r.DB.SelectContext(ctx, &receipts, r.DB.Rebind(query), args...); err != nil {
		return nil, err
	}
	return receipts, nil
}

func (r *PGRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM "Receipts" WHERE id = ?`), id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
