package persistence

import (
	"context"
	"errors"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/greekops/chapterdata/modules/boutique/domain/product"
)

// DB is the subset of pgxpool.Pool the repository needs; pgx.Tx satisfies it
// too.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type PgProductRepository struct {
	db DB
}

func NewProductRepository(db DB) product.Repository {
	return &PgProductRepository{db: db}
}

// price travels as text so it round-trips through shopspring/decimal without
// float conversion.
const productColumns = `
	id, name, description, category, price::text, inventory, sizes, colors,
	image_path, is_active, created_at, updated_at`

func (r *PgProductRepository) GetByName(ctx context.Context, name string) (*product.Product, error) {
	row := r.db.QueryRow(ctx, `SELECT`+productColumns+` FROM products WHERE name=$1`, name)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PgProductRepository) GetAll(ctx context.Context) ([]*product.Product, error) {
	rows, err := r.db.Query(ctx, `SELECT`+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*product.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PgProductRepository) Create(ctx context.Context, p *product.Product) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := r.db.Exec(ctx, `
		INSERT INTO products (
			id, name, description, category, price, inventory, sizes, colors,
			image_path, is_active, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5::numeric,$6,$7,$8,$9,$10,$11,$12)`,
		p.ID, p.Name, p.Description, string(p.Category), p.Price.String(),
		p.Inventory, p.Sizes, p.Colors, p.ImagePath, p.IsActive,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return gerrors.Wrap(err, "failed to create product")
	}
	return nil
}

func (r *PgProductRepository) Update(ctx context.Context, p *product.Product) error {
	p.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, `
		UPDATE products SET
			description=$2, category=$3, price=$4::numeric, inventory=$5,
			sizes=$6, colors=$7, image_path=$8, is_active=$9, updated_at=$10
		WHERE id=$1`,
		p.ID, p.Description, string(p.Category), p.Price.String(), p.Inventory,
		p.Sizes, p.Colors, p.ImagePath, p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		return gerrors.Wrap(err, "failed to update product")
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func (r *PgProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	return err
}

func scanProduct(row pgx.Row) (*product.Product, error) {
	var (
		p        product.Product
		category string
		price    string
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &category, &price, &p.Inventory,
		&p.Sizes, &p.Colors, &p.ImagePath, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Category = product.Category(category)
	p.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to parse stored price")
	}
	return &p, nil
}
