package store

import (
	"context"
	"errors"
	"fmt"

	producterrors "github.com/abgdnv/skuservice/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const productColumns = `id, sku, name, created_at, updated_at, deleted_at, version`

const findBySkuQuery = `SELECT ` + productColumns + `
FROM products
WHERE sku = $1 AND deleted_at IS NULL`

const findBySkuOrNameQuery = `SELECT ` + productColumns + `
FROM products
WHERE (sku = $1 OR name = $2) AND deleted_at IS NULL
LIMIT 1`

const insertProductQuery = `INSERT INTO products (sku, name)
VALUES ($1, $2)
RETURNING ` + productColumns

type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

func (p *PgStore) FindBySku(ctx context.Context, sku string) (*Product, error) {
	return findOne(p.db.QueryRow(ctx, findBySkuQuery, sku))
}

func (p *PgStore) FindBySkuOrName(ctx context.Context, sku, name string) (*Product, error) {
	return findOne(p.db.QueryRow(ctx, findBySkuOrNameQuery, sku, name))
}

func (p *PgStore) InsertUnique(ctx context.Context, sku, name string) (*Product, error) {
	var created *Product
	txErr := p.withTransaction(ctx, func(tx pgx.Tx) error {
		product, err := scanProduct(tx.QueryRow(ctx, insertProductQuery, sku, name))
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return fmt.Errorf("%w: %s", producterrors.ErrProductConflict, pgErr.ConstraintName)
			}
			return fmt.Errorf("%w: %w", producterrors.ErrCreateProduct, err)
		}
		created = product
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return created, nil
}

func (p *PgStore) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

func (p *PgStore) withTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", producterrors.ErrTransactionBegin, err)
	}

	err = fn(tx)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("%w: %w", producterrors.ErrTransactionRollback, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return producterrors.ErrProductConflict
		}
		return fmt.Errorf("%w: %w", producterrors.ErrTransactionCommit, err)
	}

	return nil
}

func findOne(row pgx.Row) (*Product, error) {
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, producterrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: %w", producterrors.ErrFailedToFindProduct, err)
	}
	return product, nil
}

func scanProduct(row pgx.Row) (*Product, error) {
	var product Product
	err := row.Scan(
		&product.ID,
		&product.SKU,
		&product.Name,
		&product.CreatedAt,
		&product.UpdatedAt,
		&product.DeletedAt,
		&product.Version,
	)
	if err != nil {
		return nil, err
	}
	return &product, nil
}
