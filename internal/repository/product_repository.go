package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/craftstore/backend/internal/model"
	"github.com/craftstore/backend/internal/service"
	"github.com/craftstore/backend/pkg/database"
)

// ProductRepository provides data access for products and their images.
type ProductRepository struct {
	pool Pool
}

// NewProductRepository creates a new ProductRepository with the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// NewProductRepositoryWithPool creates a ProductRepository with a custom
// pool interface. This is primarily used for testing.
func NewProductRepositoryWithPool(pool Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, name, description, original_price, discount_price,
	stock_quantity, category, tags, colors, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.OriginalPrice,
		&p.DiscountPrice,
		&p.StockQuantity,
		&p.Category,
		&p.Tags,
		&p.Colors,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Insert persists a new product and fills in its generated fields.
func (r *ProductRepository) Insert(ctx context.Context, p *model.Product) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO products (name, description, original_price, discount_price,
			stock_quantity, category, tags, colors, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		 RETURNING id, created_at`,
		p.Name, p.Description, p.OriginalPrice, p.DiscountPrice,
		p.StockQuantity, p.Category, p.Tags, p.Colors, p.IsActive,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID retrieves a product by id.
// Returns service.ErrProductNotFound if it does not exist.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

// GetForUpdate retrieves a product with a row lock (SELECT FOR UPDATE).
// The row stays locked until the enclosing transaction completes.
func (r *ProductRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.Product, error) {
	p, err := scanProduct(tx.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product for update %d: %w", id, err)
	}
	return p, nil
}

// DecrementStock atomically subtracts qty from a product's stock.
// The guard clause keeps stock from ever going negative even if the
// caller's earlier read was stale; zero affected rows surfaces as
// service.ErrInsufficientStock.
func (r *ProductRepository) DecrementStock(ctx context.Context, tx database.TxQuerier, id int64, qty int) error {
	tag, err := tx.Exec(ctx,
		`UPDATE products
		 SET stock_quantity = stock_quantity - $1, updated_at = NOW()
		 WHERE id = $2 AND stock_quantity >= $1`,
		qty, id)
	if err != nil {
		return fmt.Errorf("decrement stock for product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrInsufficientStock
	}
	return nil
}

// List returns active products matching the filter.
func (r *ProductRepository) List(ctx context.Context, f model.ProductFilter) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active = TRUE`
	args := []any{}
	n := 0

	if f.Category != "" {
		n++
		query += fmt.Sprintf(" AND category = $%d", n)
		args = append(args, f.Category)
	}
	if f.Search != "" {
		n++
		query += fmt.Sprintf(" AND name ILIKE $%d", n)
		args = append(args, "%"+f.Search+"%")
	}
	query += fmt.Sprintf(" ORDER BY id OFFSET $%d LIMIT $%d", n+1, n+2)
	args = append(args, f.Offset, f.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// Update applies the non-nil fields of req to a product and returns
// the updated row. Returns service.ErrProductNotFound if absent.
func (r *ProductRepository) Update(ctx context.Context, id int64, req *model.UpdateProductRequest) (*model.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx,
		`UPDATE products SET
			name            = COALESCE($2, name),
			description     = COALESCE($3, description),
			original_price  = COALESCE($4, original_price),
			discount_price  = COALESCE($5, discount_price),
			stock_quantity  = COALESCE($6, stock_quantity),
			category        = COALESCE($7, category),
			tags            = COALESCE($8, tags),
			colors          = COALESCE($9, colors),
			is_active       = COALESCE($10, is_active),
			updated_at      = NOW()
		 WHERE id = $1
		 RETURNING `+productColumns,
		id, req.Name, req.Description, req.OriginalPrice, req.DiscountPrice,
		req.StockQuantity, req.Category, req.Tags, req.Colors, req.IsActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrProductNotFound
		}
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}
	return p, nil
}

// SetStock overwrites a product's stock quantity.
func (r *ProductRepository) SetStock(ctx context.Context, id int64, qty int) (*model.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx,
		`UPDATE products SET stock_quantity = $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+productColumns, id, qty))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrProductNotFound
		}
		return nil, fmt.Errorf("set stock for product %d: %w", id, err)
	}
	return p, nil
}

// Delete removes a product. Returns service.ErrProductNotFound if
// nothing was deleted.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrProductNotFound
	}
	return nil
}

// InsertImage attaches a hosted image to a product.
func (r *ProductRepository) InsertImage(ctx context.Context, img *model.ProductImage) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO product_images (product_id, image_url, alt_text, is_primary, sort_order, created_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 RETURNING id, created_at`,
		img.ProductID, img.ImageURL, img.AltText, img.IsPrimary, img.SortOrder,
	).Scan(&img.ID, &img.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert product image: %w", err)
	}
	return nil
}

// ListImages returns a product's images ordered for display.
func (r *ProductRepository) ListImages(ctx context.Context, productID int64) ([]model.ProductImage, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, product_id, image_url, alt_text, is_primary, sort_order, created_at
		 FROM product_images WHERE product_id = $1
		 ORDER BY is_primary DESC, sort_order, id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list images for product %d: %w", productID, err)
	}
	defer rows.Close()

	images := []model.ProductImage{}
	for rows.Next() {
		var img model.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.ImageURL, &img.AltText,
			&img.IsPrimary, &img.SortOrder, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product image: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product images: %w", err)
	}
	return images, nil
}
