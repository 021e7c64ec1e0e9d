package repository

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/toorogadgets/toorogadgets-storefront-service/internal/logging"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/models"
)

// PostgresProductRepository loads the catalog from PostgreSQL.
type PostgresProductRepository struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewPostgresProductRepository creates a new PostgreSQL product repository.
func NewPostgresProductRepository(db *sql.DB, logger *logging.Logger) *PostgresProductRepository {
	return &PostgresProductRepository{db: db, logger: logger}
}

// List returns the full catalog: featured products first, then newest
// first. Rows are normalized at this boundary so the rest of the service
// never sees nullable columns.
func (r *PostgresProductRepository) List(ctx context.Context) ([]models.Product, error) {
	query := `
		SELECT product_id, product_name, description, price, original_price,
		       category, primary_image_url, rating, review_count, featured,
		       specs, stock_quantity, created_at
		FROM products
		ORDER BY featured DESC, created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list products", logging.Fields{"error": err.Error()})
		return nil, err
	}
	defer rows.Close()

	productRows := make([]models.ProductRow, 0)
	for rows.Next() {
		var row models.ProductRow
		err := rows.Scan(
			&row.ProductID,
			&row.ProductName,
			&row.Description,
			&row.Price,
			&row.OriginalPrice,
			&row.Category,
			&row.PrimaryImageURL,
			&row.Rating,
			&row.ReviewCount,
			&row.Featured,
			&row.Specs,
			&row.StockQuantity,
			&row.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		productRows = append(productRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	imagesByProduct, err := r.loadImages(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	products := make([]models.Product, 0, len(productRows))
	for _, row := range productRows {
		products = append(products, models.NormalizeProduct(row, imagesByProduct[row.ProductID], now))
	}
	return products, nil
}

// loadImages fetches all gallery images in one query and groups them per
// product. One round trip beats a query per product on a catalog this size.
func (r *PostgresProductRepository) loadImages(ctx context.Context) (map[string][]models.ProductImage, error) {
	query := `
		SELECT product_id, image_url, display_order
		FROM product_images
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]models.ProductImage)
	for rows.Next() {
		var productID string
		var img models.ProductImage
		if err := rows.Scan(&productID, &img.ImageURL, &img.DisplayOrder); err != nil {
			return nil, err
		}
		out[productID] = append(out[productID], img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for id := range out {
		images := out[id]
		sort.SliceStable(images, func(i, j int) bool {
			return images[i].DisplayOrder < images[j].DisplayOrder
		})
	}
	return out, nil
}
