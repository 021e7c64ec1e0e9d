package models

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Category is a product category. Products always belong to exactly one;
// CategoryAll exists only as a browse filter value.
type Category string

const (
	CategoryAll            Category = "All"
	CategoryPhones         Category = "Phones"
	CategoryLaptops        Category = "Laptops"
	CategoryAudio          Category = "Audio"
	CategoryAccessories    Category = "Accessories"
	CategoryHomeAppliances Category = "Home Appliances"
)

// Categories lists every browseable category, in display order.
var Categories = []Category{
	CategoryAll,
	CategoryPhones,
	CategoryLaptops,
	CategoryAudio,
	CategoryAccessories,
	CategoryHomeAppliances,
}

const placeholderImageURL = "https://images.unsplash.com/photo-1611532736597-de2d4265fba3?auto=format&fit=crop&q=80&w=800"

// newProductWindow is how recently a product must have been created to
// carry the "New" badge.
const newProductWindow = 30 * 24 * time.Hour

// Product is a catalog item. Immutable once loaded; sourced from the
// backend or the built-in fallback catalog.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         int64    `json:"price"`
	OriginalPrice int64    `json:"original_price,omitempty"`
	Category      Category `json:"category"`
	Image         string   `json:"image"`
	Rating        float64  `json:"rating"`
	Reviews       int      `json:"reviews"`
	IsNew         bool     `json:"is_new,omitempty"`
	IsFeatured    bool     `json:"is_featured,omitempty"`
	Specs         []string `json:"specs,omitempty"`
	Stock         int      `json:"stock,omitempty"`
}

// Discounted reports whether the struck-through original price may be
// shown: only when the original price genuinely exceeds the current one.
func (p Product) Discounted() bool {
	return p.OriginalPrice > p.Price
}

// ProductRow is the raw products table shape. Nullable columns and the
// loosely-typed specs blob stay confined to this type; everything past the
// data-access boundary sees Product.
type ProductRow struct {
	ProductID       string
	ProductName     string
	Description     sql.NullString
	Price           int64
	OriginalPrice   sql.NullInt64
	Category        sql.NullString
	PrimaryImageURL sql.NullString
	Rating          sql.NullFloat64
	ReviewCount     sql.NullInt64
	Featured        bool
	Specs           []byte
	StockQuantity   sql.NullInt64
	CreatedAt       sql.NullTime
}

// ProductImage is a row from the product_images table.
type ProductImage struct {
	ImageURL     string
	DisplayOrder int
}

// NormalizeProduct maps a raw row plus its images into a Product,
// absorbing the backend's schema variability: missing descriptions,
// unknown categories, specs stored as either a JSON array or an object,
// and images selected by display order with a placeholder fallback.
func NormalizeProduct(row ProductRow, images []ProductImage, now time.Time) Product {
	image := row.PrimaryImageURL.String
	if image == "" && len(images) > 0 {
		sorted := make([]ProductImage, len(images))
		copy(sorted, images)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].DisplayOrder < sorted[j].DisplayOrder
		})
		image = sorted[0].ImageURL
	}
	if image == "" {
		image = placeholderImageURL
	}

	category := Category(row.Category.String)
	if !validCategory(category) {
		category = CategoryAccessories
	}

	rating := row.Rating.Float64
	if rating == 0 {
		rating = 4.5
	}

	isNew := false
	if row.CreatedAt.Valid {
		isNew = now.Sub(row.CreatedAt.Time) < newProductWindow
	}

	return Product{
		ID:            row.ProductID,
		Name:          row.ProductName,
		Description:   row.Description.String,
		Price:         row.Price,
		OriginalPrice: row.OriginalPrice.Int64,
		Category:      category,
		Image:         image,
		Rating:        rating,
		Reviews:       int(row.ReviewCount.Int64),
		IsNew:         isNew,
		IsFeatured:    row.Featured,
		Specs:         SpecsToList(row.Specs),
		Stock:         int(row.StockQuantity.Int64),
	}
}

// SpecsToList flattens the specs column into display strings. The backend
// stores either a JSON array of strings or an object of key/value pairs.
func SpecsToList(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}

	var asList []interface{}
	if err := json.Unmarshal(raw, &asList); err == nil {
		out := make([]string, 0, len(asList))
		for _, v := range asList {
			out = append(out, fmt.Sprint(v))
		}
		return out
	}

	var asMap map[string]interface{}
	if err := json.Unmarshal(raw, &asMap); err == nil {
		keys := make([]string, 0, len(asMap))
		for k := range asMap {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]string, 0, len(keys))
		for _, k := range keys {
			out = append(out, fmt.Sprintf("%s: %v", k, asMap[k]))
		}
		return out
	}

	return nil
}

func validCategory(c Category) bool {
	for _, known := range Categories {
		if c == known && c != CategoryAll {
			return true
		}
	}
	return false
}
