package service

import (
	"context"
	"sort"
	"strings"

	"github.com/toorogadgets/toorogadgets-storefront-service/internal/config"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/logging"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/metrics"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/models"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/repository"
)

// TypeFilter narrows browsing to new arrivals or discounted items.
type TypeFilter string

const (
	TypeFilterAll   TypeFilter = "all"
	TypeFilterNew   TypeFilter = "new"
	TypeFilterDeals TypeFilter = "deals"
)

// SortKey orders browse results. SortFeatured keeps the catalog's own
// order (featured first, then newest).
type SortKey string

const (
	SortFeatured   SortKey = "featured"
	SortPriceAsc   SortKey = "price-asc"
	SortPriceDesc  SortKey = "price-desc"
	SortRatingDesc SortKey = "rating-desc"
)

// BrowseQuery is one catalog browse request.
type BrowseQuery struct {
	Category models.Category
	Type     TypeFilter
	Search   string
	Sort     SortKey
}

// BrowseResult carries the filtered products plus whether they came from
// the live backend or the built-in fallback catalog.
type BrowseResult struct {
	Products []models.Product `json:"products"`
	IsLive   bool             `json:"is_live"`
}

// CatalogService loads the catalog and answers browse queries. The load
// path is cache, then database, then the built-in fallback; browsing
// never fails outright.
type CatalogService struct {
	products repository.ProductRepository
	fallback repository.ProductRepository
	cache    repository.CatalogCache
	config   *config.Config
	logger   *logging.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	products repository.ProductRepository,
	fallback repository.ProductRepository,
	cache repository.CatalogCache,
	cfg *config.Config,
) *CatalogService {
	return &CatalogService{
		products: products,
		fallback: fallback,
		cache:    cache,
		config:   cfg,
		logger:   logging.New("catalog-service"),
	}
}

// Load returns the full catalog and whether it is live data. A database
// failure or an empty table falls back to the built-in list.
func (s *CatalogService) Load(ctx context.Context) ([]models.Product, bool) {
	if s.config.Features.EnableCatalogCache {
		if cached, err := s.cache.Get(ctx); err == nil {
			metrics.CatalogCacheHits.Inc()
			return cached, true
		}
		metrics.CatalogCacheMisses.Inc()
	}

	products, err := s.products.List(ctx)
	if err != nil || len(products) == 0 {
		if err != nil {
			s.logger.Warn("Catalog load failed, serving fallback", logging.Fields{
				"error": err.Error(),
			})
		}
		metrics.CatalogFallbacks.Inc()
		fallbackProducts, _ := s.fallback.List(ctx)
		return fallbackProducts, false
	}

	if s.config.Features.EnableCatalogCache {
		if err := s.cache.Set(ctx, products); err != nil {
			// Log but don't fail
			s.logger.Warn("Failed to cache catalog", logging.Fields{"error": err.Error()})
		}
	}
	return products, true
}

// Browse filters, searches and sorts the catalog per the query.
func (s *CatalogService) Browse(ctx context.Context, q BrowseQuery) *BrowseResult {
	products, isLive := s.Load(ctx)
	return &BrowseResult{
		Products: FilterProducts(products, q),
		IsLive:   isLive,
	}
}

// ShareLink builds the canonical shareable URL for a product.
func (s *CatalogService) ShareLink(productID string) string {
	return strings.TrimRight(s.config.Store.ShareBaseURL, "/") + "/" + productID
}

// FilterProducts applies the browse query in order: category, type filter,
// search, sort. Pure function over the input slice; the input is never
// mutated.
func FilterProducts(products []models.Product, q BrowseQuery) []models.Product {
	out := make([]models.Product, 0, len(products))

	search := strings.ToLower(strings.TrimSpace(q.Search))
	for _, p := range products {
		if q.Category != "" && q.Category != models.CategoryAll && p.Category != q.Category {
			continue
		}
		switch q.Type {
		case TypeFilterNew:
			if !p.IsNew {
				continue
			}
		case TypeFilterDeals:
			if !p.Discounted() {
				continue
			}
		}
		if search != "" {
			name := strings.ToLower(p.Name)
			desc := strings.ToLower(p.Description)
			if !strings.Contains(name, search) && !strings.Contains(desc, search) {
				continue
			}
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortRatingDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	}

	return out
}
