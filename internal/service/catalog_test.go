package service

import (
	"context"
	"sort"
	"testing"

	"github.com/toorogadgets/toorogadgets-storefront-service/internal/config"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/models"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/repository"
)

func testCatalog() []models.Product {
	return []models.Product{
		{ID: "p1", Name: "Sony WH-1000XM5 Wireless Headphones", Description: "Noise cancelling", Price: 1350000, OriginalPrice: 1500000, Category: models.CategoryAudio, Rating: 4.8},
		{ID: "p2", Name: "JBL Flip 6", Description: "Portable speaker", Price: 520000, Category: models.CategoryAudio, Rating: 4.6},
		{ID: "p3", Name: "iPhone 15 Pro Max", Description: "Flagship phone", Price: 5800000, Category: models.CategoryPhones, Rating: 4.9, IsNew: true},
		{ID: "p4", Name: "HP Pavilion 15", Description: "Everyday laptop", Price: 2400000, Category: models.CategoryLaptops, Rating: 4.3},
	}
}

func TestFilterProducts_SearchCaseInsensitive(t *testing.T) {
	got := FilterProducts(testCatalog(), BrowseQuery{Search: "sony"})

	if len(got) != 1 {
		t.Fatalf("Expected exactly 1 result, got %d", len(got))
	}
	if got[0].ID != "p1" {
		t.Errorf("Expected the Sony headphones, got %q", got[0].Name)
	}
}

func TestFilterProducts_SearchMatchesDescription(t *testing.T) {
	got := FilterProducts(testCatalog(), BrowseQuery{Search: "portable"})

	if len(got) != 1 || got[0].ID != "p2" {
		t.Errorf("Expected the speaker via description match, got %v", got)
	}
}

func TestFilterProducts_CategoryAndPriceAsc(t *testing.T) {
	got := FilterProducts(testCatalog(), BrowseQuery{
		Category: models.CategoryAudio,
		Sort:     SortPriceAsc,
	})

	if len(got) != 2 {
		t.Fatalf("Expected 2 Audio products, got %d", len(got))
	}
	for _, p := range got {
		if p.Category != models.CategoryAudio {
			t.Errorf("Non-Audio product %q in results", p.Name)
		}
	}
	if !sort.SliceIsSorted(got, func(i, j int) bool { return got[i].Price < got[j].Price }) {
		t.Error("Results not sorted by ascending price")
	}
}

func TestFilterProducts_TypeFilters(t *testing.T) {
	catalog := testCatalog()

	deals := FilterProducts(catalog, BrowseQuery{Type: TypeFilterDeals})
	if len(deals) != 1 || deals[0].ID != "p1" {
		t.Errorf("Deals filter = %v, want only the discounted product", deals)
	}

	fresh := FilterProducts(catalog, BrowseQuery{Type: TypeFilterNew})
	if len(fresh) != 1 || fresh[0].ID != "p3" {
		t.Errorf("New filter = %v, want only the new product", fresh)
	}

	all := FilterProducts(catalog, BrowseQuery{Type: TypeFilterAll})
	if len(all) != len(catalog) {
		t.Errorf("All filter dropped products: got %d, want %d", len(all), len(catalog))
	}
}

func TestFilterProducts_CategoryAllPassesEverything(t *testing.T) {
	got := FilterProducts(testCatalog(), BrowseQuery{Category: models.CategoryAll})
	if len(got) != 4 {
		t.Errorf("CategoryAll returned %d products, want 4", len(got))
	}
}

func TestFilterProducts_RatingDesc(t *testing.T) {
	got := FilterProducts(testCatalog(), BrowseQuery{Sort: SortRatingDesc})
	if !sort.SliceIsSorted(got, func(i, j int) bool { return got[i].Rating > got[j].Rating }) {
		t.Error("Results not sorted by descending rating")
	}
}

func TestFilterProducts_DoesNotMutateInput(t *testing.T) {
	catalog := testCatalog()
	FilterProducts(catalog, BrowseQuery{Sort: SortPriceAsc})

	if catalog[0].ID != "p1" || catalog[3].ID != "p4" {
		t.Error("FilterProducts mutated the input slice order")
	}
}

type failingProductRepository struct{}

func (failingProductRepository) List(ctx context.Context) ([]models.Product, error) {
	return nil, context.DeadlineExceeded
}

type emptyProductRepository struct{}

func (emptyProductRepository) List(ctx context.Context) ([]models.Product, error) {
	return []models.Product{}, nil
}

func newTestCatalogService(primary repository.ProductRepository, cache repository.CatalogCache) *CatalogService {
	cfg := config.Load()
	return NewCatalogService(primary, repository.NewFallbackProductRepository(), cache, cfg)
}

func TestCatalogService_FallbackOnError(t *testing.T) {
	svc := newTestCatalogService(failingProductRepository{}, repository.NewMemoryCatalogCache())

	products, isLive := svc.Load(context.Background())
	if isLive {
		t.Error("Expected fallback catalog to be marked not live")
	}
	if len(products) == 0 {
		t.Error("Expected fallback catalog to be non-empty")
	}
}

func TestCatalogService_FallbackOnEmptyTable(t *testing.T) {
	svc := newTestCatalogService(emptyProductRepository{}, repository.NewMemoryCatalogCache())

	products, isLive := svc.Load(context.Background())
	if isLive {
		t.Error("Expected empty table to fall back")
	}
	if len(products) == 0 {
		t.Error("Expected fallback catalog to be non-empty")
	}
}

type staticProductRepository struct {
	products []models.Product
	calls    int
}

func (r *staticProductRepository) List(ctx context.Context) ([]models.Product, error) {
	r.calls++
	return r.products, nil
}

func TestCatalogService_CachesLiveCatalog(t *testing.T) {
	primary := &staticProductRepository{products: testCatalog()}
	cache := repository.NewMemoryCatalogCache()
	svc := newTestCatalogService(primary, cache)

	ctx := context.Background()
	if _, isLive := svc.Load(ctx); !isLive {
		t.Fatal("First load should be live")
	}
	if _, isLive := svc.Load(ctx); !isLive {
		t.Fatal("Second load should be live")
	}

	if primary.calls != 1 {
		t.Errorf("Repository hit %d times, want 1 (second load from cache)", primary.calls)
	}
	if cache.Hits != 1 {
		t.Errorf("Cache hits = %d, want 1", cache.Hits)
	}
}

func TestCatalogService_ShareLink(t *testing.T) {
	svc := newTestCatalogService(&staticProductRepository{}, repository.NewMemoryCatalogCache())

	link := svc.ShareLink("p-006")
	want := "https://toorogadgets.com/products/p-006"
	if link != want {
		t.Errorf("ShareLink() = %q, want %q", link, want)
	}
}
