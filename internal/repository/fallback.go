package repository

import (
	"context"

	"github.com/toorogadgets/toorogadgets-storefront-service/internal/models"
)

// FallbackProductRepository serves the built-in catalog. It backs the
// storefront whenever the database is unreachable or empty, so browsing
// never renders a blank page.
type FallbackProductRepository struct{}

// NewFallbackProductRepository creates the built-in catalog repository.
func NewFallbackProductRepository() *FallbackProductRepository {
	return &FallbackProductRepository{}
}

// List returns a copy of the built-in catalog.
func (r *FallbackProductRepository) List(ctx context.Context) ([]models.Product, error) {
	out := make([]models.Product, len(fallbackCatalog))
	copy(out, fallbackCatalog)
	return out, nil
}

var _ ProductRepository = (*FallbackProductRepository)(nil)

// fallbackCatalog mirrors the launch inventory. Prices are whole Ugandan
// shillings.
var fallbackCatalog = []models.Product{
	{
		ID:            "p-001",
		Name:          "iPhone 15 Pro Max",
		Description:   "Apple's flagship with the A17 Pro chip, titanium frame and a 48MP camera system.",
		Price:         5800000,
		OriginalPrice: 6200000,
		Category:      models.CategoryPhones,
		Image:         "https://images.unsplash.com/photo-1695048133142-1a20484d2569?auto=format&fit=crop&q=80&w=800",
		Rating:        4.9,
		Reviews:       124,
		IsNew:         true,
		IsFeatured:    true,
		Specs:         []string{"256GB Storage", "8GB RAM", "A17 Pro Chip", "48MP Camera"},
		Stock:         8,
	},
	{
		ID:          "p-002",
		Name:        "Samsung Galaxy S24 Ultra",
		Description: "Galaxy AI on a 6.8-inch QHD+ display with the built-in S Pen.",
		Price:       5200000,
		Category:    models.CategoryPhones,
		Image:       "https://images.unsplash.com/photo-1610945265064-0e34e5519bbf?auto=format&fit=crop&q=80&w=800",
		Rating:      4.8,
		Reviews:     98,
		IsFeatured:  true,
		Specs:       []string{"512GB Storage", "12GB RAM", "200MP Camera", "S Pen Included"},
		Stock:       5,
	},
	{
		ID:          "p-003",
		Name:        "Tecno Spark 20 Pro",
		Description: "Big battery, big screen, small price. The everyday workhorse.",
		Price:       780000,
		Category:    models.CategoryPhones,
		Image:       "https://images.unsplash.com/photo-1598327105666-5b89351aff97?auto=format&fit=crop&q=80&w=800",
		Rating:      4.4,
		Reviews:     211,
		IsNew:       true,
		Specs:       []string{"256GB Storage", "8GB RAM", "5000mAh Battery", "108MP Camera"},
		Stock:       22,
	},
	{
		ID:            "p-004",
		Name:          "MacBook Air M3",
		Description:   "Fanless, featherweight and fast. All-day battery for work on the go.",
		Price:         4900000,
		OriginalPrice: 5300000,
		Category:      models.CategoryLaptops,
		Image:         "https://images.unsplash.com/photo-1517336714731-489689fd1ca8?auto=format&fit=crop&q=80&w=800",
		Rating:        4.9,
		Reviews:       76,
		IsFeatured:    true,
		Specs:         []string{"13.6-inch Display", "8GB Unified Memory", "256GB SSD", "18hr Battery"},
		Stock:         4,
	},
	{
		ID:          "p-005",
		Name:        "HP Pavilion 15",
		Description: "Dependable mid-range laptop for students and small offices.",
		Price:       2400000,
		Category:    models.CategoryLaptops,
		Image:       "https://images.unsplash.com/photo-1496181133206-80ce9b88a853?auto=format&fit=crop&q=80&w=800",
		Rating:      4.3,
		Reviews:     54,
		Specs:       []string{"Intel Core i5", "8GB RAM", "512GB SSD", "15.6-inch FHD"},
		Stock:       11,
	},
	{
		ID:            "p-006",
		Name:          "Sony WH-1000XM5 Wireless Headphones",
		Description:   "Industry-leading noise cancelling with 30-hour battery life.",
		Price:         1350000,
		OriginalPrice: 1500000,
		Category:      models.CategoryAudio,
		Image:         "https://images.unsplash.com/photo-1618366712010-f4ae9c647dcb?auto=format&fit=crop&q=80&w=800",
		Rating:        4.8,
		Reviews:       167,
		IsFeatured:    true,
		Specs:         []string{"Active Noise Cancelling", "30hr Battery", "Multipoint Bluetooth", "USB-C Fast Charge"},
		Stock:         9,
	},
	{
		ID:          "p-007",
		Name:        "JBL Flip 6 Portable Speaker",
		Description: "Bold sound in a bottle. Waterproof and ready for the road.",
		Price:       520000,
		Category:    models.CategoryAudio,
		Image:       "https://images.unsplash.com/photo-1608043152269-423dbba4e7e1?auto=format&fit=crop&q=80&w=800",
		Rating:      4.6,
		Reviews:     143,
		Specs:       []string{"IP67 Waterproof", "12hr Battery", "PartyBoost", "USB-C Charging"},
		Stock:       18,
	},
	{
		ID:          "p-008",
		Name:        "Anker 20000mAh Power Bank",
		Description: "Two full phone charges and change, with 22.5W fast output.",
		Price:       180000,
		Category:    models.CategoryAccessories,
		Image:       "https://images.unsplash.com/photo-1609091839311-d5365f9ff1c5?auto=format&fit=crop&q=80&w=800",
		Rating:      4.7,
		Reviews:     302,
		Specs:       []string{"20000mAh", "22.5W Fast Charge", "Dual USB Output", "USB-C In/Out"},
		Stock:       40,
	},
	{
		ID:          "p-009",
		Name:        "Oraimo Smart Watch 2 Pro",
		Description: "Fitness tracking and notifications on a bright AMOLED face.",
		Price:       240000,
		Category:    models.CategoryAccessories,
		Image:       "https://images.unsplash.com/photo-1523275335684-37898b6baf30?auto=format&fit=crop&q=80&w=800",
		Rating:      4.2,
		Reviews:     88,
		IsNew:       true,
		Specs:       []string{"1.43-inch AMOLED", "100+ Sport Modes", "10-day Battery", "IP68"},
		Stock:       25,
	},
	{
		ID:            "p-010",
		Name:          "Hisense 43-inch Smart TV",
		Description:   "Full HD smart TV with built-in streaming apps and free-to-air tuner.",
		Price:         1150000,
		OriginalPrice: 1300000,
		Category:      models.CategoryHomeAppliances,
		Image:         "https://images.unsplash.com/photo-1593359677879-a4bb92f829d1?auto=format&fit=crop&q=80&w=800",
		Rating:        4.5,
		Reviews:       61,
		Specs:         []string{"43-inch FHD", "VIDAA Smart OS", "DVB-T2 Tuner", "2x HDMI"},
		Stock:         7,
	},
	{
		ID:          "p-011",
		Name:        "Ramtons 2-Burner Gas Cooker",
		Description: "Compact tabletop cooker for fast, efficient cooking.",
		Price:       320000,
		Category:    models.CategoryHomeAppliances,
		Image:       "https://images.unsplash.com/photo-1556911220-bff31c812dba?auto=format&fit=crop&q=80&w=800",
		Rating:      4.1,
		Reviews:     37,
		Specs:       []string{"2 Burners", "Auto Ignition", "Stainless Top"},
		Stock:       14,
	},
	{
		ID:          "p-012",
		Name:        "Logitech MX Master 3S",
		Description: "Quiet clicks and an 8K DPI sensor for serious desk work.",
		Price:       450000,
		Category:    models.CategoryAccessories,
		Image:       "https://images.unsplash.com/photo-1527864550417-7fd91fc51a46?auto=format&fit=crop&q=80&w=800",
		Rating:      4.8,
		Reviews:     119,
		Specs:       []string{"8K DPI Sensor", "Quiet Clicks", "USB-C Quick Charge", "Multi-device"},
		Stock:       16,
	},
}
