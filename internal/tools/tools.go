// Package tools describes the calculator catalog the frontend renders
// its landing grid from. Slugs are derived from the English names and
// are stable: they appear in URLs and analytics.
package tools

import "github.com/gosimple/slug"

type Category string

const (
	CategoryPricing   Category = "pricing"
	CategoryLogistics Category = "logistics"
	CategoryInventory Category = "inventory"
	CategoryReference Category = "reference"
)

// Tool is one catalog entry. NameKey is a locale catalog key resolved
// at the response edge, never a display string.
type Tool struct {
	Slug     string   `json:"slug"`
	Category Category `json:"category"`
	NameKey  string   `json:"-"`
	Endpoint string   `json:"endpoint"`
}

func define(name string, category Category, key, endpoint string) Tool {
	return Tool{
		Slug:     slug.Make(name),
		Category: category,
		NameKey:  "tool." + key,
		Endpoint: endpoint,
	}
}

var catalog = []Tool{
	define("VAT Calculator", CategoryPricing, "vat_calculator", "/v1/calculators/vat"),
	define("Import Duty Estimator", CategoryLogistics, "import_duty", "/v1/calculators/import-duty"),
	define("Storage Fee Calculator", CategoryLogistics, "storage_fee", "/v1/calculators/storage-fee"),
	define("Discount Impact Simulator", CategoryPricing, "discount_simulator", "/v1/calculators/discount"),
	define("Reorder Point Calculator", CategoryInventory, "reorder_point", "/v1/calculators/reorder-point"),
	define("Size Converter", CategoryReference, "size_converter", "/v1/sizes"),
	define("Shipping Weight Tiers", CategoryReference, "shipping_weight", "/v1/shipping/tiers"),
}

// Catalog returns the full tool list in display order.
func Catalog() []Tool {
	out := make([]Tool, len(catalog))
	copy(out, catalog)
	return out
}

// BySlug returns the catalog entry for slug, or nil.
func BySlug(s string) *Tool {
	for i := range catalog {
		if catalog[i].Slug == s {
			t := catalog[i]
			return &t
		}
	}
	return nil
}
