package usecase

import (
	"kalabin-backend/internal/domain"
)

// Cross-field invariants. These run once per write, after every per-field
// normalizer has succeeded, over a mix of newly normalized and pre-existing
// values.

// stockDecision makes explicit whether the persisted stock status is derived
// from inventory or taken from the caller. Stock status is a derived fact,
// not admin-settable truth, except under backorder policy.
type stockDecision struct {
	derived  bool
	supplied string
}

func decideStockStatus(inv domain.Inventory, allowBackorder bool, supplied string) stockDecision {
	if allowBackorder && supplied != "" {
		return stockDecision{supplied: supplied}
	}
	return stockDecision{derived: true}
}

func (d stockDecision) resolve(inv domain.Inventory) string {
	if !d.derived {
		return d.supplied
	}
	if !inv.Manage || inv.Qty > 0 {
		return domain.StockInStock
	}
	return domain.StockOutOfStock
}

// checkPriceOrdering enforces compareAt >= price whenever both are set.
func checkPriceOrdering(price, compareAt *int64) error {
	if price == nil || compareAt == nil {
		return nil
	}
	if *compareAt < *price {
		return domain.BadRequest("compareAt must be greater than or equal to price")
	}
	return nil
}

// checkVariants enforces per-variant invariants: a non-empty unique
// variantKey, non-negative figures, and compareAt ordering. It also
// re-derives each variant's stock status under the product's backorder
// policy.
func checkVariants(variants []domain.Variant, allowBackorder bool) ([]domain.Variant, error) {
	seen := make(map[string]bool, len(variants))
	out := make([]domain.Variant, 0, len(variants))
	for _, v := range variants {
		if v.VariantKey == "" {
			return nil, domain.BadRequest("variants require a variantKey")
		}
		if seen[v.VariantKey] {
			return nil, domain.Conflict("duplicate variantKey %q", v.VariantKey)
		}
		seen[v.VariantKey] = true

		if v.Price != nil && *v.Price < 0 {
			return nil, domain.BadRequest("variant %s: price must be a non-negative integer", v.VariantKey)
		}
		if v.Inventory.Qty < 0 {
			return nil, domain.BadRequest("variant %s: inventory.qty must be a non-negative integer", v.VariantKey)
		}
		if err := checkPriceOrdering(v.Price, v.CompareAt); err != nil {
			return nil, domain.BadRequest("variant %s: compareAt must be greater than or equal to price", v.VariantKey)
		}
		if v.StockStatus != "" && !domain.IsValidStockStatus(v.StockStatus) {
			return nil, domain.BadRequest("variant %s: invalid stockStatus", v.VariantKey)
		}
		v.StockStatus = decideStockStatus(v.Inventory, allowBackorder, v.StockStatus).resolve(v.Inventory)
		out = append(out, v)
	}
	return out, nil
}

// checkGallery enforces the combined media/images rules for an ACTIVE
// product: at least one entry across both arrays, and exactly one primary
// among them.
func checkGallery(media []domain.Media, images []domain.Image, isActive bool) error {
	if !isActive {
		return nil
	}
	if len(media) == 0 && len(images) == 0 {
		return domain.BadRequest("an active product needs at least one media or image entry")
	}
	primaries := 0
	for _, m := range media {
		if m.IsPrimary {
			primaries++
		}
	}
	for _, img := range images {
		if img.IsPrimary {
			primaries++
		}
	}
	if primaries != 1 {
		return domain.BadRequest("an active product needs exactly one primary media item")
	}
	return nil
}
