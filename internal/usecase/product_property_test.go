package usecase

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"kalabin-backend/internal/domain"
)

func TestSlugNormalizationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("normalization is idempotent", prop.ForAll(
		func(raw string) bool {
			once, err := normalizeSlug(raw, RuleOptional)
			if err != nil {
				// a rejected slug stays rejected
				_, err2 := normalizeSlug(raw, RuleOptional)
				return err2 != nil
			}
			twice, err := normalizeSlug(once, RuleOptional)
			return err == nil && twice == once
		},
		gen.AnyString(),
	))

	properties.Property("accepted slugs contain only lowercase letters, digits and hyphens", prop.ForAll(
		func(raw string) bool {
			s, err := normalizeSlug(raw, RuleOptional)
			if err != nil {
				return true
			}
			for _, r := range s {
				if !(r == '-' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestTagNormalizationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("normalization is idempotent", prop.ForAll(
		func(tags []string) bool {
			once := normalizeTags(tags)
			twice := normalizeTags(once)
			if len(once) != len(twice) {
				return false
			}
			for i := range once {
				if once[i] != twice[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AnyString()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestPriceOrderingProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("accepted exactly when compareAt is not below price", prop.ForAll(
		func(price, compareAt int64) bool {
			err := checkPriceOrdering(&price, &compareAt)
			if compareAt >= price {
				return err == nil
			}
			return domain.KindOf(err) == domain.KindBadRequest
		},
		gen.Int64Range(0, 1_000_000),
		gen.Int64Range(0, 1_000_000),
	))

	properties.Property("a missing side never fails", prop.ForAll(
		func(v int64, priceSet bool) bool {
			if priceSet {
				return checkPriceOrdering(&v, nil) == nil
			}
			return checkPriceOrdering(nil, &v) == nil
		},
		gen.Int64Range(0, 1_000_000),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestGalleryNormalizationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	mediaGen := gen.SliceOf(gopter.CombineGens(
		gen.OneConstOf(domain.MediaTypeImage, domain.MediaTypeVideo, domain.MediaTypeGif),
		gen.Identifier(),
		gen.Bool(),
		gen.IntRange(0, 50),
	).Map(func(vals []interface{}) domain.Media {
		return domain.Media{
			Type:      vals[0].(string),
			Key:       vals[1].(string),
			Alt:       "alt text",
			IsPrimary: vals[2].(bool),
			Order:     vals[3].(int),
		}
	}))

	properties.Property("accepted galleries never have more than one primary", prop.ForAll(
		func(items []domain.Media) bool {
			out, err := normalizeMedia(items, false)
			if err != nil {
				return true
			}
			primaries := 0
			for _, m := range out {
				if m.IsPrimary {
					primaries++
				}
			}
			return primaries <= 1
		},
		mediaGen,
	))

	properties.Property("accepted galleries are ordered by the order field", prop.ForAll(
		func(items []domain.Media) bool {
			out, err := normalizeMedia(items, false)
			if err != nil {
				return true
			}
			for i := 1; i < len(out); i++ {
				if out[i-1].Order > out[i].Order {
					return false
				}
			}
			return true
		},
		mediaGen,
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestStockDerivationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("derived status is always a valid enum value", prop.ForAll(
		func(manage bool, qty int64, allowBackorder bool, supplied string) bool {
			inv := domain.Inventory{Manage: manage, Qty: qty}
			got := decideStockStatus(inv, allowBackorder, supplied).resolve(inv)
			return domain.IsValidStockStatus(got)
		},
		gen.Bool(),
		gen.Int64Range(0, 1000),
		gen.Bool(),
		gen.OneConstOf("", domain.StockInStock, domain.StockOutOfStock, domain.StockPreorder),
	))

	properties.Property("without backorder the supplied status is ignored", prop.ForAll(
		func(manage bool, qty int64, supplied string) bool {
			inv := domain.Inventory{Manage: manage, Qty: qty}
			withSupplied := decideStockStatus(inv, false, supplied).resolve(inv)
			derived := decideStockStatus(inv, false, "").resolve(inv)
			return withSupplied == derived
		},
		gen.Bool(),
		gen.Int64Range(0, 1000),
		gen.OneConstOf(domain.StockInStock, domain.StockOutOfStock, domain.StockPreorder),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
