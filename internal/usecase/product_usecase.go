package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"kalabin-backend/internal/domain"
	"kalabin-backend/pkg/utils"

	"github.com/goccy/go-json"
)

// ProductUsecase owns the create/update orchestration: it computes the
// effective status, runs the lifecycle policy and the field normalizers in
// the documented order, performs the I/O-backed checks between pure steps,
// and commits through the persistence gateway. The whole pass is fail-fast:
// the first error aborts the request with nothing applied.
type ProductUsecase struct {
	repo    domain.ProductRepository
	catalog domain.CatalogRepository
	urls    URLBuilder
}

func NewProductUsecase(repo domain.ProductRepository, catalog domain.CatalogRepository, urls URLBuilder) *ProductUsecase {
	return &ProductUsecase{repo: repo, catalog: catalog, urls: urls}
}

func (uc *ProductUsecase) CreateProduct(ctx context.Context, patch ProductPatch) (*ProductView, error) {
	p := &domain.Product{
		ID:        utils.GenerateUUID(),
		Status:    domain.StatusDraft,
		Inventory: domain.Inventory{Manage: true},
		Tags:      []string{},
	}

	if err := uc.applyPatch(ctx, p, patch, false); err != nil {
		return nil, err
	}

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, asDomainError(err)
	}
	return uc.refetchView(ctx, p)
}

func (uc *ProductUsecase) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*ProductView, error) {
	existing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, asDomainError(err)
	}
	if existing == nil {
		return nil, domain.NotFound("product not found")
	}

	if bad := patch.DisallowedKeys(domain.UpdatableProductFields); len(bad) > 0 {
		return nil, domain.BadRequestFields("patch contains disallowed fields", bad)
	}

	if err := uc.applyPatch(ctx, existing, patch, true); err != nil {
		return nil, err
	}
	existing.UpdatedAt = time.Now()

	if err := uc.repo.Save(ctx, existing); err != nil {
		return nil, asDomainError(err)
	}
	return uc.refetchView(ctx, existing)
}

// GetProduct returns the admin projection (cost included).
func (uc *ProductUsecase) GetProduct(ctx context.Context, id string) (*ProductView, error) {
	p, err := uc.repo.FindByIDWithCategory(ctx, id)
	if err != nil {
		return nil, asDomainError(err)
	}
	if p == nil {
		return nil, domain.NotFound("product not found")
	}
	return shapeProduct(p, uc.urls, true), nil
}

// GetProductBySlug returns the storefront projection (cost hidden); only
// ACTIVE, visible products resolve.
func (uc *ProductUsecase) GetProductBySlug(ctx context.Context, slug string) (*ProductView, error) {
	p, err := uc.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, asDomainError(err)
	}
	if p == nil || p.Status != domain.StatusActive || !p.Visible {
		return nil, domain.NotFound("product not found")
	}
	return shapeProduct(p, uc.urls, false), nil
}

func (uc *ProductUsecase) ListProducts(ctx context.Context, filter domain.ProductFilter, includeCost bool) ([]*ProductView, int64, error) {
	products, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, asDomainError(err)
	}
	views := make([]*ProductView, len(products))
	for i := range products {
		views[i] = shapeProduct(&products[i], uc.urls, includeCost)
	}
	return views, total, nil
}

// ArchiveProduct is the normal delete path: a soft transition to ARCHIVED
// with visibility forced off.
func (uc *ProductUsecase) ArchiveProduct(ctx context.Context, id string) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return asDomainError(err)
	}
	if p == nil {
		return domain.NotFound("product not found")
	}
	p.Status = domain.StatusArchived
	p.Visible = false
	p.UpdatedAt = time.Now()
	if err := uc.repo.Save(ctx, p); err != nil {
		return asDomainError(err)
	}
	return nil
}

// PermanentDeleteProduct removes the record for good.
func (uc *ProductUsecase) PermanentDeleteProduct(ctx context.Context, id string) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return asDomainError(err)
	}
	if p == nil {
		return domain.NotFound("product not found")
	}
	if err := uc.repo.HardDelete(ctx, id); err != nil {
		return asDomainError(err)
	}
	return nil
}

func (uc *ProductUsecase) refetchView(ctx context.Context, p *domain.Product) (*ProductView, error) {
	full, err := uc.repo.FindByIDWithCategory(ctx, p.ID)
	if err != nil {
		return nil, asDomainError(err)
	}
	if full == nil {
		full = p
	}
	return shapeProduct(full, uc.urls, true), nil
}

// applyPatch runs the full normalize-and-check sequence over p in the
// documented order: status → title/shortDescription → slug → category →
// price block → currency → inventory and stock fields → tags → variance →
// media → images/videos → gallery cross-check → publishAt → soft fields.
func (uc *ProductUsecase) applyPatch(ctx context.Context, p *domain.Product, patch ProductPatch, isUpdate bool) error {
	// Effective status
	wasActive := p.Status == domain.StatusActive
	if patch.Has("status") {
		raw, err := patch.String("status")
		if err != nil {
			return err
		}
		s := strings.ToUpper(strings.TrimSpace(raw))
		if s != "" {
			if !domain.IsValidStatus(s) {
				return domain.BadRequest("status must be one of DRAFT, ACTIVE, ARCHIVED")
			}
			p.Status = s
		}
	}
	isActive := p.Status == domain.StatusActive

	// Visibility is forced off for anything not ACTIVE. Going ACTIVE without
	// an explicit visible flag turns it on.
	if v, ok, err := patch.Bool("visible"); err != nil {
		return err
	} else if ok {
		p.Visible = v
	} else if isActive && !wasActive {
		p.Visible = true
	}
	if !isActive {
		p.Visible = false
	}

	// Title
	if patch.Has("title") {
		raw, err := patch.String("title")
		if err != nil {
			return err
		}
		t, err := normalizeTitle(raw, requirementFor(fieldTitle, strings.TrimSpace(raw) == "", isActive, isUpdate))
		if err != nil {
			return err
		}
		p.Title = t
	} else if isActive && strings.TrimSpace(p.Title) == "" {
		return domain.BadRequest("title is required")
	}

	// Short description
	if patch.Has("shortDescription") {
		raw, err := patch.String("shortDescription")
		if err != nil {
			return err
		}
		sd, err := normalizeShortDescription(raw, requirementFor(fieldShortDescription, strings.TrimSpace(raw) == "", isActive, isUpdate))
		if err != nil {
			return err
		}
		p.ShortDescription = sd
	} else if isActive && strings.TrimSpace(p.ShortDescription) == "" {
		return domain.BadRequest("shortDescription is required")
	}

	// Slug
	if patch.Has("slug") {
		raw, err := patch.String("slug")
		if err != nil {
			return err
		}
		rule := requirementFor(fieldSlug, strings.TrimSpace(raw) == "", isActive, isUpdate)
		if rule == RuleClearable {
			p.Slug = ""
		} else {
			s, err := normalizeSlug(raw, rule)
			if err != nil {
				return err
			}
			if s != "" && s != p.Slug {
				// Advisory pre-check; the unique index decides races.
				exists, err := uc.repo.ExistsBySlug(ctx, s, p.ID)
				if err != nil {
					return asDomainError(err)
				}
				if exists {
					return domain.Conflict("slug %q is already in use", s)
				}
			}
			if s != "" {
				p.Slug = s
			}
		}
	} else if isActive && p.Slug == "" {
		return domain.BadRequest("slug is required")
	}

	// Category
	if patch.Has("categoryId") {
		raw, err := patch.String("categoryId")
		if err != nil {
			return err
		}
		id := strings.TrimSpace(raw)
		rule := requirementFor(fieldCategoryID, id == "", isActive, isUpdate)
		switch {
		case rule == RuleClearable:
			p.CategoryID = ""
			p.Category = nil
		case id == "" && rule == RuleRequired:
			return domain.BadRequest("categoryId is required")
		case id != "":
			ok, err := uc.catalog.CategoryExists(ctx, id)
			if err != nil {
				return asDomainError(err)
			}
			if !ok {
				// A dangling reference means the caller's request is invalid.
				return domain.BadRequest("referenced category does not exist")
			}
			p.CategoryID = id
		}
	} else if isActive && p.CategoryID == "" {
		return domain.BadRequest("categoryId is required")
	}

	// Price block
	if patch.Has("price") {
		rule := requirementFor(fieldPrice, patch.IsNull("price") || rawIntEmpty(patch["price"]), isActive, isUpdate)
		if rule == RuleClearable {
			p.Price = nil
		} else {
			v, err := normalizeNonNegativeInt("price", patch["price"], rule == RuleRequired)
			if err != nil {
				return err
			}
			if v != nil {
				p.Price = v
			}
		}
	} else if isActive && p.Price == nil {
		return domain.BadRequest("price is required")
	}
	if patch.Has("compareAt") {
		v, err := normalizeNonNegativeInt("compareAt", patch["compareAt"], false)
		if err != nil {
			return err
		}
		p.CompareAt = v
	}
	if patch.Has("cost") {
		v, err := normalizeNonNegativeInt("cost", patch["cost"], false)
		if err != nil {
			return err
		}
		p.Cost = v
	}
	if err := checkPriceOrdering(p.Price, p.CompareAt); err != nil {
		return err
	}

	// Currency: strategy resolved once, then re-validated on every write.
	if patch.Has("currency") {
		raw, err := patch.String("currency")
		if err != nil {
			return err
		}
		rule := requirementFor(fieldCurrency, strings.TrimSpace(raw) == "", isActive, isUpdate)
		if rule == RuleClearable {
			p.Currency = ""
		} else if strings.TrimSpace(raw) == "" && rule == RuleRequired {
			return domain.BadRequest("currency is required")
		} else if strings.TrimSpace(raw) != "" {
			p.Currency = strings.ToUpper(strings.TrimSpace(raw))
		}
	}
	if p.Currency != "" {
		strategy, err := uc.currencyStrategyFor(ctx)
		if err != nil {
			return err
		}
		c, err := normalizeCurrency(p.Currency, RuleOptional, strategy)
		if err != nil {
			return err
		}
		p.Currency = c
	} else if isActive {
		return domain.BadRequest("currency is required")
	}

	// Inventory and stock policy fields
	if patch.Has("inventory") && !patch.IsNull("inventory") {
		var in struct {
			Manage *bool           `json:"manage"`
			Qty    json.RawMessage `json:"qty"`
		}
		if _, err := patch.Decode("inventory", &in); err != nil {
			return err
		}
		if in.Manage != nil {
			p.Inventory.Manage = *in.Manage
		}
		qty, err := normalizeNonNegativeInt("inventory.qty", in.Qty, false)
		if err != nil {
			return err
		}
		if qty != nil {
			p.Inventory.Qty = *qty
		}
	}
	if v, ok, err := patch.Bool("allowBackorder"); err != nil {
		return err
	} else if ok {
		p.AllowBackorder = v
	}
	if v, ok, err := patch.Bool("restockNotifyEnabled"); err != nil {
		return err
	} else if ok {
		p.RestockNotifyEnabled = v
	}
	if patch.Has("lowStockThreshold") {
		v, err := normalizeNonNegativeInt("lowStockThreshold", patch["lowStockThreshold"], false)
		if err != nil {
			return err
		}
		p.LowStockThreshold = v
	}
	suppliedStock := p.StockStatus
	if patch.Has("stockStatus") {
		raw, err := patch.String("stockStatus")
		if err != nil {
			return err
		}
		s := strings.ToUpper(strings.TrimSpace(raw))
		if s != "" && !domain.IsValidStockStatus(s) {
			return domain.BadRequest("stockStatus must be one of IN_STOCK, OUT_OF_STOCK, PREORDER")
		}
		suppliedStock = s
	}
	p.StockStatus = decideStockStatus(p.Inventory, p.AllowBackorder, suppliedStock).resolve(p.Inventory)

	// Tags
	if patch.Has("tags") {
		if patch.IsNull("tags") {
			p.Tags = []string{}
		} else {
			list, _, err := patch.StringList("tags")
			if err != nil {
				return err
			}
			p.Tags = normalizeTags(list)
		}
	}

	// Variance
	if v, ok, err := patch.Bool("hasVariants"); err != nil {
		return err
	} else if ok {
		p.HasVariants = v
	}
	if patch.Has("options") {
		var items []domain.Option
		if ok, err := patch.Decode("options", &items); err != nil {
			return err
		} else if ok {
			p.Options = normalizeOptions(items)
		} else {
			p.Options = nil
		}
	}
	if patch.Has("variants") {
		var items []domain.Variant
		if ok, err := patch.Decode("variants", &items); err != nil {
			return err
		} else if ok {
			p.Variants = normalizeVariants(items)
		} else {
			p.Variants = nil
		}
	}
	variants, err := checkVariants(p.Variants, p.AllowBackorder)
	if err != nil {
		return err
	}
	p.Variants = variants

	// Gallery
	if patch.Has("media") {
		var items []domain.Media
		if ok, err := patch.Decode("media", &items); err != nil {
			return err
		} else if ok {
			media, err := normalizeMedia(items, isActive)
			if err != nil {
				return err
			}
			p.Media = media
		} else {
			p.Media = nil
		}
	}
	if patch.Has("images") {
		var items []domain.Image
		if ok, err := patch.Decode("images", &items); err != nil {
			return err
		} else if ok {
			images, err := normalizeImages(items)
			if err != nil {
				return err
			}
			p.Images = images
		} else {
			p.Images = nil
		}
	}
	if patch.Has("videos") {
		var items []domain.Video
		if ok, err := patch.Decode("videos", &items); err != nil {
			return err
		} else if ok {
			p.Videos = normalizeVideos(items)
		} else {
			p.Videos = nil
		}
	}
	if err := checkGallery(p.Media, p.Images, isActive); err != nil {
		return err
	}

	// Publish timestamp
	if patch.Has("publishAt") {
		raw, err := patch.String("publishAt")
		if err != nil {
			return err
		}
		t, err := normalizePublishAt(raw)
		if err != nil {
			return err
		}
		p.PublishAt = t
	}

	// Remaining soft fields
	return uc.applySoftFields(p, patch)
}

func (uc *ProductUsecase) applySoftFields(p *domain.Product, patch ProductPatch) error {
	if patch.Has("overviewHtml") {
		raw, err := patch.String("overviewHtml")
		if err != nil {
			return err
		}
		p.OverviewHTML = raw
	}
	if patch.Has("brandId") {
		raw, err := patch.String("brandId")
		if err != nil {
			return err
		}
		p.BrandID = strings.TrimSpace(raw)
	}
	if patch.Has("warranty") {
		raw, err := patch.String("warranty")
		if err != nil {
			return err
		}
		p.Warranty = strings.TrimSpace(raw)
	}
	if patch.Has("attributes") {
		var items []domain.Attribute
		if ok, err := patch.Decode("attributes", &items); err != nil {
			return err
		} else if ok {
			p.Attributes = normalizeAttributes(items)
		} else {
			p.Attributes = nil
		}
	}
	if patch.Has("techSpecs") {
		var sections []domain.TechSpecSection
		if ok, err := patch.Decode("techSpecs", &sections); err != nil {
			return err
		} else if ok {
			p.TechSpecs = normalizeTechSpecs(sections)
		} else {
			p.TechSpecs = nil
		}
	}
	if patch.Has("faqs") {
		var items []faqInput
		if ok, err := patch.Decode("faqs", &items); err != nil {
			return err
		} else if ok {
			p.FAQs = normalizeFAQs(items)
		} else {
			p.FAQs = nil
		}
	}
	if patch.Has("seo") {
		var seo domain.SEO
		if ok, err := patch.Decode("seo", &seo); err != nil {
			return err
		} else if ok {
			p.SEO = normalizeSEO(&seo)
		} else {
			p.SEO = nil
		}
	}
	if patch.Has("shipping") {
		var in shippingInput
		if ok, err := patch.Decode("shipping", &in); err != nil {
			return err
		} else if ok {
			shipping, err := normalizeShipping(in)
			if err != nil {
				return err
			}
			p.Shipping = shipping
		} else {
			p.Shipping = nil
		}
	}
	if patch.Has("returnPolicy") {
		var block domain.PolicyBlock
		if ok, err := patch.Decode("returnPolicy", &block); err != nil {
			return err
		} else if ok {
			p.ReturnPolicy = normalizePolicyBlock(&block)
		} else {
			p.ReturnPolicy = nil
		}
	}
	if patch.Has("handlingTime") {
		var block domain.PolicyBlock
		if ok, err := patch.Decode("handlingTime", &block); err != nil {
			return err
		} else if ok {
			p.HandlingTime = normalizePolicyBlock(&block)
		} else {
			p.HandlingTime = nil
		}
	}
	if patch.Has("related") {
		var rel domain.Related
		if ok, err := patch.Decode("related", &rel); err != nil {
			return err
		} else if ok {
			p.Related = normalizeRelated(&rel)
		} else {
			p.Related = nil
		}
	}
	if patch.Has("breadcrumbsCache") {
		if patch.IsNull("breadcrumbsCache") {
			p.BreadcrumbsCache = nil
		} else {
			p.BreadcrumbsCache = domain.RawJSON(patch["breadcrumbsCache"])
		}
	}
	return nil
}

func (uc *ProductUsecase) currencyStrategyFor(ctx context.Context) (currencyStrategy, error) {
	codes, err := uc.catalog.ActiveCurrencyCodes(ctx)
	if err != nil {
		return currencyStrategy{}, asDomainError(err)
	}
	if len(codes) == 0 {
		return fallbackCurrencySet(), nil
	}
	return catalogBackedCurrencies(codes), nil
}

// rawIntEmpty reports whether a present integer field carries an empty
// string, which counts as "explicitly cleared" like null does.
func rawIntEmpty(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == `""`
}

// asDomainError passes pipeline errors through untouched and wraps anything
// else (driver failures, encoding bugs) as internal, so callers always see
// the same taxonomy.
func asDomainError(err error) error {
	if err == nil {
		return nil
	}
	var e *domain.Error
	if errors.As(err, &e) {
		return err
	}
	return domain.Internal(err)
}
