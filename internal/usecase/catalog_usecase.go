package usecase

import (
	"context"
	"strings"
	"time"

	"kalabin-backend/config"
	"kalabin-backend/internal/domain"
	"kalabin-backend/pkg/cache"
	"kalabin-backend/pkg/utils"
)

// CatalogUsecase manages the reference entities the product pipeline depends
// on: categories, the currency catalog, option types and tags. Reads of the
// hot lists go through the cache; every write invalidates.
type CatalogUsecase struct {
	repo     domain.CatalogRepository
	products domain.ProductRepository
	cache    cache.CacheService
	cfg      *config.Config
}

func NewCatalogUsecase(repo domain.CatalogRepository, products domain.ProductRepository, cacheSvc cache.CacheService, cfg *config.Config) *CatalogUsecase {
	return &CatalogUsecase{
		repo:     repo,
		products: products,
		cache:    cacheSvc,
		cfg:      cfg,
	}
}

// --- Categories ---

func (uc *CatalogUsecase) GetCategories(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	key := "catalog:categories:all"
	if activeOnly {
		key = "catalog:categories:active"
	}
	if val, found := uc.cache.Get(key); found {
		return val.([]domain.Category), nil
	}

	cats, err := uc.repo.GetCategories(ctx, activeOnly)
	if err != nil {
		return nil, asDomainError(err)
	}

	uc.cache.Set(key, cats, uc.cfg.CacheCatalogTTL)
	return cats, nil
}

func (uc *CatalogUsecase) CreateCategory(ctx context.Context, category *domain.Category) error {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return domain.BadRequest("category name is required")
	}
	if category.Slug == "" {
		category.Slug = utils.GenerateSlug(category.Name)
	}
	existing, err := uc.repo.GetCategoryBySlug(ctx, category.Slug)
	if err != nil {
		return asDomainError(err)
	}
	if existing != nil {
		return domain.Conflict("category slug %q is already taken", category.Slug)
	}
	if category.ID == "" {
		category.ID = utils.GenerateUUID()
	}
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt

	uc.invalidateCategoryCache()
	return asDomainError(uc.repo.CreateCategory(ctx, category))
}

func (uc *CatalogUsecase) UpdateCategory(ctx context.Context, category *domain.Category) error {
	if category.ID == "" {
		return domain.BadRequest("category id is required")
	}
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return domain.BadRequest("category name is required")
	}
	if category.Slug != "" {
		existing, err := uc.repo.GetCategoryBySlug(ctx, category.Slug)
		if err != nil {
			return asDomainError(err)
		}
		if existing != nil && existing.ID != category.ID {
			return domain.Conflict("category slug %q is already taken", category.Slug)
		}
	}
	category.UpdatedAt = time.Now()

	uc.invalidateCategoryCache()
	return asDomainError(uc.repo.UpdateCategory(ctx, category))
}

func (uc *CatalogUsecase) DeleteCategory(ctx context.Context, id string) error {
	uc.invalidateCategoryCache()
	return asDomainError(uc.repo.DeleteCategory(ctx, id))
}

// --- Currencies ---

func (uc *CatalogUsecase) GetCurrencies(ctx context.Context) ([]domain.Currency, error) {
	key := "catalog:currencies:all"
	if val, found := uc.cache.Get(key); found {
		return val.([]domain.Currency), nil
	}

	currencies, err := uc.repo.GetCurrencies(ctx)
	if err != nil {
		return nil, asDomainError(err)
	}

	uc.cache.Set(key, currencies, uc.cfg.CacheCatalogTTL)
	return currencies, nil
}

func (uc *CatalogUsecase) CreateCurrency(ctx context.Context, currency *domain.Currency) error {
	currency.Code = strings.ToUpper(strings.TrimSpace(currency.Code))
	if currency.Code == "" {
		return domain.BadRequest("currency code is required")
	}
	existing, err := uc.repo.GetCurrencyByCode(ctx, currency.Code)
	if err != nil {
		return asDomainError(err)
	}
	if existing != nil {
		return domain.Conflict("currency %s already exists", currency.Code)
	}
	if currency.ID == "" {
		currency.ID = utils.GenerateUUID()
	}
	currency.CreatedAt = time.Now()

	uc.invalidateCurrencyCache()
	return asDomainError(uc.repo.CreateCurrency(ctx, currency))
}

// UpdateCurrency allows renaming a code only while no product references it.
func (uc *CatalogUsecase) UpdateCurrency(ctx context.Context, currency *domain.Currency) error {
	if currency.ID == "" {
		return domain.BadRequest("currency id is required")
	}
	current, err := uc.repo.GetCurrencyByID(ctx, currency.ID)
	if err != nil {
		return asDomainError(err)
	}
	if current == nil {
		return domain.NotFound("currency not found")
	}

	currency.Code = strings.ToUpper(strings.TrimSpace(currency.Code))
	if currency.Code == "" {
		currency.Code = current.Code
	}
	if currency.Code != current.Code {
		n, err := uc.products.CountByCurrency(ctx, current.Code)
		if err != nil {
			return asDomainError(err)
		}
		if n > 0 {
			return domain.Conflict("currency %s is used by %d products and cannot be renamed", current.Code, n)
		}
		existing, err := uc.repo.GetCurrencyByCode(ctx, currency.Code)
		if err != nil {
			return asDomainError(err)
		}
		if existing != nil && existing.ID != currency.ID {
			return domain.Conflict("currency %s already exists", currency.Code)
		}
	}

	uc.invalidateCurrencyCache()
	return asDomainError(uc.repo.UpdateCurrency(ctx, currency))
}

// DeleteCurrency refuses while any product still prices in the code.
func (uc *CatalogUsecase) DeleteCurrency(ctx context.Context, id string) error {
	current, err := uc.repo.GetCurrencyByID(ctx, id)
	if err != nil {
		return asDomainError(err)
	}
	if current == nil {
		return domain.NotFound("currency not found")
	}
	n, err := uc.products.CountByCurrency(ctx, current.Code)
	if err != nil {
		return asDomainError(err)
	}
	if n > 0 {
		return domain.Conflict("currency %s is used by %d products and cannot be deleted", current.Code, n)
	}

	uc.invalidateCurrencyCache()
	return asDomainError(uc.repo.DeleteCurrency(ctx, id))
}

// --- Option types ---

func (uc *CatalogUsecase) GetOptionTypes(ctx context.Context) ([]domain.OptionType, error) {
	key := "catalog:option_types:all"
	if val, found := uc.cache.Get(key); found {
		return val.([]domain.OptionType), nil
	}

	types, err := uc.repo.GetOptionTypes(ctx)
	if err != nil {
		return nil, asDomainError(err)
	}

	uc.cache.Set(key, types, uc.cfg.CacheCatalogTTL)
	return types, nil
}

func (uc *CatalogUsecase) CreateOptionType(ctx context.Context, optionType *domain.OptionType) error {
	optionType.Name = strings.TrimSpace(optionType.Name)
	if optionType.Name == "" {
		return domain.BadRequest("option type name is required")
	}
	optionType.Values = dedupeValues(optionType.Values)
	if optionType.ID == "" {
		optionType.ID = utils.GenerateUUID()
	}
	optionType.CreatedAt = time.Now()

	uc.cache.Delete("catalog:option_types:all")
	return asDomainError(uc.repo.CreateOptionType(ctx, optionType))
}

func (uc *CatalogUsecase) UpdateOptionType(ctx context.Context, optionType *domain.OptionType) error {
	if optionType.ID == "" {
		return domain.BadRequest("option type id is required")
	}
	optionType.Name = strings.TrimSpace(optionType.Name)
	if optionType.Name == "" {
		return domain.BadRequest("option type name is required")
	}
	optionType.Values = dedupeValues(optionType.Values)

	uc.cache.Delete("catalog:option_types:all")
	return asDomainError(uc.repo.UpdateOptionType(ctx, optionType))
}

func (uc *CatalogUsecase) DeleteOptionType(ctx context.Context, id string) error {
	uc.cache.Delete("catalog:option_types:all")
	return asDomainError(uc.repo.DeleteOptionType(ctx, id))
}

// --- Tags ---

func (uc *CatalogUsecase) GetTags(ctx context.Context) ([]domain.Tag, error) {
	key := "catalog:tags:all"
	if val, found := uc.cache.Get(key); found {
		return val.([]domain.Tag), nil
	}

	tags, err := uc.repo.GetTags(ctx)
	if err != nil {
		return nil, asDomainError(err)
	}

	uc.cache.Set(key, tags, uc.cfg.CacheCatalogTTL)
	return tags, nil
}

func (uc *CatalogUsecase) CreateTag(ctx context.Context, tag *domain.Tag) error {
	tag.Name = strings.TrimSpace(tag.Name)
	if tag.Name == "" {
		return domain.BadRequest("tag name is required")
	}
	if tag.Slug == "" {
		tag.Slug = utils.GenerateSlug(tag.Name)
	}
	existing, err := uc.repo.GetTagBySlug(ctx, tag.Slug)
	if err != nil {
		return asDomainError(err)
	}
	if existing != nil {
		return domain.Conflict("tag slug %q is already taken", tag.Slug)
	}
	if tag.ID == "" {
		tag.ID = utils.GenerateUUID()
	}
	tag.CreatedAt = time.Now()

	uc.cache.Delete("catalog:tags:all")
	return asDomainError(uc.repo.CreateTag(ctx, tag))
}

func (uc *CatalogUsecase) UpdateTag(ctx context.Context, tag *domain.Tag) error {
	if tag.ID == "" {
		return domain.BadRequest("tag id is required")
	}
	tag.Name = strings.TrimSpace(tag.Name)
	if tag.Name == "" {
		return domain.BadRequest("tag name is required")
	}

	uc.cache.Delete("catalog:tags:all")
	return asDomainError(uc.repo.UpdateTag(ctx, tag))
}

func (uc *CatalogUsecase) DeleteTag(ctx context.Context, id string) error {
	uc.cache.Delete("catalog:tags:all")
	return asDomainError(uc.repo.DeleteTag(ctx, id))
}

func (uc *CatalogUsecase) invalidateCategoryCache() {
	uc.cache.Delete("catalog:categories:all")
	uc.cache.Delete("catalog:categories:active")
}

func (uc *CatalogUsecase) invalidateCurrencyCache() {
	uc.cache.Delete("catalog:currencies:all")
}

func dedupeValues(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
