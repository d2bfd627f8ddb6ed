package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kalabin-backend/config"
	"kalabin-backend/internal/domain"
)

// mapCache is a trivial CacheService for tests; durations are ignored.
type mapCache struct {
	items map[string]interface{}
}

func newMapCache() *mapCache { return &mapCache{items: map[string]interface{}{}} }

func (c *mapCache) Get(key string) (interface{}, bool) {
	v, ok := c.items[key]
	return v, ok
}

func (c *mapCache) Set(key string, value interface{}, _ time.Duration) {
	c.items[key] = value
}

func (c *mapCache) Delete(key string) { delete(c.items, key) }

func (c *mapCache) Flush() { c.items = map[string]interface{}{} }

func newTestCatalogUsecase(t *testing.T) (*CatalogUsecase, *mockCatalogRepo, *mockProductRepo, *mapCache) {
	t.Helper()
	catalog := newMockCatalogRepo()
	products := newMockProductRepo()
	cacheSvc := newMapCache()
	cfg := &config.Config{CacheCatalogTTL: time.Minute}
	return NewCatalogUsecase(catalog, products, cacheSvc, cfg), catalog, products, cacheSvc
}

func TestCreateCategory(t *testing.T) {
	uc, repo, _, _ := newTestCatalogUsecase(t)
	ctx := context.Background()

	cat := &domain.Category{Name: "  Mobile Phones  ", IsActive: true}
	require.NoError(t, uc.CreateCategory(ctx, cat))
	assert.NotEmpty(t, cat.ID)
	assert.Equal(t, "Mobile Phones", cat.Name)
	assert.Equal(t, "mobile-phones", cat.Slug)

	err := uc.CreateCategory(ctx, &domain.Category{Name: "Mobile Phones"})
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	assert.Equal(t, domain.KindBadRequest, domain.KindOf(uc.CreateCategory(ctx, &domain.Category{Name: "   "})))
	assert.Len(t, repo.categories, 1)
}

func TestGetCategories_Caching(t *testing.T) {
	uc, repo, _, cacheSvc := newTestCatalogUsecase(t)
	ctx := context.Background()

	repo.categories["c1"] = domain.Category{ID: "c1", Name: "Phones", Slug: "phones", IsActive: true}

	first, err := uc.GetCategories(ctx, false)
	require.NoError(t, err)
	require.Len(t, first, 1)
	_, cached := cacheSvc.Get("catalog:categories:all")
	assert.True(t, cached)

	// served from cache: a direct repo mutation is not observed
	repo.categories["c2"] = domain.Category{ID: "c2", Name: "Tablets", Slug: "tablets"}
	second, err := uc.GetCategories(ctx, false)
	require.NoError(t, err)
	assert.Len(t, second, 1)

	// a write through the usecase invalidates
	require.NoError(t, uc.CreateCategory(ctx, &domain.Category{Name: "Wearables"}))
	third, err := uc.GetCategories(ctx, false)
	require.NoError(t, err)
	assert.Len(t, third, 3)
}

func TestUpdateCurrency_RenameGuard(t *testing.T) {
	uc, repo, products, _ := newTestCatalogUsecase(t)
	ctx := context.Background()

	repo.currencies = []domain.Currency{{ID: "c1", Code: "IRT", Name: "Toman", IsActive: true}}
	require.NoError(t, products.Create(ctx, &domain.Product{ID: "p1", Title: "X", Currency: "IRT"}))

	err := uc.UpdateCurrency(ctx, &domain.Currency{ID: "c1", Code: "IRR"})
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	// same code, other fields: fine even while referenced
	require.NoError(t, uc.UpdateCurrency(ctx, &domain.Currency{ID: "c1", Code: "irt", Name: "Iranian Toman"}))

	// once nothing references it the rename goes through
	require.NoError(t, products.HardDelete(ctx, "p1"))
	require.NoError(t, uc.UpdateCurrency(ctx, &domain.Currency{ID: "c1", Code: "IRR"}))
	got, err := repo.GetCurrencyByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "IRR", got.Code)
}

func TestUpdateCurrency_DuplicateCode(t *testing.T) {
	uc, repo, _, _ := newTestCatalogUsecase(t)
	ctx := context.Background()

	repo.currencies = []domain.Currency{
		{ID: "c1", Code: "IRT"},
		{ID: "c2", Code: "USD"},
	}

	err := uc.UpdateCurrency(ctx, &domain.Currency{ID: "c2", Code: "IRT"})
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	assert.Equal(t, domain.KindNotFound, domain.KindOf(uc.UpdateCurrency(ctx, &domain.Currency{ID: "missing", Code: "EUR"})))
}

func TestDeleteCurrency_ReferenceGuard(t *testing.T) {
	uc, repo, products, _ := newTestCatalogUsecase(t)
	ctx := context.Background()

	repo.currencies = []domain.Currency{{ID: "c1", Code: "USD"}}
	require.NoError(t, products.Create(ctx, &domain.Product{ID: "p1", Title: "X", Currency: "USD"}))

	err := uc.DeleteCurrency(ctx, "c1")
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	require.NoError(t, products.HardDelete(ctx, "p1"))
	require.NoError(t, uc.DeleteCurrency(ctx, "c1"))
	assert.Empty(t, repo.currencies)

	assert.Equal(t, domain.KindNotFound, domain.KindOf(uc.DeleteCurrency(ctx, "c1")))
}

func TestCreateCurrency(t *testing.T) {
	uc, repo, _, _ := newTestCatalogUsecase(t)
	ctx := context.Background()

	cur := &domain.Currency{Code: " usd ", Name: "US Dollar", IsActive: true}
	require.NoError(t, uc.CreateCurrency(ctx, cur))
	assert.Equal(t, "USD", cur.Code)
	assert.NotEmpty(t, cur.ID)

	err := uc.CreateCurrency(ctx, &domain.Currency{Code: "usd"})
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	assert.Equal(t, domain.KindBadRequest, domain.KindOf(uc.CreateCurrency(ctx, &domain.Currency{Code: "  "})))
	assert.Len(t, repo.currencies, 1)
}

func TestOptionTypeValues(t *testing.T) {
	uc, repo, _, _ := newTestCatalogUsecase(t)
	ctx := context.Background()

	ot := &domain.OptionType{Name: "Color", Values: []string{" Black ", "Black", "", "Silver"}}
	require.NoError(t, uc.CreateOptionType(ctx, ot))
	assert.Equal(t, []string{"Black", "Silver"}, ot.Values)
	assert.Len(t, repo.options, 1)
}
