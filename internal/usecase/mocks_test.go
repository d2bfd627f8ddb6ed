package usecase

import (
	"context"
	"strings"
	"sync"

	"kalabin-backend/internal/domain"
)

// In-memory fakes for the persistence gateways, enough to drive the
// orchestrators without a database.

type mockProductRepo struct {
	mu       sync.Mutex
	products map[string]*domain.Product
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: map[string]*domain.Product{}}
}

func (m *mockProductRepo) ExistsBySlug(_ context.Context, slug, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.Slug == slug && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockProductRepo) Create(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *mockProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *mockProductRepo) FindByIDWithCategory(ctx context.Context, id string) (*domain.Product, error) {
	return m.FindByID(ctx, id)
}

func (m *mockProductRepo) FindBySlug(_ context.Context, slug string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockProductRepo) Save(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return domain.NotFound("product not found")
	}
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *mockProductRepo) HardDelete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return domain.NotFound("product not found")
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepo) List(_ context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Product
	for _, p := range m.products {
		if filter.VisibleOnly && (p.Status != domain.StatusActive || !p.Visible) {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (m *mockProductRepo) CountByCurrency(_ context.Context, code string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, p := range m.products {
		if p.Currency == code {
			n++
		}
	}
	return n, nil
}

type mockCatalogRepo struct {
	categories map[string]domain.Category
	currencies []domain.Currency
	tags       map[string]domain.Tag
	options    map[string]domain.OptionType
}

func newMockCatalogRepo() *mockCatalogRepo {
	return &mockCatalogRepo{
		categories: map[string]domain.Category{},
		tags:       map[string]domain.Tag{},
		options:    map[string]domain.OptionType{},
	}
}

func (m *mockCatalogRepo) CategoryExists(_ context.Context, id string) (bool, error) {
	_, ok := m.categories[id]
	return ok, nil
}

func (m *mockCatalogRepo) ActiveCurrencyCodes(_ context.Context) ([]string, error) {
	var codes []string
	for _, c := range m.currencies {
		if c.IsActive {
			codes = append(codes, c.Code)
		}
	}
	return codes, nil
}

func (m *mockCatalogRepo) GetCategories(_ context.Context, activeOnly bool) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range m.categories {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCatalogRepo) GetCategoryBySlug(_ context.Context, slug string) (*domain.Category, error) {
	for _, c := range m.categories {
		if c.Slug == slug {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockCatalogRepo) CreateCategory(_ context.Context, c *domain.Category) error {
	m.categories[c.ID] = *c
	return nil
}

func (m *mockCatalogRepo) UpdateCategory(_ context.Context, c *domain.Category) error {
	if _, ok := m.categories[c.ID]; !ok {
		return domain.NotFound("category not found")
	}
	m.categories[c.ID] = *c
	return nil
}

func (m *mockCatalogRepo) DeleteCategory(_ context.Context, id string) error {
	delete(m.categories, id)
	return nil
}

func (m *mockCatalogRepo) GetCurrencies(_ context.Context) ([]domain.Currency, error) {
	return append([]domain.Currency(nil), m.currencies...), nil
}

func (m *mockCatalogRepo) GetCurrencyByID(_ context.Context, id string) (*domain.Currency, error) {
	for _, c := range m.currencies {
		if c.ID == id {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockCatalogRepo) GetCurrencyByCode(_ context.Context, code string) (*domain.Currency, error) {
	for _, c := range m.currencies {
		if strings.EqualFold(c.Code, code) {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockCatalogRepo) CreateCurrency(_ context.Context, c *domain.Currency) error {
	m.currencies = append(m.currencies, *c)
	return nil
}

func (m *mockCatalogRepo) UpdateCurrency(_ context.Context, c *domain.Currency) error {
	for i := range m.currencies {
		if m.currencies[i].ID == c.ID {
			if c.Name == "" {
				c.Name = m.currencies[i].Name
			}
			m.currencies[i] = *c
			return nil
		}
	}
	return domain.NotFound("currency not found")
}

func (m *mockCatalogRepo) DeleteCurrency(_ context.Context, id string) error {
	for i := range m.currencies {
		if m.currencies[i].ID == id {
			m.currencies = append(m.currencies[:i], m.currencies[i+1:]...)
			return nil
		}
	}
	return domain.NotFound("currency not found")
}

func (m *mockCatalogRepo) GetOptionTypes(_ context.Context) ([]domain.OptionType, error) {
	var out []domain.OptionType
	for _, o := range m.options {
		out = append(out, o)
	}
	return out, nil
}

func (m *mockCatalogRepo) CreateOptionType(_ context.Context, o *domain.OptionType) error {
	m.options[o.ID] = *o
	return nil
}

func (m *mockCatalogRepo) UpdateOptionType(_ context.Context, o *domain.OptionType) error {
	if _, ok := m.options[o.ID]; !ok {
		return domain.NotFound("option type not found")
	}
	m.options[o.ID] = *o
	return nil
}

func (m *mockCatalogRepo) DeleteOptionType(_ context.Context, id string) error {
	delete(m.options, id)
	return nil
}

func (m *mockCatalogRepo) GetTags(_ context.Context) ([]domain.Tag, error) {
	var out []domain.Tag
	for _, t := range m.tags {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockCatalogRepo) GetTagBySlug(_ context.Context, slug string) (*domain.Tag, error) {
	for _, t := range m.tags {
		if t.Slug == slug {
			cp := t
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockCatalogRepo) CreateTag(_ context.Context, t *domain.Tag) error {
	m.tags[t.ID] = *t
	return nil
}

func (m *mockCatalogRepo) UpdateTag(_ context.Context, t *domain.Tag) error {
	if _, ok := m.tags[t.ID]; !ok {
		return domain.NotFound("tag not found")
	}
	m.tags[t.ID] = *t
	return nil
}

func (m *mockCatalogRepo) DeleteTag(_ context.Context, id string) error {
	delete(m.tags, id)
	return nil
}

// fakeURLBuilder mirrors the storage layer's key-to-URL resolution.
type fakeURLBuilder struct{}

func (fakeURLBuilder) BuildPublicURL(key string) string {
	if key == "" {
		return ""
	}
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	return "https://cdn.example.com/" + key
}
