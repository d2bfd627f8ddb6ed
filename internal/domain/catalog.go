package domain

import (
	"context"
	"time"
)

// Category is a reference entity; products point at it by id.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	ParentID  *string   `json:"parentId,omitempty"`
	IsActive  bool      `json:"isActive"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Currency is one entry of the configurable currency catalog. Code is unique
// and, once referenced by a product, may not be renamed or deleted.
type Currency struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"isActive"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
}

// OptionType is a reusable option definition (e.g. Color, Size) admins pick
// from when building product options. Values are deduplicated on write.
type OptionType struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Values    []string  `json:"values"`
	IsActive  bool      `json:"isActive"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
}

type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	IsActive  bool      `json:"isActive"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
}

// CatalogRepository covers the reference entities the product pipeline
// consults plus their own admin CRUD.
type CatalogRepository interface {
	// Lookups used by the product pipeline
	CategoryExists(ctx context.Context, id string) (bool, error)
	ActiveCurrencyCodes(ctx context.Context) ([]string, error)

	// Categories
	GetCategories(ctx context.Context, activeOnly bool) ([]Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	CreateCategory(ctx context.Context, c *Category) error
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id string) error

	// Currencies
	GetCurrencies(ctx context.Context) ([]Currency, error)
	GetCurrencyByID(ctx context.Context, id string) (*Currency, error)
	GetCurrencyByCode(ctx context.Context, code string) (*Currency, error)
	CreateCurrency(ctx context.Context, c *Currency) error
	UpdateCurrency(ctx context.Context, c *Currency) error
	DeleteCurrency(ctx context.Context, id string) error

	// Option types
	GetOptionTypes(ctx context.Context) ([]OptionType, error)
	CreateOptionType(ctx context.Context, o *OptionType) error
	UpdateOptionType(ctx context.Context, o *OptionType) error
	DeleteOptionType(ctx context.Context, id string) error

	// Tags
	GetTags(ctx context.Context) ([]Tag, error)
	GetTagBySlug(ctx context.Context, slug string) (*Tag, error)
	CreateTag(ctx context.Context, t *Tag) error
	UpdateTag(ctx context.Context, t *Tag) error
	DeleteTag(ctx context.Context, id string) error
}
