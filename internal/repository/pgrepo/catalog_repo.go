package pgrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kalabin-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type catalogRepository struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) domain.CatalogRepository {
	return &catalogRepository{db: db}
}

// scannedCategory holds the nullable columns of a LEFT JOINed category row.
type scannedCategory struct {
	id        *string
	name      *string
	slug      *string
	parentID  *string
	isActive  *bool
	sortOrder *int
	createdAt *time.Time
	updatedAt *time.Time
}

func (c scannedCategory) toDomain() *domain.Category {
	if c.id == nil {
		return nil
	}
	cat := &domain.Category{
		ID:       *c.id,
		ParentID: c.parentID,
	}
	if c.name != nil {
		cat.Name = *c.name
	}
	if c.slug != nil {
		cat.Slug = *c.slug
	}
	if c.isActive != nil {
		cat.IsActive = *c.isActive
	}
	if c.sortOrder != nil {
		cat.SortOrder = *c.sortOrder
	}
	if c.createdAt != nil {
		cat.CreatedAt = *c.createdAt
	}
	if c.updatedAt != nil {
		cat.UpdatedAt = *c.updatedAt
	}
	return cat
}

// --- Lookups for the product pipeline ---

func (r *catalogRepository) CategoryExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category: %w", err)
	}
	return exists, nil
}

func (r *catalogRepository) ActiveCurrencyCodes(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT code FROM currencies WHERE is_active = TRUE ORDER BY sort_order, code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list currency codes: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan currency code: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// --- Categories ---

func (r *catalogRepository) GetCategories(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	query := `
		SELECT id, name, slug, parent_id, is_active, sort_order, created_at, updated_at
		FROM categories`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY sort_order, name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.IsActive, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *catalogRepository) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.QueryRow(ctx, `
		SELECT id, name, slug, parent_id, is_active, sort_order, created_at, updated_at
		FROM categories WHERE slug = $1`, slug,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.IsActive, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return &c, nil
}

func (r *catalogRepository) CreateCategory(ctx context.Context, c *domain.Category) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO categories (id, name, slug, parent_id, is_active, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Name, c.Slug, c.ParentID, c.IsActive, c.SortOrder, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("category slug %q is already taken", c.Slug)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *catalogRepository) UpdateCategory(ctx context.Context, c *domain.Category) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE categories
		SET name = $2, slug = $3, parent_id = $4, is_active = $5, sort_order = $6, updated_at = $7
		WHERE id = $1`,
		c.ID, c.Name, c.Slug, c.ParentID, c.IsActive, c.SortOrder, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("category slug %q is already taken", c.Slug)
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("category not found")
	}
	return nil
}

func (r *catalogRepository) DeleteCategory(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("category not found")
	}
	return nil
}

// --- Currencies ---

func (r *catalogRepository) GetCurrencies(ctx context.Context) ([]domain.Currency, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, code, name, is_active, sort_order, created_at
		FROM currencies ORDER BY sort_order, code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	defer rows.Close()

	currencies := []domain.Currency{}
	for rows.Next() {
		var c domain.Currency
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.IsActive, &c.SortOrder, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan currency: %w", err)
		}
		currencies = append(currencies, c)
	}
	return currencies, rows.Err()
}

func (r *catalogRepository) GetCurrencyByID(ctx context.Context, id string) (*domain.Currency, error) {
	return r.getCurrency(ctx, `id = $1`, id)
}

func (r *catalogRepository) GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	return r.getCurrency(ctx, `code = $1`, code)
}

func (r *catalogRepository) getCurrency(ctx context.Context, cond string, arg interface{}) (*domain.Currency, error) {
	var c domain.Currency
	err := r.db.QueryRow(ctx, `
		SELECT id, code, name, is_active, sort_order, created_at
		FROM currencies WHERE `+cond, arg,
	).Scan(&c.ID, &c.Code, &c.Name, &c.IsActive, &c.SortOrder, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find currency: %w", err)
	}
	return &c, nil
}

func (r *catalogRepository) CreateCurrency(ctx context.Context, c *domain.Currency) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO currencies (id, code, name, is_active, sort_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Code, c.Name, c.IsActive, c.SortOrder, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("currency %s already exists", c.Code)
		}
		return fmt.Errorf("failed to create currency: %w", err)
	}
	return nil
}

func (r *catalogRepository) UpdateCurrency(ctx context.Context, c *domain.Currency) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE currencies SET code = $2, name = $3, is_active = $4, sort_order = $5
		WHERE id = $1`,
		c.ID, c.Code, c.Name, c.IsActive, c.SortOrder)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("currency %s already exists", c.Code)
		}
		return fmt.Errorf("failed to update currency: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("currency not found")
	}
	return nil
}

func (r *catalogRepository) DeleteCurrency(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM currencies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete currency: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("currency not found")
	}
	return nil
}

// --- Option types ---

func (r *catalogRepository) GetOptionTypes(ctx context.Context) ([]domain.OptionType, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, values, is_active, sort_order, created_at
		FROM option_types ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list option types: %w", err)
	}
	defer rows.Close()

	types := []domain.OptionType{}
	for rows.Next() {
		var o domain.OptionType
		if err := rows.Scan(&o.ID, &o.Name, &o.Values, &o.IsActive, &o.SortOrder, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan option type: %w", err)
		}
		types = append(types, o)
	}
	return types, rows.Err()
}

func (r *catalogRepository) CreateOptionType(ctx context.Context, o *domain.OptionType) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO option_types (id, name, values, is_active, sort_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.Name, o.Values, o.IsActive, o.SortOrder, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create option type: %w", err)
	}
	return nil
}

func (r *catalogRepository) UpdateOptionType(ctx context.Context, o *domain.OptionType) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE option_types SET name = $2, values = $3, is_active = $4, sort_order = $5
		WHERE id = $1`,
		o.ID, o.Name, o.Values, o.IsActive, o.SortOrder)
	if err != nil {
		return fmt.Errorf("failed to update option type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("option type not found")
	}
	return nil
}

func (r *catalogRepository) DeleteOptionType(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM option_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete option type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("option type not found")
	}
	return nil
}

// --- Tags ---

func (r *catalogRepository) GetTags(ctx context.Context) ([]domain.Tag, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, slug, is_active, sort_order, created_at
		FROM tags ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.IsActive, &t.SortOrder, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *catalogRepository) GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	var t domain.Tag
	err := r.db.QueryRow(ctx, `
		SELECT id, name, slug, is_active, sort_order, created_at
		FROM tags WHERE slug = $1`, slug,
	).Scan(&t.ID, &t.Name, &t.Slug, &t.IsActive, &t.SortOrder, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find tag: %w", err)
	}
	return &t, nil
}

func (r *catalogRepository) CreateTag(ctx context.Context, t *domain.Tag) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO tags (id, name, slug, is_active, sort_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.Name, t.Slug, t.IsActive, t.SortOrder, t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("tag slug %q is already taken", t.Slug)
		}
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

func (r *catalogRepository) UpdateTag(ctx context.Context, t *domain.Tag) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE tags SET name = $2, slug = $3, is_active = $4, sort_order = $5
		WHERE id = $1`,
		t.ID, t.Name, t.Slug, t.IsActive, t.SortOrder)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("tag slug %q is already taken", t.Slug)
		}
		return fmt.Errorf("failed to update tag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("tag not found")
	}
	return nil
}

func (r *catalogRepository) DeleteTag(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("tag not found")
	}
	return nil
}
