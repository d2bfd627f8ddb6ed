package pgrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kalabin-backend/internal/domain"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type productRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) domain.ProductRepository {
	return &productRepository{db: db}
}

// Nested blocks live in jsonb columns; scalars get their own columns so the
// list filters can hit indexes. Slug is stored as NULL when empty, which lets
// a plain unique index coexist with any number of slug-less drafts.

const productColumns = `
	id, title, COALESCE(slug, ''), status, visible, publish_at,
	COALESCE(category_id, ''), brand_id, tags,
	price, currency, compare_at, cost,
	inventory_manage, inventory_qty, stock_status, low_stock_threshold,
	allow_backorder, restock_notify_enabled,
	has_variants, options, variants,
	media, images, videos,
	short_description, overview_html, attributes, tech_specs, faqs,
	seo, shipping, warranty, return_policy, handling_time, related,
	breadcrumbs_cache, created_at, updated_at`

// productColumnsQualified is the same select list with every column anchored
// to the products alias. Joins need it: categories carries its own id,
// created_at and updated_at, and Postgres rejects the bare names as ambiguous.
const productColumnsQualified = `
	p.id, p.title, COALESCE(p.slug, ''), p.status, p.visible, p.publish_at,
	COALESCE(p.category_id, ''), p.brand_id, p.tags,
	p.price, p.currency, p.compare_at, p.cost,
	p.inventory_manage, p.inventory_qty, p.stock_status, p.low_stock_threshold,
	p.allow_backorder, p.restock_notify_enabled,
	p.has_variants, p.options, p.variants,
	p.media, p.images, p.videos,
	p.short_description, p.overview_html, p.attributes, p.tech_specs, p.faqs,
	p.seo, p.shipping, p.warranty, p.return_policy, p.handling_time, p.related,
	p.breadcrumbs_cache, p.created_at, p.updated_at`

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	blocks, err := marshalProductBlocks(p)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (
			id, title, slug, status, visible, publish_at,
			category_id, brand_id, tags,
			price, currency, compare_at, cost,
			inventory_manage, inventory_qty, stock_status, low_stock_threshold,
			allow_backorder, restock_notify_enabled,
			has_variants, options, variants,
			media, images, videos,
			short_description, overview_html, attributes, tech_specs, faqs,
			seo, shipping, warranty, return_policy, handling_time, related,
			breadcrumbs_cache, created_at, updated_at
		) VALUES (
			$1, $2, NULLIF($3, ''), $4, $5, $6,
			NULLIF($7, ''), $8, $9,
			$10, $11, $12, $13,
			$14, $15, $16, $17,
			$18, $19,
			$20, $21, $22,
			$23, $24, $25,
			$26, $27, $28, $29, $30,
			$31, $32, $33, $34, $35, $36,
			$37, $38, $39
		)`

	_, err = r.db.Exec(ctx, query, r.writeArgs(p, blocks)...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("slug %q is already in use", p.Slug)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *productRepository) Save(ctx context.Context, p *domain.Product) error {
	blocks, err := marshalProductBlocks(p)
	if err != nil {
		return err
	}

	query := `
		UPDATE products SET
			title = $2, slug = NULLIF($3, ''), status = $4, visible = $5, publish_at = $6,
			category_id = NULLIF($7, ''), brand_id = $8, tags = $9,
			price = $10, currency = $11, compare_at = $12, cost = $13,
			inventory_manage = $14, inventory_qty = $15, stock_status = $16, low_stock_threshold = $17,
			allow_backorder = $18, restock_notify_enabled = $19,
			has_variants = $20, options = $21, variants = $22,
			media = $23, images = $24, videos = $25,
			short_description = $26, overview_html = $27, attributes = $28, tech_specs = $29, faqs = $30,
			seo = $31, shipping = $32, warranty = $33, return_policy = $34, handling_time = $35, related = $36,
			breadcrumbs_cache = $37, created_at = $38, updated_at = $39
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, r.writeArgs(p, blocks)...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("slug %q is already in use", p.Slug)
		}
		return fmt.Errorf("failed to save product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("product not found")
	}
	return nil
}

func (r *productRepository) writeArgs(p *domain.Product, b productBlocks) []interface{} {
	return []interface{}{
		p.ID, p.Title, p.Slug, p.Status, p.Visible, p.PublishAt,
		p.CategoryID, p.BrandID, p.Tags,
		p.Price, p.Currency, p.CompareAt, p.Cost,
		p.Inventory.Manage, p.Inventory.Qty, p.StockStatus, p.LowStockThreshold,
		p.AllowBackorder, p.RestockNotifyEnabled,
		p.HasVariants, b.options, b.variants,
		b.media, b.images, b.videos,
		p.ShortDescription, p.OverviewHTML, b.attributes, b.techSpecs, b.faqs,
		b.seo, b.shipping, p.Warranty, b.returnPolicy, b.handlingTime, b.related,
		b.breadcrumbs, p.CreatedAt, p.UpdatedAt,
	}
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

func (r *productRepository) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE slug = $1`
	return r.queryOne(ctx, query, slug)
}

func (r *productRepository) FindByIDWithCategory(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT ` + productColumnsQualified + `,
			c.id, c.name, c.slug, c.parent_id, c.is_active, c.sort_order, c.created_at, c.updated_at
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`

	row := r.db.QueryRow(ctx, query, id)

	var p domain.Product
	var b productBlocks
	var cat scannedCategory
	dest := append(productScanDest(&p, &b),
		&cat.id, &cat.name, &cat.slug, &cat.parentID, &cat.isActive, &cat.sortOrder, &cat.createdAt, &cat.updatedAt)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	if err := unmarshalProductBlocks(&p, b); err != nil {
		return nil, err
	}
	p.Category = cat.toDomain()
	return &p, nil
}

func (r *productRepository) ExistsBySlug(ctx context.Context, slug, excludeID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE slug = $1 AND id <> $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}

func (r *productRepository) HardDelete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("product not found")
	}
	return nil
}

func (r *productRepository) CountByCurrency(ctx context.Context, code string) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE currency = $1`, code).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count products by currency: %w", err)
	}
	return n, nil
}

func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	var conds []string
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.CategoryID != "" {
		add("category_id = $%d", filter.CategoryID)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.Query != "" {
		add("(title ILIKE $%d OR short_description ILIKE $%[1]d)", "%"+filter.Query+"%")
	}
	if filter.Tag != "" {
		add("$%d = ANY(tags)", filter.Tag)
	}
	if filter.VisibleOnly {
		conds = append(conds, "status = 'ACTIVE' AND visible = TRUE")
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	orderBy := "created_at DESC"
	switch filter.Sort {
	case "price_asc":
		orderBy = "price ASC NULLS LAST"
	case "price_desc":
		orderBy = "price DESC NULLS LAST"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM products%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		productColumns, where, orderBy, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		var b productBlocks
		if err := rows.Scan(productScanDest(&p, &b)...); err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		if err := unmarshalProductBlocks(&p, b); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}
	return products, total, nil
}

func (r *productRepository) queryOne(ctx context.Context, query string, arg interface{}) (*domain.Product, error) {
	var p domain.Product
	var b productBlocks
	if err := r.db.QueryRow(ctx, query, arg).Scan(productScanDest(&p, &b)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	if err := unmarshalProductBlocks(&p, b); err != nil {
		return nil, err
	}
	return &p, nil
}

// --- jsonb block plumbing ---

type productBlocks struct {
	options      []byte
	variants     []byte
	media        []byte
	images       []byte
	videos       []byte
	attributes   []byte
	techSpecs    []byte
	faqs         []byte
	seo          []byte
	shipping     []byte
	returnPolicy []byte
	handlingTime []byte
	related      []byte
	breadcrumbs  []byte
}

func marshalProductBlocks(p *domain.Product) (productBlocks, error) {
	var b productBlocks
	var err error
	marshal := func(v interface{}) []byte {
		if err != nil {
			return nil
		}
		var raw []byte
		raw, err = json.Marshal(v)
		return raw
	}

	b.options = marshal(p.Options)
	b.variants = marshal(p.Variants)
	b.media = marshal(p.Media)
	b.images = marshal(p.Images)
	b.videos = marshal(p.Videos)
	b.attributes = marshal(p.Attributes)
	b.techSpecs = marshal(p.TechSpecs)
	b.faqs = marshal(p.FAQs)
	b.seo = marshal(p.SEO)
	b.shipping = marshal(p.Shipping)
	b.returnPolicy = marshal(p.ReturnPolicy)
	b.handlingTime = marshal(p.HandlingTime)
	b.related = marshal(p.Related)
	if err != nil {
		return b, fmt.Errorf("failed to encode product blocks: %w", err)
	}
	if len(p.BreadcrumbsCache) > 0 {
		b.breadcrumbs = []byte(p.BreadcrumbsCache)
	} else {
		b.breadcrumbs = []byte("null")
	}
	return b, nil
}

func unmarshalProductBlocks(p *domain.Product, b productBlocks) error {
	var err error
	unmarshal := func(raw []byte, v interface{}) {
		if err != nil || len(raw) == 0 || string(raw) == "null" {
			return
		}
		err = json.Unmarshal(raw, v)
	}

	unmarshal(b.options, &p.Options)
	unmarshal(b.variants, &p.Variants)
	unmarshal(b.media, &p.Media)
	unmarshal(b.images, &p.Images)
	unmarshal(b.videos, &p.Videos)
	unmarshal(b.attributes, &p.Attributes)
	unmarshal(b.techSpecs, &p.TechSpecs)
	unmarshal(b.faqs, &p.FAQs)
	unmarshal(b.seo, &p.SEO)
	unmarshal(b.shipping, &p.Shipping)
	unmarshal(b.returnPolicy, &p.ReturnPolicy)
	unmarshal(b.handlingTime, &p.HandlingTime)
	unmarshal(b.related, &p.Related)
	if err != nil {
		return fmt.Errorf("failed to decode product blocks: %w", err)
	}
	if len(b.breadcrumbs) > 0 && string(b.breadcrumbs) != "null" {
		p.BreadcrumbsCache = domain.RawJSON(b.breadcrumbs)
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return nil
}

func productScanDest(p *domain.Product, b *productBlocks) []interface{} {
	return []interface{}{
		&p.ID, &p.Title, &p.Slug, &p.Status, &p.Visible, &p.PublishAt,
		&p.CategoryID, &p.BrandID, &p.Tags,
		&p.Price, &p.Currency, &p.CompareAt, &p.Cost,
		&p.Inventory.Manage, &p.Inventory.Qty, &p.StockStatus, &p.LowStockThreshold,
		&p.AllowBackorder, &p.RestockNotifyEnabled,
		&p.HasVariants, &b.options, &b.variants,
		&b.media, &b.images, &b.videos,
		&p.ShortDescription, &p.OverviewHTML, &b.attributes, &b.techSpecs, &b.faqs,
		&b.seo, &b.shipping, &p.Warranty, &b.returnPolicy, &b.handlingTime, &b.related,
		&b.breadcrumbs, &p.CreatedAt, &p.UpdatedAt,
	}
}
