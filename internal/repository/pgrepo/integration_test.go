package pgrepo

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"kalabin-backend/internal/domain"
	"kalabin-backend/pkg/utils"
)

var testPool *pgxpool.Pool

const testSchema = `
	CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT UNIQUE NOT NULL,
		parent_id TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		sort_order INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		slug TEXT,
		status TEXT NOT NULL,
		visible BOOLEAN NOT NULL DEFAULT FALSE,
		publish_at TIMESTAMPTZ,
		category_id TEXT REFERENCES categories(id),
		brand_id TEXT NOT NULL DEFAULT '',
		tags TEXT[] NOT NULL DEFAULT '{}',
		price BIGINT,
		currency TEXT NOT NULL DEFAULT '',
		compare_at BIGINT,
		cost BIGINT,
		inventory_manage BOOLEAN NOT NULL DEFAULT TRUE,
		inventory_qty BIGINT NOT NULL DEFAULT 0,
		stock_status TEXT NOT NULL DEFAULT '',
		low_stock_threshold BIGINT,
		allow_backorder BOOLEAN NOT NULL DEFAULT FALSE,
		restock_notify_enabled BOOLEAN NOT NULL DEFAULT FALSE,
		has_variants BOOLEAN NOT NULL DEFAULT FALSE,
		options JSONB,
		variants JSONB,
		media JSONB,
		images JSONB,
		videos JSONB,
		short_description TEXT NOT NULL DEFAULT '',
		overview_html TEXT NOT NULL DEFAULT '',
		attributes JSONB,
		tech_specs JSONB,
		faqs JSONB,
		seo JSONB,
		shipping JSONB,
		warranty TEXT NOT NULL DEFAULT '',
		return_policy JSONB,
		handling_time JSONB,
		related JSONB,
		breadcrumbs_cache JSONB,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS products_slug_key ON products (slug);
`

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, err
	}

	connStr := "postgres://" + dbUser + ":" + dbPwd + "@" + dbHost + ":" + dbPort.Port() + "/" + dbName + "?sslmode=disable"
	testPool, err = pgxpool.New(context.Background(), connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	if _, err := testPool.Exec(context.Background(), testSchema); err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}
}

func seedCategory(t *testing.T, name, slug string) *domain.Category {
	t.Helper()
	cat := &domain.Category{
		ID:        utils.GenerateUUID(),
		Name:      name,
		Slug:      slug,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, NewCatalogRepository(testPool).CreateCategory(context.Background(), cat))
	return cat
}

func testProduct(title, slug string) *domain.Product {
	price := int64(120000)
	now := time.Now().Truncate(time.Millisecond)
	return &domain.Product{
		ID:          utils.GenerateUUID(),
		Title:       title,
		Slug:        slug,
		Status:      domain.StatusDraft,
		Tags:        []string{"phone"},
		Price:       &price,
		Currency:    "IRT",
		Inventory:   domain.Inventory{Manage: true, Qty: 5},
		StockStatus: domain.StockInStock,
		Media: []domain.Media{
			{Type: domain.MediaTypeImage, Key: "products/a.webp", Alt: "front", IsPrimary: true},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestProductRepository_CreateAndFindWithCategory(t *testing.T) {
	repo := NewProductRepository(testPool)
	ctx := context.Background()

	cat := seedCategory(t, "Phones", "phones-itg-1")

	p := testProduct("Galaxy Fold", "galaxy-fold-itg")
	p.CategoryID = cat.ID
	require.NoError(t, repo.Create(ctx, p))

	// the joined read must resolve the shared column names (id, created_at,
	// updated_at) without ambiguity and hydrate the category
	got, err := repo.FindByIDWithCategory(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.Title, got.Title)
	assert.Equal(t, p.Slug, got.Slug)
	assert.Equal(t, cat.ID, got.CategoryID)
	require.NotNil(t, got.Category)
	assert.Equal(t, cat.Name, got.Category.Name)
	assert.Equal(t, p.Media, got.Media)
	require.NotNil(t, got.Price)
	assert.EqualValues(t, 120000, *got.Price)
}

func TestProductRepository_FindWithCategory_NoCategory(t *testing.T) {
	repo := NewProductRepository(testPool)
	ctx := context.Background()

	p := testProduct("Orphan", "orphan-itg")
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.FindByIDWithCategory(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.Category)
	assert.Empty(t, got.CategoryID)

	missing, err := repo.FindByIDWithCategory(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProductRepository_Save(t *testing.T) {
	repo := NewProductRepository(testPool)
	ctx := context.Background()

	p := testProduct("Before", "save-itg")
	require.NoError(t, repo.Create(ctx, p))

	p.Title = "After"
	p.Status = domain.StatusActive
	p.Visible = true
	p.Tags = []string{"phone", "sale"}
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "After", got.Title)
	assert.Equal(t, domain.StatusActive, got.Status)
	assert.True(t, got.Visible)
	assert.Equal(t, []string{"phone", "sale"}, got.Tags)

	ghost := testProduct("Ghost", "")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(repo.Save(ctx, ghost)))
}

func TestProductRepository_SlugUniqueness(t *testing.T) {
	repo := NewProductRepository(testPool)
	ctx := context.Background()

	first := testProduct("First", "same-slug-itg")
	require.NoError(t, repo.Create(ctx, first))

	second := testProduct("Second", "same-slug-itg")
	err := repo.Create(ctx, second)
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	// empty slugs store as NULL, so any number of drafts may omit theirs
	require.NoError(t, repo.Create(ctx, testProduct("Draft A", "")))
	require.NoError(t, repo.Create(ctx, testProduct("Draft B", "")))

	taken, err := repo.ExistsBySlug(ctx, "same-slug-itg", second.ID)
	require.NoError(t, err)
	assert.True(t, taken)

	own, err := repo.ExistsBySlug(ctx, "same-slug-itg", first.ID)
	require.NoError(t, err)
	assert.False(t, own)
}

func TestProductRepository_List(t *testing.T) {
	repo := NewProductRepository(testPool)
	ctx := context.Background()

	live := testProduct("Visible Phone", "list-live-itg")
	live.Status = domain.StatusActive
	live.Visible = true
	require.NoError(t, repo.Create(ctx, live))

	hidden := testProduct("Hidden Phone", "list-hidden-itg")
	require.NoError(t, repo.Create(ctx, hidden))

	visible, total, err := repo.List(ctx, domain.ProductFilter{VisibleOnly: true, Query: "Phone"})
	require.NoError(t, err)
	require.GreaterOrEqual(t, total, int64(1))
	for _, p := range visible {
		assert.Equal(t, domain.StatusActive, p.Status)
		assert.True(t, p.Visible)
	}

	tagged, _, err := repo.List(ctx, domain.ProductFilter{Tag: "phone", Status: domain.StatusActive})
	require.NoError(t, err)
	for _, p := range tagged {
		assert.Contains(t, p.Tags, "phone")
	}
}

func TestProductRepository_HardDeleteAndCount(t *testing.T) {
	repo := NewProductRepository(testPool)
	ctx := context.Background()

	p := testProduct("Doomed", "doomed-itg")
	p.Currency = "ZZZ"
	require.NoError(t, repo.Create(ctx, p))

	n, err := repo.CountByCurrency(ctx, "ZZZ")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, repo.HardDelete(ctx, p.ID))
	assert.Equal(t, domain.KindNotFound, domain.KindOf(repo.HardDelete(ctx, p.ID)))

	n, err = repo.CountByCurrency(ctx, "ZZZ")
	require.NoError(t, err)
	assert.Zero(t, n)
}
