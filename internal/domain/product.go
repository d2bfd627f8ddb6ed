package domain

import (
	"context"
	"time"
)

// Media is one entry of the unified gallery. Key references an object in
// storage; URL is used for externally hosted and embed entries.
type Media struct {
	Type      string `json:"type"`
	Key       string `json:"key,omitempty"`
	URL       string `json:"url,omitempty"`
	Poster    string `json:"poster,omitempty"`
	Alt       string `json:"alt,omitempty"`
	IsPrimary bool   `json:"isPrimary"`
	Order     int    `json:"order"`
}

// Image is the legacy url-based gallery entry, kept for backward
// compatibility with older admin payloads.
type Image struct {
	URL       string `json:"url"`
	Alt       string `json:"alt"`
	IsPrimary bool   `json:"isPrimary"`
}

// Video is the legacy standalone video entry.
type Video struct {
	URL    string `json:"url"`
	Poster string `json:"poster,omitempty"`
	Title  string `json:"title,omitempty"`
}

type Option struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type Inventory struct {
	Manage bool  `json:"manage"`
	Qty    int64 `json:"qty"`
}

// Variant carries its own commerce and inventory figures. VariantKey must be
// unique within one product's variant list.
type Variant struct {
	VariantKey  string            `json:"variantKey"`
	Options     map[string]string `json:"options,omitempty"`
	Price       *int64            `json:"price,omitempty"`
	CompareAt   *int64            `json:"compareAt,omitempty"`
	Inventory   Inventory         `json:"inventory"`
	StockStatus string            `json:"stockStatus,omitempty"`
}

type Attribute struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	PinToHero bool   `json:"pinToHero"`
}

type TechSpecItem struct {
	K string `json:"k"`
	V string `json:"v"`
}

type TechSpecSection struct {
	Title string         `json:"title,omitempty"`
	Items []TechSpecItem `json:"items"`
}

type FAQ struct {
	Question   string `json:"question"`
	AnswerHTML string `json:"answerHtml"`
	IsActive   bool   `json:"isActive"`
	SortOrder  int    `json:"sortOrder"`
}

type SEO struct {
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	CanonicalURL string `json:"canonicalUrl,omitempty"`
}

type Dimensions struct {
	Length *int64 `json:"length,omitempty"`
	Width  *int64 `json:"width,omitempty"`
	Height *int64 `json:"height,omitempty"`
}

type Shipping struct {
	Weight     *int64      `json:"weight,omitempty"`
	Dimensions *Dimensions `json:"dimensions,omitempty"`
}

// PolicyBlock is a template-or-custom text policy (return policy, handling time).
type PolicyBlock struct {
	Mode       string `json:"mode"`
	TemplateID string `json:"templateId,omitempty"`
	Body       string `json:"body,omitempty"`
}

type Related struct {
	ManualIDs            []string `json:"manualIds"`
	MatchByTags          bool     `json:"matchByTags"`
	AdminOnlySimilarTags []string `json:"adminOnlySimilarTags,omitempty"`
}

// Product is the central entity of the back office. Pointer fields are absent
// when nil; draft products may leave most of them unset.
type Product struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug"`
	Status    string     `json:"status"`
	Visible   bool       `json:"visible"`
	PublishAt *time.Time `json:"publishAt,omitempty"`

	CategoryID string    `json:"categoryId,omitempty"`
	Category   *Category `json:"category,omitempty"`
	BrandID    string    `json:"brandId,omitempty"`
	Tags       []string  `json:"tags"`

	Price     *int64 `json:"price,omitempty"`
	Currency  string `json:"currency,omitempty"`
	CompareAt *int64 `json:"compareAt,omitempty"`
	Cost      *int64 `json:"cost,omitempty"` // hidden from default read projections

	Inventory            Inventory `json:"inventory"`
	StockStatus          string    `json:"stockStatus"`
	LowStockThreshold    *int64    `json:"lowStockThreshold,omitempty"`
	AllowBackorder       bool      `json:"allowBackorder"`
	RestockNotifyEnabled bool      `json:"restockNotifyEnabled"`

	HasVariants bool      `json:"hasVariants"`
	Options     []Option  `json:"options,omitempty"`
	Variants    []Variant `json:"variants,omitempty"`

	Media  []Media `json:"media,omitempty"`
	Images []Image `json:"images,omitempty"`
	Videos []Video `json:"videos,omitempty"`

	ShortDescription string            `json:"shortDescription,omitempty"`
	OverviewHTML     string            `json:"overviewHtml,omitempty"`
	Attributes       []Attribute       `json:"attributes,omitempty"`
	TechSpecs        []TechSpecSection `json:"techSpecs,omitempty"`
	FAQs             []FAQ             `json:"faqs,omitempty"`
	SEO              *SEO              `json:"seo,omitempty"`
	Shipping         *Shipping         `json:"shipping,omitempty"`
	Warranty         string            `json:"warranty,omitempty"`
	ReturnPolicy     *PolicyBlock      `json:"returnPolicy,omitempty"`
	HandlingTime     *PolicyBlock      `json:"handlingTime,omitempty"`
	Related          *Related          `json:"related,omitempty"`
	BreadcrumbsCache RawJSON           `json:"breadcrumbsCache,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ProductFilter struct {
	CategoryID string
	Status     string
	Query      string
	Tag        string
	Sort       string // newest, price_asc, price_desc
	Limit      int
	Offset     int
	// VisibleOnly restricts to ACTIVE + visible, used by the storefront.
	VisibleOnly bool
}

// ProductRepository is the persistence gateway the orchestrators call. The
// slug pre-check is advisory; the unique index behind Create/Save is
// authoritative and surfaces as a Conflict.
type ProductRepository interface {
	ExistsBySlug(ctx context.Context, slug string, excludeID string) (bool, error)
	Create(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	FindByIDWithCategory(ctx context.Context, id string) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	Save(ctx context.Context, p *Product) error
	HardDelete(ctx context.Context, id string) error
	List(ctx context.Context, filter ProductFilter) ([]Product, int64, error)
	CountByCurrency(ctx context.Context, code string) (int64, error)
}
