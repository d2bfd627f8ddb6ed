package domain

// Product lifecycle statuses
const (
	StatusDraft    = "DRAFT"
	StatusActive   = "ACTIVE"
	StatusArchived = "ARCHIVED"
)

// Stock statuses
const (
	StockInStock    = "IN_STOCK"
	StockOutOfStock = "OUT_OF_STOCK"
	StockPreorder   = "PREORDER"
)

// Media entry types
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
	MediaTypeGif   = "gif"
	MediaTypeEmbed = "embed"
)

// Policy block modes (return policy / handling time)
const (
	PolicyModeTemplate = "TEMPLATE"
	PolicyModeCustom   = "CUSTOM"
)

// FallbackCurrencies is consulted when the currency catalog is empty.
var FallbackCurrencies = []string{"IRT", "IRR", "USD"}

// List exports for the admin enums endpoint
var ProductStatuses = []string{
	StatusDraft,
	StatusActive,
	StatusArchived,
}

var StockStatuses = []string{
	StockInStock,
	StockOutOfStock,
	StockPreorder,
}

var MediaTypes = []string{
	MediaTypeImage,
	MediaTypeVideo,
	MediaTypeGif,
	MediaTypeEmbed,
}

// UpdatableProductFields is the allow-list for product update patches. A patch
// containing any key outside this set is rejected wholesale.
var UpdatableProductFields = []string{
	"title", "slug", "shortDescription", "overviewHtml", "categoryId", "brandId",
	"tags", "status", "visible", "price", "currency", "compareAt", "cost",
	"inventory", "stockStatus", "lowStockThreshold", "publishAt",
	"allowBackorder", "restockNotifyEnabled", "hasVariants", "options",
	"variants", "media", "images", "videos", "attributes", "techSpecs", "faqs",
	"seo", "shipping", "warranty", "returnPolicy", "handlingTime", "related",
	"breadcrumbsCache",
}

func IsValidStatus(s string) bool {
	return s == StatusDraft || s == StatusActive || s == StatusArchived
}

func IsValidStockStatus(s string) bool {
	return s == StockInStock || s == StockOutOfStock || s == StockPreorder
}

func IsValidMediaType(t string) bool {
	return t == MediaTypeImage || t == MediaTypeVideo || t == MediaTypeGif || t == MediaTypeEmbed
}
