package v1

import (
	"net/http"

	"kalabin-backend/internal/domain"
	"kalabin-backend/internal/usecase"
	"kalabin-backend/pkg/utils"
)

// CatalogHandler serves the public storefront surface: only ACTIVE, visible
// products, with the cost projection stripped.
type CatalogHandler struct {
	productUC *usecase.ProductUsecase
	catalogUC *usecase.CatalogUsecase
}

func NewCatalogHandler(productUC *usecase.ProductUsecase, catalogUC *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{productUC: productUC, catalogUC: catalogUC}
}

// ListProducts handles GET /api/v1/products.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ProductFilter{
		CategoryID:  q.Get("categoryId"),
		Query:       q.Get("search"),
		Tag:         q.Get("tag"),
		Sort:        q.Get("sort"),
		Limit:       utils.ParseInt(q.Get("limit"), 20),
		VisibleOnly: true,
	}
	if page := utils.ParseInt(q.Get("page"), 1); page > 1 {
		filter.Offset = (page - 1) * filter.Limit
	}

	views, total, err := h.productUC.ListProducts(r.Context(), filter, false)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondList(w, views, paginationMeta(filter.Limit, filter.Offset, total))
}

// GetProductBySlug handles GET /api/v1/products/{slug}.
func (h *CatalogHandler) GetProductBySlug(w http.ResponseWriter, r *http.Request) {
	view, err := h.productUC.GetProductBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, view)
}

// GetCategories handles GET /api/v1/categories.
func (h *CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.catalogUC.GetCategories(r.Context(), true)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, cats)
}

// GetTags handles GET /api/v1/tags.
func (h *CatalogHandler) GetTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.catalogUC.GetTags(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, tags)
}
