package v1

import (
	"net/http"

	"kalabin-backend/internal/domain"
	"kalabin-backend/internal/usecase"
	"kalabin-backend/pkg/utils"
)

// AdminProductHandler exposes the product write pipeline to the back office.
type AdminProductHandler struct {
	productUC *usecase.ProductUsecase
}

func NewAdminProductHandler(uc *usecase.ProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{productUC: uc}
}

// CreateProduct handles POST /api/v1/admin/products.
func (h *AdminProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	patch, err := usecase.DecodeProductPatch(r.Body)
	if err != nil {
		respondError(w, r, err)
		return
	}

	view, err := h.productUC.CreateProduct(r.Context(), patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, view)
}

// UpdateProduct handles PATCH /api/v1/admin/products/{id}.
func (h *AdminProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	patch, err := usecase.DecodeProductPatch(r.Body)
	if err != nil {
		respondError(w, r, err)
		return
	}

	view, err := h.productUC.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, view)
}

// GetProduct handles GET /api/v1/admin/products/{id}.
func (h *AdminProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	view, err := h.productUC.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, view)
}

// ListProducts handles GET /api/v1/admin/products.
func (h *AdminProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := productFilterFromQuery(r)

	views, total, err := h.productUC.ListProducts(r.Context(), filter, true)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondList(w, views, paginationMeta(filter.Limit, filter.Offset, total))
}

// ArchiveProduct handles DELETE /api/v1/admin/products/{id}.
func (h *AdminProductHandler) ArchiveProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.productUC.ArchiveProduct(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "product archived")
}

// HardDeleteProduct handles DELETE /api/v1/admin/products/{id}/permanent.
func (h *AdminProductHandler) HardDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.productUC.PermanentDeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "product deleted")
}

func productFilterFromQuery(r *http.Request) domain.ProductFilter {
	q := r.URL.Query()
	filter := domain.ProductFilter{
		CategoryID: q.Get("categoryId"),
		Status:     q.Get("status"),
		Query:      q.Get("search"),
		Tag:        q.Get("tag"),
		Sort:       q.Get("sort"),
		Limit:      utils.ParseInt(q.Get("limit"), 20),
	}
	if page := utils.ParseInt(q.Get("page"), 1); page > 1 {
		filter.Offset = (page - 1) * filter.Limit
	}
	return filter
}
