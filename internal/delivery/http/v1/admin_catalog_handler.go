package v1

import (
	"net/http"

	"kalabin-backend/internal/domain"
	"kalabin-backend/internal/usecase"

	"github.com/goccy/go-json"
)

// AdminCatalogHandler manages the reference entities: categories, currencies,
// option types and tags.
type AdminCatalogHandler struct {
	catalogUC *usecase.CatalogUsecase
}

func NewAdminCatalogHandler(uc *usecase.CatalogUsecase) *AdminCatalogHandler {
	return &AdminCatalogHandler{catalogUC: uc}
}

// --- Categories ---

func (h *AdminCatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("isActive") == "true"
	cats, err := h.catalogUC.GetCategories(r.Context(), activeOnly)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, cats)
}

func (h *AdminCatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var category domain.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		respondError(w, r, domain.BadRequest("invalid JSON body"))
		return
	}
	if err := h.catalogUC.CreateCategory(r.Context(), &category); err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, category)
}

func (h *AdminCatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var category domain.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		respondError(w, r, domain.BadRequest("invalid JSON body"))
		return
	}
	category.ID = r.PathValue("id")
	if err := h.catalogUC.UpdateCategory(r.Context(), &category); err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, category)
}

func (h *AdminCatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogUC.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "category deleted")
}

// --- Currencies ---

func (h *AdminCatalogHandler) GetCurrencies(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.catalogUC.GetCurrencies(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, currencies)
}

func (h *AdminCatalogHandler) CreateCurrency(w http.ResponseWriter, r *http.Request) {
	var currency domain.Currency
	if err := json.NewDecoder(r.Body).Decode(&currency); err != nil {
		respondError(w, r, domain.BadRequest("invalid JSON body"))
		return
	}
	if err := h.catalogUC.CreateCurrency(r.Context(), &currency); err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, currency)
}

func (h *AdminCatalogHandler) UpdateCurrency(w http.ResponseWriter, r *http.Request) {
	var currency domain.Currency
	if err := json.NewDecoder(r.Body).Decode(&currency); err != nil {
		respondError(w, r, domain.BadRequest("invalid JSON body"))
		return
	}
	currency.ID = r.PathValue("id")
	if err := h.catalogUC.UpdateCurrency(r.Context(), &currency); err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, currency)
}

func (h *AdminCatalogHandler) DeleteCurrency(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogUC.DeleteCurrency(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "currency deleted")
}

// --- Option types ---

func (h *AdminCatalogHandler) GetOptionTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.catalogUC.GetOptionTypes(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, types)
}

func (h *AdminCatalogHandler) CreateOptionType(w http.ResponseWriter, r *http.Request) {
	var optionType domain.OptionType
	if err := json.NewDecoder(r.Body).Decode(&optionType); err != nil {
		respondError(w, r, domain.BadRequest("invalid JSON body"))
		return
	}
	if err := h.catalogUC.CreateOptionType(r.Context(), &optionType); err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, optionType)
}

func (h *AdminCatalogHandler) UpdateOptionType(w http.ResponseWriter, r *http.Request) {
	var optionType domain.OptionType
	if err := json.NewDecoder(r.Body).Decode(&optionType); err != nil {
		respondError(w, r, domain.BadRequest("invalid JSON body"))
		return
	}
	optionType.ID = r.PathValue("id")
	if err := h.catalogUC.UpdateOptionType(r.Context(), &optionType); err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, optionType)
}

func (h *AdminCatalogHandler) DeleteOptionType(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogUC.DeleteOptionType(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "option type deleted")
}

// --- Tags ---

func (h *AdminCatalogHandler) GetTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.catalogUC.GetTags(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, tags)
}

func (h *AdminCatalogHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var tag domain.Tag
	if err := json.NewDecoder(r.Body).Decode(&tag); err != nil {
		respondError(w, r, domain.BadRequest("invalid JSON body"))
		return
	}
	if err := h.catalogUC.CreateTag(r.Context(), &tag); err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, tag)
}

func (h *AdminCatalogHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	var tag domain.Tag
	if err := json.NewDecoder(r.Body).Decode(&tag); err != nil {
		respondError(w, r, domain.BadRequest("invalid JSON body"))
		return
	}
	tag.ID = r.PathValue("id")
	if err := h.catalogUC.UpdateTag(r.Context(), &tag); err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, tag)
}

func (h *AdminCatalogHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogUC.DeleteTag(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "tag deleted")
}
