package v1

import (
	"errors"
	"net/http"

	"kalabin-backend/internal/domain"
	"kalabin-backend/pkg/logger"
	"kalabin-backend/pkg/utils"
)

func respondData(w http.ResponseWriter, status int, data interface{}) {
	utils.WriteJSON(w, status, domain.Response{Success: true, Data: data})
}

func respondList(w http.ResponseWriter, data interface{}, meta domain.Pagination) {
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: data, Meta: meta})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	utils.WriteJSON(w, status, domain.Response{Success: true, Message: message})
}

// respondError maps the pipeline error taxonomy onto HTTP statuses. Internal
// causes are logged but never leak into the body.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := domain.HTTPStatus(err)
	if status >= 500 {
		logger.WithContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}

	body := domain.Response{Error: true, Message: domain.UserMessage(err)}
	var de *domain.Error
	if errors.As(err, &de) && len(de.Fields) > 0 {
		body.Data = map[string]interface{}{"fields": de.Fields}
	}
	utils.WriteJSON(w, status, body)
}

func paginationMeta(limit, offset int, total int64) domain.Pagination {
	if limit <= 0 {
		limit = 20
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return domain.Pagination{
		Page:       offset/limit + 1,
		Limit:      limit,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
