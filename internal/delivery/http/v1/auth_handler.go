package v1

import (
	"net/http"

	"kalabin-backend/internal/domain"
	"kalabin-backend/internal/usecase"
	"kalabin-backend/pkg/logger"
	"kalabin-backend/pkg/utils"

	"github.com/goccy/go-json"
)

type AuthHandler struct {
	authUC *usecase.AuthUsecase
}

func NewAuthHandler(authUC *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUC: authUC}
}

const refreshCookieName = "refresh_token"

func setRefreshCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   maxAge,
	})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, domain.BadRequest("invalid JSON body"))
		return
	}

	accessToken, refreshToken, user, err := h.authUC.Login(r.Context(), req.Email, req.Password, r.UserAgent())
	if err != nil {
		respondError(w, r, err)
		return
	}

	setRefreshCookie(w, refreshToken, 7*24*60*60)
	logger.WithContext(r.Context()).Info().Str("user_id", user.ID).Msg("user logged in")

	respondData(w, http.StatusOK, map[string]interface{}{
		"accessToken": accessToken,
		"user":        user,
	})
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, domain.BadRequest("invalid JSON body"))
		return
	}

	user, err := h.authUC.Register(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, user)
}

// Refresh handles POST /api/v1/auth/refresh with rotation: the presented
// cookie is revoked and replaced.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "refresh token missing")
		return
	}

	accessToken, refreshToken, user, err := h.authUC.RefreshAccessToken(r.Context(), cookie.Value, r.UserAgent())
	if err != nil {
		// Clear cookie if invalid
		setRefreshCookie(w, "", -1)
		respondError(w, r, err)
		return
	}

	setRefreshCookie(w, refreshToken, 7*24*60*60)
	respondData(w, http.StatusOK, map[string]interface{}{
		"accessToken": accessToken,
		"user":        user,
	})
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(refreshCookieName); err == nil {
		if err := h.authUC.Logout(r.Context(), cookie.Value); err != nil {
			respondError(w, r, err)
			return
		}
	}
	setRefreshCookie(w, "", -1)
	respondMessage(w, http.StatusOK, "logged out")
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(domain.UserContextKey).(*domain.User)
	if !ok || user == nil {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	full, err := h.authUC.GetUserByID(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, full)
}

// UpdateProfile handles PATCH /api/v1/auth/me.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(domain.UserContextKey).(*domain.User)
	if !ok || user == nil {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Phone     string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, domain.BadRequest("invalid JSON body"))
		return
	}

	updated, err := h.authUC.UpdateProfile(r.Context(), user.ID, req.FirstName, req.LastName, req.Phone)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, updated)
}

// ListUsers handles GET /api/v1/admin/users.
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := utils.ParseInt(q.Get("limit"), 20)
	offset := 0
	if page := utils.ParseInt(q.Get("page"), 1); page > 1 {
		offset = (page - 1) * limit
	}

	users, total, err := h.authUC.GetAllUsers(r.Context(), limit, offset)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondList(w, users, paginationMeta(limit, offset, total))
}
