package v1

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/madhava-poojari/coursebook-api/internal/apperr"
	"github.com/madhava-poojari/coursebook-api/internal/config"
	"github.com/madhava-poojari/coursebook-api/internal/service"
	"github.com/madhava-poojari/coursebook-api/internal/utils"
)

const refreshCookieName = "refresh_token"

type AuthHandler struct {
	cfg    *config.Config
	user   *service.UserService
	logger *slog.Logger
}

func NewAuthHandler(cfg *config.Config, userSvc *service.UserService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{cfg: cfg, user: userSvc, logger: logger}
}

// decodeJSON reads the body into dst. An empty body leaves dst untouched so
// the field checks report the missing values.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperr.Wrap(apperr.ErrValidation, err)
	}
	return nil
}

// POST /users/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     interface{} `json:"name"`
		Email    interface{} `json:"email"`
		Password interface{} `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}

	user, err := h.user.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, map[string]interface{}{
		"user": map[string]string{"id": user.ID, "name": user.Name},
	})
}

// POST /users/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    interface{} `json:"email"`
		Password interface{} `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}

	sess, err := h.user.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	h.setRefreshCookie(w, r, sess.RefreshToken, sess.RefreshUntil)
	utils.WriteSuccess(w, http.StatusCreated, map[string]interface{}{
		"token": sess.AccessToken,
		"user":  map[string]string{"name": sess.User.Name},
	})
}

// POST /users/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(refreshCookieName)
	if err != nil {
		utils.WriteError(w, h.logger, apperr.ErrInvalidRefresh)
		return
	}
	sess, err := h.user.Refresh(r.Context(), c.Value)
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	h.setRefreshCookie(w, r, sess.RefreshToken, sess.RefreshUntil)
	utils.WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"token":      sess.AccessToken,
		"expires_in": int64(h.cfg.AccessTokenTTL.Seconds()),
	})
}

// POST /users/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(refreshCookieName); err == nil {
		if err := h.user.Logout(r.Context(), c.Value); err != nil {
			utils.WriteError(w, h.logger, err)
			return
		}
	}
	h.setRefreshCookie(w, r, "", time.Unix(0, 0))
	utils.WriteSuccess(w, http.StatusOK, nil)
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, r *http.Request, value string, expires time.Time) {
	host := r.Host
	if i := strings.Index(host, ":"); i >= 0 {
		host = host[:i]
	}
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		Domain:   host,
		Expires:  expires,
	})
}
