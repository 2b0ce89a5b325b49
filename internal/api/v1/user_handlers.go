package v1

import (
	"log/slog"
	"net/http"

	"github.com/madhava-poojari/coursebook-api/internal/auth"
	"github.com/madhava-poojari/coursebook-api/internal/service"
	"github.com/madhava-poojari/coursebook-api/internal/utils"
)

type UserHandler struct {
	user   *service.UserService
	logger *slog.Logger
}

func NewUserHandler(userSvc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{user: userSvc, logger: logger}
}

// GET /users/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	current := auth.GetUserFromCtx(r.Context())
	u, err := h.user.Profile(r.Context(), current.ID)
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"user": map[string]string{"name": u.Name, "email": u.Email},
	})
}

// PUT /users/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name interface{} `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	current := auth.GetUserFromCtx(r.Context())
	if err := h.user.UpdateName(r.Context(), current.ID, req.Name); err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "", nil)
}

// PUT /users/password
func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password           interface{} `json:"password"`
		NewPassword        interface{} `json:"new_password"`
		ConfirmNewPassword interface{} `json:"confirm_new_password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	current := auth.GetUserFromCtx(r.Context())
	if err := h.user.ChangePassword(r.Context(), current.ID, req.Password, req.NewPassword, req.ConfirmNewPassword); err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, nil)
}

// GET /users/credit-package
func (h *UserHandler) GetCreditPurchases(w http.ResponseWriter, r *http.Request) {
	current := auth.GetUserFromCtx(r.Context())
	rows, err := h.user.CreditPurchases(r.Context(), current.ID)
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, rows)
}

// GET /users/courses
func (h *UserHandler) GetBookedCourses(w http.ResponseWriter, r *http.Request) {
	current := auth.GetUserFromCtx(r.Context())
	out, err := h.user.MyCourses(r.Context(), current.ID)
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, out)
}
