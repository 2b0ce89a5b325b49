package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/madhava-poojari/coursebook-api/internal/service"
	"github.com/madhava-poojari/coursebook-api/internal/utils"
)

// CoachHandler serves the public coach directory.
type CoachHandler struct {
	coaches *service.CoachService
	logger  *slog.Logger
}

func NewCoachHandler(coaches *service.CoachService, logger *slog.Logger) *CoachHandler {
	return &CoachHandler{coaches: coaches, logger: logger}
}

// GET /coaches?per=&page=
func (h *CoachHandler) ListCoaches(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := h.coaches.List(r.Context(), q.Get("per"), q.Get("page"))
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, rows)
}

// GET /coaches/{coachId}
func (h *CoachHandler) GetCoach(w http.ResponseWriter, r *http.Request) {
	p, err := h.coaches.Get(r.Context(), chi.URLParam(r, "coachId"))
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, p)
}

// GET /coaches/{coachId}/courses
func (h *CoachHandler) GetCoachCourses(w http.ResponseWriter, r *http.Request) {
	rows, err := h.coaches.Courses(r.Context(), chi.URLParam(r, "coachId"))
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, rows)
}
