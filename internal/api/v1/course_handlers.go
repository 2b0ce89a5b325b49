package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/madhava-poojari/coursebook-api/internal/auth"
	"github.com/madhava-poojari/coursebook-api/internal/service"
	"github.com/madhava-poojari/coursebook-api/internal/utils"
)

type CourseHandler struct {
	courses *service.CourseService
	ledger  *service.Ledger
	logger  *slog.Logger
}

func NewCourseHandler(courses *service.CourseService, ledger *service.Ledger, logger *slog.Logger) *CourseHandler {
	return &CourseHandler{courses: courses, ledger: ledger, logger: logger}
}

// GET /courses
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	rows, err := h.courses.List(r.Context())
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, rows)
}

// POST /courses/{courseId}
func (h *CourseHandler) Register(w http.ResponseWriter, r *http.Request) {
	current := auth.GetUserFromCtx(r.Context())
	if err := h.ledger.Register(r.Context(), current.ID, chi.URLParam(r, "courseId")); err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, nil)
}

// DELETE /courses/{courseId}
func (h *CourseHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	current := auth.GetUserFromCtx(r.Context())
	if err := h.ledger.Cancel(r.Context(), current.ID, chi.URLParam(r, "courseId")); err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, nil)
}
