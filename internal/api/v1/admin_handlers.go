package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/madhava-poojari/coursebook-api/internal/auth"
	"github.com/madhava-poojari/coursebook-api/internal/service"
	"github.com/madhava-poojari/coursebook-api/internal/utils"
)

// AdminHandler covers /admin/coaches: coach self-service plus promotion by an admin.
type AdminHandler struct {
	coaches *service.CoachService
	courses *service.CourseService
	revenue *service.RevenueService
	logger  *slog.Logger
}

func NewAdminHandler(coaches *service.CoachService, courses *service.CourseService, revenue *service.RevenueService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{coaches: coaches, courses: courses, revenue: revenue, logger: logger}
}

type coachProfileReq struct {
	ExperienceYears interface{} `json:"experience_years"`
	Description     interface{} `json:"description"`
	ProfileImageURL interface{} `json:"profile_image_url"`
	SkillIDs        interface{} `json:"skill_ids"`
}

// POST /admin/coaches/{userId}
func (h *AdminHandler) PromoteCoach(w http.ResponseWriter, r *http.Request) {
	var req coachProfileReq
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	res, err := h.coaches.Promote(r.Context(), chi.URLParam(r, "userId"), req.ExperienceYears, req.Description, req.ProfileImageURL)
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, res)
}

// GET /admin/coaches
func (h *AdminHandler) GetOwnProfile(w http.ResponseWriter, r *http.Request) {
	current := auth.GetUserFromCtx(r.Context())
	p, err := h.coaches.OwnProfile(r.Context(), current.ID)
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, p)
}

// PUT /admin/coaches
func (h *AdminHandler) UpdateOwnProfile(w http.ResponseWriter, r *http.Request) {
	var req coachProfileReq
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	current := auth.GetUserFromCtx(r.Context())
	url, err := h.coaches.UpdateProfile(r.Context(), current.ID, req.ExperienceYears, req.Description, req.ProfileImageURL, req.SkillIDs)
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, map[string]string{"image_url": url})
}

// GET /admin/coaches/revenue?month=
func (h *AdminHandler) GetRevenue(w http.ResponseWriter, r *http.Request) {
	current := auth.GetUserFromCtx(r.Context())
	total, err := h.revenue.MonthlyRevenue(r.Context(), current.ID, r.URL.Query().Get("month"))
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, map[string]interface{}{"total": total})
}

// POST /admin/coaches/courses
func (h *AdminHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var in service.CourseInput
	if err := decodeJSON(r, &in); err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	current := auth.GetUserFromCtx(r.Context())
	course, err := h.courses.Create(r.Context(), current.ID, in)
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, map[string]interface{}{"course": course})
}

// PUT /admin/coaches/courses/{courseId}
func (h *AdminHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	var in service.CourseInput
	if err := decodeJSON(r, &in); err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	current := auth.GetUserFromCtx(r.Context())
	course, err := h.courses.Update(r.Context(), current.ID, chi.URLParam(r, "courseId"), in)
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, map[string]interface{}{"course": course})
}

// GET /admin/coaches/courses
func (h *AdminHandler) ListOwnCourses(w http.ResponseWriter, r *http.Request) {
	current := auth.GetUserFromCtx(r.Context())
	rows, err := h.courses.OwnCourses(r.Context(), current.ID)
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, rows)
}

// GET /admin/coaches/courses/{courseId}
func (h *AdminHandler) GetOwnCourse(w http.ResponseWriter, r *http.Request) {
	current := auth.GetUserFromCtx(r.Context())
	row, err := h.courses.OwnCourse(r.Context(), current.ID, chi.URLParam(r, "courseId"))
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, row)
}
