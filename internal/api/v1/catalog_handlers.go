package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/madhava-poojari/coursebook-api/internal/auth"
	"github.com/madhava-poojari/coursebook-api/internal/service"
	"github.com/madhava-poojari/coursebook-api/internal/utils"
)

// CatalogHandler serves skills and credit packages.
type CatalogHandler struct {
	skills   *service.SkillService
	packages *service.CreditPackageService
	logger   *slog.Logger
}

func NewCatalogHandler(skills *service.SkillService, packages *service.CreditPackageService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{skills: skills, packages: packages, logger: logger}
}

type skillView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GET /skill
func (h *CatalogHandler) ListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.skills.List(r.Context())
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	out := make([]skillView, 0, len(skills))
	for _, s := range skills {
		out = append(out, skillView{ID: s.ID, Name: s.Name})
	}
	utils.WriteSuccess(w, http.StatusOK, out)
}

// POST /skill
func (h *CatalogHandler) CreateSkill(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name interface{} `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	sk, err := h.skills.Create(r.Context(), req.Name)
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, sk)
}

// DELETE /skill/{skillId}
func (h *CatalogHandler) DeleteSkill(w http.ResponseWriter, r *http.Request) {
	if err := h.skills.Delete(r.Context(), chi.URLParam(r, "skillId")); err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, nil)
}

// GET /credit-package
func (h *CatalogHandler) ListCreditPackages(w http.ResponseWriter, r *http.Request) {
	pkgs, err := h.packages.List(r.Context())
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, pkgs)
}

// POST /credit-package
func (h *CatalogHandler) CreateCreditPackage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         interface{} `json:"name"`
		CreditAmount interface{} `json:"credit_amount"`
		Price        interface{} `json:"price"`
	}
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	p, err := h.packages.Create(r.Context(), req.Name, req.CreditAmount, req.Price)
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, p)
}

// DELETE /credit-package/{creditPackageId}
func (h *CatalogHandler) DeleteCreditPackage(w http.ResponseWriter, r *http.Request) {
	if err := h.packages.Delete(r.Context(), chi.URLParam(r, "creditPackageId")); err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, nil)
}

// POST /credit-package/{creditPackageId}
func (h *CatalogHandler) BuyCreditPackage(w http.ResponseWriter, r *http.Request) {
	current := auth.GetUserFromCtx(r.Context())
	purchase, err := h.packages.Buy(r.Context(), current.ID, chi.URLParam(r, "creditPackageId"))
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, purchase)
}
