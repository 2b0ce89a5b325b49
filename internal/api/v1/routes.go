package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/madhava-poojari/coursebook-api/internal/auth"
	"github.com/madhava-poojari/coursebook-api/internal/config"
	"github.com/madhava-poojari/coursebook-api/internal/models"
	"github.com/madhava-poojari/coursebook-api/internal/service"
	"github.com/madhava-poojari/coursebook-api/internal/store"
	"github.com/madhava-poojari/coursebook-api/internal/utils"
)

// Services is everything the handlers call into.
type Services struct {
	Verifier *auth.Verifier
	Users    *service.UserService
	Ledger   *service.Ledger
	Courses  *service.CourseService
	Coaches  *service.CoachService
	Revenue  *service.RevenueService
	Skills   *service.SkillService
	Packages *service.CreditPackageService
	Uploads  *service.UploadService
	Health   Pinger
}

// NewServices wires every service onto the gorm store.
func NewServices(cfg *config.Config, s *store.Store, files utils.FileStore, cache service.ListingCache, logger *slog.Logger) *Services {
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL)
	return &Services{
		Verifier: auth.NewVerifier(tokens, s, logger),
		Users:    service.NewUserService(s, tokens, cfg.RefreshTokenTTL, cache, logger),
		Ledger:   service.NewLedger(s, logger),
		Courses:  service.NewCourseService(s, cache, cfg.ListingCacheTTL, logger),
		Coaches:  service.NewCoachService(s, logger),
		Revenue:  service.NewRevenueService(s, logger),
		Skills:   service.NewSkillService(s, cache, cfg.ListingCacheTTL, logger),
		Packages: service.NewCreditPackageService(s, cache, cfg.ListingCacheTTL, logger),
		Uploads:  service.NewUploadService(files, logger),
		Health:   s,
	}
}

type API struct {
	cfg    *config.Config
	router *chi.Mux
	svc    *Services
	logger *slog.Logger
}

func NewAPI(cfg *config.Config, svc *Services, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	api := &API{cfg: cfg, router: chi.NewRouter(), svc: svc, logger: logger}
	api.routes()
	return api
}

func (a *API) Routes() *chi.Mux {
	return a.router
}

func (a *API) routes() {
	authH := NewAuthHandler(a.cfg, a.svc.Users, a.logger)
	userH := NewUserHandler(a.svc.Users, a.logger)
	courseH := NewCourseHandler(a.svc.Courses, a.svc.Ledger, a.logger)
	coachH := NewCoachHandler(a.svc.Coaches, a.logger)
	adminH := NewAdminHandler(a.svc.Coaches, a.svc.Courses, a.svc.Revenue, a.logger)
	catalogH := NewCatalogHandler(a.svc.Skills, a.svc.Packages, a.logger)
	uploadH := NewUploadHandler(a.svc.Uploads, a.logger)

	requireAuth := a.svc.Verifier.Middleware
	noop := func(w http.ResponseWriter, r *http.Request) {}

	r := a.router
	r.Route("/users", func(r chi.Router) {
		r.Options("/*", noop)
		r.Post("/signup", authH.Signup)
		r.Post("/login", authH.Login)
		r.Post("/refresh", authH.Refresh)
		r.Post("/logout", authH.Logout)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/profile", userH.GetProfile)
			r.Put("/profile", userH.UpdateProfile)
			r.Put("/password", userH.UpdatePassword)
			r.Get("/credit-package", userH.GetCreditPurchases)
			r.Get("/courses", userH.GetBookedCourses)
		})
	})

	r.Route("/courses", func(r chi.Router) {
		r.Options("/*", noop)
		r.Get("/", courseH.ListCourses)
		r.With(requireAuth).Post("/{courseId}", courseH.Register)
		r.With(requireAuth).Delete("/{courseId}", courseH.Cancel)
	})

	r.Route("/coaches", func(r chi.Router) {
		r.Options("/*", noop)
		r.Get("/", coachH.ListCoaches)
		r.Get("/{coachId}", coachH.GetCoach)
		r.Get("/{coachId}/courses", coachH.GetCoachCourses)
	})

	r.Route("/admin/coaches", func(r chi.Router) {
		r.Options("/*", noop)

		// coach self-service
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, auth.RequireRole(models.RoleCoach))
			r.Get("/", adminH.GetOwnProfile)
			r.Put("/", adminH.UpdateOwnProfile)
			r.Get("/revenue", adminH.GetRevenue)
			r.Post("/courses", adminH.CreateCourse)
			r.Get("/courses", adminH.ListOwnCourses)
			r.Get("/courses/{courseId}", adminH.GetOwnCourse)
			r.Put("/courses/{courseId}", adminH.UpdateCourse)
		})

		r.With(requireAuth, auth.RequireRole(models.RoleAdmin)).Post("/{userId}", adminH.PromoteCoach)
	})

	r.Route("/skill", func(r chi.Router) {
		r.Options("/*", noop)
		r.Get("/", catalogH.ListSkills)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, auth.RequireRole(models.RoleAdmin))
			r.Post("/", catalogH.CreateSkill)
			r.Delete("/{skillId}", catalogH.DeleteSkill)
		})
	})

	r.Route("/credit-package", func(r chi.Router) {
		r.Options("/*", noop)
		r.Get("/", catalogH.ListCreditPackages)
		r.With(requireAuth, auth.RequireRole(models.RoleAdmin)).Post("/", catalogH.CreateCreditPackage)
		r.With(requireAuth, auth.RequireRole(models.RoleAdmin)).Delete("/{creditPackageId}", catalogH.DeleteCreditPackage)
		r.With(requireAuth).Post("/{creditPackageId}", catalogH.BuyCreditPackage)
	})

	r.Route("/upload", func(r chi.Router) {
		r.Options("/*", noop)
		r.With(requireAuth).Post("/", uploadH.UploadImage)
	})

	r.Get("/health", HealthHandler(a.svc.Health, a.logger))
}
