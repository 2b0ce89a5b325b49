package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/madhava-poojari/coursebook-api/internal/apperr"
	"github.com/madhava-poojari/coursebook-api/internal/models"
	"github.com/madhava-poojari/coursebook-api/internal/store"
	"github.com/madhava-poojari/coursebook-api/internal/utils"
	"github.com/madhava-poojari/coursebook-api/internal/validate"
)

// SkillService manages the admin-curated skill list.
type SkillService struct {
	store    SkillStore
	cache    ListingCache
	cacheTTL time.Duration
	logger   *slog.Logger
}

func NewSkillService(s SkillStore, c ListingCache, cacheTTL time.Duration, logger *slog.Logger) *SkillService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SkillService{store: s, cache: cacheOrNoop(c), cacheTTL: cacheTTL, logger: logger}
}

func (s *SkillService) List(ctx context.Context) ([]models.Skill, error) {
	var out []models.Skill
	if s.cache.GetJSON(ctx, cacheKeySkills, &out) {
		return out, nil
	}
	out, err := s.store.ListSkills(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Skill{}
	}
	s.cache.SetJSON(ctx, cacheKeySkills, out, s.cacheTTL)
	return out, nil
}

func (s *SkillService) Create(ctx context.Context, name interface{}) (*models.Skill, error) {
	if validate.AnyUndefinedOrNotString(name) {
		return nil, apperr.ErrValidation
	}
	n := validate.AsString(name)
	exists, err := s.store.SkillNameExists(ctx, n)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.ErrSkillTaken
	}
	sk := &models.Skill{ID: utils.GenerateID(), Name: n, CreatedAt: time.Now()}
	if err := s.store.CreateSkill(ctx, sk); err != nil {
		if store.IsDuplicate(err) {
			return nil, apperr.ErrSkillTaken
		}
		return nil, err
	}
	s.cache.Delete(ctx, cacheKeySkills)
	return sk, nil
}

// Delete leaves courses and coach links that point at the skill untouched.
func (s *SkillService) Delete(ctx context.Context, skillID string) error {
	if validate.IsNotValidString(skillID) || validate.IsNotValidUUID(skillID) {
		return apperr.ErrInvalidID
	}
	rows, err := s.store.DeleteSkill(ctx, skillID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.ErrInvalidID
	}
	s.cache.Delete(ctx, cacheKeySkills, cacheKeyCourses)
	s.logger.Info("skill deleted", "skill_id", skillID)
	return nil
}

// CreditPackageService manages packages and records purchases of them.
type CreditPackageService struct {
	store    CreditStore
	cache    ListingCache
	cacheTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func NewCreditPackageService(s CreditStore, c ListingCache, cacheTTL time.Duration, logger *slog.Logger) *CreditPackageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreditPackageService{store: s, cache: cacheOrNoop(c), cacheTTL: cacheTTL, logger: logger, now: time.Now}
}

func (s *CreditPackageService) List(ctx context.Context) ([]models.CreditPackage, error) {
	var out []models.CreditPackage
	if s.cache.GetJSON(ctx, cacheKeyCreditPackages, &out) {
		return out, nil
	}
	out, err := s.store.ListCreditPackages(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.CreditPackage{}
	}
	s.cache.SetJSON(ctx, cacheKeyCreditPackages, out, s.cacheTTL)
	return out, nil
}

func (s *CreditPackageService) Create(ctx context.Context, name, creditAmount, price interface{}) (*models.CreditPackage, error) {
	if validate.AnyUndefinedOrNotString(name) ||
		validate.IsUndefined(creditAmount) || validate.IsNotValidInteger(creditAmount) ||
		validate.IsUndefined(price) || validate.IsNotValidInteger(price) ||
		validate.AsInt(creditAmount) == 0 || validate.AsInt(price) == 0 {
		return nil, apperr.ErrValidation
	}
	n := validate.AsString(name)
	exists, err := s.store.CreditPackageNameExists(ctx, n)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.ErrPackageTaken
	}
	p := &models.CreditPackage{
		ID:           utils.GenerateID(),
		Name:         n,
		CreditAmount: validate.AsInt(creditAmount),
		Price:        validate.AsInt(price),
		CreatedAt:    s.now(),
	}
	if err := s.store.CreateCreditPackage(ctx, p); err != nil {
		if store.IsDuplicate(err) {
			return nil, apperr.ErrPackageTaken
		}
		return nil, err
	}
	s.cache.Delete(ctx, cacheKeyCreditPackages)
	return p, nil
}

// Delete never touches purchases; they keep their own snapshot.
func (s *CreditPackageService) Delete(ctx context.Context, packageID string) error {
	if validate.IsNotValidString(packageID) || validate.IsNotValidUUID(packageID) {
		return apperr.ErrInvalidID
	}
	rows, err := s.store.DeleteCreditPackage(ctx, packageID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.ErrInvalidID
	}
	s.cache.Delete(ctx, cacheKeyCreditPackages)
	return nil
}

// Buy records a purchase, snapshotting credits and price at this moment.
func (s *CreditPackageService) Buy(ctx context.Context, userID, packageID string) (*models.CreditPurchase, error) {
	if validate.IsNotValidString(packageID) || validate.IsNotValidUUID(packageID) {
		return nil, apperr.ErrInvalidID
	}
	pkg, err := s.store.GetCreditPackageByID(ctx, packageID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, apperr.ErrPackageNotFound
		}
		return nil, err
	}
	now := s.now()
	purchase := &models.CreditPurchase{
		ID:               utils.GenerateID(),
		UserID:           userID,
		CreditPackageID:  pkg.ID,
		PurchasedCredits: pkg.CreditAmount,
		PricePaid:        pkg.Price,
		PurchaseAt:       now,
		CreatedAt:        now,
	}
	if err := s.store.CreateCreditPurchase(ctx, purchase); err != nil {
		return nil, err
	}
	s.logger.Info("credit package purchased", "user_id", userID, "package_id", pkg.ID, "credits", pkg.CreditAmount)
	return purchase, nil
}
