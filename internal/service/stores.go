package service

import (
	"context"
	"time"

	"github.com/madhava-poojari/coursebook-api/internal/models"
	"github.com/madhava-poojari/coursebook-api/internal/store"
)

// The interfaces below are the slices of *store.Store each service needs.

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateUserName(ctx context.Context, id, oldName, newName string) (int64, error)
	UpdateUserPassword(ctx context.Context, id, hash string) (int64, error)

	SaveRefreshToken(ctx context.Context, userID, plainToken string, expiresAt time.Time) error
	RotateRefreshToken(ctx context.Context, oldPlain, newPlain string, newExpiry time.Time) (string, error)
	RevokeRefreshToken(ctx context.Context, plainToken string) error

	SumPurchasedCredits(ctx context.Context, userID string) (int64, error)
	ListCreditPurchases(ctx context.Context, userID string) ([]store.PurchaseRow, error)
	ListActiveBookedCourses(ctx context.Context, userID string) ([]store.BookedCourseRow, error)
}

type BookingStore interface {
	WithBookingTx(ctx context.Context, fn func(tx store.BookingTx) error) error
	HasActiveBooking(ctx context.Context, userID, courseID string) (bool, error)
	CancelActiveBooking(ctx context.Context, userID, courseID string, at time.Time) (int64, error)
}

type CourseStore interface {
	CreateCourse(ctx context.Context, c *models.Course) error
	GetCourseByID(ctx context.Context, id string) (*models.Course, error)
	UpdateCourseFields(ctx context.Context, id, ownerID string, fields map[string]interface{}) (int64, error)
	ListCourses(ctx context.Context) ([]store.CourseListRow, error)
	ListCoachOwnCourses(ctx context.Context, coachUserID string) ([]store.OwnCourseRow, error)
	GetCoachOwnCourse(ctx context.Context, coachUserID, courseID string) (*store.CourseDetailRow, error)
	CountSkills(ctx context.Context, ids []string) (int64, error)
}

type CoachStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	PromoteToCoach(ctx context.Context, c *models.Coach) error
	GetCoachByID(ctx context.Context, id string) (*models.Coach, error)
	GetCoachByUserID(ctx context.Context, userID string) (*models.Coach, error)
	ListCoaches(ctx context.Context, limit, offset int) ([]store.CoachListRow, error)
	ListCoursesByCoachID(ctx context.Context, coachID string) ([]store.CoachCourseRow, error)
	UpdateCoachProfile(ctx context.Context, coachID string, fields map[string]interface{}, skillIDs []string) error
	ListCoachSkillIDs(ctx context.Context, coachID string) ([]string, error)
	CountSkills(ctx context.Context, ids []string) (int64, error)
}

type SkillStore interface {
	ListSkills(ctx context.Context) ([]models.Skill, error)
	SkillNameExists(ctx context.Context, name string) (bool, error)
	CreateSkill(ctx context.Context, sk *models.Skill) error
	DeleteSkill(ctx context.Context, id string) (int64, error)
}

type CreditStore interface {
	ListCreditPackages(ctx context.Context) ([]models.CreditPackage, error)
	GetCreditPackageByID(ctx context.Context, id string) (*models.CreditPackage, error)
	CreditPackageNameExists(ctx context.Context, name string) (bool, error)
	CreateCreditPackage(ctx context.Context, p *models.CreditPackage) error
	DeleteCreditPackage(ctx context.Context, id string) (int64, error)
	CreateCreditPurchase(ctx context.Context, p *models.CreditPurchase) error
}

type RevenueStore interface {
	CountCoachBookingsInMonth(ctx context.Context, coachUserID string, month int) (int64, int64, error)
	PackageTotals(ctx context.Context) (int64, int64, error)
}

// ListingCache is satisfied by *cache.Redis. Misses and outages look the same.
type ListingCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) bool
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}

type noopCache struct{}

func (noopCache) GetJSON(context.Context, string, interface{}) bool         { return false }
func (noopCache) SetJSON(context.Context, string, interface{}, time.Duration) {}
func (noopCache) Delete(context.Context, ...string)                          {}

func cacheOrNoop(c ListingCache) ListingCache {
	if c == nil {
		return noopCache{}
	}
	return c
}

// Cache keys of the public listings.
const (
	cacheKeyCourses        = "courses"
	cacheKeySkills         = "skills"
	cacheKeyCreditPackages = "credit_packages"
)
