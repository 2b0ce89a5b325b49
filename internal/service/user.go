package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/madhava-poojari/coursebook-api/internal/apperr"
	"github.com/madhava-poojari/coursebook-api/internal/auth"
	"github.com/madhava-poojari/coursebook-api/internal/models"
	"github.com/madhava-poojari/coursebook-api/internal/store"
	"github.com/madhava-poojari/coursebook-api/internal/utils"
	"github.com/madhava-poojari/coursebook-api/internal/validate"
)

type UserService struct {
	store      UserStore
	tokens     *auth.TokenService
	refreshTTL time.Duration
	cache      ListingCache
	logger     *slog.Logger
	now        func() time.Time
}

// NewUserService takes the listing cache because course listings embed the
// coach's name.
func NewUserService(s UserStore, tokens *auth.TokenService, refreshTTL time.Duration, c ListingCache, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{store: s, tokens: tokens, refreshTTL: refreshTTL, cache: cacheOrNoop(c), logger: logger, now: time.Now}
}

// Session is what login and refresh hand back to the client.
type Session struct {
	AccessToken  string
	RefreshToken string
	RefreshUntil time.Time
	User         *models.User
}

func (u *UserService) Signup(ctx context.Context, name, email, password interface{}) (*models.User, error) {
	if validate.AnyUndefinedOrNotString(name, email, password) || validate.IsNotValidName(name) {
		return nil, apperr.ErrValidation
	}
	if validate.IsNotValidPassword(password) {
		return nil, apperr.ErrWeakPassword
	}
	addr := strings.TrimSpace(validate.AsString(email))

	exists, err := u.store.EmailExists(ctx, addr)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.ErrEmailTaken
	}
	hash, err := utils.HashPassword(validate.AsString(password))
	if err != nil {
		return nil, err
	}

	now := u.now()
	user := &models.User{
		ID:           utils.GenerateID(),
		Name:         validate.AsString(name),
		Email:        addr,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.store.CreateUser(ctx, user); err != nil {
		if store.IsDuplicate(err) {
			return nil, apperr.ErrEmailTaken
		}
		return nil, err
	}
	u.logger.Info("user created", "user_id", user.ID)
	return user, nil
}

// Login checks the password and issues an access token plus a refresh token.
// Unknown email and wrong password fail identically.
func (u *UserService) Login(ctx context.Context, email, password interface{}) (*Session, error) {
	if validate.AnyUndefinedOrNotString(email, password) {
		return nil, apperr.ErrValidation
	}
	if validate.IsNotValidPassword(password) {
		return nil, apperr.ErrWeakPassword
	}

	user, err := u.store.GetUserByEmail(ctx, strings.TrimSpace(validate.AsString(email)))
	if err != nil {
		if store.IsNotFound(err) {
			return nil, apperr.ErrBadCredentials
		}
		return nil, err
	}
	ok, err := utils.ComparePasswordAndHash(validate.AsString(password), user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrBadCredentials
	}
	return u.issueSession(ctx, user)
}

func (u *UserService) issueSession(ctx context.Context, user *models.User) (*Session, error) {
	access, err := u.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	refresh := utils.RandomToken()
	until := u.now().Add(u.refreshTTL)
	if err := u.store.SaveRefreshToken(ctx, user.ID, refresh, until); err != nil {
		return nil, err
	}
	return &Session{AccessToken: access, RefreshToken: refresh, RefreshUntil: until, User: user}, nil
}

// Refresh rotates the refresh token; the old one can never be used again.
func (u *UserService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, apperr.ErrInvalidRefresh
	}
	next := utils.RandomToken()
	until := u.now().Add(u.refreshTTL)
	userID, err := u.store.RotateRefreshToken(ctx, refreshToken, next, until)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, apperr.ErrInvalidRefresh
		}
		return nil, err
	}
	user, err := u.store.GetUserByID(ctx, userID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, apperr.ErrInvalidRefresh
		}
		return nil, err
	}
	access, err := u.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: access, RefreshToken: next, RefreshUntil: until, User: user}, nil
}

func (u *UserService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return u.store.RevokeRefreshToken(ctx, refreshToken)
}

func (u *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := u.store.GetUserByID(ctx, userID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateName only writes while the stored name is still the one just read.
func (u *UserService) UpdateName(ctx context.Context, userID string, name interface{}) error {
	if validate.IsUndefined(name) || validate.IsNotValidName(name) {
		return apperr.ErrValidation
	}
	current, err := u.Profile(ctx, userID)
	if err != nil {
		return err
	}
	newName := validate.AsString(name)
	if current.Name == newName {
		return apperr.ErrNameUnchanged
	}
	rows, err := u.store.UpdateUserName(ctx, userID, current.Name, newName)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.ErrUpdateFailed
	}
	u.cache.Delete(ctx, cacheKeyCourses)
	return nil
}

func (u *UserService) ChangePassword(ctx context.Context, userID string, password, newPassword, confirm interface{}) error {
	if validate.AnyUndefinedOrNotString(password, newPassword, confirm) {
		return apperr.ErrValidation
	}
	oldPw, newPw := validate.AsString(password), validate.AsString(newPassword)
	if newPw != validate.AsString(confirm) {
		return apperr.ErrPasswordMismatch
	}
	if oldPw == newPw {
		return apperr.ErrPasswordUnchanged
	}
	if validate.IsNotValidPassword(oldPw) || validate.IsNotValidPassword(newPw) {
		return apperr.ErrWeakPassword
	}

	user, err := u.store.GetUserByID(ctx, userID)
	if err != nil {
		if store.IsNotFound(err) {
			return apperr.ErrWrongPassword
		}
		return err
	}
	ok, err := utils.ComparePasswordAndHash(oldPw, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrWrongPassword
	}

	hash, err := utils.HashPassword(newPw)
	if err != nil {
		return err
	}
	rows, err := u.store.UpdateUserPassword(ctx, userID, hash)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.ErrUpdateFailed
	}
	return nil
}

func (u *UserService) CreditPurchases(ctx context.Context, userID string) ([]store.PurchaseRow, error) {
	rows, err := u.store.ListCreditPurchases(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []store.PurchaseRow{}
	}
	return rows, nil
}

type BookedCourse struct {
	store.BookedCourseRow
	Status models.BookingProgress `json:"status"`
}

type MyCourses struct {
	CreditRemain  int64          `json:"credit_remain"`
	CreditUsage   int64          `json:"credit_usage"`
	CourseBooking []BookedCourse `json:"course_booking"`
}

// MyCourses lists the active bookings with the credit balance they leave.
func (u *UserService) MyCourses(ctx context.Context, userID string) (*MyCourses, error) {
	purchased, err := u.store.SumPurchasedCredits(ctx, userID)
	if err != nil {
		return nil, err
	}
	rows, err := u.store.ListActiveBookedCourses(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := u.now()
	out := &MyCourses{
		CreditUsage:   int64(len(rows)),
		CreditRemain:  purchased - int64(len(rows)),
		CourseBooking: make([]BookedCourse, 0, len(rows)),
	}
	for _, r := range rows {
		out.CourseBooking = append(out.CourseBooking, BookedCourse{
			BookedCourseRow: r,
			Status:          ResolveBookingProgress(now, r.StartAt, r.EndAt),
		})
	}
	return out, nil
}
