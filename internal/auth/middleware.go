package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/madhava-poojari/coursebook-api/internal/apperr"
	"github.com/madhava-poojari/coursebook-api/internal/models"
	"github.com/madhava-poojari/coursebook-api/internal/store"
	"github.com/madhava-poojari/coursebook-api/internal/utils"
)

type ctxKey string

const ctxUserKey ctxKey = "currentUser"

func GetUserFromCtx(ctx context.Context) *models.User {
	if u, ok := ctx.Value(ctxUserKey).(*models.User); ok {
		return u
	}
	return nil
}

func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxUserKey, u)
}

// UserLookup resolves the live user row for a token's subject.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Verifier turns a bearer token into the current user row. Only the user id
// is taken from the token; role and profile always come from the database.
type Verifier struct {
	tokens *TokenService
	users  UserLookup
	logger *slog.Logger
}

func NewVerifier(tokens *TokenService, users UserLookup, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{tokens: tokens, users: users, logger: logger}
}

// Verify classifies failures as ErrMissingToken, ErrExpiredToken or ErrInvalidToken.
func (v *Verifier) Verify(ctx context.Context, authorization string) (*models.User, error) {
	token, ok := bearerToken(authorization)
	if !ok {
		return nil, apperr.ErrMissingToken
	}
	claims, err := v.tokens.ParseAndValidateToken(token)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, apperr.ErrExpiredToken
		}
		return nil, apperr.ErrInvalidToken
	}
	u, err := v.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, apperr.ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

// Middleware validates the bearer JWT, loads the user and sets it in context.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := v.Verify(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			v.logger.Warn("authentication failed", "path", r.URL.Path, "err", err)
			utils.WriteError(w, v.logger, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

// RequireRole must be mounted after Verifier.Middleware.
func RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := GetUserFromCtx(r.Context())
			if u == nil || u.Role != role {
				utils.WriteError(w, nil, apperr.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
