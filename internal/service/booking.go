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

// Ledger books and cancels course seats against a user's purchased credits.
// One active booking consumes one credit.
type Ledger struct {
	store  BookingStore
	logger *slog.Logger
	now    func() time.Time
}

func NewLedger(s BookingStore, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{store: s, logger: logger, now: time.Now}
}

// Register books courseID for userID. The whole read set and the insert run
// in one transaction with the user and course rows locked.
func (l *Ledger) Register(ctx context.Context, userID, courseID string) error {
	if validate.IsNotValidString(courseID) || validate.IsNotValidUUID(courseID) {
		return apperr.ErrValidation
	}

	err := l.store.WithBookingTx(ctx, func(tx store.BookingTx) error {
		if err := tx.LockUser(ctx, userID); err != nil {
			if store.IsNotFound(err) {
				return apperr.ErrUserNotFound
			}
			return err
		}
		course, err := tx.GetCourseForUpdate(ctx, courseID)
		if err != nil {
			if store.IsNotFound(err) {
				return apperr.ErrCourseNotFound
			}
			return err
		}

		booked, err := tx.HasActiveBooking(ctx, userID, courseID)
		if err != nil {
			return err
		}
		if booked {
			return apperr.ErrAlreadyBooked
		}

		available, err := tx.SumPurchasedCredits(ctx, userID)
		if err != nil {
			return err
		}
		used, err := tx.CountActiveBookingsByUser(ctx, userID)
		if err != nil {
			return err
		}
		courseBooked, err := tx.CountActiveBookingsByCourse(ctx, courseID)
		if err != nil {
			return err
		}

		if used >= available {
			return apperr.ErrNoCreditsRemaining
		}
		if courseBooked >= int64(course.MaxParticipants) {
			return apperr.ErrCourseFull
		}

		return tx.CreateBooking(ctx, &models.CourseBooking{
			ID:        utils.GenerateID(),
			UserID:    userID,
			CourseID:  courseID,
			Status:    models.BookingActive,
			CreatedAt: l.now(),
		})
	})
	if err != nil {
		if store.IsDuplicate(err) {
			return apperr.ErrAlreadyBooked
		}
		return err
	}

	l.logger.Info("course booked", "user_id", userID, "course_id", courseID)
	return nil
}

// Cancel soft-cancels the active booking. The row is kept.
func (l *Ledger) Cancel(ctx context.Context, userID, courseID string) error {
	if validate.IsNotValidString(courseID) || validate.IsNotValidUUID(courseID) {
		return apperr.ErrValidation
	}

	booked, err := l.store.HasActiveBooking(ctx, userID, courseID)
	if err != nil {
		return err
	}
	if !booked {
		return apperr.ErrBookingNotFound
	}

	rows, err := l.store.CancelActiveBooking(ctx, userID, courseID, l.now())
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.ErrCancelFailed
	}

	l.logger.Info("booking cancelled", "user_id", userID, "course_id", courseID)
	return nil
}
