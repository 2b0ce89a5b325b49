package service

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/madhava-poojari/coursebook-api/internal/apperr"
	"github.com/madhava-poojari/coursebook-api/internal/validate"
)

var monthNumbers = map[string]int{
	"january":   1,
	"february":  2,
	"march":     3,
	"april":     4,
	"may":       5,
	"june":      6,
	"july":      7,
	"august":    8,
	"september": 9,
	"october":   10,
	"november":  11,
	"december":  12,
}

// ParseMonth maps an English month name, in any case, to 1-12.
func ParseMonth(name string) (int, bool) {
	m, ok := monthNumbers[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

type RevenueTotal struct {
	Participants int64 `json:"participants"`
	Revenue      int64 `json:"revenue"`
	CourseCount  int64 `json:"course_count"`
}

type RevenueService struct {
	store  RevenueStore
	logger *slog.Logger
}

func NewRevenueService(s RevenueStore, logger *slog.Logger) *RevenueService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RevenueService{store: s, logger: logger}
}

// MonthlyRevenue aggregates the coach's active bookings created in month.
// Revenue applies the blended price per credit across all packages to the
// number of distinct booked courses.
func (s *RevenueService) MonthlyRevenue(ctx context.Context, coachUserID, month string) (RevenueTotal, error) {
	if validate.IsNotValidString(month) {
		return RevenueTotal{}, apperr.ErrValidation
	}
	m, ok := ParseMonth(month)
	if !ok {
		return RevenueTotal{}, apperr.ErrInvalidMonth
	}

	courseCount, participants, err := s.store.CountCoachBookingsInMonth(ctx, coachUserID, m)
	if err != nil {
		return RevenueTotal{}, err
	}
	if courseCount == 0 {
		return RevenueTotal{}, nil
	}

	priceSum, creditSum, err := s.store.PackageTotals(ctx)
	if err != nil {
		return RevenueTotal{}, err
	}
	return RevenueTotal{
		Participants: participants,
		Revenue:      blendedRevenue(priceSum, creditSum, courseCount),
		CourseCount:  courseCount,
	}, nil
}

func blendedRevenue(priceSum, creditSum, courseCount int64) int64 {
	if creditSum <= 0 {
		return 0
	}
	return int64(math.Floor(float64(priceSum) / float64(creditSum) * float64(courseCount)))
}
