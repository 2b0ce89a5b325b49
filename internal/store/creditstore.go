package store

import (
	"context"
	"time"

	"github.com/madhava-poojari/coursebook-api/internal/models"
)

func (s *Store) ListCreditPackages(ctx context.Context) ([]models.CreditPackage, error) {
	var out []models.CreditPackage
	err := s.DB.WithContext(ctx).Order("created_at ASC").Find(&out).Error
	return out, err
}

func (s *Store) GetCreditPackageByID(ctx context.Context, id string) (*models.CreditPackage, error) {
	var p models.CreditPackage
	if err := s.DB.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreditPackageNameExists(ctx context.Context, name string) (bool, error) {
	var cnt int64
	err := s.DB.WithContext(ctx).Model(&models.CreditPackage{}).Where("name = ?", name).Count(&cnt).Error
	return cnt > 0, err
}

func (s *Store) CreateCreditPackage(ctx context.Context, p *models.CreditPackage) error {
	return s.DB.WithContext(ctx).Create(p).Error
}

func (s *Store) DeleteCreditPackage(ctx context.Context, id string) (int64, error) {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.CreditPackage{})
	return res.RowsAffected, res.Error
}

func (s *Store) CreateCreditPurchase(ctx context.Context, p *models.CreditPurchase) error {
	return s.DB.WithContext(ctx).Create(p).Error
}

func (s *Store) SumPurchasedCredits(ctx context.Context, userID string) (int64, error) {
	return sumPurchasedCredits(ctx, s.DB, userID)
}

// PurchaseRow is a purchase joined with the package name at read time.
type PurchaseRow struct {
	PurchasedCredits int       `json:"purchased_credits"`
	PricePaid        int       `json:"price_paid"`
	PurchaseAt       time.Time `json:"purchase_at"`
	Name             string    `json:"name"`
}

func (s *Store) ListCreditPurchases(ctx context.Context, userID string) ([]PurchaseRow, error) {
	var out []PurchaseRow
	err := s.DB.WithContext(ctx).
		Table("credit_purchases AS cp").
		Select("cp.purchased_credits, cp.price_paid, cp.purchase_at, COALESCE(pkg.name, '') AS name").
		Joins("LEFT JOIN credit_packages pkg ON pkg.id = cp.credit_package_id").
		Where("cp.user_id = ?", userID).
		Order("cp.purchase_at DESC").
		Scan(&out).Error
	return out, err
}

// PackageTotals returns SUM(price) and SUM(credit_amount) over every package.
func (s *Store) PackageTotals(ctx context.Context) (int64, int64, error) {
	var row struct {
		PriceSum  int64
		CreditSum int64
	}
	err := s.DB.WithContext(ctx).Model(&models.CreditPackage{}).
		Select("COALESCE(SUM(price), 0) AS price_sum, COALESCE(SUM(credit_amount), 0) AS credit_sum").
		Scan(&row).Error
	return row.PriceSum, row.CreditSum, err
}
