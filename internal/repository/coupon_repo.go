package repository

import (
	"context"
	"strings"
	"time"

	"taplink/internal/domain"

	"gorm.io/gorm"
)

type CouponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

// CouponFilter narrows ListByBusiness.
type CouponFilter struct {
	// Status is "", "active", "used" or "expired".
	Status string
	Search string
	Limit  int
	Offset int
}

// CouponStats are the per-business counters shown on the owner dashboard.
type CouponStats struct {
	Total   int64 `json:"total"`
	Active  int64 `json:"active"`
	Used    int64 `json:"used"`
	Expired int64 `json:"expired"`
}

func (r *CouponRepository) Create(ctx context.Context, c *domain.Coupon) error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var c domain.Coupon
	tx := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&c)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &c, nil
}

func (r *CouponRepository) GetByFeedbackID(ctx context.Context, feedbackID int64) (*domain.Coupon, error) {
	var c domain.Coupon
	tx := r.db.WithContext(ctx).Where("feedback_id = ?", feedbackID).First(&c)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &c, nil
}

// Redeem flips a coupon to used if and only if it is still unused and
// unexpired at `now`. The conditional UPDATE makes concurrent redeem
// attempts race on the database row, so exactly one caller sees
// RowsAffected == 1.
func (r *CouponRepository) Redeem(ctx context.Context, code string, now time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Coupon{}).
		Where("code = ? AND is_used = ? AND expires_at >= ?",
			strings.ToUpper(strings.TrimSpace(code)), false, now).
		Updates(map[string]any{
			"is_used": true,
			"used_at": now,
		})
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}

func (r *CouponRepository) ListByBusiness(ctx context.Context, businessID int64, filter CouponFilter) ([]domain.Coupon, int64, error) {
	now := time.Now()
	q := r.db.WithContext(ctx).Model(&domain.Coupon{}).Where("business_id = ?", businessID)

	switch filter.Status {
	case "active":
		q = q.Where("is_used = ? AND expires_at >= ?", false, now)
	case "used":
		q = q.Where("is_used = ?", true)
	case "expired":
		q = q.Where("is_used = ? AND expires_at < ?", false, now)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToUpper(s) + "%"
		q = q.Where("UPPER(code) LIKE ? OR UPPER(customer_name) LIKE ? OR customer_phone LIKE ?",
			like, like, "%"+s+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var items []domain.Coupon
	if err := q.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *CouponRepository) StatsByBusiness(ctx context.Context, businessID int64) (CouponStats, error) {
	now := time.Now()
	var stats CouponStats
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&domain.Coupon{}).Where("business_id = ?", businessID)
	}

	if err := base().Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	if err := base().Where("is_used = ?", true).Count(&stats.Used).Error; err != nil {
		return stats, err
	}
	if err := base().Where("is_used = ? AND expires_at >= ?", false, now).Count(&stats.Active).Error; err != nil {
		return stats, err
	}
	stats.Expired = stats.Total - stats.Used - stats.Active
	return stats, nil
}

// DeleteExpiredBefore removes unused coupons whose expiry passed before the
// cutoff. Used coupons are kept for the owner's records.
func (r *CouponRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("is_used = ? AND expires_at < ?", false, cutoff).
		Delete(&domain.Coupon{})
	return tx.RowsAffected, tx.Error
}
