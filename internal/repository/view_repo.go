package repository

import (
	"context"
	"time"

	"taplink/internal/domain"

	"gorm.io/gorm"
)

type ViewRepository struct {
	db *gorm.DB
}

func NewViewRepository(db *gorm.DB) *ViewRepository {
	return &ViewRepository{db: db}
}

func (r *ViewRepository) Create(ctx context.Context, v *domain.View) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *ViewRepository) CountSince(ctx context.Context, businessID int64, since time.Time) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.View{}).
		Where("business_id = ? AND created_at >= ?", businessID, since).
		Count(&cnt).Error
	return cnt, err
}

// SourceCount is one row of the traffic-source breakdown.
type SourceCount struct {
	Source string `json:"source"`
	Count  int64  `json:"count"`
}

func (r *ViewRepository) SourceBreakdown(ctx context.Context, businessID int64) ([]SourceCount, error) {
	var rows []SourceCount
	err := r.db.WithContext(ctx).Model(&domain.View{}).
		Select("source, COUNT(*) AS count").
		Where("business_id = ?", businessID).
		Group("source").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *ViewRepository) DailySeries(ctx context.Context, businessID int64, days int) ([]DailyCount, error) {
	since := time.Now().AddDate(0, 0, -days)
	var rows []DailyCount
	err := r.db.WithContext(ctx).Model(&domain.View{}).
		Select("date(created_at) AS day, COUNT(*) AS count").
		Where("business_id = ? AND created_at >= ?", businessID, since).
		Group("date(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	return rows, err
}
