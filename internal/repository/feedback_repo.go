package repository

import (
	"context"
	"time"

	"taplink/internal/domain"
	"taplink/internal/pkg/utils"

	"gorm.io/gorm"
)

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// FeedbackFilter narrows ListByBusiness. Zero values mean "no filter".
type FeedbackFilter struct {
	Status domain.FeedbackStatus
	Rating int
	Limit  int
	Offset int
}

func (r *FeedbackRepository) Create(ctx context.Context, f *domain.Feedback) error {
	f.PhotosRaw = utils.PhotosToString(f.Photos)
	if err := r.db.WithContext(ctx).Create(f).Error; err != nil {
		return err
	}
	return nil
}

func (r *FeedbackRepository) GetByID(ctx context.Context, id int64) (*domain.Feedback, error) {
	var f domain.Feedback
	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, err
	}
	f.Photos = utils.StringToPhotos(f.PhotosRaw)
	return &f, nil
}

func (r *FeedbackRepository) ListByBusiness(ctx context.Context, businessID int64, filter FeedbackFilter) ([]domain.Feedback, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Feedback{}).Where("business_id = ?", businessID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Rating > 0 {
		q = q.Where("rating = ?", filter.Rating)
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

	var items []domain.Feedback
	if err := q.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	for i := range items {
		items[i].Photos = utils.StringToPhotos(items[i].PhotosRaw)
	}
	return items, total, nil
}

func (r *FeedbackRepository) UpdateStatus(ctx context.Context, id int64, status domain.FeedbackStatus) error {
	tx := r.db.WithContext(ctx).Model(&domain.Feedback{}).
		Where("id = ?", id).
		Update("status", status)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// LinkCoupon records the coupon code issued for this submission.
func (r *FeedbackRepository) LinkCoupon(ctx context.Context, id int64, code string) error {
	return r.db.WithContext(ctx).Model(&domain.Feedback{}).
		Where("id = ?", id).
		Update("coupon_code", code).Error
}

func (r *FeedbackRepository) UpdatePhotos(ctx context.Context, id int64, photos []string) error {
	return r.db.WithContext(ctx).Model(&domain.Feedback{}).
		Where("id = ?", id).
		Update("photos", utils.PhotosToString(photos)).Error
}

func (r *FeedbackRepository) CountSince(ctx context.Context, businessID int64, since time.Time) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Feedback{}).
		Where("business_id = ? AND created_at >= ?", businessID, since).
		Count(&cnt).Error
	return cnt, err
}

// DailyCount is one point of a per-day feedback series.
type DailyCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// DailySeries groups submissions per calendar day over the last `days` days.
// date() is understood by both postgres and sqlite.
func (r *FeedbackRepository) DailySeries(ctx context.Context, businessID int64, days int) ([]DailyCount, error) {
	since := time.Now().AddDate(0, 0, -days)
	var rows []DailyCount
	err := r.db.WithContext(ctx).Model(&domain.Feedback{}).
		Select("date(created_at) AS day, COUNT(*) AS count").
		Where("business_id = ? AND created_at >= ?", businessID, since).
		Group("date(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	return rows, err
}
