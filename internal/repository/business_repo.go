package repository

import (
	"context"
	"fmt"
	"strings"

	"taplink/internal/domain"

	"gorm.io/gorm"
)

type BusinessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) *BusinessRepository {
	return &BusinessRepository{db: db}
}

func (r *BusinessRepository) Create(ctx context.Context, b *domain.Business) error {
	b.Slug = strings.ToLower(strings.TrimSpace(b.Slug))
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BusinessRepository) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	var b domain.Business
	tx := r.db.WithContext(ctx).First(&b, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &b, nil
}

func (r *BusinessRepository) GetBySlug(ctx context.Context, slug string) (*domain.Business, error) {
	var b domain.Business
	tx := r.db.WithContext(ctx).
		Where("slug = ?", strings.ToLower(strings.TrimSpace(slug))).
		First(&b)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &b, nil
}

func (r *BusinessRepository) GetByOwner(ctx context.Context, ownerID int64) ([]domain.Business, error) {
	var items []domain.Business
	tx := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&items)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return items, nil
}

func (r *BusinessRepository) UpdateFields(ctx context.Context, id int64, fields map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&domain.Business{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ApplyFeedbackStats bumps the feedback counters for one new rating in a
// single UPDATE. All right-hand sides read the pre-update row, so the
// average is recomputed from the counters exactly like
// domain.BusinessAggregates.ApplyFeedback and concurrent submissions
// cannot lose an increment.
func (r *BusinessRepository) ApplyFeedbackStats(ctx context.Context, id int64, rating int) error {
	var starCol string
	switch rating {
	case 1:
		starCol = "rating1"
	case 2:
		starCol = "rating2"
	case 3:
		starCol = "rating3"
	case 4:
		starCol = "rating4"
	case 5:
		starCol = "rating5"
	default:
		return fmt.Errorf("rating out of range: %d", rating)
	}

	tx := r.db.WithContext(ctx).Model(&domain.Business{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"total_feedback": gorm.Expr("total_feedback + 1"),
			starCol:          gorm.Expr(starCol + " + 1"),
			"average_rating": gorm.Expr(
				"(rating1 * 1.0 + rating2 * 2.0 + rating3 * 3.0 + rating4 * 4.0 + rating5 * 5.0 + ?) / (total_feedback + 1)",
				rating,
			),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementViews is an atomic totalViews bump, one per recorded page view.
func (r *BusinessRepository) IncrementViews(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Model(&domain.Business{}).
		Where("id = ?", id).
		Update("total_views", gorm.Expr("total_views + 1"))
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
