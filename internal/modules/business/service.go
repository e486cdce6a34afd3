package business

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"taplink/internal/domain"
	"taplink/internal/repository"

	"gorm.io/gorm"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type FeedbackCounter interface {
	CountSince(ctx context.Context, businessID int64, since time.Time) (int64, error)
}

type QRRenderer interface {
	PagePNG(slug string, size int) ([]byte, error)
}

type Service struct {
	businesses *repository.BusinessRepository
	feedbacks  FeedbackCounter
	qr         QRRenderer
}

func NewService(businesses *repository.BusinessRepository, feedbacks FeedbackCounter, qr QRRenderer) *Service {
	return &Service{businesses: businesses, feedbacks: feedbacks, qr: qr}
}

func (s *Service) Create(ctx context.Context, ownerID int64, req CreateBusinessRequest) (*domain.Business, error) {
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !slugPattern.MatchString(slug) {
		return nil, ErrInvalidSlug
	}

	b := &domain.Business{
		OwnerID:          ownerID,
		Slug:             slug,
		Name:             strings.TrimSpace(req.Name),
		Email:            strings.ToLower(strings.TrimSpace(req.Email)),
		WhatsappPhone:    strings.TrimSpace(req.WhatsappPhone),
		ComplaintPhone:   strings.TrimSpace(req.ComplaintPhone),
		GooglePlaceID:    strings.TrimSpace(req.GooglePlaceID),
		GoogleReviewURL:  strings.TrimSpace(req.GoogleReviewURL),
		RewardExpiryDays: 30,
	}

	if err := s.businesses.Create(ctx, b); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	b, err := s.businesses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) GetPublicBySlug(ctx context.Context, slug string) (*PublicBusinessResponse, error) {
	b, err := s.businesses.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := toPublicResponse(b)
	return &resp, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Business, error) {
	return s.businesses.GetByOwner(ctx, ownerID)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateBusinessRequest) (*domain.Business, error) {
	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		fields["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.WhatsappPhone != nil {
		fields["whatsapp_phone"] = strings.TrimSpace(*req.WhatsappPhone)
	}
	if req.ComplaintPhone != nil {
		fields["complaint_phone"] = strings.TrimSpace(*req.ComplaintPhone)
	}
	if req.GooglePlaceID != nil {
		fields["google_place_id"] = strings.TrimSpace(*req.GooglePlaceID)
	}
	if req.GoogleReviewURL != nil {
		fields["google_review_url"] = strings.TrimSpace(*req.GoogleReviewURL)
	}

	if len(fields) > 0 {
		if err := s.businesses.UpdateFields(ctx, id, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}
	return s.GetByID(ctx, id)
}

func (s *Service) UpdateRewards(ctx context.Context, id int64, req UpdateRewardsRequest) (*domain.Business, error) {
	fields := map[string]any{}
	if req.RewardsEnabled != nil {
		fields["rewards_enabled"] = *req.RewardsEnabled
	}
	setIf := func(col string, v *string) {
		if v != nil {
			fields[col] = strings.TrimSpace(*v)
		}
	}
	setIf("reward5_type", req.Reward5Type)
	setIf("reward5_value", req.Reward5Value)
	setIf("reward5_details", req.Reward5Details)
	setIf("reward4_type", req.Reward4Type)
	setIf("reward4_value", req.Reward4Value)
	setIf("reward4_details", req.Reward4Details)
	setIf("reward3_type", req.Reward3Type)
	setIf("reward3_value", req.Reward3Value)
	setIf("reward3_details", req.Reward3Details)
	if req.RewardExpiryDays != nil {
		fields["reward_expiry_days"] = *req.RewardExpiryDays
	}

	if len(fields) > 0 {
		if err := s.businesses.UpdateFields(ctx, id, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}
	return s.GetByID(ctx, id)
}

func (s *Service) UpdateLogo(ctx context.Context, id int64, url string) error {
	return s.businesses.UpdateFields(ctx, id, map[string]any{"logo_url": url})
}

func (s *Service) Stats(ctx context.Context, id int64) (*StatsResponse, error) {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	last7, err := s.feedbacks.CountSince(ctx, id, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	last30, err := s.feedbacks.CountSince(ctx, id, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	return &StatsResponse{
		TotalViews:     b.TotalViews,
		TotalFeedback:  b.TotalFeedback,
		AverageRating:  b.AverageRating,
		Distribution: map[string]int64{
			"1": b.Rating1,
			"2": b.Rating2,
			"3": b.Rating3,
			"4": b.Rating4,
			"5": b.Rating5,
		},
		FeedbackLast7:  last7,
		FeedbackLast30: last30,
	}, nil
}

// QRCode renders the printable code pointing at the public rating page.
func (s *Service) QRCode(ctx context.Context, id int64, size int) ([]byte, error) {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if size <= 0 || size > 2048 {
		size = 512
	}
	return s.qr.PagePNG(b.Slug, size)
}
