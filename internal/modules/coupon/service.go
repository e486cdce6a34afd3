package coupon

import (
	"context"
	"crypto/rand"
	"errors"
	"strings"
	"time"

	"taplink/internal/domain"
	"taplink/internal/repository"

	"gorm.io/gorm"
)

const (
	codePrefix     = "STAR"
	codeRandomLen  = 7
	codeAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxCodeRetries = 5

	defaultExpiryDays = 30
)

type Service struct {
	coupons    *repository.CouponRepository
	businesses *repository.BusinessRepository
	feedbacks  *repository.FeedbackRepository
}

func NewService(
	coupons *repository.CouponRepository,
	businesses *repository.BusinessRepository,
	feedbacks *repository.FeedbackRepository,
) *Service {
	return &Service{coupons: coupons, businesses: businesses, feedbacks: feedbacks}
}

// IssueForFeedback creates a coupon from a reward tier snapshot. Called by
// the feedback flow right after a rewarded submission. The unique index on
// feedback_id guarantees at most one coupon per submission; code collisions
// are retried with a fresh code.
func (s *Service) IssueForFeedback(ctx context.Context, b *domain.Business, f *domain.Feedback, tier domain.RewardTier) (*domain.Coupon, error) {
	if tier.Type == "" {
		return nil, ErrNotEligible
	}

	expiryDays := b.RewardExpiryDays
	if expiryDays <= 0 {
		expiryDays = defaultExpiryDays
	}

	for attempt := 0; attempt < maxCodeRetries; attempt++ {
		code, err := generateCode()
		if err != nil {
			return nil, err
		}

		c := &domain.Coupon{
			BusinessID:    b.ID,
			FeedbackID:    f.ID,
			Code:          code,
			RewardType:    tier.Type,
			RewardValue:   tier.Value,
			RewardDetails: tier.Details,
			CustomerName:  f.VisitorName,
			CustomerPhone: f.VisitorPhone,
			ExpiresAt:     time.Now().AddDate(0, 0, expiryDays),
		}

		err = s.coupons.Create(ctx, c)
		if err == nil {
			return c, nil
		}
		if !repository.IsUniqueViolation(err) {
			return nil, err
		}
		// Either the code collided or the feedback already has a coupon.
		if _, lookupErr := s.coupons.GetByFeedbackID(ctx, f.ID); lookupErr == nil {
			return nil, ErrAlreadyIssued
		}
	}
	return nil, errors.New("coupon code space exhausted")
}

// Create is the public endpoint flow: the visitor claims the reward for
// their own submission, optionally attaching contact details.
func (s *Service) Create(ctx context.Context, req CreateCouponRequest) (*domain.Coupon, error) {
	b, err := s.businesses.GetBySlug(ctx, req.BusinessSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !b.RewardsEnabled {
		return nil, ErrNotEligible
	}

	f, err := s.feedbacks.GetByID(ctx, req.FeedbackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if f.BusinessID != b.ID {
		return nil, ErrNotFound
	}

	tier, ok := b.RewardTierFor(f.Rating)
	if !ok || tier.Type == "" {
		return nil, ErrNotEligible
	}

	if req.CustomerName != "" {
		f.VisitorName = strings.TrimSpace(req.CustomerName)
	}
	if req.CustomerPhone != "" {
		f.VisitorPhone = strings.TrimSpace(req.CustomerPhone)
	}

	c, err := s.IssueForFeedback(ctx, b, f, tier)
	if err != nil {
		return nil, err
	}
	if err := s.feedbacks.LinkCoupon(ctx, f.ID, c.Code); err != nil {
		return nil, err
	}
	return c, nil
}

// Redeem marks a coupon used. Exactly one concurrent caller succeeds; the
// rest get the most specific failure in order: unknown code, already used,
// expired.
func (s *Service) Redeem(ctx context.Context, code string) (*domain.Coupon, error) {
	now := time.Now()
	affected, err := s.coupons.Redeem(ctx, code, now)
	if err != nil {
		return nil, err
	}
	if affected == 1 {
		return s.coupons.GetByCode(ctx, code)
	}

	c, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if c.IsUsed {
		return nil, ErrAlreadyUsed
	}
	return nil, ErrExpired
}

// Verify is the owner-side lookup before honoring a coupon at the counter.
// businessID, when non-zero, must match the issuing business; a coupon from
// another business is invalid there even when the caller owns both.
func (s *Service) Verify(ctx context.Context, userID int64, code string, businessID int64) (*CouponView, error) {
	c, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if businessID != 0 && c.BusinessID != businessID {
		return nil, ErrForbidden
	}

	b, err := s.businesses.GetByID(ctx, c.BusinessID)
	if err != nil {
		return nil, err
	}
	if b.OwnerID != userID {
		return nil, ErrForbidden
	}

	view := toView(c, time.Now())
	return &view, nil
}

func (s *Service) ListByBusiness(ctx context.Context, businessID int64, filter repository.CouponFilter) ([]CouponView, int64, repository.CouponStats, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}

	items, total, err := s.coupons.ListByBusiness(ctx, businessID, filter)
	if err != nil {
		return nil, 0, repository.CouponStats{}, err
	}

	stats, err := s.coupons.StatsByBusiness(ctx, businessID)
	if err != nil {
		return nil, 0, repository.CouponStats{}, err
	}

	now := time.Now()
	views := make([]CouponView, 0, len(items))
	for i := range items {
		views = append(views, toView(&items[i], now))
	}
	return views, total, stats, nil
}

func generateCode() (string, error) {
	buf := make([]byte, codeRandomLen)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, codeRandomLen)
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return codePrefix + string(out), nil
}
