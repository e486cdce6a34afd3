package feedback

import (
	"context"
	"errors"
	"log"
	"strings"

	"taplink/internal/domain"
	"taplink/internal/repository"

	"gorm.io/gorm"
)

type CouponIssuer interface {
	IssueForFeedback(ctx context.Context, b *domain.Business, f *domain.Feedback, tier domain.RewardTier) (*domain.Coupon, error)
}

type AlertMailer interface {
	SendLowRatingAlert(to, businessName string, rating int, comment, visitorName string) error
}

// Notifier receives live events for the owner dashboard. Optional.
type Notifier interface {
	PublishFeedback(businessID int64, rating int)
}

type Service struct {
	feedbacks  *repository.FeedbackRepository
	businesses *repository.BusinessRepository
	coupons    CouponIssuer
	mailer     AlertMailer
	notifier   Notifier
}

// SetNotifier attaches the dashboard event sink. Must be called before the
// service starts handling requests.
func (s *Service) SetNotifier(n Notifier) { s.notifier = n }

func NewService(
	feedbacks *repository.FeedbackRepository,
	businesses *repository.BusinessRepository,
	coupons CouponIssuer,
	mailer AlertMailer,
) *Service {
	return &Service{feedbacks: feedbacks, businesses: businesses, coupons: coupons, mailer: mailer}
}

// Create records one submission, updates the business counters and decides
// where the visitor goes next. The submission itself always succeeds once
// stored; coupon issuance or mail failures degrade the response but never
// roll the feedback back.
func (s *Service) Create(ctx context.Context, req CreateFeedbackRequest, visitorIP string) (*CreateFeedbackResponse, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	business, err := s.businesses.GetBySlug(ctx, req.BusinessSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}

	fb := &domain.Feedback{
		BusinessID:   business.ID,
		Rating:       req.Rating,
		Comment:      strings.TrimSpace(req.Comment),
		VisitorName:  strings.TrimSpace(req.VisitorName),
		VisitorPhone: strings.TrimSpace(req.VisitorPhone),
		VisitorEmail: strings.ToLower(strings.TrimSpace(req.VisitorEmail)),
		VisitorIP:    visitorIP,
		Photos:       req.Photos,
		Status:       domain.FeedbackPending,
	}
	if err := s.feedbacks.Create(ctx, fb); err != nil {
		return nil, err
	}

	if err := s.businesses.ApplyFeedbackStats(ctx, business.ID, req.Rating); err != nil {
		log.Printf("feedback stats update failed business_id=%d feedback_id=%d err=%v", business.ID, fb.ID, err)
	}

	if s.notifier != nil {
		s.notifier.PublishFeedback(business.ID, req.Rating)
	}

	outcome := Decide(business, req.Rating, fb.Comment, fb.VisitorName)
	resp := &CreateFeedbackResponse{
		FeedbackID:  fb.ID,
		Action:      string(outcome.Action),
		RedirectURL: outcome.RedirectURL,
	}

	if outcome.GrantReward && s.coupons != nil {
		coupon, err := s.coupons.IssueForFeedback(ctx, business, fb, outcome.RewardTier)
		if err != nil {
			log.Printf("coupon issue failed business_id=%d feedback_id=%d err=%v", business.ID, fb.ID, err)
		} else {
			resp.CouponCode = coupon.Code
			if err := s.feedbacks.LinkCoupon(ctx, fb.ID, coupon.Code); err != nil {
				log.Printf("coupon link failed feedback_id=%d err=%v", fb.ID, err)
			}
		}
	}

	if req.Rating <= 2 && s.mailer != nil && business.Email != "" {
		go func(to, name string, rating int, comment, visitor string) {
			if err := s.mailer.SendLowRatingAlert(to, name, rating, comment, visitor); err != nil {
				log.Printf("low rating alert failed business=%s err=%v", name, err)
			}
		}(business.Email, business.Name, req.Rating, fb.Comment, fb.VisitorName)
	}

	return resp, nil
}

func (s *Service) ListByBusiness(ctx context.Context, businessID int64, filter repository.FeedbackFilter) ([]domain.Feedback, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.feedbacks.ListByBusiness(ctx, businessID, filter)
}

// Moderate changes the status of one submission after checking that the
// caller owns the business it belongs to.
func (s *Service) Moderate(ctx context.Context, userID, feedbackID int64, status string) (*domain.Feedback, error) {
	st := domain.FeedbackStatus(status)
	switch st {
	case domain.FeedbackPending, domain.FeedbackApproved, domain.FeedbackRejected:
	default:
		return nil, ErrInvalidStatus
	}

	fb, err := s.feedbacks.GetByID(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	business, err := s.businesses.GetByID(ctx, fb.BusinessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if business.OwnerID != userID {
		return nil, ErrForbidden
	}

	if err := s.feedbacks.UpdateStatus(ctx, feedbackID, st); err != nil {
		return nil, err
	}
	fb.Status = st
	return fb, nil
}
