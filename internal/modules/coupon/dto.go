package coupon

import (
	"time"

	"taplink/internal/domain"
)

type CreateCouponRequest struct {
	BusinessSlug  string `json:"businessSlug" validate:"required"`
	FeedbackID    int64  `json:"feedbackId" validate:"required,gt=0"`
	CustomerName  string `json:"customerName" validate:"omitempty,max=100"`
	CustomerPhone string `json:"customerPhone" validate:"omitempty,max=30"`
}

type RedeemRequest struct {
	Code string `json:"code" binding:"required,min=4,max=16"`
}

type VerifyRequest struct {
	Code string `json:"code" binding:"required,min=4,max=16"`
	// BusinessID pins the lookup to one location; a coupon issued by a
	// different business of the same owner is rejected when set.
	BusinessID int64 `json:"businessId" binding:"omitempty,gt=0"`
}

// CouponView is a coupon plus its derived lifecycle status.
type CouponView struct {
	domain.Coupon
	Status string `json:"status"`
}

func toView(c *domain.Coupon, now time.Time) CouponView {
	status := "active"
	switch {
	case c.IsUsed:
		status = "used"
	case now.After(c.ExpiresAt):
		status = "expired"
	}
	return CouponView{Coupon: *c, Status: status}
}
