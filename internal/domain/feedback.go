package domain

import "time"

type FeedbackStatus string

const (
	FeedbackPending  FeedbackStatus = "pending"
	FeedbackApproved FeedbackStatus = "approved"
	FeedbackRejected FeedbackStatus = "rejected"
)

// Feedback is one submitted rating event. It is immutable after creation
// except for the moderation status and the coupon code linkage.
type Feedback struct {
	ID           int64          `gorm:"column:id;primaryKey" json:"id"`
	BusinessID   int64          `gorm:"column:business_id;index" json:"businessId"`
	Rating       int            `gorm:"column:rating" json:"rating"`
	Comment      string         `gorm:"column:comment" json:"comment,omitempty"`
	VisitorName  string         `gorm:"column:visitor_name" json:"visitorName,omitempty"`
	VisitorPhone string         `gorm:"column:visitor_phone" json:"visitorPhone,omitempty"`
	VisitorEmail string         `gorm:"column:visitor_email" json:"visitorEmail,omitempty"`
	VisitorIP    string         `gorm:"column:visitor_ip" json:"-"`
	Photos       []string       `gorm:"-" json:"photos"`
	PhotosRaw    string         `gorm:"column:photos" json:"-"`
	Status       FeedbackStatus `gorm:"column:status;default:pending" json:"status"`
	CouponCode   string         `gorm:"column:coupon_code" json:"couponCode,omitempty"`
	CreatedAt    time.Time      `gorm:"column:created_at" json:"createdAt"`
}

func (Feedback) TableName() string { return "feedbacks" }
