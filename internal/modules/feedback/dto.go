package feedback

type CreateFeedbackRequest struct {
	BusinessSlug string   `json:"businessSlug" binding:"required"`
	Rating       int      `json:"rating" binding:"required,gte=1,lte=5"`
	Comment      string   `json:"comment" binding:"omitempty,max=2000"`
	VisitorName  string   `json:"visitorName" binding:"omitempty,max=100"`
	VisitorPhone string   `json:"visitorPhone" binding:"omitempty,max=30"`
	VisitorEmail string   `json:"visitorEmail" binding:"omitempty,email"`
	Photos       []string `json:"photos" binding:"omitempty,max=3"`
}

// CreateFeedbackResponse tells the frontend what to do next. CouponCode is
// set only when a reward was granted for this submission.
type CreateFeedbackResponse struct {
	FeedbackID  int64  `json:"feedbackId"`
	Action      string `json:"action"`
	RedirectURL string `json:"redirectUrl,omitempty"`
	CouponCode  string `json:"couponCode,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved rejected"`
}
