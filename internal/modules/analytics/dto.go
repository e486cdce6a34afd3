package analytics

import "taplink/internal/repository"

type TrackViewRequest struct {
	BusinessSlug string `json:"businessSlug" binding:"required"`
	Source       string `json:"source" binding:"omitempty,oneof=google whatsapp facebook instagram direct qr"`
	Referrer     string `json:"referrer" binding:"omitempty,max=500"`
}

type DashboardResponse struct {
	TotalViews     int64                    `json:"totalViews"`
	TotalFeedback  int64                    `json:"totalFeedback"`
	AverageRating  float64                  `json:"averageRating"`
	ViewsLast30    int64                    `json:"viewsLast30Days"`
	FeedbackLast30 int64                    `json:"feedbackLast30Days"`
	ConversionRate float64                  `json:"conversionRate"`
	Sources        []repository.SourceCount `json:"sources"`
	ViewsByDay     []repository.DailyCount  `json:"viewsByDay"`
	FeedbackByDay  []repository.DailyCount  `json:"feedbackByDay"`
}

// Event is what gets pushed over the dashboard websocket.
type Event struct {
	Type       string `json:"type"`
	BusinessID int64  `json:"businessId"`
	Rating     int    `json:"rating,omitempty"`
	Source     string `json:"source,omitempty"`
}
