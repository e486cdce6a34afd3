package analytics

import (
	"context"
	"errors"
	"log"
	"strings"

	"taplink/internal/domain"
	"taplink/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	views      *repository.ViewRepository
	feedbacks  *repository.FeedbackRepository
	businesses *repository.BusinessRepository
	hub        *Hub
}

func NewService(
	views *repository.ViewRepository,
	feedbacks *repository.FeedbackRepository,
	businesses *repository.BusinessRepository,
	hub *Hub,
) *Service {
	return &Service{views: views, feedbacks: feedbacks, businesses: businesses, hub: hub}
}

// TrackView records one public-page visit and bumps the totalViews counter.
func (s *Service) TrackView(ctx context.Context, req TrackViewRequest, visitorIP, userAgent string) error {
	business, err := s.businesses.GetBySlug(ctx, req.BusinessSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBusinessNotFound
		}
		return err
	}

	source := req.Source
	if source == "" {
		source = inferSource(req.Referrer)
	}

	view := &domain.View{
		BusinessID: business.ID,
		VisitorIP:  visitorIP,
		UserAgent:  userAgent,
		Referrer:   strings.TrimSpace(req.Referrer),
		Source:     source,
	}
	if err := s.views.Create(ctx, view); err != nil {
		return err
	}

	if err := s.businesses.IncrementViews(ctx, business.ID); err != nil {
		log.Printf("view counter update failed business_id=%d err=%v", business.ID, err)
	}

	if s.hub != nil {
		s.hub.Broadcast(business.ID, Event{Type: "view", BusinessID: business.ID, Source: source})
	}
	return nil
}

// PublishFeedback pushes a live event when a new rating lands. Satisfies
// the feedback module's Notifier.
func (s *Service) PublishFeedback(businessID int64, rating int) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(businessID, Event{Type: "feedback", BusinessID: businessID, Rating: rating})
}

// Dashboard assembles the owner analytics snapshot over the last `days` days.
func (s *Service) Dashboard(ctx context.Context, businessID int64, days int) (*DashboardResponse, error) {
	if days <= 0 || days > 365 {
		days = 30
	}

	business, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}

	sources, err := s.views.SourceBreakdown(ctx, businessID)
	if err != nil {
		return nil, err
	}
	viewsByDay, err := s.views.DailySeries(ctx, businessID, days)
	if err != nil {
		return nil, err
	}
	feedbackByDay, err := s.feedbacks.DailySeries(ctx, businessID, days)
	if err != nil {
		return nil, err
	}

	var viewsLast30, feedbackLast30 int64
	for _, p := range viewsByDay {
		viewsLast30 += p.Count
	}
	for _, p := range feedbackByDay {
		feedbackLast30 += p.Count
	}

	conversion := 0.0
	if business.TotalViews > 0 {
		conversion = float64(business.TotalFeedback) / float64(business.TotalViews)
	}

	return &DashboardResponse{
		TotalViews:     business.TotalViews,
		TotalFeedback:  business.TotalFeedback,
		AverageRating:  business.AverageRating,
		ViewsLast30:    viewsLast30,
		FeedbackLast30: feedbackLast30,
		ConversionRate: conversion,
		Sources:        sources,
		ViewsByDay:     viewsByDay,
		FeedbackByDay:  feedbackByDay,
	}, nil
}

// inferSource classifies a visit by its referrer when the frontend did not
// tag it explicitly.
func inferSource(referrer string) string {
	ref := strings.ToLower(referrer)
	switch {
	case ref == "":
		return "direct"
	case strings.Contains(ref, "google."):
		return "google"
	case strings.Contains(ref, "whatsapp") || strings.Contains(ref, "wa.me"):
		return "whatsapp"
	case strings.Contains(ref, "facebook.") || strings.Contains(ref, "fb.me"):
		return "facebook"
	case strings.Contains(ref, "instagram."):
		return "instagram"
	default:
		return "direct"
	}
}
