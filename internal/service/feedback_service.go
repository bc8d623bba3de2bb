package service

import (
	"context"
	"fmt"
	"time"

	"damagelens/internal/errors"
	"damagelens/internal/model"
	"damagelens/internal/repository"
)

const (
	// FeedbackListLimit is the number of testimonials returned by List.
	FeedbackListLimit = 10

	// Submissions allowed per client IP within the rate window. The write
	// surface is unauthenticated, so it gets a basic anti-abuse cap.
	feedbackRateLimit  = 5
	feedbackRateWindow = time.Hour
)

// FeedbackService handles public testimonial submission and listing.
type FeedbackService interface {
	Submit(ctx context.Context, name, city, review, clientIP string) (*model.Feedback, error)
	List(ctx context.Context) ([]model.Feedback, error)
}

// RateCounter increments a keyed counter whose TTL starts on first
// increment, satisfied by *cache.Client. A zero count means no limiting.
type RateCounter interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type feedbackService struct {
	repo    repository.FeedbackRepository
	counter RateCounter
}

// NewFeedbackService creates a new feedback service.
func NewFeedbackService(repo repository.FeedbackRepository, counter RateCounter) FeedbackService {
	return &feedbackService{repo: repo, counter: counter}
}

// Submit stores a testimonial after rate limiting the submitting IP.
// Field validation runs at the request boundary.
func (s *feedbackService) Submit(ctx context.Context, name, city, review, clientIP string) (*model.Feedback, error) {
	if s.counter != nil {
		key := fmt.Sprintf("feedback_rate:%s", clientIP)
		if count, _ := s.counter.Incr(ctx, key, feedbackRateWindow); count > feedbackRateLimit {
			return nil, errors.ErrRateLimited
		}
	}

	feedback := &model.Feedback{
		Name:   name,
		City:   city,
		Review: review,
	}

	if err := s.repo.Create(ctx, feedback); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}

	return feedback, nil
}

// List returns the most recent testimonials, newest first.
func (s *feedbackService) List(ctx context.Context) ([]model.Feedback, error) {
	return s.repo.ListRecent(ctx, FeedbackListLimit)
}
