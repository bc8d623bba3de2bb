package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"damagelens/internal/errors"
	"damagelens/internal/model"
)

func TestFeedbackService_Submit(t *testing.T) {
	mockRepo := new(MockFeedbackRepository)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Feedback")).Return(nil)

	svc := NewFeedbackService(mockRepo, nil)

	feedback, err := svc.Submit(context.Background(), "Al", "Kathmandu", "Great estimate", "203.0.113.9")
	assert.NoError(t, err)
	assert.Equal(t, "Al", feedback.Name)
	assert.Equal(t, "Kathmandu", feedback.City)
	mockRepo.AssertExpectations(t)
}

func TestFeedbackService_Submit_RateLimit(t *testing.T) {
	tests := []struct {
		name          string
		count         int64
		expectedError error
	}{
		{name: "fifth submission within window accepted", count: 5},
		{name: "sixth submission within window rejected", count: 6, expectedError: errors.ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockFeedbackRepository)
			counter := new(MockRateCounter)
			counter.On("Incr", mock.Anything, "feedback_rate:203.0.113.9", feedbackRateWindow).Return(tt.count, nil)
			if tt.expectedError == nil {
				mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Feedback")).Return(nil)
			}

			svc := NewFeedbackService(mockRepo, counter)

			feedback, err := svc.Submit(context.Background(), "Al", "Kathmandu", "Great estimate", "203.0.113.9")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, feedback)
				mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, feedback)
			}

			counter.AssertExpectations(t)
			mockRepo.AssertExpectations(t)
		})
	}
}

// Counter unavailability degrades open: submissions still land.
func TestFeedbackService_Submit_CounterUnavailable(t *testing.T) {
	mockRepo := new(MockFeedbackRepository)
	counter := new(MockRateCounter)
	counter.On("Incr", mock.Anything, "feedback_rate:203.0.113.9", feedbackRateWindow).Return(int64(0), nil)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Feedback")).Return(nil)

	svc := NewFeedbackService(mockRepo, counter)

	feedback, err := svc.Submit(context.Background(), "Al", "Kathmandu", "Great estimate", "203.0.113.9")
	assert.NoError(t, err)
	assert.NotNil(t, feedback)
	mockRepo.AssertExpectations(t)
}

func TestFeedbackService_List_CapsAtTen(t *testing.T) {
	mockRepo := new(MockFeedbackRepository)
	mockRepo.On("ListRecent", mock.Anything, FeedbackListLimit).Return([]model.Feedback{{ID: 1}}, nil)

	svc := NewFeedbackService(mockRepo, nil)

	feedbacks, err := svc.List(context.Background())
	assert.NoError(t, err)
	assert.Len(t, feedbacks, 1)
	mockRepo.AssertExpectations(t)
}
