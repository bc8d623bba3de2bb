package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"mime/multipart"

	"gorm.io/gorm"

	"damagelens/internal/errors"
	"damagelens/internal/model"
	"damagelens/internal/predictor"
	"damagelens/internal/repository"
	"damagelens/internal/storage"
)

// MaxPredictImages caps the number of images accepted per request.
const MaxPredictImages = 6

// PredictionService proxies damage predictions to the external service and
// manages the persisted prediction records.
type PredictionService interface {
	Predict(ctx context.Context, vehicleName, vehicleModel string, images []*multipart.FileHeader, ownerID *uint) ([]byte, error)
	ListAll(ctx context.Context) ([]model.Prediction, error)
	ListMine(ctx context.Context, userID uint) ([]model.Prediction, error)
	Delete(ctx context.Context, id uint) error
}

// PredictClient is the upstream prediction call, satisfied by
// *predictor.Client.
type PredictClient interface {
	Predict(ctx context.Context, vehicleName, vehicleModel string, images []*multipart.FileHeader) (*predictor.Response, error)
}

type predictionService struct {
	predictionRepo repository.PredictionRepository
	client         PredictClient
}

// NewPredictionService creates a new prediction service.
func NewPredictionService(predictionRepo repository.PredictionRepository, client PredictClient) PredictionService {
	return &predictionService{
		predictionRepo: predictionRepo,
		client:         client,
	}
}

// Predict forwards the validated images and vehicle metadata to the external
// service and relays the upstream body verbatim. Each successfully classified
// image is persisted as a Prediction owned by the requester, on the same
// request path that served the response.
func (s *predictionService) Predict(ctx context.Context, vehicleName, vehicleModel string, images []*multipart.FileHeader, ownerID *uint) ([]byte, error) {
	for _, header := range images {
		if err := storage.ValidateImageFile(header); err != nil {
			return nil, err
		}
	}

	resp, err := s.client.Predict(ctx, vehicleName, vehicleModel, images)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrUpstream, err.Error())
	}

	for _, result := range resp.Results {
		if result.Error != "" {
			continue
		}
		confidence := result.Confidence / 100 // upstream reports a percentage
		if confidence < 0 {
			confidence = 0
		} else if confidence > 1 {
			confidence = 1
		}
		record := &model.Prediction{
			VehicleName:   vehicleName,
			VehicleModel:  vehicleModel,
			DamageType:    result.Damage,
			Confidence:    confidence,
			EstimatedCost: result.EstimatedCost,
			ImageName:     result.Filename,
			UserID:        ownerID,
		}
		if err := s.predictionRepo.Create(ctx, record); err != nil {
			// The caller already has a usable upstream answer; a failed
			// history write must not fail the whole request.
			continue
		}
	}

	return resp.Raw, nil
}

// ListAll returns every prediction for the admin view, newest first.
func (s *predictionService) ListAll(ctx context.Context) ([]model.Prediction, error) {
	return s.predictionRepo.ListAll(ctx)
}

// ListMine returns the requester's own prediction history, newest first.
func (s *predictionService) ListMine(ctx context.Context, userID uint) ([]model.Prediction, error) {
	return s.predictionRepo.ListByUser(ctx, userID)
}

// Delete removes a prediction permanently (admin operation).
func (s *predictionService) Delete(ctx context.Context, id uint) error {
	if _, err := s.predictionRepo.FindByID(ctx, id); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrPredictionNotFound
		}
		return err
	}
	return s.predictionRepo.Delete(ctx, id)
}
