package repository

import (
	"context"

	"gorm.io/gorm"

	"damagelens/internal/model"
)

// PredictionRepository defines prediction persistence operations.
type PredictionRepository interface {
	Create(ctx context.Context, prediction *model.Prediction) error
	FindByID(ctx context.Context, id uint) (*model.Prediction, error)
	ListAll(ctx context.Context) ([]model.Prediction, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Prediction, error)
	Delete(ctx context.Context, id uint) error
}

type predictionRepository struct {
	db *gorm.DB
}

// NewPredictionRepository builds a GORM-backed repository.
func NewPredictionRepository(db *gorm.DB) PredictionRepository {
	return &predictionRepository{db: db}
}

func (r *predictionRepository) Create(ctx context.Context, prediction *model.Prediction) error {
	return r.db.WithContext(ctx).Create(prediction).Error
}

func (r *predictionRepository) FindByID(ctx context.Context, id uint) (*model.Prediction, error) {
	var prediction model.Prediction
	if err := r.db.WithContext(ctx).First(&prediction, id).Error; err != nil {
		return nil, err
	}
	return &prediction, nil
}

// ListAll returns every prediction newest first with the owner resolved for
// the admin view.
func (r *predictionRepository) ListAll(ctx context.Context) ([]model.Prediction, error) {
	var predictions []model.Prediction
	err := r.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email")
		}).
		Order("created_at DESC").
		Find(&predictions).Error
	if err != nil {
		return nil, err
	}
	return predictions, nil
}

func (r *predictionRepository) ListByUser(ctx context.Context, userID uint) ([]model.Prediction, error) {
	var predictions []model.Prediction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&predictions).Error
	if err != nil {
		return nil, err
	}
	return predictions, nil
}

// Delete removes a prediction permanently. No soft delete.
func (r *predictionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Prediction{}, id).Error
}
