package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"monthlyzen/internal/model"
)

// ResolutionRepository manages monthly and yearly resolutions. Every query is
// scoped to the owning user; an unowned id surfaces as record-not-found.
type ResolutionRepository struct {
	db *gorm.DB
}

func NewResolutionRepository(db *gorm.DB) *ResolutionRepository {
	return &ResolutionRepository{db: db}
}

func (r *ResolutionRepository) Create(ctx context.Context, resolution *model.Resolution) error {
	if err := r.db.WithContext(ctx).Create(resolution).Error; err != nil {
		return fmt.Errorf("create resolution: %w", err)
	}
	return nil
}

func (r *ResolutionRepository) FindByID(ctx context.Context, userID, resolutionID uint) (*model.Resolution, error) {
	var resolution model.Resolution
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, resolutionID).First(&resolution).Error; err != nil {
		return nil, err
	}
	return &resolution, nil
}

// ListActive returns unarchived resolutions, highest priority first.
func (r *ResolutionRepository) ListActive(ctx context.Context, userID uint) ([]model.Resolution, error) {
	var resolutions []model.Resolution
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND archived_at IS NULL", userID).
		Order("priority DESC, id ASC").
		Find(&resolutions).Error; err != nil {
		return nil, err
	}
	return resolutions, nil
}

// ListActiveByType filters active resolutions by monthly/yearly.
func (r *ResolutionRepository) ListActiveByType(ctx context.Context, userID uint, resolutionType string) ([]model.Resolution, error) {
	var resolutions []model.Resolution
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND archived_at IS NULL AND resolution_type = ?", userID, resolutionType).
		Order("priority DESC, id ASC").
		Find(&resolutions).Error; err != nil {
		return nil, err
	}
	return resolutions, nil
}

// Archive soft-deletes a resolution. Archiving an already-archived row keeps
// the original timestamp.
func (r *ResolutionRepository) Archive(ctx context.Context, userID, resolutionID uint, at time.Time) error {
	resolution, err := r.FindByID(ctx, userID, resolutionID)
	if err != nil {
		return err
	}
	if resolution.Archived() {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(resolution).UpdateColumn("archived_at", at).Error; err != nil {
		return fmt.Errorf("archive resolution: %w", err)
	}
	return nil
}

// HardDelete removes a resolution row permanently.
func (r *ResolutionRepository) HardDelete(ctx context.Context, userID, resolutionID uint) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, resolutionID).
		Delete(&model.Resolution{}).Error; err != nil {
		return fmt.Errorf("delete resolution: %w", err)
	}
	return nil
}
