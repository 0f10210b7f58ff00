package service

import (
	"context"
	"math"

	"monthlyzen/internal/model"
	"monthlyzen/internal/repository"
)

// ProgressService derives resolution completion from linked tasks. Progress
// is never stored; it is recomputed from the task back-references on demand.
type ProgressService struct {
	taskRepo       *repository.TaskRepository
	resolutionRepo *repository.ResolutionRepository
}

func NewProgressService(taskRepo *repository.TaskRepository, resolutionRepo *repository.ResolutionRepository) *ProgressService {
	return &ProgressService{taskRepo: taskRepo, resolutionRepo: resolutionRepo}
}

// CalculateProgress returns the resolution's completion percentage, 0..100.
// A resolution with zero linked tasks always reports exactly 0. Ownership is
// checked first; an unowned id surfaces as record-not-found.
func (s *ProgressService) CalculateProgress(ctx context.Context, userID, resolutionID uint) (int, error) {
	if _, err := s.resolutionRepo.FindByID(ctx, userID, resolutionID); err != nil {
		return 0, err
	}

	total, err := s.taskRepo.CountLinked(ctx, userID, int64(resolutionID))
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}

	completed, err := s.taskRepo.CountLinkedCompleted(ctx, userID, int64(resolutionID))
	if err != nil {
		return 0, err
	}

	return int(math.Round(100 * float64(completed) / float64(total))), nil
}

// Link attaches a task to a resolution. Idempotent: linking an already-linked
// pair changes nothing.
func (s *ProgressService) Link(ctx context.Context, userID, taskID, resolutionID uint) (*model.Task, error) {
	if _, err := s.resolutionRepo.FindByID(ctx, userID, resolutionID); err != nil {
		return nil, err
	}
	return s.taskRepo.LinkResolution(ctx, userID, taskID, int64(resolutionID))
}

// Unlink detaches a task from a resolution. Idempotent: unlinking an absent
// pair changes nothing.
func (s *ProgressService) Unlink(ctx context.Context, userID, taskID, resolutionID uint) (*model.Task, error) {
	if _, err := s.resolutionRepo.FindByID(ctx, userID, resolutionID); err != nil {
		return nil, err
	}
	return s.taskRepo.UnlinkResolution(ctx, userID, taskID, int64(resolutionID))
}
