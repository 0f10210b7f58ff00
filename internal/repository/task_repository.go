package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"monthlyzen/internal/model"
)

// Containment predicate for the resolution_ids JSON array column. A join
// table would work too; the array column keeps the task row self-contained
// and json_each gives indexed-enough lookups at this scale.
const linkedClause = "resolution_ids IS NOT NULL AND EXISTS (SELECT 1 FROM json_each(tasks.resolution_ids) WHERE json_each.value = ?)"

// WeekdayCount is one row of the day-of-week aggregation.
type WeekdayCount struct {
	Weekday   int
	Total     int64
	Completed int64
}

// HourCount is one row of the time-of-day aggregation.
type HourCount struct {
	Hour      int
	Total     int64
	Completed int64
}

// FocusAreaCount is one row of the focus-area aggregation.
type FocusAreaCount struct {
	FocusArea   string
	Total       int64
	Completed   int64
	AvgDuration float64 // minutes
}

// TaskRepository handles plan tasks and the aggregation reads behind the
// pattern analytics.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.ResolutionIDs == nil {
		task.ResolutionIDs = []int64{}
	}
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListUpcoming returns incomplete tasks scheduled in [from, to), soonest first.
func (r *TaskRepository) ListUpcoming(ctx context.Context, userID uint, from, to time.Time) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_completed = ? AND start_time >= ? AND start_time < ?", userID, false, from, to).
		Order("start_time ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) MarkCompleted(ctx context.Context, task *model.Task, completedAt time.Time) error {
	task.IsCompleted = true
	task.CompletedAt = &completedAt
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	return nil
}

// LinkResolution adds the resolution to the task's back-reference set.
// Linking an already-linked resolution is a no-op.
func (r *TaskRepository) LinkResolution(ctx context.Context, userID, taskID uint, resolutionID int64) (*model.Task, error) {
	task, err := r.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if task.LinkedTo(resolutionID) {
		return task, nil
	}
	task.ResolutionIDs = append(task.ResolutionIDs, resolutionID)
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return nil, fmt.Errorf("link resolution: %w", err)
	}
	return task, nil
}

// UnlinkResolution removes the resolution from the task's back-reference set.
// Unlinking an absent resolution is a no-op.
func (r *TaskRepository) UnlinkResolution(ctx context.Context, userID, taskID uint, resolutionID int64) (*model.Task, error) {
	task, err := r.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if !task.LinkedTo(resolutionID) {
		return task, nil
	}
	kept := make([]int64, 0, len(task.ResolutionIDs)-1)
	for _, id := range task.ResolutionIDs {
		if id != resolutionID {
			kept = append(kept, id)
		}
	}
	task.ResolutionIDs = kept
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return nil, fmt.Errorf("unlink resolution: %w", err)
	}
	return task, nil
}

// CountLinked counts the user's tasks referencing the resolution.
func (r *TaskRepository) CountLinked(ctx context.Context, userID uint, resolutionID int64) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ?", userID).
		Where(linkedClause, resolutionID).
		Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count linked tasks: %w", err)
	}
	return total, nil
}

// CountLinkedCompleted counts the completed subset of linked tasks.
func (r *TaskRepository) CountLinkedCompleted(ctx context.Context, userID uint, resolutionID int64) (int64, error) {
	var completed int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Where(linkedClause, resolutionID).
		Count(&completed).Error; err != nil {
		return 0, fmt.Errorf("count linked completed tasks: %w", err)
	}
	return completed, nil
}

// WeekdayCounts groups completed/total task counts by weekday (0=Sunday, as
// strftime('%w') reports) over tasks starting at or after since.
func (r *TaskRepository) WeekdayCounts(ctx context.Context, userID uint, since time.Time) ([]WeekdayCount, error) {
	var rows []WeekdayCount
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("CAST(strftime('%w', start_time) AS INTEGER) AS weekday, COUNT(*) AS total, SUM(CASE WHEN is_completed THEN 1 ELSE 0 END) AS completed").
		Where("user_id = ? AND start_time >= ?", userID, since).
		Group("weekday").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("weekday counts: %w", err)
	}
	return rows, nil
}

// HourCounts groups completed/total task counts by hour of day (UTC) over
// tasks starting at or after since.
func (r *TaskRepository) HourCounts(ctx context.Context, userID uint, since time.Time) ([]HourCount, error) {
	var rows []HourCount
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("CAST(strftime('%H', start_time) AS INTEGER) AS hour, COUNT(*) AS total, SUM(CASE WHEN is_completed THEN 1 ELSE 0 END) AS completed").
		Where("user_id = ? AND start_time >= ?", userID, since).
		Group("hour").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("hour counts: %w", err)
	}
	return rows, nil
}

// FocusAreaCounts groups completed/total counts and average scheduled
// duration by focus-area label over tasks starting at or after since.
func (r *TaskRepository) FocusAreaCounts(ctx context.Context, userID uint, since time.Time) ([]FocusAreaCount, error) {
	var rows []FocusAreaCount
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("focus_area, COUNT(*) AS total, SUM(CASE WHEN is_completed THEN 1 ELSE 0 END) AS completed, AVG((julianday(end_time) - julianday(start_time)) * 24 * 60) AS avg_duration").
		Where("user_id = ? AND start_time >= ? AND focus_area <> ''", userID, since).
		Group("focus_area").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("focus area counts: %w", err)
	}
	return rows, nil
}

// CompletionStats returns total and completed task counts for the window.
func (r *TaskRepository) CompletionStats(ctx context.Context, userID uint, since time.Time) (total, completed int64, err error) {
	type row struct {
		Total     int64
		Completed int64
	}
	var stats row
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("COUNT(*) AS total, SUM(CASE WHEN is_completed THEN 1 ELSE 0 END) AS completed").
		Where("user_id = ? AND start_time >= ?", userID, since).
		Scan(&stats).Error; err != nil {
		return 0, 0, fmt.Errorf("completion stats: %w", err)
	}
	return stats.Total, stats.Completed, nil
}
