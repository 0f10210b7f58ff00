package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// SchedulerService owns Monthly Zen's two background jobs: the daily morning
// intention broadcast and the periodic quota rollover sweep.
type SchedulerService struct {
	cron *cron.Cron
}

func NewSchedulerService(loc *time.Location) *SchedulerService {
	return &SchedulerService{
		cron: cron.New(cron.WithLocation(loc), cron.WithSeconds()),
	}
}

// ScheduleMorningBroadcast registers the intention broadcast at the given
// HH:MM local time, once per day.
func (s *SchedulerService) ScheduleMorningBroadcast(at string, broadcast func()) error {
	spec, err := buildDailySpec(at)
	if err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(spec, broadcast); err != nil {
		return fmt.Errorf("schedule morning broadcast: %w", err)
	}
	return nil
}

// ScheduleQuotaSweep registers the rollover sweep every interval.
func (s *SchedulerService) ScheduleQuotaSweep(every time.Duration, sweep func()) error {
	if every <= 0 {
		return fmt.Errorf("sweep interval must be positive")
	}
	seconds := int(every.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", seconds), sweep); err != nil {
		return fmt.Errorf("schedule quota sweep: %w", err)
	}
	return nil
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func buildDailySpec(timeStr string) (string, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", timeStr)
	}
	// cron format: second minute hour dom month dow
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}
