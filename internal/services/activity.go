package services

import (
	"errors"
	"fmt"
	"reactbot/internal/models"
	"reactbot/internal/providers"
	"reactbot/internal/storage"
	"time"

	"go.uber.org/atomic"
)

const mauWindowDays = 30

type ActivityServiceInterface interface {
	Record(userID string, serverCount int) error
	Day(date string) (*models.DailyActivityLog, error)
	DAU(date string) (int, error)
	MAU(date string) (int, error)
	Today() string
	TodayActiveUsers() int
}

type ActivityService struct {
	store  storage.ActivityStoreInterface
	policy UsagePolicyInterface
	logger providers.Logger

	// last known DAU for today, served to the metrics gauge
	todayDate  atomic.String
	todayUsers atomic.Int64
}

func NewActivityService(store storage.ActivityStoreInterface, policy UsagePolicyInterface, logger providers.Logger) ActivityServiceInterface {
	return &ActivityService{store: store, policy: policy, logger: logger}
}

func (s *ActivityService) Today() string {
	return s.policy.Today()
}

// Record adds the user to today's active set and counts one action. The
// server count is only captured when the day's log is created.
func (s *ActivityService) Record(userID string, serverCount int) error {
	today := s.Today()
	log, err := s.store.Update(today, func(l *models.DailyActivityLog, exists bool) error {
		if !exists {
			l.ServerCount = serverCount
		}
		l.Record(userID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("record activity for %s: %w", today, err)
	}

	s.todayDate.Store(today)
	s.todayUsers.Store(int64(log.DAU()))
	return nil
}

// Day returns the log for date, or an empty log when nothing was recorded.
func (s *ActivityService) Day(date string) (*models.DailyActivityLog, error) {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	log, err := s.store.Get(date)
	if errors.Is(err, storage.ErrNotFound) {
		return models.NewDailyActivityLog(date, 0), nil
	}
	return log, err
}

func (s *ActivityService) DAU(date string) (int, error) {
	log, err := s.Day(date)
	if err != nil {
		return 0, err
	}
	return log.DAU(), nil
}

// MAU counts distinct users over the 30 days ending at date, inclusive.
func (s *ActivityService) MAU(date string) (int, error) {
	end, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", date, err)
	}

	users := models.NewActiveSet()
	for i := 0; i < mauWindowDays; i++ {
		day := end.AddDate(0, 0, -i).Format(models.DateLayout)
		log, err := s.Day(day)
		if err != nil {
			return 0, err
		}
		users.AddLog(log)
	}
	return users.Len(), nil
}

func (s *ActivityService) TodayActiveUsers() int {
	today := s.Today()
	if s.todayDate.Load() == today {
		return int(s.todayUsers.Load())
	}

	n, err := s.DAU(today)
	if err != nil {
		s.logger.Warnf(providers.TypeStore, "Unable to read today's activity: %s", err)
		return 0
	}
	s.todayDate.Store(today)
	s.todayUsers.Store(int64(n))
	return n
}
