package storage

import "reactbot/internal/models"

type ActivityStoreInterface interface {
	Get(date string) (*models.DailyActivityLog, error)
	Update(date string, fn func(l *models.DailyActivityLog, exists bool) error) (*models.DailyActivityLog, error)
}

type ActivityStore struct {
	store DocumentStoreInterface
}

func NewActivityStore(store DocumentStoreInterface) ActivityStoreInterface {
	return &ActivityStore{store: store}
}

func (s *ActivityStore) Get(date string) (*models.DailyActivityLog, error) {
	return load(s.store, Activity, date, decodeJSON[models.DailyActivityLog])
}

func (s *ActivityStore) Update(date string, fn func(l *models.DailyActivityLog, exists bool) error) (*models.DailyActivityLog, error) {
	return mutate(s.store, Activity, date, decodeJSON[models.DailyActivityLog], func() *models.DailyActivityLog {
		return models.NewDailyActivityLog(date, 0)
	}, func(l *models.DailyActivityLog, exists bool) (bool, error) {
		return true, fn(l, exists)
	})
}
