package storage

import (
	"reactbot/internal/models"
	"reactbot/internal/providers"
)

type UserStoreInterface interface {
	Get(userID string) (*models.UserProfile, error)
	Update(userID string, fn func(p *models.UserProfile, exists bool) (bool, error)) (*models.UserProfile, error)
	Count() (int, error)
}

type UserStore struct {
	store  DocumentStoreInterface
	logger providers.Logger
}

func NewUserStore(store DocumentStoreInterface, logger providers.Logger) UserStoreInterface {
	return &UserStore{store: store, logger: logger}
}

func (s *UserStore) decoder(userID string) func([]byte) (*models.UserProfile, bool, error) {
	return func(raw []byte) (*models.UserProfile, bool, error) {
		p, upgraded, err := models.UpgradeUserProfile(raw, userID)
		if err == nil && upgraded {
			s.logger.Infof(providers.TypeStore, "User %s upgraded to schema v%d", userID, models.UserProfileVersion)
		}
		return p, upgraded, err
	}
}

// Get loads a profile in its current layout. ErrNotFound when absent.
func (s *UserStore) Get(userID string) (*models.UserProfile, error) {
	return load(s.store, Users, userID, s.decoder(userID))
}

// Update loads (or creates) the profile, applies fn and saves it when fn
// asks for it. Concurrent updates of one user are serialized.
func (s *UserStore) Update(userID string, fn func(p *models.UserProfile, exists bool) (bool, error)) (*models.UserProfile, error) {
	return mutate(s.store, Users, userID, s.decoder(userID), func() *models.UserProfile {
		return models.NewUserProfile(userID, "")
	}, fn)
}

func (s *UserStore) Count() (int, error) {
	keys, err := s.store.Keys(Users)
	return len(keys), err
}
