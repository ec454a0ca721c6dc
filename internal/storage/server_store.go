package storage

import (
	"errors"
	"reactbot/internal/models"
)

type ServerStoreInterface interface {
	Get(serverID string) (*models.ServerConfig, error)
	Update(serverID string, fn func(s *models.ServerConfig, exists bool) (bool, error)) (*models.ServerConfig, error)
	IsChannelActive(serverID, channelID string) (bool, error)
}

type ServerStore struct {
	store DocumentStoreInterface
}

func NewServerStore(store DocumentStoreInterface) ServerStoreInterface {
	return &ServerStore{store: store}
}

func (s *ServerStore) Get(serverID string) (*models.ServerConfig, error) {
	cfg, err := load(s.store, Servers, serverID, decodeJSON[models.ServerConfig])
	if err != nil {
		return nil, err
	}
	if cfg.ActiveChannelIDs == nil {
		cfg.ActiveChannelIDs = []string{}
	}
	return cfg, nil
}

func (s *ServerStore) Update(serverID string, fn func(s *models.ServerConfig, exists bool) (bool, error)) (*models.ServerConfig, error) {
	return mutate(s.store, Servers, serverID, decodeJSON[models.ServerConfig], func() *models.ServerConfig {
		return models.NewServerConfig(serverID, "")
	}, fn)
}

// IsChannelActive is false for servers that were never activated.
func (s *ServerStore) IsChannelActive(serverID, channelID string) (bool, error) {
	cfg, err := s.Get(serverID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return cfg.IsActive(channelID), nil
}
