package models

import "slices"

type ServerConfig struct {
	ServerID         string   `json:"server_id"`
	ServerName       string   `json:"server_name"`
	ActiveChannelIDs []string `json:"active_channel_ids"`
}

func NewServerConfig(serverID, serverName string) *ServerConfig {
	return &ServerConfig{
		ServerID:         serverID,
		ServerName:       serverName,
		ActiveChannelIDs: []string{},
	}
}

func (s *ServerConfig) IsActive(channelID string) bool {
	return slices.Contains(s.ActiveChannelIDs, channelID)
}

// Activate appends the channel; false when it is already listed.
func (s *ServerConfig) Activate(channelID string) bool {
	if s.IsActive(channelID) {
		return false
	}
	s.ActiveChannelIDs = append(s.ActiveChannelIDs, channelID)
	return true
}

// Deactivate removes the channel; false when it was not listed.
func (s *ServerConfig) Deactivate(channelID string) bool {
	i := slices.Index(s.ActiveChannelIDs, channelID)
	if i < 0 {
		return false
	}
	s.ActiveChannelIDs = slices.Delete(s.ActiveChannelIDs, i, i+1)
	return true
}
