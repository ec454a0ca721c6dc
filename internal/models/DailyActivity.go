package models

import (
	"slices"
	"time"
)

const DateLayout = "2006-01-02"

type DailyActivityLog struct {
	Date         string   `json:"date"`
	ActiveUsers  []string `json:"active_users"`
	TotalActions int      `json:"total_actions"`
	ServerCount  int      `json:"server_count"`
}

func NewDailyActivityLog(date string, serverCount int) *DailyActivityLog {
	return &DailyActivityLog{
		Date:        date,
		ActiveUsers: []string{},
		ServerCount: serverCount,
	}
}

// Record counts one action and adds the user to the active set once.
func (l *DailyActivityLog) Record(userID string) {
	if !slices.Contains(l.ActiveUsers, userID) {
		l.ActiveUsers = append(l.ActiveUsers, userID)
	}
	l.TotalActions++
}

func (l *DailyActivityLog) DAU() int {
	return len(l.ActiveUsers)
}

// DateKey formats t as the calendar date in loc.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}
