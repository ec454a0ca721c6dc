package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDailyActivityLog_Record(t *testing.T) {
	l := NewDailyActivityLog("2025-03-01", 4)

	l.Record("u1")
	l.Record("u1")
	l.Record("u2")

	assert.Equal(t, 2, l.DAU())
	assert.Equal(t, 3, l.TotalActions)
	assert.Equal(t, 4, l.ServerCount)
	assert.Equal(t, []string{"u1", "u2"}, l.ActiveUsers)
}

func TestDateKey_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	ts := time.Date(2025, 3, 1, 16, 30, 0, 0, time.UTC)

	assert.Equal(t, "2025-03-02", DateKey(ts, loc))
	assert.Equal(t, "2025-03-01", DateKey(ts, time.UTC))
}

func TestActiveSet(t *testing.T) {
	a := NewDailyActivityLog("2025-03-01", 1)
	a.Record("123456789012345678")
	a.Record("u1")
	b := NewDailyActivityLog("2025-03-02", 1)
	b.Record("123456789012345678")
	b.Record("223456789012345678")
	b.Record("u1")
	b.Record("u2")

	set := NewActiveSet()
	set.AddLog(a)
	set.AddLog(b)

	assert.Equal(t, 4, set.Len())
	assert.Equal(t, 0, NewActiveSet().Len())
}
