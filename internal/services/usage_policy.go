package services

import (
	"fmt"
	"reactbot/internal/models"
	"reactbot/internal/structures"
	"time"
)

type UsagePolicyInterface interface {
	CheckAndConsume(profile *models.UserProfile, premium bool) (bool, string)
	Today() string
	Location() *time.Location
}

type UsagePolicy struct {
	limit int
	loc   *time.Location
	now   func() time.Time
}

func NewUsagePolicy(conf *structures.Config) UsagePolicyInterface {
	return &UsagePolicy{
		limit: conf.FreeUserDailyLimit,
		loc:   referenceZone(conf.Usage.TimezoneOffset),
		now:   time.Now,
	}
}

// referenceZone is the fixed zone that defines the daily boundary.
func referenceZone(offset time.Duration) *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", int(offset.Hours())), int(offset.Seconds()))
}

func (u *UsagePolicy) Location() *time.Location {
	return u.loc
}

func (u *UsagePolicy) Today() string {
	return models.DateKey(u.now(), u.loc)
}

// CheckAndConsume gates one metered request. The first request of a new
// day always passes and resets the counter to 1, whatever the limit.
func (u *UsagePolicy) CheckAndConsume(profile *models.UserProfile, premium bool) (bool, string) {
	today := u.Today()

	if profile.LastUsedDate != today {
		profile.LastUsedDate = today
		profile.DailyUsageCount = 1
		return true, ""
	}

	if premium {
		profile.DailyUsageCount++
		return true, ""
	}

	if profile.DailyUsageCount >= u.limit {
		remaining := max(0, u.limit-profile.DailyUsageCount)
		return false, fmt.Sprintf("❌ You have reached the free plan daily limit (%d uses).\nRemaining uses: %d", u.limit, remaining)
	}

	profile.DailyUsageCount++
	return true, ""
}
