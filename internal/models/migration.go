package models

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

const UserProfileVersion = 2

// obsoleteUserKeys maps retired field names to their replacements.
var obsoleteUserKeys = map[string]string{
	"custom_x_post_prompt": "custom_prompt_x_post",
}

func userProfileDefaults(userID string) map[string]any {
	return map[string]any{
		"user_id":               userID,
		"username":              "",
		"status":                string(TierFree),
		"last_used_date":        "",
		"daily_usage_count":     0,
		"custom_prompt_x_post":  "",
		"custom_prompt_article": "",
		"custom_prompt_memo":    "",
	}
}

// UpgradeUserProfile decodes a stored user document into the current
// layout. Absent fields get their defaults, retired keys are renamed and
// the counter is coerced to an integer. The bool result reports whether
// the stored bytes differ from the current layout and should be saved back.
func UpgradeUserProfile(raw []byte, userID string) (*UserProfile, bool, error) {
	doc := map[string]any{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false, fmt.Errorf("decode user %s: %w", userID, err)
	}

	changed := false
	version := cast.ToInt(doc["schema_version"])
	if version < UserProfileVersion {
		changed = true
	}

	for oldKey, newKey := range obsoleteUserKeys {
		val, ok := doc[oldKey]
		if !ok {
			continue
		}
		if _, exists := doc[newKey]; !exists {
			doc[newKey] = val
		}
		delete(doc, oldKey)
		changed = true
	}

	for key, def := range userProfileDefaults(userID) {
		if _, ok := doc[key]; !ok {
			doc[key] = def
			changed = true
		}
	}

	count, err := cast.ToIntE(doc["daily_usage_count"])
	if err != nil || count < 0 {
		count = 0
		changed = true
	}

	status := Tier(cast.ToString(doc["status"]))
	if status != TierFree && status != TierPremium {
		status = TierFree
		changed = true
	}

	profile := &UserProfile{
		Version:             UserProfileVersion,
		UserID:              cast.ToString(doc["user_id"]),
		Username:            cast.ToString(doc["username"]),
		Status:              status,
		LastUsedDate:        cast.ToString(doc["last_used_date"]),
		DailyUsageCount:     count,
		CustomPromptXPost:   cast.ToString(doc["custom_prompt_x_post"]),
		CustomPromptArticle: cast.ToString(doc["custom_prompt_article"]),
		CustomPromptMemo:    cast.ToString(doc["custom_prompt_memo"]),
	}
	if profile.UserID == "" {
		profile.UserID = userID
		changed = true
	}
	return profile, changed, nil
}
