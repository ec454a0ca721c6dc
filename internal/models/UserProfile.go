package models

type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

func TierOf(premium bool) Tier {
	if premium {
		return TierPremium
	}
	return TierFree
}

func (t Tier) IsPremium() bool {
	return t == TierPremium
}

// UserProfile is the per-user document. Version is bumped by
// UpgradeUserProfile whenever the stored layout changes.
type UserProfile struct {
	Version             int    `json:"schema_version"`
	UserID              string `json:"user_id"`
	Username            string `json:"username"`
	Status              Tier   `json:"status"`
	LastUsedDate        string `json:"last_used_date"`
	DailyUsageCount     int    `json:"daily_usage_count"`
	CustomPromptXPost   string `json:"custom_prompt_x_post"`
	CustomPromptArticle string `json:"custom_prompt_article"`
	CustomPromptMemo    string `json:"custom_prompt_memo"`
}

func NewUserProfile(userID, username string) *UserProfile {
	return &UserProfile{
		Version:  UserProfileVersion,
		UserID:   userID,
		Username: username,
		Status:   TierFree,
	}
}

// CustomPrompt returns the stored override for f, empty when unset.
func (p *UserProfile) CustomPrompt(f Feature) string {
	switch f {
	case FeatureRepost:
		return p.CustomPromptXPost
	case FeatureArticle:
		return p.CustomPromptArticle
	case FeatureMemo:
		return p.CustomPromptMemo
	}
	return ""
}

// SetCustomPrompt stores an override. It returns false for features that
// do not accept one.
func (p *UserProfile) SetCustomPrompt(f Feature, prompt string) bool {
	switch f {
	case FeatureRepost:
		p.CustomPromptXPost = prompt
	case FeatureArticle:
		p.CustomPromptArticle = prompt
	case FeatureMemo:
		p.CustomPromptMemo = prompt
	default:
		return false
	}
	return true
}
