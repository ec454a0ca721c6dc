package services

import (
	"context"
	"reactbot/internal/models"
	"reactbot/internal/platform"
	"reactbot/internal/providers"
	"reactbot/internal/structures"
	"slices"
)

type TierResolverInterface interface {
	Resolve(ctx context.Context, userID string) models.Tier
	Forget(userID string)
}

type TierResolver struct {
	settings  structures.Settings
	directory platform.GuildDirectory
	cache     providers.CacheProviderInterface
	logger    providers.Logger
}

func NewTierResolver(conf *structures.Config, directory platform.GuildDirectory, cache providers.CacheProviderInterface, logger providers.Logger) TierResolverInterface {
	return &TierResolver{
		settings:  conf.Settings,
		directory: directory,
		cache:     cache,
		logger:    logger,
	}
}

// Resolve never fails: any lookup error yields free. Only answers that
// came from a successful lookup are cached.
func (r *TierResolver) Resolve(ctx context.Context, userID string) models.Tier {
	key := tierCacheKey(userID)
	if val, ok := r.cache.Get(key); ok {
		return models.Tier(val)
	}

	tier, definitive := r.lookup(ctx, userID)
	if definitive {
		r.cache.Set(key, []byte(tier))
	}
	return tier
}

// Forget drops the cached tier so the next Resolve asks the directory again.
func (r *TierResolver) Forget(userID string) {
	r.cache.Del(tierCacheKey(userID))
}

func tierCacheKey(userID string) string {
	return "tier:" + userID
}

func (r *TierResolver) lookup(ctx context.Context, userID string) (models.Tier, bool) {
	community := r.settings.CommunityServerID
	if community == "" {
		return models.TierFree, false
	}

	ownerID, err := r.directory.GuildOwnerID(ctx, community)
	if err != nil {
		r.logger.Warnf(providers.TypeUsage, "Community server %s not resolvable: %s", community, err)
		return models.TierFree, false
	}

	// both owner identities skip the role lookup
	if userID == ownerID || (r.settings.OwnerUserID != "" && userID == r.settings.OwnerUserID) {
		return models.TierPremium, true
	}

	roles, err := r.directory.MemberRoleIDs(ctx, community, userID)
	if err != nil {
		r.logger.Debugf(providers.TypeUsage, "User %s not found in community server: %s", userID, err)
		return models.TierFree, false
	}

	premium := r.settings.PremiumRoleID != "" && slices.Contains(roles, r.settings.PremiumRoleID)
	r.logger.Debugf(providers.TypeUsage, "Premium check for user %s: %t", userID, premium)
	return models.TierOf(premium), true
}
