package services

import (
	"context"
	"fmt"
	"reactbot/internal/models"
	"reactbot/internal/platform"
	"reactbot/internal/providers"
	"reactbot/internal/storage"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

type DispatcherInterface interface {
	SetSelfID(userID string)
	Dispatch(ctx context.Context, trigger models.Trigger)
	Process(ctx context.Context, trigger models.Trigger) error
	Wait()
}

type Dispatcher struct {
	selfID    atomic.String
	servers   storage.ServerStoreInterface
	users     storage.UserStoreInterface
	tiers     TierResolverInterface
	policy    UsagePolicyInterface
	payloads  PayloadBuilderInterface
	activity  ActivityServiceInterface
	source    platform.MessageSource
	responder platform.Responder
	guilds    platform.GuildDirectory
	handlers  FeatureRegistry
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	wg        sync.WaitGroup
}

func NewDispatcher(
	servers storage.ServerStoreInterface,
	users storage.UserStoreInterface,
	tiers TierResolverInterface,
	policy UsagePolicyInterface,
	payloads PayloadBuilderInterface,
	activity ActivityServiceInterface,
	source platform.MessageSource,
	responder platform.Responder,
	guilds platform.GuildDirectory,
	handlers FeatureRegistry,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) DispatcherInterface {
	return &Dispatcher{
		servers:   servers,
		users:     users,
		tiers:     tiers,
		policy:    policy,
		payloads:  payloads,
		activity:  activity,
		source:    source,
		responder: responder,
		guilds:    guilds,
		handlers:  handlers,
		logger:    logger,
		metrics:   metrics,
	}
}

// SetSelfID marks the bot's own user so its reactions are ignored.
func (d *Dispatcher) SetSelfID(userID string) {
	d.selfID.Store(userID)
}

// Dispatch handles the trigger in its own goroutine. A failure or panic in
// one trigger never reaches the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, trigger models.Trigger) {
	if trigger.TraceID == "" {
		trigger.TraceID = uuid.NewString()
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.logger.Errorf(providers.TypeBot, "[%s] panic while handling %s: %v\n%s", trigger.TraceID, trigger.Emoji, r, debug.Stack())
			}
		}()
		if err := d.Process(ctx, trigger); err != nil {
			d.logger.Errorf(providers.TypeBot, "[%s] %s", trigger.TraceID, err)
		}
	}()
}

// Wait blocks until every dispatched trigger finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Process runs one trigger to completion: allow-list, profile update,
// tier and usage gate, payload, feature handler and activity record.
func (d *Dispatcher) Process(ctx context.Context, t models.Trigger) error {
	if t.UserID == "" || t.UserID == d.selfID.Load() {
		return nil
	}
	feature, ok := models.FeatureForEmoji(t.Emoji)
	if !ok {
		return nil
	}
	handler, ok := d.handlers[feature]
	if !ok {
		return nil
	}

	active, err := d.servers.IsChannelActive(t.GuildID, t.ChannelID)
	if err != nil {
		return fmt.Errorf("allow-list lookup: %w", err)
	}
	if !active {
		return nil
	}

	msg, err := d.source.FetchMessage(ctx, t.ChannelID, t.MessageID)
	if err != nil {
		return fmt.Errorf("fetch message %s: %w", t.MessageID, err)
	}
	d.logger.Infof(providers.TypeBot, "[%s] %s by %s on message %s in channel %s", t.TraceID, feature, t.UserID, t.MessageID, t.ChannelID)

	tier := d.tiers.Resolve(ctx, t.UserID)

	denial := ""
	profile, err := d.users.Update(t.UserID, func(p *models.UserProfile, exists bool) (bool, error) {
		if !exists {
			d.logger.Infof(providers.TypeUsage, "[%s] New user %s (%s)", t.TraceID, t.Username, t.UserID)
		}
		changed := !exists || p.Status != tier || (t.Username != "" && p.Username != t.Username)
		p.UserID = t.UserID
		if t.Username != "" {
			p.Username = t.Username
		}
		p.Status = tier

		allowed, message := d.policy.CheckAndConsume(p, tier.IsPremium())
		if !allowed {
			denial = message
			return changed, nil
		}
		return true, nil
	})
	if err != nil {
		return fmt.Errorf("update user %s: %w", t.UserID, err)
	}

	if denial != "" {
		d.metrics.IncUsageDenied(feature.String())
		// a role granted since the last lookup must lift the limit on the next trigger
		d.tiers.Forget(t.UserID)
		d.logger.Infof(providers.TypeUsage, "[%s] User %s is over the daily limit", t.TraceID, t.UserID)
		return d.responder.SendText(ctx, t.ChannelID, denial)
	}
	d.metrics.IncFeatureInvocations(feature.String(), string(tier))

	defer func() {
		if err := d.activity.Record(t.UserID, d.guilds.GuildCount()); err != nil {
			d.logger.Warnf(providers.TypeStore, "[%s] %s", t.TraceID, err)
		}
	}()

	req := &Request{
		TraceID: t.TraceID,
		Feature: feature,
		Trigger: t,
		Message: msg,
		Profile: profile,
		Tier:    tier,
	}

	// usage is already consumed at this point, an empty message still
	// counts against the daily limit
	if feature != models.FeatureTranscribe {
		req.Payload = d.payloads.Build(ctx, msg)
		if req.Payload == "" {
			d.logger.Debugf(providers.TypeFeature, "[%s] %s", t.TraceID, ErrEmptyPayload)
			return d.responder.SendText(ctx, t.ChannelID, noticeEmptyPayload)
		}
	}

	return handler.Handle(ctx, req)
}
