package discord

import (
	"fmt"
	"net/http"
	"reactbot/internal/providers"
	"reactbot/internal/structures"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/rest"
)

// NewClient builds the gateway client. Event listeners are attached later by
// the Handler, once every service that depends on the client exists.
func NewClient(conf *structures.Config, logger providers.Logger) (*bot.Client, error) {
	client, err := disgo.New(conf.Discord.Token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMessages,
				gateway.IntentGuildMembers,
				gateway.IntentMessageContent,
				gateway.IntentGuildMessageReactions,
			),
		),
		bot.WithCacheConfigOpts(
			cache.WithCaches(cache.FlagGuilds, cache.FlagMembers, cache.FlagRoles, cache.FlagChannels),
		),
		bot.WithRestClientConfigOpts(
			rest.WithHTTPClient(&http.Client{
				Timeout: 60 * time.Second,
				Transport: &http.Transport{
					MaxIdleConns:        100,
					MaxIdleConnsPerHost: 50,
					IdleConnTimeout:     90 * time.Second,
				},
			}),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create discord client: %w", err)
	}
	logger.Debugf(providers.TypeBot, "Discord client created for application %s", client.ApplicationID)
	return client, nil
}

// SyncCommands registers the slash commands, on the test guild when one is
// configured and globally otherwise.
func SyncCommands(client *bot.Client, conf *structures.Config, logger providers.Logger) error {
	if !conf.Discord.SyncCommands {
		logger.Infof(providers.TypeBot, "Command sync disabled")
		return nil
	}

	cmds := Commands()
	if conf.Discord.TestGuildID != "" {
		guildID, err := ParseID(conf.Discord.TestGuildID)
		if err != nil {
			return fmt.Errorf("invalid test guild id: %w", err)
		}
		created, err := client.Rest.SetGuildCommands(client.ApplicationID, guildID, cmds)
		if err != nil {
			return fmt.Errorf("sync guild commands: %w", err)
		}
		logger.Infof(providers.TypeBot, "Synced %d commands to guild %s", len(created), guildID)
		return nil
	}

	created, err := client.Rest.SetGlobalCommands(client.ApplicationID, cmds)
	if err != nil {
		return fmt.Errorf("sync global commands: %w", err)
	}
	logger.Infof(providers.TypeBot, "Synced %d global commands", len(created))
	return nil
}
