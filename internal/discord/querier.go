package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/schaermu/guildsync/internal/guild"
)

// Querier reads guilds through the API.
type Querier struct {
	client *Client
	logger *slog.Logger
}

// NewQuerier creates a querier using client.
func NewQuerier(client *Client, logger *slog.Logger) *Querier {
	return &Querier{client: client, logger: logger}
}

// ListGuilds returns the guilds the bot is a member of.
func (q *Querier) ListGuilds(ctx context.Context) ([]guild.Summary, error) {
	var dtos []guildDTO
	if err := q.client.do(ctx, "GET", "/users/@me/guilds?with_counts=true", nil, &dtos); err != nil {
		return nil, fmt.Errorf("failed to list guilds: %w", err)
	}
	summaries := make([]guild.Summary, len(dtos))
	for i, dto := range dtos {
		summaries[i] = guild.Summary{ID: dto.ID, Name: dto.Name, MemberCount: dto.ApproximateMemberCount}
	}
	return summaries, nil
}

// GetGuild fetches the roles, categories and channels of a guild.
func (q *Querier) GetGuild(ctx context.Context, guildID string) (*guild.Existing, error) {
	logger := q.logger.With("guild_id", guildID)
	existing := &guild.Existing{}

	var roles []roleDTO
	if err := q.client.do(ctx, "GET", "/guilds/"+guildID+"/roles", nil, &roles); err != nil {
		return nil, fmt.Errorf("failed to fetch roles: %w", err)
	}
	for _, dto := range roles {
		role, err := roleFromDTO(dto)
		if err != nil {
			return nil, err
		}
		if err := existing.Roles.Add(role); err != nil {
			return nil, fmt.Errorf("guild roles: %w", err)
		}
	}
	roleNames := rolesByID(&existing.Roles)

	var channels []channelDTO
	if err := q.client.do(ctx, "GET", "/guilds/"+guildID+"/channels", nil, &channels); err != nil {
		return nil, fmt.Errorf("failed to fetch channels: %w", err)
	}

	categoryNames := make(map[string]string)
	for _, dto := range channels {
		if dto.Type != channelTypeCategory {
			continue
		}
		overwrites, err := overwritesFromDTO(dto.PermissionOverwrites, roleNames, skipLogger(logger, "category", dto.Name))
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", dto.Name, err)
		}
		if err := existing.Categories.Add(guild.ExistingCategory{ID: dto.ID, Name: dto.Name, Overwrites: overwrites}); err != nil {
			return nil, fmt.Errorf("guild categories: %w", err)
		}
		categoryNames[dto.ID] = dto.Name
	}

	for _, dto := range channels {
		if dto.Type == channelTypeCategory {
			continue
		}
		channelType, ok := channelTypeFromAPI(dto.Type)
		if !ok {
			logger.Debug("ignoring unsupported channel", "name", dto.Name, "type", dto.Type)
			continue
		}
		overwrites, err := overwritesFromDTO(dto.PermissionOverwrites, roleNames, skipLogger(logger, "channel", dto.Name))
		if err != nil {
			return nil, fmt.Errorf("channel %s: %w", dto.Name, err)
		}
		channel := guild.ExistingChannel{
			ID:         dto.ID,
			Name:       dto.Name,
			Topic:      deref(dto.Topic),
			Type:       channelType,
			Category:   categoryNames[deref(dto.ParentID)],
			Overwrites: overwrites,
		}
		if err := existing.Channels.Add(channel); err != nil {
			return nil, fmt.Errorf("guild channels: %w", err)
		}
	}

	logger.Debug("fetched guild",
		"roles", existing.Roles.Len(),
		"categories", existing.Categories.Len(),
		"channels", existing.Channels.Len())
	return existing, nil
}

func skipLogger(logger *slog.Logger, entity, name string) func(reason, id string) {
	return func(reason, id string) {
		logger.Warn("ignoring permission overwrite", entity, name, "reason", reason, "id", id)
	}
}
