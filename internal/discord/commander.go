package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/schaermu/guildsync/internal/guild"
)

// Commander mutates a single guild through the API.
type Commander struct {
	client  *Client
	guildID string
	logger  *slog.Logger
}

// NewCommander creates a commander bound to guildID.
func NewCommander(client *Client, guildID string, logger *slog.Logger) *Commander {
	return &Commander{client: client, guildID: guildID, logger: logger.With("guild_id", guildID)}
}

func (c *Commander) AddRole(ctx context.Context, role guild.Role) (guild.ExistingRole, error) {
	return c.sendRole(ctx, "POST", "/guilds/"+c.guildID+"/roles", role)
}

func (c *Commander) UpdateRole(ctx context.Context, id string, role guild.Role) (guild.ExistingRole, error) {
	return c.sendRole(ctx, "PATCH", "/guilds/"+c.guildID+"/roles/"+id, role)
}

func (c *Commander) DeleteRole(ctx context.Context, id string) error {
	return c.client.do(ctx, "DELETE", "/guilds/"+c.guildID+"/roles/"+id, nil, nil)
}

func (c *Commander) sendRole(ctx context.Context, method, path string, role guild.Role) (guild.ExistingRole, error) {
	req, err := roleRequest(role)
	if err != nil {
		return guild.ExistingRole{}, err
	}
	var resp roleDTO
	if err := c.client.do(ctx, method, path, req, &resp); err != nil {
		return guild.ExistingRole{}, err
	}
	return roleFromDTO(resp)
}

func (c *Commander) AddCategory(ctx context.Context, category guild.Category, roles *guild.ExistingRoleList) (guild.ExistingCategory, error) {
	return c.sendCategory(ctx, "POST", "/guilds/"+c.guildID+"/channels", category, roles)
}

func (c *Commander) UpdateCategory(ctx context.Context, id string, category guild.Category, roles *guild.ExistingRoleList) (guild.ExistingCategory, error) {
	return c.sendCategory(ctx, "PATCH", "/channels/"+id, category, roles)
}

func (c *Commander) DeleteCategory(ctx context.Context, id string) error {
	return c.client.do(ctx, "DELETE", "/channels/"+id, nil, nil)
}

func (c *Commander) sendCategory(ctx context.Context, method, path string, category guild.Category, roles *guild.ExistingRoleList) (guild.ExistingCategory, error) {
	overwrites, err := overwritesRequest(category.Overwrites, roles)
	if err != nil {
		return guild.ExistingCategory{}, err
	}
	req := channelDTO{Type: channelTypeCategory, Name: category.Name, PermissionOverwrites: overwrites}

	var resp channelDTO
	if err := c.client.do(ctx, method, path, req, &resp); err != nil {
		return guild.ExistingCategory{}, err
	}
	resolved, err := overwritesFromDTO(resp.PermissionOverwrites, rolesByID(roles), c.skip("category", resp.Name))
	if err != nil {
		return guild.ExistingCategory{}, err
	}
	return guild.ExistingCategory{ID: resp.ID, Name: resp.Name, Overwrites: resolved}, nil
}

func (c *Commander) AddChannel(ctx context.Context, channel guild.Channel, roles *guild.ExistingRoleList, categories *guild.ExistingCategoryList) (guild.ExistingChannel, error) {
	return c.sendChannel(ctx, "POST", "/guilds/"+c.guildID+"/channels", channel, roles, categories)
}

func (c *Commander) UpdateChannel(ctx context.Context, id string, channel guild.Channel, roles *guild.ExistingRoleList, categories *guild.ExistingCategoryList) (guild.ExistingChannel, error) {
	return c.sendChannel(ctx, "PATCH", "/channels/"+id, channel, roles, categories)
}

func (c *Commander) DeleteChannel(ctx context.Context, id string) error {
	return c.client.do(ctx, "DELETE", "/channels/"+id, nil, nil)
}

func (c *Commander) sendChannel(ctx context.Context, method, path string, channel guild.Channel, roles *guild.ExistingRoleList, categories *guild.ExistingCategoryList) (guild.ExistingChannel, error) {
	channelType, err := channelTypeToAPI(channel.Type)
	if err != nil {
		return guild.ExistingChannel{}, err
	}
	overwrites, err := overwritesRequest(channel.Overwrites, roles)
	if err != nil {
		return guild.ExistingChannel{}, err
	}
	req := channelDTO{
		Type:                 channelType,
		Name:                 channel.Name,
		Topic:                stringPtr(channel.Topic),
		PermissionOverwrites: overwrites,
	}
	categoryNames := make(map[string]string)
	if name := channel.CategoryName(); name != "" {
		category, ok := categories.Find(name)
		if !ok {
			return guild.ExistingChannel{}, fmt.Errorf("category %s does not exist in guild", name)
		}
		req.ParentID = &category.ID
		categoryNames[category.ID] = category.Name
	}

	var resp channelDTO
	if err := c.client.do(ctx, method, path, req, &resp); err != nil {
		return guild.ExistingChannel{}, err
	}
	respType, ok := channelTypeFromAPI(resp.Type)
	if !ok {
		return guild.ExistingChannel{}, fmt.Errorf("unexpected channel type %d in response", resp.Type)
	}
	resolved, err := overwritesFromDTO(resp.PermissionOverwrites, rolesByID(roles), c.skip("channel", resp.Name))
	if err != nil {
		return guild.ExistingChannel{}, err
	}
	return guild.ExistingChannel{
		ID:         resp.ID,
		Name:       resp.Name,
		Topic:      deref(resp.Topic),
		Type:       respType,
		Category:   categoryNames[deref(resp.ParentID)],
		Overwrites: resolved,
	}, nil
}

func (c *Commander) skip(entity, name string) func(reason, id string) {
	return skipLogger(c.logger, entity, name)
}
