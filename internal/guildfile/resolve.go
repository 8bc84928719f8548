package guildfile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/schaermu/guildsync/internal/guild"
	"github.com/schaermu/guildsync/internal/permission"
)

var (
	// ErrUnknownRole is returned when an overwrite references a role that is
	// not part of the desired roles.
	ErrUnknownRole = errors.New("unknown role")
	// ErrUnknownCategory is returned when a channel references a category
	// that is not part of the desired categories.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrFromCategoryWithoutCategory is returned when a channel copies the
	// overwrites of a category it does not belong to.
	ErrFromCategoryWithoutCategory = errors.New("overwrites strategy FROM_CATEGORY requires a category")
)

// Resolve validates params and turns them into the desired state of a guild.
// Unset strategies default to KEEP, unset channel types to TEXT and unset
// channel overwrites strategies to MANUAL.
func Resolve(p *Params) (*guild.Desired, error) {
	d := &guild.Desired{
		ExtraRoles:      orKeep(p.Roles.ExtraItems.Strategy),
		ExtraCategories: orKeep(p.Categories.ExtraItems.Strategy),
		ExtraChannels:   orKeep(p.Channels.ExtraItems.Strategy),
	}
	if err := d.ExtraRoles.Validate(false); err != nil {
		return nil, fmt.Errorf("roles.extra_items: %w", err)
	}
	if err := d.ExtraCategories.Validate(false); err != nil {
		return nil, fmt.Errorf("categories.extra_items: %w", err)
	}
	if err := d.ExtraChannels.Validate(false); err != nil {
		return nil, fmt.Errorf("channels.extra_items: %w", err)
	}

	for _, rp := range p.Roles.Items {
		role, err := resolveRole(rp)
		if err != nil {
			return nil, err
		}
		if err := d.Roles.Add(role); err != nil {
			return nil, fmt.Errorf("roles: %w", err)
		}
	}

	for _, cp := range p.Categories.Items {
		category, err := resolveCategory(cp, &d.Roles)
		if err != nil {
			return nil, err
		}
		if err := d.Categories.Add(category); err != nil {
			return nil, fmt.Errorf("categories: %w", err)
		}
	}

	for _, chp := range p.Channels.Items {
		channel, err := resolveChannel(chp, &d.Roles, &d.Categories)
		if err != nil {
			return nil, err
		}
		if err := d.Channels.Add(channel); err != nil {
			return nil, fmt.Errorf("channels: %w", err)
		}
	}

	return d, nil
}

func orKeep(s guild.ExtraItemsStrategy) guild.ExtraItemsStrategy {
	if s == "" {
		return guild.Keep
	}
	return s
}

func resolveRole(rp RoleParams) (guild.Role, error) {
	if rp.Name == "" {
		return guild.Role{}, fmt.Errorf("role name is required")
	}
	color, err := normalizeColor(rp.Color)
	if err != nil {
		return guild.Role{}, fmt.Errorf("role %q: %w", rp.Name, err)
	}
	return guild.Role{
		Name:          rp.Name,
		Permissions:   permission.NewSet(rp.Permissions...),
		Color:         color,
		IsMentionable: rp.IsMentionable,
		ShowInSidebar: rp.ShowInSidebar,
	}, nil
}

// normalizeColor accepts "#RRGGBB" or "RRGGBB" and returns lowercase hex
// without the leading '#'.
func normalizeColor(color string) (string, error) {
	c := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(color), "#"))
	if c == "" {
		return "", nil
	}
	if len(c) != 6 {
		return "", fmt.Errorf("invalid color %q: expected 6 hex digits", color)
	}
	if _, err := strconv.ParseUint(c, 16, 32); err != nil {
		return "", fmt.Errorf("invalid color %q: %w", color, err)
	}
	return c, nil
}

func resolveOverwrites(items []OverwriteParams, roles *guild.RoleList) (*guild.Overwrites, error) {
	overwrites := &guild.Overwrites{}
	for _, op := range items {
		if _, ok := roles.Find(op.Role); !ok && op.Role != guild.EveryoneRole {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRole, op.Role)
		}
		err := overwrites.Add(guild.Overwrite{
			Role:  op.Role,
			Allow: permission.NewSet(op.Allow...),
			Deny:  permission.NewSet(op.Deny...),
		})
		if err != nil {
			return nil, err
		}
	}
	return overwrites, nil
}

func resolveCategory(cp CategoryParams, roles *guild.RoleList) (guild.Category, error) {
	if cp.Name == "" {
		return guild.Category{}, fmt.Errorf("category name is required")
	}
	overwrites, err := resolveOverwrites(cp.PermissionsOverwrites, roles)
	if err != nil {
		return guild.Category{}, fmt.Errorf("category %q: %w", cp.Name, err)
	}
	strategy := orKeep(cp.ExtraChannels.Strategy)
	if err := strategy.Validate(true); err != nil {
		return guild.Category{}, fmt.Errorf("category %q extra_channels: %w", cp.Name, err)
	}
	return guild.Category{Name: cp.Name, Overwrites: overwrites, ExtraChannels: strategy}, nil
}

func resolveChannel(chp ChannelParams, roles *guild.RoleList, categories *guild.CategoryList) (guild.Channel, error) {
	if chp.Name == "" {
		return guild.Channel{}, fmt.Errorf("channel name is required")
	}
	channel := guild.Channel{Name: chp.Name, Topic: chp.Topic, Type: chp.Type}
	if channel.Type == "" {
		channel.Type = guild.ChannelText
	}
	if err := channel.Type.Validate(); err != nil {
		return guild.Channel{}, fmt.Errorf("channel %q: %w", chp.Name, err)
	}

	if chp.Category != "" {
		category, ok := categories.Find(chp.Category)
		if !ok {
			return guild.Channel{}, fmt.Errorf("channel %q: %w: %s", chp.Name, ErrUnknownCategory, chp.Category)
		}
		channel.Category = &category
	}

	overwrites := chp.PermissionsOverwrites
	if overwrites == nil {
		overwrites = &ChannelOverwritesParams{Strategy: Manual}
	}
	switch overwrites.Strategy {
	case Manual, "":
		resolved, err := resolveOverwrites(overwrites.Items, roles)
		if err != nil {
			return guild.Channel{}, fmt.Errorf("channel %q: %w", chp.Name, err)
		}
		channel.Overwrites = resolved
	case FromCategory:
		if channel.Category == nil {
			return guild.Channel{}, fmt.Errorf("channel %q: %w", chp.Name, ErrFromCategoryWithoutCategory)
		}
		copied := &guild.Overwrites{}
		for _, o := range channel.Category.Overwrites.Items() {
			copied.AddOrReplace(o)
		}
		channel.Overwrites = copied
	default:
		return guild.Channel{}, fmt.Errorf("channel %q: unknown overwrites strategy %q", chp.Name, string(overwrites.Strategy))
	}
	return channel, nil
}
