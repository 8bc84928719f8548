// Package guildfile reads and writes the files describing the desired state
// of a guild.
package guildfile

import (
	"github.com/schaermu/guildsync/internal/guild"
	"github.com/schaermu/guildsync/internal/permission"
)

// OverwritesStrategy tells where the overwrites of a channel come from.
type OverwritesStrategy string

const (
	// Manual uses the overwrites listed on the channel.
	Manual OverwritesStrategy = "MANUAL"
	// FromCategory copies the overwrites of the channel category.
	FromCategory OverwritesStrategy = "FROM_CATEGORY"
)

// Params is the content of a guild file.
type Params struct {
	Roles      RolesParams      `yaml:"roles" json:"roles" toml:"roles"`
	Categories CategoriesParams `yaml:"categories" json:"categories" toml:"categories"`
	Channels   ChannelsParams   `yaml:"channels" json:"channels" toml:"channels"`
}

// ExtraItemsParams selects the strategy for existing items missing from the file.
type ExtraItemsParams struct {
	Strategy guild.ExtraItemsStrategy `yaml:"strategy" json:"strategy" toml:"strategy"`
}

// RolesParams lists the desired roles.
type RolesParams struct {
	Items      []RoleParams     `yaml:"items" json:"items" toml:"items"`
	ExtraItems ExtraItemsParams `yaml:"extra_items" json:"extra_items" toml:"extra_items"`
}

// RoleParams describes one role.
type RoleParams struct {
	Name          string                  `yaml:"name" json:"name" toml:"name"`
	Permissions   []permission.Permission `yaml:"permissions" json:"permissions" toml:"permissions"`
	Color         string                  `yaml:"color,omitempty" json:"color,omitempty" toml:"color,omitempty"`
	IsMentionable bool                    `yaml:"is_mentionable" json:"is_mentionable" toml:"is_mentionable"`
	ShowInSidebar bool                    `yaml:"show_in_sidebar" json:"show_in_sidebar" toml:"show_in_sidebar"`
}

// OverwriteParams describes the permissions of one role on a category or channel.
type OverwriteParams struct {
	Role  string                  `yaml:"role" json:"role" toml:"role"`
	Allow []permission.Permission `yaml:"allow,omitempty" json:"allow,omitempty" toml:"allow,omitempty"`
	Deny  []permission.Permission `yaml:"deny,omitempty" json:"deny,omitempty" toml:"deny,omitempty"`
}

// CategoriesParams lists the desired categories.
type CategoriesParams struct {
	Items      []CategoryParams `yaml:"items" json:"items" toml:"items"`
	ExtraItems ExtraItemsParams `yaml:"extra_items" json:"extra_items" toml:"extra_items"`
}

// CategoryParams describes one category.
type CategoryParams struct {
	Name                  string            `yaml:"name" json:"name" toml:"name"`
	PermissionsOverwrites []OverwriteParams `yaml:"permissions_overwrites,omitempty" json:"permissions_overwrites,omitempty" toml:"permissions_overwrites,omitempty"`
	ExtraChannels         ExtraItemsParams  `yaml:"extra_channels" json:"extra_channels" toml:"extra_channels"`
}

// ChannelsParams lists the desired channels.
type ChannelsParams struct {
	Items      []ChannelParams  `yaml:"items" json:"items" toml:"items"`
	ExtraItems ExtraItemsParams `yaml:"extra_items" json:"extra_items" toml:"extra_items"`
}

// ChannelParams describes one channel.
type ChannelParams struct {
	Name                  string                   `yaml:"name" json:"name" toml:"name"`
	Topic                 string                   `yaml:"topic,omitempty" json:"topic,omitempty" toml:"topic,omitempty"`
	Type                  guild.ChannelType        `yaml:"type,omitempty" json:"type,omitempty" toml:"type,omitempty"`
	Category              string                   `yaml:"category,omitempty" json:"category,omitempty" toml:"category,omitempty"`
	PermissionsOverwrites *ChannelOverwritesParams `yaml:"permissions_overwrites,omitempty" json:"permissions_overwrites,omitempty" toml:"permissions_overwrites,omitempty"`
}

// ChannelOverwritesParams describes where channel overwrites come from.
type ChannelOverwritesParams struct {
	Strategy OverwritesStrategy `yaml:"strategy" json:"strategy" toml:"strategy"`
	Items    []OverwriteParams  `yaml:"items,omitempty" json:"items,omitempty" toml:"items,omitempty"`
}
