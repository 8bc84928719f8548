package guildfile

import (
	"github.com/schaermu/guildsync/internal/guild"
)

// FromExisting converts a guild snapshot into params that reproduce it.
// Every extra items strategy is written out explicitly as KEEP.
func FromExisting(existing *guild.Existing) *Params {
	keep := ExtraItemsParams{Strategy: guild.Keep}
	p := &Params{
		Roles:      RolesParams{Items: []RoleParams{}, ExtraItems: keep},
		Categories: CategoriesParams{Items: []CategoryParams{}, ExtraItems: keep},
		Channels:   ChannelsParams{Items: []ChannelParams{}, ExtraItems: keep},
	}

	for _, r := range existing.Roles.Items() {
		p.Roles.Items = append(p.Roles.Items, RoleParams{
			Name:          r.Name,
			Permissions:   r.Permissions.Items(),
			Color:         r.Color,
			IsMentionable: r.IsMentionable,
			ShowInSidebar: r.ShowInSidebar,
		})
	}

	for _, c := range existing.Categories.Items() {
		p.Categories.Items = append(p.Categories.Items, CategoryParams{
			Name:                  c.Name,
			PermissionsOverwrites: overwriteParams(c.Overwrites),
			ExtraChannels:         keep,
		})
	}

	for _, ch := range existing.Channels.Items() {
		p.Channels.Items = append(p.Channels.Items, ChannelParams{
			Name:     ch.Name,
			Topic:    ch.Topic,
			Type:     ch.Type,
			Category: ch.Category,
			PermissionsOverwrites: &ChannelOverwritesParams{
				Strategy: Manual,
				Items:    overwriteParams(ch.Overwrites),
			},
		})
	}

	return p
}

func overwriteParams(overwrites *guild.Overwrites) []OverwriteParams {
	var out []OverwriteParams
	for _, o := range overwrites.Items() {
		out = append(out, OverwriteParams{
			Role:  o.Role,
			Allow: o.Allow.Items(),
			Deny:  o.Deny.Items(),
		})
	}
	return out
}
