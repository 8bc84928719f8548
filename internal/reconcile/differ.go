// Package reconcile computes the changes needed to bring a guild to its
// desired state and applies them one command at a time.
package reconcile

import (
	"github.com/schaermu/guildsync/internal/guild"
)

// RoleCommands returns the commands turning existing roles into desired ones:
// creates first, then updates, then whatever extra decides for roles that are
// not desired. The @everyone role is never treated as extra.
func RoleCommands(existing *guild.ExistingRoleList, desired *guild.RoleList, extra guild.ExtraItemsStrategy) ([]Command, error) {
	cmp := guild.Compare(desired, existing)

	var creates, updates, extras []Command
	for _, role := range cmp.ExtraSelf {
		creates = append(creates, &addRole{role: role})
	}
	for _, pair := range cmp.Same {
		if diffs := pair.Other.Diff(pair.Self); len(diffs) > 0 {
			updates = append(updates, &updateRole{existing: pair.Other, desired: pair.Self, diffs: diffs})
		}
	}
	for _, role := range cmp.ExtraOther {
		if role.Name == guild.EveryoneRole {
			continue
		}
		cmds, err := handleExtra(extra, EntityRole, role.Name, func() Command { return &deleteRole{role: role} })
		if err != nil {
			return nil, err
		}
		extras = append(extras, cmds...)
	}
	return concat(creates, updates, extras), nil
}

// CategoryCommands returns the commands turning existing categories into
// desired ones, in the same order as RoleCommands.
func CategoryCommands(existing *guild.ExistingCategoryList, desired *guild.CategoryList, extra guild.ExtraItemsStrategy) ([]Command, error) {
	cmp := guild.Compare(desired, existing)

	var creates, updates, extras []Command
	for _, category := range cmp.ExtraSelf {
		creates = append(creates, &addCategory{category: category})
	}
	for _, pair := range cmp.Same {
		if diffs := pair.Other.Diff(pair.Self); len(diffs) > 0 {
			updates = append(updates, &updateCategory{existing: pair.Other, desired: pair.Self, diffs: diffs})
		}
	}
	for _, category := range cmp.ExtraOther {
		cmds, err := handleExtra(extra, EntityCategory, category.Name, func() Command { return &deleteCategory{category: category} })
		if err != nil {
			return nil, err
		}
		extras = append(extras, cmds...)
	}
	return concat(creates, updates, extras), nil
}

// ChannelCommands returns the commands turning existing channels into desired
// ones. Extra channels are handled by the extra channels strategy of their
// desired category, or by fallback when their category is not desired.
func ChannelCommands(existing *guild.ExistingChannelList, desired *guild.ChannelList, categories *guild.CategoryList, fallback guild.ExtraItemsStrategy) ([]Command, error) {
	cmp := guild.Compare(desired, existing)

	var creates, updates, extras []Command
	for _, channel := range cmp.ExtraSelf {
		creates = append(creates, &addChannel{channel: channel})
	}
	for _, pair := range cmp.Same {
		if diffs := pair.Other.Diff(pair.Self); len(diffs) > 0 {
			updates = append(updates, &updateChannel{existing: pair.Other, desired: pair.Self, diffs: diffs})
		}
	}
	for _, channel := range cmp.ExtraOther {
		cmds, err := handleExtraChannel(channel, categories, fallback)
		if err != nil {
			return nil, err
		}
		extras = append(extras, cmds...)
	}
	return concat(creates, updates, extras), nil
}

func concat(groups ...[]Command) []Command {
	var out []Command
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
