package reconcile

import (
	"context"

	"github.com/schaermu/guildsync/internal/diff"
	"github.com/schaermu/guildsync/internal/guild"
)

// Command applies one change to the remote guild.
type Command interface {
	// Describe returns the change the command performs.
	Describe() Change
	// Execute performs the change through commander. On success the
	// existing snapshot is patched so later commands see the new state.
	// On failure the snapshot is left untouched.
	Execute(ctx context.Context, commander guild.Commander, existing *guild.Existing) error
}

type addRole struct {
	role guild.Role
}

func (c *addRole) Describe() Change {
	return Change{Action: ActionCreate, Entity: EntityRole, Name: c.role.Name}
}

func (c *addRole) Execute(ctx context.Context, commander guild.Commander, existing *guild.Existing) error {
	created, err := commander.AddRole(ctx, c.role)
	if err != nil {
		return err
	}
	existing.Roles.AddOrReplace(created)
	return nil
}

type updateRole struct {
	existing guild.ExistingRole
	desired  guild.Role
	diffs    []diff.Diff
}

func (c *updateRole) Describe() Change {
	return Change{Action: ActionUpdate, Entity: EntityRole, Name: c.existing.Name, Diffs: c.diffs}
}

func (c *updateRole) Execute(ctx context.Context, commander guild.Commander, existing *guild.Existing) error {
	updated, err := commander.UpdateRole(ctx, c.existing.ID, c.desired)
	if err != nil {
		return err
	}
	existing.Roles.Remove(c.existing.Key())
	existing.Roles.AddOrReplace(updated)
	return nil
}

type deleteRole struct {
	role guild.ExistingRole
}

func (c *deleteRole) Describe() Change {
	return Change{Action: ActionDelete, Entity: EntityRole, Name: c.role.Name}
}

func (c *deleteRole) Execute(ctx context.Context, commander guild.Commander, existing *guild.Existing) error {
	if err := commander.DeleteRole(ctx, c.role.ID); err != nil {
		return err
	}
	existing.Roles.Remove(c.role.Key())
	return nil
}

type addCategory struct {
	category guild.Category
}

func (c *addCategory) Describe() Change {
	return Change{Action: ActionCreate, Entity: EntityCategory, Name: c.category.Name}
}

func (c *addCategory) Execute(ctx context.Context, commander guild.Commander, existing *guild.Existing) error {
	created, err := commander.AddCategory(ctx, c.category, &existing.Roles)
	if err != nil {
		return err
	}
	existing.Categories.AddOrReplace(created)
	return nil
}

type updateCategory struct {
	existing guild.ExistingCategory
	desired  guild.Category
	diffs    []diff.Diff
}

func (c *updateCategory) Describe() Change {
	return Change{Action: ActionUpdate, Entity: EntityCategory, Name: c.existing.Name, Diffs: c.diffs}
}

func (c *updateCategory) Execute(ctx context.Context, commander guild.Commander, existing *guild.Existing) error {
	updated, err := commander.UpdateCategory(ctx, c.existing.ID, c.desired, &existing.Roles)
	if err != nil {
		return err
	}
	existing.Categories.Remove(c.existing.Key())
	existing.Categories.AddOrReplace(updated)
	return nil
}

type deleteCategory struct {
	category guild.ExistingCategory
}

func (c *deleteCategory) Describe() Change {
	return Change{Action: ActionDelete, Entity: EntityCategory, Name: c.category.Name}
}

func (c *deleteCategory) Execute(ctx context.Context, commander guild.Commander, existing *guild.Existing) error {
	if err := commander.DeleteCategory(ctx, c.category.ID); err != nil {
		return err
	}
	existing.Categories.Remove(c.category.Key())

	// The remote moves children of a deleted category to the top level.
	for _, channel := range existing.Channels.Items() {
		if channel.Category != c.category.Name {
			continue
		}
		existing.Channels.Remove(channel.Key())
		channel.Category = ""
		existing.Channels.AddOrReplace(channel)
	}
	return nil
}

type addChannel struct {
	channel guild.Channel
}

func (c *addChannel) Describe() Change {
	return Change{Action: ActionCreate, Entity: EntityChannel, Name: c.channel.Key().String()}
}

func (c *addChannel) Execute(ctx context.Context, commander guild.Commander, existing *guild.Existing) error {
	created, err := commander.AddChannel(ctx, c.channel, &existing.Roles, &existing.Categories)
	if err != nil {
		return err
	}
	existing.Channels.AddOrReplace(created)
	return nil
}

type updateChannel struct {
	existing guild.ExistingChannel
	desired  guild.Channel
	diffs    []diff.Diff
}

func (c *updateChannel) Describe() Change {
	return Change{Action: ActionUpdate, Entity: EntityChannel, Name: c.existing.Key().String(), Diffs: c.diffs}
}

func (c *updateChannel) Execute(ctx context.Context, commander guild.Commander, existing *guild.Existing) error {
	updated, err := commander.UpdateChannel(ctx, c.existing.ID, c.desired, &existing.Roles, &existing.Categories)
	if err != nil {
		return err
	}
	removeChannel(existing, c.existing.ID)
	existing.Channels.AddOrReplace(updated)
	return nil
}

type deleteChannel struct {
	channel guild.ExistingChannel
}

func (c *deleteChannel) Describe() Change {
	return Change{Action: ActionDelete, Entity: EntityChannel, Name: c.channel.Key().String()}
}

func (c *deleteChannel) Execute(ctx context.Context, commander guild.Commander, existing *guild.Existing) error {
	if err := commander.DeleteChannel(ctx, c.channel.ID); err != nil {
		return err
	}
	removeChannel(existing, c.channel.ID)
	return nil
}

// removeChannel drops the channel with the given id from the snapshot.
func removeChannel(existing *guild.Existing, id string) {
	for _, channel := range existing.Channels.Items() {
		if channel.ID == id {
			existing.Channels.Remove(channel.Key())
			return
		}
	}
}
