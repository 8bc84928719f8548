// Package guild models the roles, categories and channels of a guild, both
// as read from the remote service and as desired by the user.
package guild

import "context"

// EveryoneRole is the name of the role every guild member holds.
const EveryoneRole = "@everyone"

// Existing is a snapshot of the remote guild.
type Existing struct {
	Roles      ExistingRoleList
	Categories ExistingCategoryList
	Channels   ExistingChannelList
}

// Desired is the state the user wants the guild to be in.
type Desired struct {
	Roles      RoleList
	ExtraRoles ExtraItemsStrategy

	Categories      CategoryList
	ExtraCategories ExtraItemsStrategy

	Channels ChannelList
	// ExtraChannels applies to extra channels without a desired category.
	ExtraChannels ExtraItemsStrategy
}

// Summary describes a guild the bot has access to.
type Summary struct {
	ID          string
	Name        string
	MemberCount int
}

// Querier reads guilds from the remote service.
type Querier interface {
	GetGuild(ctx context.Context, guildID string) (*Existing, error)
	ListGuilds(ctx context.Context) ([]Summary, error)
}

// Commander mutates a single guild on the remote service. Name references in
// categories and channels are resolved to ids using the given lists.
type Commander interface {
	AddRole(ctx context.Context, role Role) (ExistingRole, error)
	UpdateRole(ctx context.Context, id string, role Role) (ExistingRole, error)
	DeleteRole(ctx context.Context, id string) error

	AddCategory(ctx context.Context, category Category, roles *ExistingRoleList) (ExistingCategory, error)
	UpdateCategory(ctx context.Context, id string, category Category, roles *ExistingRoleList) (ExistingCategory, error)
	DeleteCategory(ctx context.Context, id string) error

	AddChannel(ctx context.Context, channel Channel, roles *ExistingRoleList, categories *ExistingCategoryList) (ExistingChannel, error)
	UpdateChannel(ctx context.Context, id string, channel Channel, roles *ExistingRoleList, categories *ExistingCategoryList) (ExistingChannel, error)
	DeleteChannel(ctx context.Context, id string) error
}
