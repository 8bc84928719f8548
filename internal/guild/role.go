package guild

import (
	"github.com/schaermu/guildsync/internal/diff"
	"github.com/schaermu/guildsync/internal/permission"
)

// Role is the desired state of a guild role.
type Role struct {
	Name          string
	Permissions   permission.Set
	Color         string // lowercase hex without '#', empty when unset
	IsMentionable bool
	ShowInSidebar bool
}

// Key returns the role name.
func (r Role) Key() string {
	return r.Name
}

// ExistingRole is a role read from the remote guild.
type ExistingRole struct {
	ID string
	Role
}

// Diff compares the existing role with its desired state. An empty result
// means both are equal.
func (r ExistingRole) Diff(desired Role) []diff.Diff {
	var diffs []diff.Diff
	diffs = append(diffs, diff.Field("permissions", diff.Sets(r.Permissions.Names(), desired.Permissions.Names()))...)
	diffs = append(diffs, diff.Field("is_mentionable", diff.Values(r.IsMentionable, desired.IsMentionable))...)
	diffs = append(diffs, diff.Field("show_in_sidebar", diff.Values(r.ShowInSidebar, desired.ShowInSidebar))...)
	diffs = append(diffs, diff.Field("color", diff.Optional(r.Color, desired.Color))...)
	return diffs
}

type (
	// RoleList holds desired roles keyed by name.
	RoleList = List[string, Role]
	// ExistingRoleList holds existing roles keyed by name.
	ExistingRoleList = List[string, ExistingRole]
)

// NewRoleList builds a desired role list, failing on duplicate names.
func NewRoleList(roles ...Role) (*RoleList, error) {
	return NewList[string](roles...)
}

// NewExistingRoleList builds an existing role list, failing on duplicate names.
func NewExistingRoleList(roles ...ExistingRole) (*ExistingRoleList, error) {
	return NewList[string](roles...)
}
