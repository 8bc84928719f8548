package guild

import (
	"github.com/schaermu/guildsync/internal/diff"
	"github.com/schaermu/guildsync/internal/permission"
)

// Overwrite is a per role allow/deny exception on a category or channel.
// Role is the role name; ids are resolved when talking to the remote service.
type Overwrite struct {
	Role  string
	Allow permission.Set
	Deny  permission.Set
}

// Key returns the role name.
func (o Overwrite) Key() string {
	return o.Role
}

// Diff compares o with the desired overwrite for the same role.
func (o Overwrite) Diff(desired Overwrite) []diff.Diff {
	var diffs []diff.Diff
	diffs = append(diffs, diff.Field("allow", diff.Sets(o.Allow.Names(), desired.Allow.Names()))...)
	diffs = append(diffs, diff.Field("deny", diff.Sets(o.Deny.Names(), desired.Deny.Names()))...)
	return diffs
}

// Overwrites is the list of overwrites of one category or channel, keyed by
// role name.
type Overwrites = List[string, Overwrite]

// NewOverwrites builds an overwrites list, failing when a role appears twice.
func NewOverwrites(items ...Overwrite) (*Overwrites, error) {
	return NewList[string](items...)
}

// DiffOverwrites compares existing overwrites with desired ones. Existing
// roles are visited first, in order, then roles only present in desired.
func DiffOverwrites(existing, desired *Overwrites) []diff.Diff {
	var diffs []diff.Diff
	for _, e := range existing.Items() {
		d, ok := desired.Find(e.Role)
		if !ok {
			diffs = append(diffs, diff.Remove(e.Role))
			continue
		}
		diffs = append(diffs, diff.Field(e.Role, e.Diff(d))...)
	}
	for _, d := range desired.Items() {
		if _, ok := existing.Find(d.Role); !ok {
			diffs = append(diffs, diff.Add(d.Role))
		}
	}
	return diffs
}

func cloneOverwrites(o *Overwrites) *Overwrites {
	c := &Overwrites{}
	for _, item := range o.Items() {
		c.AddOrReplace(item)
	}
	return c
}
