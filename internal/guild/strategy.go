package guild

import "fmt"

// ExtraItemsStrategy decides what happens to an existing item that has no
// desired counterpart.
type ExtraItemsStrategy string

const (
	// Keep leaves extra items untouched.
	Keep ExtraItemsStrategy = "KEEP"
	// Remove deletes extra items.
	Remove ExtraItemsStrategy = "REMOVE"
	// SyncPermissions rewrites extra channels so their overwrites match
	// their category. Only valid for the extra channels of a category.
	SyncPermissions ExtraItemsStrategy = "SYNC_PERMISSIONS"
)

// Validate checks s is one of the known strategies. allowSync tells whether
// SyncPermissions is acceptable in this position.
func (s ExtraItemsStrategy) Validate(allowSync bool) error {
	switch s {
	case Keep, Remove:
		return nil
	case SyncPermissions:
		if allowSync {
			return nil
		}
		return fmt.Errorf("strategy %s is only supported for category extra channels", s)
	default:
		return fmt.Errorf("unknown extra items strategy: %q", string(s))
	}
}
