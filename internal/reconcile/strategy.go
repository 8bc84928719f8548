package reconcile

import (
	"errors"
	"fmt"

	"github.com/schaermu/guildsync/internal/guild"
)

// ErrSyncWithoutCategory is returned when an extra channel must be synced with
// its category but no desired category exists for it.
var ErrSyncWithoutCategory = errors.New("cannot sync permissions of a channel without category")

// handleExtra applies a Keep or Remove strategy to an extra role or category.
func handleExtra(strategy guild.ExtraItemsStrategy, entity Entity, name string, remove func() Command) ([]Command, error) {
	switch strategy {
	case guild.Keep, "":
		return nil, nil
	case guild.Remove:
		return []Command{remove()}, nil
	default:
		return nil, fmt.Errorf("extra %s %q: unsupported strategy %s", entity, name, strategy)
	}
}

func handleExtraChannel(channel guild.ExistingChannel, categories *guild.CategoryList, fallback guild.ExtraItemsStrategy) ([]Command, error) {
	strategy := fallback
	category, hasCategory := categories.Find(channel.Category)
	if hasCategory && channel.Category != "" {
		strategy = category.ExtraChannels
	}

	switch strategy {
	case guild.Keep, "":
		return nil, nil
	case guild.Remove:
		return []Command{&deleteChannel{channel: channel}}, nil
	case guild.SyncPermissions:
		if !hasCategory || channel.Category == "" {
			return nil, fmt.Errorf("%w: %s", ErrSyncWithoutCategory, channel.Key())
		}
		desired := channel.WithCategoryOverwrites(&category)
		diffs := channel.Diff(desired)
		if len(diffs) == 0 {
			return nil, nil
		}
		return []Command{&updateChannel{existing: channel, desired: desired, diffs: diffs}}, nil
	default:
		return nil, fmt.Errorf("extra channel %s: unsupported strategy %s", channel.Key(), strategy)
	}
}
