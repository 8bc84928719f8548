package guild

import (
	"fmt"

	"github.com/schaermu/guildsync/internal/diff"
)

// ChannelType is the kind of a channel.
type ChannelType string

const (
	ChannelText  ChannelType = "TEXT"
	ChannelVoice ChannelType = "VOICE"
)

// Validate checks t is a supported channel type.
func (t ChannelType) Validate() error {
	switch t {
	case ChannelText, ChannelVoice:
		return nil
	default:
		return fmt.Errorf("unknown channel type: %q", string(t))
	}
}

// UniqueChannelName identifies a channel. Channel names are only unique
// within a category and a type.
type UniqueChannelName struct {
	Category string // empty when the channel has no category
	Name     string
	Type     ChannelType
}

func (u UniqueChannelName) String() string {
	return fmt.Sprintf("%s:%s (%s)", u.Category, u.Name, u.Type)
}

// Channel is the desired state of a channel.
type Channel struct {
	Name       string
	Topic      string
	Type       ChannelType
	Category   *Category
	Overwrites *Overwrites
}

// CategoryName returns the name of the channel category or an empty string.
func (c Channel) CategoryName() string {
	if c.Category == nil {
		return ""
	}
	return c.Category.Name
}

// Key returns the unique channel name.
func (c Channel) Key() UniqueChannelName {
	return UniqueChannelName{Category: c.CategoryName(), Name: c.Name, Type: c.Type}
}

// ExistingChannel is a channel read from the remote guild.
type ExistingChannel struct {
	ID         string
	Name       string
	Topic      string
	Type       ChannelType
	Category   string // empty when the channel has no category
	Overwrites *Overwrites
}

// Key returns the unique channel name.
func (c ExistingChannel) Key() UniqueChannelName {
	return UniqueChannelName{Category: c.Category, Name: c.Name, Type: c.Type}
}

// Diff compares the existing channel with its desired state.
func (c ExistingChannel) Diff(desired Channel) []diff.Diff {
	var diffs []diff.Diff
	diffs = append(diffs, diff.Field("topic", diff.Optional(c.Topic, desired.Topic))...)
	diffs = append(diffs, diff.Field("channel_type", diff.Values(c.Type, desired.Type))...)
	diffs = append(diffs, diff.Field("category", diff.Optional(c.Category, desired.CategoryName()))...)
	diffs = append(diffs, diff.Field("overwrites", DiffOverwrites(c.Overwrites, desired.Overwrites))...)
	return diffs
}

// WithCategoryOverwrites returns a desired channel identical to c but with the
// overwrites of category.
func (c ExistingChannel) WithCategoryOverwrites(category *Category) Channel {
	return Channel{
		Name:       c.Name,
		Topic:      c.Topic,
		Type:       c.Type,
		Category:   category,
		Overwrites: cloneOverwrites(category.Overwrites),
	}
}

type (
	// ChannelList holds desired channels keyed by unique channel name.
	ChannelList = List[UniqueChannelName, Channel]
	// ExistingChannelList holds existing channels keyed by unique channel name.
	ExistingChannelList = List[UniqueChannelName, ExistingChannel]
)

// NewChannelList builds a desired channel list, failing on duplicate keys.
func NewChannelList(channels ...Channel) (*ChannelList, error) {
	return NewList[UniqueChannelName](channels...)
}

// NewExistingChannelList builds an existing channel list, failing on
// duplicate keys.
func NewExistingChannelList(channels ...ExistingChannel) (*ExistingChannelList, error) {
	return NewList[UniqueChannelName](channels...)
}
