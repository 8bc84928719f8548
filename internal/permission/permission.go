// Package permission models the guild permission flags and the numeric code
// the remote service uses to transport a set of them.
package permission

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

var (
	// ErrUnknownPermission is returned when a flag name is not recognized.
	ErrUnknownPermission = errors.New("unknown permission")
	// ErrInvalidCode is returned when a permission code is not a base-10 uint64.
	ErrInvalidCode = errors.New("invalid permission code")
)

// Permission is a single permission flag. Its value is the bit position
// used in the permission code.
type Permission uint8

const (
	CreateInstantInvite Permission = iota
	KickMembers
	BanMembers
	Administrator
	ManageChannels
	ManageGuild
	AddReactions
	ViewAuditLog
	PrioritySpeaker
	Stream
	ViewChannel
	SendMessages
	SendTTSMessages
	ManageMessages
	EmbedLinks
	AttachFiles
	ReadMessageHistory
	MentionEveryone
	UseExternalEmojis
	ViewGuildInsights
	Connect
	Speak
	MuteMembers
	DeafenMembers
	MoveMembers
	UseVAD
	ChangeNickname
	ManageNicknames
	ManageRoles
	ManageWebhooks
	ManageEmojisAndStickers
	UseApplicationCommands
	RequestToSpeak
	ManageEvents
	ManageThreads
	CreatePublicThreads
	CreatePrivateThreads
	UseExternalStickers
	SendMessagesInThreads
	UseEmbeddedActivities
	ModerateMembers

	numPermissions
)

var names = [numPermissions]string{
	"CREATE_INSTANT_INVITE",
	"KICK_MEMBERS",
	"BAN_MEMBERS",
	"ADMINISTRATOR",
	"MANAGE_CHANNELS",
	"MANAGE_GUILD",
	"ADD_REACTIONS",
	"VIEW_AUDIT_LOG",
	"PRIORITY_SPEAKER",
	"STREAM",
	"VIEW_CHANNEL",
	"SEND_MESSAGES",
	"SEND_TTS_MESSAGES",
	"MANAGE_MESSAGES",
	"EMBED_LINKS",
	"ATTACH_FILES",
	"READ_MESSAGE_HISTORY",
	"MENTION_EVERYONE",
	"USE_EXTERNAL_EMOJIS",
	"VIEW_GUILD_INSIGHTS",
	"CONNECT",
	"SPEAK",
	"MUTE_MEMBERS",
	"DEAFEN_MEMBERS",
	"MOVE_MEMBERS",
	"USE_VAD",
	"CHANGE_NICKNAME",
	"MANAGE_NICKNAMES",
	"MANAGE_ROLES",
	"MANAGE_WEBHOOKS",
	"MANAGE_EMOJIS_AND_STICKERS",
	"USE_APPLICATION_COMMANDS",
	"REQUEST_TO_SPEAK",
	"MANAGE_EVENTS",
	"MANAGE_THREADS",
	"CREATE_PUBLIC_THREADS",
	"CREATE_PRIVATE_THREADS",
	"USE_EXTERNAL_STICKERS",
	"SEND_MESSAGES_IN_THREADS",
	"USE_EMBEDDED_ACTIVITIES",
	"MODERATE_MEMBERS",
}

// All returns every known permission in bit order.
func All() []Permission {
	all := make([]Permission, numPermissions)
	for i := range all {
		all[i] = Permission(i)
	}
	return all
}

// Parse returns the permission with the given name.
func Parse(name string) (Permission, error) {
	for i, n := range names {
		if n == name {
			return Permission(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownPermission, name)
}

func (p Permission) String() string {
	if p >= numPermissions {
		return fmt.Sprintf("PERMISSION(%d)", uint8(p))
	}
	return names[p]
}

func (p Permission) bit() uint64 {
	return 1 << uint(p)
}

// MarshalText implements encoding.TextMarshaler.
func (p Permission) MarshalText() ([]byte, error) {
	if p >= numPermissions {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPermission, uint8(p))
	}
	return []byte(names[p]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Permission) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Set is an unordered set of permissions.
type Set struct {
	bits uint64
}

// NewSet returns a set holding the given permissions. Duplicates are ignored.
func NewSet(perms ...Permission) Set {
	var s Set
	for _, p := range perms {
		if p < numPermissions {
			s.bits |= p.bit()
		}
	}
	return s
}

// FromCode decodes a permission code. Bits that do not map to a known
// permission are dropped.
func FromCode(code string) (Set, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(code), 10, 64)
	if err != nil {
		return Set{}, fmt.Errorf("%w %q: %w", ErrInvalidCode, code, err)
	}
	return Set{bits: v & knownMask}, nil
}

var knownMask = uint64(1)<<uint(numPermissions) - 1

// Code encodes the set as a base-10 string where bit i is set iff the
// permission with value i is present.
func (s Set) Code() string {
	return strconv.FormatUint(s.bits, 10)
}

// Has reports whether p is part of the set.
func (s Set) Has(p Permission) bool {
	return p < numPermissions && s.bits&p.bit() != 0
}

// Len returns the number of permissions in the set.
func (s Set) Len() int {
	return bits.OnesCount64(s.bits)
}

// IsEmpty reports whether the set holds no permission.
func (s Set) IsEmpty() bool {
	return s.bits == 0
}

// Equal reports whether both sets hold the same permissions.
func (s Set) Equal(other Set) bool {
	return s.bits == other.bits
}

// Union returns a set holding the permissions of both sets.
func (s Set) Union(other Set) Set {
	return Set{bits: s.bits | other.bits}
}

// Difference returns the permissions of s that are not in other.
func (s Set) Difference(other Set) Set {
	return Set{bits: s.bits &^ other.bits}
}

// Items returns the permissions of the set in bit order.
func (s Set) Items() []Permission {
	items := make([]Permission, 0, s.Len())
	for p := Permission(0); p < numPermissions; p++ {
		if s.Has(p) {
			items = append(items, p)
		}
	}
	return items
}

// Names returns the permission names of the set in bit order.
func (s Set) Names() []string {
	items := s.Items()
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.String()
	}
	return out
}

// ParseNames builds a set from permission names.
func ParseNames(names []string) (Set, error) {
	var s Set
	for _, n := range names {
		p, err := Parse(n)
		if err != nil {
			return Set{}, err
		}
		s.bits |= p.bit()
	}
	return s, nil
}

func (s Set) String() string {
	return "[" + strings.Join(s.Names(), ", ") + "]"
}
