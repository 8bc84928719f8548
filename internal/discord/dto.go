package discord

import (
	"fmt"
	"strconv"

	"github.com/schaermu/guildsync/internal/guild"
	"github.com/schaermu/guildsync/internal/permission"
)

// Channel types as defined by the API.
const (
	channelTypeText     = 0
	channelTypeVoice    = 2
	channelTypeCategory = 4
)

// Overwrite types as defined by the API.
const (
	overwriteTypeRole   = 0
	overwriteTypeMember = 1
)

type roleDTO struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Permissions string `json:"permissions"`
	Color       int    `json:"color"`
	Hoist       bool   `json:"hoist"`
	Mentionable bool   `json:"mentionable"`
}

type overwriteDTO struct {
	ID    string `json:"id"`
	Type  int    `json:"type"`
	Allow string `json:"allow"`
	Deny  string `json:"deny"`
}

type channelDTO struct {
	ID                   string         `json:"id,omitempty"`
	Type                 int            `json:"type"`
	Name                 string         `json:"name"`
	Topic                *string        `json:"topic"`
	ParentID             *string        `json:"parent_id"`
	PermissionOverwrites []overwriteDTO `json:"permission_overwrites"`
}

type guildDTO struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	ApproximateMemberCount int    `json:"approximate_member_count"`
}

func roleRequest(r guild.Role) (roleDTO, error) {
	color, err := colorToInt(r.Color)
	if err != nil {
		return roleDTO{}, err
	}
	return roleDTO{
		Name:        r.Name,
		Permissions: r.Permissions.Code(),
		Color:       color,
		Hoist:       r.ShowInSidebar,
		Mentionable: r.IsMentionable,
	}, nil
}

func roleFromDTO(dto roleDTO) (guild.ExistingRole, error) {
	perms, err := permission.FromCode(dto.Permissions)
	if err != nil {
		return guild.ExistingRole{}, fmt.Errorf("role %s: %w", dto.Name, err)
	}
	return guild.ExistingRole{
		ID: dto.ID,
		Role: guild.Role{
			Name:          dto.Name,
			Permissions:   perms,
			Color:         colorFromInt(dto.Color),
			IsMentionable: dto.Mentionable,
			ShowInSidebar: dto.Hoist,
		},
	}, nil
}

func colorToInt(color string) (int, error) {
	if color == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(color, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", color, err)
	}
	return int(v), nil
}

func colorFromInt(color int) string {
	if color == 0 {
		return ""
	}
	return fmt.Sprintf("%06x", color)
}

func channelTypeToAPI(t guild.ChannelType) (int, error) {
	switch t {
	case guild.ChannelText:
		return channelTypeText, nil
	case guild.ChannelVoice:
		return channelTypeVoice, nil
	default:
		return 0, fmt.Errorf("unsupported channel type %q", string(t))
	}
}

func channelTypeFromAPI(t int) (guild.ChannelType, bool) {
	switch t {
	case channelTypeText:
		return guild.ChannelText, true
	case channelTypeVoice:
		return guild.ChannelVoice, true
	default:
		return "", false
	}
}

// overwritesRequest resolves role names to ids.
func overwritesRequest(overwrites *guild.Overwrites, roles *guild.ExistingRoleList) ([]overwriteDTO, error) {
	out := []overwriteDTO{}
	for _, o := range overwrites.Items() {
		role, ok := roles.Find(o.Role)
		if !ok {
			return nil, fmt.Errorf("role %s does not exist in guild", o.Role)
		}
		out = append(out, overwriteDTO{
			ID:    role.ID,
			Type:  overwriteTypeRole,
			Allow: o.Allow.Code(),
			Deny:  o.Deny.Code(),
		})
	}
	return out, nil
}

// rolesByID indexes role names by role id.
func rolesByID(roles *guild.ExistingRoleList) map[string]string {
	byID := make(map[string]string, roles.Len())
	for _, r := range roles.Items() {
		byID[r.ID] = r.Name
	}
	return byID
}

// overwritesFromDTO resolves role ids to names. Member overwrites and
// overwrites of unknown roles are reported through skip and left out.
func overwritesFromDTO(dtos []overwriteDTO, roleNames map[string]string, skip func(reason, id string)) (*guild.Overwrites, error) {
	overwrites := &guild.Overwrites{}
	for _, dto := range dtos {
		if dto.Type != overwriteTypeRole {
			skip("member overwrite", dto.ID)
			continue
		}
		name, ok := roleNames[dto.ID]
		if !ok {
			skip("unknown role", dto.ID)
			continue
		}
		allow, err := permission.FromCode(dto.Allow)
		if err != nil {
			return nil, err
		}
		deny, err := permission.FromCode(dto.Deny)
		if err != nil {
			return nil, err
		}
		if err := overwrites.Add(guild.Overwrite{Role: name, Allow: allow, Deny: deny}); err != nil {
			return nil, err
		}
	}
	return overwrites, nil
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
