package guildfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schaermu/guildsync/internal/guild"
	"github.com/schaermu/guildsync/internal/permission"
	"github.com/schaermu/guildsync/internal/reconcile"
)

func TestLoadAndResolve_YAML(t *testing.T) {
	params, err := Load(filepath.Join("testdata", "guild.yaml"))
	require.NoError(t, err)

	desired, err := Resolve(params)
	require.NoError(t, err)

	assert.Equal(t, guild.Remove, desired.ExtraRoles)
	assert.Equal(t, guild.Keep, desired.ExtraCategories)
	assert.Equal(t, guild.Remove, desired.ExtraChannels)

	admin, ok := desired.Roles.Find("Admin")
	require.True(t, ok)
	assert.Equal(t, "ff0000", admin.Color)
	assert.True(t, admin.ShowInSidebar)
	assert.True(t, admin.Permissions.Equal(permission.NewSet(permission.Administrator)))

	general, ok := desired.Categories.Find("General")
	require.True(t, ok)
	assert.Equal(t, guild.SyncPermissions, general.ExtraChannels)
	assert.Equal(t, 2, general.Overwrites.Len())

	voice, ok := desired.Categories.Find("Voice")
	require.True(t, ok)
	assert.Equal(t, guild.Keep, voice.ExtraChannels)

	welcome, ok := desired.Channels.Find(guild.UniqueChannelName{Category: "General", Name: "welcome", Type: guild.ChannelText})
	require.True(t, ok)
	assert.Equal(t, "Say hi", welcome.Topic)
	assert.Equal(t, general.Overwrites.Items(), welcome.Overwrites.Items())

	_, ok = desired.Channels.Find(guild.UniqueChannelName{Category: "Voice", Name: "lounge", Type: guild.ChannelVoice})
	assert.True(t, ok)

	admins, ok := desired.Channels.Find(guild.UniqueChannelName{Name: "admins", Type: guild.ChannelText})
	require.True(t, ok)
	o, ok := admins.Overwrites.Find("Admin")
	require.True(t, ok)
	assert.True(t, o.Allow.Has(permission.SendMessages))
}

func TestLoad_AllFormatsAgree(t *testing.T) {
	fromJSON, err := Load(filepath.Join("testdata", "guild.json"))
	require.NoError(t, err)
	fromTOML, err := Load(filepath.Join("testdata", "guild.toml"))
	require.NoError(t, err)

	assert.Equal(t, fromJSON, fromTOML)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "guild.txt"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	unknownPermission := filepath.Join(dir, "perm.yaml")
	require.NoError(t, os.WriteFile(unknownPermission, []byte("roles:\n  items:\n    - name: a\n      permissions: [FLY]\n"), 0o600))
	_, err = Load(unknownPermission)
	assert.ErrorIs(t, err, permission.ErrUnknownPermission)

	unknownField := filepath.Join(dir, "field.yaml")
	require.NoError(t, os.WriteFile(unknownField, []byte("roles:\n  itemz: []\n"), 0o600))
	_, err = Load(unknownField)
	assert.Error(t, err)
}

func TestDecode_Empty(t *testing.T) {
	p, err := Decode(nil, FormatYAML)
	require.NoError(t, err)

	desired, err := Resolve(p)
	require.NoError(t, err)
	assert.Equal(t, 0, desired.Roles.Len())
	assert.Equal(t, guild.Keep, desired.ExtraRoles)
	assert.Equal(t, guild.Keep, desired.ExtraChannels)
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name:    "duplicate role",
			yaml:    "roles:\n  items:\n    - name: a\n    - name: a\n",
			wantErr: guild.ErrDuplicateKey,
		},
		{
			name:    "duplicate channel",
			yaml:    "channels:\n  items:\n    - name: a\n    - name: a\n      type: TEXT\n",
			wantErr: guild.ErrDuplicateKey,
		},
		{
			name:    "unknown overwrite role",
			yaml:    "categories:\n  items:\n    - name: c\n      permissions_overwrites:\n        - role: ghost\n",
			wantErr: ErrUnknownRole,
		},
		{
			name:    "duplicate overwrite role",
			yaml:    "roles:\n  items:\n    - name: a\ncategories:\n  items:\n    - name: c\n      permissions_overwrites:\n        - role: a\n        - role: a\n",
			wantErr: guild.ErrDuplicateKey,
		},
		{
			name:    "unknown category",
			yaml:    "channels:\n  items:\n    - name: a\n      category: nowhere\n",
			wantErr: ErrUnknownCategory,
		},
		{
			name:    "from category without category",
			yaml:    "channels:\n  items:\n    - name: a\n      permissions_overwrites:\n        strategy: FROM_CATEGORY\n",
			wantErr: ErrFromCategoryWithoutCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode([]byte(tt.yaml), FormatYAML)
			require.NoError(t, err)
			_, err = Resolve(p)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestResolve_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "sync on roles", yaml: "roles:\n  extra_items:\n    strategy: SYNC_PERMISSIONS\n"},
		{name: "sync on uncategorized channels", yaml: "channels:\n  extra_items:\n    strategy: SYNC_PERMISSIONS\n"},
		{name: "unknown strategy", yaml: "categories:\n  extra_items:\n    strategy: BURN\n"},
		{name: "unknown channel type", yaml: "channels:\n  items:\n    - name: a\n      type: STAGE\n"},
		{name: "invalid color", yaml: "roles:\n  items:\n    - name: a\n      color: red\n"},
		{name: "missing role name", yaml: "roles:\n  items:\n    - color: ffffff\n"},
		{name: "unknown overwrites strategy", yaml: "channels:\n  items:\n    - name: a\n      permissions_overwrites:\n        strategy: GUESS\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode([]byte(tt.yaml), FormatYAML)
			require.NoError(t, err)
			_, err = Resolve(p)
			assert.Error(t, err)
		})
	}
}

func TestResolve_EveryoneAlwaysKnown(t *testing.T) {
	p, err := Decode([]byte("categories:\n  items:\n    - name: c\n      permissions_overwrites:\n        - role: \"@everyone\"\n          deny: [VIEW_CHANNEL]\n"), FormatYAML)
	require.NoError(t, err)

	desired, err := Resolve(p)
	require.NoError(t, err)
	c, ok := desired.Categories.Find("c")
	require.True(t, ok)
	_, ok = c.Overwrites.Find(guild.EveryoneRole)
	assert.True(t, ok)
}

func existingFixture(t *testing.T) *guild.Existing {
	t.Helper()
	overwrites, err := guild.NewOverwrites(
		guild.Overwrite{Role: guild.EveryoneRole, Deny: permission.NewSet(permission.ViewChannel)},
		guild.Overwrite{Role: "Member", Allow: permission.NewSet(permission.ViewChannel, permission.Speak)},
	)
	require.NoError(t, err)

	existing := &guild.Existing{}
	existing.Roles.AddOrReplace(guild.ExistingRole{ID: "1", Role: guild.Role{Name: guild.EveryoneRole, Permissions: permission.NewSet(permission.ViewChannel)}})
	existing.Roles.AddOrReplace(guild.ExistingRole{ID: "2", Role: guild.Role{Name: "Member", Color: "00aaff", IsMentionable: true}})
	existing.Categories.AddOrReplace(guild.ExistingCategory{ID: "3", Name: "General", Overwrites: overwrites})
	existing.Channels.AddOrReplace(guild.ExistingChannel{ID: "4", Name: "welcome", Topic: "hi", Type: guild.ChannelText, Category: "General", Overwrites: overwrites})
	existing.Channels.AddOrReplace(guild.ExistingChannel{ID: "5", Name: "lounge", Type: guild.ChannelVoice, Overwrites: &guild.Overwrites{}})
	return existing
}

func TestSaveThenApply_NoChanges(t *testing.T) {
	for _, ext := range []string{".yaml", ".json", ".toml"} {
		t.Run(ext, func(t *testing.T) {
			existing := existingFixture(t)
			path := filepath.Join(t.TempDir(), "guild"+ext)

			require.NoError(t, Save(path, FromExisting(existing)))

			params, err := Load(path)
			require.NoError(t, err)
			desired, err := Resolve(params)
			require.NoError(t, err)

			plan, err := reconcile.BuildPlan("g", existing, desired)
			require.NoError(t, err)
			assert.Empty(t, plan.Changes())
		})
	}
}

func TestCompile(t *testing.T) {
	out, err := Compile(filepath.Join("testdata", "guild.yaml.tmpl"), filepath.Join("testdata", "vars.yaml"))
	require.NoError(t, err)

	p, err := Decode(out, FormatYAML)
	require.NoError(t, err)
	require.Len(t, p.Roles.Items, 2)
	assert.Equal(t, "Member", p.Roles.Items[1].Name)
	assert.Equal(t, []permission.Permission{permission.ViewChannel, permission.SendMessages}, p.Roles.Items[1].Permissions)
	require.Len(t, p.Channels.Items, 1)
	assert.Equal(t, "hello", p.Channels.Items[0].Name)
}

func TestRender_MissingKey(t *testing.T) {
	_, err := Render("t", "name: {{ .missing }}", map[string]any{})
	assert.Error(t, err)

	out, err := Render("t", "name: {{ upper .name }}", map[string]any{"name": "x"})
	require.NoError(t, err)
	assert.Equal(t, "name: X", string(out))
}

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]Format{
		"a.yaml": FormatYAML,
		"a.YML":  FormatYAML,
		"a.json": FormatJSON,
		"a.toml": FormatTOML,
	} {
		got, err := FormatFromPath(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := FormatFromPath("a.ini")
	assert.Error(t, err)
}
