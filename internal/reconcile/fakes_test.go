package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schaermu/guildsync/internal/guild"
)

// fakeQuerier implements guild.Querier for testing.
type fakeQuerier struct {
	existing *guild.Existing
	err      error
	calls    int
}

func (f *fakeQuerier) GetGuild(_ context.Context, _ string) (*guild.Existing, error) {
	f.calls++
	return f.existing, f.err
}

func (f *fakeQuerier) ListGuilds(_ context.Context) ([]guild.Summary, error) {
	return nil, f.err
}

// fakeCommander implements guild.Commander for testing. Name references are
// resolved against the lists it receives, like the real commander does.
type fakeCommander struct {
	calls  []string
	fail   map[string]error
	nextID int
}

func (f *fakeCommander) record(call string) error {
	f.calls = append(f.calls, call)
	return f.fail[call]
}

func (f *fakeCommander) id() string {
	f.nextID++
	return fmt.Sprintf("new-%d", f.nextID)
}

func resolveOverwrites(overwrites *guild.Overwrites, roles *guild.ExistingRoleList) error {
	for _, o := range overwrites.Items() {
		if _, ok := roles.Find(o.Role); !ok {
			return fmt.Errorf("role %s not found", o.Role)
		}
	}
	return nil
}

func (f *fakeCommander) AddRole(_ context.Context, role guild.Role) (guild.ExistingRole, error) {
	if err := f.record("AddRole " + role.Name); err != nil {
		return guild.ExistingRole{}, err
	}
	return guild.ExistingRole{ID: f.id(), Role: role}, nil
}

func (f *fakeCommander) UpdateRole(_ context.Context, id string, role guild.Role) (guild.ExistingRole, error) {
	if err := f.record("UpdateRole " + role.Name); err != nil {
		return guild.ExistingRole{}, err
	}
	return guild.ExistingRole{ID: id, Role: role}, nil
}

func (f *fakeCommander) DeleteRole(_ context.Context, id string) error {
	return f.record("DeleteRole " + id)
}

func (f *fakeCommander) AddCategory(_ context.Context, category guild.Category, roles *guild.ExistingRoleList) (guild.ExistingCategory, error) {
	if err := f.record("AddCategory " + category.Name); err != nil {
		return guild.ExistingCategory{}, err
	}
	if err := resolveOverwrites(category.Overwrites, roles); err != nil {
		return guild.ExistingCategory{}, err
	}
	return guild.ExistingCategory{ID: f.id(), Name: category.Name, Overwrites: category.Overwrites}, nil
}

func (f *fakeCommander) UpdateCategory(_ context.Context, id string, category guild.Category, roles *guild.ExistingRoleList) (guild.ExistingCategory, error) {
	if err := f.record("UpdateCategory " + category.Name); err != nil {
		return guild.ExistingCategory{}, err
	}
	if err := resolveOverwrites(category.Overwrites, roles); err != nil {
		return guild.ExistingCategory{}, err
	}
	return guild.ExistingCategory{ID: id, Name: category.Name, Overwrites: category.Overwrites}, nil
}

func (f *fakeCommander) DeleteCategory(_ context.Context, id string) error {
	return f.record("DeleteCategory " + id)
}

func (f *fakeCommander) channel(id string, channel guild.Channel, roles *guild.ExistingRoleList, categories *guild.ExistingCategoryList) (guild.ExistingChannel, error) {
	if channel.Category != nil {
		if _, ok := categories.Find(channel.Category.Name); !ok {
			return guild.ExistingChannel{}, fmt.Errorf("category %s not found", channel.Category.Name)
		}
	}
	if err := resolveOverwrites(channel.Overwrites, roles); err != nil {
		return guild.ExistingChannel{}, err
	}
	return guild.ExistingChannel{
		ID:         id,
		Name:       channel.Name,
		Topic:      channel.Topic,
		Type:       channel.Type,
		Category:   channel.CategoryName(),
		Overwrites: channel.Overwrites,
	}, nil
}

func (f *fakeCommander) AddChannel(_ context.Context, channel guild.Channel, roles *guild.ExistingRoleList, categories *guild.ExistingCategoryList) (guild.ExistingChannel, error) {
	if err := f.record("AddChannel " + channel.Name); err != nil {
		return guild.ExistingChannel{}, err
	}
	created, err := f.channel("", channel, roles, categories)
	if err != nil {
		return guild.ExistingChannel{}, err
	}
	created.ID = f.id()
	return created, nil
}

func (f *fakeCommander) UpdateChannel(_ context.Context, id string, channel guild.Channel, roles *guild.ExistingRoleList, categories *guild.ExistingCategoryList) (guild.ExistingChannel, error) {
	if err := f.record("UpdateChannel " + channel.Name); err != nil {
		return guild.ExistingChannel{}, err
	}
	return f.channel(id, channel, roles, categories)
}

func (f *fakeCommander) DeleteChannel(_ context.Context, id string) error {
	return f.record("DeleteChannel " + id)
}

// recordingListener keeps every event it receives.
type recordingListener struct {
	events []Event
}

func (r *recordingListener) Handle(event Event) {
	r.events = append(r.events, event)
}

var errRemote = errors.New("remote rejected the request")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func overwrites(t *testing.T, items ...guild.Overwrite) *guild.Overwrites {
	t.Helper()
	o, err := guild.NewOverwrites(items...)
	require.NoError(t, err)
	return o
}

func existingRoles(t *testing.T, roles ...guild.ExistingRole) *guild.ExistingRoleList {
	t.Helper()
	l, err := guild.NewExistingRoleList(roles...)
	require.NoError(t, err)
	return l
}

func desiredRoles(t *testing.T, roles ...guild.Role) *guild.RoleList {
	t.Helper()
	l, err := guild.NewRoleList(roles...)
	require.NoError(t, err)
	return l
}

func describe(cmds []Command) []string {
	var out []string
	for _, c := range cmds {
		out = append(out, c.Describe().String())
	}
	return out
}
