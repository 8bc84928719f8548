package permission

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetCode(t *testing.T) {
	tests := []struct {
		name string
		set  Set
		want string
	}{
		{name: "empty", set: NewSet(), want: "0"},
		{name: "first flag", set: NewSet(CreateInstantInvite), want: "1"},
		{name: "administrator", set: NewSet(Administrator), want: "8"},
		{name: "mixed", set: NewSet(AddReactions, EmbedLinks, UseExternalEmojis), want: "278592"},
		{name: "last flag", set: NewSet(ModerateMembers), want: "1099511627776"},
		{name: "duplicates ignored", set: NewSet(SendMessages, SendMessages), want: "2048"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.set.Code())
		})
	}
}

func TestFromCode(t *testing.T) {
	s, err := FromCode("278592")
	require.NoError(t, err)
	assert.Equal(t, []Permission{AddReactions, EmbedLinks, UseExternalEmojis}, s.Items())

	_, err = FromCode("not-a-number")
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = FromCode("-1")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestFromCode_DropsUnknownBits(t *testing.T) {
	// bit 41 and above are not known flags
	s, err := FromCode("2199023255560")
	require.NoError(t, err)
	assert.True(t, s.Equal(NewSet(Administrator)))
}

func TestRoundTrip(t *testing.T) {
	f := gofakeit.New(42)
	all := All()

	for i := 0; i < 200; i++ {
		var perms []Permission
		for _, p := range all {
			if f.Bool() {
				perms = append(perms, p)
			}
		}
		s := NewSet(perms...)

		decoded, err := FromCode(s.Code())
		require.NoError(t, err)
		assert.True(t, decoded.Equal(s), "round trip mismatch for %s", s.Code())
		assert.Equal(t, perms, decoded.Items())
	}
}

func TestSetEqualityIgnoresOrder(t *testing.T) {
	a := NewSet(SendMessages, ViewChannel, Speak)
	b := NewSet(Speak, SendMessages, ViewChannel)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a, b)
	assert.False(t, a.Equal(NewSet(Speak)))
}

func TestSetOperations(t *testing.T) {
	a := NewSet(SendMessages, ReadMessageHistory)
	b := NewSet(SendMessages, ChangeNickname)

	assert.True(t, a.Has(SendMessages))
	assert.False(t, a.Has(ChangeNickname))
	assert.Equal(t, 2, a.Len())
	assert.True(t, NewSet().IsEmpty())
	assert.Equal(t, []Permission{ReadMessageHistory}, a.Difference(b).Items())
	assert.Equal(t, []Permission{ChangeNickname}, b.Difference(a).Items())
	assert.Equal(t, 3, a.Union(b).Len())
}

func TestParse(t *testing.T) {
	for _, p := range All() {
		parsed, err := Parse(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}

	_, err := Parse("FLY")
	assert.ErrorIs(t, err, ErrUnknownPermission)
}

func TestParseNames(t *testing.T) {
	s, err := ParseNames([]string{"VIEW_CHANNEL", "SEND_MESSAGES"})
	require.NoError(t, err)
	assert.Equal(t, []string{"VIEW_CHANNEL", "SEND_MESSAGES"}, s.Names())
	assert.Equal(t, "[VIEW_CHANNEL, SEND_MESSAGES]", s.String())

	_, err = ParseNames([]string{"VIEW_CHANNEL", "nope"})
	assert.ErrorIs(t, err, ErrUnknownPermission)
}

func TestTextMarshaling(t *testing.T) {
	text, err := ManageRoles.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "MANAGE_ROLES", string(text))

	var p Permission
	require.NoError(t, p.UnmarshalText([]byte("MANAGE_ROLES")))
	assert.Equal(t, ManageRoles, p)
	assert.Error(t, p.UnmarshalText([]byte("MANAGE_EVERYTHING")))

	_, err = Permission(200).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownPermission)
}
