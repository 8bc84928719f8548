package diff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestValues(t *testing.T) {
	assert.Empty(t, Values("a", "a"))
	assert.Empty(t, Values(true, true))

	got := Values(false, true)
	want := []Diff{Remove("false"), Add("true")}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("Values mismatch (-want +got):\n%s", d)
	}
}

func TestOptional(t *testing.T) {
	tests := []struct {
		name    string
		old     string
		desired string
		want    []Diff
	}{
		{name: "both absent"},
		{name: "removed", old: "abc", want: []Diff{Remove("abc")}},
		{name: "added", desired: "abc", want: []Diff{Add("abc")}},
		{name: "unchanged", old: "abc", desired: "abc"},
		{name: "changed", old: "abc", desired: "def", want: []Diff{Remove("abc"), Add("def")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if d := cmp.Diff(tt.want, Optional(tt.old, tt.desired)); d != "" {
				t.Errorf("Optional mismatch (-want +got):\n%s", d)
			}
		})
	}
}

func TestSets(t *testing.T) {
	tests := []struct {
		name    string
		old     []string
		desired []string
		want    []Diff
	}{
		{name: "empty"},
		{name: "same elements different order", old: []string{"a", "b"}, desired: []string{"b", "a"}},
		{name: "multiplicity ignored", old: []string{"a", "a"}, desired: []string{"a"}},
		{
			name:    "removes before adds",
			old:     []string{"SEND_MESSAGES", "READ_MESSAGE_HISTORY"},
			desired: []string{"SEND_MESSAGES", "CHANGE_NICKNAME"},
			want:    []Diff{Remove("READ_MESSAGE_HISTORY"), Add("CHANGE_NICKNAME")},
		},
		{
			name:    "duplicates reported once",
			old:     []string{"x", "x"},
			desired: []string{"y", "y"},
			want:    []Diff{Remove("x"), Add("y")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if d := cmp.Diff(tt.want, Sets(tt.old, tt.desired)); d != "" {
				t.Errorf("Sets mismatch (-want +got):\n%s", d)
			}
		})
	}
}

func TestField(t *testing.T) {
	assert.Nil(t, Field("topic", nil))

	got := Field("topic", Optional("old", "new"))
	want := []Diff{Update("topic", Remove("old"), Add("new"))}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("Field mismatch (-want +got):\n%s", d)
	}
}

func TestString(t *testing.T) {
	d := Update("overwrites", Update("Admin", Update("allow", Add("SPEAK"))), Remove("Guest"))
	assert.Equal(t, "overwrites{Admin{allow{+SPEAK}}, -Guest}", d.String())
	assert.Equal(t, "update", d.Kind.String())
}
