package guild

import "github.com/schaermu/guildsync/internal/diff"

// Category is the desired state of a channel category.
type Category struct {
	Name       string
	Overwrites *Overwrites
	// ExtraChannels is applied to existing channels of this category that
	// are not desired.
	ExtraChannels ExtraItemsStrategy
}

// Key returns the category name.
func (c Category) Key() string {
	return c.Name
}

// ExistingCategory is a category read from the remote guild.
type ExistingCategory struct {
	ID         string
	Name       string
	Overwrites *Overwrites
}

// Key returns the category name.
func (c ExistingCategory) Key() string {
	return c.Name
}

// Diff compares the existing category with its desired state.
func (c ExistingCategory) Diff(desired Category) []diff.Diff {
	return diff.Field("overwrites", DiffOverwrites(c.Overwrites, desired.Overwrites))
}

type (
	// CategoryList holds desired categories keyed by name.
	CategoryList = List[string, Category]
	// ExistingCategoryList holds existing categories keyed by name.
	ExistingCategoryList = List[string, ExistingCategory]
)

// NewCategoryList builds a desired category list, failing on duplicate names.
func NewCategoryList(categories ...Category) (*CategoryList, error) {
	return NewList[string](categories...)
}

// NewExistingCategoryList builds an existing category list, failing on
// duplicate names.
func NewExistingCategoryList(categories ...ExistingCategory) (*ExistingCategoryList, error) {
	return NewList[string](categories...)
}
