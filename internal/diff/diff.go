// Package diff holds the recursive structure used to describe field level
// differences between an existing entity and its desired state.
package diff

import (
	"fmt"
	"slices"
	"strings"
)

// Kind tells what a Diff node represents.
type Kind int

const (
	KindAdd Kind = iota
	KindRemove
	KindUpdate
)

func (k Kind) String() string {
	switch k {
	case KindAdd:
		return "add"
	case KindRemove:
		return "remove"
	case KindUpdate:
		return "update"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Diff is one node of a diff tree. Add and Remove nodes are leaves carrying
// the value that appears or disappears. Update nodes name a field and carry
// the diffs of that field.
type Diff struct {
	Kind        Kind
	Description string
	Children    []Diff
}

// Add returns a leaf describing a value that appears.
func Add(description string) Diff {
	return Diff{Kind: KindAdd, Description: description}
}

// Remove returns a leaf describing a value that disappears.
func Remove(description string) Diff {
	return Diff{Kind: KindRemove, Description: description}
}

// Update returns a node describing changes to the named field.
func Update(field string, children ...Diff) Diff {
	return Diff{Kind: KindUpdate, Description: field, Children: children}
}

// Field wraps children in an Update node named field. No node is produced
// when children is empty.
func Field(field string, children []Diff) []Diff {
	if len(children) == 0 {
		return nil
	}
	return []Diff{Update(field, children...)}
}

// Values compares two scalar values.
func Values[T comparable](old, desired T) []Diff {
	if old == desired {
		return nil
	}
	return []Diff{Remove(fmt.Sprint(old)), Add(fmt.Sprint(desired))}
}

// Optional compares two optional strings where the empty string stands for
// an absent value.
func Optional(old, desired string) []Diff {
	switch {
	case old == "" && desired == "":
		return nil
	case desired == "":
		return []Diff{Remove(old)}
	case old == "":
		return []Diff{Add(desired)}
	default:
		return Values(old, desired)
	}
}

// Sets compares two collections as sets. Elements only in old are removed in
// the order they appear in old, then elements only in desired are added in
// the order they appear in desired. Duplicates are reported once.
func Sets(old, desired []string) []Diff {
	var diffs []Diff
	seen := make(map[string]struct{}, len(old))
	for _, o := range old {
		if _, dup := seen[o]; dup {
			continue
		}
		seen[o] = struct{}{}
		if !slices.Contains(desired, o) {
			diffs = append(diffs, Remove(o))
		}
	}
	added := make(map[string]struct{}, len(desired))
	for _, d := range desired {
		if _, dup := added[d]; dup {
			continue
		}
		added[d] = struct{}{}
		if !slices.Contains(old, d) {
			diffs = append(diffs, Add(d))
		}
	}
	return diffs
}

// String renders the node on a single line, mainly for logs and test output.
func (d Diff) String() string {
	switch d.Kind {
	case KindAdd:
		return "+" + d.Description
	case KindRemove:
		return "-" + d.Description
	}
	parts := make([]string, len(d.Children))
	for i, c := range d.Children {
		parts[i] = c.String()
	}
	return d.Description + "{" + strings.Join(parts, ", ") + "}"
}
