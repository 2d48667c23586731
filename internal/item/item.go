// Package item defines the generated item types built on resolved attribute
// nodes: the generic Item read contract plus the Weapon and Scroll subtypes
// with their naming, summary, and identity behavior.
package item

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cory-johannsen/artificer/internal/attr"
)

// title renders s in title case for display. A fresh caser per call because
// cases.Caser is not safe for concurrent use.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

// Item wraps one resolved attribute node. The node is read-only and owned
// exclusively by this item; the instance id distinguishes generated
// instances independently of their content.
type Item struct {
	node       *attr.Node
	instanceID string
}

// New wraps a resolved node in an Item.
//
// Precondition: node must be non-nil.
func New(node *attr.Node) *Item {
	if node == nil {
		panic("item: New called with nil node")
	}
	return &Item{node: node, instanceID: uuid.New().String()}
}

// Node returns the underlying resolved attribute node.
func (i *Item) Node() *attr.Node { return i.node }

// InstanceID returns the unique id of this generated instance.
func (i *Item) InstanceID() string { return i.instanceID }

// Name returns the item's resolved base name.
func (i *Item) Name() string { return i.node.Name() }

// Rarity returns the item's rarity tier name, or "" when absent.
func (i *Item) Rarity() string {
	v, ok := i.node.Lookup("rarity.rarity")
	if !ok {
		return ""
	}
	return v.String()
}

// RaritySortOrder returns the tier's presentation sort order.
func (i *Item) RaritySortOrder() int {
	v, ok := i.node.Lookup("rarity.sort_order")
	if !ok {
		return 0
	}
	n, _ := v.Int()
	return n
}

// PropertyNames returns the item's property names in sorted order.
func (i *Item) PropertyNames() []string {
	props := i.node.Properties()
	if props == nil {
		return nil
	}
	names := props.Keys()
	sort.Strings(names)
	return names
}

// property returns the named property node, or nil.
func (i *Item) property(name string) *attr.Node {
	props := i.node.Properties()
	if props == nil {
		return nil
	}
	v, ok := props.Get(name)
	if !ok {
		return nil
	}
	return v.Node()
}

// Description assembles the item's prose from its property descriptions, one
// line per property: the title-cased property name followed by its
// description text.
func (i *Item) Description() string {
	var lines []string
	for _, name := range i.PropertyNames() {
		prop := i.property(name)
		if prop == nil {
			continue
		}
		desc, ok := prop.Get("description")
		if !ok || desc.String() == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s. %s", title(name), desc.String()))
	}
	return strings.Join(lines, "\n")
}

// Summary returns a one-line synopsis; subtypes override with mechanical
// detail.
func (i *Item) Summary() string {
	if r := i.Rarity(); r != "" {
		return fmt.Sprintf("%s (%s)", i.Name(), r)
	}
	return i.Name()
}

// Details returns the item as a multi-line text block.
func (i *Item) Details() string {
	var b strings.Builder
	b.WriteString(i.Name())
	if r := i.Rarity(); r != "" {
		b.WriteString(fmt.Sprintf("\n * %s", r))
	}
	if desc := i.Description(); desc != "" {
		b.WriteString("\n\n" + desc + "\n")
	}
	return b.String()
}
