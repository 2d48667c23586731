// Package attr implements the recursive attribute graph behind generated
// items: raw nested mappings are resolved once, at construction time, into
// immutable nodes whose template placeholders ({path.to.attribute}) have been
// rendered against sibling and ancestor attributes.
package attr

import "fmt"

// Kind discriminates the variants a resolved attribute value can take.
type Kind int

const (
	// KindScalar is a non-string passthrough value (int, float64, bool, nil).
	KindScalar Kind = iota
	// KindText is a string whose placeholders, if any, have been rendered.
	KindText
	// KindNode is a nested attribute node.
	KindNode
	// KindList is a sequence of values, each resolved independently.
	KindList
)

// Value is a resolved attribute: exactly one variant is populated, selected
// by Kind. Values are immutable after resolution.
type Value struct {
	kind   Kind
	scalar any
	text   string
	node   *Node
	list   []Value
}

// Scalar wraps a non-string passthrough value.
func Scalar(v any) Value { return Value{kind: KindScalar, scalar: v} }

// Text wraps a rendered string.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// NodeValue wraps a nested node.
func NodeValue(n *Node) Value { return Value{kind: KindNode, node: n} }

// List wraps a resolved sequence.
func List(vs []Value) Value { return Value{kind: KindList, list: vs} }

// Kind returns the populated variant.
func (v Value) Kind() Kind { return v.kind }

// Text returns the string variant, or "" for other kinds.
func (v Value) Text() string { return v.text }

// Node returns the nested node variant, or nil for other kinds.
func (v Value) Node() *Node { return v.node }

// List returns the sequence variant, or nil for other kinds.
func (v Value) List() []Value { return v.list }

// Scalar returns the passthrough variant, or nil for other kinds.
func (v Value) Scalar() any { return v.scalar }

// Int returns the value as an int when the scalar variant holds an integral
// number.
func (v Value) Int() (int, bool) {
	if v.kind != KindScalar {
		return 0, false
	}
	switch n := v.scalar.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

// String renders the value for template interpolation and display: text as-is,
// scalars via %v, nodes by their name, lists comma-joined.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindScalar:
		if v.scalar == nil {
			return ""
		}
		return fmt.Sprintf("%v", v.scalar)
	case KindNode:
		if v.node == nil {
			return ""
		}
		return v.node.Name()
	case KindList:
		out := ""
		for i, elem := range v.list {
			if i > 0 {
				out += ", "
			}
			out += elem.String()
		}
		return out
	}
	return ""
}

// Truthy reports whether the value counts as set for override purposes:
// non-empty text, non-zero scalar, non-nil node, non-empty list.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindText:
		return v.text != ""
	case KindScalar:
		return rawTruthy(v.scalar)
	case KindNode:
		return v.node != nil && len(v.node.Keys()) > 0
	case KindList:
		return len(v.list) > 0
	}
	return false
}

// rawTruthy reports whether a raw (pre-resolution) value counts as set.
func rawTruthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case map[string]any:
		return len(t) > 0
	case []any:
		return len(t) > 0
	default:
		return true
	}
}
