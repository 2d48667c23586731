package attr

import "strings"

// Node is an immutable resolved attribute mapping. The reserved "name" key is
// extracted at resolution time and exposed only through Name(); it is not
// retrievable through Get or Lookup.
//
// Invariant: after Resolve returns, no further rendering or mutation occurs.
type Node struct {
	name  string
	keys  []string
	attrs map[string]Value
}

func newNode(name string) *Node {
	return &Node{name: name, attrs: make(map[string]Value)}
}

func (n *Node) set(key string, v Value) {
	if _, exists := n.attrs[key]; !exists {
		n.keys = append(n.keys, key)
	}
	n.attrs[key] = v
}

func (n *Node) delete(key string) {
	if _, exists := n.attrs[key]; !exists {
		return
	}
	delete(n.attrs, key)
	for i, k := range n.keys {
		if k == key {
			n.keys = append(n.keys[:i], n.keys[i+1:]...)
			break
		}
	}
}

// Name returns the node's extracted name.
func (n *Node) Name() string { return n.name }

// Keys returns the attribute keys in resolution order.
func (n *Node) Keys() []string {
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

// Has reports whether the node carries the given attribute.
func (n *Node) Has(key string) bool {
	_, ok := n.attrs[key]
	return ok
}

// Get returns the attribute stored under a single key.
func (n *Node) Get(key string) (Value, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

// Lookup resolves a dotted path ("rarity.rarity", "spell.name") through
// nested nodes.
func (n *Node) Lookup(path string) (Value, bool) {
	return n.lookupSegments(strings.Split(path, "."))
}

func (n *Node) lookupSegments(segs []string) (Value, bool) {
	if len(segs) == 0 {
		return Value{}, false
	}
	v, ok := n.Get(segs[0])
	if !ok {
		return Value{}, false
	}
	for _, seg := range segs[1:] {
		if v.Kind() != KindNode || v.Node() == nil {
			return Value{}, false
		}
		v, ok = v.Node().Get(seg)
		if !ok {
			return Value{}, false
		}
	}
	return v, true
}

// Properties returns the reserved properties sub-node, or nil when the item
// has none. Each attribute of the returned node is itself a property node.
func (n *Node) Properties() *Node {
	v, ok := n.Get(propertiesKey)
	if !ok || v.Kind() != KindNode {
		return nil
	}
	return v.Node()
}
