package attr

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

const (
	nameKey        = "name"
	propertiesKey  = "properties"
	selfSegment    = "self"
	overridePrefix = "override_"
)

// placeholderRE matches template placeholders of the form {path.to.attribute}.
var placeholderRE = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z0-9_]+)*)\}`)

// Resolve turns a raw nested mapping into an immutable Node graph.
//
// Resolution order:
//  1. The reserved "properties" sub-mapping is set aside.
//  2. override_<attr> directives found inside properties replace the item's
//     raw <attr> values outright, before any rendering. Properties are walked
//     in lexicographic name order, so when two properties override the same
//     attribute the lexicographically last one wins.
//  3. Remaining attributes are rendered: attributes whose raw value contains
//     no placeholder first, then templated ones, each class in lexicographic
//     key order. This is a best-effort syntactic heuristic, not a dependency
//     sort; chains of three or more interdependent templated attributes are
//     not guaranteed to resolve.
//  4. Nested mappings and sequences recurse, with placeholder lookup walking
//     the enclosing scopes outward.
//  5. Properties resolve last, seeing every top-level attribute plus a
//     "self." segment for the property being rendered.
//  6. The reserved "name" key is extracted into Node.Name().
//
// Postcondition: the returned Node is fully rendered and read-only; any
// unresolvable placeholder yields a *MissingAttributeError.
func Resolve(raw map[string]any) (*Node, error) {
	work := make(map[string]any, len(raw))
	for k, v := range raw {
		work[k] = v
	}

	propsRaw := popProperties(work)
	applyOverrides(work, propsRaw)

	root := newNode("")
	if err := resolveInto(root, work, nil); err != nil {
		return nil, err
	}

	if propsRaw != nil {
		props := newNode(propertiesKey)
		for _, propName := range sortedKeys(propsRaw) {
			propMap, ok := propsRaw[propName].(map[string]any)
			if !ok {
				return nil, fmt.Errorf("attr: property %q must be a mapping, got %T", propName, propsRaw[propName])
			}
			pn := newNode(propName)
			if err := resolveInto(pn, propMap, []*Node{root}); err != nil {
				return nil, err
			}
			props.set(propName, NodeValue(pn))
		}
		root.set(propertiesKey, NodeValue(props))
	}

	if v, ok := root.Get(nameKey); ok {
		root.name = v.String()
		root.delete(nameKey)
	}
	return root, nil
}

// popProperties removes and returns the raw properties sub-mapping, or nil.
func popProperties(work map[string]any) map[string]any {
	p, ok := work[propertiesKey]
	if !ok {
		return nil
	}
	delete(work, propertiesKey)
	props, _ := p.(map[string]any)
	return props
}

// applyOverrides copies truthy override_<attr> property fields over the
// item's raw attributes, as if the caller had supplied those values directly.
func applyOverrides(work map[string]any, propsRaw map[string]any) {
	for _, propName := range sortedKeys(propsRaw) {
		prop, ok := propsRaw[propName].(map[string]any)
		if !ok {
			continue
		}
		for _, key := range sortedKeys(prop) {
			if !strings.HasPrefix(key, overridePrefix) {
				continue
			}
			target := strings.TrimPrefix(key, overridePrefix)
			if target == "" || !rawTruthy(prop[key]) {
				continue
			}
			work[target] = prop[key]
		}
	}
}

// resolveInto resolves raw into node. ancestors is the enclosing scope chain,
// innermost first; placeholder lookup tries the node being built, then each
// ancestor outward.
func resolveInto(node *Node, raw map[string]any, ancestors []*Node) error {
	chain := append([]*Node{node}, ancestors...)

	plain, templated := partitionKeys(raw)
	for _, key := range plain {
		v, err := resolveValue(raw[key], chain)
		if err != nil {
			return err
		}
		node.set(key, v)
	}
	for _, key := range templated {
		rendered, err := renderString(raw[key].(string), chain)
		if err != nil {
			return err
		}
		node.set(key, Text(rendered))
	}
	return nil
}

// partitionKeys splits the mapping's keys into those whose raw value contains
// no placeholder and those whose value is a templated string, each sorted.
func partitionKeys(raw map[string]any) (plain, templated []string) {
	for key, v := range raw {
		if s, ok := v.(string); ok && placeholderRE.MatchString(s) {
			templated = append(templated, key)
			continue
		}
		plain = append(plain, key)
	}
	sort.Strings(plain)
	sort.Strings(templated)
	return plain, templated
}

// resolveValue converts one raw value into a resolved Value, recursing into
// nested mappings and sequences.
func resolveValue(raw any, chain []*Node) (Value, error) {
	switch t := raw.(type) {
	case map[string]any:
		child := newNode("")
		if err := resolveInto(child, t, chain); err != nil {
			return Value{}, err
		}
		// Only the top-level item extracts its reserved name key; nested
		// nodes keep "name" addressable so templates like {spell.name} work.
		if v, ok := child.Get(nameKey); ok {
			child.name = v.String()
		}
		return NodeValue(child), nil
	case []any:
		elems := make([]Value, 0, len(t))
		for _, e := range t {
			v, err := resolveValue(e, chain)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, v)
		}
		return List(elems), nil
	case string:
		rendered, err := renderString(t, chain)
		if err != nil {
			return Value{}, err
		}
		return Text(rendered), nil
	default:
		return Scalar(t), nil
	}
}

// renderString replaces every placeholder in s with the rendered value of the
// referenced attribute, looked up through the scope chain.
func renderString(s string, chain []*Node) (string, error) {
	matches := placeholderRE.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, nil
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		path := s[m[2]:m[3]]
		v, ok := lookupPath(chain, path)
		if !ok {
			return "", &MissingAttributeError{Path: path, Template: s}
		}
		b.WriteString(v.String())
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String(), nil
}

// lookupPath resolves a dotted placeholder path against the scope chain. A
// leading "self." segment restricts the lookup to the innermost scope (the
// object currently being rendered).
func lookupPath(chain []*Node, path string) (Value, bool) {
	segs := strings.Split(path, ".")
	if segs[0] == selfSegment {
		if len(chain) == 0 || len(segs) < 2 {
			return Value{}, false
		}
		return chain[0].lookupSegments(segs[1:])
	}
	for _, n := range chain {
		if v, ok := n.lookupSegments(segs); ok {
			return v, true
		}
	}
	return Value{}, false
}

// Requirements scans every template string in the raw mapping (properties
// included) and returns, sorted, the first path segments that are not present
// among the mapping's top-level keys. Each such requirement must be satisfied
// by a generator-registered provider before resolution.
func Requirements(raw map[string]any) []string {
	seen := make(map[string]bool)
	scanStrings(raw, func(s string) {
		for _, m := range placeholderRE.FindAllStringSubmatch(s, -1) {
			seg, _, _ := strings.Cut(m[1], ".")
			if seg != selfSegment {
				seen[seg] = true
			}
		}
	})

	var missing []string
	for seg := range seen {
		if _, ok := raw[seg]; !ok {
			missing = append(missing, seg)
		}
	}
	sort.Strings(missing)
	return missing
}

func scanStrings(raw any, visit func(string)) {
	switch t := raw.(type) {
	case string:
		visit(t)
	case map[string]any:
		for _, v := range t {
			scanStrings(v, visit)
		}
	case []any:
		for _, v := range t {
			scanStrings(v, visit)
		}
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
