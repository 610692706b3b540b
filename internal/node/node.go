package node

import "github.com/vk/metareg/internal/language"

// Node is a vertex of a model tree.
type Node interface {
	// ID returns the identity of the node, unique within a tree. The empty
	// string means the node has no identity yet.
	ID() string
	// Parent returns the containing node, or nil for a root.
	Parent() Node
	Classifier() *language.Classifier
	// Children returns the nodes held by the containment, in order.
	Children(c *language.Containment) []Node
	PropertyValue(p *language.Property) any
	ReferenceValues(r *language.Reference) []ReferenceValue
}

// IDSetter is implemented by nodes whose identity can be assigned after
// construction.
type IDSetter interface {
	SetID(id string)
}

// ReferenceValue is a single target of a reference.
type ReferenceValue struct {
	// Target may be nil when only ResolveInfo is known.
	Target      Node
	ResolveInfo string
}

// TargetID returns the id of the target, or "" if there is none.
func (r ReferenceValue) TargetID() string {
	if r.Target == nil {
		return ""
	}
	return r.Target.ID()
}

// Root follows parent pointers up to the topmost local node. The walk stops
// below a proxy parent and at the first repeated node of a parent cycle.
func Root(n Node) Node {
	seen := map[Node]struct{}{n: {}}
	for {
		p := n.Parent()
		if p == nil || IsProxy(p) {
			return n
		}
		if _, ok := seen[p]; ok {
			return n
		}
		seen[p] = struct{}{}
		n = p
	}
}

// AllChildren returns the children of n across every containment its
// classifier declares or inherits. Proxies have no children.
func AllChildren(n Node) []Node {
	if IsProxy(n) || n.Classifier() == nil {
		return nil
	}
	var out []Node
	for _, c := range n.Classifier().AllContainments() {
		out = append(out, n.Children(c)...)
	}
	return out
}
