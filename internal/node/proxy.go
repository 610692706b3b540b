package node

import "github.com/vk/metareg/internal/language"

// ProxyNode stands in for a node that is not materialized locally. Only its
// identity is known.
type ProxyNode struct {
	id string
}

// NewProxy returns a placeholder for the node with the given id.
func NewProxy(id string) *ProxyNode {
	return &ProxyNode{id: id}
}

// IsProxy reports whether n is a placeholder.
func IsProxy(n Node) bool {
	_, ok := n.(*ProxyNode)
	return ok
}

func (p *ProxyNode) ID() string                                           { return p.id }
func (p *ProxyNode) Parent() Node                                         { return nil }
func (p *ProxyNode) Classifier() *language.Classifier                     { return nil }
func (p *ProxyNode) Children(*language.Containment) []Node                { return nil }
func (p *ProxyNode) PropertyValue(*language.Property) any                 { return nil }
func (p *ProxyNode) ReferenceValues(*language.Reference) []ReferenceValue { return nil }
