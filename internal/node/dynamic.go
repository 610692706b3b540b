package node

import (
	"fmt"
	"slices"

	"github.com/vk/metareg/internal/language"
)

// DynamicNode is a generic node storing its features in maps keyed by the
// feature id. The zero value is not usable; use NewDynamic.
type DynamicNode struct {
	id         string
	parent     Node
	classifier *language.Classifier

	properties   map[string]any
	containments map[string][]Node
	references   map[string][]ReferenceValue
}

// NewDynamic returns an empty node of the given classifier.
func NewDynamic(id string, c *language.Classifier) *DynamicNode {
	return &DynamicNode{
		id:           id,
		classifier:   c,
		properties:   make(map[string]any),
		containments: make(map[string][]Node),
		references:   make(map[string][]ReferenceValue),
	}
}

func (d *DynamicNode) ID() string                       { return d.id }
func (d *DynamicNode) SetID(id string)                  { d.id = id }
func (d *DynamicNode) Classifier() *language.Classifier { return d.classifier }

// SetClassifier replaces the classifier. Host types that embed DynamicNode
// use it when the classifier is only known after construction.
func (d *DynamicNode) SetClassifier(c *language.Classifier) { d.classifier = c }

// Parent returns the containing node. A nil parent is returned as a nil
// interface so callers can compare against nil.
func (d *DynamicNode) Parent() Node {
	if d.parent == nil {
		return nil
	}
	return d.parent
}

// SetParent changes the back-reference only; it does not move the node
// between containments.
func (d *DynamicNode) SetParent(p Node) { d.parent = p }

func (d *DynamicNode) Children(c *language.Containment) []Node {
	return slices.Clone(d.containments[c.ID])
}

// AddChild appends child to the containment and points its parent at d when
// the child supports it. Adding to a single-valued containment replaces the
// previous child.
func (d *DynamicNode) AddChild(c *language.Containment, child Node) error {
	if child == nil {
		return fmt.Errorf("cannot add nil child to containment %s", c.Name)
	}
	if c.Multiple {
		d.containments[c.ID] = append(d.containments[c.ID], child)
	} else {
		d.containments[c.ID] = []Node{child}
	}
	if ps, ok := child.(interface{ SetParent(Node) }); ok {
		ps.SetParent(d)
	}
	return nil
}

// RemoveChild removes every occurrence of child from the containment.
func (d *DynamicNode) RemoveChild(c *language.Containment, child Node) {
	d.containments[c.ID] = slices.DeleteFunc(d.containments[c.ID], func(n Node) bool { return n == child })
}

func (d *DynamicNode) PropertyValue(p *language.Property) any {
	return d.properties[p.ID]
}

// SetPropertyValue stores v; a nil v clears the property.
func (d *DynamicNode) SetPropertyValue(p *language.Property, v any) {
	if v == nil {
		delete(d.properties, p.ID)
		return
	}
	d.properties[p.ID] = v
}

func (d *DynamicNode) ReferenceValues(r *language.Reference) []ReferenceValue {
	return slices.Clone(d.references[r.ID])
}

// AddReferenceValue appends a target to the reference.
func (d *DynamicNode) AddReferenceValue(r *language.Reference, v ReferenceValue) {
	if r.Multiple {
		d.references[r.ID] = append(d.references[r.ID], v)
	} else {
		d.references[r.ID] = []ReferenceValue{v}
	}
}
