package language

import (
	"fmt"

	"github.com/vk/metareg/internal/protocol"
)

// Kind distinguishes the three classifier flavours.
type Kind int

const (
	KindConcept Kind = iota
	KindInterface
	KindAnnotation
)

func (k Kind) String() string {
	switch k {
	case KindConcept:
		return "concept"
	case KindInterface:
		return "interface"
	case KindAnnotation:
		return "annotation"
	default:
		return "unknown"
	}
}

// Classifier describes the type of a node.
type Classifier struct {
	ID       string
	Key      string
	Name     string
	Kind     Kind
	Abstract bool
	Language *Language

	// Extends is the super concept or super annotation. Interfaces use
	// Implements for their super interfaces.
	Extends    *Classifier
	Implements []*Classifier
	// Annotates is only meaningful for annotations.
	Annotates *Classifier

	Containments []*Containment
	Properties   []*Property
	References   []*Reference
}

// Version returns the protocol version of the owning language.
func (c *Classifier) Version() protocol.Version {
	return c.Language.Protocol
}

// MetaPointer returns the pointer used to reference c from a chunk.
func (c *Classifier) MetaPointer() MetaPointer {
	return MetaPointer{Language: c.Language.Key, Version: c.Language.Version, Key: c.Key}
}

func (c *Classifier) IsConcept() bool    { return c.Kind == KindConcept }
func (c *Classifier) IsInterface() bool  { return c.Kind == KindInterface }
func (c *Classifier) IsAnnotation() bool { return c.Kind == KindAnnotation }

func (c *Classifier) String() string {
	return fmt.Sprintf("%s(%s, %s)", c.Kind, c.Name, c.Version())
}

// AddContainment declares a containment on c and returns it.
func (c *Classifier) AddContainment(id, key, name string, target *Classifier, multiple, optional bool) *Containment {
	ct := &Containment{link: link{ID: id, Key: key, Name: name, Owner: c, Optional: optional, Multiple: multiple, Type: target}}
	c.Containments = append(c.Containments, ct)
	return ct
}

// AddReference declares a reference on c and returns it.
func (c *Classifier) AddReference(id, key, name string, target *Classifier, multiple, optional bool) *Reference {
	r := &Reference{link: link{ID: id, Key: key, Name: name, Owner: c, Optional: optional, Multiple: multiple, Type: target}}
	c.References = append(c.References, r)
	return r
}

// AddProperty declares a property on c and returns it.
func (c *Classifier) AddProperty(id, key, name string, typ *PrimitiveType, optional bool) *Property {
	p := &Property{ID: id, Key: key, Name: name, Owner: c, Optional: optional, Type: typ}
	c.Properties = append(c.Properties, p)
	return p
}

// supertypes returns the direct supertypes in declaration order.
func (c *Classifier) supertypes() []*Classifier {
	var out []*Classifier
	if c.Extends != nil {
		out = append(out, c.Extends)
	}
	return append(out, c.Implements...)
}

// walk visits c and then every supertype once, depth first.
func (c *Classifier) walk(visit func(*Classifier)) {
	seen := make(map[*Classifier]struct{})
	var rec func(*Classifier)
	rec = func(k *Classifier) {
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		visit(k)
		for _, s := range k.supertypes() {
			rec(s)
		}
	}
	rec(c)
}

// AllContainments returns the containments declared by c followed by the
// inherited ones. Inheritance cycles are tolerated.
func (c *Classifier) AllContainments() []*Containment {
	var out []*Containment
	c.walk(func(k *Classifier) { out = append(out, k.Containments...) })
	return out
}

// AllProperties returns own and inherited properties.
func (c *Classifier) AllProperties() []*Property {
	var out []*Property
	c.walk(func(k *Classifier) { out = append(out, k.Properties...) })
	return out
}

// AllReferences returns own and inherited references.
func (c *Classifier) AllReferences() []*Reference {
	var out []*Reference
	c.walk(func(k *Classifier) { out = append(out, k.References...) })
	return out
}

// IsSubtypeOf reports whether other is c or one of its transitive supertypes.
func (c *Classifier) IsSubtypeOf(other *Classifier) bool {
	found := false
	c.walk(func(k *Classifier) {
		if k == other {
			found = true
		}
	})
	return found
}
