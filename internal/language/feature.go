package language

type link struct {
	ID       string
	Key      string
	Name     string
	Owner    *Classifier
	Optional bool
	Multiple bool
	Type     *Classifier
}

// Containment is an ownership edge from a node to its children.
type Containment struct {
	link
}

// MetaPointer returns the pointer used to reference the containment from a chunk.
func (c *Containment) MetaPointer() MetaPointer {
	return featurePointer(c.Owner, c.Key)
}

// Reference is a non-owning edge to other nodes.
type Reference struct {
	link
}

// MetaPointer returns the pointer used to reference the reference from a chunk.
func (r *Reference) MetaPointer() MetaPointer {
	return featurePointer(r.Owner, r.Key)
}

// Property is a scalar slot typed by a primitive type.
type Property struct {
	ID       string
	Key      string
	Name     string
	Owner    *Classifier
	Optional bool
	Type     *PrimitiveType
}

// MetaPointer returns the pointer used to reference the property from a chunk.
func (p *Property) MetaPointer() MetaPointer {
	return featurePointer(p.Owner, p.Key)
}

func featurePointer(owner *Classifier, key string) MetaPointer {
	return MetaPointer{Language: owner.Language.Key, Version: owner.Language.Version, Key: key}
}
