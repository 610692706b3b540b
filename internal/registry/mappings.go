package registry

import (
	"slices"
	"strings"

	"github.com/vk/metareg/internal/protocol"
)

// MappingKind tells classifier mappings from primitive type mappings.
type MappingKind string

const (
	MappingClassifier MappingKind = "classifier"
	MappingPrimitive  MappingKind = "primitive"
)

// Mapping is a read-only view of one registration, for diagnostics.
type Mapping struct {
	Tag      TypeTag
	Kind     MappingKind
	Name     string
	ID       string
	Language string

	// Instantiated is set for classifier mappings that PrepareInstantiator
	// turns into a factory.
	Instantiated bool
	// HasCodec is set for primitive mappings with both codec directions.
	HasCodec bool
}

// Mappings returns every mapping registered under v, sorted by kind and tag.
func (r *Registry) Mappings(v protocol.Version) []Mapping {
	var out []Mapping
	for tag, c := range r.classifiers[v] {
		_, hasCtor := r.constructor(v, tag)
		out = append(out, Mapping{
			Tag:          tag,
			Kind:         MappingClassifier,
			Name:         c.Name,
			ID:           c.ID,
			Language:     c.Language.Key,
			Instantiated: hasCtor && !r.IsExcluded(c),
		})
	}
	for tag, pt := range r.primitiveTypes[v] {
		_, ser := r.serializers[pt]
		_, deser := r.deserializers[pt]
		out = append(out, Mapping{
			Tag:      tag,
			Kind:     MappingPrimitive,
			Name:     pt.Name,
			ID:       pt.ID,
			Language: pt.Language.Key,
			HasCodec: ser && deser,
		})
	}
	slices.SortFunc(out, func(a, b Mapping) int {
		if a.Kind != b.Kind {
			return strings.Compare(string(a.Kind), string(b.Kind))
		}
		return strings.Compare(string(a.Tag), string(b.Tag))
	})
	return out
}
