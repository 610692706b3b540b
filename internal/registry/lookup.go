package registry

import (
	"github.com/vk/metareg/internal/language"
	"github.com/vk/metareg/internal/protocol"
)

// ClassifierOf returns the classifier mapped to tag under v.
func (r *Registry) ClassifierOf(tag TypeTag, v protocol.Version) (*language.Classifier, bool) {
	c, ok := r.classifiers[v][tag]
	return c, ok
}

// PrimitiveTypeOf returns the primitive type mapped to tag under v.
func (r *Registry) PrimitiveTypeOf(tag TypeTag, v protocol.Version) (*language.PrimitiveType, bool) {
	pt, ok := r.primitiveTypes[v][tag]
	return pt, ok
}

// ConceptOf is ClassifierOf restricted to concepts. A mapping to another
// kind of classifier is reported as absent.
func (r *Registry) ConceptOf(tag TypeTag, v protocol.Version) (*language.Classifier, bool) {
	c, ok := r.ClassifierOf(tag, v)
	if !ok || !c.IsConcept() {
		return nil, false
	}
	return c, true
}

// AnnotationOf is ClassifierOf restricted to annotations.
func (r *Registry) AnnotationOf(tag TypeTag, v protocol.Version) (*language.Classifier, bool) {
	c, ok := r.ClassifierOf(tag, v)
	if !ok || !c.IsAnnotation() {
		return nil, false
	}
	return c, true
}

func (r *Registry) Classifier(tag TypeTag) (*language.Classifier, bool) {
	return r.ClassifierOf(tag, r.DefaultVersion())
}

func (r *Registry) PrimitiveType(tag TypeTag) (*language.PrimitiveType, bool) {
	return r.PrimitiveTypeOf(tag, r.DefaultVersion())
}

func (r *Registry) Concept(tag TypeTag) (*language.Classifier, bool) {
	return r.ConceptOf(tag, r.DefaultVersion())
}

func (r *Registry) Annotation(tag TypeTag) (*language.Classifier, bool) {
	return r.AnnotationOf(tag, r.DefaultVersion())
}
