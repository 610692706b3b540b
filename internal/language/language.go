package language

import (
	"fmt"

	"github.com/vk/metareg/internal/protocol"
)

// MetaPointer addresses an M3 element inside a serialized chunk.
type MetaPointer struct {
	Language string `json:"language"`
	Version  string `json:"version"`
	Key      string `json:"key"`
}

func (m MetaPointer) String() string {
	return fmt.Sprintf("%s@%s#%s", m.Language, m.Version, m.Key)
}

// Language groups classifiers and primitive types under one key and version.
type Language struct {
	ID       string
	Key      string
	Name     string
	Version  string
	Protocol protocol.Version

	Classifiers    []*Classifier
	PrimitiveTypes []*PrimitiveType
}

// New creates an empty language for the given protocol version.
func New(pv protocol.Version, id, key, name, version string) *Language {
	return &Language{ID: id, Key: key, Name: name, Version: version, Protocol: pv}
}

// NewConcept declares a concept in the language.
func (l *Language) NewConcept(id, key, name string) *Classifier {
	return l.addClassifier(KindConcept, id, key, name)
}

// NewInterface declares an interface in the language.
func (l *Language) NewInterface(id, key, name string) *Classifier {
	return l.addClassifier(KindInterface, id, key, name)
}

// NewAnnotation declares an annotation in the language.
func (l *Language) NewAnnotation(id, key, name string) *Classifier {
	return l.addClassifier(KindAnnotation, id, key, name)
}

func (l *Language) addClassifier(kind Kind, id, key, name string) *Classifier {
	c := &Classifier{ID: id, Key: key, Name: name, Kind: kind, Language: l}
	l.Classifiers = append(l.Classifiers, c)
	return c
}

// NewPrimitiveType declares a primitive type in the language.
func (l *Language) NewPrimitiveType(id, key, name string) *PrimitiveType {
	pt := &PrimitiveType{ID: id, Key: key, Name: name, Language: l}
	l.PrimitiveTypes = append(l.PrimitiveTypes, pt)
	return pt
}

// ClassifierByName returns the classifier with the given name, if any.
func (l *Language) ClassifierByName(name string) (*Classifier, bool) {
	for _, c := range l.Classifiers {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// PrimitiveTypeByName returns the primitive type with the given name, if any.
func (l *Language) PrimitiveTypeByName(name string) (*PrimitiveType, bool) {
	for _, pt := range l.PrimitiveTypes {
		if pt.Name == name {
			return pt, true
		}
	}
	return nil, false
}

// PrimitiveType is a scalar data type.
type PrimitiveType struct {
	ID       string
	Key      string
	Name     string
	Language *Language
}

// Version returns the protocol version of the owning language.
func (p *PrimitiveType) Version() protocol.Version {
	return p.Language.Protocol
}

// MetaPointer returns the pointer used to reference p from a chunk.
func (p *PrimitiveType) MetaPointer() MetaPointer {
	return MetaPointer{Language: p.Language.Key, Version: p.Language.Version, Key: p.Key}
}

func (p *PrimitiveType) String() string {
	return fmt.Sprintf("PrimitiveType(%s, %s)", p.Name, p.Version())
}
