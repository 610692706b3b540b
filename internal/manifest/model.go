package manifest

import "github.com/vk/metareg/internal/language"

// Model is the format-agnostic result of loading manifests.
type Model struct {
	Languages []*LanguageDef
}

// Merge appends the languages of other.
func (m *Model) Merge(other *Model) {
	if other == nil {
		return
	}
	m.Languages = append(m.Languages, other.Languages...)
}

// LanguageDef declares one language.
type LanguageDef struct {
	Key     string
	ID      string
	Name    string
	Version string
	// Protocol is a protocol version such as "2024.1". Empty means the
	// registry's default version.
	Protocol string

	Primitives  []*PrimitiveDef
	Classifiers []*ClassifierDef

	// Source is the file the definition came from, for error messages.
	Source string
}

// PrimitiveDef declares a primitive type.
type PrimitiveDef struct {
	Name string
	ID   string
	Key  string
	Tag  string
	// Codec names one of the codecs of package primitives.
	Codec string
}

// ClassifierDef declares a concept, interface or annotation.
type ClassifierDef struct {
	Kind       language.Kind
	Name       string
	ID         string
	Key        string
	Tag        string
	Abstract   bool
	Extends    string
	Implements []string
	Annotates  string
	// Instantiable is nil when the manifest does not say, which counts as
	// true for concrete concepts and annotations.
	Instantiable *bool

	Containments []*LinkDef
	References   []*LinkDef
	Properties   []*PropertyDef
}

// LinkDef declares a containment or a reference.
type LinkDef struct {
	Name     string
	Type     string
	Multiple bool
	Optional bool
}

// PropertyDef declares a property.
type PropertyDef struct {
	Name     string
	Type     string
	Optional bool
}
