package serialization

import "github.com/vk/metareg/internal/language"

// Chunk is the unit of serialization: a flat list of nodes plus the
// languages they use.
type Chunk struct {
	SerializationFormatVersion string            `json:"serializationFormatVersion"`
	Languages                  []UsedLanguage    `json:"languages"`
	Nodes                      []*SerializedNode `json:"nodes"`
}

// UsedLanguage names a language a chunk depends on.
type UsedLanguage struct {
	Key     string `json:"key"`
	Version string `json:"version"`
}

// SerializedNode is the flat form of a node. ID is a pointer because the
// absence of an id must be distinguishable from an empty one.
type SerializedNode struct {
	ID           *string                 `json:"id"`
	Classifier   language.MetaPointer    `json:"classifier"`
	Properties   []SerializedProperty    `json:"properties"`
	Containments []SerializedContainment `json:"containments"`
	References   []SerializedReference   `json:"references"`
	Annotations  []string                `json:"annotations"`
	Parent       *string                 `json:"parent"`
}

// NodeID returns the id and whether it is present.
func (n *SerializedNode) NodeID() (string, bool) {
	if n.ID == nil {
		return "", false
	}
	return *n.ID, true
}

type SerializedProperty struct {
	Property language.MetaPointer `json:"property"`
	Value    *string              `json:"value"`
}

type SerializedContainment struct {
	Containment language.MetaPointer `json:"containment"`
	Children    []string             `json:"children"`
}

type SerializedReference struct {
	Reference language.MetaPointer        `json:"reference"`
	Targets   []SerializedReferenceTarget `json:"targets"`
}

type SerializedReferenceTarget struct {
	ResolveInfo *string `json:"resolveInfo"`
	Reference   *string `json:"reference"`
}

func strPtr(s string) *string { return &s }
