package lioncore

import (
	"fmt"
	"sync"

	"github.com/vk/metareg/internal/language"
	"github.com/vk/metareg/internal/protocol"
)

const (
	BuiltinsKey = "LionCore-builtins"
	M3Key       = "LionCore-M3"
)

// M3Names lists the M3 classifiers present in every version.
var M3Names = []string{
	"Annotation", "Classifier", "Concept", "Containment", "DataType",
	"Enumeration", "EnumerationLiteral", "Feature", "Interface", "Language",
	"LanguageEntity", "Link", "PrimitiveType", "Property", "Reference",
}

// StructuredM3Names lists the M3 classifiers added in 2024.1.
var StructuredM3Names = []string{"StructuredDataType", "Field"}

type languages struct {
	builtins *language.Language
	m3       *language.Language
}

var (
	mu    sync.Mutex
	cache = make(map[protocol.Version]*languages)
)

func get(v protocol.Version) *languages {
	if !v.Valid() {
		panic(fmt.Sprintf("lioncore: unknown protocol version %d", int(v)))
	}
	mu.Lock()
	defer mu.Unlock()
	if ls, ok := cache[v]; ok {
		return ls
	}
	b := buildBuiltins(v)
	ls := &languages{builtins: b, m3: buildM3(v, b)}
	cache[v] = ls
	return ls
}

// Builtins returns the builtins language of v.
func Builtins(v protocol.Version) *language.Language { return get(v).builtins }

// M3 returns the M3 language of v.
func M3(v protocol.Version) *language.Language { return get(v).m3 }

// Node returns the builtin Node concept.
func Node(v protocol.Version) *language.Classifier { return mustClassifier(Builtins(v), "Node") }

// INamed returns the builtin INamed interface.
func INamed(v protocol.Version) *language.Classifier { return mustClassifier(Builtins(v), "INamed") }

// String returns the builtin String primitive type.
func String(v protocol.Version) *language.PrimitiveType { return mustPrimitive(Builtins(v), "String") }

// Integer returns the builtin Integer primitive type.
func Integer(v protocol.Version) *language.PrimitiveType {
	return mustPrimitive(Builtins(v), "Integer")
}

// Boolean returns the builtin Boolean primitive type.
func Boolean(v protocol.Version) *language.PrimitiveType {
	return mustPrimitive(Builtins(v), "Boolean")
}

// JSON returns the builtin JSON primitive type, which only 2023.1 has.
func JSON(v protocol.Version) (*language.PrimitiveType, bool) {
	return Builtins(v).PrimitiveTypeByName("JSON")
}

// M3Classifier returns the M3 classifier with the given name.
func M3Classifier(v protocol.Version, name string) (*language.Classifier, bool) {
	return M3(v).ClassifierByName(name)
}

func mustClassifier(l *language.Language, name string) *language.Classifier {
	c, ok := l.ClassifierByName(name)
	if !ok {
		panic(fmt.Sprintf("lioncore: %s has no classifier %s", l.Key, name))
	}
	return c
}

func mustPrimitive(l *language.Language, name string) *language.PrimitiveType {
	pt, ok := l.PrimitiveTypeByName(name)
	if !ok {
		panic(fmt.Sprintf("lioncore: %s has no primitive type %s", l.Key, name))
	}
	return pt
}

// idSuffix is appended to ids from 2024.1 on, e.g. "-2024-1".
func idSuffix(v protocol.Version) string {
	if v == protocol.V2023_1 {
		return ""
	}
	s := []byte(v.String())
	for i := range s {
		if s[i] == '.' {
			s[i] = '-'
		}
	}
	return "-" + string(s)
}
