package lioncore

import (
	"github.com/vk/metareg/internal/language"
	"github.com/vk/metareg/internal/protocol"
)

func buildM3(v protocol.Version, builtins *language.Language) *language.Language {
	sfx := idSuffix(v)
	id := func(key string) string { return "-id-" + key + sfx }

	named, _ := builtins.ClassifierByName("INamed")
	boolean, _ := builtins.PrimitiveTypeByName("Boolean")
	str, _ := builtins.PrimitiveTypeByName("String")

	l := language.New(v, "-id-LionCore-M3"+sfx, M3Key, "LionCore_M3", v.String())
	concept := func(name string, extends *language.Classifier, abstract bool) *language.Classifier {
		c := l.NewConcept(id(name), name, name)
		c.Extends = extends
		c.Abstract = abstract
		return c
	}

	entity := concept("LanguageEntity", nil, true)
	entity.Implements = []*language.Classifier{named}

	classifier := concept("Classifier", entity, true)
	concept("Annotation", classifier, false)
	concept("Concept", classifier, false)
	concept("Interface", classifier, false)

	dataType := concept("DataType", entity, true)
	concept("PrimitiveType", dataType, false)
	enumeration := concept("Enumeration", dataType, false)
	literal := concept("EnumerationLiteral", nil, false)
	literal.Implements = []*language.Classifier{named}

	feature := concept("Feature", nil, true)
	feature.Implements = []*language.Classifier{named}
	feature.AddProperty(id("Feature-optional"), "Feature-optional", "optional", boolean, false)
	concept("Property", feature, false)
	link := concept("Link", feature, true)
	link.AddProperty(id("Link-multiple"), "Link-multiple", "multiple", boolean, false)
	concept("Containment", link, false)
	concept("Reference", link, false)

	lang := concept("Language", nil, false)
	lang.Implements = []*language.Classifier{named}
	lang.AddProperty(id("Language-version"), "Language-version", "version", str, false)
	lang.AddContainment(id("Language-entities"), "Language-entities", "entities", entity, true, true)

	classifier.AddContainment(id("Classifier-features"), "Classifier-features", "features", feature, true, true)
	enumeration.AddContainment(id("Enumeration-literals"), "Enumeration-literals", "literals", literal, true, true)

	if v.SupportsStructuredDataTypes() {
		sdt := concept("StructuredDataType", dataType, false)
		field := concept("Field", nil, false)
		field.Implements = []*language.Classifier{named}
		sdt.AddContainment(id("StructuredDataType-fields"), "StructuredDataType-fields", "fields", field, true, false)
	}
	return l
}
