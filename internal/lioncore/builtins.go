package lioncore

import (
	"github.com/vk/metareg/internal/language"
	"github.com/vk/metareg/internal/protocol"
)

func buildBuiltins(v protocol.Version) *language.Language {
	sfx := idSuffix(v)
	id := func(name string) string { return BuiltinsKey + "-" + name + sfx }
	key := func(name string) string { return BuiltinsKey + "-" + name }

	l := language.New(v, BuiltinsKey+sfx, BuiltinsKey, "LionCore_builtins", v.String())
	str := l.NewPrimitiveType(id("String"), key("String"), "String")
	l.NewPrimitiveType(id("Integer"), key("Integer"), "Integer")
	l.NewPrimitiveType(id("Boolean"), key("Boolean"), "Boolean")
	if v == protocol.V2023_1 {
		l.NewPrimitiveType(id("JSON"), key("JSON"), "JSON")
	}

	named := l.NewInterface(id("INamed"), key("INamed"), "INamed")
	named.AddProperty(id("INamed-name"), key("INamed-name"), "name", str, false)

	node := l.NewConcept(id("Node"), key("Node"), "Node")
	node.Abstract = true
	return l
}
