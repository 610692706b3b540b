package manifest

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vk/metareg/internal/ctxlog"
	"github.com/vk/metareg/internal/language"
	"github.com/vk/metareg/internal/lioncore"
	"github.com/vk/metareg/internal/node"
	"github.com/vk/metareg/internal/nodeid"
	"github.com/vk/metareg/internal/primitives"
	"github.com/vk/metareg/internal/protocol"
	"github.com/vk/metareg/internal/registry"
)

// ErrInvalidManifest is wrapped by every error Apply reports for a
// malformed definition.
var ErrInvalidManifest = errors.New("invalid manifest")

// languageBuilder turns one LanguageDef into a language.Language.
type languageBuilder struct {
	def         *LanguageDef
	version     protocol.Version
	lang        *language.Language
	classifiers []*language.Classifier // parallel to def.Classifiers
	primitives  []*language.PrimitiveType
}

// Apply builds the languages of model and registers the tagged classifiers
// and primitive types in reg. constructors supplies application node types
// by tag; tagged concrete classifiers without one are instantiated as
// node.DynamicNode.
//
// Type names resolve in the declaring language, then in the builtins and
// M3 of the same protocol version. A name of the form "key.Name" refers to
// another language of the model with the same protocol version.
func Apply(ctx context.Context, reg *registry.Registry, model *Model, constructors map[registry.TypeTag]registry.Constructor) ([]*language.Language, error) {
	logger := ctxlog.FromContext(ctx)
	if model == nil {
		return nil, nil
	}

	builders := make([]*languageBuilder, 0, len(model.Languages))
	declared := make(map[string]string)
	for _, def := range model.Languages {
		b, err := declare(def, reg.DefaultVersion())
		if err != nil {
			return nil, err
		}
		ident := fmt.Sprintf("%s@%s/%s", def.Key, def.Version, b.version)
		if prev, dup := declared[ident]; dup {
			return nil, b.errorf("declared twice (first in %s)", prev)
		}
		declared[ident] = b.location()
		builders = append(builders, b)
	}

	for _, b := range builders {
		if err := b.resolve(builders); err != nil {
			return nil, err
		}
	}

	langs := make([]*language.Language, 0, len(builders))
	for _, b := range builders {
		count, err := b.register(reg, constructors)
		if err != nil {
			return nil, err
		}
		logger.Debug("Applied language manifest.",
			"language", b.lang.Key,
			"version", b.lang.Version,
			"protocol", b.version.String(),
			"mappings", count,
			"source", b.def.Source,
		)
		langs = append(langs, b.lang)
	}
	return langs, nil
}

func (b *languageBuilder) location() string {
	return cmp.Or(b.def.Source, "<memory>")
}

func (b *languageBuilder) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s: language %q: %s", ErrInvalidManifest, b.location(), b.def.Key, fmt.Sprintf(format, args...))
}

// declare creates the language with its classifiers and primitive types,
// leaving every cross reference unresolved.
func declare(def *LanguageDef, fallback protocol.Version) (*languageBuilder, error) {
	b := &languageBuilder{def: def, version: fallback}
	if def.Key == "" {
		return nil, b.errorf("key is required")
	}
	if def.Version == "" {
		return nil, b.errorf("version is required")
	}
	if def.Protocol != "" {
		v, err := protocol.Parse(def.Protocol)
		if err != nil {
			return nil, b.errorf("%v", err)
		}
		b.version = v
	}

	id := cmp.Or(def.ID, def.Key)
	if err := nodeid.Validate(id); err != nil {
		return nil, b.errorf("%v", err)
	}
	b.lang = language.New(b.version, id, def.Key, cmp.Or(def.Name, def.Key), def.Version)

	names := make(map[string]bool)
	claim := func(name string) error {
		if name == "" {
			return b.errorf("element without name")
		}
		if names[name] {
			return b.errorf("name %q declared twice", name)
		}
		names[name] = true
		return nil
	}

	for _, p := range def.Primitives {
		if err := claim(p.Name); err != nil {
			return nil, err
		}
		pid := cmp.Or(p.ID, nodeid.Derive(def.Key, p.Name))
		if err := nodeid.Validate(pid); err != nil {
			return nil, b.errorf("primitive %s: %v", p.Name, err)
		}
		b.primitives = append(b.primitives, b.lang.NewPrimitiveType(pid, cmp.Or(p.Key, p.Name), p.Name))
	}

	for _, c := range def.Classifiers {
		if err := claim(c.Name); err != nil {
			return nil, err
		}
		cid := cmp.Or(c.ID, nodeid.Derive(def.Key, c.Name))
		if err := nodeid.Validate(cid); err != nil {
			return nil, b.errorf("%s %s: %v", c.Kind, c.Name, err)
		}
		key := cmp.Or(c.Key, c.Name)

		var cl *language.Classifier
		switch c.Kind {
		case language.KindConcept:
			cl = b.lang.NewConcept(cid, key, c.Name)
		case language.KindInterface:
			cl = b.lang.NewInterface(cid, key, c.Name)
		case language.KindAnnotation:
			cl = b.lang.NewAnnotation(cid, key, c.Name)
		default:
			return nil, b.errorf("classifier %s has unknown kind %d", c.Name, c.Kind)
		}
		cl.Abstract = c.Abstract
		b.classifiers = append(b.classifiers, cl)
	}
	return b, nil
}

// scopes returns the languages an unqualified or qualified name may refer to.
func (b *languageBuilder) scopes(name string, all []*languageBuilder) (string, []*language.Language) {
	if key, local, ok := strings.Cut(name, "."); ok {
		for _, other := range all {
			if other.def.Key == key && other.version == b.version {
				return local, []*language.Language{other.lang}
			}
		}
		return name, nil
	}
	return name, []*language.Language{b.lang, lioncore.Builtins(b.version), lioncore.M3(b.version)}
}

func (b *languageBuilder) classifier(name string, all []*languageBuilder) (*language.Classifier, error) {
	local, langs := b.scopes(name, all)
	for _, l := range langs {
		if c, ok := l.ClassifierByName(local); ok {
			return c, nil
		}
	}
	return nil, b.errorf("unknown classifier %q", name)
}

func (b *languageBuilder) primitive(name string, all []*languageBuilder) (*language.PrimitiveType, error) {
	local, langs := b.scopes(name, all)
	for _, l := range langs {
		if pt, ok := l.PrimitiveTypeByName(local); ok {
			return pt, nil
		}
	}
	return nil, b.errorf("unknown primitive type %q", name)
}

// resolve links supertypes and declares features.
func (b *languageBuilder) resolve(all []*languageBuilder) error {
	for i, def := range b.def.Classifiers {
		cl := b.classifiers[i]

		if def.Extends != "" {
			if def.Kind == language.KindInterface {
				return b.errorf("interface %s cannot extend; list its super interfaces under implements", def.Name)
			}
			super, err := b.classifier(def.Extends, all)
			if err != nil {
				return err
			}
			if super.Kind != def.Kind {
				return b.errorf("%s %s cannot extend %s %s", def.Kind, def.Name, super.Kind, super.Name)
			}
			cl.Extends = super
		}

		for _, name := range def.Implements {
			iface, err := b.classifier(name, all)
			if err != nil {
				return err
			}
			if !iface.IsInterface() {
				return b.errorf("%s %s implements %s, which is not an interface", def.Kind, def.Name, name)
			}
			cl.Implements = append(cl.Implements, iface)
		}

		if def.Annotates != "" {
			if def.Kind != language.KindAnnotation {
				return b.errorf("%s %s cannot annotate; only annotations can", def.Kind, def.Name)
			}
			target, err := b.classifier(def.Annotates, all)
			if err != nil {
				return err
			}
			cl.Annotates = target
		}

		if err := b.features(def, cl, all); err != nil {
			return err
		}
	}

	for _, cl := range b.classifiers {
		for _, super := range append([]*language.Classifier{cl.Extends}, cl.Implements...) {
			if super != nil && super.IsSubtypeOf(cl) {
				return b.errorf("inheritance cycle through %s", cl.Name)
			}
		}
	}
	return nil
}

func (b *languageBuilder) features(def *ClassifierDef, cl *language.Classifier, all []*languageBuilder) error {
	seen := make(map[string]bool)
	ids := func(name string) (string, string, error) {
		if name == "" {
			return "", "", b.errorf("%s %s has a feature without name", def.Kind, def.Name)
		}
		if seen[name] {
			return "", "", b.errorf("%s %s declares feature %q twice", def.Kind, def.Name, name)
		}
		seen[name] = true
		id := nodeid.Derive(b.def.Key, def.Name, name)
		if err := nodeid.Validate(id); err != nil {
			return "", "", b.errorf("feature %s.%s: %v", def.Name, name, err)
		}
		return id, nodeid.Derive(cl.Key, name), nil
	}

	for _, ln := range def.Containments {
		id, key, err := ids(ln.Name)
		if err != nil {
			return err
		}
		target, err := b.classifier(ln.Type, all)
		if err != nil {
			return err
		}
		cl.AddContainment(id, key, ln.Name, target, ln.Multiple, ln.Optional)
	}
	for _, ln := range def.References {
		id, key, err := ids(ln.Name)
		if err != nil {
			return err
		}
		target, err := b.classifier(ln.Type, all)
		if err != nil {
			return err
		}
		cl.AddReference(id, key, ln.Name, target, ln.Multiple, ln.Optional)
	}
	for _, p := range def.Properties {
		id, key, err := ids(p.Name)
		if err != nil {
			return err
		}
		pt, err := b.primitive(p.Type, all)
		if err != nil {
			return err
		}
		cl.AddProperty(id, key, p.Name, pt, p.Optional)
	}
	return nil
}

// register installs the tagged mappings and returns how many there were.
func (b *languageBuilder) register(reg *registry.Registry, constructors map[registry.TypeTag]registry.Constructor) (int, error) {
	count := 0
	for i, def := range b.def.Primitives {
		if def.Tag == "" {
			if def.Codec != "" {
				return 0, b.errorf("primitive %s has a codec but no tag", def.Name)
			}
			continue
		}
		var opts []registry.PrimitiveOption
		if def.Codec != "" {
			codec, ok := primitives.ByName(def.Codec)
			if !ok {
				return 0, b.errorf("primitive %s: unknown codec %q (known: %s)", def.Name, def.Codec, strings.Join(primitives.Names(), ", "))
			}
			opts = append(opts, registry.WithCodec(codec.Serialize, codec.Deserialize))
		}
		if err := reg.RegisterPrimitiveType(registry.TypeTag(def.Tag), b.primitives[i], opts...); err != nil {
			return 0, fmt.Errorf("%s: %w", b.location(), err)
		}
		count++
	}

	for i, def := range b.def.Classifiers {
		if def.Tag == "" {
			continue
		}
		cl := b.classifiers[i]
		tag := registry.TypeTag(def.Tag)

		concrete := !def.Abstract && def.Kind != language.KindInterface
		if def.Instantiable != nil && *def.Instantiable && !concrete {
			return 0, b.errorf("%s %s is abstract and cannot be instantiable", def.Kind, def.Name)
		}

		var opts []registry.ClassifierOption
		if concrete && (def.Instantiable == nil || *def.Instantiable) {
			ctor, ok := constructors[tag]
			if !ok {
				ctor = dynamicConstructor(cl)
			}
			opts = append(opts, registry.WithConstructor(ctor))
		} else {
			opts = append(opts, registry.NotInstantiated())
		}

		if err := reg.RegisterClassifier(tag, cl, opts...); err != nil {
			return 0, fmt.Errorf("%s: %w", b.location(), err)
		}
		count++
	}
	return count, nil
}

func dynamicConstructor(c *language.Classifier) registry.Constructor {
	return func() node.Node { return node.NewDynamic("", c) }
}
