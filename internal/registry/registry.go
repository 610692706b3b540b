package registry

import (
	"fmt"
	"log/slog"

	"github.com/vk/metareg/internal/language"
	"github.com/vk/metareg/internal/lioncore"
	"github.com/vk/metareg/internal/protocol"
	"github.com/vk/metareg/internal/serialization"
)

// TypeTag identifies an application type. Applications pick the tags; the
// registry only compares them.
type TypeTag string

// Tags of the builtin mappings.
const (
	TagNode    TypeTag = "lioncore.Node"
	TagString  TypeTag = "string"
	TagInteger TypeTag = "int"
	TagBoolean TypeTag = "bool"
)

// M3Tag returns the tag under which the M3 classifier with the given name is
// registered, e.g. "lioncore.Concept".
func M3Tag(name string) TypeTag {
	return TypeTag("lioncore." + name)
}

// Registry holds the mappings of a single application instance.
type Registry struct {
	logger *slog.Logger
	// pinned overrides protocol.Current for the lookups without a version.
	pinned    *protocol.Version
	bootstrap bool

	classifiers    map[protocol.Version]map[TypeTag]*language.Classifier
	primitiveTypes map[protocol.Version]map[TypeTag]*language.PrimitiveType
	constructors   map[protocol.Version]map[TypeTag]Constructor

	serializers   map[*language.PrimitiveType]serialization.Serializer
	deserializers map[*language.PrimitiveType]serialization.Deserializer
	excluded      map[*language.Classifier]struct{}

	nodeTags      map[TypeTag]struct{}
	primitiveTags map[TypeTag]struct{}
}

// New creates a registry and, unless WithoutBootstrap is given, registers
// the builtin mappings of every protocol version.
func New(opts ...Option) (*Registry, error) {
	r := &Registry{
		logger:         slog.Default(),
		bootstrap:      true,
		classifiers:    make(map[protocol.Version]map[TypeTag]*language.Classifier),
		primitiveTypes: make(map[protocol.Version]map[TypeTag]*language.PrimitiveType),
		constructors:   make(map[protocol.Version]map[TypeTag]Constructor),
		serializers:    make(map[*language.PrimitiveType]serialization.Serializer),
		deserializers:  make(map[*language.PrimitiveType]serialization.Deserializer),
		excluded:       make(map[*language.Classifier]struct{}),
		nodeTags:       make(map[TypeTag]struct{}),
		primitiveTags:  make(map[TypeTag]struct{}),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	if r.bootstrap {
		if err := r.registerBuiltins(); err != nil {
			return nil, fmt.Errorf("bootstrapping registry: %w", err)
		}
	}
	return r, nil
}

// DefaultVersion returns the version used by lookups without an explicit
// one: the pinned version if WithDefaultVersion was given, otherwise
// protocol.Current at the time of the call.
func (r *Registry) DefaultVersion() protocol.Version {
	if r.pinned != nil {
		return *r.pinned
	}
	return protocol.Current()
}

func (r *Registry) constructor(v protocol.Version, tag TypeTag) (Constructor, bool) {
	ctor, ok := r.constructors[v][tag]
	return ctor, ok
}

func (r *Registry) registerBuiltins() error {
	for _, v := range protocol.Versions() {
		if err := r.RegisterClassifier(TagNode, lioncore.Node(v), NotInstantiated()); err != nil {
			return err
		}
		builtinPrimitives := map[TypeTag]*language.PrimitiveType{
			TagString:  lioncore.String(v),
			TagInteger: lioncore.Integer(v),
			TagBoolean: lioncore.Boolean(v),
		}
		for tag, pt := range builtinPrimitives {
			if err := r.RegisterPrimitiveType(tag, pt); err != nil {
				return err
			}
		}

		names := lioncore.M3Names
		if v.SupportsStructuredDataTypes() {
			names = append(append([]string(nil), names...), lioncore.StructuredM3Names...)
		}
		for _, name := range names {
			c, ok := lioncore.M3Classifier(v, name)
			if !ok {
				return fmt.Errorf("M3 of %s has no classifier %s", v, name)
			}
			if err := r.RegisterClassifier(M3Tag(name), c, NotInstantiated()); err != nil {
				return err
			}
		}
	}
	r.logger.Debug("Registered builtin mappings.", "versions", len(protocol.Versions()))
	return nil
}

// RegisterClassifier maps tag to c under c's protocol version. A later
// registration of the same tag and version replaces the earlier one; its
// constructor is kept only while the classifier stays the same. It fails
// with ErrConstraintViolation if tag is already a primitive type tag.
func (r *Registry) RegisterClassifier(tag TypeTag, c *language.Classifier, opts ...ClassifierOption) error {
	if c == nil {
		return fmt.Errorf("%w: nil classifier for tag %q", ErrConstraintViolation, tag)
	}
	if _, ok := r.primitiveTags[tag]; ok {
		return fmt.Errorf("%w: tag %q is mapped to a primitive type and cannot map to classifier %s", ErrConstraintViolation, tag, c.Name)
	}

	o := classifierOptions{instantiated: true}
	for _, opt := range opts {
		opt(&o)
	}

	v := c.Version()
	byTag, ok := r.classifiers[v]
	if !ok {
		byTag = make(map[TypeTag]*language.Classifier)
		r.classifiers[v] = byTag
	}
	ctors, ok := r.constructors[v]
	if !ok {
		ctors = make(map[TypeTag]Constructor)
		r.constructors[v] = ctors
	}
	if prev, ok := byTag[tag]; ok && prev != c {
		r.logger.Debug("Replacing classifier mapping.", "tag", tag, "version", v, "previous", prev.Name, "classifier", c.Name)
		delete(ctors, tag)
	}
	byTag[tag] = c
	r.nodeTags[tag] = struct{}{}

	if o.constructor != nil {
		ctors[tag] = o.constructor
	}
	if !o.instantiated {
		r.excluded[c] = struct{}{}
	}
	return nil
}

// RegisterPrimitiveType maps tag to pt under pt's protocol version and
// stores any codec given through the options, replacing the previous codec
// of pt. It fails with ErrConstraintViolation if tag is a node type tag in
// any version.
func (r *Registry) RegisterPrimitiveType(tag TypeTag, pt *language.PrimitiveType, opts ...PrimitiveOption) error {
	if pt == nil {
		return fmt.Errorf("%w: nil primitive type for tag %q", ErrConstraintViolation, tag)
	}
	if _, ok := r.nodeTags[tag]; ok {
		return fmt.Errorf("%w: tag %q denotes a node type and cannot map to primitive type %s", ErrConstraintViolation, tag, pt.Name)
	}

	var o primitiveOptions
	for _, opt := range opts {
		opt(&o)
	}

	v := pt.Version()
	byTag, ok := r.primitiveTypes[v]
	if !ok {
		byTag = make(map[TypeTag]*language.PrimitiveType)
		r.primitiveTypes[v] = byTag
	}
	byTag[tag] = pt
	r.primitiveTags[tag] = struct{}{}

	if o.serializer != nil {
		r.serializers[pt] = o.serializer
	}
	if o.deserializer != nil {
		r.deserializers[pt] = o.deserializer
	}
	return nil
}

// AddSerializerAndDeserializer registers a codec for pt without mapping a
// tag to it. Either function may be nil to leave that direction untouched.
func (r *Registry) AddSerializerAndDeserializer(pt *language.PrimitiveType, ser serialization.Serializer, deser serialization.Deserializer) {
	if ser != nil {
		r.serializers[pt] = ser
	}
	if deser != nil {
		r.deserializers[pt] = deser
	}
}

// IsExcluded reports whether c is kept out of PrepareInstantiator.
func (r *Registry) IsExcluded(c *language.Classifier) bool {
	_, ok := r.excluded[c]
	return ok
}
