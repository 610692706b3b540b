package registry

import (
	"fmt"
	"log/slog"

	"github.com/vk/metareg/internal/node"
	"github.com/vk/metareg/internal/protocol"
	"github.com/vk/metareg/internal/serialization"
)

// Option configures a Registry.
type Option func(*Registry) error

// WithLogger sets the logger used for registration and prepare events. The
// default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) error {
		if l == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		r.logger = l
		return nil
	}
}

// WithDefaultVersion pins the version used by the lookups that take no
// explicit version. Without it the registry follows protocol.Current.
func WithDefaultVersion(v protocol.Version) Option {
	return func(r *Registry) error {
		if !v.Valid() {
			return fmt.Errorf("invalid protocol version %d", int(v))
		}
		r.pinned = &v
		return nil
	}
}

// WithoutBootstrap skips the builtin mappings.
func WithoutBootstrap() Option {
	return func(r *Registry) error {
		r.bootstrap = false
		return nil
	}
}

// Constructor builds a bare instance of an application node type.
type Constructor func() node.Node

type classifierOptions struct {
	constructor  Constructor
	instantiated bool
}

// ClassifierOption tunes a classifier mapping.
type ClassifierOption func(*classifierOptions)

// WithConstructor supplies the constructor the prepared factory calls. It is
// attached to the tag under the classifier's version and survives later
// registrations of the same tag and classifier that do not supply one.
func WithConstructor(fn Constructor) ClassifierOption {
	return func(o *classifierOptions) { o.constructor = fn }
}

// NotInstantiated keeps the classifier out of PrepareInstantiator. The
// exclusion is permanent for the classifier.
func NotInstantiated() ClassifierOption {
	return func(o *classifierOptions) { o.instantiated = false }
}

type primitiveOptions struct {
	serializer   serialization.Serializer
	deserializer serialization.Deserializer
}

// PrimitiveOption tunes a primitive type mapping.
type PrimitiveOption func(*primitiveOptions)

// WithSerializer sets the function that turns values of the primitive type
// into their serialized form.
func WithSerializer(fn serialization.Serializer) PrimitiveOption {
	return func(o *primitiveOptions) { o.serializer = fn }
}

// WithDeserializer sets the inverse of WithSerializer.
func WithDeserializer(fn serialization.Deserializer) PrimitiveOption {
	return func(o *primitiveOptions) { o.deserializer = fn }
}

// WithCodec sets both directions at once.
func WithCodec(ser serialization.Serializer, deser serialization.Deserializer) PrimitiveOption {
	return func(o *primitiveOptions) {
		o.serializer = ser
		o.deserializer = deser
	}
}
