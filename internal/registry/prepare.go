package registry

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vk/metareg/internal/language"
	"github.com/vk/metareg/internal/node"
	"github.com/vk/metareg/internal/protocol"
	"github.com/vk/metareg/internal/serialization"
	"github.com/vk/metareg/internal/tracing"
)

var tracer = otel.Tracer("github.com/vk/metareg/internal/registry")

// CustomDeserializerRegistrar is the part of an instantiator the registry
// fills.
type CustomDeserializerRegistrar interface {
	RegisterCustomDeserializer(classifierID string, f serialization.Factory)
}

// PrimitiveValuesRegistrar is the part of a primitive codec table the
// registry fills.
type PrimitiveValuesRegistrar interface {
	RegisterSerializer(primitiveTypeID string, fn serialization.Serializer)
	RegisterDeserializer(primitiveTypeID string, fn serialization.Deserializer)
}

// LanguageRegistrar is implemented by engines that need the languages of
// the mapped classifiers before they can read chunks.
type LanguageRegistrar interface {
	RegisterLanguage(l *language.Language) error
}

// Engine is a serialization engine bound to one protocol version.
type Engine interface {
	Version() protocol.Version
	Instantiator() *serialization.Instantiator
	PrimitiveValues() *serialization.PrimitiveValues
}

// PrepareInstantiator installs a factory on inst for every classifier mapped
// under v that is not excluded and whose tag has a constructor. Tags without
// a constructor are skipped; the application is expected to install its own
// factory for them. It returns the number of factories installed.
func (r *Registry) PrepareInstantiator(ctx context.Context, inst CustomDeserializerRegistrar, v protocol.Version) int {
	_, span := tracer.Start(ctx, tracing.SpanPrefixRegistry+"prepare_instantiator",
		trace.WithAttributes(attribute.String(tracing.AttrProtocolVersion, v.String())),
	)
	defer span.End()

	installed := 0
	for _, tag := range sortedTags(r.classifiers[v]) {
		c := r.classifiers[v][tag]
		if r.IsExcluded(c) {
			continue
		}
		ctor, ok := r.constructor(v, tag)
		if !ok {
			r.logger.Debug("No constructor for classifier mapping, skipping.", "tag", tag, "classifier", c.Name, "version", v)
			continue
		}
		inst.RegisterCustomDeserializer(c.ID, newFactory(tag, ctor))
		installed++
	}

	span.SetAttributes(attribute.Int(tracing.AttrFactories, installed))
	r.logger.Debug("Prepared instantiator.", "version", v, "factories", installed)
	return installed
}

type classifierSetter interface {
	SetClassifier(c *language.Classifier)
}

func newFactory(tag TypeTag, ctor Constructor) serialization.Factory {
	return func(c *language.Classifier, sn *serialization.SerializedNode, _ map[string]node.Node, _ map[*language.Property]any) (node.Node, error) {
		n := ctor()
		if n == nil {
			return nil, fmt.Errorf("constructor of %q returned nil", tag)
		}
		if cs, ok := n.(classifierSetter); ok && n.Classifier() == nil {
			cs.SetClassifier(c)
		}
		if s, ok := n.(node.IDSetter); ok {
			id, ok := sn.NodeID()
			if !ok {
				return nil, fmt.Errorf("%w: cannot set identity of %q instance of %s", ErrMissingNodeID, tag, c.Name)
			}
			s.SetID(id)
		}
		return n, nil
	}
}

// PreparePrimitiveValues copies every registered codec into table, keyed by
// primitive type id.
func (r *Registry) PreparePrimitiveValues(ctx context.Context, table PrimitiveValuesRegistrar) {
	_, span := tracer.Start(ctx, tracing.SpanPrefixRegistry+"prepare_primitive_values")
	defer span.End()

	for pt, fn := range r.serializers {
		table.RegisterSerializer(pt.ID, fn)
	}
	for pt, fn := range r.deserializers {
		table.RegisterDeserializer(pt.ID, fn)
	}
	span.SetAttributes(
		attribute.Int(tracing.AttrSerializers, len(r.serializers)),
		attribute.Int(tracing.AttrDeserializers, len(r.deserializers)),
	)
}

// PrepareJSONSerialization prepares engine for deserialization: the
// instantiator with the engine's own version, then the codec table. Engines
// implementing LanguageRegistrar also receive the languages of every mapping
// under that version.
func (r *Registry) PrepareJSONSerialization(ctx context.Context, engine Engine) error {
	v := engine.Version()
	ctx, span := tracer.Start(ctx, tracing.SpanPrefixRegistry+"prepare_json_serialization",
		trace.WithAttributes(attribute.String(tracing.AttrProtocolVersion, v.String())),
	)
	defer span.End()

	if lr, ok := engine.(LanguageRegistrar); ok {
		for _, l := range r.Languages(v) {
			if err := lr.RegisterLanguage(l); err != nil {
				err = fmt.Errorf("registering language %s: %w", l.Key, err)
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return err
			}
		}
	}

	r.PrepareInstantiator(ctx, engine.Instantiator(), v)
	r.PreparePrimitiveValues(ctx, engine.PrimitiveValues())
	span.SetStatus(codes.Ok, "")
	return nil
}

// Languages returns the languages of the classifiers and primitive types
// mapped under v, ordered by key and version.
func (r *Registry) Languages(v protocol.Version) []*language.Language {
	seen := make(map[*language.Language]struct{})
	var out []*language.Language
	add := func(l *language.Language) {
		if l == nil {
			return
		}
		if _, ok := seen[l]; ok {
			return
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	for _, c := range r.classifiers[v] {
		add(c.Language)
	}
	for _, pt := range r.primitiveTypes[v] {
		add(pt.Language)
	}
	slices.SortFunc(out, func(a, b *language.Language) int {
		return cmp.Or(strings.Compare(a.Key, b.Key), strings.Compare(a.Version, b.Version))
	})
	return out
}

func sortedTags[V any](m map[TypeTag]V) []TypeTag {
	tags := make([]TypeTag, 0, len(m))
	for t := range m {
		tags = append(tags, t)
	}
	slices.Sort(tags)
	return tags
}
