package registry

import (
	"slices"

	"github.com/stretchr/testify/require"

	"github.com/vk/metareg/internal/language"
	"github.com/vk/metareg/internal/lioncore"
	"github.com/vk/metareg/internal/primitives"
	"github.com/vk/metareg/internal/protocol"
	"github.com/vk/metareg/internal/serialization"
)

// recorder is an instantiator that only remembers what it was given.
type recorder struct {
	factories map[string]serialization.Factory
}

func newRecorder() *recorder {
	return &recorder{factories: make(map[string]serialization.Factory)}
}

func (r *recorder) RegisterCustomDeserializer(classifierID string, f serialization.Factory) {
	r.factories[classifierID] = f
}

func (r *recorder) ids() []string {
	var out []string
	for id := range r.factories {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

type codecRecorder struct {
	serializers   map[string]serialization.Serializer
	deserializers map[string]serialization.Deserializer
}

func newCodecRecorder() *codecRecorder {
	return &codecRecorder{
		serializers:   make(map[string]serialization.Serializer),
		deserializers: make(map[string]serialization.Deserializer),
	}
}

func (c *codecRecorder) RegisterSerializer(id string, fn serialization.Serializer) {
	c.serializers[id] = fn
}

func (c *codecRecorder) RegisterDeserializer(id string, fn serialization.Deserializer) {
	c.deserializers[id] = fn
}

func serializedNode(id string) *serialization.SerializedNode {
	return &serialization.SerializedNode{ID: &id}
}

func serializedNodeWithoutID() *serialization.SerializedNode {
	return &serialization.SerializedNode{}
}

func mustM3(t require.TestingT, v protocol.Version, name string) *language.Classifier {
	c, ok := lioncore.M3Classifier(v, name)
	require.True(t, ok, "M3 classifier %s", name)
	return c
}

func stringCodec() primitives.Codec  { return primitives.String() }
func integerCodec() primitives.Codec { return primitives.Integer() }
func booleanCodec() primitives.Codec { return primitives.Boolean() }
