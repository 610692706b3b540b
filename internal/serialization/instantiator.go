package serialization

import (
	"fmt"

	"github.com/vk/metareg/internal/language"
	"github.com/vk/metareg/internal/node"
)

// Factory builds the in-memory node for a serialized node. instances holds
// the nodes built so far in the current chunk, keyed by id; properties holds
// the already decoded property values.
type Factory func(
	c *language.Classifier,
	sn *SerializedNode,
	instances map[string]node.Node,
	properties map[*language.Property]any,
) (node.Node, error)

// Instantiator picks a Factory per classifier id, falling back to a
// DynamicNode for classifiers without a custom one.
type Instantiator struct {
	custom   map[string]Factory
	fallback Factory
}

// NewInstantiator returns an instantiator with only the DynamicNode fallback.
func NewInstantiator() *Instantiator {
	return &Instantiator{
		custom:   make(map[string]Factory),
		fallback: dynamicFactory,
	}
}

// RegisterCustomDeserializer installs f for the classifier with the given id,
// replacing any previous factory.
func (i *Instantiator) RegisterCustomDeserializer(classifierID string, f Factory) {
	i.custom[classifierID] = f
}

// HasCustomDeserializer reports whether a factory is installed for the id.
func (i *Instantiator) HasCustomDeserializer(classifierID string) bool {
	_, ok := i.custom[classifierID]
	return ok
}

// CustomDeserializerCount returns how many factories are installed.
func (i *Instantiator) CustomDeserializerCount() int {
	return len(i.custom)
}

// Instantiate builds the node for sn.
func (i *Instantiator) Instantiate(
	c *language.Classifier,
	sn *SerializedNode,
	instances map[string]node.Node,
	properties map[*language.Property]any,
) (node.Node, error) {
	if f, ok := i.custom[c.ID]; ok {
		return f(c, sn, instances, properties)
	}
	return i.fallback(c, sn, instances, properties)
}

func dynamicFactory(c *language.Classifier, sn *SerializedNode, _ map[string]node.Node, _ map[*language.Property]any) (node.Node, error) {
	id, ok := sn.NodeID()
	if !ok {
		return nil, fmt.Errorf("serialized node of %s has no id", c.Name)
	}
	return node.NewDynamic(id, c), nil
}
