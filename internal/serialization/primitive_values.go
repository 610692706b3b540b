package serialization

import "fmt"

// Serializer renders a property value as text.
type Serializer func(value any) (string, error)

// Deserializer parses the textual form of a property value.
type Deserializer func(serialized string) (any, error)

// PrimitiveValues is the codec table, keyed by primitive type id.
type PrimitiveValues struct {
	serializers   map[string]Serializer
	deserializers map[string]Deserializer
}

// NewPrimitiveValues returns an empty table.
func NewPrimitiveValues() *PrimitiveValues {
	return &PrimitiveValues{
		serializers:   make(map[string]Serializer),
		deserializers: make(map[string]Deserializer),
	}
}

func (p *PrimitiveValues) RegisterSerializer(primitiveTypeID string, fn Serializer) {
	p.serializers[primitiveTypeID] = fn
}

func (p *PrimitiveValues) RegisterDeserializer(primitiveTypeID string, fn Deserializer) {
	p.deserializers[primitiveTypeID] = fn
}

func (p *PrimitiveValues) HasSerializer(primitiveTypeID string) bool {
	_, ok := p.serializers[primitiveTypeID]
	return ok
}

func (p *PrimitiveValues) HasDeserializer(primitiveTypeID string) bool {
	_, ok := p.deserializers[primitiveTypeID]
	return ok
}

// Serialize renders v with the serializer of the primitive type. A nil value
// serializes to nil without consulting the codec.
func (p *PrimitiveValues) Serialize(primitiveTypeID string, v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	fn, ok := p.serializers[primitiveTypeID]
	if !ok {
		return nil, fmt.Errorf("no serializer registered for primitive type %s", primitiveTypeID)
	}
	s, err := fn(v)
	if err != nil {
		return nil, fmt.Errorf("serializing value of primitive type %s: %w", primitiveTypeID, err)
	}
	return &s, nil
}

// Deserialize parses s with the deserializer of the primitive type. A nil s
// deserializes to nil.
func (p *PrimitiveValues) Deserialize(primitiveTypeID string, s *string) (any, error) {
	if s == nil {
		return nil, nil
	}
	fn, ok := p.deserializers[primitiveTypeID]
	if !ok {
		return nil, fmt.Errorf("no deserializer registered for primitive type %s", primitiveTypeID)
	}
	v, err := fn(*s)
	if err != nil {
		return nil, fmt.Errorf("deserializing value of primitive type %s: %w", primitiveTypeID, err)
	}
	return v, nil
}
