package lioncore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/metareg/internal/protocol"
)

func TestBuiltins_PerVersionIdentity(t *testing.T) {
	for _, v := range protocol.Versions() {
		t.Run(v.String(), func(t *testing.T) {
			assert.Same(t, Node(v), Node(v), "instances are memoized")
			assert.Equal(t, v, Node(v).Version())
			assert.Equal(t, v, String(v).Version())
			assert.Equal(t, v.String(), Builtins(v).Version)
			assert.True(t, Node(v).IsConcept())
			assert.True(t, INamed(v).IsInterface())
		})
	}
	assert.NotSame(t, Node(protocol.V2023_1), Node(protocol.V2024_1))
	assert.NotEqual(t, String(protocol.V2023_1).ID, String(protocol.V2024_1).ID)
	assert.Equal(t, String(protocol.V2023_1).Key, String(protocol.V2024_1).Key)
}

func TestBuiltins_IDs(t *testing.T) {
	assert.Equal(t, "LionCore-builtins-String", String(protocol.V2023_1).ID)
	assert.Equal(t, "LionCore-builtins-String-2024-1", String(protocol.V2024_1).ID)
	assert.Equal(t, "LionCore-builtins-Integer-2025-1", Integer(protocol.V2025_1).ID)
}

func TestJSON_OnlyIn2023(t *testing.T) {
	_, ok := JSON(protocol.V2023_1)
	assert.True(t, ok)
	_, ok = JSON(protocol.V2024_1)
	assert.False(t, ok)
}

func TestM3_Contents(t *testing.T) {
	for _, v := range protocol.Versions() {
		t.Run(v.String(), func(t *testing.T) {
			for _, name := range M3Names {
				c, ok := M3Classifier(v, name)
				require.True(t, ok, name)
				assert.Equal(t, v, c.Version())
			}
			for _, name := range StructuredM3Names {
				_, ok := M3Classifier(v, name)
				assert.Equal(t, v.SupportsStructuredDataTypes(), ok, name)
			}
		})
	}
}

func TestM3_InheritedContainments(t *testing.T) {
	concept, ok := M3Classifier(protocol.V2024_1, "Concept")
	require.True(t, ok)
	all := concept.AllContainments()
	require.Len(t, all, 1)
	assert.Equal(t, "features", all[0].Name)

	props := concept.AllProperties()
	require.Len(t, props, 1)
	assert.Equal(t, "name", props[0].Name, "name is inherited from INamed")
}

func TestUnknownVersionPanics(t *testing.T) {
	assert.Panics(t, func() { Builtins(protocol.Version(99)) })
}
