package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RoundTrip(t *testing.T) {
	for _, v := range Versions() {
		t.Run(v.String(), func(t *testing.T) {
			parsed, err := Parse(v.String())
			require.NoError(t, err)
			assert.Equal(t, v, parsed)
		})
	}
}

func TestParse_Unknown(t *testing.T) {
	_, err := Parse("1999.1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1999.1")
}

func TestVersions_Ordered(t *testing.T) {
	vs := Versions()
	require.Len(t, vs, 3)
	for i := 1; i < len(vs); i++ {
		assert.Less(t, vs[i-1], vs[i])
	}

	// The returned slice is a copy.
	vs[0] = V2025_1
	assert.Equal(t, V2023_1, Versions()[0])
}

func TestSupportsStructuredDataTypes(t *testing.T) {
	assert.False(t, V2023_1.SupportsStructuredDataTypes())
	assert.True(t, V2024_1.SupportsStructuredDataTypes())
	assert.True(t, V2025_1.SupportsStructuredDataTypes())
}

func TestSetCurrent(t *testing.T) {
	prev := Current()
	t.Cleanup(func() { SetCurrent(prev) })

	SetCurrent(V2023_1)
	assert.Equal(t, V2023_1, Current())

	assert.Panics(t, func() { SetCurrent(Version(42)) })
	assert.Equal(t, V2023_1, Current())
}
