// internal/nodeid/parser_test.go
package nodeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	testCases := []struct {
		name      string
		rawID     string
		expectErr bool
	}{
		{name: "simple", rawID: "n1"},
		{name: "dashes and underscores", rawID: "calc-sum_1"},
		{name: "uuid", rawID: "0b7e3c54-8a4f-4b7d-9d1e-2f7c5a1b9e01"},
		{name: "error - empty", rawID: "", expectErr: true},
		{name: "error - dot", rawID: "a.b", expectErr: true},
		{name: "error - space", rawID: "a b", expectErr: true},
		{name: "error - slash", rawID: "a/b", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.rawID)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidate_EmptyIsSentinel(t *testing.T) {
	assert.ErrorIs(t, Validate(""), ErrEmpty)
}

func TestNew_IsValidAndUnique(t *testing.T) {
	a, b := New(), New()
	require.NoError(t, Validate(a))
	assert.NotEqual(t, a, b)
}

func TestDerive(t *testing.T) {
	assert.Equal(t, "calc-Sum-operands", Derive("calc", "Sum", "operands"))
	assert.Equal(t, "calc-Sum", Derive("", "calc", "", "Sum"))
	assert.Equal(t, "", Derive())
}
