package primitives

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
	"pgregory.net/rapid"
)

func roundTrip(t require.TestingT, c Codec, v any) any {
	s, err := c.Serialize(v)
	require.NoError(t, err)
	out, err := c.Deserialize(s)
	require.NoError(t, err)
	return out
}

func TestInteger_RoundTripRepresentative(t *testing.T) {
	c := Integer()
	for _, v := range []int{0, -1, -42, 42, math.MaxInt64, math.MinInt64} {
		assert.Equal(t, v, roundTrip(t, c, v))
	}
}

func TestInteger_TextForm(t *testing.T) {
	s, err := Integer().Serialize(-17)
	require.NoError(t, err)
	assert.Equal(t, "-17", s)
}

func TestInteger_Rejects(t *testing.T) {
	c := Integer()
	for _, in := range []string{"", "abc", "1.5", "99999999999999999999999"} {
		_, err := c.Deserialize(in)
		assert.Error(t, err, in)
	}
	_, err := c.Serialize("12")
	assert.Error(t, err, "strings are not integers")
}

func TestBoolean_RoundTrip(t *testing.T) {
	c := Boolean()
	for _, v := range []bool{true, false} {
		assert.Equal(t, v, roundTrip(t, c, v))
	}
	s, err := c.Serialize(true)
	require.NoError(t, err)
	assert.Equal(t, "true", s)

	_, err = c.Deserialize("maybe")
	assert.Error(t, err)
}

func TestString_RoundTrip(t *testing.T) {
	c := String()
	assert.Equal(t, "", roundTrip(t, c, ""))
	assert.Equal(t, "é", roundTrip(t, c, "é"), "text is not normalized")

	_, err := c.Serialize(12)
	assert.Error(t, err)
}

func TestJSON_RoundTrip(t *testing.T) {
	c := JSON()
	out := roundTrip(t, c, cty.ObjectVal(map[string]cty.Value{
		"name": cty.StringVal("x"),
		"size": cty.NumberIntVal(3),
	}))
	val, ok := out.(cty.Value)
	require.True(t, ok)
	assert.Equal(t, "x", val.GetAttr("name").AsString())

	_, err := c.Deserialize("{not json")
	assert.Error(t, err)
}

func TestByName(t *testing.T) {
	for _, n := range Names() {
		c, ok := ByName(n)
		require.True(t, ok, n)
		assert.NotNil(t, c.Serialize)
		assert.NotNil(t, c.Deserialize)
	}
	_, ok := ByName("decimal")
	assert.False(t, ok)
	assert.Equal(t, []string{"boolean", "integer", "json", "string"}, Names())
}

func TestProperty_IntegerRoundTrip(t *testing.T) {
	c := Integer()
	rapid.Check(t, func(rt *rapid.T) {
		v := rapid.Int().Draw(rt, "v")
		require.Equal(rt, v, roundTrip(rt, c, v))
	})
}

func TestProperty_StringRoundTrip(t *testing.T) {
	c := String()
	rapid.Check(t, func(rt *rapid.T) {
		v := rapid.String().Draw(rt, "v")
		require.Equal(rt, v, roundTrip(rt, c, v))
	})
}
