// Package primitives provides codecs for primitive property values built on
// go-cty: values are converted to cty, coerced to or from cty.String and
// decoded back into Go values.
package primitives

import (
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Codec pairs the two directions of a primitive value conversion. The
// function types are assignable to serialization.Serializer and
// serialization.Deserializer.
type Codec struct {
	Serialize   func(value any) (string, error)
	Deserialize func(serialized string) (any, error)
}

// ForType builds a codec that goes through the cty type ty and decodes into T.
func ForType[T any](ty cty.Type) Codec {
	return Codec{
		Serialize: func(v any) (string, error) {
			val, err := gocty.ToCtyValue(v, ty)
			if err != nil {
				return "", fmt.Errorf("cannot represent %T as %s: %w", v, ty.FriendlyName(), err)
			}
			str, err := convert.Convert(val, cty.String)
			if err != nil {
				return "", fmt.Errorf("cannot render %s as string: %w", ty.FriendlyName(), err)
			}
			return str.AsString(), nil
		},
		Deserialize: func(s string) (any, error) {
			val, err := convert.Convert(cty.StringVal(s), ty)
			if err != nil {
				return nil, fmt.Errorf("cannot parse %q as %s: %w", s, ty.FriendlyName(), err)
			}
			var out T
			if err := gocty.FromCtyValue(val, &out); err != nil {
				return nil, fmt.Errorf("cannot decode %q into %T: %w", s, out, err)
			}
			return out, nil
		},
	}
}

// String passes text through unchanged. It does not go through cty, which
// would normalize the text to NFC.
func String() Codec {
	return Codec{
		Serialize: func(v any) (string, error) {
			switch s := v.(type) {
			case string:
				return s, nil
			case fmt.Stringer:
				return s.String(), nil
			default:
				return "", fmt.Errorf("expected a string, got %T", v)
			}
		},
		Deserialize: func(s string) (any, error) { return s, nil },
	}
}

// Integer decodes into int.
func Integer() Codec { return ForType[int](cty.Number) }

// Boolean decodes into bool.
func Boolean() Codec { return ForType[bool](cty.Bool) }

// JSON decodes into a cty.Value whose type is inferred from the document.
// Values to serialize may be cty.Values or any Go value gocty can imply a
// type for.
func JSON() Codec {
	return Codec{
		Serialize: func(v any) (string, error) {
			val, ok := v.(cty.Value)
			if !ok {
				ty, err := gocty.ImpliedType(v)
				if err != nil {
					return "", fmt.Errorf("cannot infer a JSON shape for %T: %w", v, err)
				}
				if val, err = gocty.ToCtyValue(v, ty); err != nil {
					return "", err
				}
			}
			b, err := ctyjson.SimpleJSONValue{Value: val}.MarshalJSON()
			if err != nil {
				return "", err
			}
			return string(b), nil
		},
		Deserialize: func(s string) (any, error) {
			var v ctyjson.SimpleJSONValue
			if err := v.UnmarshalJSON([]byte(s)); err != nil {
				return nil, fmt.Errorf("invalid JSON value: %w", err)
			}
			return v.Value, nil
		},
	}
}

var byName = map[string]func() Codec{
	"string":  String,
	"integer": Integer,
	"boolean": Boolean,
	"json":    JSON,
}

// ByName returns the codec registered under name ("string", "integer",
// "boolean" or "json").
func ByName(name string) (Codec, bool) {
	mk, ok := byName[name]
	if !ok {
		return Codec{}, false
	}
	return mk(), true
}

// Names lists the codec names ByName accepts.
func Names() []string {
	out := make([]string, 0, len(byName))
	for n := range byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
