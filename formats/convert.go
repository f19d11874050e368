package formats

import "fmt"

// Interface converts a tree into plain Go values so it can be handed to other
// serializers: Integer becomes int64, ByteString string, List []any and
// Dictionary map[string]any.
func Interface(v Value) any {
	switch v := v.(type) {
	case Integer:
		return int64(v)
	case ByteString:
		return string(v)
	case List:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = Interface(e)
		}
		return out
	case Dictionary:
		out := make(map[string]any, v.Len())
		v.Range(func(k string, e Value) bool {
			out[k] = Interface(e)
			return true
		})
		return out
	default:
		return nil
	}
}

// FromInterface is the inverse of Interface. It accepts the Go types Interface
// produces plus the other integer types, []byte and map[string]string.
func FromInterface(x any) (Value, error) {
	switch x := x.(type) {
	case Value:
		return x, nil
	case int:
		return Integer(x), nil
	case int8:
		return Integer(x), nil
	case int16:
		return Integer(x), nil
	case int32:
		return Integer(x), nil
	case int64:
		return Integer(x), nil
	case uint8:
		return Integer(x), nil
	case uint16:
		return Integer(x), nil
	case uint32:
		return Integer(x), nil
	case string:
		return ByteString(x), nil
	case []byte:
		return ByteString(x), nil
	case []any:
		out := make(List, len(x))
		for i, e := range x {
			v, err := FromInterface(e)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = v
		}
		return out, nil
	case map[string]any:
		b := newDictBuilder()
		for k, e := range x {
			v, err := FromInterface(e)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			b.set(k, v)
		}
		return b.build(), nil
	case map[string]string:
		b := newDictBuilder()
		for k, e := range x {
			b.set(k, ByteString(e))
		}
		return b.build(), nil
	default:
		return nil, fmt.Errorf("unsupported type %T", x)
	}
}
