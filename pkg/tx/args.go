package tx

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
)

// EncodeArgs serializes call arguments to a JSON array. Arbitrary-
// precision integers are rendered as canonical decimal strings,
// recursively through nested sequences and maps, so the encoded form
// survives a JSON round trip without precision loss.
func EncodeArgs(args []any) string {
	safe := make([]any, len(args))
	for i, arg := range args {
		safe[i] = jsonSafe(arg)
	}
	encoded, err := json.Marshal(safe)
	if err != nil {
		// Unserializable arguments must not lose the record itself.
		return "[]"
	}
	return string(encoded)
}

func jsonSafe(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case *big.Int:
		if x == nil {
			return nil
		}
		return x.String()
	case big.Int:
		return x.String()
	case []byte:
		return "0x" + hex.EncodeToString(x)
	case string, bool, float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number:
		return v
	}

	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = jsonSafe(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = jsonSafe(iter.Value().Interface())
		}
		return out
	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		return jsonSafe(rv.Elem().Interface())
	}

	return v
}
