package stdlib

import (
	"encoding/json"
	"fmt"

	"github.com/mna/bang/lang/chunk"
	"github.com/mna/bang/lang/machine"
)

// jsonModule bridges Bang values to JSON via encoding/json. No library in
// the example corpus offers JSON encode/decode (grep across _examples/*/
// go.mod turns up nothing), so this is the one internal/stdlib module built
// directly on the standard library rather than a corpus dependency; the
// encode/decode tree-walk itself is still hand-written in the style of
// lang/chunk/value.go's DisplayWith, not delegated to json.Marshal on a
// chunk.Value directly (chunk.Value has no exported field layout a
// generic (un)marshaler could use).
func jsonModule() map[string]chunk.Value {
	return map[string]chunk.Value{
		"parse": machine.NewNativeFunction("parse", chunk.Arity{Count: 1}, func(args []chunk.Value) (chunk.Value, error) {
			s, ok := machine.AsString(args[0])
			if !ok {
				return chunk.Null, argTypeError("parse", "string", args[0])
			}
			var decoded any
			if err := json.Unmarshal([]byte(s), &decoded); err != nil {
				return chunk.Null, fmt.Errorf("parse: %w", err)
			}
			return fromJSON(decoded), nil
		}),

		"stringify": machine.NewNativeFunction("stringify", chunk.Arity{Count: 1}, func(args []chunk.Value) (chunk.Value, error) {
			encoded, err := toJSON(args[0])
			if err != nil {
				return chunk.Null, err
			}
			out, err := json.Marshal(encoded)
			if err != nil {
				return chunk.Null, fmt.Errorf("stringify: %w", err)
			}
			return machine.NewString(string(out)), nil
		}),
	}
}

// fromJSON converts a value produced by encoding/json's untyped decode
// (nil, bool, float64, string, []any, map[string]any) into a Bang Value.
func fromJSON(v any) chunk.Value {
	switch t := v.(type) {
	case nil:
		return chunk.Null
	case bool:
		return chunk.Bool(t)
	case float64:
		return chunk.Number(t)
	case string:
		return machine.NewString(t)
	case []any:
		items := make([]chunk.Value, len(t))
		for i, item := range t {
			items[i] = fromJSON(item)
		}
		return machine.NewList(items)
	case map[string]any:
		d := machine.NewDict(len(t))
		for key, val := range t {
			d.Set(machine.NewString(key), fromJSON(val))
		}
		return chunk.Obj(d)
	default:
		return chunk.Null
	}
}

// toJSON converts a Bang Value into a tree of plain Go values encoding/json
// can marshal. Functions/closures have no JSON representation and error,
// matching original_source's absence of any json module entirely (this is
// a supplemented capability, not a ported one).
func toJSON(v chunk.Value) (any, error) {
	switch v.Kind() {
	case chunk.KindNull:
		return nil, nil
	case chunk.KindBool:
		return v.Bool(), nil
	case chunk.KindNumber:
		return v.Number(), nil
	case chunk.KindObject:
		return objectToJSON(v.Object())
	default:
		return nil, nil
	}
}

func objectToJSON(obj chunk.Object) (any, error) {
	switch o := obj.(type) {
	case *machine.String:
		return o.Value, nil
	case *machine.List:
		items := make([]any, len(o.Items))
		for i, item := range o.Items {
			encoded, err := toJSON(item)
			if err != nil {
				return nil, err
			}
			items[i] = encoded
		}
		return items, nil
	case *machine.Dict:
		out := make(map[string]any, o.Len())
		err := o.Range(func(key, value chunk.Value) error {
			k, ok := machine.AsString(key)
			if !ok {
				return fmt.Errorf("stringify: dict key %s is not a string", key.Display())
			}
			encoded, err := toJSON(value)
			if err != nil {
				return err
			}
			out[k] = encoded
			return nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, fmt.Errorf("stringify: can't encode type %s", obj.ObjectKind())
	}
}
