package runtime

import (
	"encoding/base64"
	"strconv"
	"time"

	"github.com/elaraai/east/types"
	"github.com/elaraai/east/values"
)

// jsonFromValue converts an East value to a plain Go value that
// encoding/json can marshal, guided by the value's static East type.
// DateTime becomes an ISO-8601 string, Blob becomes base64, Dict
// becomes a JSON object keyed by its keys: String keys as they are,
// Integer keys in decimal; any other key type is rejected.
func jsonFromValue(t types.Type, v values.Value) (interface{}, error) {
	switch t.Kind() {
	case types.KindNull:
		return nil, nil
	case types.KindBoolean:
		return bool(v.(values.Boolean)), nil
	case types.KindInteger:
		return int64(v.(values.Integer)), nil
	case types.KindFloat:
		return float64(v.(values.Float)), nil
	case types.KindString:
		return string(v.(values.String)), nil
	case types.KindDateTime:
		return epochMillisToTime(int64(v.(values.DateTime))).Format(time.RFC3339Nano), nil
	case types.KindBlob:
		return base64.StdEncoding.EncodeToString([]byte(v.(values.Blob))), nil
	case types.KindArray:
		elemType := t.(*types.Array).Elem
		arr := v.(*values.Array)
		out := make([]interface{}, len(arr.Elements))
		for i, e := range arr.Elements {
			j, err := jsonFromValue(elemType, e)
			if err != nil {
				return nil, err
			}
			out[i] = j
		}
		return out, nil
	case types.KindSet:
		elemType := t.(*types.Set).Key
		set := v.(*values.Set)
		out := make([]interface{}, len(set.Order))
		for i, e := range set.Order {
			j, err := jsonFromValue(elemType, e)
			if err != nil {
				return nil, err
			}
			out[i] = j
		}
		return out, nil
	case types.KindDict:
		d := t.(*types.Dict)
		dict := v.(*values.Dict)
		out := make(map[string]interface{}, len(dict.Order))
		for i, k := range dict.Order {
			key, err := jsonStringKey(d.Key, k)
			if err != nil {
				return nil, err
			}
			val, err := jsonFromValue(d.Value, dict.Vals[i])
			if err != nil {
				return nil, err
			}
			out[key] = val
		}
		return out, nil
	case types.KindRef:
		ref := v.(*values.Ref)
		return jsonFromValue(t.(*types.Ref).Inner, ref.Slot)
	case types.KindStruct:
		st := t.(*types.Struct)
		s := v.(*values.Struct)
		out := make(map[string]interface{}, len(st.Fields))
		for i, f := range st.Fields {
			j, err := jsonFromValue(f.Type, s.Fields[i])
			if err != nil {
				return nil, err
			}
			out[f.Name] = j
		}
		return out, nil
	case types.KindVariant:
		variant := v.(*values.Variant)
		j, err := jsonFromValue(variant.CaseType(), variant.Inner)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{variant.Case: j}, nil
	default:
		return nil, values.NewEastError("StringPrintJSON does not support type " + types.PrintType(t))
	}
}

func jsonStringKey(t types.Type, v values.Value) (string, error) {
	switch t.Kind() {
	case types.KindString:
		return string(v.(values.String)), nil
	case types.KindInteger:
		j, err := jsonFromValue(t, v)
		if err != nil {
			return "", err
		}
		return jsonNumberKey(j), nil
	default:
		return "", values.NewEastError("StringPrintJSON only supports String or Integer dict keys")
	}
}

func jsonNumberKey(j interface{}) string {
	return strconv.FormatInt(j.(int64), 10)
}

// valueFromJSON converts a decoded encoding/json value (nil, bool,
// float64, string, []interface{}, map[string]interface{}) into an East
// value of the requested type.
func valueFromJSON(t types.Type, j interface{}) (values.Value, error) {
	switch t.Kind() {
	case types.KindNull:
		return values.Null{}, nil
	case types.KindBoolean:
		b, ok := j.(bool)
		if !ok {
			return nil, values.NewEastError("expected JSON boolean")
		}
		return values.Boolean(b), nil
	case types.KindInteger:
		n, ok := j.(float64)
		if !ok {
			return nil, values.NewEastError("expected JSON number")
		}
		return values.Integer(int64(n)), nil
	case types.KindFloat:
		n, ok := j.(float64)
		if !ok {
			return nil, values.NewEastError("expected JSON number")
		}
		return values.Float(n), nil
	case types.KindString:
		s, ok := j.(string)
		if !ok {
			return nil, values.NewEastError("expected JSON string")
		}
		return values.String(s), nil
	case types.KindDateTime:
		s, ok := j.(string)
		if !ok {
			return nil, values.NewEastError("expected JSON string for DateTime")
		}
		tm, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, values.NewEastError("invalid DateTime string: " + err.Error())
		}
		return values.DateTime(timeToEpochMillis(tm)), nil
	case types.KindBlob:
		s, ok := j.(string)
		if !ok {
			return nil, values.NewEastError("expected JSON string for Blob")
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, values.NewEastError("invalid base64 Blob: " + err.Error())
		}
		return values.Blob(b), nil
	case types.KindArray:
		elemType := t.(*types.Array).Elem
		items, ok := j.([]interface{})
		if !ok {
			return nil, values.NewEastError("expected JSON array")
		}
		out := values.NewArray(elemType)
		for _, item := range items {
			v, err := valueFromJSON(elemType, item)
			if err != nil {
				return nil, err
			}
			out.Elements = append(out.Elements, v)
		}
		return out, nil
	case types.KindSet:
		elemType := t.(*types.Set).Key
		items, ok := j.([]interface{})
		if !ok {
			return nil, values.NewEastError("expected JSON array")
		}
		out := values.NewSet(elemType)
		for _, item := range items {
			v, err := valueFromJSON(elemType, item)
			if err != nil {
				return nil, err
			}
			if _, err := out.Insert(v); err != nil {
				return nil, err
			}
		}
		return out, nil
	case types.KindDict:
		d := t.(*types.Dict)
		obj, ok := j.(map[string]interface{})
		if !ok {
			return nil, values.NewEastError("expected JSON object")
		}
		out := values.NewDict(d.Key, d.Value)
		for k, raw := range obj {
			key, err := keyFromJSONString(d.Key, k)
			if err != nil {
				return nil, err
			}
			val, err := valueFromJSON(d.Value, raw)
			if err != nil {
				return nil, err
			}
			if _, err := out.Insert(key, val); err != nil {
				return nil, err
			}
		}
		return out, nil
	case types.KindRef:
		inner := t.(*types.Ref).Inner
		v, err := valueFromJSON(inner, j)
		if err != nil {
			return nil, err
		}
		return values.NewRef(inner, v), nil
	case types.KindStruct:
		st := t.(*types.Struct)
		obj, ok := j.(map[string]interface{})
		if !ok {
			return nil, values.NewEastError("expected JSON object")
		}
		fields := make([]values.Value, len(st.Fields))
		for i, f := range st.Fields {
			raw, present := obj[f.Name]
			if !present {
				return nil, values.NewEastError("missing JSON field " + f.Name)
			}
			v, err := valueFromJSON(f.Type, raw)
			if err != nil {
				return nil, err
			}
			fields[i] = v
		}
		return values.NewStruct(st, fields...), nil
	case types.KindVariant:
		vt := t.(*types.Variant)
		obj, ok := j.(map[string]interface{})
		if !ok || len(obj) != 1 {
			return nil, values.NewEastError("expected single-key JSON object for variant")
		}
		for name, raw := range obj {
			idx := vt.CaseIndex(name)
			if idx < 0 {
				return nil, values.NewEastError("unknown variant case " + name)
			}
			v, err := valueFromJSON(vt.Cases[idx].Type, raw)
			if err != nil {
				return nil, err
			}
			return values.NewVariant(vt, name, v), nil
		}
		panic("unreachable")
	default:
		return nil, values.NewEastError("StringParseJSON does not support type " + types.PrintType(t))
	}
}

func keyFromJSONString(t types.Type, s string) (values.Value, error) {
	switch t.Kind() {
	case types.KindString:
		return values.String(s), nil
	case types.KindInteger:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, values.NewEastError("invalid integer dict key: " + s)
		}
		return values.Integer(n), nil
	default:
		return nil, values.NewEastError("StringParseJSON only supports String or Integer dict keys")
	}
}
