package staple

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type PropsType int

const (
	PROP_TYPE_STRING = iota
	PROP_TYPE_INT
	PROP_TYPE_FLOAT
	PROP_TYPE_BOOL
	PROP_TYPE_ARRAY
	PROP_TYPE_MAP
	PROP_TYPE_VECTOR3
	PROP_TYPE_VECTOR4
)

type PropsValue struct {
	Type  PropsType
	Value interface{}
}

// Properties 组件数据字典
type Properties map[string]PropsValue

func StringProp(s string) PropsValue { return PropsValue{Type: PROP_TYPE_STRING, Value: s} }

func IntProp(i int64) PropsValue { return PropsValue{Type: PROP_TYPE_INT, Value: i} }

func FloatProp(f float32) PropsValue { return PropsValue{Type: PROP_TYPE_FLOAT, Value: f} }

func BoolProp(b bool) PropsValue { return PropsValue{Type: PROP_TYPE_BOOL, Value: b} }

func Vector3Prop(v Vector3Holder) PropsValue { return PropsValue{Type: PROP_TYPE_VECTOR3, Value: v} }

func Vector4Prop(v Vector4Holder) PropsValue { return PropsValue{Type: PROP_TYPE_VECTOR4, Value: v} }

// EnumProp 枚举按名称输出
func EnumProp(e fmt.Stringer) PropsValue { return StringProp(e.String()) }

func StringsProp(ss []string) PropsValue {
	arr := make([]PropsValue, 0, len(ss))
	for _, s := range ss {
		arr = append(arr, StringProp(s))
	}
	return PropsValue{Type: PROP_TYPE_ARRAY, Value: arr}
}

func (v PropsValue) AsString() (string, bool) {
	s, ok := v.Value.(string)
	return s, ok && v.Type == PROP_TYPE_STRING
}

func (v PropsValue) AsBool() (bool, bool) {
	b, ok := v.Value.(bool)
	return b, ok && v.Type == PROP_TYPE_BOOL
}

func (v PropsValue) AsInt() (int64, bool) {
	i, ok := v.Value.(int64)
	return i, ok && v.Type == PROP_TYPE_INT
}

// AsFloat 整数值同样可读
func (v PropsValue) AsFloat() (float32, bool) {
	switch v.Type {
	case PROP_TYPE_FLOAT:
		f, ok := v.Value.(float32)
		return f, ok
	case PROP_TYPE_INT:
		i, ok := v.Value.(int64)
		return float32(i), ok
	}
	return 0, false
}

func (v PropsValue) AsStrings() ([]string, bool) {
	arr, ok := v.Value.([]PropsValue)
	if !ok || v.Type != PROP_TYPE_ARRAY {
		return nil, false
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		s, ok := item.AsString()
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func (v PropsValue) plain() interface{} {
	switch v.Type {
	case PROP_TYPE_ARRAY:
		arr, _ := v.Value.([]PropsValue)
		out := make([]interface{}, 0, len(arr))
		for _, item := range arr {
			out = append(out, item.plain())
		}
		return out
	case PROP_TYPE_MAP:
		sub, _ := v.Value.(Properties)
		return sub.plain()
	case PROP_TYPE_FLOAT:
		if f, ok := v.Value.(float32); ok {
			return floatValue(f)
		}
	}
	return v.Value
}

// floatValue 浮点数总是带小数点输出, 读回时才能与整数区分
type floatValue float32

func (f floatValue) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("unsupported float value %v", v)
	}
	s := strconv.FormatFloat(v, 'f', -1, 32)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return []byte(s), nil
}

func (p Properties) plain() map[string]interface{} {
	out := make(map[string]interface{}, len(p))
	for k, v := range p {
		out[k] = v.plain()
	}
	return out
}

func (v PropsValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.plain())
}

func (p Properties) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p.plain())
}

func (p *Properties) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	props := make(Properties, len(raw))
	for k, r := range raw {
		v, err := unmarshalPropsValue(r)
		if err != nil {
			return fmt.Errorf("property %q: %w", k, err)
		}
		props[k] = v
	}
	*p = props
	return nil
}

func (v *PropsValue) UnmarshalJSON(data []byte) error {
	pv, err := unmarshalPropsValue(data)
	if err != nil {
		return err
	}
	*v = pv
	return nil
}

// 根据 JSON 形态推断类型
func unmarshalPropsValue(data []byte) (PropsValue, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return PropsValue{}, fmt.Errorf("empty value")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return PropsValue{}, err
		}
		return StringProp(s), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return PropsValue{}, err
		}
		return BoolProp(b), nil
	case 'n':
		return StringProp(""), nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return PropsValue{}, err
		}
		arr := make([]PropsValue, 0, len(items))
		for _, item := range items {
			v, err := unmarshalPropsValue(item)
			if err != nil {
				return PropsValue{}, err
			}
			arr = append(arr, v)
		}
		return PropsValue{Type: PROP_TYPE_ARRAY, Value: arr}, nil
	case '{':
		return unmarshalObjectValue(data)
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return PropsValue{}, err
	}
	if !bytes.ContainsAny(data, ".eE") {
		if i, err := n.Int64(); err == nil {
			return IntProp(i), nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return PropsValue{}, err
	}
	if math.Abs(f) > math.MaxFloat32 {
		return PropsValue{}, fmt.Errorf("float %v overflows float32", f)
	}
	return FloatProp(float32(f)), nil
}

func unmarshalObjectValue(data []byte) (PropsValue, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return PropsValue{}, err
	}
	if isVectorKeys(raw, "x", "y", "z") {
		var v Vector3Holder
		if err := json.Unmarshal(data, &v); err == nil {
			return Vector3Prop(v), nil
		}
	}
	if isVectorKeys(raw, "x", "y", "z", "w") {
		var v Vector4Holder
		if err := json.Unmarshal(data, &v); err == nil {
			return Vector4Prop(v), nil
		}
	}
	var sub Properties
	if err := sub.UnmarshalJSON(data); err != nil {
		return PropsValue{}, err
	}
	return PropsValue{Type: PROP_TYPE_MAP, Value: sub}, nil
}

func isVectorKeys(raw map[string]json.RawMessage, keys ...string) bool {
	if len(raw) != len(keys) {
		return false
	}
	for _, k := range keys {
		if _, ok := raw[k]; !ok {
			return false
		}
	}
	return true
}
