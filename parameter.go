package staple

import (
	"encoding/json"
	"fmt"

	"github.com/flywave/go3d/mat3"
	"github.com/flywave/go3d/mat4"
)

// MaterialParameter 材质参数, 每种类型只携带自己的值
type MaterialParameter interface {
	Type() MaterialParameterType
	payload() (string, interface{})
}

type Vector2Parameter struct{ Value Vector2Holder }

type Vector3Parameter struct{ Value Vector3Holder }

type Vector4Parameter struct{ Value Vector4Holder }

// TextureParameter 纹理以资源路径表示
type TextureParameter struct{ Path string }

type ColorParameter struct{ Value Color32 }

type IntParameter struct{ Value int32 }

type FloatParameter struct{ Value float32 }

type Matrix3x3Parameter struct{ Value mat3.T }

type Matrix4x4Parameter struct{ Value mat4.T }

type TextureWrapParameter struct{ Value TextureWrap }

func (Vector2Parameter) Type() MaterialParameterType     { return MaterialParameterVector2 }
func (Vector3Parameter) Type() MaterialParameterType     { return MaterialParameterVector3 }
func (Vector4Parameter) Type() MaterialParameterType     { return MaterialParameterVector4 }
func (TextureParameter) Type() MaterialParameterType     { return MaterialParameterTexture }
func (ColorParameter) Type() MaterialParameterType       { return MaterialParameterColor }
func (IntParameter) Type() MaterialParameterType         { return MaterialParameterInt }
func (FloatParameter) Type() MaterialParameterType       { return MaterialParameterFloat }
func (Matrix3x3Parameter) Type() MaterialParameterType   { return MaterialParameterMatrix3x3 }
func (Matrix4x4Parameter) Type() MaterialParameterType   { return MaterialParameterMatrix4x4 }
func (TextureWrapParameter) Type() MaterialParameterType { return MaterialParameterTextureWrap }

func (p Vector2Parameter) payload() (string, interface{})     { return "vec2Value", p.Value }
func (p Vector3Parameter) payload() (string, interface{})     { return "vec3Value", p.Value }
func (p Vector4Parameter) payload() (string, interface{})     { return "vec4Value", p.Value }
func (p TextureParameter) payload() (string, interface{})     { return "textureValue", p.Path }
func (p ColorParameter) payload() (string, interface{})       { return "colorValue", p.Value }
func (p IntParameter) payload() (string, interface{})         { return "intValue", p.Value }
func (p FloatParameter) payload() (string, interface{})       { return "floatValue", p.Value }
func (p Matrix3x3Parameter) payload() (string, interface{})   { return "mat3Value", p.Value }
func (p Matrix4x4Parameter) payload() (string, interface{})   { return "mat4Value", p.Value }
func (p TextureWrapParameter) payload() (string, interface{}) { return "textureWrapValue", p.Value }

func marshalParameter(p MaterialParameter) ([]byte, error) {
	key, value := p.payload()
	return json.Marshal(map[string]interface{}{
		"type": p.Type(),
		key:    value,
	})
}

func (p Vector2Parameter) MarshalJSON() ([]byte, error)     { return marshalParameter(p) }
func (p Vector3Parameter) MarshalJSON() ([]byte, error)     { return marshalParameter(p) }
func (p Vector4Parameter) MarshalJSON() ([]byte, error)     { return marshalParameter(p) }
func (p TextureParameter) MarshalJSON() ([]byte, error)     { return marshalParameter(p) }
func (p ColorParameter) MarshalJSON() ([]byte, error)       { return marshalParameter(p) }
func (p IntParameter) MarshalJSON() ([]byte, error)         { return marshalParameter(p) }
func (p FloatParameter) MarshalJSON() ([]byte, error)       { return marshalParameter(p) }
func (p Matrix3x3Parameter) MarshalJSON() ([]byte, error)   { return marshalParameter(p) }
func (p Matrix4x4Parameter) MarshalJSON() ([]byte, error)   { return marshalParameter(p) }
func (p TextureWrapParameter) MarshalJSON() ([]byte, error) { return marshalParameter(p) }

type parameterWire struct {
	Type        *MaterialParameterType `json:"type"`
	Vec2        Vector2Holder          `json:"vec2Value"`
	Vec3        Vector3Holder          `json:"vec3Value"`
	Vec4        Vector4Holder          `json:"vec4Value"`
	Texture     string                 `json:"textureValue"`
	Color       Color32                `json:"colorValue"`
	Int         int32                  `json:"intValue"`
	Float       float32                `json:"floatValue"`
	Mat3        mat3.T                 `json:"mat3Value"`
	Mat4        mat4.T                 `json:"mat4Value"`
	TextureWrap TextureWrap            `json:"textureWrapValue"`
}

// DecodeMaterialParameter 按 type 字段解析参数
func DecodeMaterialParameter(data []byte) (MaterialParameter, error) {
	var w parameterWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	if w.Type == nil {
		return nil, fmt.Errorf("material parameter without type")
	}
	switch *w.Type {
	case MaterialParameterVector2:
		return Vector2Parameter{Value: w.Vec2}, nil
	case MaterialParameterVector3:
		return Vector3Parameter{Value: w.Vec3}, nil
	case MaterialParameterVector4:
		return Vector4Parameter{Value: w.Vec4}, nil
	case MaterialParameterTexture:
		return TextureParameter{Path: w.Texture}, nil
	case MaterialParameterColor:
		return ColorParameter{Value: w.Color}, nil
	case MaterialParameterInt:
		return IntParameter{Value: w.Int}, nil
	case MaterialParameterFloat:
		return FloatParameter{Value: w.Float}, nil
	case MaterialParameterMatrix3x3:
		return Matrix3x3Parameter{Value: w.Mat3}, nil
	case MaterialParameterMatrix4x4:
		return Matrix4x4Parameter{Value: w.Mat4}, nil
	case MaterialParameterTextureWrap:
		return TextureWrapParameter{Value: w.TextureWrap}, nil
	}
	return nil, fmt.Errorf("unknown material parameter type %d", *w.Type)
}

type materialMetadataWire struct {
	Shader                *string                    `json:"shader"`
	Parameters            map[string]json.RawMessage `json:"parameters"`
	EnabledShaderVariants []string                   `json:"enabledShaderVariants"`
	CullingMode           *CullingMode               `json:"cullingMode"`
}

func (m *MaterialMetadata) UnmarshalJSON(data []byte) error {
	var w materialMetadataWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := NewMaterialMetadata()
	if w.Shader != nil {
		out.Shader = *w.Shader
	}
	if w.CullingMode != nil {
		out.CullingMode = *w.CullingMode
	}
	if w.EnabledShaderVariants != nil {
		out.EnabledShaderVariants = w.EnabledShaderVariants
	}
	for name, raw := range w.Parameters {
		p, err := DecodeMaterialParameter(raw)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", name, err)
		}
		out.Parameters[name] = p
	}
	*m = *out
	return nil
}
