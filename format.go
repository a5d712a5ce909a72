package staple

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// JSON 缩进
const jsonIndent = "  "

func enumText(names []string, v int) ([]byte, error) {
	if v < 0 || v >= len(names) {
		return nil, fmt.Errorf("enum value %d out of range", v)
	}
	return []byte(names[v]), nil
}

func enumParse(names []string, text []byte) (int, error) {
	s := string(text)
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	for i, n := range names {
		if strings.EqualFold(n, s) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown enum name %q", s)
}

func enumString(names []string, v int) string {
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("%d", v)
	}
	return names[v]
}

// SceneObjectKind 场景对象类型
type SceneObjectKind int

const (
	SceneObjectKindEntity SceneObjectKind = iota
	SceneObjectKindPrefab
)

var sceneObjectKindNames = []string{"Entity", "Prefab"}

func (k SceneObjectKind) String() string { return enumString(sceneObjectKindNames, int(k)) }

func (k SceneObjectKind) MarshalText() ([]byte, error) { return enumText(sceneObjectKindNames, int(k)) }

func (k *SceneObjectKind) UnmarshalText(text []byte) error {
	v, err := enumParse(sceneObjectKindNames, text)
	*k = SceneObjectKind(v)
	return err
}

// HierarchyVisibility 层级面板可见性
type HierarchyVisibility int

const (
	HierarchyVisibilityNone HierarchyVisibility = iota
	HierarchyVisibilityHide
)

var hierarchyVisibilityNames = []string{"None", "Hide"}

func (h HierarchyVisibility) String() string { return enumString(hierarchyVisibilityNames, int(h)) }

func (h HierarchyVisibility) MarshalText() ([]byte, error) {
	return enumText(hierarchyVisibilityNames, int(h))
}

func (h *HierarchyVisibility) UnmarshalText(text []byte) error {
	v, err := enumParse(hierarchyVisibilityNames, text)
	*h = HierarchyVisibility(v)
	return err
}

// CameraClearMode 相机清除模式
type CameraClearMode int

const (
	CameraClearModeSolidColor CameraClearMode = iota
	CameraClearModeDepth
	CameraClearModeNone
)

var cameraClearModeNames = []string{"SolidColor", "Depth", "None"}

func (c CameraClearMode) String() string { return enumString(cameraClearModeNames, int(c)) }

// CameraType 投影类型
type CameraType int

const (
	CameraTypePerspective CameraType = iota
	CameraTypeOrthographic
)

var cameraTypeNames = []string{"Perspective", "Orthographic"}

func (c CameraType) String() string { return enumString(cameraTypeNames, int(c)) }

// LightType 灯光类型
type LightType int

const (
	LightTypePoint LightType = iota
	LightTypeDirectional
	LightTypeSpot
)

var lightTypeNames = []string{"Point", "Directional", "Spot"}

func (l LightType) String() string { return enumString(lightTypeNames, int(l)) }

// MotionType 刚体运动类型
type MotionType int

const (
	MotionTypeStatic MotionType = iota
	MotionTypeKinematic
	MotionTypeDynamic
)

var motionTypeNames = []string{"Static", "Kinematic", "Dynamic"}

func (m MotionType) String() string { return enumString(motionTypeNames, int(m)) }

// CullingMode 材质剔除模式
type CullingMode int

const (
	CullingModeNone CullingMode = iota
	CullingModeFront
	CullingModeBack
)

var cullingModeNames = []string{"None", "Front", "Back"}

func (c CullingMode) String() string { return enumString(cullingModeNames, int(c)) }

func (c CullingMode) MarshalText() ([]byte, error) { return enumText(cullingModeNames, int(c)) }

func (c *CullingMode) UnmarshalText(text []byte) error {
	v, err := enumParse(cullingModeNames, text)
	*c = CullingMode(v)
	return err
}

// MaterialParameterType 材质参数类型
type MaterialParameterType int

const (
	MaterialParameterVector2 MaterialParameterType = iota
	MaterialParameterVector3
	MaterialParameterVector4
	MaterialParameterTexture
	MaterialParameterColor
	MaterialParameterInt
	MaterialParameterFloat
	MaterialParameterMatrix3x3
	MaterialParameterMatrix4x4
	MaterialParameterTextureWrap
)

var materialParameterTypeNames = []string{
	"Vector2", "Vector3", "Vector4", "Texture", "Color", "Int", "Float", "Matrix3x3", "Matrix4x4", "TextureWrap",
}

func (t MaterialParameterType) String() string { return enumString(materialParameterTypeNames, int(t)) }

func (t MaterialParameterType) MarshalText() ([]byte, error) {
	return enumText(materialParameterTypeNames, int(t))
}

func (t *MaterialParameterType) UnmarshalText(text []byte) error {
	v, err := enumParse(materialParameterTypeNames, text)
	*t = MaterialParameterType(v)
	return err
}

// TextureWrap 纹理环绕模式
type TextureWrap int

const (
	TextureWrapClamp TextureWrap = iota
	TextureWrapRepeat
	TextureWrapMirror
)

var textureWrapNames = []string{"Clamp", "Repeat", "Mirror"}

func (w TextureWrap) String() string { return enumString(textureWrapNames, int(w)) }

func (w TextureWrap) MarshalText() ([]byte, error) { return enumText(textureWrapNames, int(w)) }

func (w *TextureWrap) UnmarshalText(text []byte) error {
	v, err := enumParse(textureWrapNames, text)
	*w = TextureWrap(v)
	return err
}

// Color 宿主线性颜色, 分量 0-1
type Color struct {
	R float32 `json:"r" yaml:"r"`
	G float32 `json:"g" yaml:"g"`
	B float32 `json:"b" yaml:"b"`
	A float32 `json:"a" yaml:"a"`
}

// Color32 8位颜色
type Color32 struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

func channelByte(v float32) uint8 {
	if v <= 0 || math.IsNaN(float64(v)) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(float64(v) * 255))
}

func (c Color) To32() Color32 {
	return Color32{R: channelByte(c.R), G: channelByte(c.G), B: channelByte(c.B), A: channelByte(c.A)}
}

// HexColor 输出 #RRGGBBAA
func HexColor(c Color) string {
	return c.To32().Hex()
}

func (c Color32) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

func marshalIndent(v interface{}) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", jsonIndent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
