package staple

import (
	"github.com/flywave/go3d/quaternion"
	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/flywave/go3d/vec4"
)

type Vector2Holder struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

type Vector3Holder struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

type Vector4Holder struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
	W float32 `json:"w"`
}

func NewVector2Holder(v vec2.T) Vector2Holder {
	return Vector2Holder{X: v[0], Y: v[1]}
}

func NewVector3Holder(v vec3.T) Vector3Holder {
	return Vector3Holder{X: v[0], Y: v[1], Z: v[2]}
}

func NewVector4Holder(v vec4.T) Vector4Holder {
	return Vector4Holder{X: v[0], Y: v[1], Z: v[2], W: v[3]}
}

func QuaternionHolder(q quaternion.T) Vector4Holder {
	return Vector4Holder{X: q[0], Y: q[1], Z: q[2], W: q[3]}
}

// RectHolder 视口矩形输出为 (xMin, yMin, xMax, yMax)
func RectHolder(r Rect) Vector4Holder {
	return Vector4Holder{X: r.X, Y: r.Y, Z: r.X + r.Width, W: r.Y + r.Height}
}

func (h Vector3Holder) Vec3() vec3.T {
	return vec3.T{h.X, h.Y, h.Z}
}

func (h Vector4Holder) Vec4() vec4.T {
	return vec4.T{h.X, h.Y, h.Z, h.W}
}

type SceneObjectTransform struct {
	Position Vector3Holder `json:"position"`
	Rotation Vector3Holder `json:"rotation"`
	Scale    Vector3Holder `json:"scale"`
}

// SceneComponent 组件记录
type SceneComponent struct {
	Type string     `json:"type"`
	Data Properties `json:"data"`
}

func NewSceneComponent(typeName string) SceneComponent {
	return SceneComponent{Type: typeName, Data: Properties{}}
}

// SceneObject 场景对象记录
type SceneObject struct {
	Kind                SceneObjectKind      `json:"kind"`
	Name                string               `json:"name"`
	ID                  int                  `json:"ID"`
	Parent              int                  `json:"parent"`
	Transform           SceneObjectTransform `json:"transform"`
	Components          []SceneComponent     `json:"components"`
	Layer               string               `json:"layer"`
	Enabled             bool                 `json:"enabled"`
	PrefabGuid          string               `json:"prefabGuid,omitempty"`
	PrefabLocalID       int                  `json:"prefabLocalID,omitempty"`
	HierarchyVisibility HierarchyVisibility  `json:"hierarchyVisibility"`
}

// Component 按类型查找第一个组件
func (o *SceneObject) Component(typeName string) (SceneComponent, bool) {
	for _, c := range o.Components {
		if c.Type == typeName {
			return c, true
		}
	}
	return SceneComponent{}, false
}

func (o *SceneObject) CountComponents(typeName string) int {
	n := 0
	for _, c := range o.Components {
		if c.Type == typeName {
			n++
		}
	}
	return n
}

// MaterialMetadata 材质记录
type MaterialMetadata struct {
	Shader                string                       `json:"shader"`
	Parameters            map[string]MaterialParameter `json:"parameters"`
	EnabledShaderVariants []string                     `json:"enabledShaderVariants"`
	CullingMode           CullingMode                  `json:"cullingMode"`
}

func NewMaterialMetadata() *MaterialMetadata {
	return &MaterialMetadata{
		Shader:                DefaultShader,
		Parameters:            make(map[string]MaterialParameter),
		EnabledShaderVariants: []string{},
		CullingMode:           CullingModeBack,
	}
}
