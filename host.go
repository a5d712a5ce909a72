package staple

import (
	"reflect"
	"strings"

	"github.com/flywave/go3d/quaternion"
	"github.com/flywave/go3d/vec3"
	"github.com/flywave/go3d/vec4"
)

// Rect 视口矩形
type Rect struct {
	X      float32 `yaml:"x"`
	Y      float32 `yaml:"y"`
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// AssetKind 资源类型
type AssetKind int

const (
	AssetKindOther AssetKind = iota
	AssetKindMesh
	AssetKindMaterial
	AssetKindTexture
	AssetKindAudioClip
)

var assetKindNames = []string{"Other", "Mesh", "Material", "Texture", "AudioClip"}

func (k AssetKind) String() string { return enumString(assetKindNames, int(k)) }

func (k AssetKind) MarshalText() ([]byte, error) { return enumText(assetKindNames, int(k)) }

func (k *AssetKind) UnmarshalText(text []byte) error {
	v, err := enumParse(assetKindNames, text)
	*k = AssetKind(v)
	return err
}

// AssetRef 宿主资源引用, nil 表示空引用
type AssetRef struct {
	Path string    `yaml:"path"`
	Name string    `yaml:"name"`
	Kind AssetKind `yaml:"kind"`
	Main bool      `yaml:"main"`
}

type Transform struct {
	Position vec3.T
	Rotation quaternion.T
	Scale    vec3.T
}

func IdentityTransform() Transform {
	return Transform{Rotation: quaternion.Ident, Scale: vec3.T{1, 1, 1}}
}

// ComponentKind 宿主组件能力标签
type ComponentKind int

const (
	KindUnknown ComponentKind = iota
	KindCamera
	KindAudioListener
	KindAudioSource
	KindMeshFilter
	KindMeshRenderer
	KindSkinnedMeshRenderer
	KindLight
	KindBoxCollider
	KindSphereCollider
	KindCapsuleCollider
	KindMeshCollider
	KindRigidbody
	KindAnimator
)

var componentKindNames = []string{
	"Unknown", "Camera", "AudioListener", "AudioSource", "MeshFilter", "MeshRenderer", "SkinnedMeshRenderer",
	"Light", "BoxCollider", "SphereCollider", "CapsuleCollider", "MeshCollider", "Rigidbody", "Animator",
}

func (k ComponentKind) String() string { return enumString(componentKindNames, int(k)) }

// ParseComponentKind 未知名称返回 KindUnknown
func ParseComponentKind(name string) ComponentKind {
	for i, n := range componentKindNames {
		if strings.EqualFold(n, name) {
			return ComponentKind(i)
		}
	}
	return KindUnknown
}

type Component interface {
	Kind() ComponentKind
}

type Camera struct {
	ClearFlags       int     `yaml:"clearFlags"`
	Orthographic     bool    `yaml:"orthographic"`
	OrthographicSize float32 `yaml:"orthographicSize" validate:"gte=0"`
	FieldOfView      float32 `yaml:"fieldOfView" validate:"gte=0,lte=180"`
	NearClipPlane    float32 `yaml:"nearClipPlane"`
	FarClipPlane     float32 `yaml:"farClipPlane" validate:"gtefield=NearClipPlane"`
	Rect             Rect    `yaml:"rect"`
	Depth            float32 `yaml:"depth"`
	BackgroundColor  Color   `yaml:"backgroundColor"`
	CullingMask      int32   `yaml:"cullingMask"`
}

// NewCamera 宿主相机默认值
func NewCamera() *Camera {
	return &Camera{
		ClearFlags:       CLEAR_FLAGS_SKYBOX,
		OrthographicSize: 5,
		FieldOfView:      60,
		NearClipPlane:    0.3,
		FarClipPlane:     1000,
		Rect:             Rect{Width: 1, Height: 1},
		BackgroundColor:  Color{R: 0.19, G: 0.3, B: 0.47, A: 0},
		CullingMask:      -1,
	}
}

type AudioListener struct{}

type AudioSource struct {
	Clip        *AssetRef `yaml:"clip"`
	Volume      float32   `yaml:"volume" validate:"gte=0,lte=1"`
	Pitch       float32   `yaml:"pitch"`
	Loop        bool      `yaml:"loop"`
	Spatialize  bool      `yaml:"spatialize"`
	PlayOnAwake bool      `yaml:"playOnAwake"`
}

type MeshFilter struct {
	SharedMesh *AssetRef `yaml:"sharedMesh"`
}

type RendererSettings struct {
	Enabled           bool  `yaml:"enabled"`
	ForceRenderingOff bool  `yaml:"forceRenderingOff"`
	ReceiveShadows    bool  `yaml:"receiveShadows"`
	SortingLayerID    int32 `yaml:"sortingLayerID"`
	SortingOrder      int32 `yaml:"sortingOrder"`
}

type MeshRenderer struct {
	RendererSettings `yaml:",inline"`
	SharedMaterials  []*AssetRef `yaml:"sharedMaterials"`
}

// SkinnedMeshRenderer Materials 只用于判断长度, 输出读取 SharedMaterials
type SkinnedMeshRenderer struct {
	RendererSettings `yaml:",inline"`
	SharedMesh       *AssetRef   `yaml:"sharedMesh"`
	Materials        []*AssetRef `yaml:"materials"`
	SharedMaterials  []*AssetRef `yaml:"sharedMaterials"`
}

type Light struct {
	Type  int   `yaml:"type"`
	Color Color `yaml:"color"`
}

type BoxCollider struct {
	Size   vec3.T `yaml:"size"`
	Center vec3.T `yaml:"center"`
}

type SphereCollider struct {
	Radius float32 `yaml:"radius" validate:"gte=0"`
}

type CapsuleCollider struct {
	Radius float32 `yaml:"radius" validate:"gte=0"`
	Height float32 `yaml:"height" validate:"gte=0"`
}

type MeshCollider struct {
	SharedMesh *AssetRef `yaml:"sharedMesh"`
}

type Rigidbody struct {
	IsKinematic bool    `yaml:"isKinematic"`
	Mass        float32 `yaml:"mass" validate:"gte=0"`
	Constraints int     `yaml:"constraints"`
	UseGravity  bool    `yaml:"useGravity"`
}

type Animator struct{}

// UnknownComponent 无映射的宿主组件
type UnknownComponent struct {
	TypeName string
}

func (*Camera) Kind() ComponentKind              { return KindCamera }
func (*AudioListener) Kind() ComponentKind       { return KindAudioListener }
func (*AudioSource) Kind() ComponentKind         { return KindAudioSource }
func (*MeshFilter) Kind() ComponentKind          { return KindMeshFilter }
func (*MeshRenderer) Kind() ComponentKind        { return KindMeshRenderer }
func (*SkinnedMeshRenderer) Kind() ComponentKind { return KindSkinnedMeshRenderer }
func (*Light) Kind() ComponentKind               { return KindLight }
func (*BoxCollider) Kind() ComponentKind         { return KindBoxCollider }
func (*SphereCollider) Kind() ComponentKind      { return KindSphereCollider }
func (*CapsuleCollider) Kind() ComponentKind     { return KindCapsuleCollider }
func (*MeshCollider) Kind() ComponentKind        { return KindMeshCollider }
func (*Rigidbody) Kind() ComponentKind           { return KindRigidbody }
func (*Animator) Kind() ComponentKind            { return KindAnimator }
func (*UnknownComponent) Kind() ComponentKind    { return KindUnknown }

// Node 宿主场景节点
type Node struct {
	Name       string
	Active     bool
	Static     bool
	Layer      string
	Transform  Transform
	Components []Component
	Children   []*Node
}

func NewNode(name string) *Node {
	return &Node{Name: name, Active: true, Layer: "Default", Transform: IdentityTransform()}
}

func (n *Node) AddComponent(c ...Component) *Node {
	n.Components = append(n.Components, c...)
	return n
}

func (n *Node) AddChild(c ...*Node) *Node {
	n.Children = append(n.Children, c...)
	return n
}

// isNilComponent 接口本身为空或持有空指针
func isNilComponent(c Component) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

func (n *Node) GetComponent(kind ComponentKind) Component {
	for _, c := range n.Components {
		if !isNilComponent(c) && c.Kind() == kind {
			return c
		}
	}
	return nil
}

func (n *Node) HasComponent(kind ComponentKind) bool {
	return n.GetComponent(kind) != nil
}

// Count 节点总数
func (n *Node) Count() int {
	c := 1
	for _, ch := range n.Children {
		c += ch.Count()
	}
	return c
}

type Scene struct {
	Name  string
	Roots []*Node
}

func (s *Scene) NodeCount() int {
	c := 0
	for _, r := range s.Roots {
		c += r.Count()
	}
	return c
}

// ShaderPropertyKind 着色器属性类型
type ShaderPropertyKind int

const (
	ShaderPropertyColor ShaderPropertyKind = iota
	ShaderPropertyVector
	ShaderPropertyFloat
	ShaderPropertyRange
	ShaderPropertyTexture
	ShaderPropertyInt
	ShaderPropertyUnknown
)

var shaderPropertyKindNames = []string{"Color", "Vector", "Float", "Range", "Texture", "Int", "Unknown"}

func (k ShaderPropertyKind) String() string { return enumString(shaderPropertyKindNames, int(k)) }

func (k ShaderPropertyKind) MarshalText() ([]byte, error) {
	return enumText(shaderPropertyKindNames, int(k))
}

// UnmarshalText 未知名称视为 Unknown
func (k *ShaderPropertyKind) UnmarshalText(text []byte) error {
	v, err := enumParse(shaderPropertyKindNames, text)
	if err != nil {
		*k = ShaderPropertyUnknown
		return nil
	}
	*k = ShaderPropertyKind(v)
	return nil
}

// ShaderProperty 反射得到的着色器属性
type ShaderProperty struct {
	Name    string             `yaml:"name" validate:"required"`
	Kind    ShaderPropertyKind `yaml:"kind"`
	Color   Color              `yaml:"color"`
	Vector  vec4.T             `yaml:"vector"`
	Float   float32            `yaml:"float"`
	Int     int32              `yaml:"int"`
	Texture *AssetRef          `yaml:"texture"`
}

type Material struct {
	Name       string           `yaml:"name" validate:"required"`
	Properties []ShaderProperty `yaml:"properties" validate:"dive"`
}
