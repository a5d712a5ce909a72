package staple

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/flywave/go3d/quaternion"
	"github.com/flywave/go3d/vec3"
	"github.com/go-playground/validator"
	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// 四元数不能全为零
	v.RegisterValidation("quat", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		if f.Kind() != reflect.Array {
			return false
		}
		var sum float64
		for i := 0; i < f.Len(); i++ {
			c := f.Index(i).Float()
			sum += c * c
		}
		return sum > 0
	})
	return v
}

type dumpScene struct {
	Name  string      `yaml:"name"`
	Roots []*dumpNode `yaml:"roots" validate:"dive,required"`
}

type dumpNode struct {
	Name       string          `yaml:"name" validate:"required"`
	Active     *bool           `yaml:"active"`
	Static     bool            `yaml:"static"`
	Layer      string          `yaml:"layer" validate:"max=64"`
	Position   vec3.T          `yaml:"position"`
	Rotation   *quaternion.T   `yaml:"rotation" validate:"omitempty,quat"`
	Euler      *vec3.T         `yaml:"euler"`
	Scale      *vec3.T         `yaml:"scale"`
	Components []dumpComponent `yaml:"components" validate:"-"`
	Children   []*dumpNode     `yaml:"children" validate:"dive,required"`
}

// dumpComponent 按 kind 解码为具体组件
type dumpComponent struct {
	Component
}

func newHostComponent(kind ComponentKind) Component {
	switch kind {
	case KindCamera:
		return NewCamera()
	case KindAudioListener:
		return &AudioListener{}
	case KindAudioSource:
		return &AudioSource{Volume: 1, Pitch: 1, PlayOnAwake: true}
	case KindMeshFilter:
		return &MeshFilter{}
	case KindMeshRenderer:
		return &MeshRenderer{RendererSettings: RendererSettings{Enabled: true, ReceiveShadows: true}}
	case KindSkinnedMeshRenderer:
		return &SkinnedMeshRenderer{RendererSettings: RendererSettings{Enabled: true, ReceiveShadows: true}}
	case KindLight:
		return &Light{Type: HOST_LIGHT_POINT, Color: Color{R: 1, G: 1, B: 1, A: 1}}
	case KindBoxCollider:
		return &BoxCollider{Size: vec3.T{1, 1, 1}}
	case KindSphereCollider:
		return &SphereCollider{Radius: 0.5}
	case KindCapsuleCollider:
		return &CapsuleCollider{Radius: 0.5, Height: 2}
	case KindMeshCollider:
		return &MeshCollider{}
	case KindRigidbody:
		return &Rigidbody{Mass: 1, UseGravity: true}
	case KindAnimator:
		return &Animator{}
	}
	return nil
}

func (c *dumpComponent) UnmarshalYAML(value *yaml.Node) error {
	var head struct {
		Kind string `yaml:"kind"`
	}
	if err := value.Decode(&head); err != nil {
		return err
	}
	if strings.TrimSpace(head.Kind) == "" {
		return fmt.Errorf("line %d: component kind is required", value.Line)
	}
	name := strcase.ToCamel(head.Kind)
	comp := newHostComponent(ParseComponentKind(name))
	if comp == nil {
		c.Component = &UnknownComponent{TypeName: name}
		return nil
	}
	if err := value.Decode(comp); err != nil {
		return fmt.Errorf("component %s: %w", name, err)
	}
	if err := validate.Struct(comp); err != nil {
		return fmt.Errorf("component %s: %w", name, err)
	}
	c.Component = comp
	return nil
}

// UnmarshalYAML 支持 {r,g,b,a} 或 [r,g,b(,a)], 缺省 alpha 为 1
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var v []float32
		if err := value.Decode(&v); err != nil {
			return err
		}
		if len(v) != 3 && len(v) != 4 {
			return fmt.Errorf("line %d: color needs 3 or 4 channels, got %d", value.Line, len(v))
		}
		*c = Color{R: v[0], G: v[1], B: v[2], A: 1}
		if len(v) == 4 {
			c.A = v[3]
		}
		return nil
	}
	type plain Color
	p := plain{A: 1}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*c = Color(p)
	return nil
}

func (d *dumpNode) toNode() *Node {
	n := NewNode(d.Name)
	if d.Active != nil {
		n.Active = *d.Active
	}
	n.Static = d.Static
	if d.Layer != "" {
		n.Layer = d.Layer
	}
	n.Transform.Position = d.Position
	switch {
	case d.Rotation != nil:
		n.Transform.Rotation = *d.Rotation
	case d.Euler != nil:
		n.Transform.Rotation = FromEulerAngles(*d.Euler)
	}
	if d.Scale != nil {
		n.Transform.Scale = *d.Scale
	}
	for _, c := range d.Components {
		if c.Component != nil {
			n.Components = append(n.Components, c.Component)
		}
	}
	for _, ch := range d.Children {
		n.Children = append(n.Children, ch.toNode())
	}
	return n
}

// DecodeSceneDump 解析宿主场景转储 (YAML 或 JSON)
func DecodeSceneDump(rd io.Reader) (*Scene, error) {
	var d dumpScene
	if err := yaml.NewDecoder(rd).Decode(&d); err != nil {
		if err == io.EOF {
			return &Scene{}, nil
		}
		return nil, fmt.Errorf("decode scene dump: %w", err)
	}
	if err := validate.Struct(&d); err != nil {
		return nil, fmt.Errorf("validate scene dump: %w", err)
	}
	scene := &Scene{Name: d.Name}
	for _, r := range d.Roots {
		scene.Roots = append(scene.Roots, r.toNode())
	}
	return scene, nil
}

func LoadSceneDump(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene dump: %w", err)
	}
	defer f.Close()
	scene, err := DecodeSceneDump(f)
	if err != nil {
		return nil, err
	}
	if scene.Name == "" {
		scene.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scene, nil
}

// DecodeMaterialDump 解析宿主材质转储
func DecodeMaterialDump(rd io.Reader) (*Material, error) {
	var m Material
	if err := yaml.NewDecoder(rd).Decode(&m); err != nil {
		if err == io.EOF {
			return nil, ErrInvalidSelection
		}
		return nil, fmt.Errorf("decode material dump: %w", err)
	}
	if err := validate.Struct(&m); err != nil {
		return nil, fmt.Errorf("validate material dump: %w", err)
	}
	return &m, nil
}

func LoadMaterialDump(path string) (*Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open material dump: %w", err)
	}
	defer f.Close()
	return DecodeMaterialDump(f)
}
