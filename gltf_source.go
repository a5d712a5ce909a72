package staple

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/flywave/go3d/quaternion"
	"github.com/flywave/go3d/vec3"
	"github.com/qmuntal/gltf"
)

const extLightsPunctual = "KHR_lights_punctual"

var identityMatrix = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// GltfToScene 将 glTF 文档转换为宿主场景和材质
type GltfToScene struct {
	Logger *slog.Logger
}

func (g *GltfToScene) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

func (g *GltfToScene) Convert(file string) (*Scene, []*Material, error) {
	doc, err := gltf.Open(file)
	if err != nil {
		return nil, nil, fmt.Errorf("open gltf: %w", err)
	}
	scene, materials := g.ConvertDocument(doc, filepath.ToSlash(file))
	if scene.Name == "" {
		scene.Name = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}
	return scene, materials, nil
}

// ConvertDocument assetPath 为 glTF 文件在工程中的路径, 网格与材质作为其子资源引用
func (g *GltfToScene) ConvertDocument(doc *gltf.Document, assetPath string) (*Scene, []*Material) {
	c := &gltfConverter{
		doc:       doc,
		assetPath: assetPath,
		log:       g.logger(),
		visited:   make(map[uint32]bool),
	}
	materials := make([]*Material, 0, len(doc.Materials))
	for i, m := range doc.Materials {
		if m == nil {
			continue
		}
		materials = append(materials, c.material(uint32(i), m))
	}
	c.decodeLights()

	name, roots := c.sceneRoots()
	scene := &Scene{Name: name}
	for _, idx := range roots {
		n := c.node(idx)
		if n == nil {
			continue
		}
		if len(doc.Animations) > 0 {
			n.AddComponent(&Animator{})
		}
		scene.Roots = append(scene.Roots, n)
	}
	c.log.Debug("gltf converted", "asset", assetPath, "nodes", scene.NodeCount(), "materials", len(materials))
	return scene, materials
}

// SelectMaterial 按名称选择材质, 名称为空时取第一个
func SelectMaterial(materials []*Material, name string) (*Material, error) {
	for _, m := range materials {
		if m != nil && (name == "" || m.Name == name) {
			return m, nil
		}
	}
	return nil, ErrInvalidSelection
}

type gltfLight struct {
	Type  string      `json:"type"`
	Name  string      `json:"name"`
	Color *[3]float32 `json:"color"`
}

type gltfConverter struct {
	doc       *gltf.Document
	assetPath string
	log       *slog.Logger
	visited   map[uint32]bool
	lights    []gltfLight
}

func indexedName(name, prefix string, idx uint32) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%s_%d", prefix, idx)
}

func decodeExtension(ext gltf.Extensions, name string, v interface{}) bool {
	raw, ok := ext[name]
	if !ok || raw == nil {
		return false
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

func (c *gltfConverter) decodeLights() {
	var ext struct {
		Lights []gltfLight `json:"lights"`
	}
	if decodeExtension(c.doc.Extensions, extLightsPunctual, &ext) {
		c.lights = ext.Lights
	}
}

func (c *gltfConverter) sceneRoots() (string, []uint32) {
	if len(c.doc.Scenes) > 0 {
		idx := 0
		if c.doc.Scene != nil && int(*c.doc.Scene) < len(c.doc.Scenes) {
			idx = int(*c.doc.Scene)
		}
		if s := c.doc.Scenes[idx]; s != nil {
			return s.Name, s.Nodes
		}
		return "", nil
	}
	// 没有 scenes 时取所有无父节点
	child := make(map[uint32]bool)
	for _, nd := range c.doc.Nodes {
		if nd == nil {
			continue
		}
		for _, ch := range nd.Children {
			child[ch] = true
		}
	}
	var roots []uint32
	for i := range c.doc.Nodes {
		if !child[uint32(i)] {
			roots = append(roots, uint32(i))
		}
	}
	return "", roots
}

func (c *gltfConverter) node(idx uint32) *Node {
	if int(idx) >= len(c.doc.Nodes) || c.doc.Nodes[idx] == nil || c.visited[idx] {
		c.log.Debug("skip gltf node", "index", idx)
		return nil
	}
	c.visited[idx] = true
	nd := c.doc.Nodes[idx]

	n := NewNode(indexedName(nd.Name, "node", idx))
	n.Transform = flipHandedness(nodeTransform(nd))
	if nd.Camera != nil {
		if cam := c.camera(*nd.Camera); cam != nil {
			n.AddComponent(cam)
		}
	}
	if nd.Mesh != nil {
		c.meshComponents(n, nd)
	}
	if light := c.light(nd); light != nil {
		n.AddComponent(light)
	}
	for _, ch := range nd.Children {
		if child := c.node(ch); child != nil {
			n.AddChild(child)
		}
	}
	return n
}

func nodeTransform(nd *gltf.Node) Transform {
	var m [16]float32
	for i := range m {
		m[i] = float32(nd.Matrix[i])
	}
	if m != identityMatrix && m != ([16]float32{}) {
		return DecomposeMatrix(m)
	}

	t := IdentityTransform()
	t.Position = vec3.T{float32(nd.Translation[0]), float32(nd.Translation[1]), float32(nd.Translation[2])}
	r := quaternion.T{float32(nd.Rotation[0]), float32(nd.Rotation[1]), float32(nd.Rotation[2]), float32(nd.Rotation[3])}
	if r != (quaternion.T{}) {
		t.Rotation = r
	}
	s := vec3.T{float32(nd.Scale[0]), float32(nd.Scale[1]), float32(nd.Scale[2])}
	if s != (vec3.T{}) {
		t.Scale = s
	}
	return t
}

func (c *gltfConverter) camera(idx uint32) *Camera {
	if int(idx) >= len(c.doc.Cameras) || c.doc.Cameras[idx] == nil {
		return nil
	}
	src := c.doc.Cameras[idx]
	cam := NewCamera()
	switch {
	case src.Perspective != nil:
		cam.FieldOfView = float32(float64(src.Perspective.Yfov) * 180 / math.Pi)
		cam.NearClipPlane = float32(src.Perspective.Znear)
		if src.Perspective.Zfar != nil {
			cam.FarClipPlane = float32(*src.Perspective.Zfar)
		}
	case src.Orthographic != nil:
		cam.Orthographic = true
		cam.OrthographicSize = float32(src.Orthographic.Ymag)
		cam.NearClipPlane = float32(src.Orthographic.Znear)
		cam.FarClipPlane = float32(src.Orthographic.Zfar)
	}
	return cam
}

func (c *gltfConverter) materialRef(idx uint32) *AssetRef {
	if int(idx) >= len(c.doc.Materials) || c.doc.Materials[idx] == nil {
		return nil
	}
	return &AssetRef{
		Path: c.assetPath,
		Name: indexedName(c.doc.Materials[idx].Name, "material", idx),
		Kind: AssetKindMaterial,
	}
}

func (c *gltfConverter) meshComponents(n *Node, nd *gltf.Node) {
	idx := *nd.Mesh
	if int(idx) >= len(c.doc.Meshes) || c.doc.Meshes[idx] == nil {
		return
	}
	mesh := c.doc.Meshes[idx]
	meshRef := &AssetRef{Path: c.assetPath, Name: indexedName(mesh.Name, "mesh", idx), Kind: AssetKindMesh}

	var materials []*AssetRef
	for _, p := range mesh.Primitives {
		if p == nil || p.Material == nil {
			continue
		}
		if ref := c.materialRef(*p.Material); ref != nil {
			materials = append(materials, ref)
		}
	}

	settings := RendererSettings{Enabled: true, ReceiveShadows: true}
	if nd.Skin != nil {
		n.AddComponent(&SkinnedMeshRenderer{
			RendererSettings: settings,
			SharedMesh:       meshRef,
			Materials:        materials,
			SharedMaterials:  materials,
		})
		return
	}
	n.AddComponent(&MeshFilter{SharedMesh: meshRef}, &MeshRenderer{RendererSettings: settings, SharedMaterials: materials})
}

func (c *gltfConverter) light(nd *gltf.Node) *Light {
	var ext struct {
		Light *uint32 `json:"light"`
	}
	if !decodeExtension(nd.Extensions, extLightsPunctual, &ext) || ext.Light == nil {
		return nil
	}
	if int(*ext.Light) >= len(c.lights) {
		c.log.Debug("gltf light out of range", "node", nd.Name, "light", *ext.Light)
		return nil
	}
	src := c.lights[*ext.Light]
	light := &Light{Type: HOST_LIGHT_POINT, Color: Color{R: 1, G: 1, B: 1, A: 1}}
	switch src.Type {
	case "directional":
		light.Type = HOST_LIGHT_DIRECTIONAL
	case "spot":
		light.Type = HOST_LIGHT_SPOT
	}
	if src.Color != nil {
		light.Color = Color{R: src.Color[0], G: src.Color[1], B: src.Color[2], A: 1}
	}
	return light
}

func (c *gltfConverter) textureRef(idx uint32) *AssetRef {
	if int(idx) >= len(c.doc.Textures) || c.doc.Textures[idx] == nil {
		return nil
	}
	tex := c.doc.Textures[idx]
	if tex.Source == nil || int(*tex.Source) >= len(c.doc.Images) || c.doc.Images[*tex.Source] == nil {
		return nil
	}
	img := c.doc.Images[*tex.Source]
	if img.URI != "" && !strings.HasPrefix(img.URI, "data:") {
		uri, err := url.PathUnescape(img.URI)
		if err != nil {
			uri = img.URI
		}
		return &AssetRef{Path: path.Join(path.Dir(c.assetPath), uri), Kind: AssetKindTexture, Main: true}
	}
	return &AssetRef{Path: c.assetPath, Name: indexedName(img.Name, "image", *tex.Source), Kind: AssetKindTexture}
}

// material 按 Standard 着色器的属性名反射 PBR 参数
func (c *gltfConverter) material(idx uint32, src *gltf.Material) *Material {
	m := &Material{Name: indexedName(src.Name, "material", idx)}

	base := Color{R: 1, G: 1, B: 1, A: 1}
	metallic, roughness := float32(1), float32(1)
	var texture *AssetRef
	if pbr := src.PBRMetallicRoughness; pbr != nil {
		if f := pbr.BaseColorFactor; f != nil {
			base = Color{R: float32(f[0]), G: float32(f[1]), B: float32(f[2]), A: float32(f[3])}
		}
		if pbr.MetallicFactor != nil {
			metallic = float32(*pbr.MetallicFactor)
		}
		if pbr.RoughnessFactor != nil {
			roughness = float32(*pbr.RoughnessFactor)
		}
		if pbr.BaseColorTexture != nil {
			texture = c.textureRef(pbr.BaseColorTexture.Index)
		}
	}
	emissive := Color{
		R: float32(src.EmissiveFactor[0]),
		G: float32(src.EmissiveFactor[1]),
		B: float32(src.EmissiveFactor[2]),
		A: 1,
	}

	m.Properties = []ShaderProperty{
		{Name: "_Color", Kind: ShaderPropertyColor, Color: base},
		{Name: "_MainTex", Kind: ShaderPropertyTexture, Texture: texture},
		{Name: "_Metallic", Kind: ShaderPropertyRange, Float: metallic},
		{Name: "_Glossiness", Kind: ShaderPropertyRange, Float: 1 - roughness},
		{Name: "_EmissionColor", Kind: ShaderPropertyColor, Color: emissive},
	}
	if src.AlphaMode == gltf.AlphaMask {
		cutoff := float32(0.5)
		if src.AlphaCutoff != nil {
			cutoff = float32(*src.AlphaCutoff)
		}
		m.Properties = append(m.Properties, ShaderProperty{Name: "_Cutoff", Kind: ShaderPropertyRange, Float: cutoff})
	}
	cull := float32(CULL_BACK)
	if src.DoubleSided {
		cull = CULL_OFF
	}
	m.Properties = append(m.Properties, ShaderProperty{Name: "_Cull", Kind: ShaderPropertyFloat, Float: cull})
	return m
}
