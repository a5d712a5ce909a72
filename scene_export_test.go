package staple

import (
	"testing"

	"github.com/flywave/go3d/vec3"
)

func meshRef(file, name string) *AssetRef {
	return &AssetRef{Path: file, Name: name, Kind: AssetKindMesh}
}

func materialRef(file, name string) *AssetRef {
	return &AssetRef{Path: file, Name: name, Kind: AssetKindMaterial}
}

func sceneOf(roots ...*Node) *Scene {
	return &Scene{Name: "Test", Roots: roots}
}

func findObject(t *testing.T, objs []SceneObject, name string) SceneObject {
	t.Helper()
	for _, o := range objs {
		if o.Name == name {
			return o
		}
	}
	t.Fatalf("object %s not found", name)
	return SceneObject{}
}

func mustComponent(t *testing.T, o SceneObject, typeName string) SceneComponent {
	t.Helper()
	c, ok := o.Component(typeName)
	if !ok {
		t.Fatalf("%s has no %s component", o.Name, typeName)
	}
	return c
}

func propString(t *testing.T, c SceneComponent, key string) string {
	t.Helper()
	s, ok := c.Data[key].AsString()
	if !ok {
		t.Fatalf("%s.%s is not a string: %#v", c.Type, key, c.Data[key])
	}
	return s
}

// TestExportSceneTraversal 记录数等于节点数, 先序且父 ID 有效
func TestExportSceneTraversal(t *testing.T) {
	a := NewNode("A").AddChild(NewNode("B").AddChild(NewNode("B1")), NewNode("C"))
	d := NewNode("D")
	scene := sceneOf(a, d)

	objs := ExportScene(scene, Options{})
	if len(objs) != scene.NodeCount() {
		t.Fatalf("expected %d records, got %d", scene.NodeCount(), len(objs))
	}

	wantOrder := []string{"A", "B", "B1", "C", "D"}
	wantParent := []int{0, 1, 2, 1, 0}
	seen := map[int]bool{0: true}
	for i, o := range objs {
		if o.Name != wantOrder[i] {
			t.Errorf("record %d = %s, want %s", i, o.Name, wantOrder[i])
		}
		if o.ID != i+1 {
			t.Errorf("%s ID = %d, want %d", o.Name, o.ID, i+1)
		}
		if o.Parent != wantParent[i] {
			t.Errorf("%s parent = %d, want %d", o.Name, o.Parent, wantParent[i])
		}
		if !seen[o.Parent] {
			t.Errorf("%s parent %d not emitted before it", o.Name, o.Parent)
		}
		seen[o.ID] = true
		if o.Kind != SceneObjectKindEntity || o.HierarchyVisibility != HierarchyVisibilityNone {
			t.Errorf("%s unexpected kind/visibility", o.Name)
		}
	}
}

// TestExportSceneEmpty 空场景输出空列表
func TestExportSceneEmpty(t *testing.T) {
	if objs := ExportScene(nil, Options{}); objs == nil || len(objs) != 0 {
		t.Errorf("nil scene = %#v", objs)
	}
	if objs := ExportScene(&Scene{}, Options{}); objs == nil || len(objs) != 0 {
		t.Errorf("empty scene = %#v", objs)
	}
}

// TestExportSceneNodeFields 测试节点字段与变换
func TestExportSceneNodeFields(t *testing.T) {
	n := NewNode("Door")
	n.Active = false
	n.Layer = "Interactable"
	n.Transform.Position = vec3.T{1, 2, 3}
	n.Transform.Rotation = axisAngle(vec3.T{1, 0, 0}, -90)
	n.Transform.Scale = vec3.T{2, 2, 2}

	o := ExportScene(sceneOf(n), Options{})[0]
	if o.Enabled || o.Layer != "Interactable" {
		t.Errorf("enabled=%v layer=%s", o.Enabled, o.Layer)
	}
	if o.Transform.Position != (Vector3Holder{1, 2, 3}) || o.Transform.Scale != (Vector3Holder{2, 2, 2}) {
		t.Errorf("transform = %+v", o.Transform)
	}
	r := o.Transform.Rotation
	if !nearAngle(r.X, 270) || !nearAngle(r.Y, 0) || !nearAngle(r.Z, 0) {
		t.Errorf("rotation = %+v", r)
	}
	if len(o.Components) != 0 || o.Components == nil {
		t.Errorf("components = %#v", o.Components)
	}
}

// TestExportCamera 测试相机映射
func TestExportCamera(t *testing.T) {
	tests := []struct {
		flags int
		want  string
	}{
		{CLEAR_FLAGS_SKYBOX, "SolidColor"},
		{CLEAR_FLAGS_SOLID_COLOR, "SolidColor"},
		{CLEAR_FLAGS_DEPTH, "Depth"},
		{CLEAR_FLAGS_NOTHING, "None"},
	}
	for _, tt := range tests {
		cam := NewCamera()
		cam.ClearFlags = tt.flags
		cam.Orthographic = true
		cam.BackgroundColor = Color{R: 1, A: 1}
		cam.Rect = Rect{X: 0.25, Y: 0, Width: 0.5, Height: 1}
		o := ExportScene(sceneOf(NewNode("Camera").AddComponent(cam)), Options{})[0]
		c := mustComponent(t, o, COMPONENT_CAMERA)

		if got := propString(t, c, "clearMode"); got != tt.want {
			t.Errorf("flags %d: clearMode = %s, want %s", tt.flags, got, tt.want)
		}
		if got := propString(t, c, "cameraType"); got != "Orthographic" {
			t.Errorf("cameraType = %s", got)
		}
		if got := propString(t, c, "clearColor"); got != "#FF0000FF" {
			t.Errorf("clearColor = %s", got)
		}
		if v := c.Data["viewport"].Value.(Vector4Holder); v != (Vector4Holder{0.25, 0, 0.75, 1}) {
			t.Errorf("viewport = %+v", v)
		}
		if m, _ := c.Data["cullingLayers"].AsInt(); m != -1 {
			t.Errorf("cullingLayers = %d", m)
		}
		for _, key := range []string{"orthographicSize", "fov", "nearPlane", "farPlane", "depth"} {
			if _, ok := c.Data[key].AsFloat(); !ok {
				t.Errorf("missing %s", key)
			}
		}
	}
}

// TestExportAudio 测试音频组件
func TestExportAudio(t *testing.T) {
	src := &AudioSource{Clip: &AssetRef{Path: "Assets/Audio/Theme.ogg", Kind: AssetKindAudioClip, Main: true}, Volume: 0.5, Pitch: 1, Loop: true}
	n := NewNode("Speaker").AddComponent(&AudioListener{}, src)
	o := ExportScene(sceneOf(n), Options{})[0]

	if len(mustComponent(t, o, COMPONENT_AUDIO_LISTENER).Data) != 0 {
		t.Error("audio listener must carry no data")
	}
	c := mustComponent(t, o, COMPONENT_AUDIO_SOURCE)
	if got := propString(t, c, "audioClip"); got != "Assets/Audio/Theme.ogg" {
		t.Errorf("audioClip = %s", got)
	}
	if loop, _ := c.Data["loop"].AsBool(); !loop {
		t.Error("loop not exported")
	}
	if auto, _ := c.Data["autoplay"].AsBool(); auto {
		t.Error("autoplay must follow playOnAwake")
	}

	empty := ExportScene(sceneOf(NewNode("Silent").AddComponent(&AudioSource{})), Options{})[0]
	if got := propString(t, mustComponent(t, empty, COMPONENT_AUDIO_SOURCE), "audioClip"); got != "" {
		t.Errorf("nil clip = %q", got)
	}
}

// TestExportMeshRenderer 测试网格渲染器
func TestExportMeshRenderer(t *testing.T) {
	renderer := &MeshRenderer{
		RendererSettings: RendererSettings{Enabled: true, ReceiveShadows: true, SortingOrder: 3},
		SharedMaterials:  []*AssetRef{materialRef("Assets/Models/Model.fbx", "Skin"), {Path: "Assets/Materials/Eye.mat", Kind: AssetKindMaterial, Main: true}},
	}
	withFilter := NewNode("Body").AddComponent(&MeshFilter{SharedMesh: meshRef("Assets/Models/Model.fbx", "Eye")}, renderer)
	noFilter := NewNode("Bare").AddComponent(&MeshRenderer{})

	objs := ExportScene(sceneOf(withFilter, noFilter), Options{})
	c := mustComponent(t, objs[0], COMPONENT_MESH_RENDERER)
	if got := propString(t, c, "mesh"); got != "Assets/Models/Model.fbx:Eye" {
		t.Errorf("mesh = %s", got)
	}
	mats, ok := c.Data["materials"].AsStrings()
	if !ok || len(mats) != 2 || mats[0] != "Assets/Models/Skin.material" || mats[1] != "Assets/Materials/Eye.material" {
		t.Errorf("materials = %v", mats)
	}
	if order, _ := c.Data["sortingOrder"].AsInt(); order != 3 {
		t.Errorf("sortingOrder = %d", order)
	}
	if len(objs[0].Components) != 1 {
		t.Errorf("mesh filter must not be emitted, got %d components", len(objs[0].Components))
	}

	bare := mustComponent(t, objs[1], COMPONENT_MESH_RENDERER)
	if _, ok := bare.Data["mesh"]; ok {
		t.Error("mesh emitted without mesh filter")
	}
	if _, ok := bare.Data["materials"]; ok {
		t.Error("materials emitted for empty list")
	}
}

// TestExportSkinnedMeshRenderer 长度看 Materials, 内容取 SharedMaterials
func TestExportSkinnedMeshRenderer(t *testing.T) {
	shared := []*AssetRef{materialRef("Assets/Models/Hero.fbx", "Cloth")}
	withMaterials := &SkinnedMeshRenderer{
		SharedMesh:      meshRef("Assets/Models/Hero.fbx", "Body"),
		Materials:       []*AssetRef{materialRef("Assets/Models/Hero.fbx", "Instance")},
		SharedMaterials: shared,
	}
	noMaterials := &SkinnedMeshRenderer{SharedMesh: meshRef("Assets/Models/Hero.fbx", "Body"), SharedMaterials: shared}

	objs := ExportScene(sceneOf(NewNode("A").AddComponent(withMaterials), NewNode("B").AddComponent(noMaterials)), Options{})
	c := mustComponent(t, objs[0], COMPONENT_SKINNED_MESH_RENDERER)
	if got := propString(t, c, "mesh"); got != "Assets/Models/Hero.fbx:Body" {
		t.Errorf("mesh = %s", got)
	}
	if mats, _ := c.Data["materials"].AsStrings(); len(mats) != 1 || mats[0] != "Assets/Models/Cloth.material" {
		t.Errorf("materials = %v", mats)
	}
	c = mustComponent(t, objs[1], COMPONENT_SKINNED_MESH_RENDERER)
	if _, ok := c.Data["materials"]; ok {
		t.Error("materials emitted when Materials is empty")
	}
	if _, ok := c.Data["mesh"]; !ok {
		t.Error("skinned mesh must always be emitted")
	}
}

// TestExportLight 测试灯光类型映射
func TestExportLight(t *testing.T) {
	tests := []struct {
		host int
		want string
	}{
		{HOST_LIGHT_DIRECTIONAL, "Directional"},
		{HOST_LIGHT_SPOT, "Spot"},
		{HOST_LIGHT_POINT, "Point"},
		{HOST_LIGHT_AREA, "Point"},
	}
	for _, tt := range tests {
		o := ExportScene(sceneOf(NewNode("Light").AddComponent(&Light{Type: tt.host, Color: Color{1, 1, 1, 1}})), Options{})[0]
		c := mustComponent(t, o, COMPONENT_LIGHT)
		if got := propString(t, c, "type"); got != tt.want {
			t.Errorf("host %d: type = %s, want %s", tt.host, got, tt.want)
		}
		if got := propString(t, c, "color"); got != "#FFFFFFFF" {
			t.Errorf("color = %s", got)
		}
	}
}

// TestExportCollidersSynthesizeOneBody 多个碰撞体只补一个静态刚体
func TestExportCollidersSynthesizeOneBody(t *testing.T) {
	n := NewNode("Wall").AddComponent(
		&BoxCollider{Size: vec3.T{1, 2, 1}, Center: vec3.T{0, 1, 0}},
		&SphereCollider{Radius: 0.5},
		&CapsuleCollider{Radius: 0.5, Height: 2},
		&MeshCollider{SharedMesh: meshRef("Assets/Models/Wall.fbx", "Collision")},
	)
	o := ExportScene(sceneOf(n), Options{})[0]
	if got := o.CountComponents(COMPONENT_RIGID_BODY); got != 1 {
		t.Fatalf("expected 1 synthesized body, got %d", got)
	}
	wantOrder := []string{
		COMPONENT_BOX_COLLIDER, COMPONENT_RIGID_BODY, COMPONENT_SPHERE_COLLIDER,
		COMPONENT_CAPSULE_COLLIDER, COMPONENT_MESH_COLLIDER,
	}
	for i, c := range o.Components {
		if c.Type != wantOrder[i] {
			t.Errorf("component %d = %s, want %s", i, c.Type, wantOrder[i])
		}
	}

	body := mustComponent(t, o, COMPONENT_RIGID_BODY)
	if got := propString(t, body, "motionType"); got != "Static" {
		t.Errorf("motionType = %s", got)
	}
	if mass, _ := body.Data["mass"].AsFloat(); mass != 1 {
		t.Errorf("mass = %v", mass)
	}
	if g, _ := body.Data["gravityFactor"].AsInt(); g != 0 {
		t.Errorf("gravityFactor = %d", g)
	}
	for _, key := range []string{"freezeRotationX", "freezeRotationY", "freezeRotationZ"} {
		if v, ok := body.Data[key].AsBool(); !ok || v {
			t.Errorf("%s = %v", key, v)
		}
	}

	box := mustComponent(t, o, COMPONENT_BOX_COLLIDER)
	if v := box.Data["rotation"].Value.(Vector4Holder); v != (Vector4Holder{0, 0, 0, 1}) {
		t.Errorf("box rotation = %+v", v)
	}
	if v := box.Data["position"].Value.(Vector3Holder); v != (Vector3Holder{0, 1, 0}) {
		t.Errorf("box position = %+v", v)
	}
	if got := propString(t, mustComponent(t, o, COMPONENT_MESH_COLLIDER), "mesh"); got != "Assets/Models/Wall.fbx:Collision" {
		t.Errorf("mesh collider = %s", got)
	}
}

// TestExportCollidersSkipStaticBodies 关闭补充刚体
func TestExportCollidersSkipStaticBodies(t *testing.T) {
	n := NewNode("Wall").AddComponent(&BoxCollider{Size: vec3.T{1, 1, 1}})
	o := ExportScene(sceneOf(n), Options{SkipStaticBodies: true})[0]
	if got := o.CountComponents(COMPONENT_RIGID_BODY); got != 0 {
		t.Errorf("expected no rigid body, got %d", got)
	}
}

// TestExportRigidbody 测试刚体运动类型
func TestExportRigidbody(t *testing.T) {
	tests := []struct {
		name       string
		kinematic  bool
		static     bool
		gravity    bool
		wantMotion string
		wantGrav   int64
	}{
		{"dynamic", false, false, true, "Dynamic", 1},
		{"kinematic", true, false, false, "Kinematic", 0},
		{"kinematic static", true, true, true, "Kinematic", 1},
		{"static", false, true, false, "Static", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNode("Body").AddComponent(
				&SphereCollider{Radius: 1},
				&Rigidbody{IsKinematic: tt.kinematic, Mass: 3, UseGravity: tt.gravity, Constraints: CONSTRAINT_FREEZE_ROTATION_Y | CONSTRAINT_FREEZE_POSITION_X},
			)
			n.Static = tt.static
			o := ExportScene(sceneOf(n), Options{})[0]
			if got := o.CountComponents(COMPONENT_RIGID_BODY); got != 1 {
				t.Fatalf("expected only the native body, got %d", got)
			}
			body := mustComponent(t, o, COMPONENT_RIGID_BODY)
			if got := propString(t, body, "motionType"); got != tt.wantMotion {
				t.Errorf("motionType = %s, want %s", got, tt.wantMotion)
			}
			if g, _ := body.Data["gravityFactor"].AsInt(); g != tt.wantGrav {
				t.Errorf("gravityFactor = %d", g)
			}
			if m, _ := body.Data["mass"].AsFloat(); m != 3 {
				t.Errorf("mass = %v", m)
			}
			x, _ := body.Data["freezeRotationX"].AsBool()
			y, _ := body.Data["freezeRotationY"].AsBool()
			if x || !y {
				t.Errorf("freeze flags x=%v y=%v", x, y)
			}
		})
	}
}

// TestExportAnimator 只有层级内存在蒙皮网格时输出动画组件
func TestExportAnimator(t *testing.T) {
	skinned := NewNode("Mesh").AddComponent(&SkinnedMeshRenderer{SharedMesh: meshRef("Assets/Hero.fbx", "Body")})
	withSkin := NewNode("Hero").AddComponent(&Animator{}).AddChild(NewNode("Armature").AddChild(skinned))

	hidden := NewNode("Mesh").AddComponent(&SkinnedMeshRenderer{})
	hidden.Active = false
	inactiveSkin := NewNode("Ghost").AddComponent(&Animator{}).AddChild(hidden)

	noSkin := NewNode("Door").AddComponent(&Animator{})

	objs := ExportScene(sceneOf(withSkin, inactiveSkin, noSkin), Options{})
	hero := findObject(t, objs, "Hero")
	for _, typ := range []string{COMPONENT_SKINNED_MESH_ANIMATOR, COMPONENT_SKINNED_MESH_INSTANCE, COMPONENT_CULLING_VOLUME} {
		if hero.CountComponents(typ) != 1 {
			t.Errorf("hero missing %s", typ)
		}
	}
	if n := len(findObject(t, objs, "Ghost").Components); n != 0 {
		t.Errorf("inactive skinned child produced %d components", n)
	}
	if n := len(findObject(t, objs, "Door").Components); n != 0 {
		t.Errorf("animator without skinned mesh produced %d components", n)
	}
}

// TestExportSkipsUnmapped 未映射与空组件被跳过
func TestExportSkipsUnmapped(t *testing.T) {
	n := NewNode("Misc").AddComponent(nil, &UnknownComponent{TypeName: "ParticleSystem"}, &MeshFilter{}, &AudioListener{})
	o := ExportScene(sceneOf(n), Options{})[0]
	if len(o.Components) != 1 || o.Components[0].Type != COMPONENT_AUDIO_LISTENER {
		t.Errorf("components = %#v", o.Components)
	}
}

// TestExportSkipsNilComponents 持有空指针的组件被跳过, 不影响刚体补全
func TestExportSkipsNilComponents(t *testing.T) {
	kinds := []Component{
		(*Camera)(nil), (*AudioListener)(nil), (*AudioSource)(nil), (*MeshFilter)(nil),
		(*MeshRenderer)(nil), (*SkinnedMeshRenderer)(nil), (*Light)(nil), (*SphereCollider)(nil),
		(*CapsuleCollider)(nil), (*MeshCollider)(nil), (*Rigidbody)(nil), (*Animator)(nil),
	}
	n := NewNode("Broken").AddComponent(kinds...)
	n.AddComponent(nil, &BoxCollider{Size: vec3.T{1, 1, 1}})

	objs := ExportScene(sceneOf(n), Options{})
	if len(objs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(objs))
	}
	got := objs[0].Components
	if len(got) != 2 || got[0].Type != COMPONENT_BOX_COLLIDER || got[1].Type != COMPONENT_RIGID_BODY {
		t.Fatalf("components = %#v", got)
	}
	if s := propString(t, got[1], "motionType"); s != "Static" {
		t.Errorf("motionType = %s", s)
	}
	if n.HasComponent(KindRigidbody) {
		t.Error("nil rigidbody must not count as a native body")
	}
}
