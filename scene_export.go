package staple

import (
	"log/slog"
)

// nodeAccumulator 单个节点的翻译状态
type nodeAccumulator struct {
	node             *Node
	nativeRigidBody  bool
	emittedRigidBody bool
	synthesizeBodies bool
	components       []SceneComponent
}

func newNodeAccumulator(n *Node, opts Options) *nodeAccumulator {
	return &nodeAccumulator{
		node:             n,
		nativeRigidBody:  n.HasComponent(KindRigidbody),
		synthesizeBodies: !opts.SkipStaticBodies,
		components:       []SceneComponent{},
	}
}

func (a *nodeAccumulator) emit(c SceneComponent) {
	if c.Type == COMPONENT_RIGID_BODY {
		a.emittedRigidBody = true
	}
	a.components = append(a.components, c)
}

// ensureStaticBody 碰撞体没有刚体时补一个静态刚体, 每个节点最多一次
func (a *nodeAccumulator) ensureStaticBody() {
	if !a.synthesizeBodies || a.nativeRigidBody || a.emittedRigidBody {
		return
	}
	c := NewSceneComponent(COMPONENT_RIGID_BODY)
	c.Data["motionType"] = EnumProp(MotionTypeStatic)
	c.Data["mass"] = IntProp(1)
	c.Data["freezeRotationX"] = BoolProp(false)
	c.Data["freezeRotationY"] = BoolProp(false)
	c.Data["freezeRotationZ"] = BoolProp(false)
	c.Data["gravityFactor"] = IntProp(0)
	a.emit(c)
}

type componentTranslator func(acc *nodeAccumulator, c Component)

// componentTranslators 宿主组件到 Staple 组件的映射表
var componentTranslators = map[ComponentKind]componentTranslator{
	KindCamera:              translateCamera,
	KindAudioListener:       translateAudioListener,
	KindAudioSource:         translateAudioSource,
	KindMeshRenderer:        translateMeshRenderer,
	KindSkinnedMeshRenderer: translateSkinnedMeshRenderer,
	KindLight:               translateLight,
	KindBoxCollider:         translateBoxCollider,
	KindSphereCollider:      translateSphereCollider,
	KindCapsuleCollider:     translateCapsuleCollider,
	KindMeshCollider:        translateMeshCollider,
	KindRigidbody:           translateRigidbody,
	KindAnimator:            translateAnimator,
}

type sceneExporter struct {
	opts    Options
	log     *slog.Logger
	counter int
	objects []SceneObject
}

// ExportScene 先序遍历场景森林, ID 从 1 开始, 根节点父 ID 为 0
func ExportScene(scene *Scene, opts Options) []SceneObject {
	e := &sceneExporter{opts: opts, log: opts.logger(), counter: 1, objects: []SceneObject{}}
	if scene == nil {
		return e.objects
	}
	for _, root := range scene.Roots {
		e.iterate(root, 0)
	}
	e.log.Debug("scene exported", "scene", scene.Name, "objects", len(e.objects))
	return e.objects
}

func (e *sceneExporter) iterate(n *Node, parentID int) {
	if n == nil {
		return
	}
	id := e.counter
	e.counter++

	obj := SceneObject{
		Kind:                SceneObjectKindEntity,
		Name:                n.Name,
		ID:                  id,
		Parent:              parentID,
		Layer:               n.Layer,
		Enabled:             n.Active,
		HierarchyVisibility: HierarchyVisibilityNone,
		Transform: SceneObjectTransform{
			Position: NewVector3Holder(n.Transform.Position),
			Rotation: NewVector3Holder(EulerAngles(n.Transform.Rotation)),
			Scale:    NewVector3Holder(n.Transform.Scale),
		},
	}

	acc := newNodeAccumulator(n, e.opts)
	for _, c := range n.Components {
		if isNilComponent(c) {
			continue
		}
		translate, ok := componentTranslators[c.Kind()]
		if !ok {
			e.log.Debug("skip unmapped component", "node", n.Name, "kind", c.Kind().String())
			continue
		}
		translate(acc, c)
	}
	obj.Components = acc.components
	e.objects = append(e.objects, obj)

	for _, child := range n.Children {
		e.iterate(child, id)
	}
}

func translateCamera(acc *nodeAccumulator, c Component) {
	camera, ok := c.(*Camera)
	if !ok || camera == nil {
		return
	}
	clearMode := CameraClearModeSolidColor
	switch camera.ClearFlags {
	case CLEAR_FLAGS_DEPTH:
		clearMode = CameraClearModeDepth
	case CLEAR_FLAGS_NOTHING:
		clearMode = CameraClearModeNone
	}
	cameraType := CameraTypePerspective
	if camera.Orthographic {
		cameraType = CameraTypeOrthographic
	}

	out := NewSceneComponent(COMPONENT_CAMERA)
	out.Data["clearMode"] = EnumProp(clearMode)
	out.Data["cameraType"] = EnumProp(cameraType)
	out.Data["orthographicSize"] = FloatProp(camera.OrthographicSize)
	out.Data["fov"] = FloatProp(camera.FieldOfView)
	out.Data["nearPlane"] = FloatProp(camera.NearClipPlane)
	out.Data["farPlane"] = FloatProp(camera.FarClipPlane)
	out.Data["viewport"] = Vector4Prop(RectHolder(camera.Rect))
	out.Data["depth"] = FloatProp(camera.Depth)
	out.Data["clearColor"] = StringProp(HexColor(camera.BackgroundColor))
	out.Data["cullingLayers"] = IntProp(int64(camera.CullingMask))
	acc.emit(out)
}

func translateAudioListener(acc *nodeAccumulator, c Component) {
	if listener, ok := c.(*AudioListener); !ok || listener == nil {
		return
	}
	acc.emit(NewSceneComponent(COMPONENT_AUDIO_LISTENER))
}

func translateAudioSource(acc *nodeAccumulator, c Component) {
	source, ok := c.(*AudioSource)
	if !ok || source == nil {
		return
	}
	out := NewSceneComponent(COMPONENT_AUDIO_SOURCE)
	out.Data["audioClip"] = StringProp(AssetPath(source.Clip))
	out.Data["volume"] = FloatProp(source.Volume)
	out.Data["pitch"] = FloatProp(source.Pitch)
	out.Data["loop"] = BoolProp(source.Loop)
	out.Data["spatial"] = BoolProp(source.Spatialize)
	out.Data["autoplay"] = BoolProp(source.PlayOnAwake)
	acc.emit(out)
}

func rendererData(out SceneComponent, r RendererSettings) {
	out.Data["enabled"] = BoolProp(r.Enabled)
	out.Data["forceRenderingOff"] = BoolProp(r.ForceRenderingOff)
	out.Data["receiveShadows"] = BoolProp(r.ReceiveShadows)
	out.Data["sortingLayer"] = IntProp(int64(r.SortingLayerID))
	out.Data["sortingOrder"] = IntProp(int64(r.SortingOrder))
}

func materialPaths(refs []*AssetRef) PropsValue {
	paths := make([]string, 0, len(refs))
	for _, m := range refs {
		paths = append(paths, StapleAssetPath(m))
	}
	return StringsProp(paths)
}

func translateMeshRenderer(acc *nodeAccumulator, c Component) {
	renderer, ok := c.(*MeshRenderer)
	if !ok || renderer == nil {
		return
	}
	out := NewSceneComponent(COMPONENT_MESH_RENDERER)
	rendererData(out, renderer.RendererSettings)

	if filter, ok := acc.node.GetComponent(KindMeshFilter).(*MeshFilter); ok && filter != nil {
		out.Data["mesh"] = StringProp(StapleAssetPath(filter.SharedMesh))
	}
	if len(renderer.SharedMaterials) > 0 {
		out.Data["materials"] = materialPaths(renderer.SharedMaterials)
	}
	acc.emit(out)
}

func translateSkinnedMeshRenderer(acc *nodeAccumulator, c Component) {
	renderer, ok := c.(*SkinnedMeshRenderer)
	if !ok || renderer == nil {
		return
	}
	out := NewSceneComponent(COMPONENT_SKINNED_MESH_RENDERER)
	rendererData(out, renderer.RendererSettings)
	out.Data["mesh"] = StringProp(StapleAssetPath(renderer.SharedMesh))

	// 长度取自 Materials, 内容取自 SharedMaterials
	if len(renderer.Materials) > 0 {
		out.Data["materials"] = materialPaths(renderer.SharedMaterials)
	}
	acc.emit(out)
}

func translateLight(acc *nodeAccumulator, c Component) {
	light, ok := c.(*Light)
	if !ok || light == nil {
		return
	}
	lightType := LightTypePoint
	switch light.Type {
	case HOST_LIGHT_DIRECTIONAL:
		lightType = LightTypeDirectional
	case HOST_LIGHT_SPOT:
		lightType = LightTypeSpot
	}
	out := NewSceneComponent(COMPONENT_LIGHT)
	out.Data["type"] = EnumProp(lightType)
	out.Data["color"] = StringProp(HexColor(light.Color))
	acc.emit(out)
}

func translateBoxCollider(acc *nodeAccumulator, c Component) {
	collider, ok := c.(*BoxCollider)
	if !ok || collider == nil {
		return
	}
	out := NewSceneComponent(COMPONENT_BOX_COLLIDER)
	out.Data["size"] = Vector3Prop(NewVector3Holder(collider.Size))
	out.Data["position"] = Vector3Prop(NewVector3Holder(collider.Center))
	out.Data["rotation"] = Vector4Prop(QuaternionHolder(IdentityTransform().Rotation))
	acc.emit(out)
	acc.ensureStaticBody()
}

func translateSphereCollider(acc *nodeAccumulator, c Component) {
	collider, ok := c.(*SphereCollider)
	if !ok || collider == nil {
		return
	}
	out := NewSceneComponent(COMPONENT_SPHERE_COLLIDER)
	out.Data["radius"] = FloatProp(collider.Radius)
	acc.emit(out)
	acc.ensureStaticBody()
}

func translateCapsuleCollider(acc *nodeAccumulator, c Component) {
	collider, ok := c.(*CapsuleCollider)
	if !ok || collider == nil {
		return
	}
	out := NewSceneComponent(COMPONENT_CAPSULE_COLLIDER)
	out.Data["radius"] = FloatProp(collider.Radius)
	out.Data["height"] = FloatProp(collider.Height)
	acc.emit(out)
	acc.ensureStaticBody()
}

func translateMeshCollider(acc *nodeAccumulator, c Component) {
	collider, ok := c.(*MeshCollider)
	if !ok || collider == nil {
		return
	}
	out := NewSceneComponent(COMPONENT_MESH_COLLIDER)
	out.Data["mesh"] = StringProp(StapleAssetPath(collider.SharedMesh))
	acc.emit(out)
	acc.ensureStaticBody()
}

func translateRigidbody(acc *nodeAccumulator, c Component) {
	body, ok := c.(*Rigidbody)
	if !ok || body == nil {
		return
	}
	motion := MotionTypeDynamic
	if body.IsKinematic {
		motion = MotionTypeKinematic
	} else if acc.node.Static {
		motion = MotionTypeStatic
	}
	gravity := int64(0)
	if body.UseGravity {
		gravity = 1
	}
	out := NewSceneComponent(COMPONENT_RIGID_BODY)
	out.Data["motionType"] = EnumProp(motion)
	out.Data["mass"] = FloatProp(body.Mass)
	out.Data["freezeRotationX"] = BoolProp(body.Constraints&CONSTRAINT_FREEZE_ROTATION_X != 0)
	out.Data["freezeRotationY"] = BoolProp(body.Constraints&CONSTRAINT_FREEZE_ROTATION_Y != 0)
	out.Data["freezeRotationZ"] = BoolProp(body.Constraints&CONSTRAINT_FREEZE_ROTATION_Z != 0)
	out.Data["gravityFactor"] = IntProp(gravity)
	acc.emit(out)
}

func translateAnimator(acc *nodeAccumulator, c Component) {
	if animator, ok := c.(*Animator); !ok || animator == nil || !hasSkinnedMeshInHierarchy(acc.node) {
		return
	}
	acc.emit(NewSceneComponent(COMPONENT_SKINNED_MESH_ANIMATOR))
	acc.emit(NewSceneComponent(COMPONENT_SKINNED_MESH_INSTANCE))
	acc.emit(NewSceneComponent(COMPONENT_CULLING_VOLUME))
}

// hasSkinnedMeshInHierarchy 深度优先查找, 不进入未激活的节点
func hasSkinnedMeshInHierarchy(n *Node) bool {
	if n == nil || !n.Active {
		return false
	}
	if n.HasComponent(KindSkinnedMeshRenderer) {
		return true
	}
	for _, child := range n.Children {
		if hasSkinnedMeshInHierarchy(child) {
			return true
		}
	}
	return false
}
