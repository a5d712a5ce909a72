package staple

const SCENEEXT string = ".scene"
const MATERIALEXT string = ".material"

// DefaultShader Staple 默认着色器引用
const DefaultShader string = "1ca9a72c-161e-44db-ad76-bf0ae432f78b"

// DefaultCullProperty 剔除模式着色器属性
const DefaultCullProperty string = "_Cull"

const (
	COMPONENT_CAMERA                = "Staple.Camera"
	COMPONENT_AUDIO_LISTENER        = "Staple.AudioListener"
	COMPONENT_AUDIO_SOURCE          = "Staple.AudioSource"
	COMPONENT_MESH_RENDERER         = "Staple.MeshRenderer"
	COMPONENT_SKINNED_MESH_RENDERER = "Staple.SkinnedMeshRenderer"
	COMPONENT_LIGHT                 = "Staple.Light"
	COMPONENT_BOX_COLLIDER          = "Staple.BoxCollider3D"
	COMPONENT_SPHERE_COLLIDER       = "Staple.SphereCollider3D"
	COMPONENT_CAPSULE_COLLIDER      = "Staple.CapsuleCollider3D"
	COMPONENT_MESH_COLLIDER         = "Staple.MeshCollider3D"
	COMPONENT_RIGID_BODY            = "Staple.RigidBody3D"
	COMPONENT_SKINNED_MESH_ANIMATOR = "Staple.SkinnedMeshAnimator"
	COMPONENT_SKINNED_MESH_INSTANCE = "Staple.SkinnedMeshInstance"
	COMPONENT_CULLING_VOLUME        = "Staple.CullingVolume"
)

// 宿主相机清除标志
const (
	CLEAR_FLAGS_SKYBOX = iota + 1
	CLEAR_FLAGS_SOLID_COLOR
	CLEAR_FLAGS_DEPTH
	CLEAR_FLAGS_NOTHING
)

// 宿主灯光类型
const (
	HOST_LIGHT_SPOT = iota
	HOST_LIGHT_DIRECTIONAL
	HOST_LIGHT_POINT
	HOST_LIGHT_AREA
)

// 宿主剔除模式
const (
	CULL_OFF   = 0
	CULL_FRONT = 1
	CULL_BACK  = 2
)

// 刚体约束位
const (
	CONSTRAINT_FREEZE_POSITION_X = 1 << (iota + 1)
	CONSTRAINT_FREEZE_POSITION_Y
	CONSTRAINT_FREEZE_POSITION_Z
	CONSTRAINT_FREEZE_ROTATION_X
	CONSTRAINT_FREEZE_ROTATION_Y
	CONSTRAINT_FREEZE_ROTATION_Z
)
