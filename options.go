package staple

import "log/slog"

// Options 导出选项, 零值即默认行为
type Options struct {
	// Shader 材质着色器引用, 为空使用 DefaultShader
	Shader string
	// CullProperty 剔除模式属性名, 为空使用 DefaultCullProperty
	CullProperty string
	// Renames 追加的属性改名表, 覆盖内置条目
	Renames map[string]string
	// SkipStaticBodies 碰撞体不再补充静态刚体
	SkipStaticBodies bool
	Logger           *slog.Logger
}

var defaultRenames = map[string]string{
	"_Color":   "diffuseColor",
	"_MainTex": "diffuseTexture",
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) shader() string {
	if o.Shader == "" {
		return DefaultShader
	}
	return o.Shader
}

func (o Options) cullProperty() string {
	if o.CullProperty == "" {
		return DefaultCullProperty
	}
	return o.CullProperty
}

func (o Options) rename(name string) string {
	if r, ok := o.Renames[name]; ok && r != "" {
		return r
	}
	if r, ok := defaultRenames[name]; ok {
		return r
	}
	return name
}
