package staple

// cullingModeFromHost 宿主剔除模式映射
func cullingModeFromHost(v int) CullingMode {
	switch v {
	case CULL_OFF:
		return CullingModeNone
	case CULL_FRONT:
		return CullingModeFront
	case CULL_BACK:
		return CullingModeBack
	}
	return CullingModeNone
}

func shaderPropertyParameter(p ShaderProperty) (MaterialParameter, bool) {
	switch p.Kind {
	case ShaderPropertyColor:
		return ColorParameter{Value: p.Color.To32()}, true
	case ShaderPropertyFloat, ShaderPropertyRange:
		return FloatParameter{Value: p.Float}, true
	case ShaderPropertyInt:
		return IntParameter{Value: p.Int}, true
	case ShaderPropertyTexture:
		return TextureParameter{Path: AssetPath(p.Texture)}, true
	case ShaderPropertyVector:
		return Vector4Parameter{Value: NewVector4Holder(p.Vector)}, true
	}
	return nil, false
}

// ExportMaterial 导出材质, 输入为空时返回 nil
func ExportMaterial(m *Material, opts Options) *MaterialMetadata {
	if m == nil {
		return nil
	}
	log := opts.logger()
	out := NewMaterialMetadata()
	out.Shader = opts.shader()
	cull := opts.cullProperty()

	for _, p := range m.Properties {
		if p.Name == cull {
			// 只有 Float 读浮点值, 其余类型 (含 Range) 读整数值
			v := int(p.Int)
			if p.Kind == ShaderPropertyFloat {
				v = int(p.Float)
			}
			out.CullingMode = cullingModeFromHost(v)
			continue
		}

		param, ok := shaderPropertyParameter(p)
		if !ok {
			log.Debug("skip shader property", "material", m.Name, "property", p.Name, "kind", p.Kind.String())
			continue
		}
		name := opts.rename(p.Name)
		if _, dup := out.Parameters[name]; dup {
			log.Debug("duplicate material parameter", "material", m.Name, "parameter", name, "property", p.Name)
			continue
		}
		out.Parameters[name] = param
	}
	return out
}
