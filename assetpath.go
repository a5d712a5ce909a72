package staple

import (
	"path"
	"strings"
)

// AssetPath 资源的工程相对路径
func AssetPath(ref *AssetRef) string {
	if ref == nil {
		return ""
	}
	return ref.Path
}

// StapleAssetPath 子资源路径: 材质改写文件名, 网格追加 ":名称"
func StapleAssetPath(ref *AssetRef) string {
	p := AssetPath(ref)
	if p == "" {
		return p
	}
	if !ref.Main {
		dir, fileName := path.Split(strings.ReplaceAll(p, "\\", "/"))
		if ref.Kind == AssetKindMaterial {
			fileName = ref.Name + MATERIALEXT
		}
		p = path.Join(dir, fileName)
		if ref.Kind == AssetKindMesh {
			p += ":" + ref.Name
		}
		return p
	}

	if ref.Kind == AssetKindMaterial && strings.HasSuffix(p, ".mat") {
		return p + "erial"
	}
	return p
}
