package staple

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrNoOutputPath 未选择输出路径, 静默放弃
	ErrNoOutputPath = errors.New("no output path")
	// ErrInvalidSelection 材质导出的输入不是材质
	ErrInvalidSelection = errors.New("invalid asset: you need to select a material")
	// ErrUnknownFormat 无法识别的输入格式
	ErrUnknownFormat = errors.New("unknown input format")
)

func SceneMarshal(wt io.Writer, objects []SceneObject) error {
	if objects == nil {
		objects = []SceneObject{}
	}
	buf, err := marshalIndent(objects)
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	_, err = wt.Write(buf)
	return err
}

func SceneUnMarshal(rd io.Reader) ([]SceneObject, error) {
	var objects []SceneObject
	if err := json.NewDecoder(rd).Decode(&objects); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return objects, nil
}

func MaterialMarshal(wt io.Writer, mtl *MaterialMetadata) error {
	if mtl == nil {
		return ErrInvalidSelection
	}
	buf, err := marshalIndent(mtl)
	if err != nil {
		return fmt.Errorf("encode material: %w", err)
	}
	_, err = wt.Write(buf)
	return err
}

func MaterialUnMarshal(rd io.Reader) (*MaterialMetadata, error) {
	mtl := &MaterialMetadata{}
	if err := json.NewDecoder(rd).Decode(mtl); err != nil {
		return nil, fmt.Errorf("decode material: %w", err)
	}
	return mtl, nil
}

// SceneWriteTo 整个文档序列化完成后一次写入
func SceneWriteTo(path string, objects []SceneObject) error {
	if path == "" {
		return ErrNoOutputPath
	}
	if objects == nil {
		objects = []SceneObject{}
	}
	buf, err := marshalIndent(objects)
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}

func SceneReadFrom(path string) ([]SceneObject, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()
	return SceneUnMarshal(f)
}

func MaterialWriteTo(path string, mtl *MaterialMetadata) error {
	if path == "" {
		return ErrNoOutputPath
	}
	if mtl == nil {
		return ErrInvalidSelection
	}
	buf, err := marshalIndent(mtl)
	if err != nil {
		return fmt.Errorf("encode material: %w", err)
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return fmt.Errorf("write material: %w", err)
	}
	return nil
}

func MaterialReadFrom(path string) (*MaterialMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open material: %w", err)
	}
	defer f.Close()
	return MaterialUnMarshal(f)
}
