package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	staple "github.com/flywave/go-staple"
)

const (
	commandScene    = "scene"
	commandMaterial = "material"
)

// cliConfig 命令行参数
type cliConfig struct {
	Command    string
	In         string
	Out        string
	Material   string
	ConfigPath string
	LogLevel   string
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage:")
	fmt.Fprintln(w, "  staple-export scene    -in <scene.yaml|.json|.gltf|.glb> -out <Scene"+staple.SCENEEXT+">")
	fmt.Fprintln(w, "  staple-export material -in <material.yaml|.gltf|.glb> [-material NAME] -out <Material"+staple.MATERIALEXT+">")
	fmt.Fprintln(w, "common flags: -config <file.toml> -log-level <debug|info|warn|error>")
}

// parseConfig 第一个参数为子命令
func parseConfig(args []string, stderr io.Writer) (cliConfig, error) {
	if len(args) == 0 {
		usage(stderr)
		return cliConfig{}, errors.New("command is required")
	}
	cfg := cliConfig{Command: args[0]}
	if cfg.Command != commandScene && cfg.Command != commandMaterial {
		usage(stderr)
		return cliConfig{}, fmt.Errorf("unknown command %q", cfg.Command)
	}

	fs := flag.NewFlagSet(cfg.Command, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.In, "in", "", "input host dump or glTF file")
	fs.StringVar(&cfg.Out, "out", "", "output file; empty cancels the export")
	fs.StringVar(&cfg.ConfigPath, "config", "", "TOML configuration file")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "log level, overrides the configuration")
	if cfg.Command == commandMaterial {
		fs.StringVar(&cfg.Material, "material", "", "material name inside a glTF file")
	}
	if err := fs.Parse(args[1:]); err != nil {
		return cliConfig{}, err
	}
	if fs.NArg() > 0 {
		return cliConfig{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if cfg.In == "" {
		return cliConfig{}, errors.New("input path is required")
	}
	return cfg, nil
}

type inputFormat int

const (
	formatDump inputFormat = iota
	formatGltf
)

func detectFormat(file string) (inputFormat, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml", ".json":
		return formatDump, nil
	case ".gltf", ".glb":
		return formatGltf, nil
	}
	return 0, fmt.Errorf("%w: %s", staple.ErrUnknownFormat, file)
}

// run 执行一次导出, 未给出输出路径时静默放弃
func run(ctx context.Context, cfg cliConfig, stderr io.Writer) error {
	settings, err := staple.LoadConfig(cfg.ConfigPath)
	if err != nil {
		return err
	}
	if cfg.LogLevel != "" {
		settings.LogLevel = cfg.LogLevel
	}
	logger, err := staple.NewLogger(settings.LogLevel, stderr)
	if err != nil {
		return err
	}
	opts := settings.Options(logger)

	// 场景没有输出路径时直接放弃, 不读取输入
	if cfg.Command == commandScene && cfg.Out == "" {
		logger.Debug("scene export cancelled", "reason", staple.ErrNoOutputPath.Error())
		return nil
	}

	format, err := detectFormat(cfg.In)
	if err != nil {
		return err
	}

	switch cfg.Command {
	case commandScene:
		return exportScene(ctx, cfg, format, opts, logger)
	case commandMaterial:
		return exportMaterial(ctx, cfg, format, opts, logger)
	}
	return fmt.Errorf("unknown command %q", cfg.Command)
}

func exportScene(ctx context.Context, cfg cliConfig, format inputFormat, opts staple.Options, logger *slog.Logger) error {
	var scene *staple.Scene
	var err error
	switch format {
	case formatGltf:
		g := &staple.GltfToScene{Logger: logger}
		scene, _, err = g.Convert(cfg.In)
	default:
		scene, err = staple.LoadSceneDump(cfg.In)
	}
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	objects := staple.ExportScene(scene, opts)
	if err := staple.SceneWriteTo(cfg.Out, objects); err != nil {
		return err
	}
	logger.Info("scene exported", "scene", scene.Name, "objects", len(objects), "out", cfg.Out)
	return nil
}

func exportMaterial(ctx context.Context, cfg cliConfig, format inputFormat, opts staple.Options, logger *slog.Logger) error {
	var mtl *staple.Material
	switch format {
	case formatGltf:
		g := &staple.GltfToScene{Logger: logger}
		_, materials, err := g.Convert(cfg.In)
		if err != nil {
			return err
		}
		if mtl, err = staple.SelectMaterial(materials, cfg.Material); err != nil {
			return err
		}
	default:
		var err error
		if mtl, err = staple.LoadMaterialDump(cfg.In); err != nil {
			return err
		}
		if cfg.Material != "" && cfg.Material != mtl.Name {
			return staple.ErrInvalidSelection
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	metadata := staple.ExportMaterial(mtl, opts)
	if err := staple.MaterialWriteTo(cfg.Out, metadata); err != nil {
		if errors.Is(err, staple.ErrNoOutputPath) {
			logger.Debug("material export cancelled", "material", mtl.Name)
			return nil
		}
		return err
	}
	logger.Info("material exported", "material", mtl.Name, "parameters", len(metadata.Parameters), "out", cfg.Out)
	return nil
}
