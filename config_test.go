package staple

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, src string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "staple.toml")
	require.NoError(t, os.WriteFile(file, []byte(src), 0644))
	return file
}

// TestLoadConfigDefaults 没有配置文件时使用默认值
func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	opts := cfg.Options(nil)
	assert.Equal(t, DefaultShader, opts.shader())
	assert.Equal(t, DefaultCullProperty, opts.cullProperty())
	assert.False(t, opts.SkipStaticBodies)
}

// TestLoadConfigFile 测试 TOML 配置
func TestLoadConfigFile(t *testing.T) {
	file := writeConfig(t, `
shader = "6a1f0e64-7c5e-4d3b-9d6e-0f8a4f0c2b11"
cull_property = "_CullMode"
synthesize_static_bodies = false
log_level = "debug"

[renames]
_BumpMap = "normalTexture"
`)
	cfg, err := LoadConfig(file)
	require.NoError(t, err)
	assert.Equal(t, "6a1f0e64-7c5e-4d3b-9d6e-0f8a4f0c2b11", cfg.Shader)
	assert.Equal(t, "_CullMode", cfg.CullProperty)
	assert.False(t, cfg.SynthesizeStaticBodies)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, map[string]string{"_BumpMap": "normalTexture"}, cfg.Renames)

	opts := cfg.Options(nil)
	assert.True(t, opts.SkipStaticBodies)
	assert.Equal(t, "normalTexture", opts.rename("_BumpMap"))
	assert.Equal(t, "diffuseColor", opts.rename("_Color"))
}

// TestLoadConfigEnv 环境变量覆盖配置文件
func TestLoadConfigEnv(t *testing.T) {
	file := writeConfig(t, "cull_property = \"_CullMode\"\nlog_level = \"warn\"\n")
	t.Setenv("STAPLE_LOG_LEVEL", "error")
	t.Setenv("STAPLE_SYNTHESIZE_STATIC_BODIES", "false")
	t.Setenv("STAPLE_RENAMES", "_Color:albedo,_MainTex:albedoTexture")

	cfg, err := LoadConfig(file)
	require.NoError(t, err)
	assert.Equal(t, "_CullMode", cfg.CullProperty)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.False(t, cfg.SynthesizeStaticBodies)
	assert.Equal(t, "albedo", cfg.Renames["_Color"])
	assert.Equal(t, "albedoTexture", cfg.Renames["_MainTex"])
}

// TestLoadConfigErrors 测试非法配置
func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad shader", `shader = "not-a-uuid"`},
		{"empty cull property", `cull_property = ""`},
		{"bad log level", `log_level = "loud"`},
		{"unknown key", `shaders = "x"`},
		{"bad toml", `shader = `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.src))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	t.Setenv("STAPLE_SYNTHESIZE_STATIC_BODIES", "maybe")
	_, err = LoadConfig("")
	assert.Error(t, err)
}

// TestNewLogger 测试日志级别
func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := NewLogger("warn", buf)
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "key=value")

	lvl, err := ParseLogLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)
	lvl, err = ParseLogLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	_, err = NewLogger("chatty", buf)
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "chatty"))
}
