package staple

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
)

// Config 导出器配置, 依次来自默认值, TOML 文件, STAPLE_* 环境变量
type Config struct {
	// Shader 材质着色器引用 (UUID)
	Shader string `toml:"shader" env:"STAPLE_SHADER"`
	// CullProperty 剔除模式属性名
	CullProperty string `toml:"cull_property" env:"STAPLE_CULL_PROPERTY"`
	// SynthesizeStaticBodies 为没有刚体的碰撞体补充静态刚体
	SynthesizeStaticBodies bool `toml:"synthesize_static_bodies" env:"STAPLE_SYNTHESIZE_STATIC_BODIES"`
	// Renames 额外的属性改名, 环境变量格式 _From:to,_Other:other
	Renames  map[string]string `toml:"renames" env:"STAPLE_RENAMES"`
	LogLevel string            `toml:"log_level" env:"STAPLE_LOG_LEVEL"`
}

func DefaultConfig() Config {
	return Config{
		Shader:                 DefaultShader,
		CullProperty:           DefaultCullProperty,
		SynthesizeStaticBodies: true,
		LogLevel:               "info",
	}
}

// LoadConfig path 为空时跳过配置文件
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := DecodeConfig(bytes.NewReader(data), &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DecodeConfig 覆盖 cfg 中出现的字段, 未知字段报错
func DecodeConfig(rd io.Reader, cfg *Config) error {
	if err := toml.NewDecoder(rd).DisallowUnknownFields().Decode(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	if _, err := uuid.Parse(c.Shader); err != nil {
		return fmt.Errorf("invalid shader %q: %w", c.Shader, err)
	}
	if strings.TrimSpace(c.CullProperty) == "" {
		return fmt.Errorf("cull property is required")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func (c Config) Options(logger *slog.Logger) Options {
	return Options{
		Shader:           c.Shader,
		CullProperty:     c.CullProperty,
		Renames:          c.Renames,
		SkipStaticBodies: !c.SynthesizeStaticBodies,
		Logger:           logger,
	}
}

// ParseLogLevel 空字符串为 info
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// NewLogger 文本格式日志
func NewLogger(level string, w io.Writer) (*slog.Logger, error) {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
