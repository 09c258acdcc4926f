// Package config 提供配置加载功能
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"moments_copywriter/generator"
)

// EnvPrefix 环境变量前缀，例如 COPYWRITER_SERVER_ADDR。
const EnvPrefix = "COPYWRITER"

// Config 服务配置。API 密钥不在此处，由用户在页面上填写。
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Moonshot MoonshotConfig `mapstructure:"moonshot"`
	Session  SessionConfig  `mapstructure:"session"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// MoonshotConfig 模型接口参数。
type MoonshotConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int64         `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
	// InsecureSkipVerify 关闭 TLS 证书校验，仅用于兼容旧行为。
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify"`
}

type SessionConfig struct {
	IdleTTL time.Duration `mapstructure:"idle_ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load 按优先级加载：默认值 -> 配置文件(JSON, 可缺省) -> .env -> 环境变量。
// path 为空或文件不存在时只使用默认值和环境变量。
func Load(path string) (Config, error) {
	// .env 不存在不算错误
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")

	v.SetDefault("moonshot.base_url", generator.DefaultBaseURL)
	v.SetDefault("moonshot.model", generator.DefaultModel)
	v.SetDefault("moonshot.temperature", generator.DefaultTemperature)
	v.SetDefault("moonshot.max_tokens", generator.DefaultMaxTokens)
	v.SetDefault("moonshot.timeout", generator.DefaultTimeout.String())
	v.SetDefault("moonshot.insecure_skip_verify", false)

	v.SetDefault("session.idle_ttl", "2h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Validate 检查取值是否可用。
func (c Config) Validate() error {
	if c.Moonshot.Model == "" {
		return errors.New("moonshot.model is required")
	}
	if c.Moonshot.MaxTokens <= 0 {
		return errors.New("moonshot.max_tokens must be positive")
	}
	if c.Moonshot.Timeout <= 0 {
		return errors.New("moonshot.timeout must be positive")
	}
	if c.Session.IdleTTL <= 0 {
		return errors.New("session.idle_ttl must be positive")
	}
	return nil
}

// LLMSettings 转换为生成模块使用的配置。
func (c Config) LLMSettings() generator.LLMSettings {
	return generator.LLMSettings{
		Model:              c.Moonshot.Model,
		BaseURL:            c.Moonshot.BaseURL,
		Temperature:        c.Moonshot.Temperature,
		MaxTokens:          c.Moonshot.MaxTokens,
		Timeout:            c.Moonshot.Timeout,
		InsecureSkipVerify: c.Moonshot.InsecureSkipVerify,
	}
}
