package generator

import (
	"context"
	"time"
)

// LLMClient 抽象大模型客户端，便于替换/Mock。apiKey 随每次请求传入。
type LLMClient interface {
	Complete(ctx context.Context, apiKey string, prompt Prompt) (string, error)
}

// LLMSettings 提供给具体实现的基础配置。
type LLMSettings struct {
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int64
	Timeout     time.Duration
	// InsecureSkipVerify 关闭证书校验，仅用于兼容旧行为或测试，默认 false。
	InsecureSkipVerify bool
}

const (
	DefaultBaseURL     = "https://api.moonshot.cn/v1/"
	DefaultModel       = "moonshot-v1-8k"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 300
	DefaultTimeout     = 30 * time.Second
)

// DefaultLLMSettings 返回 Moonshot 的默认参数。
func DefaultLLMSettings() LLMSettings {
	return LLMSettings{
		Model:       DefaultModel,
		BaseURL:     DefaultBaseURL,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Timeout:     DefaultTimeout,
	}
}
