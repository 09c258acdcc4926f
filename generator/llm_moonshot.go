package generator

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"moments_copywriter/logger"
	"moments_copywriter/metrics"
)

// MoonshotLLM implements LLMClient against the OpenAI-compatible Moonshot
// chat completions API using the official openai-go SDK.
type MoonshotLLM struct {
	settings LLMSettings
	http     *http.Client
}

func NewMoonshotLLM(s LLMSettings) (*MoonshotLLM, error) {
	if s.Model == "" {
		return nil, errors.New("llm model is required")
	}
	if s.BaseURL == "" {
		s.BaseURL = DefaultBaseURL
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	if s.MaxTokens <= 0 {
		return nil, errors.New("llm max_tokens must be positive")
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		MinVersion: tls.VersionTLS12,
		// 旧版本关闭了证书校验，这里只在显式配置时保留该行为。
		InsecureSkipVerify: s.InsecureSkipVerify, //nolint:gosec
	}

	return &MoonshotLLM{
		settings: s,
		http:     &http.Client{Timeout: s.Timeout, Transport: transport},
	}, nil
}

// Settings 返回生效中的配置。
func (m *MoonshotLLM) Settings() LLMSettings {
	return m.settings
}

func (m *MoonshotLLM) Complete(ctx context.Context, apiKey string, prompt Prompt) (string, error) {
	if apiKey == "" {
		return "", ValidationError("请输入API密钥")
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(m.settings.BaseURL),
		option.WithHTTPClient(m.http),
		option.WithMaxRetries(0),
	)

	var msgs []openai.ChatCompletionMessageParamUnion
	for _, msg := range prompt.Messages() {
		switch msg.Role {
		case "system":
			msgs = append(msgs, openai.SystemMessage(msg.Content))
		default:
			msgs = append(msgs, openai.UserMessage(msg.Content))
		}
	}

	start := time.Now()
	var raw *http.Response
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(m.settings.Model),
		Messages:    msgs,
		Temperature: openai.Float(m.settings.Temperature),
		MaxTokens:   openai.Int(m.settings.MaxTokens),
	}, option.WithResponseInto(&raw))

	text, err := m.classify(resp, raw, err)
	metrics.ObserveLLMCall(m.settings.Model, string(resultKind(err)), time.Since(start))
	if err != nil {
		logger.Warn(ctx, "moonshot completion failed", "model", m.settings.Model, "kind", KindOf(err), "error", err.Error())
		return "", err
	}
	logger.Debug(ctx, "moonshot completion done", "model", m.settings.Model, "duration", time.Since(start))
	return text, nil
}

func (m *MoonshotLLM) classify(resp *openai.ChatCompletion, raw *http.Response, err error) (string, error) {
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", HTTPStatusError(apiErr.StatusCode)
		}
		return "", TransportError(err)
	}
	if raw != nil && raw.StatusCode != http.StatusOK {
		return "", HTTPStatusError(raw.StatusCode)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ResponseShapeError("missing choices[0]")
	}
	return resp.Choices[0].Message.Content, nil
}

func resultKind(err error) ErrorKind {
	if err == nil {
		return "ok"
	}
	return KindOf(err)
}

func (m *MoonshotLLM) String() string {
	return fmt.Sprintf("moonshot(%s @ %s)", m.settings.Model, m.settings.BaseURL)
}
