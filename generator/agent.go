package generator

import (
	"context"
	"errors"
	"strings"
)

// Agent 负责校验输入、拼装提示词并调用模型生成文案。
type Agent struct {
	llm LLMClient
}

func NewAgent(llm LLMClient) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	return &Agent{llm: llm}, nil
}

// Generate 同步调用一次模型，不重试。密钥为空时直接返回校验错误，不发起请求。
func (a *Agent) Generate(ctx context.Context, req Request) (Result, error) {
	if err := Validate(req); err != nil {
		return Result{}, err
	}

	prompt := BuildPrompt(req.Scene, req.Style, req.Extra)
	raw, err := a.llm.Complete(ctx, req.APIKey, prompt)
	if err != nil {
		var ge *GenerationError
		if errors.As(err, &ge) {
			return Result{}, err
		}
		return Result{}, TransportError(err)
	}
	return PostProcess(raw)
}

// Validate 检查本地输入。
func Validate(req Request) error {
	if strings.TrimSpace(req.APIKey) == "" {
		return ValidationError("请输入API密钥")
	}
	if !req.Scene.Valid() {
		return ValidationError("请选择有效的场景")
	}
	if !req.Style.Valid() {
		return ValidationError("请选择有效的风格")
	}
	return nil
}
