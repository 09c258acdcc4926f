package generator

import (
	"context"
	"fmt"
	"strings"
)

// MockLLM 一个简单的占位实现，便于本地调试，不调用外部模型。
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, apiKey string, prompt Prompt) (string, error) {
	if apiKey == "" {
		return "", ValidationError("请输入API密钥")
	}
	// 从用户消息里取出场景，拼出三条示例文案。
	scene := "生活"
	for _, line := range strings.Split(prompt.User, "\n") {
		if v, ok := strings.CutPrefix(line, "场景："); ok && v != "" {
			scene = v
		}
	}
	emojis := []string{"✨", "🎉", "🌿"}
	var sb strings.Builder
	for i, e := range emojis {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%d. %s 今天的%s，值得记录一下", i+1, e, scene))
	}
	return sb.String(), nil
}
