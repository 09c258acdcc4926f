package generator

import (
	"context"
	"sync/atomic"
	"testing"
)

// --- Mocks ---

type mockLLM struct {
	calls        atomic.Int32
	completeFunc func(ctx context.Context, apiKey string, prompt Prompt) (string, error)
}

func (m *mockLLM) Complete(ctx context.Context, apiKey string, prompt Prompt) (string, error) {
	m.calls.Add(1)
	if m.completeFunc != nil {
		return m.completeFunc(ctx, apiKey, prompt)
	}
	return "1. ✨ 默认文案", nil
}

func newTestAgent(t testing.TB, llm LLMClient) *Agent {
	t.Helper()
	a, err := NewAgent(llm)
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}
	return a
}

func validRequest() Request {
	return Request{
		Scene:  SceneFestival,
		Style:  StyleWarm,
		Extra:  "带蛋糕emoji",
		APIKey: "sk-test",
	}
}
