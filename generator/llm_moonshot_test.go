package generator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const successBody = `{"choices":[{"message":{"content":"1. 🎉 Hello"}}]}`

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

func newTestMoonshot(t *testing.T, baseURL string, mutate func(*LLMSettings)) *MoonshotLLM {
	t.Helper()
	s := DefaultLLMSettings()
	s.BaseURL = baseURL + "/v1/"
	if mutate != nil {
		mutate(&s)
	}
	m, err := NewMoonshotLLM(s)
	require.NoError(t, err)
	return m
}

func TestNewMoonshotLLM(t *testing.T) {
	t.Run("默认参数", func(t *testing.T) {
		m, err := NewMoonshotLLM(DefaultLLMSettings())
		require.NoError(t, err)
		s := m.Settings()
		assert.Equal(t, "moonshot-v1-8k", s.Model)
		assert.Equal(t, "https://api.moonshot.cn/v1/", s.BaseURL)
		assert.Equal(t, 0.7, s.Temperature)
		assert.EqualValues(t, 300, s.MaxTokens)
		assert.Equal(t, 30*time.Second, s.Timeout)
		assert.False(t, s.InsecureSkipVerify)
	})

	t.Run("缺少模型名", func(t *testing.T) {
		s := DefaultLLMSettings()
		s.Model = ""
		_, err := NewMoonshotLLM(s)
		assert.Error(t, err)
	})
}

func TestMoonshotLLM_Complete(t *testing.T) {
	ctx := context.Background()
	prompt := BuildPrompt(SceneFestival, StyleWarm, "带蛋糕emoji")

	t.Run("成功: 请求头和请求体符合约定", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
			assert.Contains(t, r.Header.Get("Content-Type"), "application/json")

			var body chatRequest
			if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
				return
			}
			assert.Equal(t, "moonshot-v1-8k", body.Model)
			assert.Equal(t, 0.7, body.Temperature)
			assert.Equal(t, 300, body.MaxTokens)
			if !assert.Len(t, body.Messages, 2) {
				return
			}
			assert.Equal(t, "system", body.Messages[0].Role)
			assert.Equal(t, systemInstruction, body.Messages[0].Content)
			assert.Equal(t, "user", body.Messages[1].Role)
			assert.Equal(t, prompt.User, body.Messages[1].Content)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(successBody))
		}))
		defer srv.Close()

		text, err := newTestMoonshot(t, srv.URL, nil).Complete(ctx, "sk-test", prompt)
		require.NoError(t, err)
		assert.Equal(t, "1. 🎉 Hello", text)
	})

	t.Run("非 200 状态码只请求一次", func(t *testing.T) {
		for _, code := range []int{http.StatusTooManyRequests, http.StatusUnauthorized, http.StatusInternalServerError} {
			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(code)
				_, _ = w.Write([]byte(`{"error":{"message":"nope","type":"rate_limit_reached_error"}}`))
			}))

			_, err := newTestMoonshot(t, srv.URL, nil).Complete(ctx, "sk-test", prompt)
			srv.Close()

			var ge *GenerationError
			require.True(t, errors.As(err, &ge), "code %d: %v", code, err)
			assert.Equal(t, KindHTTPStatus, ge.Kind)
			assert.Equal(t, code, ge.StatusCode)
			assert.EqualValues(t, 1, hits.Load())
		}
	})

	t.Run("2xx 但不是 200 也视为状态码错误", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(successBody))
		}))
		defer srv.Close()

		_, err := newTestMoonshot(t, srv.URL, nil).Complete(ctx, "sk-test", prompt)
		var ge *GenerationError
		require.True(t, errors.As(err, &ge))
		assert.Equal(t, KindHTTPStatus, ge.Kind)
		assert.Equal(t, http.StatusCreated, ge.StatusCode)
	})

	t.Run("choices 为空属于响应结构错误", func(t *testing.T) {
		for _, body := range []string{`{"choices":[]}`, `{"id":"x"}`} {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(body))
			}))
			_, err := newTestMoonshot(t, srv.URL, nil).Complete(ctx, "sk-test", prompt)
			srv.Close()
			assert.Equal(t, KindResponseShape, KindOf(err), "body %s", body)
		}
	})

	t.Run("超时返回带超时标记的传输错误", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer srv.Close()

		m := newTestMoonshot(t, srv.URL, func(s *LLMSettings) { s.Timeout = 100 * time.Millisecond })
		_, err := m.Complete(ctx, "sk-test", prompt)

		var ge *GenerationError
		require.True(t, errors.As(err, &ge))
		assert.Equal(t, KindTransport, ge.Kind)
		assert.True(t, ge.Timeout, "detail: %s", ge.Detail)
		assert.Equal(t, http.StatusGatewayTimeout, HTTPStatus(err))
	})

	t.Run("连接失败返回传输错误", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := newTestMoonshot(t, url, nil).Complete(ctx, "sk-test", prompt)
		var ge *GenerationError
		require.True(t, errors.As(err, &ge))
		assert.Equal(t, KindTransport, ge.Kind)
		assert.NotEmpty(t, ge.Detail)
		assert.Equal(t, http.StatusBadGateway, HTTPStatus(err))
	})

	t.Run("默认校验证书，显式关闭后才接受自签名证书", func(t *testing.T) {
		srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(successBody))
		}))
		defer srv.Close()

		_, err := newTestMoonshot(t, srv.URL, nil).Complete(ctx, "sk-test", prompt)
		assert.Equal(t, KindTransport, KindOf(err))

		insecure := newTestMoonshot(t, srv.URL, func(s *LLMSettings) { s.InsecureSkipVerify = true })
		text, err := insecure.Complete(ctx, "sk-test", prompt)
		require.NoError(t, err)
		assert.Equal(t, "1. 🎉 Hello", text)
	})

	t.Run("密钥为空不发请求", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
		}))
		defer srv.Close()

		_, err := newTestMoonshot(t, srv.URL, nil).Complete(ctx, "", prompt)
		assert.Equal(t, KindValidation, KindOf(err))
		assert.EqualValues(t, 0, hits.Load())
	})
}
