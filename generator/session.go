package generator

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"
)

// State 会话所处的生成阶段。
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateFailed     State = "failed"
)

// Session 持有单个用户的页面状态：最近一次成功结果和最近一次错误分开保存。
type Session struct {
	ID        string
	CreatedAt time.Time

	agent *Agent

	mu        sync.Mutex
	state     State
	result    *Result
	lastErr   string
	counter   uint64
	touchedAt time.Time
}

// Snapshot 会话状态的只读副本。
type Snapshot struct {
	ID      string  `json:"session_id"`
	State   State   `json:"state"`
	Result  *Result `json:"result,omitempty"`
	Error   string  `json:"error,omitempty"`
	Counter uint64  `json:"counter"`
}

// NewSession 创建会话，初始为 Idle。
func NewSession(id string, agent *Agent) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		agent:     agent,
		state:     StateIdle,
		touchedAt: now,
	}
}

// Submit 发起一次生成并阻塞到结束。
// 校验失败时状态不变；成功覆盖结果并清空错误；失败只记录错误，保留上次成功的结果。
func (s *Session) Submit(ctx context.Context, req Request) (Result, error) {
	s.mu.Lock()
	s.touchedAt = time.Now()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return Result{}, ErrBusy
	}
	if err := Validate(req); err != nil {
		s.lastErr = userMessage(err)
		s.mu.Unlock()
		return Result{}, err
	}
	s.state = StateSubmitting
	s.mu.Unlock()

	res, err := s.agent.Generate(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchedAt = time.Now()
	if err != nil {
		s.state = StateFailed
		s.lastErr = userMessage(err)
		return Result{}, err
	}
	s.state = StateSuccess
	s.result = &res
	s.lastErr = ""
	return res, nil
}

// Snapshot 返回当前状态。
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:      s.ID,
		State:   s.state,
		Error:   s.lastErr,
		Counter: s.counter,
	}
	if s.result != nil {
		r := *s.result
		r.Variants = append([]string(nil), s.result.Variants...)
		snap.Result = &r
	}
	return snap
}

// CopyText 返回当前可复制的文案，不影响状态机。
func (s *Session) CopyText() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil || s.result.Text == "" {
		return "", ErrNothingToCopy
	}
	return s.result.Text, nil
}

// NextWidgetID 生成页面控件的唯一标识：prefix_计数_4位随机串。
func (s *Session) NextWidgetID(prefix string) string {
	s.mu.Lock()
	s.counter++
	n := s.counter
	s.mu.Unlock()
	return fmt.Sprintf("%s_%d_%s", prefix, n, randSuffix(4))
}

// Reset 会话结束时清空状态。
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
	s.result = nil
	s.lastErr = ""
	s.counter = 0
}

// IdleSince 最近一次被访问的时间。
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchedAt
}

// Touch 刷新访问时间。
func (s *Session) Touch() {
	s.mu.Lock()
	s.touchedAt = time.Now()
	s.mu.Unlock()
}

func userMessage(err error) string {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.UserMessage()
	}
	return "❌ 生成失败：" + err.Error()
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randSuffix(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	for i := range buf {
		buf[i] = suffixAlphabet[int(buf[i])%len(suffixAlphabet)]
	}
	return string(buf)
}
