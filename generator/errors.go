package generator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ErrorKind 生成失败的分类。
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindHTTPStatus    ErrorKind = "http_status"
	KindTransport     ErrorKind = "transport"
	KindResponseShape ErrorKind = "response_shape"
	KindBusy          ErrorKind = "busy"
	KindUnknown       ErrorKind = "unknown"
)

// GenerationError 一次提交的终态错误，不做重试。
type GenerationError struct {
	Kind ErrorKind
	// StatusCode 仅 KindHTTPStatus 时有效。
	StatusCode int
	Detail     string
	Timeout    bool
	Err        error
}

func (e *GenerationError) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	case KindTransport, KindResponseShape:
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	default:
		return e.Detail
	}
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// UserMessage 面向用户的简短提示。
func (e *GenerationError) UserMessage() string {
	switch e.Kind {
	case KindValidation:
		return "⚠️ " + e.Detail
	case KindHTTPStatus:
		return fmt.Sprintf("❌ 请求失败：%d", e.StatusCode)
	case KindBusy:
		return "⏳ " + e.Detail
	default:
		return "❌ 生成失败：" + e.Detail
	}
}

var (
	// ErrBusy 同一会话已有请求在进行中。
	ErrBusy = &GenerationError{Kind: KindBusy, Detail: "正在生成中，请稍候"}
	// ErrNothingToCopy 当前没有可复制的文案。
	ErrNothingToCopy = errors.New("no generated copy to copy")
)

// ValidationError 本地校验失败，不会发起网络请求。
func ValidationError(detail string) *GenerationError {
	return &GenerationError{Kind: KindValidation, Detail: detail}
}

// HTTPStatusError 接口可达但返回非 200。
func HTTPStatusError(code int) *GenerationError {
	return &GenerationError{Kind: KindHTTPStatus, StatusCode: code}
}

// TransportError 网络、TLS、超时等异常。
func TransportError(err error) *GenerationError {
	return &GenerationError{
		Kind:    KindTransport,
		Detail:  err.Error(),
		Timeout: isTimeout(err),
		Err:     err,
	}
}

// ResponseShapeError 状态 200 但响应结构不符合预期。
func ResponseShapeError(detail string) *GenerationError {
	return &GenerationError{Kind: KindResponseShape, Detail: "unexpected response: " + detail}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}

// KindOf 返回错误分类，非 GenerationError 归为 KindUnknown。
func KindOf(err error) ErrorKind {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindUnknown
}

// HTTPStatus 把错误分类映射为对外返回的 HTTP 状态码。
func HTTPStatus(err error) int {
	var ge *GenerationError
	if !errors.As(err, &ge) {
		return http.StatusInternalServerError
	}
	switch ge.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindBusy:
		return http.StatusConflict
	case KindTransport:
		if ge.Timeout {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	case KindHTTPStatus, KindResponseShape:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
