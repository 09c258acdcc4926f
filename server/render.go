package server

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// 模型输出中的换行需要原样保留，原始 HTML 不输出。
var md = goldmark.New(
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// renderCopy 把生成的文案转换为结果面板使用的 HTML。
func renderCopy(text string) (string, error) {
	if text == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
