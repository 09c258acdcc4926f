package generator

import (
	"regexp"
	"strings"
	"time"
)

var variantLine = regexp.MustCompile(`^\s*\d+\s*[.、．)）:：]\s*(.+?)\s*$`)

// PostProcess 校验模型输出并拆出带序号的各条文案，Text 保持原样。
func PostProcess(raw string) (Result, error) {
	if strings.TrimSpace(raw) == "" {
		return Result{}, ResponseShapeError("empty message content")
	}
	return Result{
		Text:      raw,
		Variants:  extractVariants(raw),
		CreatedAt: time.Now(),
	}, nil
}

// 没有序号时整段作为一条。
func extractVariants(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		m := variantLine.FindStringSubmatch(line)
		if len(m) == 2 {
			out = append(out, m[1])
		}
	}
	if len(out) == 0 {
		out = append(out, strings.TrimSpace(text))
	}
	return out
}
