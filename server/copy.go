package server

// CopyCommand 交给页面执行的复制指令，文本原样携带，由前端负责写入剪贴板。
type CopyCommand struct {
	Action   string `json:"action"`
	Text     string `json:"text"`
	WidgetID string `json:"widget_id,omitempty"`
	Success  string `json:"success_notice"`
	Failure  string `json:"failure_notice"`
}

const copyAction = "clipboard.write"

func newCopyCommand(text, widgetID string) CopyCommand {
	return CopyCommand{
		Action:   copyAction,
		Text:     text,
		WidgetID: widgetID,
		Success:  "✅ 文案已复制！",
		Failure:  "❌ 复制失败，请手动复制",
	}
}
