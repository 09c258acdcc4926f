package generator

import "fmt"

// systemInstruction 固定的系统提示词。
const systemInstruction = "你是朋友圈文案专家，生成3条50字内的文案，每条带1个emoji，序号标注，语言自然"

// Prompt 表示发送给 LLM 的消息集合。
type Prompt struct {
	System string
	User   string
}

// Message 对话中的一条消息。
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Messages 按 [system, user] 顺序返回两条消息。
func (p Prompt) Messages() []Message {
	return []Message{
		{Role: "system", Content: p.System},
		{Role: "user", Content: p.User},
	}
}

// BuildPrompt 根据场景、风格和补充需求生成提示词，纯函数。
func BuildPrompt(scene Scene, style Style, extra string) Prompt {
	return Prompt{
		System: systemInstruction,
		User:   fmt.Sprintf("场景：%s\n风格：%s\n补充需求：%s", scene, style, extra),
	}
}
