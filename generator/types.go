package generator

import (
	"fmt"
	"time"
)

// Scene 文案场景，只能取预设值。
type Scene string

const (
	SceneFestival    Scene = "节日文案"
	SceneDailyFood   Scene = "日常分享-美食"
	SceneDailyTravel Scene = "日常分享-旅行"
)

// Style 文案风格，只能取预设值。
type Style string

const (
	StyleWarm    Style = "温馨治愈"
	StyleFunny   Style = "搞笑沙雕"
	StyleMinimal Style = "简约短句"
)

var (
	scenes = []Scene{SceneFestival, SceneDailyFood, SceneDailyTravel}
	styles = []Style{StyleWarm, StyleFunny, StyleMinimal}
)

// Scenes 按表单展示顺序返回全部场景。
func Scenes() []Scene {
	return append([]Scene(nil), scenes...)
}

// Styles 按表单展示顺序返回全部风格。
func Styles() []Style {
	return append([]Style(nil), styles...)
}

func (s Scene) Valid() bool {
	for _, v := range scenes {
		if v == s {
			return true
		}
	}
	return false
}

func (s Style) Valid() bool {
	for _, v := range styles {
		if v == s {
			return true
		}
	}
	return false
}

// ParseScene 把表单值转换为 Scene。
func ParseScene(v string) (Scene, error) {
	s := Scene(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown scene %q", v)
	}
	return s, nil
}

// ParseStyle 把表单值转换为 Style。
func ParseStyle(v string) (Style, error) {
	s := Style(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown style %q", v)
	}
	return s, nil
}

// Request 一次生成所需的全部输入。APIKey 由用户在页面上填写。
type Request struct {
	Scene  Scene
	Style  Style
	Extra  string
	APIKey string
}

// Result 模型返回的文案。Text 为原始输出，Variants 为按序号拆出的各条文案。
type Result struct {
	Text      string    `json:"text"`
	Variants  []string  `json:"variants"`
	CreatedAt time.Time `json:"created_at"`
}
