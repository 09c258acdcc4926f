package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	t.Run("相同输入生成完全相同的消息", func(t *testing.T) {
		a := BuildPrompt(SceneDailyFood, StyleFunny, "加点火锅")
		b := BuildPrompt(SceneDailyFood, StyleFunny, "加点火锅")
		assert.Equal(t, a, b)
		assert.Equal(t, a.Messages(), b.Messages())
	})

	t.Run("所有场景和风格组合都是 system + user 两条消息", func(t *testing.T) {
		for _, scene := range Scenes() {
			for _, style := range Styles() {
				for _, extra := range []string{"", "带蛋糕emoji", "多行\n需求"} {
					msgs := BuildPrompt(scene, style, extra).Messages()
					require.Len(t, msgs, 2)
					assert.Equal(t, "system", msgs[0].Role)
					assert.Equal(t, "user", msgs[1].Role)
					assert.Equal(t, systemInstruction, msgs[0].Content)
				}
			}
		}
	})

	t.Run("用户消息按固定格式原样插值", func(t *testing.T) {
		p := BuildPrompt(SceneFestival, StyleMinimal, "中秋")
		assert.Equal(t, "场景：节日文案\n风格：简约短句\n补充需求：中秋", p.User)
	})

	t.Run("补充需求为空", func(t *testing.T) {
		p := BuildPrompt(SceneDailyTravel, StyleWarm, "")
		assert.Equal(t, "场景：日常分享-旅行\n风格：温馨治愈\n补充需求：", p.User)
	})
}

func TestParseSceneAndStyle(t *testing.T) {
	s, err := ParseScene("日常分享-美食")
	require.NoError(t, err)
	assert.Equal(t, SceneDailyFood, s)

	_, err = ParseScene("工作汇报")
	assert.Error(t, err)

	st, err := ParseStyle("搞笑沙雕")
	require.NoError(t, err)
	assert.Equal(t, StyleFunny, st)

	_, err = ParseStyle("")
	assert.Error(t, err)

	assert.Len(t, Scenes(), 3)
	assert.Len(t, Styles(), 3)
}
