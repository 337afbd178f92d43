package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPresetMapping 测试预设模式与除霜开关的双向映射
func TestPresetMapping(t *testing.T) {
	cases := []struct {
		preset Preset
		front  bool
		rear   bool
	}{
		{PresetNone, false, false},
		{PresetFrontDefrost, true, false},
		{PresetRearDefrost, false, true},
		{PresetBothDefrost, true, true},
	}

	for _, c := range cases {
		assert.Equal(t, c.preset, PresetFromDefrost(c.front, c.rear))

		front, rear, ok := c.preset.Defrost()
		assert.True(t, ok)
		assert.Equal(t, c.front, front)
		assert.Equal(t, c.rear, rear)
	}

	// 无效预设名
	_, _, ok := Preset("eco").Defrost()
	assert.False(t, ok)
}

// TestTempRange 测试温度范围判定
func TestTempRange(t *testing.T) {
	r := TempRange{Min: 18, Max: 29}

	assert.True(t, r.Contains(18))
	assert.True(t, r.Contains(29))
	assert.True(t, r.Contains(21.5))
	assert.False(t, r.Contains(17.9))
	assert.False(t, r.Contains(29.1))
}

// TestStateSettingsOn 测试指令开启状态判定
func TestStateSettingsOn(t *testing.T) {
	assert.True(t, State{Mode: ModeHeatCool}.SettingsOn())
	assert.False(t, State{Mode: ModeOff}.SettingsOn())
}
