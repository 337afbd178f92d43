package climate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegistry 测试实体注册表
func TestRegistry(t *testing.T) {
	registry := NewRegistry()

	e1 := newTestEntity(okAPI(), time.Hour)
	require.NoError(t, registry.Add(e1))

	// 测试1: 重复 VIN 被拒绝
	dup := newTestEntity(okAPI(), time.Hour)
	assert.Error(t, registry.Add(dup))

	// 测试2: 查找
	got, ok := registry.Get(e1.VIN())
	assert.True(t, ok)
	assert.Same(t, e1, got)

	_, ok = registry.Get("VIN00000000000099")
	assert.False(t, ok)

	// 测试3: 遍历
	assert.Len(t, registry.All(), 1)

	// 测试4: 移除后不可见
	registry.Remove(e1.VIN())
	_, ok = registry.Get(e1.VIN())
	assert.False(t, ok)
	assert.Empty(t, registry.All())
}
