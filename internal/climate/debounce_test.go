package climate

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestDebouncer 测试去抖器
func TestDebouncer(t *testing.T) {
	// 测试1: 连续多次请求只触发一次下发
	t.Run("Coalesce Rapid Requests", func(t *testing.T) {
		var sends int32
		d := NewDebouncer(50*time.Millisecond, func() {
			atomic.AddInt32(&sends, 1)
		})

		// 短时间内连续请求
		for i := 0; i < 5; i++ {
			d.RequestSend()
			time.Sleep(5 * time.Millisecond)
		}

		time.Sleep(150 * time.Millisecond)
		assert.Equal(t, int32(1), atomic.LoadInt32(&sends),
			"5 requests within the delay window should coalesce into 1 send")
	})

	// 测试2: 触发前取消则不下发
	t.Run("Cancel Before Fire", func(t *testing.T) {
		var sends int32
		d := NewDebouncer(50*time.Millisecond, func() {
			atomic.AddInt32(&sends, 1)
		})

		d.RequestSend()
		d.Cancel()

		time.Sleep(150 * time.Millisecond)
		assert.Equal(t, int32(0), atomic.LoadInt32(&sends),
			"canceled timer must never fire")
	})

	// 测试3: 取消后重新请求仍然可以下发
	t.Run("Request After Cancel", func(t *testing.T) {
		var sends int32
		d := NewDebouncer(20*time.Millisecond, func() {
			atomic.AddInt32(&sends, 1)
		})

		d.RequestSend()
		d.Cancel()
		d.RequestSend()

		time.Sleep(100 * time.Millisecond)
		assert.Equal(t, int32(1), atomic.LoadInt32(&sends))
	})

	// 测试4: RequestSend 返回是否取代了旧定时器
	t.Run("Supersede Reporting", func(t *testing.T) {
		d := NewDebouncer(time.Hour, func() {})
		defer d.Cancel()

		assert.False(t, d.RequestSend(), "first request supersedes nothing")
		assert.True(t, d.RequestSend(), "second request supersedes the pending timer")
		assert.True(t, d.Pending())
	})

	// 测试5: 同一时刻最多一个待触发定时器
	t.Run("Single Pending Timer", func(t *testing.T) {
		var sends int32
		d := NewDebouncer(30*time.Millisecond, func() {
			atomic.AddInt32(&sends, 1)
		})

		d.RequestSend()
		d.RequestSend()
		d.RequestSend()

		time.Sleep(120 * time.Millisecond)
		assert.Equal(t, int32(1), atomic.LoadInt32(&sends))
		assert.False(t, d.Pending())
	})
}
