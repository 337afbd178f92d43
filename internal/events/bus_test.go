package events

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestPublishSubscribe 测试事件发布订阅
func TestPublishSubscribe(t *testing.T) {
	bus := NewEventBus()

	var stateChanges int32
	var polls int32
	done := make(chan struct{}, 3)

	bus.Subscribe(EventStateChange, func(event Event) {
		atomic.AddInt32(&stateChanges, 1)
		done <- struct{}{}
	})
	bus.Subscribe(EventStateChange, func(event Event) {
		atomic.AddInt32(&stateChanges, 1)
		done <- struct{}{}
	})
	bus.Subscribe(EventPollCompleted, func(event Event) {
		atomic.AddInt32(&polls, 1)
		done <- struct{}{}
	})

	bus.Publish(Event{Type: EventStateChange, Timestamp: time.Now()})
	bus.Publish(Event{Type: EventPollCompleted, Timestamp: time.Now()})

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("等待事件处理超时")
		}
	}

	// 事件只送达对应类型的订阅者
	assert.Equal(t, int32(2), atomic.LoadInt32(&stateChanges))
	assert.Equal(t, int32(1), atomic.LoadInt32(&polls))
}

// TestUnsubscribe 测试取消订阅
func TestUnsubscribe(t *testing.T) {
	bus := NewEventBus()

	var calls int32
	keep := func(event Event) { atomic.AddInt32(&calls, 1) }

	sub1 := bus.Subscribe(EventSettingsSent, keep)
	bus.Subscribe(EventSettingsSent, keep)
	bus.Unsubscribe(sub1)

	bus.Publish(Event{Type: EventSettingsSent, Timestamp: time.Now()})
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

// TestConcurrentPublish 测试并发发布
func TestConcurrentPublish(t *testing.T) {
	bus := NewEventBus()

	var received int32
	bus.Subscribe(EventCommandFailed, func(event Event) {
		atomic.AddInt32(&received, 1)
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(Event{Type: EventCommandFailed, Timestamp: time.Now()})
		}()
	}
	wg.Wait()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&received) == 50
	}, time.Second, 10*time.Millisecond)
}
