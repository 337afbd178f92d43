// internal/events/bus.go

package events

import (
	"sync"
)

// EventBus 是事件总线的实现
type EventBus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[EventType][]Subscription
}

// NewEventBus 创建新的事件总线
func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]Subscription),
	}
}

// Publish 发布事件
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	subs := make([]Subscription, len(eb.handlers[event.Type]))
	copy(subs, eb.handlers[event.Type])
	eb.mu.RUnlock()

	for _, sub := range subs {
		go sub.Handler(event) // 异步处理事件
	}
}

// Subscribe 订阅事件
func (eb *EventBus) Subscribe(eventType EventType, handler Handler) Subscription {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.nextID++
	sub := Subscription{
		id:        eb.nextID,
		EventType: eventType,
		Handler:   handler,
	}
	eb.handlers[eventType] = append(eb.handlers[eventType], sub)
	return sub
}

// Unsubscribe 取消订阅
func (eb *EventBus) Unsubscribe(sub Subscription) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	handlers := eb.handlers[sub.EventType]
	for i, h := range handlers {
		if h.id == sub.id {
			eb.handlers[sub.EventType] = append(handlers[:i], handlers[i+1:]...)
			break
		}
	}
}
