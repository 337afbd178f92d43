// internal/climate/debounce.go

package climate

import (
	"sync"
	"time"
)

// Debouncer 把短时间内的连续设置变更合并为一次远程下发
// 任意时刻最多只有一个待触发的定时器：重新调度总是先取代旧定时器
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	send    func()
	timer   *time.Timer
	gen     uint64
	changed bool
}

func NewDebouncer(delay time.Duration, send func()) *Debouncer {
	return &Debouncer{
		delay: delay,
		send:  send,
	}
}

// RequestSend 标记设置已变更并重新调度下发定时器
// 返回是否取代了一个尚未触发的定时器
func (d *Debouncer) RequestSend() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	superseded := d.timer != nil
	if d.timer != nil {
		d.timer.Stop()
	}
	d.changed = true
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(gen)
	})
	return superseded
}

// fire 定时器到期回调
// 代数不匹配说明定时器在触发前已被取代或取消，放弃本次下发
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.changed {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.changed = false
	send := d.send
	d.mu.Unlock()

	send()
}

// Cancel 取消待触发的下发并清除变更标记
// 开机等需要立即下发的路径调用，保证随后下发的是完整的当前状态
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.changed = false
}

// Pending 是否存在尚未触发的下发
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
