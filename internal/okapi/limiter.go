package okapi

import (
	"context"
	"sync"
	"time"
)

// ClockGate giãn cách các request outbound: mỗi lần Acquire giữ một slot
// thời gian ngay dưới lock, hai slot liên tiếp cách nhau tối thiểu delay.
// Nhiều goroutine gọi Acquire đồng thời vẫn được xếp hàng tuần tự, mỗi
// goroutine chờ đến đúng slot của mình.
type ClockGate struct {
	mu    sync.Mutex
	delay time.Duration
	next  time.Time        // thời điểm sớm nhất cho slot kế tiếp
	now   func() time.Time // thay được trong test
}

// NewClockGate tạo gate với khoảng giãn cách tối thiểu cho trước.
// delay <= 0 nghĩa là không giới hạn.
func NewClockGate(delay time.Duration) *ClockGate {
	return &ClockGate{
		delay: delay,
		now:   time.Now,
	}
}

// Acquire giữ slot kế tiếp rồi chặn goroutine hiện tại cho đến thời điểm
// của slot đó, hoặc trả về lỗi của context nếu bị hủy trước khi đến lượt.
// Slot đã giữ không được trả lại khi bị hủy.
func (g *ClockGate) Acquire(ctx context.Context) error {
	if g.delay <= 0 {
		return ctx.Err()
	}

	g.mu.Lock()
	now := g.now()
	slot := g.next
	if slot.Before(now) {
		slot = now
	}
	g.next = slot.Add(g.delay)
	g.mu.Unlock()

	wait := slot.Sub(now)
	if wait <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
