package okapi

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClockGateSpacing kiểm tra giãn cách tối thiểu giữa các lần Acquire
func TestClockGateSpacing(t *testing.T) {
	delay := 30 * time.Millisecond
	gate := NewClockGate(delay)
	ctx := context.Background()

	start := time.Now()
	requests := 3
	for i := 0; i < requests; i++ {
		assert.NoError(t, gate.Acquire(ctx))
	}
	elapsed := time.Since(start)

	// N request thành công cần tối thiểu (N-1) khoảng giãn cách
	minElapsed := time.Duration(requests-1) * delay
	assert.GreaterOrEqual(t, elapsed, minElapsed,
		"3 request phải mất tối thiểu 2 lần delay")
}

// TestClockGateConcurrentAcquire kiểm tra nhiều goroutine Acquire đồng thời
// vẫn được xếp hàng cách nhau tối thiểu delay, không được thoát cùng lúc
func TestClockGateConcurrentAcquire(t *testing.T) {
	delay := 60 * time.Millisecond
	gate := NewClockGate(delay)
	ctx := context.Background()

	// Giữ slot đầu để các goroutine sau phải xếp hàng
	start := time.Now()
	require.NoError(t, gate.Acquire(ctx))

	const workers = 3
	releases := make([]time.Time, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			assert.NoError(t, gate.Acquire(ctx))
			releases[idx] = time.Now()
		}(i)
	}
	wg.Wait()

	// Slot của các goroutine lần lượt ở start+delay, +2*delay, +3*delay
	sort.Slice(releases, func(i, j int) bool { return releases[i].Before(releases[j]) })
	for i, release := range releases {
		minRelease := time.Duration(i+1) * delay
		assert.GreaterOrEqual(t, release.Sub(start), minRelease,
			"goroutine thứ %d phải chờ đủ slot của mình", i+1)
	}
}

// TestClockGateZeroDelay kiểm tra delay <= 0 tắt giới hạn hoàn toàn
func TestClockGateZeroDelay(t *testing.T) {
	gate := NewClockGate(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 10; i++ {
		assert.NoError(t, gate.Acquire(ctx))
	}
	assert.Less(t, time.Since(start), 20*time.Millisecond)
}

// TestClockGateContextCancel kiểm tra Acquire trả về lỗi khi context bị hủy
func TestClockGateContextCancel(t *testing.T) {
	gate := NewClockGate(1 * time.Hour)
	ctx := context.Background()

	// Slot đầu đi qua ngay, slot sau phải chờ 1 giờ
	assert.NoError(t, gate.Acquire(ctx))

	cancelCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()

	err := gate.Acquire(cancelCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
