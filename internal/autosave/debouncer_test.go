package autosave

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testDelay = 30 * time.Millisecond

func TestRapidSchedulesCollapseIntoOne(t *testing.T) {
	d := New(testDelay)
	var runs, last int32

	for i := int32(1); i <= 5; i++ {
		i := i
		d.Schedule(func() {
			atomic.AddInt32(&runs, 1)
			atomic.StoreInt32(&last, i)
		})
		time.Sleep(testDelay / 5)
	}

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testDelay)
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
	assert.Equal(t, int32(5), atomic.LoadInt32(&last))
	assert.False(t, d.Pending())
}

func TestCancel(t *testing.T) {
	d := New(testDelay)
	var runs int32
	d.Schedule(func() { atomic.AddInt32(&runs, 1) })

	assert.True(t, d.Pending())
	assert.True(t, d.Cancel())
	assert.False(t, d.Cancel())

	time.Sleep(3 * testDelay)
	assert.Equal(t, int32(0), atomic.LoadInt32(&runs))
}

func TestFlushRunsImmediately(t *testing.T) {
	d := New(time.Hour)
	var runs int32
	d.Schedule(func() { atomic.AddInt32(&runs, 1) })

	assert.True(t, d.Flush())
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
	assert.False(t, d.Pending())
	assert.False(t, d.Flush())
}

func TestDefaultDelay(t *testing.T) {
	assert.Equal(t, DefaultDelay, New(0).Delay())
	assert.Equal(t, 800*time.Millisecond, New(-1).Delay())
}
