package observable

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingHooks struct {
	mu         sync.Mutex
	deliveries int
	panics     int
}

func (h *countingHooks) Delivered(string, int, time.Duration) {
	h.mu.Lock()
	h.deliveries++
	h.mu.Unlock()
}

func (h *countingHooks) ListenerPanicked(string) {
	h.mu.Lock()
	h.panics++
	h.mu.Unlock()
}

func TestSubject_NotifyDeliversSynchronously(t *testing.T) {
	subj := New[int](Config{Name: "test"})

	var got []int
	subj.Subscribe(func(v int) { got = append(got, v) })

	subj.Notify(1)
	assert.Equal(t, []int{1}, got, "delivery must complete before Notify returns")

	subj.Notify(2)
	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, uint64(2), subj.Published())
}

func TestSubject_UnsubscribeStopsDelivery(t *testing.T) {
	subj := New[string](Config{Name: "test"})

	var calls int
	unsubscribe := subj.Subscribe(func(string) { calls++ })
	subj.Notify("a")
	unsubscribe()
	unsubscribe()
	subj.Notify("b")

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, subj.Listeners())
}

func TestSubject_UnsubscribeDuringPassKeepsEnumeratedListeners(t *testing.T) {
	subj := New[int](Config{Name: "test"})

	var (
		secondCalls int
		unsubSecond func()
	)
	subj.Subscribe(func(int) { unsubSecond() })
	unsubSecond = subj.Subscribe(func(int) { secondCalls++ })

	subj.Notify(1)
	assert.Equal(t, 1, secondCalls, "listener enumerated for this pass still receives it")

	subj.Notify(2)
	assert.Equal(t, 1, secondCalls, "removed listener gets nothing afterwards")
}

func TestSubject_ReentrantPublishIsQueuedAfterCurrentPass(t *testing.T) {
	subj := New[int](Config{Name: "test"})

	var order []string
	subj.Subscribe(func(v int) {
		order = append(order, "first:"+itoa(v))
		if v == 1 {
			subj.Notify(2)
			order = append(order, "nested-returned")
		}
	})
	subj.Subscribe(func(v int) { order = append(order, "second:"+itoa(v)) })

	subj.Notify(1)

	assert.Equal(t, []string{
		"first:1",
		"nested-returned",
		"second:1",
		"first:2",
		"second:2",
	}, order)
}

func TestSubject_ListenerPanicDoesNotBreakDispatch(t *testing.T) {
	hooks := &countingHooks{}
	subj := New[int](Config{Name: "test", Hooks: hooks})

	var after int
	subj.Subscribe(func(int) { panic("boom") })
	subj.Subscribe(func(v int) { after = v })

	require.NotPanics(t, func() { subj.Notify(7) })
	assert.Equal(t, 7, after)
	assert.Equal(t, 1, hooks.panics)
	assert.Equal(t, 1, hooks.deliveries)

	subj.Notify(8)
	assert.Equal(t, 8, after, "dispatch loop keeps working after a panic")
}

func TestSubject_PublishThenFlushPreservesOrder(t *testing.T) {
	subj := New[int](Config{Name: "test"})

	var got []int
	subj.Subscribe(func(v int) { got = append(got, v) })

	subj.Publish(1)
	subj.Publish(2)
	subj.Publish(3)
	assert.Empty(t, got)

	subj.Flush()
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestSubject_NilListenerIgnored(t *testing.T) {
	subj := New[int](Config{Name: "test"})
	unsubscribe := subj.Subscribe(nil)
	unsubscribe()
	assert.Equal(t, 0, subj.Listeners())
}

func itoa(v int) string {
	return string(rune('0' + v))
}
