package engine

import (
	"sync"
	"testing"

	"github.com/magiconair/properties/assert"
)

func TestSubscribeHasNoBackfill(t *testing.T) {
	bus := NewBus[int]("events", 8)
	bus.Publish(1)
	bus.Publish(2)

	sub := bus.Subscribe("late")
	bus.Publish(3)

	assert.Equal(t, sub.Len(), 1)
	assert.Equal(t, <-sub.C(), 3)
	assert.Equal(t, sub.Lag(), uint64(0))
}

func TestPublishEvictsOldest(t *testing.T) {
	bus := NewBus[int]("events", 4)
	sub := bus.Subscribe("slow")

	for i := 0; i < 10; i++ {
		bus.Publish(i)
	}

	got := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		got = append(got, <-sub.C())
	}
	assert.Equal(t, got, []int{6, 7, 8, 9})
	assert.Equal(t, sub.Lag(), uint64(6))
	assert.Equal(t, sub.Len(), 0)
}

func TestSlowSubscriberDoesNotAffectOthers(t *testing.T) {
	bus := NewBus[int]("events", 2)
	slow := bus.Subscribe("slow")
	fast := bus.Subscribe("fast")

	// fast drains in lockstep, slow never reads
	got := make([]int, 0, 100)
	for i := 0; i < 100; i++ {
		bus.Publish(i)
		got = append(got, <-fast.C())
	}

	want := make([]int, 0, 100)
	for i := 0; i < 100; i++ {
		want = append(want, i)
	}
	assert.Equal(t, got, want)
	assert.Equal(t, fast.Lag(), uint64(0))
	assert.Equal(t, slow.Lag(), uint64(98))
	assert.Equal(t, slow.Len(), 2)
}

func TestDeliveryOrderMatchesPublishOrder(t *testing.T) {
	bus := NewBus[int]("events", 64)
	sub := bus.Subscribe("ordered")

	for i := 0; i < 64; i++ {
		bus.Publish(i)
	}
	for i := 0; i < 64; i++ {
		assert.Equal(t, <-sub.C(), i)
	}
}

func TestConcurrentPublishersDoNotDuplicate(t *testing.T) {
	bus := NewBus[int]("events", 1024)
	sub := bus.Subscribe("counter")

	var wg sync.WaitGroup
	for p := 0; p < 8; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				bus.Publish(i)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, sub.Len(), 800)
	assert.Equal(t, sub.Lag(), uint64(0))
}
