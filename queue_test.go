// FILE: queue_test.go
package logpipe

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue(16)
	for i := 0; i < 10; i++ {
		require.True(t, q.Push(NewRecord(LevelInfo, fmt.Sprintf("msg-%d", i))))
	}
	assert.Equal(t, 10, q.Size())

	for i := 0; i < 10; i++ {
		rec, ok := q.TryPop()
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("msg-%d", i), rec.Message)
	}
	_, ok := q.TryPop()
	assert.False(t, ok)
}

func TestQueueDropsNewestAtCapacity(t *testing.T) {
	const capacity = 8
	const extra = 5
	q := NewQueue(capacity)

	accepted := 0
	for i := 0; i < capacity+extra; i++ {
		if q.Push(NewRecord(LevelInfo, strconv.Itoa(i))) {
			accepted++
		}
	}

	assert.Equal(t, capacity, accepted)
	assert.Equal(t, uint64(extra), q.Dropped())
	assert.Equal(t, uint64(capacity), q.Pushed())

	// The accepted records are the oldest ones, in order.
	for i := 0; i < capacity; i++ {
		rec, ok := q.TryPop()
		require.True(t, ok)
		assert.Equal(t, strconv.Itoa(i), rec.Message)
	}
}

func TestQueuePerProducerOrder(t *testing.T) {
	const producers = 8
	const perProducer = 200
	q := NewQueue(producers * perProducer)

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for n := 0; n < perProducer; n++ {
				q.Push(NewRecord(LevelInfo, fmt.Sprintf("%d:%d", id, n)))
			}
		}(p)
	}
	wg.Wait()

	require.Equal(t, producers*perProducer, q.Size())

	// Interleaving across producers is arbitrary, but each producer's
	// own records must come out in submission order.
	lastSeen := make([]int, producers)
	for i := range lastSeen {
		lastSeen[i] = -1
	}
	for {
		rec, ok := q.TryPop()
		if !ok {
			break
		}
		parts := strings.SplitN(rec.Message, ":", 2)
		id, err := strconv.Atoi(parts[0])
		require.NoError(t, err)
		seq, err := strconv.Atoi(parts[1])
		require.NoError(t, err)
		assert.Equal(t, lastSeen[id]+1, seq, "producer %d out of order", id)
		lastSeen[id] = seq
	}
	for id, last := range lastSeen {
		assert.Equal(t, perProducer-1, last, "producer %d incomplete", id)
	}
}

func TestQueuePopBatch(t *testing.T) {
	q := NewQueue(32)
	for i := 0; i < 10; i++ {
		q.Push(NewRecord(LevelInfo, strconv.Itoa(i)))
	}

	batch := make([]Record, 4)
	n := q.PopBatch(batch)
	require.Equal(t, 4, n)
	assert.Equal(t, "0", batch[0].Message)
	assert.Equal(t, "3", batch[3].Message)

	big := make([]Record, 32)
	n = q.PopBatch(big)
	assert.Equal(t, 6, n)
	assert.Equal(t, 0, q.PopBatch(big))
}

func TestQueuePopWaitTimeout(t *testing.T) {
	q := NewQueue(4)

	start := time.Now()
	_, ok := q.PopWait(20 * time.Millisecond)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	q.Push(NewRecord(LevelInfo, "ready"))
	rec, ok := q.PopWait(time.Second)
	require.True(t, ok)
	assert.Equal(t, "ready", rec.Message)
}

func TestQueueSealRejectsAndCounts(t *testing.T) {
	q := NewQueue(8)
	require.True(t, q.Push(NewRecord(LevelInfo, "before")))

	q.Seal()
	assert.False(t, q.Push(NewRecord(LevelInfo, "after")))
	assert.Equal(t, uint64(1), q.Dropped())
	assert.Equal(t, uint64(1), q.Pushed())

	// Records accepted before the seal stay drainable.
	rec, ok := q.TryPop()
	require.True(t, ok)
	assert.Equal(t, "before", rec.Message)
	_, ok = q.TryPop()
	assert.False(t, ok)
}

func TestQueueMinimumCapacity(t *testing.T) {
	q := NewQueue(0)
	assert.Equal(t, 1, q.Capacity())
	assert.True(t, q.Push(NewRecord(LevelInfo, "only")))
	assert.False(t, q.Push(NewRecord(LevelInfo, "overflow")))
}
