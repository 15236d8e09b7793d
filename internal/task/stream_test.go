package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream_PublishNeverBlocks(t *testing.T) {
	t.Parallel()

	s := newStream[int]()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			s.publish(i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked without a reader")
	}

	s.close()
	var got []int
	for v := range s.channel() {
		got = append(got, v)
	}
	require.Len(t, got, 1000)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestStream_CloseRejectsPublish(t *testing.T) {
	t.Parallel()

	s := newStream[string]()
	assert.True(t, s.publish("a"))
	s.close()
	assert.False(t, s.publish("b"))

	var got []string
	for v := range s.channel() {
		got = append(got, v)
	}
	assert.Equal(t, []string{"a"}, got)
}

func TestStream_AbandonDropsBuffered(t *testing.T) {
	t.Parallel()

	s := newStream[int]()
	for i := 0; i < 10; i++ {
		s.publish(i)
	}
	s.abandon()
	assert.False(t, s.publish(42))

	count := 0
	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-s.channel():
			if !ok {
				// at most the value the pump was holding can slip through
				assert.LessOrEqual(t, count, 1)
				return
			}
			count++
		case <-timeout:
			t.Fatal("abandoned stream was not closed")
		}
	}
}
