package task

import "sync"

// stream is an unbounded single-consumer channel. Publishing never blocks an
// execution unit, whatever the pace of the subscriber.
type stream[T any] struct {
	mu     sync.Mutex
	buf    []T
	closed bool

	wake      chan struct{}
	abandoned chan struct{}
	out       chan T
}

func newStream[T any]() *stream[T] {
	s := &stream[T]{
		wake:      make(chan struct{}, 1),
		abandoned: make(chan struct{}),
		out:       make(chan T),
	}
	go s.pump()
	return s
}

// publish appends v for delivery. It returns false once the stream is closed.
func (s *stream[T]) publish(v T) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.buf = append(s.buf, v)
	s.mu.Unlock()

	s.notify()
	return true
}

// close rejects further publishes. Buffered values are still delivered, then
// the subscriber's channel is closed.
func (s *stream[T]) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.notify()
}

// abandon closes the stream and drops whatever the subscriber has not read.
func (s *stream[T]) abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	select {
	case <-s.abandoned:
	default:
		close(s.abandoned)
	}
}

func (s *stream[T]) channel() <-chan T {
	return s.out
}

func (s *stream[T]) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *stream[T]) pump() {
	defer close(s.out)

	for {
		select {
		case <-s.abandoned:
			return
		default:
		}

		s.mu.Lock()
		if len(s.buf) == 0 {
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return
			}
			select {
			case <-s.wake:
				continue
			case <-s.abandoned:
				return
			}
		}
		var zero T
		v := s.buf[0]
		s.buf[0] = zero
		s.buf = s.buf[1:]
		s.mu.Unlock()

		select {
		case s.out <- v:
		case <-s.abandoned:
			return
		}
	}
}
