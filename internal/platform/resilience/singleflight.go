package resilience

import "sync"

// SingleFlight collapses concurrent calls that share a key into one
// execution. Followers block until the leader finishes and receive the
// leader's result; the third return value reports whether the result
// was shared.
type SingleFlight struct {
	mu       sync.Mutex
	inflight map[string]*flightResult
}

type flightResult struct {
	done chan struct{}
	val  any
	err  error
}

func (s *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	s.mu.Lock()
	if s.inflight == nil {
		s.inflight = make(map[string]*flightResult)
	}
	if existing, ok := s.inflight[key]; ok {
		s.mu.Unlock()
		<-existing.done
		return existing.val, existing.err, true
	}

	leader := &flightResult{done: make(chan struct{})}
	s.inflight[key] = leader
	s.mu.Unlock()

	leader.val, leader.err = fn()
	close(leader.done)

	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()

	return leader.val, leader.err, false
}
