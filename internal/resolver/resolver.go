// Package resolver turns numeric addresses from the ingestion path into
// hostnames without ever blocking the producers. Submissions go through
// a bounded, deduplicating queue; a single background worker drains it,
// performs the blocking reverse lookup outside the lock, and publishes
// successful results to the hostname store. Addresses may be silently
// dropped under overload and on shutdown; resolution is best-effort
// enrichment, never load-bearing.
package resolver

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/atomic"

	"github.com/lc/resolvq/internal/hoststore"
	"github.com/lc/resolvq/internal/log"
	"github.com/lc/resolvq/internal/reverse"
)

var (
	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("resolver already started")
	// ErrStopped is returned when Start is called on a closed service.
	// A Service's lifecycle is one-way: started once, stopped once.
	ErrStopped = errors.New("resolver stopped")
)

// Service owns the pending address queue and the background worker.
//
// One mutex guards the queue, the active flag, and nothing else; the
// two condition variables share it. The worker is the only consumer,
// so results are published in exactly the order addresses were
// admitted.
type Service struct {
	lookuper reverse.AddrLookuper
	store    hoststore.Writer

	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond
	queue    *Queue // nil until Start
	active   bool
	started  bool

	wg sync.WaitGroup

	resolved atomic.Int64
	failed   atomic.Int64
	dropped  atomic.Int64
}

// Stats is a point-in-time view of the service for the status surface.
type Stats struct {
	Active   bool
	Queued   int
	Capacity int
	Resolved int64
	Failed   int64
	Dropped  int64
}

// New creates a Service that resolves through lookuper and publishes
// into store. Call Start before submitting.
func New(lookuper reverse.AddrLookuper, store hoststore.Writer) *Service {
	s := &Service{
		lookuper: lookuper,
		store:    store,
	}
	s.notEmpty = sync.NewCond(&s.mu)
	s.notFull = sync.NewCond(&s.mu)
	return s
}

// Start allocates the queue with the given capacity and spawns the
// worker goroutine. It fails outright rather than leaving the service
// half-initialized: callers may assume resolution is running once Start
// returns nil.
func (s *Service) Start(capacity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return ErrAlreadyStarted
	}
	if s.started {
		return ErrStopped
	}

	q, err := NewQueue(capacity)
	if err != nil {
		return err
	}

	s.queue = q
	s.active = true
	s.started = true

	s.wg.Add(1)
	go s.worker()

	log.Infof("resolver: started, queue capacity %d", capacity)
	return nil
}

// Submit offers an address for background resolution. It never blocks:
// the report is false when the queue is full, when the address is
// already queued, or when the service is not running. Producers decide
// whether a rejection is worth retrying; the service never will.
//
// The address is not validated here. Unparseable input is admitted and
// fails later inside the lookup, exactly like a resolver miss.
func (s *Service) Submit(addr string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return false
	}
	if s.queue.Full() {
		s.dropped.Inc()
		log.Debugf("resolver: queue full, dropping %s", addr)
		return false
	}
	if s.queue.Find(addr) {
		return false
	}

	s.queue.Enqueue(addr)
	s.notEmpty.Signal()
	return true
}

// Close stops the service: it flips the active flag under the lock,
// wakes a worker blocked on the empty queue, and waits for the worker
// goroutine to exit before returning. Addresses still queued are never
// processed. Close is idempotent and safe to call before Start.
func (s *Service) Close() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	s.notEmpty.Broadcast()
	s.mu.Unlock()

	s.wg.Wait()
	log.Info("resolver: stopped")
}

// Stats returns a consistent snapshot of queue occupancy and counters.
func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		Active:   s.active,
		Resolved: s.resolved.Load(),
		Failed:   s.failed.Load(),
		Dropped:  s.dropped.Load(),
	}
	if s.queue != nil {
		st.Queued = s.queue.Len()
		st.Capacity = s.queue.Cap()
	}
	return st
}

// worker is the single consumer. Each iteration: wait for an address,
// release the lock, resolve, re-acquire, publish. The lookup must run
// outside the lock so a slow or hung resolver never blocks producers or
// queue bookkeeping.
func (s *Service) worker() {
	defer s.wg.Done()

	for {
		s.mu.Lock()
		for s.queue.Empty() && s.active {
			s.notEmpty.Wait()
		}
		if !s.active {
			s.mu.Unlock()
			return
		}
		addr, _ := s.queue.Dequeue()
		s.mu.Unlock()

		hostname, err := s.lookuper.LookupAddr(context.Background(), addr)

		s.mu.Lock()
		if !s.active {
			// Stopped while the lookup was in flight: discard the
			// outcome, success included, and exit for good.
			s.mu.Unlock()
			return
		}
		if err != nil {
			s.failed.Inc()
			log.Debugf("resolver: %s: %v", addr, err)
		} else {
			s.store.Put(addr, hostname)
			s.resolved.Inc()
		}
		// Advisory: producers drop instead of blocking, so nothing
		// waits on notFull today.
		s.notFull.Signal()
		s.mu.Unlock()
	}
}
