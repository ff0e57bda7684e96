// Package sessionstore holds the process-wide authentication state: whether someone is logged
// in, and as whom. A Store is built once at process start and handed to every consumer.
package sessionstore

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/yogastudio/yoga/internal/prom"
	"github.com/yogastudio/yoga/pkg/model"
	"github.com/yogastudio/yoga/pkg/syncx/queue"
)

// Store is the single authoritative source of the current authentication state.
//
// Transitions are serialized: the snapshot is written in full, then every subscriber is called
// in registration order, before the next transition may start. Subscribers therefore observe
// transitions in the order they happened, one emission per transition, and never a partially
// written SessionInformation.
type Store struct {
	log *log.Entry

	// emitMu serializes whole transitions, including delivery to subscribers.
	emitMu sync.Mutex

	mu       sync.RWMutex
	loggedIn bool
	info     model.SessionInformation
	subs     map[int]func(bool)
	order    []int
	nextID   int
}

// New returns a logged-out store.
func New() *Store {
	return &Store{
		log:  log.WithField("component", "session-store"),
		subs: make(map[int]func(bool)),
	}
}

// LogIn stores info, replacing any previous state wholesale, and emits true.
func (s *Store) LogIn(info model.SessionInformation) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if s.loggedIn {
		s.log.WithField("previous", s.info.ID).Debug("overwriting existing login")
	}
	s.info = info
	s.loggedIn = true
	subs := s.subscribersLocked()
	s.mu.Unlock()

	s.log.WithField("user", info.ID).WithField("admin", info.Admin).Debug("logged in")
	prom.SessionTransitions.WithLabelValues("logged_in").Inc()
	emit(subs, true)
}

// LogOut clears the stored information and emits false. Logging out while already logged out
// still emits.
func (s *Store) LogOut() {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	s.info = model.SessionInformation{}
	s.loggedIn = false
	subs := s.subscribersLocked()
	s.mu.Unlock()

	s.log.Debug("logged out")
	prom.SessionTransitions.WithLabelValues("logged_out").Inc()
	emit(subs, false)
}

// IsLoggedIn is a synchronous snapshot read of the logged-in flag.
func (s *Store) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

// CurrentUser returns the stored SessionInformation, if someone is logged in.
func (s *Store) CurrentUser() (model.SessionInformation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loggedIn {
		return model.SessionInformation{}, false
	}
	return s.info, true
}

// Token returns the bearer token of the current user, if one was issued.
func (s *Store) Token() (string, bool) {
	info, ok := s.CurrentUser()
	if !ok {
		return "", false
	}
	return info.BearerToken()
}

// Subscription is a registered change callback.
type Subscription struct {
	store *Store
	id    int
	once  sync.Once
}

// Unsubscribe stops further deliveries. It is safe to call more than once.
func (sub *Subscription) Unsubscribe() {
	sub.once.Do(func() {
		s := sub.store
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, sub.id)
		for i, id := range s.order {
			if id == sub.id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	})
}

// Subscribe registers fn, calls it at once with the current flag, then on every transition until
// the subscription is cancelled. fn runs on the goroutine that performed the transition while
// transitions are held off, so it must not call LogIn, LogOut or Subscribe: any of them
// deadlocks. Unsubscribe and the read methods are safe.
func (s *Store) Subscribe(fn func(loggedIn bool)) *Subscription {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs[id] = fn
	s.order = append(s.order, id)
	current := s.loggedIn
	s.mu.Unlock()

	fn(current)
	return &Subscription{store: s, id: id}
}

// Changes returns a stream that yields the current flag immediately and then one value per
// transition, in order and without coalescing. The stream is infinite; it is closed only once
// ctx is done. Each call starts an independent stream.
func (s *Store) Changes(ctx context.Context) <-chan bool {
	pending := queue.New[bool]()
	sub := s.Subscribe(pending.Put)

	out := make(chan bool)
	go func() {
		defer close(out)
		defer sub.Unsubscribe()
		for {
			v, err := pending.GetWithContext(ctx)
			if err != nil {
				return
			}
			select {
			case out <- v:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (s *Store) subscribersLocked() []func(bool) {
	subs := make([]func(bool), 0, len(s.order))
	for _, id := range s.order {
		subs = append(subs, s.subs[id])
	}
	return subs
}

func emit(subs []func(bool), loggedIn bool) {
	for _, fn := range subs {
		fn(loggedIn)
	}
}
