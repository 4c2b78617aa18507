package wizard

import "sync"

// Sessions holds one controller per user. A controller is dropped once its
// wizard is closed with nothing to resume (after Discard, a successful
// Submit, or a Close on an untouched draft); the next Get starts a fresh one
// that restores any saved draft on Open.
type Sessions struct {
	deps Deps

	mu          sync.Mutex
	controllers map[string]*Controller
}

func NewSessions(deps Deps) *Sessions {
	return &Sessions{deps: deps, controllers: map[string]*Controller{}}
}

// Get returns the owner's controller, creating it on first use.
func (s *Sessions) Get(owner string) *Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.controllers[owner]
	if !ok {
		c = NewController(owner, s.deps)
		c.release = s.evict
		s.controllers[owner] = c
	}
	return c
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.controllers)
}

// evict runs with the controller's lock held, so it must never call back
// into the controller.
func (s *Sessions) evict(c *Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.controllers[c.owner] == c {
		delete(s.controllers, c.owner)
	}
}
