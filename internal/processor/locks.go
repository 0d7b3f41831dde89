package processor

import "sync"

// coalescer runs at most one job per key at a time. Jobs requested while one
// is running for the same key collapse into a single rerun of the most recent
// request once the current job finishes, so the last change to a release is
// the one acted on.
type coalescer struct {
	mu    sync.Mutex
	state map[string]*jobState
}

type jobState struct {
	next func() error
}

func newCoalescer() *coalescer {
	return &coalescer{state: make(map[string]*jobState)}
}

// do runs fn for key and returns the error of the last job it ran. If a job
// for key is already in flight, fn replaces any queued rerun and do returns
// false without running anything.
func (c *coalescer) do(key string, fn func() error) (bool, error) {
	c.mu.Lock()
	if st, running := c.state[key]; running {
		st.next = fn
		c.mu.Unlock()
		return false, nil
	}
	st := &jobState{}
	c.state[key] = st
	c.mu.Unlock()

	for {
		err := fn()

		c.mu.Lock()
		if st.next == nil {
			delete(c.state, key)
			c.mu.Unlock()
			return true, err
		}
		fn, st.next = st.next, nil
		c.mu.Unlock()
	}
}

func (c *coalescer) running() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.state)
}
