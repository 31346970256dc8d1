package cart

import "sync"

// keyedLocks hands out one mutex per owner key. Locks are never
// evicted; the key space is bounded by active owners.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedLocks) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}

	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	return l
}

func (k *keyedLocks) lock(key string) func() {
	l := k.get(key)
	l.Lock()
	return l.Unlock
}

// lockPair acquires two owner locks in a fixed order so reconcile
// cannot deadlock against a concurrent mutation.
func (k *keyedLocks) lockPair(a, b string) func() {
	if b < a {
		a, b = b, a
	}

	la := k.get(a)
	lb := k.get(b)
	la.Lock()
	lb.Lock()
	return func() {
		lb.Unlock()
		la.Unlock()
	}
}
