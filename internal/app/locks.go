package app

import "sync"

// keyedMutex serializes work per key while letting different keys proceed
// in parallel. Entries are dropped once no goroutine holds or waits on them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refLock)}
}

// Lock acquires the lock for key and returns its release function.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func distributorKey(repoID, distributorID string) string {
	return repoID + "\x00" + distributorID
}

// keyLease is a held key lock that plugin hooks run under. Hooks started
// through one lease run strictly one after another, and Release keeps the
// key locked until the last of them has returned, even one whose caller
// stopped waiting on a timeout.
//
// A lease belongs to the goroutine that acquired it.
type keyLease struct {
	unlock    func()
	last      chan struct{}
	abandoned bool
}

// Acquire locks key and returns a lease on it.
func (k *keyedMutex) Acquire(key string) *keyLease {
	return &keyLease{unlock: k.Lock(key)}
}

// next queues a hook run. It returns the completion channel of the previous
// run, nil if there is none, and the channel to close when this run returns.
func (l *keyLease) next() (prev <-chan struct{}, done chan struct{}) {
	prev = l.last
	done = make(chan struct{})
	l.last = done
	return prev, done
}

// Release unlocks the key, or hands the unlock to the last hook still
// running after its caller gave up on it.
func (l *keyLease) Release() {
	if !l.abandoned || l.last == nil {
		l.unlock()
		return
	}
	last := l.last
	go func() {
		<-last
		l.unlock()
	}()
}
