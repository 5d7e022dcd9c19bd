package memory

import (
	"sort"
	"sync"
)

// KeyedLocker hands out one mutex per key, so work on different accounts proceeds
// in parallel while work on the same account is serialized.
type KeyedLocker struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedLocker returns a ready locker.
func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{locks: make(map[string]*keyedLock)}
}

// Lock acquires every key in ascending order and returns the function releasing them.
// Duplicate keys are locked once.
func (k *KeyedLocker) Lock(keys ...string) (unlock func()) {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	uniq := sorted[:0]
	for i, key := range sorted {
		if i == 0 || key != sorted[i-1] {
			uniq = append(uniq, key)
		}
	}

	held := make([]*keyedLock, 0, len(uniq))
	for _, key := range uniq {
		l := k.acquire(key)
		l.mu.Lock()
		held = append(held, l)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
			k.release(uniq[i])
		}
	}
}

func (k *KeyedLocker) acquire(key string) *keyedLock {
	k.mu.Lock()
	defer k.mu.Unlock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	return l
}

func (k *KeyedLocker) release(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	l := k.locks[key]
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
}
