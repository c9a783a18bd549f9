package utils

import (
	"sync"
	"time"
)

type lockBucket struct {
	expires time.Time
	handle  int64
}

// KeyLock is a simple implementation of key based locks with ttl's on them
type KeyLock[K comparable] struct {
	locks map[K]*lockBucket
	mu    sync.Mutex
	c     int64
}

func NewKeyLock[K comparable]() *KeyLock[K] {
	return &KeyLock[K]{
		locks: make(map[K]*lockBucket),
	}
}

// Lock attempts to lock the key for the given duration ttl, blocking until it succeeds
// or the timeout passes. It returns -1 on timeout, otherwise a handle for Unlock.
func (kl *KeyLock[K]) Lock(key K, timeout time.Duration, ttl time.Duration) (handle int64) {
	started := time.Now()

	for {
		if handle := kl.tryLock(key, ttl); handle != -1 {
			return handle
		}

		if time.Since(started) >= timeout {
			return -1
		}

		time.Sleep(time.Millisecond * 25)
	}
}

func (kl *KeyLock[K]) tryLock(key K, ttl time.Duration) int64 {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	now := time.Now()
	if b, ok := kl.locks[key]; ok && b != nil && !now.After(b.expires) {
		return -1
	}

	kl.c++
	kl.locks[key] = &lockBucket{
		handle:  kl.c,
		expires: now.Add(ttl),
	}
	return kl.c
}

// Unlock releases the key, but only if handle still owns it.
func (kl *KeyLock[K]) Unlock(key K, handle int64) {
	kl.mu.Lock()
	if b, ok := kl.locks[key]; ok && b != nil && b.handle == handle {
		delete(kl.locks, key)
	}
	kl.mu.Unlock()
}
