// internal/app/system/auth/profilecache.go
package auth

import "sync"

// ProfileCache keeps the last successfully fetched profile per user. It
// backs the single fallback read in ResolveProfile: when a fresh profile
// read fails with a connectivity-class error, the cached copy is served
// instead, once, with no retry loop behind it.
type ProfileCache struct {
	mu sync.RWMutex
	m  map[string]SessionUser
}

// NewProfileCache returns an empty cache.
func NewProfileCache() *ProfileCache {
	return &ProfileCache{m: make(map[string]SessionUser)}
}

// Get returns a copy of the cached profile, if any.
func (c *ProfileCache) Get(userID string) (*SessionUser, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	u, ok := c.m[userID]
	if !ok {
		return nil, false
	}
	cp := u
	return &cp, true
}

// Put stores a copy of the profile.
func (c *ProfileCache) Put(u *SessionUser) {
	if u == nil || u.ID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[u.ID] = *u
}

// Drop removes a cached profile. Called on sign-out and when a fresh read
// proves the document no longer exists.
func (c *ProfileCache) Drop(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, userID)
}
