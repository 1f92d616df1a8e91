package middleware

import "time"

// ExpireJWKSCache backdates the last fetch so the next miss refreshes.
func ExpireJWKSCache(c *JWKSClient) {
	c.mu.Lock()
	c.lastFetch = time.Now().Add(-2 * minRefreshInterval)
	c.mu.Unlock()
}
