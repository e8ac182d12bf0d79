// Package redisstate backs the OAuth state round-trip with Redis: each
// authorization redirect mints a random token stored with a short TTL and
// the entry intent, consumed exactly once by the callback.
package redisstate
