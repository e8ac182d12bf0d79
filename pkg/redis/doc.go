// Package redis provides a Redis client factory with connection retries
// and a healthcheck helper. The service uses Redis for short-lived OAuth
// state records.
package redis
