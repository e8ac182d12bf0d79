// Package mongo provides a MongoDB client factory with connection retries
// and a healthcheck helper for readiness probes.
package mongo
