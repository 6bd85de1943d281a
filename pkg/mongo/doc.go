// Package mongo provides connection management for the MongoDB instance
// backing the in-app notification inbox.
//
// New dials the server with bounded retries and returns an explicitly
// constructed client; lifecycle is owned by the process entry point.
package mongo
