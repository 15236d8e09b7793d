// Package store defines the persistence port for operation result history and
// an in-memory implementation of it. The PostgreSQL implementation lives in
// internal/platform/postgres.
package store
