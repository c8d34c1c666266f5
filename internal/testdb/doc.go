// Package testdb provides helpers for integration tests that need a real
// PostgreSQL database. Tests using it are skipped unless a database URL is
// configured.
package testdb
