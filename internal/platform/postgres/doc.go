// Package postgres implements the store interfaces on PostgreSQL through the
// pgx stdlib driver and database/sql, and embeds the goose migrations that
// create the schema.
package postgres
