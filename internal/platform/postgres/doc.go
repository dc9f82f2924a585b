// Package postgres provides PostgreSQL-backed implementations of the store
// interfaces, using the pgx driver through database/sql. All implementations
// map driver errors onto the store package's sentinel errors.
package postgres
