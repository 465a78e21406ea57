// Package db provides database connectivity for vmvault.
//
// This package handles PostgreSQL connections using GORM with an
// explicitly bounded connection pool. The pool is opened once at
// process start and closed on shutdown; request handlers borrow
// connections per operation and return them on every exit path.
package db
