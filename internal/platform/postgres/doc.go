// Package postgres stores users and places in PostgreSQL through database/sql
// with the pgx driver. A user's place list lives in its own user_places table
// so that creating or deleting a place can update it in the same transaction.
package postgres
