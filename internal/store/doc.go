// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic. Every store exposes WithTx so that services
// can group writes across stores with RunInTransaction.
package store
