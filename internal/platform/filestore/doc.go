// Package filestore stores uploaded images on an afero filesystem. The server
// uses the OS filesystem; tests use an in-memory one.
package filestore
