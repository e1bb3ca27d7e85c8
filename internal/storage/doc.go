// Package storage provides the BBolt index of sealed containers.
//
// Database structure uses two buckets:
//   - config: format version, timestamps and the index ID used as keyring account
//   - index: one JSON Entry per container, keyed by container path
//
// The index never stores passwords, keys or plaintext, so status and
// compact work without a password.
//
// BBolt provides ACID transactions, file locking, and corruption detection.
package storage
