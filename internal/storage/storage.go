// Package storage persists the shop's local storage: small JSON values keyed
// by owner and key, read once per session and overwritten on every change.
package storage

import "context"

// Store defines the operations the shop needs from its local storage.
type Store interface {
	// Get returns the value stored under key for owner. The boolean is false
	// when nothing has been stored yet.
	Get(ctx context.Context, owner, key string) ([]byte, bool, error)

	// Set overwrites the value stored under key for owner.
	Set(ctx context.Context, owner, key string, value []byte) error
}
