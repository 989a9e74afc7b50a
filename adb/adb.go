// Package adb abstracts the key-value stores the node can run on.
package adb

import "github.com/pkg/errors"

type DB interface {
	// Index opens (creating it if needed) a named key space.
	Index(string) Index

	View(func(txn Txn) error) error
	Update(func(txn Txn) error) error
	Close() error
}

// Index is the backend-specific handle of a key space.
type Index any

type Txn interface {
	// Get returns nil if the key is not present. The returned slice is only valid inside the transaction.
	Get(Index, []byte) []byte
	Put(Index, []byte, []byte) error
	Del(Index, []byte) error
	ForEach(Index, func(k, v []byte) error) error
	// ForEachInterrupt stops at the first callback returning true.
	ForEachInterrupt(Index, func(k, v []byte) (bool, error)) error
	Entries(Index) (uint64, error)
}

var ErrIndexNotFound = errors.New("index not found")
