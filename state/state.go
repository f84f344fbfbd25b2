// Copyright (c) 2026 Dragnet Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package state provides keyed-state access on top of a KV store. Mutations
// accumulate in a working set and reach the underlying store only on Commit,
// so an aborted operation leaves no trace.
package state

import (
	"github.com/pkg/errors"
)

var (
	// ErrStateNotExist indicates the queried state does not exist
	ErrStateNotExist = errors.New("state does not exist")
	// ErrStateSerialization indicates the state cannot be (de)serialized
	ErrStateSerialization = errors.New("state (de)serialization error")
)

// Serializer serializes a state object into bytes
type Serializer interface {
	Serialize() ([]byte, error)
}

// Deserializer deserializes bytes into a state object
type Deserializer interface {
	Deserialize(data []byte) error
}

// Reader reads keyed state
type Reader interface {
	// State reads the state on the given key into s
	State(key []byte, s Deserializer) error
}

// Manager reads and mutates keyed state
type Manager interface {
	Reader
	// PutState writes the state on the given key
	PutState(key []byte, s Serializer) error
	// DelState deletes the state on the given key
	DelState(key []byte) error
}
