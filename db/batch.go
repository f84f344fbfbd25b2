// Copyright (c) 2026 Dragnet Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package db

import (
	"sync"

	"github.com/pkg/errors"
)

// WriteType is the type of a batched write
type WriteType uint8

const (
	// Put denotes a write that inserts or updates a record
	Put WriteType = iota
	// Delete denotes a write that deletes a record
	Delete
)

// WriteInfo is a single write in a batch
type WriteInfo struct {
	writeType WriteType
	namespace string
	key       []byte
	value     []byte
}

// WriteType returns the type of the write
func (w *WriteInfo) WriteType() WriteType { return w.writeType }

// Namespace returns the namespace of the write
func (w *WriteInfo) Namespace() string { return w.namespace }

// Key returns the key of the write
func (w *WriteInfo) Key() []byte { return w.key }

// Value returns the value of the write
func (w *WriteInfo) Value() []byte { return w.value }

// KVStoreBatch is a batch of writes committed to a KVStore atomically, in the
// order they were staged
type KVStoreBatch struct {
	mu     sync.Mutex
	writes []*WriteInfo
}

// NewBatch returns an empty write batch
func NewBatch() *KVStoreBatch {
	return &KVStoreBatch{}
}

// Put stages an insert/update into the batch
func (b *KVStoreBatch) Put(namespace string, key, value []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writes = append(b.writes, &WriteInfo{
		writeType: Put,
		namespace: namespace,
		key:       key,
		value:     value,
	})
}

// Delete stages a delete into the batch
func (b *KVStoreBatch) Delete(namespace string, key []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writes = append(b.writes, &WriteInfo{
		writeType: Delete,
		namespace: namespace,
		key:       key,
	})
}

// Size returns the number of staged writes
func (b *KVStoreBatch) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.writes)
}

// Entry returns the i-th staged write
func (b *KVStoreBatch) Entry(i int) (*WriteInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i < 0 || i >= len(b.writes) {
		return nil, errors.Errorf("index %d out of range", i)
	}
	return b.writes[i], nil
}

// Clear drops all staged writes
func (b *KVStoreBatch) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writes = nil
}
