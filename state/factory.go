// Copyright (c) 2026 Dragnet Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package state

import (
	"context"

	"github.com/pkg/errors"

	"github.com/dragnetfi/dragnet-core/db"
)

// Factory hands out working sets over a single namespace of the backing KV
// store and commits them back.
type Factory struct {
	kv        db.KVStore
	namespace string
}

// NewFactory creates a state factory on the given KV store namespace
func NewFactory(kv db.KVStore, namespace string) *Factory {
	return &Factory{
		kv:        kv,
		namespace: namespace,
	}
}

// Start starts the backing store
func (sf *Factory) Start(ctx context.Context) error { return sf.kv.Start(ctx) }

// Stop stops the backing store
func (sf *Factory) Stop(ctx context.Context) error { return sf.kv.Stop(ctx) }

// NewWorkingSet returns a fresh working set on top of the committed state
func (sf *Factory) NewWorkingSet() *WorkingSet {
	return &WorkingSet{
		kv:        sf.kv,
		namespace: sf.namespace,
		dirty:     make(map[string][]byte),
		deleted:   make(map[string]struct{}),
	}
}

// Commit writes all changes staged in the working set to the store in one
// batch. The working set must not be reused afterwards.
func (sf *Factory) Commit(ws *WorkingSet) error {
	if ws.committed {
		return errors.New("working set has already been committed")
	}
	batch := db.NewBatch()
	for _, key := range ws.order {
		if _, ok := ws.deleted[key]; ok {
			batch.Delete(sf.namespace, []byte(key))
			continue
		}
		batch.Put(sf.namespace, []byte(key), ws.dirty[key])
	}
	if err := sf.kv.WriteBatch(batch); err != nil {
		return errors.Wrap(err, "failed to commit working set")
	}
	ws.committed = true
	return nil
}
