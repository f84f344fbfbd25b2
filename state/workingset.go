// Copyright (c) 2026 Dragnet Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package state

import (
	"github.com/pkg/errors"

	"github.com/dragnetfi/dragnet-core/db"
)

// WorkingSet buffers state mutations on top of the committed state. Reads see
// buffered writes first, then fall through to the store. Dropping a working
// set without committing discards every staged mutation.
type WorkingSet struct {
	kv        db.KVStore
	namespace string
	dirty     map[string][]byte
	deleted   map[string]struct{}
	order     []string
	committed bool
}

// State reads the state on the given key into s
func (ws *WorkingSet) State(key []byte, s Deserializer) error {
	k := string(key)
	if _, ok := ws.deleted[k]; ok {
		return errors.Wrapf(ErrStateNotExist, "key = %x", key)
	}
	if data, ok := ws.dirty[k]; ok {
		if err := s.Deserialize(data); err != nil {
			return errors.Wrapf(ErrStateSerialization, "failed to deserialize state on key %x: %v", key, err)
		}
		return nil
	}
	data, err := ws.kv.Get(ws.namespace, key)
	if err != nil {
		cause := errors.Cause(err)
		if cause == db.ErrNotExist || cause == db.ErrBucketNotExist {
			return errors.Wrapf(ErrStateNotExist, "key = %x", key)
		}
		return err
	}
	if err := s.Deserialize(data); err != nil {
		return errors.Wrapf(ErrStateSerialization, "failed to deserialize state on key %x: %v", key, err)
	}
	return nil
}

// PutState writes the state on the given key
func (ws *WorkingSet) PutState(key []byte, s Serializer) error {
	data, err := s.Serialize()
	if err != nil {
		return errors.Wrapf(ErrStateSerialization, "failed to serialize state on key %x: %v", key, err)
	}
	k := string(key)
	ws.stage(k)
	delete(ws.deleted, k)
	ws.dirty[k] = data
	return nil
}

// DelState deletes the state on the given key
func (ws *WorkingSet) DelState(key []byte) error {
	k := string(key)
	ws.stage(k)
	delete(ws.dirty, k)
	ws.deleted[k] = struct{}{}
	return nil
}

func (ws *WorkingSet) stage(k string) {
	if _, dirty := ws.dirty[k]; dirty {
		return
	}
	if _, deleted := ws.deleted[k]; deleted {
		return
	}
	ws.order = append(ws.order, k)
}
