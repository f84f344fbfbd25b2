// Copyright (c) 2026 Dragnet Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package db

import (
	"context"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/dragnetfi/dragnet-core/pkg/lifecycle"
)

const _fileMode = 0600

// boltDB is KVStore implementation based bolt DB
type boltDB struct {
	lifecycle.Readiness
	db         *bolt.DB
	path       string
	numRetries uint8
}

// NewBoltDB instantiates a bolt DB backed KVStore at the given path
func NewBoltDB(path string) KVStore {
	return &boltDB{
		path:       path,
		numRetries: 3,
	}
}

// Start opens the BoltDB (creates new file if not existing yet)
func (b *boltDB) Start(_ context.Context) error {
	db, err := bolt.Open(b.path, _fileMode, nil)
	if err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	b.db = db
	return b.TurnOn()
}

// Stop closes the BoltDB
func (b *boltDB) Stop(_ context.Context) error {
	if err := b.TurnOff(); err != nil {
		return err
	}
	if err := b.db.Close(); err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	return nil
}

// Put inserts a <key, value> record
func (b *boltDB) Put(namespace string, key, value []byte) (err error) {
	if !b.IsReady() {
		return ErrIO
	}
	for c := uint8(0); c < b.numRetries; c++ {
		if err = b.db.Update(func(tx *bolt.Tx) error {
			bucket, err := tx.CreateBucketIfNotExists([]byte(namespace))
			if err != nil {
				return err
			}
			return bucket.Put(key, value)
		}); err == nil {
			break
		}
	}
	if err != nil {
		err = errors.Wrap(ErrIO, err.Error())
	}
	return err
}

// Get retrieves a record
func (b *boltDB) Get(namespace string, key []byte) ([]byte, error) {
	if !b.IsReady() {
		return nil, ErrIO
	}
	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(namespace))
		if bucket == nil {
			return errors.Wrapf(ErrBucketNotExist, "bucket = %s doesn't exist", namespace)
		}
		v := bucket.Get(key)
		if v == nil {
			return errors.Wrapf(ErrNotExist, "key = %x doesn't exist", key)
		}
		value = make([]byte, len(v))
		copy(value, v)
		return nil
	})
	if err == nil {
		return value, nil
	}
	cause := errors.Cause(err)
	if cause == ErrNotExist || cause == ErrBucketNotExist {
		return nil, err
	}
	return nil, errors.Wrap(ErrIO, err.Error())
}

// Delete deletes a record
func (b *boltDB) Delete(namespace string, key []byte) (err error) {
	if !b.IsReady() {
		return ErrIO
	}
	for c := uint8(0); c < b.numRetries; c++ {
		err = b.db.Update(func(tx *bolt.Tx) error {
			bucket := tx.Bucket([]byte(namespace))
			if bucket == nil {
				return nil
			}
			return bucket.Delete(key)
		})
		if err == nil {
			break
		}
	}
	if err != nil {
		err = errors.Wrap(ErrIO, err.Error())
	}
	return err
}

// WriteBatch commits a batch in a single transaction
func (b *boltDB) WriteBatch(batch *KVStoreBatch) (err error) {
	if !b.IsReady() {
		return ErrIO
	}
	for c := uint8(0); c < b.numRetries; c++ {
		if err = b.db.Update(func(tx *bolt.Tx) error {
			for i := 0; i < batch.Size(); i++ {
				write, err := batch.Entry(i)
				if err != nil {
					return err
				}
				switch write.WriteType() {
				case Put:
					bucket, err := tx.CreateBucketIfNotExists([]byte(write.Namespace()))
					if err != nil {
						return err
					}
					if err := bucket.Put(write.Key(), write.Value()); err != nil {
						return err
					}
				case Delete:
					bucket := tx.Bucket([]byte(write.Namespace()))
					if bucket == nil {
						continue
					}
					if err := bucket.Delete(write.Key()); err != nil {
						return err
					}
				}
			}
			return nil
		}); err == nil {
			break
		}
	}
	if err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	batch.Clear()
	return nil
}
