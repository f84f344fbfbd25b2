// Copyright (c) 2026 Dragnet Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package state

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dragnetfi/dragnet-core/db"
)

type testState struct {
	data []byte
}

func (s *testState) Serialize() ([]byte, error) {
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

func (s *testState) Deserialize(data []byte) error {
	s.data = make([]byte, len(data))
	copy(s.data, data)
	return nil
}

func TestFactoryCommit(t *testing.T) {
	testFunc := func(kv db.KVStore, t *testing.T) {
		r := require.New(t)
		ctx := context.Background()
		sf := NewFactory(kv, "test")
		r.NoError(sf.Start(ctx))
		defer func() { r.NoError(sf.Stop(ctx)) }()

		ws := sf.NewWorkingSet()
		r.NoError(ws.PutState([]byte("k1"), &testState{data: []byte("v1")}))
		r.NoError(ws.PutState([]byte("k2"), &testState{data: []byte("v2")}))

		// Uncommitted writes are invisible to fresh working sets
		var s testState
		r.ErrorIs(sf.NewWorkingSet().State([]byte("k1"), &s), ErrStateNotExist)

		r.NoError(sf.Commit(ws))
		r.Error(sf.Commit(ws))

		ws = sf.NewWorkingSet()
		r.NoError(ws.State([]byte("k1"), &s))
		r.Equal([]byte("v1"), s.data)
		r.NoError(ws.State([]byte("k2"), &s))
		r.Equal([]byte("v2"), s.data)
	}

	t.Run("In-memory KV store", func(t *testing.T) {
		testFunc(db.NewMemKVStore(), t)
	})

	t.Run("Bolt KV store", func(t *testing.T) {
		testPath := filepath.Join(t.TempDir(), "test-factory.bolt")
		testFunc(db.NewBoltDB(testPath), t)
	})
}

func TestWorkingSetReadThrough(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	sf := NewFactory(db.NewMemKVStore(), "test")
	r.NoError(sf.Start(ctx))
	defer func() { r.NoError(sf.Stop(ctx)) }()

	ws := sf.NewWorkingSet()
	r.NoError(ws.PutState([]byte("k"), &testState{data: []byte("committed")}))
	r.NoError(sf.Commit(ws))

	ws = sf.NewWorkingSet()
	var s testState
	// Reads fall through to the committed store
	r.NoError(ws.State([]byte("k"), &s))
	r.Equal([]byte("committed"), s.data)

	// A staged write shadows the committed value within the set
	r.NoError(ws.PutState([]byte("k"), &testState{data: []byte("staged")}))
	r.NoError(ws.State([]byte("k"), &s))
	r.Equal([]byte("staged"), s.data)

	// A staged delete shadows both
	r.NoError(ws.DelState([]byte("k")))
	r.ErrorIs(ws.State([]byte("k"), &s), ErrStateNotExist)

	// Re-putting after a delete resurrects the key
	r.NoError(ws.PutState([]byte("k"), &testState{data: []byte("again")}))
	r.NoError(ws.State([]byte("k"), &s))
	r.Equal([]byte("again"), s.data)
}

func TestWorkingSetDiscard(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	sf := NewFactory(db.NewMemKVStore(), "test")
	r.NoError(sf.Start(ctx))
	defer func() { r.NoError(sf.Stop(ctx)) }()

	ws := sf.NewWorkingSet()
	r.NoError(ws.PutState([]byte("keep"), &testState{data: []byte("v")}))
	r.NoError(sf.Commit(ws))

	// Mutations on a dropped working set leave no trace
	ws = sf.NewWorkingSet()
	r.NoError(ws.PutState([]byte("extra"), &testState{data: []byte("v")}))
	r.NoError(ws.DelState([]byte("keep")))

	ws = sf.NewWorkingSet()
	var s testState
	r.NoError(ws.State([]byte("keep"), &s))
	r.ErrorIs(ws.State([]byte("extra"), &s), ErrStateNotExist)
}

func TestWorkingSetCommitDelete(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	sf := NewFactory(db.NewMemKVStore(), "test")
	r.NoError(sf.Start(ctx))
	defer func() { r.NoError(sf.Stop(ctx)) }()

	ws := sf.NewWorkingSet()
	r.NoError(ws.PutState([]byte("k"), &testState{data: []byte("v")}))
	r.NoError(sf.Commit(ws))

	ws = sf.NewWorkingSet()
	r.NoError(ws.DelState([]byte("k")))
	r.NoError(sf.Commit(ws))

	var s testState
	r.ErrorIs(sf.NewWorkingSet().State([]byte("k"), &s), ErrStateNotExist)
}
