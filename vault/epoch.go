// Copyright (c) 2026 Dragnet Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vault

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/dragnetfi/dragnet-core/state"
)

// _advisoryEpochAge is the age past which SuggestFinalize hints that a keeper
// should finalize the open epoch. Advisory only, conversions never wait on it.
const _advisoryEpochAge = time.Hour

// epoch groups the conversions executed while it was open. A condensed epoch
// keeps its aggregate total but drops the per-conversion detail; its id stays
// a valid historical key forever.
type epoch struct {
	id               uint64
	totalValue       *big.Int
	conversionValues []*big.Int
	startedAt        uint64
	condensed        bool
	compressedInto   uint64
}

type epochSer struct {
	ID               uint64
	TotalValue       *big.Int
	ConversionValues []*big.Int
	StartedAt        uint64
	Condensed        bool
	CompressedInto   uint64
}

func newEpoch(id uint64) *epoch {
	return &epoch{id: id, totalValue: big.NewInt(0)}
}

// Serialize serializes an epoch into bytes
func (e *epoch) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(&epochSer{
		ID:               e.id,
		TotalValue:       e.totalValue,
		ConversionValues: e.conversionValues,
		StartedAt:        e.startedAt,
		Condensed:        e.condensed,
		CompressedInto:   e.compressedInto,
	})
}

// Deserialize deserializes bytes into an epoch
func (e *epoch) Deserialize(data []byte) error {
	var gen epochSer
	if err := rlp.DecodeBytes(data, &gen); err != nil {
		return err
	}
	e.id = gen.ID
	e.totalValue = gen.TotalValue
	e.conversionValues = gen.ConversionValues
	e.startedAt = gen.StartedAt
	e.condensed = gen.Condensed
	e.compressedInto = gen.CompressedInto
	return nil
}

// epochIndex tracks the open epoch id and the lower bound of the
// un-condensed window
type epochIndex struct {
	current     uint64
	windowStart uint64
}

type epochIndexSer struct {
	Current     uint64
	WindowStart uint64
}

// Serialize serializes the epoch index into bytes
func (i *epochIndex) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(&epochIndexSer{
		Current:     i.current,
		WindowStart: i.windowStart,
	})
}

// Deserialize deserializes bytes into the epoch index
func (i *epochIndex) Deserialize(data []byte) error {
	var gen epochIndexSer
	if err := rlp.DecodeBytes(data, &gen); err != nil {
		return err
	}
	i.current = gen.Current
	i.windowStart = gen.WindowStart
	return nil
}

// EpochInfo is the query surface of an epoch. ConversionValues is nil for
// condensed epochs, by contract.
type EpochInfo struct {
	ID               uint64
	TotalValue       *big.Int
	ConversionValues []*big.Int
	Condensed        bool
	CompressedInto   uint64
}

// FinalizeResult carries the outcome of an epoch finalization.
type FinalizeResult struct {
	EpochID   uint64
	Reward    *big.Int
	Condensed uint64
	Events    []*Event
}

// FinalizeEpoch closes the open epoch, starts the next one and, once the
// un-condensed window grows past the configured bound, condenses the oldest
// epoch in the window. The keeper reward is computed here and paid by the
// facade after commit under the non-blocking policy. Callable by anyone.
func (p *Protocol) FinalizeEpoch(sm state.Manager, caller common.Address) (*FinalizeResult, error) {
	var idx epochIndex
	if err := p.state(sm, _epochIndexKey, &idx); err != nil {
		return nil, err
	}
	cur, err := p.epochAt(sm, idx.current)
	if err != nil {
		return nil, err
	}
	if cur.totalValue.Sign() == 0 {
		return nil, errors.Wrapf(ErrEmptyEpoch, "epoch %d", idx.current)
	}
	var a admin
	if err := p.state(sm, _adminKey, &a); err != nil {
		return nil, err
	}
	res := &FinalizeResult{
		EpochID: idx.current,
		Reward:  big.NewInt(0),
		Events:  []*Event{{Type: EventEpochFinalized, Amount: cur.totalValue}},
	}
	// Keeper reward, clipped to what the incentive pool actually holds.
	reward := new(big.Int).Mul(cur.totalValue, new(big.Int).SetUint64(a.keeperRewardBps))
	reward.Div(reward, big.NewInt(10000))
	if reward.Sign() > 0 {
		pools, err := p.PoolBalances(sm)
		if err != nil {
			return nil, err
		}
		if available := pools[PoolOperatorIncentive].Balance; reward.Cmp(available) > 0 {
			reward.Set(available)
		}
	}
	if reward.Sign() > 0 {
		if err := p.debitPool(sm, PoolOperatorIncentive, reward); err != nil {
			return nil, err
		}
		res.Reward = reward
	}
	if err := p.putState(sm, epochKey(cur.id), cur); err != nil {
		return nil, err
	}
	idx.current++
	if idx.current-idx.windowStart+1 > a.epochWindow {
		condensed, err := p.condenseEpoch(sm, idx.windowStart)
		if err != nil {
			return nil, err
		}
		res.Condensed = condensed
		res.Events = append(res.Events, &Event{Type: EventEpochCondensed, Amount: big.NewInt(0)})
		idx.windowStart++
	}
	if err := p.putState(sm, _epochIndexKey, &idx); err != nil {
		return nil, err
	}
	return res, nil
}

// Epoch returns the query surface of the given epoch id
func (p *Protocol) Epoch(sr state.Reader, id uint64) (*EpochInfo, error) {
	var idx epochIndex
	if err := p.state(sr, _epochIndexKey, &idx); err != nil {
		return nil, err
	}
	if id == 0 || id > idx.current {
		return nil, errors.Wrapf(ErrUnknownEpoch, "epoch %d, current %d", id, idx.current)
	}
	e, err := p.epochAt(sr, id)
	if err != nil {
		return nil, err
	}
	info := &EpochInfo{
		ID:             e.id,
		TotalValue:     e.totalValue,
		Condensed:      e.condensed,
		CompressedInto: e.compressedInto,
	}
	if !e.condensed {
		info.ConversionValues = e.conversionValues
	}
	return info, nil
}

// CurrentEpoch returns the open epoch id
func (p *Protocol) CurrentEpoch(sr state.Reader) (uint64, error) {
	var idx epochIndex
	if err := p.state(sr, _epochIndexKey, &idx); err != nil {
		return 0, err
	}
	return idx.current, nil
}

// SuggestFinalize reports whether a keeper should finalize the open epoch.
// The hint never gates conversions or finalizations.
func (p *Protocol) SuggestFinalize(sr state.Reader, now time.Time) (bool, error) {
	var idx epochIndex
	if err := p.state(sr, _epochIndexKey, &idx); err != nil {
		return false, err
	}
	cur, err := p.epochAt(sr, idx.current)
	if err != nil {
		return false, err
	}
	if cur.totalValue.Sign() == 0 {
		return false, nil
	}
	age := now.Unix() - int64(cur.startedAt)
	return age >= int64(_advisoryEpochAge/time.Second), nil
}

// accumulateEpochValue adds a conversion's value to the open epoch
func (p *Protocol) accumulateEpochValue(sm state.Manager, value *big.Int, now time.Time) error {
	var idx epochIndex
	if err := p.state(sm, _epochIndexKey, &idx); err != nil {
		return err
	}
	cur, err := p.epochAt(sm, idx.current)
	if err != nil {
		return err
	}
	if cur.totalValue.Sign() == 0 {
		cur.startedAt = uint64(now.Unix())
	}
	cur.totalValue = new(big.Int).Add(cur.totalValue, value)
	cur.conversionValues = append(cur.conversionValues, value)
	return p.putState(sm, epochKey(cur.id), cur)
}

func (p *Protocol) condenseEpoch(sm state.Manager, id uint64) (uint64, error) {
	e, err := p.epochAt(sm, id)
	if err != nil {
		return 0, err
	}
	e.condensed = true
	e.conversionValues = nil
	e.compressedInto = id + 1
	return id, p.putState(sm, epochKey(id), e)
}

func (p *Protocol) epochAt(sr state.Reader, id uint64) (*epoch, error) {
	e := epoch{}
	switch err := p.state(sr, epochKey(id), &e); errors.Cause(err) {
	case nil:
		return &e, nil
	case state.ErrStateNotExist:
		// An epoch with no conversions yet has no record on disk.
		return newEpoch(id), nil
	default:
		return nil, err
	}
}
