// Copyright (c) 2026 Dragnet Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vault

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/dragnetfi/dragnet-core/state"
)

// Pool names a treasury pool.
type Pool uint8

// The treasury segregates held value into three pools so a spike in claim
// activity cannot starve future conversion capital and vice versa.
const (
	// PoolConversion holds capital awaiting the next conversion round
	PoolConversion Pool = iota
	// PoolClaimPayout funds claim payouts
	PoolClaimPayout
	// PoolOperatorIncentive funds epoch-finalization rewards
	PoolOperatorIncentive

	_numPools = 3
)

// String implements fmt.Stringer
func (pl Pool) String() string {
	switch pl {
	case PoolConversion:
		return "conversion"
	case PoolClaimPayout:
		return "claimPayout"
	case PoolOperatorIncentive:
		return "operatorIncentive"
	default:
		return "unknown"
	}
}

// PoolState is the audit surface of a single pool: its live balance plus the
// lifetime allocated and withdrawn counters. allocated >= withdrawn always.
type PoolState struct {
	Balance   *big.Int
	Allocated *big.Int
	Withdrawn *big.Int
}

// treasury stores the three pool states
type treasury struct {
	pools [_numPools]PoolState
}

type poolSer struct {
	Balance   *big.Int
	Allocated *big.Int
	Withdrawn *big.Int
}

type treasurySer struct {
	Pools []poolSer
}

func newTreasury() *treasury {
	t := &treasury{}
	for i := range t.pools {
		t.pools[i] = PoolState{
			Balance:   big.NewInt(0),
			Allocated: big.NewInt(0),
			Withdrawn: big.NewInt(0),
		}
	}
	return t
}

// Serialize serializes the treasury state into bytes
func (t *treasury) Serialize() ([]byte, error) {
	gen := treasurySer{Pools: make([]poolSer, _numPools)}
	for i, pl := range t.pools {
		gen.Pools[i] = poolSer{
			Balance:   pl.Balance,
			Allocated: pl.Allocated,
			Withdrawn: pl.Withdrawn,
		}
	}
	return rlp.EncodeToBytes(&gen)
}

// Deserialize deserializes bytes into the treasury state
func (t *treasury) Deserialize(data []byte) error {
	var gen treasurySer
	if err := rlp.DecodeBytes(data, &gen); err != nil {
		return err
	}
	if len(gen.Pools) != _numPools {
		return errors.Errorf("treasury holds %d pools, want %d", len(gen.Pools), _numPools)
	}
	for i, pl := range gen.Pools {
		t.pools[i] = PoolState{
			Balance:   pl.Balance,
			Allocated: pl.Allocated,
			Withdrawn: pl.Withdrawn,
		}
	}
	return nil
}

// Reallocate moves capital out of the conversion pool into another pool. The
// source is fixed to the conversion pool so the payout and incentive reserves
// can never be drained into each other. Admin only.
func (p *Protocol) Reallocate(
	sm state.Manager,
	caller common.Address,
	toPool Pool,
	amount *big.Int,
) (*Event, error) {
	if _, err := p.assertAdmin(sm, caller); err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, errors.Wrap(ErrZeroAmount, "reallocation")
	}
	if toPool != PoolClaimPayout && toPool != PoolOperatorIncentive {
		return nil, errors.Wrapf(ErrUnknownPool, "reallocation target %d", toPool)
	}
	if err := p.debitPool(sm, PoolConversion, amount); err != nil {
		return nil, err
	}
	if err := p.creditPool(sm, toPool, amount); err != nil {
		return nil, err
	}
	return &Event{Type: EventReallocation, Amount: amount}, nil
}

// PoolBalances returns the audit state of all pools
func (p *Protocol) PoolBalances(sr state.Reader) (map[Pool]PoolState, error) {
	var t treasury
	if err := p.state(sr, _treasuryKey, &t); err != nil {
		return nil, err
	}
	out := make(map[Pool]PoolState, _numPools)
	for i := range t.pools {
		out[Pool(i)] = t.pools[i]
	}
	return out, nil
}

func (p *Protocol) creditPool(sm state.Manager, pool Pool, amount *big.Int) error {
	var t treasury
	if err := p.state(sm, _treasuryKey, &t); err != nil {
		return err
	}
	ps := &t.pools[pool]
	ps.Balance = new(big.Int).Add(ps.Balance, amount)
	ps.Allocated = new(big.Int).Add(ps.Allocated, amount)
	return p.putState(sm, _treasuryKey, &t)
}

func (p *Protocol) debitPool(sm state.Manager, pool Pool, amount *big.Int) error {
	var t treasury
	if err := p.state(sm, _treasuryKey, &t); err != nil {
		return err
	}
	ps := &t.pools[pool]
	if ps.Balance.Cmp(amount) < 0 {
		return errors.Wrapf(ErrInsufficientPool, "%s pool holds %s, need %s", pool, ps.Balance, amount)
	}
	ps.Balance = new(big.Int).Sub(ps.Balance, amount)
	ps.Withdrawn = new(big.Int).Add(ps.Withdrawn, amount)
	return p.putState(sm, _treasuryKey, &t)
}
