// Copyright (c) 2026 Dragnet Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package venue

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// MemTransferor is an in-memory Transferor that credits payee balances. A
// payee can be marked as rejecting to exercise non-blocking payment paths.
type MemTransferor struct {
	mu        sync.Mutex
	balances  map[common.Address]*big.Int
	rejecting map[common.Address]bool
}

// NewMemTransferor creates an empty in-memory transferor
func NewMemTransferor() *MemTransferor {
	return &MemTransferor{
		balances:  make(map[common.Address]*big.Int),
		rejecting: make(map[common.Address]bool),
	}
}

// SetRejecting marks a payee as refusing transfers
func (t *MemTransferor) SetRejecting(to common.Address, rejecting bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rejecting[to] = rejecting
}

// Transfer credits the payee, or reports failure if the payee rejects
func (t *MemTransferor) Transfer(to common.Address, amount *big.Int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rejecting[to] {
		return false
	}
	if amount == nil || amount.Sign() < 0 {
		return false
	}
	balance, ok := t.balances[to]
	if !ok {
		balance = big.NewInt(0)
	}
	t.balances[to] = new(big.Int).Add(balance, amount)
	return true
}

// BalanceOf returns the payee's credited balance
func (t *MemTransferor) BalanceOf(to common.Address) *big.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	balance, ok := t.balances[to]
	if !ok {
		return big.NewInt(0)
	}
	return new(big.Int).Set(balance)
}
