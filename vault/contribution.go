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

// dragnet is the pending-contribution pool accumulated between conversion
// rounds. participants holds every benefactor with a nonzero pending balance
// in the current round, in first-contribution order. The sum of all pending
// balances always equals totalPending.
type dragnet struct {
	totalPending *big.Int
	participants []common.Address
}

type dragnetSer struct {
	TotalPending *big.Int
	Participants []common.Address
}

func newDragnet() *dragnet {
	return &dragnet{totalPending: big.NewInt(0)}
}

// Serialize serializes the dragnet state into bytes
func (d *dragnet) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(&dragnetSer{
		TotalPending: d.totalPending,
		Participants: d.participants,
	})
}

// Deserialize deserializes bytes into the dragnet state
func (d *dragnet) Deserialize(data []byte) error {
	var gen dragnetSer
	if err := rlp.DecodeBytes(data, &gen); err != nil {
		return err
	}
	d.totalPending = gen.TotalPending
	d.participants = gen.Participants
	return nil
}

// pendingAccount stores a benefactor's pending contribution in the current
// round
type pendingAccount struct {
	amount *big.Int
}

type pendingAccountSer struct {
	Amount *big.Int
}

// Serialize serializes a pending account into bytes
func (a *pendingAccount) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(&pendingAccountSer{Amount: a.amount})
}

// Deserialize deserializes bytes into a pending account
func (a *pendingAccount) Deserialize(data []byte) error {
	var gen pendingAccountSer
	if err := rlp.DecodeBytes(data, &gen); err != nil {
		return err
	}
	a.amount = gen.Amount
	return nil
}

// Contribute accepts an inbound value transfer and attributes it to the
// benefactor. The caller may self-attribute; attributing to a third party
// requires the collector role. Beyond the positive-amount constraint this
// operation never fails due to state elsewhere in the ledger.
func (p *Protocol) Contribute(
	sm state.Manager,
	caller, benefactor common.Address,
	amount *big.Int,
) (*Event, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, errors.Wrapf(ErrZeroAmount, "contribution for %x", benefactor)
	}
	if caller != benefactor {
		if err := p.assertCollector(sm, caller); err != nil {
			return nil, err
		}
	}
	var d dragnet
	if err := p.state(sm, _dragnetKey, &d); err != nil {
		return nil, err
	}
	acct := pendingAccount{}
	switch err := p.state(sm, pendingKey(benefactor), &acct); errors.Cause(err) {
	case nil:
	case state.ErrStateNotExist:
		acct.amount = big.NewInt(0)
	default:
		return nil, err
	}
	if acct.amount.Sign() == 0 {
		d.participants = append(d.participants, benefactor)
	}
	acct.amount = new(big.Int).Add(acct.amount, amount)
	d.totalPending = new(big.Int).Add(d.totalPending, amount)
	if err := p.putState(sm, pendingKey(benefactor), &acct); err != nil {
		return nil, err
	}
	if err := p.putState(sm, _dragnetKey, &d); err != nil {
		return nil, err
	}
	// Inbound value is conversion capital until the next round sweeps it.
	if err := p.creditPool(sm, PoolConversion, amount); err != nil {
		return nil, err
	}
	return &Event{Type: EventContribution, Benefactor: benefactor, Amount: amount}, nil
}

// PendingOf returns the benefactor's pending contribution in the current round
func (p *Protocol) PendingOf(sr state.Reader, benefactor common.Address) (*big.Int, error) {
	acct := pendingAccount{}
	switch err := p.state(sr, pendingKey(benefactor), &acct); errors.Cause(err) {
	case nil:
		return acct.amount, nil
	case state.ErrStateNotExist:
		return big.NewInt(0), nil
	default:
		return nil, err
	}
}

// TotalPending returns the total pending contribution of the current round
func (p *Protocol) TotalPending(sr state.Reader) (*big.Int, error) {
	var d dragnet
	if err := p.state(sr, _dragnetKey, &d); err != nil {
		return nil, err
	}
	return d.totalPending, nil
}

// Participants returns the current round's participant set in contribution
// order
func (p *Protocol) Participants(sr state.Reader) ([]common.Address, error) {
	var d dragnet
	if err := p.state(sr, _dragnetKey, &d); err != nil {
		return nil, err
	}
	return d.participants, nil
}
