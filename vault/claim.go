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

// shareLedger stores the global share accounting. totalShares always equals
// the sum of all benefactor shares plus dust. feesAccrued is the cumulative
// yield reported by the external position and never decreases; feesPaid is
// the cumulative amount paid out via claims.
type shareLedger struct {
	totalShares *big.Int
	dust        *big.Int
	feesAccrued *big.Int
	feesPaid    *big.Int
}

type shareLedgerSer struct {
	TotalShares *big.Int
	Dust        *big.Int
	FeesAccrued *big.Int
	FeesPaid    *big.Int
}

func newShareLedger() *shareLedger {
	return &shareLedger{
		totalShares: big.NewInt(0),
		dust:        big.NewInt(0),
		feesAccrued: big.NewInt(0),
		feesPaid:    big.NewInt(0),
	}
}

// Serialize serializes the share ledger into bytes
func (l *shareLedger) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(&shareLedgerSer{
		TotalShares: l.totalShares,
		Dust:        l.dust,
		FeesAccrued: l.feesAccrued,
		FeesPaid:    l.feesPaid,
	})
}

// Deserialize deserializes bytes into the share ledger
func (l *shareLedger) Deserialize(data []byte) error {
	var gen shareLedgerSer
	if err := rlp.DecodeBytes(data, &gen); err != nil {
		return err
	}
	l.totalShares = gen.TotalShares
	l.dust = gen.Dust
	l.feesAccrued = gen.FeesAccrued
	l.feesPaid = gen.FeesPaid
	return nil
}

// shareAccount stores a benefactor's shares and claim checkpoint. The
// checkpoint records the share value at the last claim; the next claim pays
// exactly the difference and moves the checkpoint up to it, never past it.
type shareAccount struct {
	shares     *big.Int
	checkpoint *big.Int
}

type shareAccountSer struct {
	Shares     *big.Int
	Checkpoint *big.Int
}

func newShareAccount() *shareAccount {
	return &shareAccount{
		shares:     big.NewInt(0),
		checkpoint: big.NewInt(0),
	}
}

// Serialize serializes a share account into bytes
func (a *shareAccount) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(&shareAccountSer{
		Shares:     a.shares,
		Checkpoint: a.checkpoint,
	})
}

// Deserialize deserializes bytes into a share account
func (a *shareAccount) Deserialize(data []byte) error {
	var gen shareAccountSer
	if err := rlp.DecodeBytes(data, &gen); err != nil {
		return err
	}
	a.shares = gen.Shares
	a.checkpoint = gen.Checkpoint
	return nil
}

// ClaimableAmount returns the benefactor's lifetime share of accrued yield,
// feesAccrued * shares / totalShares with truncating division. It never
// iterates conversion history, so its cost does not grow with the number of
// rounds or benefactors.
func (p *Protocol) ClaimableAmount(sr state.Reader, benefactor common.Address) (*big.Int, error) {
	var l shareLedger
	if err := p.state(sr, _shareLedgerKey, &l); err != nil {
		return nil, err
	}
	if l.totalShares.Sign() == 0 {
		return big.NewInt(0), nil
	}
	acct, err := p.shareAccount(sr, benefactor)
	if err != nil {
		return nil, err
	}
	claimable := new(big.Int).Mul(l.feesAccrued, acct.shares)
	return claimable.Div(claimable, l.totalShares), nil
}

// Claim pays the delta between the benefactor's current claimable value and
// the checkpoint recorded at the last claim. The checkpoint moves before any
// value leaves the ledger; the facade only commits the mutation once the
// transfer has succeeded, so a refused transfer leaves no trace.
func (p *Protocol) Claim(sm state.Manager, caller common.Address) (*big.Int, *Event, error) {
	current, err := p.ClaimableAmount(sm, caller)
	if err != nil {
		return nil, nil, err
	}
	acct, err := p.shareAccount(sm, caller)
	if err != nil {
		return nil, nil, err
	}
	delta := new(big.Int).Sub(current, acct.checkpoint)
	if delta.Sign() <= 0 {
		return nil, nil, errors.Wrapf(ErrNothingToClaim, "benefactor %x", caller)
	}
	acct.checkpoint = current
	if err := p.putState(sm, accountKey(caller), acct); err != nil {
		return nil, nil, err
	}
	var l shareLedger
	if err := p.state(sm, _shareLedgerKey, &l); err != nil {
		return nil, nil, err
	}
	l.feesPaid = new(big.Int).Add(l.feesPaid, delta)
	if err := p.putState(sm, _shareLedgerKey, &l); err != nil {
		return nil, nil, err
	}
	if err := p.debitPool(sm, PoolClaimPayout, delta); err != nil {
		return nil, nil, err
	}
	return delta, &Event{Type: EventClaim, Benefactor: caller, Amount: delta}, nil
}

// AccrueFees records yield reported by the external position. The reported
// value funds the claim-payout pool and raises the cumulative accrual counter
// every claim computes against. Restricted to the collector role.
func (p *Protocol) AccrueFees(sm state.Manager, caller common.Address, amount *big.Int) (*Event, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, errors.Wrap(ErrZeroAmount, "fee accrual")
	}
	if err := p.assertCollector(sm, caller); err != nil {
		return nil, err
	}
	var l shareLedger
	if err := p.state(sm, _shareLedgerKey, &l); err != nil {
		return nil, err
	}
	l.feesAccrued = new(big.Int).Add(l.feesAccrued, amount)
	if err := p.putState(sm, _shareLedgerKey, &l); err != nil {
		return nil, err
	}
	if err := p.creditPool(sm, PoolClaimPayout, amount); err != nil {
		return nil, err
	}
	return &Event{Type: EventFeeAccrual, Amount: amount}, nil
}

// SharesOf returns the benefactor's share balance
func (p *Protocol) SharesOf(sr state.Reader, benefactor common.Address) (*big.Int, error) {
	acct, err := p.shareAccount(sr, benefactor)
	if err != nil {
		return nil, err
	}
	return acct.shares, nil
}

// CheckpointOf returns the benefactor's claim checkpoint
func (p *Protocol) CheckpointOf(sr state.Reader, benefactor common.Address) (*big.Int, error) {
	acct, err := p.shareAccount(sr, benefactor)
	if err != nil {
		return nil, err
	}
	return acct.checkpoint, nil
}

// TotalShares returns the total shares issued across all rounds, dust
// included
func (p *Protocol) TotalShares(sr state.Reader) (*big.Int, error) {
	var l shareLedger
	if err := p.state(sr, _shareLedgerKey, &l); err != nil {
		return nil, err
	}
	return l.totalShares, nil
}

// Dust returns the accumulated issuance rounding remainder
func (p *Protocol) Dust(sr state.Reader) (*big.Int, error) {
	var l shareLedger
	if err := p.state(sr, _shareLedgerKey, &l); err != nil {
		return nil, err
	}
	return l.dust, nil
}

// FeesAccrued returns the cumulative yield reported by the external position
func (p *Protocol) FeesAccrued(sr state.Reader) (*big.Int, error) {
	var l shareLedger
	if err := p.state(sr, _shareLedgerKey, &l); err != nil {
		return nil, err
	}
	return l.feesAccrued, nil
}

func (p *Protocol) shareAccount(sr state.Reader, benefactor common.Address) (*shareAccount, error) {
	acct := shareAccount{}
	switch err := p.state(sr, accountKey(benefactor), &acct); errors.Cause(err) {
	case nil:
		return &acct, nil
	case state.ErrStateNotExist:
		return newShareAccount(), nil
	default:
		return nil, err
	}
}
