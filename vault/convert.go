// Copyright (c) 2026 Dragnet Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vault

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/dragnetfi/dragnet-core/state"
	"github.com/dragnetfi/dragnet-core/venue"
)

// ConversionResult carries the outcome of a conversion round.
type ConversionResult struct {
	// PositionValue is the liquidity units added by the round's deposit
	PositionValue *big.Int
	// OperatorReward is the reward owed to the caller, paid by the facade
	// after commit under the non-blocking policy
	OperatorReward *big.Int
	// Participants is the number of benefactors credited this round
	Participants int
	// DustGranted is the dust amount granted this round, zero when below the
	// threshold
	DustGranted *big.Int
	// Events are the ledger events of the round
	Events []*Event
}

// Convert sweeps the entire dragnet: it reserves the operator reward, swaps a
// proportion of the remaining value for the target asset, deposits both legs
// as a position and issues shares to every participant proportional to
// contribution. Either the whole round commits or none of it does; a failed
// swap or a locked venue leaves the dragnet untouched and the round
// retriable.
func (p *Protocol) Convert(
	ctx context.Context,
	sm state.Manager,
	caller common.Address,
	minOut *big.Int,
	rng venue.Range,
	v venue.Venue,
	now time.Time,
) (*ConversionResult, error) {
	var d dragnet
	if err := p.state(sm, _dragnetKey, &d); err != nil {
		return nil, err
	}
	if d.totalPending.Sign() == 0 {
		return nil, ErrNothingPending
	}
	var a admin
	if err := p.state(sm, _adminKey, &a); err != nil {
		return nil, err
	}
	if !rng.Valid() {
		rng = venue.Range{Lower: a.rangeLower, Upper: a.rangeUpper}
	}

	// Operator reward scales with the participant set the round has to walk,
	// capped by policy and by the pending value itself.
	reward := p.operatorReward(&a, len(d.participants), d.totalPending)
	converted := new(big.Int).Sub(d.totalPending, reward)

	// Split the converted value between the two legs of the position.
	swapAmount, err := p.swapPortion(ctx, converted, rng, v)
	if err != nil {
		return nil, err
	}
	// A range entirely above the current price wants the funding asset only;
	// there is nothing to swap and the deposit goes in single-sided.
	amountOut := big.NewInt(0)
	if swapAmount.Sign() > 0 {
		if amountOut, err = v.Swap(ctx, a.fundingAsset, a.targetAsset, swapAmount, minOut); err != nil {
			return nil, errors.Wrap(err, "round aborted at swap")
		}
	}
	keepAmount := new(big.Int).Sub(converted, swapAmount)
	liquidity, err := v.Deposit(ctx, a.fundingAsset, a.targetAsset, keepAmount, amountOut, rng)
	if err != nil {
		return nil, errors.Wrap(err, "round aborted at deposit")
	}
	// A round that mints no liquidity would sweep the dragnet without issuing
	// a single share; abort instead and leave the round retriable.
	if liquidity.Sign() == 0 {
		return nil, errors.Wrap(ErrNoLiquidity, "round aborted at deposit")
	}

	res := &ConversionResult{
		PositionValue:  liquidity,
		OperatorReward: reward,
		Participants:   len(d.participants),
		DustGranted:    big.NewInt(0),
		Events:         []*Event{{Type: EventConversion, Benefactor: caller, Amount: liquidity}},
	}

	// Issue shares proportional to contribution. Division truncates toward
	// zero, so a very small contribution can round to zero shares; the gap is
	// tracked as dust and granted to the round's largest contributor, never
	// redistributed pro-rata.
	issued := big.NewInt(0)
	var (
		largest       common.Address
		largestAmount = big.NewInt(0)
	)
	for _, benefactor := range d.participants {
		pending := pendingAccount{}
		if err := p.state(sm, pendingKey(benefactor), &pending); err != nil {
			return nil, err
		}
		pct := new(big.Int).Mul(pending.amount, _shareScale)
		pct.Div(pct, d.totalPending)
		shares := new(big.Int).Mul(liquidity, pct)
		shares.Div(shares, _shareScale)
		if shares.Sign() > 0 {
			if err := p.issueShares(sm, benefactor, shares); err != nil {
				return nil, err
			}
			issued = new(big.Int).Add(issued, shares)
			res.Events = append(res.Events, &Event{Type: EventSharesIssued, Benefactor: benefactor, Amount: shares})
		}
		if pending.amount.Cmp(largestAmount) > 0 {
			largest = benefactor
			largestAmount = pending.amount
		}
		if err := p.delState(sm, pendingKey(benefactor)); err != nil {
			return nil, err
		}
	}

	var l shareLedger
	if err := p.state(sm, _shareLedgerKey, &l); err != nil {
		return nil, err
	}
	l.totalShares = new(big.Int).Add(l.totalShares, liquidity)
	l.dust = new(big.Int).Add(l.dust, new(big.Int).Sub(liquidity, issued))
	if err := p.putState(sm, _shareLedgerKey, &l); err != nil {
		return nil, err
	}
	if l.dust.Cmp(a.dustThreshold) >= 0 && l.dust.Sign() > 0 {
		granted, err := p.grantDust(sm, largest)
		if err != nil {
			return nil, err
		}
		res.DustGranted = granted
		res.Events = append(res.Events, &Event{Type: EventDustGranted, Benefactor: largest, Amount: granted})
	}

	// Close out the round: the swept value leaves the conversion pool, the
	// dragnet resets and the open epoch absorbs the round's value.
	if err := p.debitPool(sm, PoolConversion, d.totalPending); err != nil {
		return nil, err
	}
	if err := p.putState(sm, _dragnetKey, newDragnet()); err != nil {
		return nil, err
	}
	if err := p.accumulateEpochValue(sm, converted, now); err != nil {
		return nil, err
	}
	return res, nil
}

// operatorReward is a function of estimated round cost: a fixed incentive
// plus a per-participant component, capped by policy and by the pending value
func (p *Protocol) operatorReward(a *admin, participants int, totalPending *big.Int) *big.Int {
	reward := new(big.Int).Mul(a.convertRewardPerParticipant, big.NewInt(int64(participants)))
	reward.Add(reward, a.convertRewardBase)
	if a.convertRewardCap.Sign() > 0 && reward.Cmp(a.convertRewardCap) > 0 {
		reward.Set(a.convertRewardCap)
	}
	if reward.Cmp(totalPending) >= 0 {
		return big.NewInt(0)
	}
	return reward
}

// _positionID is the venue id of the ledger's single aggregated position.
const _positionID = 1

// swapPortion computes how much of the converted value to swap into the
// target asset. With no existing position the split is neutral 50/50;
// otherwise the ratio follows where the venue's price sits inside the
// position's range, which minimizes the leftover unpaired value.
func (p *Protocol) swapPortion(
	ctx context.Context,
	converted *big.Int,
	rng venue.Range,
	v venue.Venue,
) (*big.Int, error) {
	bps := big.NewInt(5000)
	_, existing, err := v.PositionInfo(ctx, _positionID)
	switch errors.Cause(err) {
	case nil:
		price, err := v.CurrentPrice(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "round aborted at price query")
		}
		bps = rangePortionBps(price, existing)
	case venue.ErrNoPosition:
	default:
		return nil, errors.Wrap(err, "round aborted at position query")
	}
	portion := new(big.Int).Mul(converted, bps)
	return portion.Div(portion, big.NewInt(10000)), nil
}

// rangePortionBps maps the current price onto the range as a basis-point
// portion, clamped to [0, 10000]
func rangePortionBps(price *big.Int, rng venue.Range) *big.Int {
	if price.Cmp(rng.Lower) <= 0 {
		return big.NewInt(0)
	}
	if price.Cmp(rng.Upper) >= 0 {
		return big.NewInt(10000)
	}
	span := new(big.Int).Sub(rng.Upper, rng.Lower)
	offset := new(big.Int).Sub(price, rng.Lower)
	bps := offset.Mul(offset, big.NewInt(10000))
	return bps.Div(bps, span)
}

func (p *Protocol) issueShares(sm state.Manager, benefactor common.Address, shares *big.Int) error {
	acct, err := p.shareAccount(sm, benefactor)
	if err != nil {
		return err
	}
	acct.shares = new(big.Int).Add(acct.shares, shares)
	return p.putState(sm, accountKey(benefactor), acct)
}

// grantDust moves the accumulated dust into the benefactor's share balance
// and resets the counter. totalShares is unchanged: the dust was already
// counted when the rounds that produced it were issued.
func (p *Protocol) grantDust(sm state.Manager, benefactor common.Address) (*big.Int, error) {
	var l shareLedger
	if err := p.state(sm, _shareLedgerKey, &l); err != nil {
		return nil, err
	}
	granted := l.dust
	l.dust = big.NewInt(0)
	if err := p.putState(sm, _shareLedgerKey, &l); err != nil {
		return nil, err
	}
	if err := p.issueShares(sm, benefactor, granted); err != nil {
		return nil, err
	}
	return granted, nil
}
