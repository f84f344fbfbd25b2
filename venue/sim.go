// Copyright (c) 2026 Dragnet Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package venue

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

const (
	_swapFeeBps = 30
	_bpsDenom   = 10000
)

// SimVenue is a deterministic constant-product pool used in tests and local
// runs. Swaps charge a 30bps fee; deposits mint sqrt(amountA*amountB)
// liquidity units into a single aggregated position.
type SimVenue struct {
	mu       sync.Mutex
	assetA   common.Address
	assetB   common.Address
	reserveA *uint256.Int
	reserveB *uint256.Int
	locked   bool

	positionLiquidity *big.Int
	positionRange     Range
	hasPosition       bool
}

// NewSimVenue creates a simulated venue seeded with the given reserves.
func NewSimVenue(assetA, assetB common.Address, reserveA, reserveB *big.Int) *SimVenue {
	ra, _ := uint256.FromBig(reserveA)
	rb, _ := uint256.FromBig(reserveB)
	return &SimVenue{
		assetA:            assetA,
		assetB:            assetB,
		reserveA:          ra,
		reserveB:          rb,
		positionLiquidity: big.NewInt(0),
	}
}

// SetLocked toggles the venue's availability.
func (v *SimVenue) SetLocked(locked bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.locked = locked
}

// Swap trades along the constant-product curve with a 30bps fee
func (v *SimVenue) Swap(
	_ context.Context,
	assetIn, assetOut common.Address,
	amountIn, minAmountOut *big.Int,
) (*big.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.locked {
		return nil, ErrVenueLocked
	}
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, errors.New("swap amount must be positive")
	}
	var reserveIn, reserveOut *uint256.Int
	switch {
	case assetIn == v.assetA && assetOut == v.assetB:
		reserveIn, reserveOut = v.reserveA, v.reserveB
	case assetIn == v.assetB && assetOut == v.assetA:
		reserveIn, reserveOut = v.reserveB, v.reserveA
	default:
		return nil, errors.Errorf("unknown asset pair %x/%x", assetIn, assetOut)
	}

	in, overflow := uint256.FromBig(amountIn)
	if overflow {
		return nil, errors.New("swap amount overflows")
	}
	// out = reserveOut * inAfterFee / (reserveIn + inAfterFee)
	inAfterFee := new(uint256.Int).Mul(in, uint256.NewInt(_bpsDenom-_swapFeeBps))
	inAfterFee.Div(inAfterFee, uint256.NewInt(_bpsDenom))
	numer := new(uint256.Int).Mul(reserveOut, inAfterFee)
	denom := new(uint256.Int).Add(reserveIn, inAfterFee)
	out := new(uint256.Int).Div(numer, denom)

	amountOut := out.ToBig()
	if minAmountOut != nil && amountOut.Cmp(minAmountOut) < 0 {
		return nil, errors.Wrapf(ErrSlippage, "output %s < floor %s", amountOut, minAmountOut)
	}
	reserveIn.Add(reserveIn, in)
	reserveOut.Sub(reserveOut, out)
	return amountOut, nil
}

// Deposit mints liquidity units into position 1: sqrt(amountA*amountB) for a
// two-sided deposit, the lone leg's amount for a single-sided one (a range
// out of the money holds only one asset)
func (v *SimVenue) Deposit(
	_ context.Context,
	assetA, assetB common.Address,
	amountA, amountB *big.Int,
	rng Range,
) (*big.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.locked {
		return nil, ErrVenueLocked
	}
	if assetA != v.assetA || assetB != v.assetB {
		return nil, errors.Errorf("unknown asset pair %x/%x", assetA, assetB)
	}
	if !rng.Valid() {
		return nil, errors.New("invalid position range")
	}
	if amountA == nil || amountB == nil || amountA.Sign() < 0 || amountB.Sign() < 0 {
		return nil, errors.New("deposit amounts must not be negative")
	}
	var liquidity *big.Int
	switch {
	case amountA.Sign() == 0 && amountB.Sign() == 0:
		return nil, errors.New("deposit amounts must not both be zero")
	case amountA.Sign() == 0:
		liquidity = new(big.Int).Set(amountB)
	case amountB.Sign() == 0:
		liquidity = new(big.Int).Set(amountA)
	default:
		liquidity = new(big.Int).Sqrt(new(big.Int).Mul(amountA, amountB))
	}
	ra, _ := uint256.FromBig(amountA)
	rb, _ := uint256.FromBig(amountB)
	v.reserveA.Add(v.reserveA, ra)
	v.reserveB.Add(v.reserveB, rb)
	v.positionLiquidity = new(big.Int).Add(v.positionLiquidity, liquidity)
	v.positionRange = rng
	v.hasPosition = true
	return liquidity, nil
}

// CurrentPrice returns reserveB*PriceScale/reserveA
func (v *SimVenue) CurrentPrice(_ context.Context) (*big.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.locked {
		return nil, ErrVenueLocked
	}
	if v.reserveA.IsZero() {
		return nil, errors.New("venue has no reserves")
	}
	scale, _ := uint256.FromBig(PriceScale)
	price := new(uint256.Int).Mul(v.reserveB, scale)
	price.Div(price, v.reserveA)
	return price.ToBig(), nil
}

// PositionInfo returns the aggregated position
func (v *SimVenue) PositionInfo(_ context.Context, positionID uint64) (*big.Int, Range, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.hasPosition || positionID != 1 {
		return nil, Range{}, errors.Wrapf(ErrNoPosition, "position %d", positionID)
	}
	return new(big.Int).Set(v.positionLiquidity), v.positionRange, nil
}
