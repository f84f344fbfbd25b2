// Copyright (c) 2026 Dragnet Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package venue defines the external liquidity venue and value transfer
// contracts the ledger consumes. The venue's internals are opaque to the
// ledger: it only relies on the declared inputs, the minimum-output guarantee
// of Swap, and the position-size result of Deposit.
package venue

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

var (
	// ErrSlippage indicates the swap output fell below the caller's floor
	ErrSlippage = errors.New("swap output below minimum acceptable output")
	// ErrVenueLocked indicates the venue is currently unavailable
	ErrVenueLocked = errors.New("liquidity venue is locked")
	// ErrNoPosition indicates the queried position does not exist
	ErrNoPosition = errors.New("position does not exist")
)

// PriceScale is the fixed-point scale of prices quoted by a venue.
var PriceScale = big.NewInt(1e18)

// Range bounds a liquidity position's active price interval, quoted at
// PriceScale fixed point.
type Range struct {
	Lower *big.Int
	Upper *big.Int
}

// Valid reports whether the range is well formed.
func (r Range) Valid() bool {
	return r.Lower != nil && r.Upper != nil &&
		r.Lower.Sign() > 0 && r.Upper.Cmp(r.Lower) > 0
}

//go:generate mockgen -destination=../test/mock/mock_venue/mock_venue.go -package=mock_venue github.com/dragnetfi/dragnet-core/venue Venue,Transferor

// Venue is an automated-market-maker pool that swaps one asset for another
// and accepts an asset pair as a yield-bearing position.
type Venue interface {
	// Swap trades amountIn of assetIn for assetOut, failing with ErrSlippage
	// when the output would be below minAmountOut
	Swap(ctx context.Context, assetIn, assetOut common.Address, amountIn, minAmountOut *big.Int) (*big.Int, error)
	// Deposit supplies both assets as a position over the given range and
	// returns the liquidity units added
	Deposit(ctx context.Context, assetA, assetB common.Address, amountA, amountB *big.Int, rng Range) (*big.Int, error)
	// CurrentPrice returns the venue's spot price of assetB in assetA terms,
	// at PriceScale fixed point
	CurrentPrice(ctx context.Context) (*big.Int, error)
	// PositionInfo returns the liquidity and range of a position
	PositionInfo(ctx context.Context, positionID uint64) (*big.Int, Range, error)
}

// Transferor moves value to a payee. It never fails with an error; the caller
// must check the returned flag and decide whether the failure blocks the
// enclosing operation.
type Transferor interface {
	Transfer(to common.Address, amount *big.Int) bool
}
