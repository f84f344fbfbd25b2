// Copyright (c) 2026 Dragnet Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package venue

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	_assetA = common.HexToAddress("0x0000000000000000000000000000000000000001")
	_assetB = common.HexToAddress("0x0000000000000000000000000000000000000002")
	_assetC = common.HexToAddress("0x0000000000000000000000000000000000000003")
)

func TestSimVenueSwap(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	v := NewSimVenue(_assetA, _assetB, big.NewInt(1e6), big.NewInt(1e6))

	// out = 1e6 * 997 / (1e6 + 997) after the 30bps fee
	out, err := v.Swap(ctx, _assetA, _assetB, big.NewInt(1000), big.NewInt(0))
	r.NoError(err)
	r.Equal(big.NewInt(996), out)

	// The pool moved, so the quoted reserve ratio left parity
	price, err := v.CurrentPrice(ctx)
	r.NoError(err)
	r.True(price.Cmp(PriceScale) < 0)

	// Reverse direction trades against the other reserve
	out, err = v.Swap(ctx, _assetB, _assetA, big.NewInt(1000), big.NewInt(0))
	r.NoError(err)
	r.True(out.Sign() > 0)

	_, err = v.Swap(ctx, _assetA, _assetC, big.NewInt(1000), big.NewInt(0))
	r.Error(err)
	_, err = v.Swap(ctx, _assetA, _assetB, big.NewInt(0), big.NewInt(0))
	r.Error(err)
}

func TestSimVenueSlippage(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	v := NewSimVenue(_assetA, _assetB, big.NewInt(1e6), big.NewInt(1e6))

	_, err := v.Swap(ctx, _assetA, _assetB, big.NewInt(1000), big.NewInt(997))
	r.ErrorIs(err, ErrSlippage)

	// A failed swap leaves the reserves untouched
	price, err := v.CurrentPrice(ctx)
	r.NoError(err)
	r.Equal(PriceScale, price)
}

func TestSimVenueDeposit(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	v := NewSimVenue(_assetA, _assetB, big.NewInt(1e6), big.NewInt(1e6))
	rng := Range{Lower: big.NewInt(5e17), Upper: big.NewInt(2e18)}

	_, _, err := v.PositionInfo(ctx, 1)
	r.ErrorIs(err, ErrNoPosition)

	liquidity, err := v.Deposit(ctx, _assetA, _assetB, big.NewInt(400), big.NewInt(100), rng)
	r.NoError(err)
	r.Equal(big.NewInt(200), liquidity)

	got, gotRng, err := v.PositionInfo(ctx, 1)
	r.NoError(err)
	r.Equal(big.NewInt(200), got)
	r.Equal(rng, gotRng)

	// Further deposits aggregate into the same position
	_, err = v.Deposit(ctx, _assetA, _assetB, big.NewInt(100), big.NewInt(100), rng)
	r.NoError(err)
	got, _, err = v.PositionInfo(ctx, 1)
	r.NoError(err)
	r.Equal(big.NewInt(300), got)

	_, _, err = v.PositionInfo(ctx, 2)
	r.ErrorIs(err, ErrNoPosition)
	_, err = v.Deposit(ctx, _assetA, _assetB, big.NewInt(1), big.NewInt(1), Range{})
	r.Error(err)
}

func TestSimVenueDepositSingleSided(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	v := NewSimVenue(_assetA, _assetB, big.NewInt(1e6), big.NewInt(1e6))
	rng := Range{Lower: big.NewInt(5e17), Upper: big.NewInt(2e18)}

	// A single-sided deposit credits the lone leg linearly
	liquidity, err := v.Deposit(ctx, _assetA, _assetB, big.NewInt(50), big.NewInt(0), rng)
	r.NoError(err)
	r.Equal(big.NewInt(50), liquidity)
	liquidity, err = v.Deposit(ctx, _assetA, _assetB, big.NewInt(0), big.NewInt(70), rng)
	r.NoError(err)
	r.Equal(big.NewInt(70), liquidity)

	got, _, err := v.PositionInfo(ctx, 1)
	r.NoError(err)
	r.Equal(big.NewInt(120), got)

	_, err = v.Deposit(ctx, _assetA, _assetB, big.NewInt(0), big.NewInt(0), rng)
	r.Error(err)
	_, err = v.Deposit(ctx, _assetA, _assetB, big.NewInt(-1), big.NewInt(10), rng)
	r.Error(err)
}

func TestSimVenueLocked(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	v := NewSimVenue(_assetA, _assetB, big.NewInt(1e6), big.NewInt(1e6))
	v.SetLocked(true)

	_, err := v.Swap(ctx, _assetA, _assetB, big.NewInt(10), big.NewInt(0))
	r.ErrorIs(err, ErrVenueLocked)
	_, err = v.Deposit(ctx, _assetA, _assetB, big.NewInt(10), big.NewInt(10), Range{Lower: big.NewInt(1), Upper: big.NewInt(2)})
	r.ErrorIs(err, ErrVenueLocked)
	_, err = v.CurrentPrice(ctx)
	r.ErrorIs(err, ErrVenueLocked)

	v.SetLocked(false)
	_, err = v.CurrentPrice(ctx)
	r.NoError(err)
}

func TestRangeValid(t *testing.T) {
	r := require.New(t)
	r.True(Range{Lower: big.NewInt(1), Upper: big.NewInt(2)}.Valid())
	r.False(Range{}.Valid())
	r.False(Range{Lower: big.NewInt(0), Upper: big.NewInt(2)}.Valid())
	r.False(Range{Lower: big.NewInt(2), Upper: big.NewInt(2)}.Valid())
	r.False(Range{Lower: big.NewInt(3), Upper: big.NewInt(2)}.Valid())
}

func TestMemTransferor(t *testing.T) {
	r := require.New(t)
	tr := NewMemTransferor()
	payee := common.HexToAddress("0x00000000000000000000000000000000000000ee")

	r.Zero(tr.BalanceOf(payee).Sign())
	r.True(tr.Transfer(payee, big.NewInt(10)))
	r.True(tr.Transfer(payee, big.NewInt(5)))
	r.Equal(big.NewInt(15), tr.BalanceOf(payee))

	tr.SetRejecting(payee, true)
	r.False(tr.Transfer(payee, big.NewInt(1)))
	r.Equal(big.NewInt(15), tr.BalanceOf(payee))

	tr.SetRejecting(payee, false)
	r.True(tr.Transfer(payee, big.NewInt(1)))
	r.Equal(big.NewInt(16), tr.BalanceOf(payee))
	r.False(tr.Transfer(payee, nil))
}
