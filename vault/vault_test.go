// Copyright (c) 2026 Dragnet Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vault

import (
	"context"
	"math/big"
	"testing"

	"github.com/facebookgo/clock"
	"github.com/stretchr/testify/require"

	"github.com/dragnetfi/dragnet-core/db"
	"github.com/dragnetfi/dragnet-core/state"
	"github.com/dragnetfi/dragnet-core/venue"
)

func testVault(t *testing.T, cfg InitConfig) (*Vault, *venue.SimVenue, *venue.MemTransferor, *clock.Mock) {
	r := require.New(t)
	sf := state.NewFactory(db.NewMemKVStore(), "Vault")
	sim := venue.NewSimVenue(_fundingAsset, _targetAsset, big.NewInt(1e12), big.NewInt(1e12))
	tr := venue.NewMemTransferor()
	mock := clock.NewMock()
	v := New(sf, sim, tr, WithClock(mock))
	ctx := context.Background()
	r.NoError(v.Start(ctx))
	t.Cleanup(func() { r.NoError(v.Stop(ctx)) })
	r.NoError(v.Initialize(ctx, cfg))
	return v, sim, tr, mock
}

func TestVault_EndToEnd(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	cfg := testInitConfig()
	cfg.ConvertRewardBase = big.NewInt(1000)
	cfg.ConvertRewardPerParticipant = big.NewInt(100)
	cfg.ConvertRewardCap = big.NewInt(10000)
	v, _, tr, _ := testVault(t, cfg)
	operator := _benefactorC

	r.NoError(v.Contribute(ctx, _benefactorA, _benefactorA, big.NewInt(30000)))
	r.NoError(v.Contribute(ctx, _benefactorB, _benefactorB, big.NewInt(20000)))
	total, err := v.TotalPending(ctx)
	r.NoError(err)
	r.Equal(big.NewInt(50000), total)

	res, err := v.Convert(ctx, operator, big.NewInt(0), venue.Range{})
	r.NoError(err)
	r.True(res.PositionValue.Sign() > 0)
	// reward = base 1000 + 100 per participant
	r.Equal(big.NewInt(1200), res.OperatorReward)
	r.Equal(big.NewInt(1200), tr.BalanceOf(operator))
	r.Equal(EventRewardPaid, res.Events[len(res.Events)-1].Type)

	// Conservation: every liquidity unit is either a benefactor share or dust
	sharesA, err := v.SharesOf(ctx, _benefactorA)
	r.NoError(err)
	sharesB, err := v.SharesOf(ctx, _benefactorB)
	r.NoError(err)
	dust, err := v.Dust(ctx)
	r.NoError(err)
	totalShares, err := v.TotalShares(ctx)
	r.NoError(err)
	sum := new(big.Int).Add(sharesA, sharesB)
	r.Equal(totalShares, sum.Add(sum, dust))
	r.Equal(res.PositionValue, totalShares)
	r.True(sharesA.Cmp(sharesB) > 0)

	// The dragnet is swept clean and ready for the next round
	total, err = v.TotalPending(ctx)
	r.NoError(err)
	r.Zero(total.Sign())

	// Yield accrues, each benefactor claims its pro-rata slice
	r.NoError(v.AccrueFees(ctx, _collectorAddr, big.NewInt(10000)))
	claimable, err := v.ClaimableAmount(ctx, _benefactorA)
	r.NoError(err)
	want := new(big.Int).Mul(big.NewInt(10000), sharesA)
	want.Div(want, totalShares)
	r.Equal(want, claimable)

	paid, err := v.Claim(ctx, _benefactorA)
	r.NoError(err)
	r.Equal(claimable, paid)
	r.Equal(claimable, tr.BalanceOf(_benefactorA))
	_, err = v.Claim(ctx, _benefactorA)
	r.ErrorIs(err, ErrNothingToClaim)

	// A second round against the now-existing position still issues shares
	r.NoError(v.Contribute(ctx, _benefactorB, _benefactorB, big.NewInt(40000)))
	res, err = v.Convert(ctx, operator, big.NewInt(0), venue.Range{})
	r.NoError(err)
	r.True(res.PositionValue.Sign() > 0)
	grown, err := v.TotalShares(ctx)
	r.NoError(err)
	r.True(grown.Cmp(totalShares) > 0)

	// Finalize the epoch that absorbed both rounds; the incentive pool is
	// empty so the keeper reward clips to zero
	fin, err := v.FinalizeEpoch(ctx, operator)
	r.NoError(err)
	r.Equal(uint64(1), fin.EpochID)
	r.Zero(fin.Reward.Sign())
	cur, err := v.CurrentEpoch(ctx)
	r.NoError(err)
	r.Equal(uint64(2), cur)
}

func TestVault_ClaimTransferRefused(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	v, _, tr, _ := testVault(t, testInitConfig())

	r.NoError(v.Contribute(ctx, _benefactorA, _benefactorA, big.NewInt(10000)))
	_, err := v.Convert(ctx, _benefactorC, big.NewInt(0), venue.Range{})
	r.NoError(err)
	r.NoError(v.AccrueFees(ctx, _collectorAddr, big.NewInt(500)))

	// A refused transfer fails the claim without consuming it
	tr.SetRejecting(_benefactorA, true)
	_, err = v.Claim(ctx, _benefactorA)
	r.ErrorIs(err, ErrTransferFailed)

	tr.SetRejecting(_benefactorA, false)
	paid, err := v.Claim(ctx, _benefactorA)
	r.NoError(err)
	r.True(paid.Sign() > 0)
	r.Equal(paid, tr.BalanceOf(_benefactorA))
}

func TestVault_RewardRejectionDoesNotUnwind(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	cfg := testInitConfig()
	cfg.ConvertRewardBase = big.NewInt(100)
	v, _, tr, _ := testVault(t, cfg)
	operator := _benefactorC

	r.NoError(v.Contribute(ctx, _benefactorA, _benefactorA, big.NewInt(10000)))
	tr.SetRejecting(operator, true)

	res, err := v.Convert(ctx, operator, big.NewInt(0), venue.Range{})
	r.NoError(err)
	r.Equal(EventRewardRejected, res.Events[len(res.Events)-1].Type)
	r.Zero(tr.BalanceOf(operator).Sign())

	// The conversion itself stuck
	shares, err := v.SharesOf(ctx, _benefactorA)
	r.NoError(err)
	r.True(shares.Sign() > 0)
}

func TestVault_ConvertOnLockedVenue(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	v, sim, _, _ := testVault(t, testInitConfig())

	r.NoError(v.Contribute(ctx, _benefactorA, _benefactorA, big.NewInt(10000)))
	sim.SetLocked(true)
	_, err := v.Convert(ctx, _benefactorC, big.NewInt(0), venue.Range{})
	r.ErrorIs(err, venue.ErrVenueLocked)

	// The round stays retriable once the venue unlocks
	sim.SetLocked(false)
	res, err := v.Convert(ctx, _benefactorC, big.NewInt(0), venue.Range{})
	r.NoError(err)
	r.True(res.PositionValue.Sign() > 0)
}

func TestVault_ConvertBelowRange(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	v, sim, _, _ := testVault(t, testInitConfig())

	// First round at parity establishes the position
	r.NoError(v.Contribute(ctx, _benefactorA, _benefactorA, big.NewInt(10000)))
	_, err := v.Convert(ctx, _benefactorC, big.NewInt(0), venue.Range{})
	r.NoError(err)

	// A large trade pushes the venue price under the position's lower bound
	_, err = sim.Swap(ctx, _fundingAsset, _targetAsset, big.NewInt(5e11), big.NewInt(0))
	r.NoError(err)
	price, err := sim.CurrentPrice(ctx)
	r.NoError(err)
	r.True(price.Cmp(testRange().Lower) < 0)

	// The next round swaps nothing and deposits the funding leg alone
	r.NoError(v.Contribute(ctx, _benefactorB, _benefactorB, big.NewInt(10000)))
	res, err := v.Convert(ctx, _benefactorC, big.NewInt(0), venue.Range{})
	r.NoError(err)
	r.Equal(big.NewInt(10000), res.PositionValue)
	shares, err := v.SharesOf(ctx, _benefactorB)
	r.NoError(err)
	r.Equal(big.NewInt(10000), shares)
}

func TestVault_SuggestFinalize(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	v, _, _, mock := testVault(t, testInitConfig())

	hint, err := v.SuggestFinalize(ctx)
	r.NoError(err)
	r.False(hint)

	r.NoError(v.Contribute(ctx, _benefactorA, _benefactorA, big.NewInt(10000)))
	_, err = v.Convert(ctx, _benefactorC, big.NewInt(0), venue.Range{})
	r.NoError(err)

	hint, err = v.SuggestFinalize(ctx)
	r.NoError(err)
	r.False(hint)

	mock.Add(2 * _advisoryEpochAge)
	hint, err = v.SuggestFinalize(ctx)
	r.NoError(err)
	r.True(hint)
}
