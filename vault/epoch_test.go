// Copyright (c) 2026 Dragnet Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vault

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dragnetfi/dragnet-core/state"
)

func TestProtocol_FinalizeEpoch(t *testing.T) {
	r := require.New(t)
	now := time.Unix(1700000000, 0)
	testProtocol(t, testInitConfig(), func(t *testing.T, sf *state.Factory, p *Protocol) {
		ws := sf.NewWorkingSet()
		// An epoch that saw no conversions cannot be finalized
		_, err := p.FinalizeEpoch(ws, _benefactorC)
		r.ErrorIs(err, ErrEmptyEpoch)

		r.NoError(p.creditPool(ws, PoolOperatorIncentive, big.NewInt(1000)))
		r.NoError(p.accumulateEpochValue(ws, big.NewInt(40000), now))
		r.NoError(p.accumulateEpochValue(ws, big.NewInt(20000), now.Add(time.Minute)))
		r.NoError(sf.Commit(ws))

		ws = sf.NewWorkingSet()
		res, err := p.FinalizeEpoch(ws, _benefactorC)
		r.NoError(err)
		r.NoError(sf.Commit(ws))
		r.Equal(uint64(1), res.EpochID)
		// 50 bps of 60000
		r.Equal(big.NewInt(300), res.Reward)
		r.Zero(res.Condensed)

		ws = sf.NewWorkingSet()
		cur, err := p.CurrentEpoch(ws)
		r.NoError(err)
		r.Equal(uint64(2), cur)
		info, err := p.Epoch(ws, 1)
		r.NoError(err)
		r.Equal(big.NewInt(60000), info.TotalValue)
		r.Equal([]*big.Int{big.NewInt(40000), big.NewInt(20000)}, info.ConversionValues)
		r.False(info.Condensed)
		pools, err := p.PoolBalances(ws)
		r.NoError(err)
		r.Equal(big.NewInt(700), pools[PoolOperatorIncentive].Balance)
	})
}

func TestProtocol_FinalizeEpochRewardClipped(t *testing.T) {
	r := require.New(t)
	testProtocol(t, testInitConfig(), func(t *testing.T, sf *state.Factory, p *Protocol) {
		ws := sf.NewWorkingSet()
		// The pool holds less than the computed reward, so the payout is
		// clipped to the balance rather than failing the finalization
		r.NoError(p.creditPool(ws, PoolOperatorIncentive, big.NewInt(100)))
		r.NoError(p.accumulateEpochValue(ws, big.NewInt(60000), time.Now()))

		res, err := p.FinalizeEpoch(ws, _benefactorC)
		r.NoError(err)
		r.Equal(big.NewInt(100), res.Reward)

		pools, err := p.PoolBalances(ws)
		r.NoError(err)
		r.Zero(pools[PoolOperatorIncentive].Balance.Sign())
	})
}

func TestProtocol_EpochCondensation(t *testing.T) {
	r := require.New(t)
	cfg := testInitConfig()
	cfg.EpochWindow = 2
	cfg.KeeperRewardBps = 0
	testProtocol(t, cfg, func(t *testing.T, sf *state.Factory, p *Protocol) {
		for i := 1; i <= 4; i++ {
			ws := sf.NewWorkingSet()
			r.NoError(p.accumulateEpochValue(ws, big.NewInt(int64(i*10)), time.Now()))
			res, err := p.FinalizeEpoch(ws, _benefactorC)
			r.NoError(err)
			r.Equal(uint64(i), res.EpochID)
			if i >= 2 {
				// The open epoch plus the last closed one fill the window of
				// 2, so every further finalization folds the oldest epoch
				r.Equal(uint64(i-1), res.Condensed)
			} else {
				r.Zero(res.Condensed)
			}
			r.NoError(sf.Commit(ws))
		}

		ws := sf.NewWorkingSet()
		// Condensed epochs keep their total but drop per-conversion detail
		info, err := p.Epoch(ws, 1)
		r.NoError(err)
		r.True(info.Condensed)
		r.Equal(big.NewInt(10), info.TotalValue)
		r.Nil(info.ConversionValues)
		r.Equal(uint64(2), info.CompressedInto)

		info, err = p.Epoch(ws, 4)
		r.NoError(err)
		r.False(info.Condensed)
		r.Equal([]*big.Int{big.NewInt(40)}, info.ConversionValues)

		// Unknown ids are rejected in both directions
		_, err = p.Epoch(ws, 0)
		r.ErrorIs(err, ErrUnknownEpoch)
		_, err = p.Epoch(ws, 99)
		r.ErrorIs(err, ErrUnknownEpoch)
	})
}

func TestProtocol_SuggestFinalize(t *testing.T) {
	r := require.New(t)
	now := time.Unix(1700000000, 0)
	testProtocol(t, testInitConfig(), func(t *testing.T, sf *state.Factory, p *Protocol) {
		ws := sf.NewWorkingSet()
		// Nothing accumulated yet: no hint regardless of age
		hint, err := p.SuggestFinalize(ws, now.Add(24*time.Hour))
		r.NoError(err)
		r.False(hint)

		r.NoError(p.accumulateEpochValue(ws, big.NewInt(10), now))
		hint, err = p.SuggestFinalize(ws, now.Add(time.Minute))
		r.NoError(err)
		r.False(hint)
		hint, err = p.SuggestFinalize(ws, now.Add(time.Hour))
		r.NoError(err)
		r.True(hint)
	})
}
