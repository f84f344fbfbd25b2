// Copyright (c) 2026 Dragnet Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vault

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/facebookgo/clock"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/dragnetfi/dragnet-core/pkg/lifecycle"
	"github.com/dragnetfi/dragnet-core/pkg/log"
	"github.com/dragnetfi/dragnet-core/state"
	"github.com/dragnetfi/dragnet-core/venue"
)

// Vault is the public surface of the ledger. Every operation is a single
// atomic state transition: it runs on a working set under the vault mutex and
// either commits in full or leaves no trace. The mutex stands in for the
// transaction atomicity of the environment the design originates from; it
// also makes re-entry through an external transfer impossible.
type Vault struct {
	mu         sync.Mutex
	lc         lifecycle.Lifecycle
	sf         *state.Factory
	protocol   *Protocol
	venue      venue.Venue
	transferor venue.Transferor
	clock      clock.Clock
}

// Option customizes the vault.
type Option func(*Vault)

// WithClock overrides the wall clock, for tests
func WithClock(c clock.Clock) Option {
	return func(v *Vault) { v.clock = c }
}

// New creates a vault over the given state factory, venue and transferor
func New(sf *state.Factory, vn venue.Venue, tr venue.Transferor, opts ...Option) *Vault {
	v := &Vault{
		sf:         sf,
		protocol:   NewProtocol(),
		venue:      vn,
		transferor: tr,
		clock:      clock.New(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.lc.Add(v.sf)
	return v
}

// Start starts the vault's components
func (v *Vault) Start(ctx context.Context) error { return v.lc.OnStart(ctx) }

// Stop stops the vault's components in reverse order
func (v *Vault) Stop(ctx context.Context) error { return v.lc.OnStop(ctx) }

// Initialize writes the genesis configuration. It fails on a vault that has
// already been initialized.
func (v *Vault) Initialize(ctx context.Context, cfg InitConfig) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	ws := v.sf.NewWorkingSet()
	if err := v.protocol.Initialize(ws, cfg); err != nil {
		return err
	}
	return v.sf.Commit(ws)
}

// Contribute accepts an inbound value transfer attributed to the benefactor
func (v *Vault) Contribute(ctx context.Context, caller, benefactor common.Address, amount *big.Int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	ws := v.sf.NewWorkingSet()
	event, err := v.protocol.Contribute(ws, caller, benefactor, amount)
	if err != nil {
		return err
	}
	if err := v.sf.Commit(ws); err != nil {
		return err
	}
	_vaultMtc.WithLabelValues("contribution").Inc()
	log.Logger("vault").Debug("Accepted contribution.",
		zap.String("benefactor", benefactor.Hex()),
		zap.String("amount", event.Amount.String()))
	return nil
}

// Convert sweeps the dragnet into a position and issues shares for the round.
// The operator reward is paid after the round has committed; a refused reward
// payment never unwinds the conversion.
func (v *Vault) Convert(ctx context.Context, caller common.Address, minOut *big.Int, rng venue.Range) (*ConversionResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	ws := v.sf.NewWorkingSet()
	res, err := v.protocol.Convert(ctx, ws, caller, minOut, rng, v.venue, v.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := v.sf.Commit(ws); err != nil {
		return nil, err
	}
	_vaultMtc.WithLabelValues("conversion").Inc()
	res.Events = append(res.Events, v.payReward(caller, res.OperatorReward))
	log.Logger("vault").Info("Converted round.",
		zap.String("caller", caller.Hex()),
		zap.Int("participants", res.Participants),
		zap.String("positionValue", res.PositionValue.String()),
		zap.String("operatorReward", res.OperatorReward.String()))
	return res, nil
}

// Claim pays the caller's unclaimed share of accrued yield. The transfer runs
// after the checkpoint mutation but before commit, so a refused transfer
// fails the whole claim and leaves it retriable. A commit failure after a
// delivered transfer leaves the payee holding the delta with the checkpoint
// unmoved; commit only fails on store I/O errors, which are fatal here and
// not compensated.
func (v *Vault) Claim(ctx context.Context, caller common.Address) (*big.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	ws := v.sf.NewWorkingSet()
	delta, _, err := v.protocol.Claim(ws, caller)
	if err != nil {
		return nil, err
	}
	if ok := v.transferor.Transfer(caller, delta); !ok {
		return nil, errors.Wrapf(ErrTransferFailed, "claim payout of %s to %x", delta, caller)
	}
	if err := v.sf.Commit(ws); err != nil {
		return nil, err
	}
	_vaultMtc.WithLabelValues("claim").Inc()
	log.Logger("vault").Info("Paid claim.",
		zap.String("benefactor", caller.Hex()),
		zap.String("amount", delta.String()))
	return delta, nil
}

// ClaimableAmount returns the benefactor's lifetime claimable value
func (v *Vault) ClaimableAmount(ctx context.Context, benefactor common.Address) (*big.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.protocol.ClaimableAmount(v.sf.NewWorkingSet(), benefactor)
}

// AccrueFees records yield reported by the external position
func (v *Vault) AccrueFees(ctx context.Context, caller common.Address, amount *big.Int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	ws := v.sf.NewWorkingSet()
	if _, err := v.protocol.AccrueFees(ws, caller, amount); err != nil {
		return err
	}
	return v.sf.Commit(ws)
}

// FinalizeEpoch closes the open epoch and pays the keeper reward under the
// non-blocking policy
func (v *Vault) FinalizeEpoch(ctx context.Context, caller common.Address) (*FinalizeResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	ws := v.sf.NewWorkingSet()
	res, err := v.protocol.FinalizeEpoch(ws, caller)
	if err != nil {
		return nil, err
	}
	if err := v.sf.Commit(ws); err != nil {
		return nil, err
	}
	_vaultMtc.WithLabelValues("finalization").Inc()
	res.Events = append(res.Events, v.payReward(caller, res.Reward))
	log.Logger("vault").Info("Finalized epoch.",
		zap.Uint64("epoch", res.EpochID),
		zap.String("keeperReward", res.Reward.String()))
	return res, nil
}

// Reallocate moves capital from the conversion pool into another pool
func (v *Vault) Reallocate(ctx context.Context, caller common.Address, toPool Pool, amount *big.Int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	ws := v.sf.NewWorkingSet()
	if _, err := v.protocol.Reallocate(ws, caller, toPool, amount); err != nil {
		return err
	}
	return v.sf.Commit(ws)
}

// SetRewardRates updates reward parameters, admin only
func (v *Vault) SetRewardRates(ctx context.Context, caller common.Address, base, perParticipant, rewardCap *big.Int, keeperBps uint64, dustThreshold *big.Int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	ws := v.sf.NewWorkingSet()
	if err := v.protocol.SetRewardRates(ws, caller, base, perParticipant, rewardCap, keeperBps, dustThreshold); err != nil {
		return err
	}
	return v.sf.Commit(ws)
}

// SetTargetAsset updates the conversion target asset, admin only
func (v *Vault) SetTargetAsset(ctx context.Context, caller, asset common.Address) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	ws := v.sf.NewWorkingSet()
	if err := v.protocol.SetTargetAsset(ws, caller, asset); err != nil {
		return err
	}
	return v.sf.Commit(ws)
}

// SetPositionRange updates the default position range, admin only
func (v *Vault) SetPositionRange(ctx context.Context, caller common.Address, rng venue.Range) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	ws := v.sf.NewWorkingSet()
	if err := v.protocol.SetPositionRange(ws, caller, rng); err != nil {
		return err
	}
	return v.sf.Commit(ws)
}

// AddCollector registers a collector, admin only
func (v *Vault) AddCollector(ctx context.Context, caller, collector common.Address) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	ws := v.sf.NewWorkingSet()
	if err := v.protocol.AddCollector(ws, caller, collector); err != nil {
		return err
	}
	return v.sf.Commit(ws)
}

// RemoveCollector removes a collector, admin only
func (v *Vault) RemoveCollector(ctx context.Context, caller, collector common.Address) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	ws := v.sf.NewWorkingSet()
	if err := v.protocol.RemoveCollector(ws, caller, collector); err != nil {
		return err
	}
	return v.sf.Commit(ws)
}

// PendingOf returns the benefactor's pending contribution
func (v *Vault) PendingOf(ctx context.Context, benefactor common.Address) (*big.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.protocol.PendingOf(v.sf.NewWorkingSet(), benefactor)
}

// TotalPending returns the total pending contribution of the current round
func (v *Vault) TotalPending(ctx context.Context) (*big.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.protocol.TotalPending(v.sf.NewWorkingSet())
}

// SharesOf returns the benefactor's share balance
func (v *Vault) SharesOf(ctx context.Context, benefactor common.Address) (*big.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.protocol.SharesOf(v.sf.NewWorkingSet(), benefactor)
}

// TotalShares returns total shares issued across all rounds, dust included
func (v *Vault) TotalShares(ctx context.Context) (*big.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.protocol.TotalShares(v.sf.NewWorkingSet())
}

// Dust returns the accumulated issuance rounding remainder
func (v *Vault) Dust(ctx context.Context) (*big.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.protocol.Dust(v.sf.NewWorkingSet())
}

// CheckpointOf returns the benefactor's claim checkpoint
func (v *Vault) CheckpointOf(ctx context.Context, benefactor common.Address) (*big.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.protocol.CheckpointOf(v.sf.NewWorkingSet(), benefactor)
}

// FeesAccrued returns the cumulative yield reported by the external position
func (v *Vault) FeesAccrued(ctx context.Context) (*big.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.protocol.FeesAccrued(v.sf.NewWorkingSet())
}

// PoolBalances returns the treasury audit state
func (v *Vault) PoolBalances(ctx context.Context) (map[Pool]PoolState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.protocol.PoolBalances(v.sf.NewWorkingSet())
}

// Epoch returns the query surface of an epoch
func (v *Vault) Epoch(ctx context.Context, id uint64) (*EpochInfo, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.protocol.Epoch(v.sf.NewWorkingSet(), id)
}

// CurrentEpoch returns the open epoch id
func (v *Vault) CurrentEpoch(ctx context.Context) (uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.protocol.CurrentEpoch(v.sf.NewWorkingSet())
}

// SuggestFinalize reports whether a keeper should finalize the open epoch
func (v *Vault) SuggestFinalize(ctx context.Context) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.protocol.SuggestFinalize(v.sf.NewWorkingSet(), v.clock.Now())
}

// payReward attempts an operator reward payment after the enclosing operation
// has committed. Failure only produces a diagnostic, never an error.
func (v *Vault) payReward(to common.Address, amount *big.Int) *Event {
	if amount == nil || amount.Sign() == 0 {
		return &Event{Type: EventRewardPaid, Benefactor: to, Amount: big.NewInt(0)}
	}
	if ok := v.transferor.Transfer(to, amount); !ok {
		_vaultMtc.WithLabelValues("reward_rejected").Inc()
		log.Logger("vault").Warn("Reward payment rejected by payee.",
			zap.String("payee", to.Hex()),
			zap.String("amount", amount.String()))
		return &Event{Type: EventRewardRejected, Benefactor: to, Amount: amount}
	}
	return &Event{Type: EventRewardPaid, Benefactor: to, Amount: amount}
}
